package db

import "time"

// User is a registered account. Password holds an encoded argon2id hash.
type User struct {
	ID        int64  `gorm:"primaryKey"`
	Username  string `gorm:"uniqueIndex;not null"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null" json:"-"`
	Bio       *string
	Image     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 指定用户表名。
func (User) TableName() string {
	return "users"
}

// Follow records that FollowerID follows FollowedID.
type Follow struct {
	FollowerID int64 `gorm:"primaryKey;autoIncrement:false"`
	FollowedID int64 `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt  time.Time
}

func (Follow) TableName() string {
	return "follows"
}
