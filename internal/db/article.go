package db

import "time"

// Article 定义了文章模型
type Article struct {
	ID          int64     `gorm:"primaryKey"`
	Slug        string    `gorm:"uniqueIndex;not null"`
	Title       string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	Body        string    `gorm:"not null"`
	AuthorID    int64     `gorm:"index;not null"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

func (Article) TableName() string {
	return "articles"
}

// Comment belongs to one article and one author.
type Comment struct {
	ID        int64  `gorm:"primaryKey"`
	Body      string `gorm:"not null"`
	ArticleID int64  `gorm:"index;not null"`
	AuthorID  int64  `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Comment) TableName() string {
	return "comments"
}

// Favorite records that UserID favorited ArticleID.
type Favorite struct {
	ArticleID int64 `gorm:"primaryKey;autoIncrement:false"`
	UserID    int64 `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time
}

func (Favorite) TableName() string {
	return "favourite"
}
