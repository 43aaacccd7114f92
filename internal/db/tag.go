package db

// Tag 定义了标签模型
type Tag struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex;not null"`
}

func (Tag) TableName() string {
	return "tags"
}

// ArticleTag links an article to one of its tags.
type ArticleTag struct {
	ArticleID int64 `gorm:"primaryKey;autoIncrement:false"`
	TagID     int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

func (ArticleTag) TableName() string {
	return "articletags"
}
