package service

import (
	"context"

	"github.com/conduit/internal/query"
	"gorm.io/gorm"
)

// TagService wraps tag related operations.
type TagService struct {
	run *Runner
}

// NewTagService creates a TagService instance.
func NewTagService(run *Runner) *TagService {
	return &TagService{run: run}
}

// List returns every tag name in ascending order.
func (s *TagService) List(ctx context.Context) ([]string, error) {
	tags := []string{}
	err := s.run.inTx(ctx, "tag.list", func(tx *gorm.DB) error {
		return tx.Raw(query.AllTags).Scan(&tags).Error
	})
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// upsertTags resolves each name to a tag id, creating missing tags, and
// links them to articleID.
func upsertTags(tx *gorm.DB, articleID int64, names []string) error {
	for _, name := range names {
		var tagID int64
		if err := tx.Raw(query.UpsertTag, name).Scan(&tagID).Error; err != nil {
			return err
		}
		if err := tx.Exec(query.LinkArticleTag, articleID, tagID).Error; err != nil {
			return err
		}
	}
	return nil
}
