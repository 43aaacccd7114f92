package service

import (
	"context"
	"strings"

	"github.com/conduit/internal/apperr"
	"github.com/conduit/internal/db"
	"github.com/conduit/internal/query"
	"gorm.io/gorm"
)

// CommentService manages comments, always scoped to a resolved article id.
type CommentService struct {
	run *Runner
}

func NewCommentService(run *Runner) *CommentService {
	return &CommentService{run: run}
}

// Add posts body under the article identified by slug.
func (s *CommentService) Add(ctx context.Context, author int64, slug, body string) (*Comment, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperr.BadRequest("comment body is required")
	}

	var comment Comment
	err := s.run.inTx(ctx, "comment.add", func(tx *gorm.DB) error {
		id, err := articleID(tx, slug)
		if err != nil {
			return err
		}
		row := db.Comment{Body: body, ArticleID: id, AuthorID: author}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		return loadComment(tx, author, id, row.ID, &comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// List returns the article's comments newest first.
func (s *CommentService) List(ctx context.Context, viewer int64, slug string) ([]Comment, error) {
	comments := []Comment{}
	err := s.run.inTx(ctx, "comment.list", func(tx *gorm.DB) error {
		id, err := articleID(tx, slug)
		if err != nil {
			return err
		}
		var rows []commentRow
		if err := tx.Raw(query.CommentsByArticle, nullable(viewer), id).Scan(&rows).Error; err != nil {
			return err
		}
		for _, row := range rows {
			comments = append(comments, row.record())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Get returns one comment of the article.
func (s *CommentService) Get(ctx context.Context, viewer int64, slug string, commentID int64) (*Comment, error) {
	var comment Comment
	err := s.run.inTx(ctx, "comment.get", func(tx *gorm.DB) error {
		id, err := articleID(tx, slug)
		if err != nil {
			return err
		}
		return loadComment(tx, viewer, id, commentID, &comment)
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// Delete removes a comment only when author, article and comment id all match.
func (s *CommentService) Delete(ctx context.Context, author int64, slug string, commentID int64) error {
	return s.run.inTx(ctx, "comment.delete", func(tx *gorm.DB) error {
		id, err := articleID(tx, slug)
		if err != nil {
			return err
		}

		result := tx.Exec(query.DeleteOwnedComment, author, id, commentID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			return nil
		}

		var existing Comment
		if err := loadComment(tx, 0, id, commentID, &existing); err != nil {
			return err
		}
		return apperr.Forbidden("you are not the author of this comment")
	})
}

func loadComment(tx *gorm.DB, viewer, articleID, commentID int64, dst *Comment) error {
	var row commentRow
	result := tx.Raw(query.CommentByID, nullable(viewer), articleID, commentID).Scan(&row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("comment not found")
	}
	*dst = row.record()
	return nil
}
