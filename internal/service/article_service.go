package service

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/conduit/internal/apperr"
	"github.com/conduit/internal/db"
	"github.com/conduit/internal/query"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ArticleService owns article, tag-link and favorite writes.
type ArticleService struct {
	run *Runner
}

// ArticleFilter 描述文章列表的可选过滤条件
type ArticleFilter struct {
	Tag       *string
	Author    *string
	Favorited *string
	Limit     int
	Offset    int
}

type ArticleInput struct {
	Title       string
	Description string
	Body        string
	TagList     []string
}

// ArticleUpdate carries sparse fields; nil means unchanged.
type ArticleUpdate struct {
	Title       *string
	Description *string
	Body        *string
}

func NewArticleService(run *Runner) *ArticleService {
	return &ArticleService{run: run}
}

// List returns articles newest first, filtered by the optional predicates.
func (s *ArticleService) List(ctx context.Context, viewer int64, filter ArticleFilter) (*ArticleListResult, error) {
	return s.list(ctx, "article.list", viewer, filter, false)
}

// Feed is List restricted to authors viewer follows.
func (s *ArticleService) Feed(ctx context.Context, viewer int64, filter ArticleFilter) (*ArticleListResult, error) {
	if viewer <= 0 {
		return nil, apperr.NotAuthorized("authentication required")
	}
	return s.list(ctx, "article.feed", viewer, filter, true)
}

func (s *ArticleService) list(ctx context.Context, op string, viewer int64, filter ArticleFilter, feed bool) (*ArticleListResult, error) {
	limit, offset, err := paginate(filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}

	var feedArg any
	if feed {
		feedArg = viewer
	}

	result := &ArticleListResult{Articles: []Article{}}
	err = s.run.inTx(ctx, op, func(tx *gorm.DB) error {
		var favoriter any
		if filter.Favorited != nil {
			var user db.User
			err := findUser(tx, query.UserByUsername, *filter.Favorited, &user, "user not found")
			if apperr.Is(err, apperr.KindNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			favoriter = user.ID
		}

		author, tag := optional(filter.Author), optional(filter.Tag)
		if err := tx.Raw(query.ArticleCount, author, tag, favoriter, feedArg).Scan(&result.Count).Error; err != nil {
			return err
		}

		var rows []articleRow
		if err := tx.Raw(query.ArticleList, nullable(viewer), author, tag, favoriter, feedArg, limit, offset).Scan(&rows).Error; err != nil {
			return err
		}
		for _, row := range rows {
			result.Articles = append(result.Articles, row.record())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Get returns one article relative to viewer.
func (s *ArticleService) Get(ctx context.Context, viewer int64, slug string) (*Article, error) {
	var article Article
	err := s.run.inTx(ctx, "article.get", func(tx *gorm.DB) error {
		return loadArticle(tx, viewer, slug, &article)
	})
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// Create inserts the article and its tag links in one transaction.
func (s *ArticleService) Create(ctx context.Context, author int64, input ArticleInput) (*Article, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" || strings.TrimSpace(input.Description) == "" || strings.TrimSpace(input.Body) == "" {
		return nil, apperr.BadRequest("title, description and body are required")
	}
	tags := normalizeTags(input.TagList)

	var article Article
	err := s.run.inTx(ctx, "article.create", func(tx *gorm.DB) error {
		slug, err := uniqueSlug(tx, Slugify(input.Title))
		if err != nil {
			return err
		}

		row := db.Article{
			Slug:        slug,
			Title:       input.Title,
			Description: input.Description,
			Body:        input.Body,
			AuthorID:    author,
		}
		if err := tx.Create(&row).Error; err != nil {
			return conflictOnDuplicate(err, "article slug already taken")
		}
		if err := upsertTags(tx, row.ID, tags); err != nil {
			return err
		}
		return loadArticle(tx, author, slug, &article)
	})
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// Update changes the supplied fields of an article owned by author. A new
// title yields a new slug.
func (s *ArticleService) Update(ctx context.Context, author int64, slug string, update ArticleUpdate) (*Article, error) {
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return nil, apperr.BadRequest("title must not be empty")
	}

	var article Article
	err := s.run.inTx(ctx, "article.update", func(tx *gorm.DB) error {
		set := query.Set().
			Add("title", trimmed(update.Title)).
			Add("description", update.Description).
			Add("body", update.Body)

		if set.Added() == 0 {
			if err := requireOwnership(tx, slug, author); err != nil {
				return err
			}
			return loadArticle(tx, author, slug, &article)
		}

		current := slug
		if update.Title != nil {
			next := Slugify(*update.Title)
			if next != slug {
				var err error
				if next, err = uniqueSlug(tx, next); err != nil {
					return err
				}
				set.Add("slug", next)
				current = next
			}
		}

		setClause, setArgs := set.Add("updated_at", time.Now().UTC()).Finish()
		whereClause, args := query.Where(setArgs...).Add("slug", slug).Add("author_id", author).Finish()

		result := tx.Exec("UPDATE articles "+setClause+whereClause, args...)
		if result.Error != nil {
			return conflictOnDuplicate(result.Error, "article slug already taken")
		}
		if result.RowsAffected == 0 {
			return notOwned(tx, slug)
		}
		return loadArticle(tx, author, current, &article)
	})
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// Delete removes an article owned by author together with its tag links,
// favorites and comments. Tags stay.
func (s *ArticleService) Delete(ctx context.Context, author int64, slug string) error {
	return s.run.inTx(ctx, "article.delete", func(tx *gorm.DB) error {
		id, err := articleID(tx, slug)
		if err != nil {
			return err
		}

		result := tx.Exec(query.DeleteOwnedArticle, id, author)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperr.Forbidden("you are not the author of this article")
		}

		for _, stmt := range []string{query.DeleteArticleTags, query.DeleteArticleFavorites, query.DeleteArticleComments} {
			if err := tx.Exec(stmt, id).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Favorite marks the article as favorited by user.
func (s *ArticleService) Favorite(ctx context.Context, user int64, slug string) (*Article, error) {
	var article Article
	err := s.run.inTx(ctx, "article.favorite", func(tx *gorm.DB) error {
		id, err := articleID(tx, slug)
		if err != nil {
			return err
		}
		if err := tx.Create(&db.Favorite{ArticleID: id, UserID: user}).Error; err != nil {
			return conflictOnDuplicate(err, "article already favorited")
		}
		return loadArticle(tx, user, slug, &article)
	})
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// Unfavorite requires the article to be currently favorited by user.
func (s *ArticleService) Unfavorite(ctx context.Context, user int64, slug string) (*Article, error) {
	var article Article
	err := s.run.inTx(ctx, "article.unfavorite", func(tx *gorm.DB) error {
		id, err := articleID(tx, slug)
		if err != nil {
			return err
		}

		var count int64
		if err := tx.Raw(query.FavoriteExists, id, user).Scan(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperr.Conflict("article is not favorited")
		}
		if err := tx.Exec(query.DeleteFavorite, id, user).Error; err != nil {
			return err
		}
		return loadArticle(tx, user, slug, &article)
	})
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// Slugs lists every article slug, newest first.
func (s *ArticleService) Slugs(ctx context.Context) ([]string, error) {
	slugs := []string{}
	err := s.run.inTx(ctx, "article.slugs", func(tx *gorm.DB) error {
		return tx.Raw(query.AllSlugs).Scan(&slugs).Error
	})
	if err != nil {
		return nil, err
	}
	return slugs, nil
}

// Slugify lowercases title and joins its letter and digit runs with hyphens.
func Slugify(title string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == '\'' || r == '’':
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// uniqueSlug appends a short random suffix when base is empty or taken.
func uniqueSlug(tx *gorm.DB, base string) (string, error) {
	if base != "" {
		var count int64
		if err := tx.Raw(query.SlugTaken, base).Scan(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return base, nil
		}
	}

	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if base == "" {
		return suffix, nil
	}
	return base + "-" + suffix, nil
}

func paginate(limit, offset int) (int, int, error) {
	if limit < 0 || offset < 0 {
		return 0, 0, apperr.BadRequest("limit and offset must not be negative")
	}
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return limit, offset, nil
}

func loadArticle(tx *gorm.DB, viewer int64, slug string, dst *Article) error {
	var row articleRow
	result := tx.Raw(query.ArticleBySlug, nullable(viewer), slug).Scan(&row)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("article not found")
	}
	*dst = row.record()
	return nil
}

func articleID(tx *gorm.DB, slug string) (int64, error) {
	var id int64
	result := tx.Raw(query.ArticleIDBySlug, slug).Scan(&id)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, apperr.NotFound("article not found")
	}
	return id, nil
}

func requireOwnership(tx *gorm.DB, slug string, author int64) error {
	var id int64
	result := tx.Raw(query.ArticleOwnedBy, slug, author).Scan(&id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return notOwned(tx, slug)
	}
	return nil
}

// notOwned distinguishes a missing article from someone else's.
func notOwned(tx *gorm.DB, slug string) error {
	if _, err := articleID(tx, slug); err != nil {
		return err
	}
	return apperr.Forbidden("you are not the author of this article")
}
