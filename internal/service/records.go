package service

import (
	"sort"
	"strings"
	"time"

	"github.com/conduit/internal/query"
)

// Profile is a user as seen by a viewer.
type Profile struct {
	Username  string
	Bio       *string
	Image     *string
	Following bool
}

// Article carries everything the response layer needs without another query.
type Article struct {
	ID             int64
	Slug           string
	Title          string
	Description    string
	Body           string
	TagList        []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Favorited      bool
	FavoritesCount int64
	Author         Profile
}

// ArticleListResult 包含分页结果和总数
type ArticleListResult struct {
	Articles []Article
	Count    int64
}

type Comment struct {
	ID        int64
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Author    Profile
}

type articleRow struct {
	ID             int64
	Slug           string
	Title          string
	Description    string
	Body           string
	AuthorID       int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AuthorUsername string
	AuthorBio      *string
	AuthorImage    *string
	TagList        string
	FavoritesCount int64
	Favorited      bool
	Following      bool
}

func (r articleRow) record() Article {
	return Article{
		ID:             r.ID,
		Slug:           r.Slug,
		Title:          r.Title,
		Description:    r.Description,
		Body:           r.Body,
		TagList:        splitTags(r.TagList),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Favorited:      r.Favorited,
		FavoritesCount: r.FavoritesCount,
		Author: Profile{
			Username:  r.AuthorUsername,
			Bio:       r.AuthorBio,
			Image:     r.AuthorImage,
			Following: r.Following,
		},
	}
}

type commentRow struct {
	ID             int64
	Body           string
	ArticleID      int64
	AuthorID       int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AuthorUsername string
	AuthorBio      *string
	AuthorImage    *string
	Following      bool
}

func (r commentRow) record() Comment {
	return Comment{
		ID:        r.ID,
		Body:      r.Body,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Author: Profile{
			Username:  r.AuthorUsername,
			Bio:       r.AuthorBio,
			Image:     r.AuthorImage,
			Following: r.Following,
		},
	}
}

type profileRow struct {
	ID        int64
	Username  string
	Bio       *string
	Image     *string
	Following bool
}

func (r profileRow) record() Profile {
	return Profile{Username: r.Username, Bio: r.Bio, Image: r.Image, Following: r.Following}
}

// splitTags turns the aggregated tag column into a sorted list.
func splitTags(joined string) []string {
	if joined == "" {
		return []string{}
	}
	tags := strings.Split(joined, query.TagSeparator)
	sort.Strings(tags)
	return tags
}

// normalizeTags trims, drops empties and removes duplicates, keeping order.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
