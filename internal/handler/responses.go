package handler

import (
	"time"

	"github.com/conduit/internal/db"
	"github.com/conduit/internal/service"
)

type userJSON struct {
	Email    string  `json:"email"`
	Token    string  `json:"token"`
	Username string  `json:"username"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

type profileJSON struct {
	Username  string  `json:"username"`
	Bio       *string `json:"bio"`
	Image     *string `json:"image"`
	Following bool    `json:"following"`
}

type articleJSON struct {
	Slug           string      `json:"slug"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	Body           string      `json:"body"`
	BodyHTML       string      `json:"bodyHtml,omitempty"`
	TagList        []string    `json:"tagList"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
	Favorited      bool        `json:"favorited"`
	FavoritesCount int64       `json:"favoritesCount"`
	Author         profileJSON `json:"author"`
}

type commentJSON struct {
	ID        int64       `json:"id"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
	Body      string      `json:"body"`
	Author    profileJSON `json:"author"`
}

func newUserJSON(user *db.User, token string) userJSON {
	return userJSON{
		Email:    user.Email,
		Token:    token,
		Username: user.Username,
		Bio:      user.Bio,
		Image:    user.Image,
	}
}

func newProfileJSON(p service.Profile) profileJSON {
	return profileJSON{Username: p.Username, Bio: p.Bio, Image: p.Image, Following: p.Following}
}

func newArticleJSON(a service.Article) articleJSON {
	tags := a.TagList
	if tags == nil {
		tags = []string{}
	}
	return articleJSON{
		Slug:           a.Slug,
		Title:          a.Title,
		Description:    a.Description,
		Body:           a.Body,
		TagList:        tags,
		CreatedAt:      a.CreatedAt.UTC(),
		UpdatedAt:      a.UpdatedAt.UTC(),
		Favorited:      a.Favorited,
		FavoritesCount: a.FavoritesCount,
		Author:         newProfileJSON(a.Author),
	}
}

func newCommentJSON(c service.Comment) commentJSON {
	return commentJSON{
		ID:        c.ID,
		CreatedAt: c.CreatedAt.UTC(),
		UpdatedAt: c.UpdatedAt.UTC(),
		Body:      c.Body,
		Author:    newProfileJSON(c.Author),
	}
}
