package handler

import (
	"net/http"

	"github.com/conduit/internal/service"
	"github.com/gin-gonic/gin"
)

type createArticleRequest struct {
	Article struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Body        string   `json:"body"`
		TagList     []string `json:"tagList"`
	} `json:"article"`
}

type updateArticleRequest struct {
	Article struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Body        *string `json:"body"`
	} `json:"article"`
}

// ListArticles serves the public listing with tag, author and favorited filters.
func (a *API) ListArticles(c *gin.Context) {
	filter, ok := a.articleFilter(c)
	if !ok {
		return
	}
	result, err := a.articles.List(c.Request.Context(), viewerID(c), filter)
	a.respondArticles(c, result, err)
}

// FeedArticles lists articles by authors the caller follows.
func (a *API) FeedArticles(c *gin.Context) {
	filter, ok := a.articleFilter(c)
	if !ok {
		return
	}
	result, err := a.articles.Feed(c.Request.Context(), viewerID(c), filter)
	a.respondArticles(c, result, err)
}

// GetArticle returns one article with a rendered HTML preview of its body.
func (a *API) GetArticle(c *gin.Context) {
	article, err := a.articles.Get(c.Request.Context(), viewerID(c), c.Param("slug"))
	if err != nil {
		a.respondError(c, err)
		return
	}

	payload := newArticleJSON(*article)
	if rendered, err := renderMarkdown(article.Body); err == nil {
		payload.BodyHTML = rendered
	} else {
		_ = c.Error(err)
	}
	c.JSON(http.StatusOK, gin.H{"article": payload})
}

func (a *API) CreateArticle(c *gin.Context) {
	var req createArticleRequest
	if !a.bindJSON(c, &req) {
		return
	}

	article, err := a.articles.Create(c.Request.Context(), viewerID(c), service.ArticleInput{
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
		TagList:     req.Article.TagList,
	})
	a.respondArticle(c, http.StatusCreated, article, err)
}

func (a *API) UpdateArticle(c *gin.Context) {
	var req updateArticleRequest
	if !a.bindJSON(c, &req) {
		return
	}

	article, err := a.articles.Update(c.Request.Context(), viewerID(c), c.Param("slug"), service.ArticleUpdate{
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
	})
	a.respondArticle(c, http.StatusOK, article, err)
}

func (a *API) DeleteArticle(c *gin.Context) {
	if err := a.articles.Delete(c.Request.Context(), viewerID(c), c.Param("slug")); err != nil {
		a.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *API) FavoriteArticle(c *gin.Context) {
	article, err := a.articles.Favorite(c.Request.Context(), viewerID(c), c.Param("slug"))
	a.respondArticle(c, http.StatusOK, article, err)
}

func (a *API) UnfavoriteArticle(c *gin.Context) {
	article, err := a.articles.Unfavorite(c.Request.Context(), viewerID(c), c.Param("slug"))
	a.respondArticle(c, http.StatusOK, article, err)
}

// ListSlugs returns every article slug.
func (a *API) ListSlugs(c *gin.Context) {
	slugs, err := a.articles.Slugs(c.Request.Context())
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slugs": slugs})
}

// articleFilter reads tag, author, favorited (or favourited), limit and offset.
func (a *API) articleFilter(c *gin.Context) (service.ArticleFilter, bool) {
	limit, err := queryInt(c, "limit", 1)
	if err != nil {
		a.respondError(c, err)
		return service.ArticleFilter{}, false
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		a.respondError(c, err)
		return service.ArticleFilter{}, false
	}
	return service.ArticleFilter{
		Tag:       queryString(c, "tag"),
		Author:    queryString(c, "author"),
		Favorited: queryString(c, "favorited", "favourited"),
		Limit:     limit,
		Offset:    offset,
	}, true
}

func (a *API) respondArticle(c *gin.Context, status int, article *service.Article, err error) {
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(status, gin.H{"article": newArticleJSON(*article)})
}

func (a *API) respondArticles(c *gin.Context, result *service.ArticleListResult, err error) {
	if err != nil {
		a.respondError(c, err)
		return
	}
	articles := make([]articleJSON, 0, len(result.Articles))
	for _, article := range result.Articles {
		articles = append(articles, newArticleJSON(article))
	}
	c.JSON(http.StatusOK, gin.H{"articles": articles, "articlesCount": result.Count})
}
