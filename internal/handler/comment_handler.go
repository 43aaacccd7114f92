package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type commentRequest struct {
	Comment struct {
		Body string `json:"body"`
	} `json:"comment"`
}

func (a *API) AddComment(c *gin.Context) {
	var req commentRequest
	if !a.bindJSON(c, &req) {
		return
	}
	comment, err := a.comments.Add(c.Request.Context(), viewerID(c), c.Param("slug"), req.Comment.Body)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": newCommentJSON(*comment)})
}

func (a *API) ListComments(c *gin.Context) {
	comments, err := a.comments.List(c.Request.Context(), viewerID(c), c.Param("slug"))
	if err != nil {
		a.respondError(c, err)
		return
	}
	out := make([]commentJSON, 0, len(comments))
	for _, comment := range comments {
		out = append(out, newCommentJSON(comment))
	}
	c.JSON(http.StatusOK, gin.H{"comments": out})
}

func (a *API) GetComment(c *gin.Context) {
	id, err := parseIntParam(c, "id")
	if err != nil {
		a.respondError(c, err)
		return
	}
	comment, err := a.comments.Get(c.Request.Context(), viewerID(c), c.Param("slug"), id)
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comment": newCommentJSON(*comment)})
}

// DeleteComment removes the caller's own comment.
func (a *API) DeleteComment(c *gin.Context) {
	id, err := parseIntParam(c, "id")
	if err != nil {
		a.respondError(c, err)
		return
	}
	if err := a.comments.Delete(c.Request.Context(), viewerID(c), c.Param("slug"), id); err != nil {
		a.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
