package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetTags returns all tag names.
func (a *API) GetTags(c *gin.Context) {
	tags, err := a.tags.List(c.Request.Context())
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
