package handler

import (
	"net/http"

	"github.com/conduit/internal/service"
	"github.com/gin-gonic/gin"
)

// GetProfile returns a profile relative to the caller, if any.
func (a *API) GetProfile(c *gin.Context) {
	profile, err := a.profiles.Get(c.Request.Context(), viewerID(c), c.Param("username"))
	a.respondProfile(c, profile, err)
}

// FollowUser 关注指定用户
func (a *API) FollowUser(c *gin.Context) {
	profile, err := a.profiles.Follow(c.Request.Context(), viewerID(c), c.Param("username"))
	a.respondProfile(c, profile, err)
}

// UnfollowUser 取消关注
func (a *API) UnfollowUser(c *gin.Context) {
	profile, err := a.profiles.Unfollow(c.Request.Context(), viewerID(c), c.Param("username"))
	a.respondProfile(c, profile, err)
}

func (a *API) respondProfile(c *gin.Context, profile *service.Profile, err error) {
	if err != nil {
		a.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": newProfileJSON(*profile)})
}
