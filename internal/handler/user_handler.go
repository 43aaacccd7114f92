package handler

import (
	"net/http"

	"github.com/conduit/internal/apperr"
	"github.com/conduit/internal/db"
	"github.com/conduit/internal/service"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	User struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
}

type registerRequest struct {
	User struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	} `json:"user"`
}

type updateUserRequest struct {
	User struct {
		Email    *string `json:"email"`
		Username *string `json:"username"`
		Password *string `json:"password"`
		Bio      *string `json:"bio"`
		Image    *string `json:"image"`
	} `json:"user"`
}

// Register creates an account and returns it with a fresh token.
func (a *API) Register(c *gin.Context) {
	var req registerRequest
	if !a.bindJSON(c, &req) {
		return
	}

	user, err := a.users.Register(c.Request.Context(), service.RegisterInput{
		Username: req.User.Username,
		Email:    req.User.Email,
		Password: req.User.Password,
	})
	if err != nil {
		a.respondError(c, err)
		return
	}
	a.respondUser(c, http.StatusCreated, user, "")
}

// Login exchanges email and password for a token.
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !a.bindJSON(c, &req) {
		return
	}

	user, err := a.users.Login(c.Request.Context(), req.User.Email, req.User.Password)
	if err != nil {
		a.respondError(c, err)
		return
	}
	a.respondUser(c, http.StatusOK, user, "")
}

// CurrentUser echoes the caller's account and token.
func (a *API) CurrentUser(c *gin.Context) {
	identity := currentIdentity(c)
	user, err := a.users.Get(c.Request.Context(), identity.UserID)
	if err != nil {
		a.respondError(c, err)
		return
	}
	a.respondUser(c, http.StatusOK, user, identity.Token)
}

// UpdateUser applies the supplied fields only.
func (a *API) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if !a.bindJSON(c, &req) {
		return
	}

	identity := currentIdentity(c)
	user, err := a.users.Update(c.Request.Context(), identity.UserID, service.UserUpdate{
		Email:    req.User.Email,
		Username: req.User.Username,
		Password: req.User.Password,
		Bio:      req.User.Bio,
		Image:    req.User.Image,
	})
	if err != nil {
		a.respondError(c, err)
		return
	}
	a.respondUser(c, http.StatusOK, user, identity.Token)
}

// respondUser issues a token when none is given.
func (a *API) respondUser(c *gin.Context, status int, user *db.User, token string) {
	if token == "" {
		issued, err := a.tokens.Issue(user.ID)
		if err != nil {
			a.respondError(c, apperr.Server("could not issue token", err))
			return
		}
		token = issued
	}
	c.JSON(status, gin.H{"user": newUserJSON(user, token)})
}
