package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/conduit/internal/apperr"
	"github.com/conduit/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type errorBody struct {
	Errors struct {
		Body []string `json:"body"`
	} `json:"errors"`
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindNotAuthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusUnprocessableEntity
	case apperr.KindBadRequest:
		return http.StatusBadRequest
	case apperr.KindTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope and aborts the chain. Storage and
// server details are logged, never returned.
func (a *API) respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	message := "Internal Server Error"
	switch typed, ok := apperr.As(err); {
	case kind == apperr.KindStorage || kind == apperr.KindServer:
		logging.FromContext(c, a.log).WithFields(logrus.Fields{
			"kind": kind.String(),
		}).WithError(err).Error("request failed")
	case ok:
		message = typed.Message
	case kind == apperr.KindTimeout:
		message = "request timed out"
	}
	_ = c.Error(err)

	var body errorBody
	body.Errors.Body = []string{message}
	c.AbortWithStatusJSON(statusFor(kind), body)
}

func (a *API) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		a.respondError(c, apperr.BadRequest("invalid request body"))
		return false
	}
	return true
}

func parseIntParam(c *gin.Context, key string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.BadRequest("invalid " + key)
	}
	return id, nil
}

// queryInt reads an integer query parameter no smaller than least; absent is 0.
func queryInt(c *gin.Context, key string, least int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < least {
		return 0, apperr.BadRequest(fmt.Sprintf("%s must be an integer of at least %d", key, least))
	}
	return n, nil
}

// queryString returns nil for an absent or blank parameter.
func queryString(c *gin.Context, keys ...string) *string {
	for _, key := range keys {
		if v := strings.TrimSpace(c.Query(key)); v != "" {
			return &v
		}
	}
	return nil
}
