package handler

import (
	"github.com/conduit/internal/auth"
	"github.com/conduit/internal/service"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	users    *service.UserService
	profiles *service.ProfileService
	articles *service.ArticleService
	comments *service.CommentService
	tags     *service.TagService
	tokens   *auth.Tokens
	guard    *auth.Guard
	db       *gorm.DB
	log      logrus.FieldLogger
}

// Dependencies 描述构造 API 所需的服务
type Dependencies struct {
	Users    *service.UserService
	Profiles *service.ProfileService
	Articles *service.ArticleService
	Comments *service.CommentService
	Tags     *service.TagService
	Tokens   *auth.Tokens
	Guard    *auth.Guard
	DB       *gorm.DB
	Log      logrus.FieldLogger
}

// NewAPI constructs a handler set with shared services.
func NewAPI(deps Dependencies) *API {
	log := deps.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	guard := deps.Guard
	if guard == nil {
		guard = auth.NewGuard(deps.Tokens)
	}
	return &API{
		users:    deps.Users,
		profiles: deps.Profiles,
		articles: deps.Articles,
		comments: deps.Comments,
		tags:     deps.Tags,
		tokens:   deps.Tokens,
		guard:    guard,
		db:       deps.DB,
		log:      log,
	}
}
