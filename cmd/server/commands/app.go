package commands

import (
	"fmt"

	"github.com/conduit/internal/auth"
	"github.com/conduit/internal/config"
	"github.com/conduit/internal/db"
	"github.com/conduit/internal/handler"
	"github.com/conduit/internal/logging"
	"github.com/conduit/internal/metrics"
	"github.com/conduit/internal/service"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// app is the fully wired process.
type app struct {
	cfg     config.AppConfig
	log     *logrus.Logger
	db      *gorm.DB
	metrics *metrics.Metrics
	hasher  *auth.Hasher
	tokens  *auth.Tokens
	users   *service.UserService
	api     *handler.API
}

func bootstrap() (*app, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if databasePath != "" {
		cfg.DatabasePath = databasePath
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, nil)
	if err != nil {
		return nil, err
	}

	if cfg.JWTSecret == config.DevJWTSecret {
		log.Warn("JWT_SECRET not set, signing tokens with the development secret")
	}

	gdb, err := db.Open(cfg.DatabasePath, logging.Gorm(log, cfg.QueryTimeout/5))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	m := metrics.New()
	hasher := auth.NewHasher(auth.DefaultParams, cfg.HashWorkers, cfg.HashTimeout)
	hasher.OnComplete(m.ObserveHash)
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	run := service.NewRunner(gdb, cfg.QueryTimeout, log).WithFailureRecorder(m)
	users := service.NewUserService(run, hasher)

	api := handler.NewAPI(handler.Dependencies{
		Users:    users,
		Profiles: service.NewProfileService(run),
		Articles: service.NewArticleService(run),
		Comments: service.NewCommentService(run),
		Tags:     service.NewTagService(run),
		Tokens:   tokens,
		DB:       gdb,
		Log:      log,
	})

	return &app{
		cfg:     cfg,
		log:     log,
		db:      gdb,
		metrics: m,
		hasher:  hasher,
		tokens:  tokens,
		users:   users,
		api:     api,
	}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
