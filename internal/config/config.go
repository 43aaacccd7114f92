package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DevJWTSecret is used when JWT_SECRET is unset. Only fit for local runs.
const DevJWTSecret = "conduit-dev-secret"

// AppConfig 汇总运行服务所需的基础配置。
type AppConfig struct {
	ListenAddr   string
	Port         string
	DatabasePath string
	JWTSecret    string
	TokenTTL     time.Duration
	GinMode      string
	QueryTimeout time.Duration
	HashTimeout  time.Duration
	HashWorkers  int
	LogLevel     string
	LogFormat    string
}

// LoadDotEnv reads a local .env file when one exists. Variables already set
// in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// Load 从环境变量读取应用配置，并为缺失项提供安全的默认值。
func Load() (AppConfig, error) {
	port := env("PORT", "8080")

	cfg := AppConfig{
		ListenAddr:   env("LISTEN_ADDR", fmt.Sprintf(":%s", port)),
		Port:         port,
		DatabasePath: env("DATABASE_PATH", "conduit.db"),
		JWTSecret:    env("JWT_SECRET", DevJWTSecret),
		GinMode:      env("GIN_MODE", "release"),
		LogLevel:     strings.ToLower(env("LOG_LEVEL", "info")),
		LogFormat:    strings.ToLower(env("LOG_FORMAT", "text")),
	}

	var err error
	if cfg.TokenTTL, err = durationEnv("TOKEN_TTL", 90*24*time.Hour); err != nil {
		return AppConfig{}, err
	}
	if cfg.QueryTimeout, err = durationEnv("QUERY_TIMEOUT", 5*time.Second); err != nil {
		return AppConfig{}, err
	}
	if cfg.HashTimeout, err = durationEnv("HASH_TIMEOUT", 10*time.Second); err != nil {
		return AppConfig{}, err
	}

	cfg.HashWorkers = runtime.NumCPU()
	if raw := env("HASH_WORKERS", ""); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return AppConfig{}, fmt.Errorf("HASH_WORKERS must be a positive integer, got %q", raw)
		}
		cfg.HashWorkers = n
	}

	return cfg, nil
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := env(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, raw)
	}
	return d, nil
}
