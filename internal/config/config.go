package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server struct {
		Host                 string
		JWTSecret            string `toml:"jwt_secret"`
		ReadTimeout          time.Duration
		WriteTimeout         time.Duration
		ReadHeaderTimeout    time.Duration
		StrReadTimeout       string `toml:"read_timeout"`
		StrWriteTimeout      string `toml:"write_timeout"`
		StrReadHeaderTimeout string `toml:"read_header_timeout"`
	}
	Database struct {
		Host     string
		User     string
		Password string
		Database string
	}
	Redis struct {
		RedisAddr          string `toml:"redis_addr"`
		RedisPassword      string `toml:"redis_password"`
		RedisDB            int    `toml:"redis_db"`
		AccessTokenTTL     time.Duration
		RefreshTokenTTL    time.Duration
		StrAccessTokenTTL  string `toml:"access_token_ttl"`
		StrRefreshTokenTTL string `toml:"refresh_token_ttl"`
	}
	Nats struct {
		URL           string `toml:"url"`
		SubjectPrefix string `toml:"subject_prefix"`
	}
	Approval struct {
		// AdminRoles is the allow-list of roles treated as company
		// administrators by the workflow engine.
		AdminRoles []string `toml:"admin_roles"`
	}
}

func GetConfig(logger *slog.Logger) (*Config, error) {
	data, err := os.ReadFile("configs/config.toml")
	if err != nil {
		logger.Error("Error read config.toml file", slog.String("error", err.Error()))
		return nil, err
	}

	var cfg *Config

	if _, tomlErr := toml.Decode(string(data), &cfg); tomlErr != nil {
		logger.Error("Error decode config.toml file", slog.String("error", tomlErr.Error()))
		return nil, tomlErr
	}

	cfg.Redis.AccessTokenTTL, err = time.ParseDuration(cfg.Redis.StrAccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid access_token_ttl: %w", err)
	}
	cfg.Redis.RefreshTokenTTL, err = time.ParseDuration(cfg.Redis.StrRefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh_token_ttl: %w", err)
	}

	cfg.Server.ReadTimeout, err = time.ParseDuration(cfg.Server.StrReadTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid read_timeout: %w", err)
	}
	cfg.Server.WriteTimeout, err = time.ParseDuration(cfg.Server.StrWriteTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid write_timeout: %w", err)
	}
	cfg.Server.ReadHeaderTimeout, err = time.ParseDuration(cfg.Server.StrReadHeaderTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid read_header_timeout: %w", err)
	}

	if cfg.Server.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if len(cfg.Approval.AdminRoles) == 0 {
		cfg.Approval.AdminRoles = []string{"admin", "hr"}
	}

	logger.Info("Config is loaded")
	return cfg, nil
}
