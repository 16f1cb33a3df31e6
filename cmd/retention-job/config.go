package main

import (
	"fmt"
	"os"
	"time"

	"dailysketch/internal/common/db"
	"dailysketch/internal/common/storage"
	retention "dailysketch/internal/retention/repository"
	"dailysketch/pkg/errors"
	"dailysketch/pkg/utils/logger"

	"gopkg.in/yaml.v3"
)

const (
	defaultOpsAddr         = "0.0.0.0:9480"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultPageSize        = 1000
	defaultChunkSize       = 25
)

// ServerConfig holds the ops HTTP endpoint settings (cron mode only).
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// RetentionConfig holds cleanup loop settings.
type RetentionConfig struct {
	Bucket      string                      `yaml:"bucket"`
	PageSize    int                         `yaml:"pageSize"`
	ChunkSize   int                         `yaml:"chunkSize"`
	Entitlement retention.EntitlementConfig `yaml:"entitlement"`
}

// SeedConfig holds prompt seeding settings.
type SeedConfig struct {
	Enabled bool     `yaml:"enabled"`
	Tiers   []string `yaml:"tiers"`
}

// AppConfig holds retention-job configuration.
type AppConfig struct {
	Logger    logger.Config       `yaml:"logger"`
	Database  db.PostgreSQLConfig `yaml:"database"`
	MinIO     storage.MinIOConfig `yaml:"minio"`
	Retention RetentionConfig     `yaml:"retention"`
	Seed      SeedConfig          `yaml:"seed"`
	Server    ServerConfig        `yaml:"server"`
}

// loadAppConfig reads the yaml config, expanding ${ENV_VAR} references so
// credentials stay out of the file itself.
func loadAppConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file failed: %w", err)
	}

	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("parse config file failed: %w", err)
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultOpsAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}

	if cfg.Retention.PageSize == 0 {
		cfg.Retention.PageSize = defaultPageSize
	}
	if cfg.Retention.ChunkSize == 0 {
		cfg.Retention.ChunkSize = defaultChunkSize
	}
	if cfg.Retention.Bucket == "" {
		cfg.Retention.Bucket = cfg.MinIO.Bucket
	}

	if err := validateAppConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validateAppConfig rejects missing connection parameters before anything
// touches the network.
func validateAppConfig(cfg *AppConfig) error {
	if cfg.Database.DSN == "" {
		return errors.ConfigError("database.dsn")
	}
	if cfg.MinIO.Endpoint == "" {
		return errors.ConfigError("minio.endpoint")
	}
	if cfg.MinIO.AccessKey == "" {
		return errors.ConfigError("minio.accessKey")
	}
	if cfg.MinIO.SecretKey == "" {
		return errors.ConfigError("minio.secretKey")
	}
	if cfg.Retention.Bucket == "" {
		return errors.ConfigError("retention.bucket")
	}
	return nil
}
