package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config is the full runtime configuration. A TOML file supplies defaults
// when GAKKAIHUB_CONFIG points at one; environment variables override
// individual fields afterwards.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Auth     AuthConfig     `toml:"auth"`
	Redis    RedisConfig    `toml:"redis"`
	Minio    MinioConfig    `toml:"minio"`
	Jobs     JobsConfig     `toml:"jobs"`
}

type ServerConfig struct {
	Port string `toml:"port"`
}

type DatabaseConfig struct {
	URL string `toml:"url"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type MinioConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`
	Bucket    string `toml:"bucket"`
}

// JobsConfig controls the background invoice sweep.
type JobsConfig struct {
	OverdueSweepMinutes int `toml:"overdue_sweep_minutes"`
}

// Load reads the optional TOML file and applies environment overrides.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{Port: "8080"},
		Redis:  RedisConfig{Addr: "localhost:6379"},
		Minio: MinioConfig{
			Endpoint:  "localhost:9000",
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
			Bucket:    "gakkaihub",
		},
		Jobs:   JobsConfig{OverdueSweepMinutes: 60},
	}

	if path := os.Getenv("GAKKAIHUB_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	applyEnv(&cfg.Server.Port, "PORT")
	applyEnv(&cfg.Database.URL, "DATABASE_URL")
	applyEnv(&cfg.Auth.JWTSecret, "JWT_SECRET")
	applyEnv(&cfg.Redis.Addr, "REDIS_ADDR")
	applyEnv(&cfg.Redis.Password, "REDIS_PASSWORD")
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.Redis.DB = db
	}
	applyEnv(&cfg.Minio.Endpoint, "MINIO_ENDPOINT")
	applyEnv(&cfg.Minio.AccessKey, "MINIO_ACCESS_KEY")
	applyEnv(&cfg.Minio.SecretKey, "MINIO_SECRET_KEY")
	applyEnv(&cfg.Minio.Bucket, "MINIO_BUCKET")
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		cfg.Minio.UseSSL = v == "true"
	}
	if v := os.Getenv("OVERDUE_SWEEP_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid OVERDUE_SWEEP_MINUTES: %w", err)
		}
		cfg.Jobs.OverdueSweepMinutes = minutes
	}

	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

func applyEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
