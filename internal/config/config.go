package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jainrajat254/projecthub-backend/internal/jobs"
)

const defaultJWTSecret = "supersecretkey"

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	DatabasePath  string        `yaml:"database_path"`
	TokenDuration time.Duration `yaml:"token_duration"`
	Mailer        MailerConfig  `yaml:"mailer"`
	WorkerCount   int           `yaml:"worker_count"`
}

type MailerConfig struct {
	From    string `yaml:"from"`
	BaseURL string `yaml:"base_url"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:          getEnv("HUB_ADDR", ":8080"),
		JWTSecret:     getEnv("HUB_JWT_SECRET", defaultJWTSecret),
		APITimeout:    getEnvDuration("HUB_API_TIMEOUT", 15*time.Second),
		DatabasePath:  getEnv("HUB_DATABASE_PATH", "projecthub.db"),
		TokenDuration: getEnvDuration("HUB_TOKEN_DURATION", 24*time.Hour),
		Mailer: MailerConfig{
			From:    getEnv("HUB_MAIL_FROM", "noreply@projecthub.local"),
			BaseURL: getEnv("HUB_BASE_URL", "http://localhost:8080"),
		},
		WorkerCount: getEnvInt("HUB_WORKER_COUNT", jobs.DefaultWorkerCount),
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate rejects configurations that must not reach a real deployment.
// The default JWT secret is only acceptable when HUB_ENV=development.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database_path is required")
	}
	if c.TokenDuration <= 0 {
		return fmt.Errorf("token_duration must be positive")
	}
	if c.JWTSecret == "" || (c.JWTSecret == defaultJWTSecret && os.Getenv("HUB_ENV") != "development") {
		return fmt.Errorf("jwt_secret is insecure; set HUB_JWT_SECRET")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}

	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}

	return def
}
