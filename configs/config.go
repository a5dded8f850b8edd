package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Scheduler struct {
	Spec            string
	PublishTimeout  time.Duration
	ProcessingLease time.Duration
	BatchSize       int
	DistributedLock bool
	SweepSpec       string
}

type Platforms struct {
	GraphAPIURL     string
	GraphAPIVersion string
	TwitterAPIURL   string
	LinkedInAPIURL  string
}

type Config struct {
	Port          string
	PostgresURI   string
	RedisURI      string
	RedisPassword string
	FrontendURL   string
	SecretKey     string
	EncryptionKey string
	CookieName    string
	CronSecret    string
	LogLevel      string
	R2            R2
	Scheduler     Scheduler
	Platforms     Platforms
}

func LoadConfig() *Config {
	return &Config{
		Port:          getEnv("PORT", "3000"),
		PostgresURI:   getEnv("POSTGRES_URI", ""),
		RedisURI:      getEnv("REDIS_URI", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:5173"),
		SecretKey:     getEnv("SECRET_KEY", ""),
		EncryptionKey: getEnv("ENCRYPTION_KEY", ""),
		CookieName:    getEnv("COOKIE_NAME", "postflow_session"),
		CronSecret:    getEnv("CRON_SECRET", ""),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  strings.TrimRight(getEnv("R2_PUBLIC_URL", ""), "/"),
		},
		Scheduler: Scheduler{
			Spec:            getEnv("SCHEDULER_SPEC", "@every 1m"),
			PublishTimeout:  getEnvDuration("PUBLISH_TIMEOUT", 20*time.Second),
			ProcessingLease: getEnvDuration("PROCESSING_LEASE", 15*time.Minute),
			BatchSize:       getEnvInt("PUBLISH_BATCH_SIZE", 10),
			DistributedLock: getEnvBool("DISTRIBUTED_LOCK", false),
			SweepSpec:       getEnv("CREDENTIAL_SWEEP_SPEC", "@every 1h"),
		},
		Platforms: Platforms{
			GraphAPIURL:     getEnv("GRAPH_API_URL", "https://graph.facebook.com"),
			GraphAPIVersion: getEnv("GRAPH_API_VERSION", "v18.0"),
			TwitterAPIURL:   getEnv("TWITTER_API_URL", "https://api.twitter.com"),
			LinkedInAPIURL:  getEnv("LINKEDIN_API_URL", "https://api.linkedin.com"),
		},
	}
}

func (c *Config) Validate() error {
	if c.PostgresURI == "" {
		return errors.New("POSTGRES_URI is required")
	}
	switch len(c.EncryptionKey) {
	case 16, 24, 32:
	default:
		return fmt.Errorf("ENCRYPTION_KEY must be 16, 24 or 32 bytes, got %d", len(c.EncryptionKey))
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	if c.CronSecret == "" {
		return errors.New("CRON_SECRET is required")
	}
	if c.Scheduler.BatchSize <= 0 {
		return fmt.Errorf("PUBLISH_BATCH_SIZE must be positive, got %d", c.Scheduler.BatchSize)
	}
	if c.Scheduler.PublishTimeout <= 0 || c.Scheduler.ProcessingLease <= 0 {
		return errors.New("PUBLISH_TIMEOUT and PROCESSING_LEASE must be positive")
	}
	if c.Scheduler.DistributedLock && c.RedisURI == "" {
		return errors.New("DISTRIBUTED_LOCK requires REDIS_URI")
	}
	return nil
}

// MediaEnabled reports whether R2 uploads are configured.
func (c *Config) MediaEnabled() bool {
	return c.R2.AccountID != "" && c.R2.AccessKey != "" && c.R2.SecretKey != "" && c.R2.BucketName != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}
