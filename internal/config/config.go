package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	S3      S3Config
	Log     LogConfig
	LLM     LLMConfig
	Extract ExtractConfig
	Batch   BatchConfig
	Auth    AuthConfig
	Email   EmailConfig
	CORS    CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LLMConfig holds settings for the analysis service client.
type LLMConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ExtractConfig holds text extraction settings.
type ExtractConfig struct {
	UnidocLicenseKey string `mapstructure:"unidoc_license_key"`
}

// BatchConfig holds batch queue worker and orchestrator settings.
type BatchConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	Concurrency      int `mapstructure:"concurrency"`
	MaxInflightDocs  int `mapstructure:"max_inflight_docs"`
}

// AuthConfig holds API key and JWT settings.
type AuthConfig struct {
	APIKeyHash        string        `mapstructure:"api_key_hash"`
	JWTSecret         string        `mapstructure:"jwt_secret"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
	Issuer            string        `mapstructure:"issuer"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the MEDREP_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MEDREP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "medrep")
	v.SetDefault("db.password", "medrep_secret")
	v.SetDefault("db.name", "medrep_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "medrep-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// LLM defaults
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.default_model", "gemini-2.0-flash")
	v.SetDefault("llm.timeout_secs", 120)

	// Extraction defaults
	v.SetDefault("extract.unidoc_license_key", "")

	// Batch defaults
	v.SetDefault("batch.poll_interval_secs", 10)
	v.SetDefault("batch.concurrency", 2)
	v.SetDefault("batch.max_inflight_docs", 4)

	// Auth defaults
	v.SetDefault("auth.api_key_hash", "")
	v.SetDefault("auth.jwt_secret", "change-me-in-production")
	v.SetDefault("auth.access_expiry", "1h")
	v.SetDefault("auth.issuer", "medrep")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@medrep.local")
	v.SetDefault("email.from_name", "MedRep")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "MEDREP_SERVER_PORT",
		"server.read_timeout":        "MEDREP_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "MEDREP_SERVER_WRITE_TIMEOUT",
		"server.environment":         "MEDREP_SERVER_ENVIRONMENT",
		"db.host":                    "MEDREP_DB_HOST",
		"db.port":                    "MEDREP_DB_PORT",
		"db.user":                    "MEDREP_DB_USER",
		"db.password":                "MEDREP_DB_PASSWORD",
		"db.name":                    "MEDREP_DB_NAME",
		"db.sslmode":                 "MEDREP_DB_SSLMODE",
		"db.max_open":                "MEDREP_DB_MAX_OPEN",
		"db.max_idle":                "MEDREP_DB_MAX_IDLE",
		"s3.region":                  "MEDREP_S3_REGION",
		"s3.bucket":                  "MEDREP_S3_BUCKET",
		"s3.endpoint":                "MEDREP_S3_ENDPOINT",
		"s3.access_key":              "MEDREP_S3_ACCESS_KEY",
		"s3.secret_key":              "MEDREP_S3_SECRET_KEY",
		"s3.max_file_size_mb":        "MEDREP_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":          "MEDREP_S3_PRESIGN_EXPIRY",
		"log.level":                  "MEDREP_LOG_LEVEL",
		"log.format":                 "MEDREP_LOG_FORMAT",
		"llm.provider":               "MEDREP_LLM_PROVIDER",
		"llm.api_key":                "MEDREP_LLM_API_KEY",
		"llm.default_model":          "MEDREP_LLM_DEFAULT_MODEL",
		"llm.timeout_secs":           "MEDREP_LLM_TIMEOUT_SECS",
		"extract.unidoc_license_key": "MEDREP_EXTRACT_UNIDOC_LICENSE_KEY",
		"batch.poll_interval_secs":   "MEDREP_BATCH_POLL_INTERVAL_SECS",
		"batch.concurrency":          "MEDREP_BATCH_CONCURRENCY",
		"batch.max_inflight_docs":    "MEDREP_BATCH_MAX_INFLIGHT_DOCS",
		"auth.api_key_hash":          "MEDREP_AUTH_API_KEY_HASH",
		"auth.jwt_secret":            "MEDREP_AUTH_JWT_SECRET",
		"auth.access_expiry":         "MEDREP_AUTH_ACCESS_EXPIRY",
		"auth.issuer":                "MEDREP_AUTH_ISSUER",
		"email.provider":             "MEDREP_EMAIL_PROVIDER",
		"email.region":               "MEDREP_EMAIL_REGION",
		"email.from_address":         "MEDREP_EMAIL_FROM_ADDRESS",
		"email.from_name":            "MEDREP_EMAIL_FROM_NAME",
		"cors.allowed_origins":       "MEDREP_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if MEDREP_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("MEDREP_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.LLM = LLMConfig{
		Provider:     v.GetString("llm.provider"),
		APIKey:       v.GetString("llm.api_key"),
		DefaultModel: v.GetString("llm.default_model"),
		TimeoutSecs:  v.GetInt("llm.timeout_secs"),
	}
	cfg.Extract = ExtractConfig{
		UnidocLicenseKey: v.GetString("extract.unidoc_license_key"),
	}
	cfg.Batch = BatchConfig{
		PollIntervalSecs: v.GetInt("batch.poll_interval_secs"),
		Concurrency:      v.GetInt("batch.concurrency"),
		MaxInflightDocs:  v.GetInt("batch.max_inflight_docs"),
	}
	cfg.Auth = AuthConfig{
		APIKeyHash:        v.GetString("auth.api_key_hash"),
		JWTSecret:         v.GetString("auth.jwt_secret"),
		AccessTokenExpiry: v.GetDuration("auth.access_expiry"),
		Issuer:            v.GetString("auth.issuer"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}
