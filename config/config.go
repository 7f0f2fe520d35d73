package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	UploadDir   string
	AppURL      string

	// Remote libsql database. When LibsqlURL is set it takes precedence
	// over the local DBPath file.
	LibsqlURL       string
	LibsqlAuthToken string

	SessionSecret string

	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailTestMode bool

	AIProvider string
	AIEndpoint string
	AIAPIKey   string
	AIModel    string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string

	AllowedOrigins string
	MaxAudioSizeMB int64
}

func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		DBPath:      getEnv("DB_PATH", "callqm.db"),
		Environment: getEnv("ENVIRONMENT", "development"),
		UploadDir:   getEnv("UPLOAD_DIR", "./uploads"),
		AppURL:      getEnv("APP_URL", "http://localhost:8080"),

		LibsqlURL:       getEnv("LIBSQL_DATABASE_URL", ""),
		LibsqlAuthToken: getEnv("LIBSQL_AUTH_TOKEN", ""),

		SessionSecret: getEnv("SESSION_SECRET", ""),

		ResendAPIKey:  getEnv("RESEND_API_KEY", ""),
		EmailFrom:     getEnv("EMAIL_FROM", "noreply@callqm.app"),
		EmailFromName: getEnv("EMAIL_FROM_NAME", "AI Quality Manager"),
		EmailTestMode: getEnvBool("EMAIL_TEST_MODE", true),

		AIProvider: getEnv("AI_PROVIDER", "openai"),
		AIEndpoint: getEnv("AI_ENDPOINT", "https://api.openai.com/v1"),
		AIAPIKey:   getEnv("AI_API_KEY", ""),
		AIModel:    getEnv("AI_MODEL", "gpt-4o-mini"),

		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),

		AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),
		MaxAudioSizeMB: getEnvInt64("MAX_AUDIO_SIZE_MB", 100),
	}

	if err := cfg.ValidateSessionSecret(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	return cfg
}

// ValidateSessionSecret ensures the session secret is suitable for
// signing cookies. Production requires an explicit strong secret;
// development generates an ephemeral one with a warning.
func (c *Config) ValidateSessionSecret() error {
	if c.Environment == "production" {
		if c.SessionSecret == "" {
			return fmt.Errorf("SESSION_SECRET must be set in production")
		}
		if len(c.SessionSecret) < 32 {
			return fmt.Errorf("SESSION_SECRET must be at least 32 characters in production (got %d)", len(c.SessionSecret))
		}
		return nil
	}

	if c.SessionSecret == "" {
		secret, err := GenerateSecureSecret()
		if err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}
		c.SessionSecret = secret
		log.Println("WARNING: Using auto-generated session secret. Set SESSION_SECRET for persistent sessions.")
	}

	return nil
}

// GenerateSecureSecret returns 32 random bytes hex-encoded.
func GenerateSecureSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}
