// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string
	AppRoot     string
	OutputDir   string
	SeedFile    string
	Server      ServerConfig
	Database    DatabaseConfig
	Store       StoreConfig
	NATS        NATSConfig
	Capture     CaptureConfig
	Scoring     ScoringConfig
	Pipeline    PipelineConfig
	OCR         OCRConfig
	Sentiment   SentimentConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	MaxOpenConns int
	SSLMode      string
}

// StoreConfig selects and configures the record store backend
type StoreConfig struct {
	// Backend is one of "file", "sqlite" or "postgres".
	Backend    string
	FilePath   string
	SQLitePath string
}

// NATSConfig holds NATS configuration
type NATSConfig struct {
	URL            string
	Enabled        bool
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
	EventsTopic    string
}

// CaptureConfig holds capture source configuration
type CaptureConfig struct {
	TwitterBearerToken   string
	TwitterMaxResults    int
	BlueskyFirehoseURL   string
	BlueskyCollectWindow time.Duration
	RedditUserAgent      string
	RedditLimit          int
}

// ScoringConfig holds engagement scoring thresholds
type ScoringConfig struct {
	LikeTier    int
	CommentTier int
	ShareTier   int
	HighCutoff  int
}

// PipelineConfig holds pipeline tuning configuration
type PipelineConfig struct {
	MaxConcurrentTerms  int
	MinContentLength    int
	MaxExcerptLinks     int
	FetchTimeout        time.Duration
	RetryAttempts       int
	RetryBackoff        time.Duration
	GraceWindow         time.Duration
	BaseURL             string
	ActivityURLTemplate string
}

// OCRConfig holds OCR helper configuration
type OCRConfig struct {
	Enabled bool
	Command string
	Script  string
	Timeout time.Duration
}

// SentimentConfig holds sentiment analysis configuration
type SentimentConfig struct {
	Enabled   bool
	OllamaURL string
	Model     string
	Timeout   time.Duration
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		AppRoot:     getEnv("APP_ROOT", ""),
		OutputDir:   getEnv("OUTPUT_DIR", "output"),
		SeedFile:    getEnv("SEED_FILE", "seeds.json"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnvAsInt("DB_PORT", 5432),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Database:     getEnv("DB_NAME", "insight"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		},
		Store: StoreConfig{
			Backend:    getEnv("STORE_BACKEND", "file"),
			FilePath:   getEnv("STORE_FILE_PATH", "posts.json"),
			SQLitePath: getEnv("STORE_SQLITE_PATH", "posts.db"),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", "nats://localhost:4222"),
			Enabled:        getEnvAsBool("NATS_ENABLED", false),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
			EventsTopic:    getEnv("NATS_EVENTS_TOPIC", "posts"),
		},
		Capture: CaptureConfig{
			TwitterBearerToken:   getEnv("TWITTER_BEARER_TOKEN", ""),
			TwitterMaxResults:    getEnvAsInt("TWITTER_MAX_RESULTS", 25),
			BlueskyFirehoseURL:   getEnv("BLUESKY_FIREHOSE_URL", ""),
			BlueskyCollectWindow: getEnvAsDuration("BLUESKY_COLLECT_WINDOW", 30*time.Second),
			RedditUserAgent:      getEnv("REDDIT_USER_AGENT", "insight-pipeline/1.0"),
			RedditLimit:          getEnvAsInt("REDDIT_LIMIT", 25),
		},
		Scoring: ScoringConfig{
			LikeTier:    getEnvAsInt("SCORING_LIKE_TIER", 10),
			CommentTier: getEnvAsInt("SCORING_COMMENT_TIER", 5),
			ShareTier:   getEnvAsInt("SCORING_SHARE_TIER", 3),
			HighCutoff:  getEnvAsInt("SCORING_HIGH_CUTOFF", 50),
		},
		Pipeline: PipelineConfig{
			MaxConcurrentTerms:  getEnvAsInt("PIPELINE_MAX_CONCURRENT_TERMS", 1),
			MinContentLength:    getEnvAsInt("PIPELINE_MIN_CONTENT_LENGTH", 20),
			MaxExcerptLinks:     getEnvAsInt("PIPELINE_MAX_EXCERPT_LINKS", 3),
			FetchTimeout:        getEnvAsDuration("PIPELINE_FETCH_TIMEOUT", 30*time.Second),
			RetryAttempts:       getEnvAsInt("PIPELINE_RETRY_ATTEMPTS", 3),
			RetryBackoff:        getEnvAsDuration("PIPELINE_RETRY_BACKOFF", 2*time.Second),
			GraceWindow:         getEnvAsDuration("PIPELINE_GRACE_WINDOW", 500*time.Millisecond),
			BaseURL:             getEnv("PIPELINE_BASE_URL", "https://www.linkedin.com"),
			ActivityURLTemplate: getEnv("PIPELINE_ACTIVITY_URL_TEMPLATE", "https://www.linkedin.com/feed/update/urn:li:activity:%s"),
		},
		OCR: OCRConfig{
			Enabled: getEnvAsBool("OCR_ENABLED", false),
			Command: getEnv("OCR_COMMAND", "python3"),
			Script:  getEnv("OCR_SCRIPT", "scripts/ocr_helper.py"),
			Timeout: getEnvAsDuration("OCR_TIMEOUT", 60*time.Second),
		},
		Sentiment: SentimentConfig{
			Enabled:   getEnvAsBool("SENTIMENT_ENABLED", false),
			OllamaURL: getEnv("SENTIMENT_OLLAMA_URL", "http://localhost:11434"),
			Model:     getEnv("SENTIMENT_MODEL", "llama3"),
			Timeout:   getEnvAsDuration("SENTIMENT_TIMEOUT", 60*time.Second),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.AppRoot == "" {
		return fmt.Errorf("APP_ROOT must be set")
	}

	switch config.Store.Backend {
	case "file", "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown store backend %q", config.Store.Backend)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
