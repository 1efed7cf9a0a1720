package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Qdrant    QdrantConfig
	Gemini    GeminiConfig
	Anthropic AnthropicConfig
	Scoring   ScoringConfig
	Parser    ParserConfig
	Storage   StorageConfig
	Batch     BatchConfig
	Log       LogConfig

	// DotEnvLoaded reports whether a .env file was read.
	DotEnvLoaded bool
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// QdrantConfig configures the candidate similarity index. An empty URL disables it.
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	VectorSize uint64
}

type GeminiConfig struct {
	APIKey     string
	Model      string
	EmbedModel string
}

type AnthropicConfig struct {
	APIKey string
	Model  string
}

// ScoringConfig controls the external scorer call.
type ScoringConfig struct {
	Provider          string // gemini or anthropic
	Temperature       float64
	MaxTokens         int
	Timeout           time.Duration
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
	RequestsPerSecond float64
	Burst             int
}

type ParserConfig struct {
	RemoteEnabled bool
}

type StorageConfig struct {
	UploadPath  string
	PublicURL   string
	MaxFileSize int64
}

// BatchConfig holds the foreground and chunked background batch limits.
type BatchConfig struct {
	ForegroundConcurrency int
	BackgroundConcurrency int
	BackgroundThreshold   int
	ChunkSize             int
	ChunkPause            time.Duration
	QueueSize             int
	Workers               int
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

func Load() *Config {
	loaded := godotenv.Load() == nil

	return &Config{
		DotEnvLoaded: loaded,
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "cv_screener"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "cv_screener_candidates"),
			VectorSize: uint64(getEnvAsInt("QDRANT_VECTOR_SIZE", 768)),
		},
		Gemini: GeminiConfig{
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			Model:      getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			EmbedModel: getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
		},
		Anthropic: AnthropicConfig{
			APIKey: getEnv("ANTHROPIC_API_KEY", ""),
			Model:  getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5"),
		},
		Scoring: ScoringConfig{
			Provider:          strings.ToLower(getEnv("SCORING_PROVIDER", "gemini")),
			Temperature:       getEnvAsFloat("SCORING_TEMPERATURE", 0.3),
			MaxTokens:         getEnvAsInt("SCORING_MAX_TOKENS", 4096),
			Timeout:           getEnvAsDuration("SCORING_TIMEOUT", "90s"),
			RetryMaxAttempts:  getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			RetryInitialDelay: getEnvAsDuration("RETRY_INITIAL_DELAY", "2s"),
			RequestsPerSecond: getEnvAsFloat("LLM_REQUESTS_PER_SECOND", 5),
			Burst:             getEnvAsInt("LLM_BURST", 5),
		},
		Parser: ParserConfig{
			RemoteEnabled: getEnvAsBool("REMOTE_PARSER_ENABLED", false),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			PublicURL:   getEnv("UPLOAD_PUBLIC_URL", ""),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Batch: BatchConfig{
			ForegroundConcurrency: getEnvAsInt("BATCH_FOREGROUND_CONCURRENCY", 5),
			BackgroundConcurrency: getEnvAsInt("BATCH_BACKGROUND_CONCURRENCY", 10),
			BackgroundThreshold:   getEnvAsInt("BATCH_BACKGROUND_THRESHOLD", 100),
			ChunkSize:             getEnvAsInt("BATCH_CHUNK_SIZE", 50),
			ChunkPause:            getEnvAsDuration("BATCH_CHUNK_PAUSE", "2s"),
			QueueSize:             getEnvAsInt("BATCH_QUEUE_SIZE", 100),
			Workers:               getEnvAsInt("WORKER_CONCURRENCY", 2),
		},
		Log: LogConfig{
			JSON:  getEnvAsBool("LOG_JSON", false),
			Debug: getEnvAsBool("LOG_DEBUG", false),
		},
	}
}

// Validate rejects limits the batch and scoring layers cannot work with.
func (c *Config) Validate() error {
	var errs []error

	if c.Batch.ForegroundConcurrency < 1 {
		errs = append(errs, fmt.Errorf("BATCH_FOREGROUND_CONCURRENCY must be >= 1, got %d", c.Batch.ForegroundConcurrency))
	}
	if c.Batch.BackgroundConcurrency < 1 {
		errs = append(errs, fmt.Errorf("BATCH_BACKGROUND_CONCURRENCY must be >= 1, got %d", c.Batch.BackgroundConcurrency))
	}
	if c.Batch.ChunkSize < 1 {
		errs = append(errs, fmt.Errorf("BATCH_CHUNK_SIZE must be >= 1, got %d", c.Batch.ChunkSize))
	}
	if c.Batch.Workers < 1 {
		errs = append(errs, fmt.Errorf("WORKER_CONCURRENCY must be >= 1, got %d", c.Batch.Workers))
	}
	if c.Batch.ChunkPause < 0 {
		errs = append(errs, errors.New("BATCH_CHUNK_PAUSE must not be negative"))
	}
	if c.Scoring.Timeout <= 0 {
		errs = append(errs, errors.New("SCORING_TIMEOUT must be positive"))
	}
	if c.Scoring.RetryMaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("RETRY_MAX_ATTEMPTS must be >= 1, got %d", c.Scoring.RetryMaxAttempts))
	}
	switch c.Scoring.Provider {
	case "gemini", "anthropic":
	default:
		errs = append(errs, fmt.Errorf("unknown SCORING_PROVIDER %q", c.Scoring.Provider))
	}

	return errors.Join(errs...)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
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

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
