package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	GatewayPostgres = "postgres"
	GatewayREST     = "rest"

	SnapshotMemory = "memory"
	SnapshotFile   = "file"
	SnapshotRedis  = "redis"
	SnapshotR2     = "r2"
)

type Config struct {
	ServerPort   int
	JWTSecretKey string
	CORSOrigins  []string

	Gateway      string
	DatabaseURL  string
	APIBaseURL   string
	APIToken     string
	APIRateLimit float64 // requests per second towards the REST backend

	SnapshotBackend string
	SnapshotDir     string
	RedisURL        string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string

	// DraftMode starts sessions without writing goals to the gateway.
	DraftMode bool

	LogLevel  string
	LogFormat string
}

// Load reads the configuration from the environment, after loading a .env
// file when there is one.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		JWTSecretKey:      get("JWT_SECRET_KEY", ""),
		Gateway:           strings.ToLower(get("GATEWAY", GatewayPostgres)),
		DatabaseURL:       get("DATABASE_URL", ""),
		APIBaseURL:        strings.TrimRight(get("API_BASE_URL", ""), "/"),
		APIToken:          get("API_TOKEN", ""),
		SnapshotBackend:   strings.ToLower(get("SNAPSHOT_BACKEND", SnapshotFile)),
		SnapshotDir:       get("SNAPSHOT_DIR", ".galero"),
		RedisURL:          get("REDIS_URL", ""),
		R2AccountID:       get("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     get("R2_ACCESS_KEY_ID", ""),
		R2SecretAccessKey: get("R2_SECRET_ACCESS_KEY", ""),
		R2BucketName:      get("R2_BUCKET_NAME", ""),
		LogLevel:          get("LOG_LEVEL", "info"),
		LogFormat:         get("LOG_FORMAT", "console"),
	}

	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := strconv.Atoi(get("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	switch cfg.Gateway {
	case GatewayPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
		}
	case GatewayREST:
		if cfg.APIBaseURL == "" {
			return nil, fmt.Errorf("API_BASE_URL environment variable is not set")
		}
	default:
		return nil, fmt.Errorf("unknown GATEWAY %q (want %s or %s)", cfg.Gateway, GatewayPostgres, GatewayREST)
	}

	cfg.APIRateLimit, err = strconv.ParseFloat(get("API_RATE_LIMIT", "10"), 64)
	if err != nil || cfg.APIRateLimit <= 0 {
		return nil, fmt.Errorf("API_RATE_LIMIT must be a positive number, got %q", getenv("API_RATE_LIMIT"))
	}

	switch cfg.SnapshotBackend {
	case SnapshotMemory, SnapshotFile:
	case SnapshotRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required for the redis snapshot backend")
		}
	case SnapshotR2:
		if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2BucketName == "" {
			return nil, fmt.Errorf("R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY and R2_BUCKET_NAME are required for the r2 snapshot backend")
		}
	default:
		return nil, fmt.Errorf("unknown SNAPSHOT_BACKEND %q", cfg.SnapshotBackend)
	}

	if draft := get("DRAFT_MODE", ""); draft != "" {
		cfg.DraftMode, err = strconv.ParseBool(draft)
		if err != nil {
			return nil, fmt.Errorf("invalid DRAFT_MODE environment variable: %w", err)
		}
	}

	for _, origin := range strings.Split(get("CORS_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	return cfg, nil
}
