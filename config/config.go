package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the server.
type Config struct {
	DatabaseURL      string
	JWTSecretKey     string
	ServerPort       int
	DBConnectTimeout time.Duration

	SessionIdleTTL       time.Duration
	SessionSweepInterval time.Duration

	CORSAllowedOrigins []string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load reads the configuration from the environment, loading .env first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from an arbitrary lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	dbURL := getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	jwtKey := getenv("JWT_SECRET_KEY")
	if jwtKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	portStr := getenv("SERVER_PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	connectTimeout, err := durationVar(getenv, "DB_CONNECT_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	idleTTL, err := durationVar(getenv, "SESSION_IDLE_TTL", 2*time.Hour)
	if err != nil {
		return nil, err
	}
	sweepInterval, err := durationVar(getenv, "SESSION_SWEEP_INTERVAL", 10*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:          dbURL,
		JWTSecretKey:         jwtKey,
		ServerPort:           port,
		DBConnectTimeout:     connectTimeout,
		SessionIdleTTL:       idleTTL,
		SessionSweepInterval: sweepInterval,
		CORSAllowedOrigins:   splitList(getenv("CORS_ALLOWED_ORIGINS")),
		R2AccountID:          getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:        getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey:    getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:         getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:      getenv("R2_PUBLIC_BASE_URL"),
	}

	return cfg, nil
}

func durationVar(getenv func(string) string, name string, def time.Duration) (time.Duration, error) {
	raw := getenv(name)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", name, d)
	}
	return d, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{"*"}
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
