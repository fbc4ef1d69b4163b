package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the configuration of a single server process.
type Config struct {
	ServerPort  int
	TokenSecret string
	StaticDir   string
}

// devTokenSecret is only used when TOKEN_SECRET is unset, so a bare
// `go run ./cmd` works locally. Set a real secret in any shared deployment.
const devTokenSecret = "portal-arena-dev-secret"

// Load reads configuration from environment variables, optionally picking up
// a .env file first (useful for local development; its absence is not an
// error).
func Load() (*Config, error) {
	_ = godotenv.Load()

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "3000"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got %d", port)
	}

	secret := os.Getenv("TOKEN_SECRET")
	if secret == "" {
		secret = devTokenSecret
	}

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "dist"
	}

	return &Config{
		ServerPort:  port,
		TokenSecret: secret,
		StaticDir:   staticDir,
	}, nil
}
