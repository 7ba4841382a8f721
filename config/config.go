package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverFirestore = "firestore"
	DriverMemory    = "memory"
)

type Config struct {
	Port              string
	JWTSecret         string
	TokenTTL          time.Duration
	StoreDriver       string
	CredentialsFile   string
	FirebaseProjectID string
	MySQLDSN          string
	RecurrenceCron    string
	CORSOrigins       []string
	SuperuserEmail    string
	SuperuserPassword string
}

// Load reads .env when present, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found or failed to load")
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		Port:              getenv("PORT", "8080"),
		JWTSecret:         os.Getenv("JWT_SECRET_KEY"),
		StoreDriver:       getenv("STORE_DRIVER", DriverFirestore),
		CredentialsFile:   os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		FirebaseProjectID: os.Getenv("FIREBASE_PROJECT_ID"),
		MySQLDSN:          os.Getenv("MYSQL_DSN"),
		RecurrenceCron:    getenv("RECURRENCE_CRON", "0 */15 * * * *"),
		SuperuserEmail:    os.Getenv("SUPERUSER_EMAIL"),
		SuperuserPassword: os.Getenv("SUPERUSER_PASSWORD"),
	}

	ttl, err := time.ParseDuration(getenv("TOKEN_TTL", "24h"))
	if err != nil {
		return Config{}, fmt.Errorf("TOKEN_TTL: %w", err)
	}
	if ttl <= 0 {
		return Config{}, errors.New("TOKEN_TTL must be positive")
	}
	cfg.TokenTTL = ttl

	for _, origin := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET_KEY is required")
	}
	switch cfg.StoreDriver {
	case DriverMemory:
	case DriverFirestore:
		if cfg.MySQLDSN == "" {
			return Config{}, errors.New("MYSQL_DSN is required with the firestore store driver")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
