package config

import (
	"testing"
	"time"
)

func setenv(t *testing.T, values map[string]string) {
	t.Helper()
	for _, key := range []string{
		"PORT", "JWT_SECRET_KEY", "TOKEN_TTL", "STORE_DRIVER", "GOOGLE_APPLICATION_CREDENTIALS",
		"FIREBASE_PROJECT_ID", "MYSQL_DSN", "RECURRENCE_CRON", "CORS_ORIGINS",
		"SUPERUSER_EMAIL", "SUPERUSER_PASSWORD",
	} {
		t.Setenv(key, values[key])
	}
}

func TestFromEnvDefaults(t *testing.T) {
	setenv(t, map[string]string{"JWT_SECRET_KEY": "secret", "STORE_DRIVER": "memory"})

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" || cfg.TokenTTL != 24*time.Hour || cfg.RecurrenceCron != "0 */15 * * * *" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Fatalf("expected no CORS origins, got %v", cfg.CORSOrigins)
	}
}

func TestFromEnvParsesValues(t *testing.T) {
	setenv(t, map[string]string{
		"JWT_SECRET_KEY": "secret",
		"MYSQL_DSN":      "user:pass@tcp(localhost:3306)/teamboard",
		"TOKEN_TTL":      "90m",
		"CORS_ORIGINS":   "https://a.example.com, https://b.example.com,",
	})

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.StoreDriver != DriverFirestore {
		t.Fatalf("expected firestore driver by default, got %q", cfg.StoreDriver)
	}
	if cfg.TokenTTL != 90*time.Minute {
		t.Fatalf("expected 90m, got %s", cfg.TokenTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
}

func TestFromEnvRejectsBadConfig(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":  {"STORE_DRIVER": "memory"},
		"bad driver":      {"JWT_SECRET_KEY": "s", "STORE_DRIVER": "postgres"},
		"firestore no db": {"JWT_SECRET_KEY": "s", "STORE_DRIVER": "firestore"},
		"bad ttl":         {"JWT_SECRET_KEY": "s", "STORE_DRIVER": "memory", "TOKEN_TTL": "soon"},
		"negative ttl":    {"JWT_SECRET_KEY": "s", "STORE_DRIVER": "memory", "TOKEN_TTL": "-1h"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setenv(t, env)
			if _, err := FromEnv(); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}
