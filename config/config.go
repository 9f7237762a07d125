package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything the service reads from the environment. It is built
// once in main and injected from there; no other package touches os.Getenv.
type Config struct {
	Port string

	JWTSecret    string
	JWTExpiresIn string // raw duration string, echoed in login responses
	JWTTTL       time.Duration

	MaxActiveLoans  int
	DefaultLoanDays int
	FinePerDay      int // currency minor units

	DatabaseDSN string
}

// FromEnv builds a Config from environment variables. JWT_SECRET and
// DATABASE_DSN have no defaults: main fails fast on a missing DSN, while a
// missing secret is reported per login attempt, matching the reference
// service.
func FromEnv() Config {
	cfg := Config{
		Port:            envOr("PORT", "3002"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTExpiresIn:    envOr("JWT_EXPIRES_IN", "2h"),
		MaxActiveLoans:  envInt("MAX_ACTIVE_LOANS", 3),
		DefaultLoanDays: envInt("DEFAULT_LOAN_DAYS", 7),
		FinePerDay:      envInt("FINE_PER_DAY", 1000),
		DatabaseDSN:     os.Getenv("DATABASE_DSN"),
	}

	ttl, err := time.ParseDuration(cfg.JWTExpiresIn)
	if err != nil || ttl <= 0 {
		cfg.JWTExpiresIn = "2h"
		ttl = 2 * time.Hour
	}
	cfg.JWTTTL = ttl

	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}
