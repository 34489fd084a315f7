package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr        string
	DBDSN       string
	JWTSecret   string
	TokenTTL    time.Duration
	CORSOrigins []string
}

// Load reads configuration from the environment, after sourcing a .env file
// when one is present.
func Load() Config {
	_ = godotenv.Load()

	ttl := 7 * 24 * time.Hour
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			ttl = d
		}
	}

	origins := []string{"*"}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}

	return Config{
		Addr:        getEnv("APP_ADDR", ":8082"),
		DBDSN:       os.Getenv("DB_DSN"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		TokenTTL:    ttl,
		CORSOrigins: origins,
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
