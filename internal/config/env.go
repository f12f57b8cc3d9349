package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr string
	GinMode string

	DBUser     string
	DBPassword string
	DBHost     string
	DBName     string

	JWTSecret string
	JWTTTL    time.Duration

	CORSAllowedOrigins []string

	RedisURL       string
	SearchCacheTTL time.Duration

	PaymentSuccessRate float64
	CompletionInterval time.Duration

	LogFile          string
	MetricsNamespace string
}

// DevJWTSecret is the signing key used when JWT_SECRET is unset. It is
// refused in release mode.
const DevJWTSecret = "dev-only-jwt-secret"

var ErrDevJWTSecret = errors.New("JWT_SECRET must be set when GIN_MODE=release")

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}

// LoadEnv reads configuration from the process environment, loading a .env
// file first when one exists.
func LoadEnv() Env {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: cannot read .env: %v", err)
	}

	env := Env{
		AppAddr:            getEnv("APP_ADDR", ":8080"),
		GinMode:            getEnv("GIN_MODE", ""),
		DBUser:             getEnv("DB_USER", "root"),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBHost:             getEnv("DB_HOST", "127.0.0.1:3306"),
		DBName:             getEnv("DB_NAME", "travel_booking"),
		JWTSecret:          getEnv("JWT_SECRET", DevJWTSecret),
		JWTTTL:             time.Duration(getEnvAsInt("JWT_TTL_HOURS", 24)) * time.Hour,
		CORSAllowedOrigins: defaultOrigins,
		RedisURL:           getEnv("REDIS_URL", ""),
		SearchCacheTTL:     time.Duration(getEnvAsInt("SEARCH_CACHE_TTL_SECONDS", 60)) * time.Second,
		PaymentSuccessRate: getEnvAsFloat("PAYMENT_SUCCESS_RATE", 0.95),
		CompletionInterval: time.Duration(getEnvAsInt("COMPLETION_INTERVAL_MINUTES", 60)) * time.Minute,
		LogFile:            getEnv("LOG_FILE", ""),
		MetricsNamespace:   getEnv("METRICS_NAMESPACE", "travelbooking"),
	}

	if raw := getEnv("CORS_ALLOWED_ORIGINS", ""); raw != "" {
		env.CORSAllowedOrigins = splitList(raw)
	}
	if env.JWTSecret == DevJWTSecret && env.GinMode != "release" {
		log.Printf("warning: JWT_SECRET is not set, using the development signing key")
	}
	return env
}

// Validate rejects settings that are only acceptable during development.
func (e Env) Validate() error {
	if e.GinMode == "release" && e.JWTSecret == DevJWTSecret {
		return ErrDevJWTSecret
	}
	return nil
}

// DSN builds the MySQL connection string with the pool-friendly timeouts.
func (e Env) DSN() string {
	return e.DBUser + ":" + e.DBPassword + "@tcp(" + e.DBHost + ")/" + e.DBName +
		"?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s"
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("warning: %s is not a number (%q), using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvAsFloat(key string, def float64) float64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || f > 1 {
		log.Printf("warning: %s is invalid (%q), using default %.2f", key, v, def)
		return def
	}
	return f
}

func splitList(raw string) []string {
	out := []string{}
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
