package config

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort              string
	ServerReadHeaderTimeout time.Duration
	ServerWriteTimeout      time.Duration
	ServerIdleTimeout       time.Duration
	RequestTimeout          time.Duration

	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	JWTSecret           string
	JWTAccessTTL        time.Duration
	JWTRefreshTTL       time.Duration
	JWTResetPasswordTTL time.Duration
	JWTVerifyEmailTTL   time.Duration

	CORSOrigins      []string
	RateLimitRPM     int
	AuthRateLimitRPM int

	SeedSuperAdmin        bool
	SuperAdminEmail       string
	SuperAdminPassword    string
	ClientURL             string
	DefaultPage           int
	DefaultLimit          int
	MethodActionOverrides map[string]string
}

// MethodActions returns the HTTP method to permission action mapping. The
// base table is fixed; overrides from config are layered on top so tests and
// deployments can remap verbs without code changes.
func (c *Config) MethodActions() map[string]string {
	table := map[string]string{
		http.MethodGet:    "read",
		http.MethodPost:   "create",
		http.MethodPut:    "update",
		http.MethodPatch:  "update",
		http.MethodDelete: "delete",
	}
	for method, action := range c.MethodActionOverrides {
		table[strings.ToUpper(method)] = action
	}
	return table
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:              getEnv("SERVER_PORT", "8080"),
		ServerReadHeaderTimeout: getDuration("SERVER_READ_HEADER_TIMEOUT", 10*time.Second),
		ServerWriteTimeout:      getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:       getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:          getDuration("REQUEST_TIMEOUT", 30*time.Second),
		DatabaseURL:             strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:              int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:              int32(getInt("DB_MIN_CONNS", 2)),
		JWTSecret:               strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTAccessTTL:            getDuration("JWT_ACCESS_TTL", 30*time.Minute),
		JWTRefreshTTL:           getDuration("JWT_REFRESH_TTL", 720*time.Hour),
		JWTResetPasswordTTL:     getDuration("JWT_RESET_PASSWORD_TTL", 10*time.Minute),
		JWTVerifyEmailTTL:       getDuration("JWT_VERIFY_EMAIL_TTL", 10*time.Minute),
		CORSOrigins:             splitCSV(getEnv("CORS_ORIGINS", "*")),
		RateLimitRPM:            getInt("RATE_LIMIT_RPM", 100),
		AuthRateLimitRPM:        getInt("AUTH_RATE_LIMIT_RPM", 10),
		SeedSuperAdmin:          getBool("SEED_SUPER_ADMIN", true),
		SuperAdminEmail:         getEnv("SUPER_ADMIN_EMAIL", "superadmin@example.com"),
		SuperAdminPassword:      strings.TrimSpace(os.Getenv("SUPER_ADMIN_PASSWORD")),
		ClientURL:               getEnv("CLIENT_URL", "http://localhost:3000"),
		DefaultPage:             getInt("DEFAULT_PAGE", 1),
		DefaultLimit:            getInt("DEFAULT_LIMIT", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.JWTAccessTTL <= 0 || c.JWTRefreshTTL <= 0 {
		return fmt.Errorf("JWT token TTLs must be positive")
	}

	if c.JWTResetPasswordTTL <= 0 || c.JWTVerifyEmailTTL <= 0 {
		return fmt.Errorf("JWT token TTLs must be positive")
	}

	if c.SeedSuperAdmin && strings.TrimSpace(c.SuperAdminPassword) == "" {
		return fmt.Errorf("SUPER_ADMIN_PASSWORD is required when seeding is enabled")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.DefaultPage < 1 || c.DefaultLimit < 1 {
		return fmt.Errorf("pagination defaults must be positive")
	}

	return nil
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getBool(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
