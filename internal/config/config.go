package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	Environment     string
	SupabaseURL     string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	AuthDisabled    bool   // dev only: trust X-User-ID instead of a bearer token
	CORSOrigins     string
	TablePrefix     string
	// Storage
	StorageDriver string // "postgres" or "sqlite"
	DatabaseURL   string
	SQLitePath    string
	AutoMigrate   bool
	// Cache
	RedisURL       string
	ScriptCacheTTL time.Duration
	// Script generation
	AnthropicAPIKey   string
	GeminiAPIKey      string
	TransformProvider string
	TransformModel    string
	GenerationTimeout time.Duration
	DefaultLanguage   string
	// Logging
	LogDir      string
	LogMaxFiles int
	// Debug flags
	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)
	supabaseURL := getEnv("SUPABASE_URL", "")

	// Construct JWKS URL from Supabase URL
	jwksURL := getEnv("SUPABASE_JWKS_URL", supabaseURL+"/auth/v1/.well-known/jwks.json")

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		SupabaseURL:     supabaseURL,
		SupabaseJWKSURL: jwksURL,
		AuthDisabled:    env == "dev" && getEnv("AUTH_DISABLED", "false") == "true",
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:     tablePrefix,

		StorageDriver: getEnv("STORAGE_DRIVER", "postgres"),
		DatabaseURL:   getEnv("DATABASE_URL", getEnv("SUPABASE_DB_URL", "")),
		SQLitePath:    getEnv("SQLITE_PATH", "idive.db"),
		AutoMigrate:   getEnv("AUTO_MIGRATE", getDefaultDebug(env)) == "true",

		RedisURL:       getEnv("REDIS_URL", ""),
		ScriptCacheTTL: getDuration("SCRIPT_CACHE_TTL", 5*time.Minute),

		AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		TransformProvider: getEnv("TRANSFORM_PROVIDER", "anthropic"),
		TransformModel:    getEnv("TRANSFORM_MODEL", "claude-haiku-4-5-20251001"),
		GenerationTimeout: getDuration("GENERATION_TIMEOUT", DefaultGenerationTimeout),
		DefaultLanguage:   getEnv("DEFAULT_LANGUAGE", "en"),

		LogDir:      getEnv("LOG_DIR", ""),
		LogMaxFiles: getInt("LOG_MAX_FILES", 10),

		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses Go duration strings ("90s", "2m"); bad values fall back to the default.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
