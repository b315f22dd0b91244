package config

import (
	"os"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	// JWKSURL is the identity provider's key endpoint used to verify
	// session tokens.
	JWKSURL     string
	CORSOrigins string
	TablePrefix string
	// AppOrigin is the public origin used when building workspace URLs.
	AppOrigin string
	// DiscordWebhookURL is the member-created notification endpoint.
	// Empty disables the sink.
	DiscordWebhookURL string
	// LogDir, when set, writes logs into timestamped files instead of stdout.
	LogDir string
	Debug  bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       env,
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		JWKSURL:           getEnv("JWKS_URL", ""),
		CORSOrigins:       getEnv("CORS_ORIGINS", "http://localhost:5173"),
		TablePrefix:       getTablePrefix(env),
		AppOrigin:         getEnv("APP_ORIGIN", "http://localhost:5173"),
		DiscordWebhookURL: getEnv("DISCORD_WEBHOOK_URL", ""),
		LogDir:            getEnv("LOG_DIR", ""),
		Debug:             getEnv("DEBUG", getDefaultDebug(env)) == "true",
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
