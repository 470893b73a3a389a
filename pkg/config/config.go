package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Transaction engine tuning
	TxnMaxAttempts  int
	TxnRetryBackoff time.Duration

	// Rate limiting, expressed in ulule/limiter format (e.g. "100-M")
	RateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "biz-admin-app")
	viper.SetDefault("TXN_MAX_ATTEMPTS", 5)
	viper.SetDefault("TXN_RETRY_BACKOFF", "10ms")
	viper.SetDefault("RATE_LIMIT", "100-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.TxnMaxAttempts = viper.GetInt("TXN_MAX_ATTEMPTS")
	if cfg.TxnMaxAttempts <= 0 {
		cfg.TxnMaxAttempts = 5
		log.Println("Warning: TXN_MAX_ATTEMPTS must be positive. Defaulting to 5.")
	}

	backoffStr := viper.GetString("TXN_RETRY_BACKOFF")
	backoff, err := time.ParseDuration(backoffStr)
	if err != nil || backoff <= 0 {
		backoff = 10 * time.Millisecond
		log.Printf("Warning: Invalid value for TXN_RETRY_BACKOFF ('%s'). Defaulting to %s.\n", backoffStr, backoff.String())
	}
	cfg.TxnRetryBackoff = backoff

	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
