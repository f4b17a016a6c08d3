package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	MigrationsDir string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// BalanceTolerance is the maximum accepted |debits - credits| when a
	// transaction is emitted with require_balance. The reference behavior
	// is 0.01; zero-decimal currencies may want a different value.
	BalanceTolerance decimal.Decimal

	// AllowMultipleReversals permits reversing a transaction that has
	// already been reversed. Off by default; whether repeated reversals are
	// legitimate business behavior (partial corrections) is a deployment
	// decision.
	AllowMultipleReversals bool

	// RateLimit is a ulule/limiter formatted rate, e.g. "100-M".
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
	viper.SetDefault("MIGRATIONS_DIR", "migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "txn-ledger")
	viper.SetDefault("BALANCE_TOLERANCE", "0.01")
	viper.SetDefault("ALLOW_MULTIPLE_REVERSALS", false)
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
	cfg.MigrationsDir = viper.GetString("MIGRATIONS_DIR")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	toleranceStr := viper.GetString("BALANCE_TOLERANCE")
	tolerance, err := decimal.NewFromString(toleranceStr)
	if err != nil || tolerance.IsNegative() {
		tolerance = decimal.NewFromFloat(0.01)
		log.Printf("Warning: Invalid value for BALANCE_TOLERANCE ('%s'). Defaulting to %s.\n", toleranceStr, tolerance.String())
	}
	cfg.BalanceTolerance = tolerance

	cfg.AllowMultipleReversals = viper.GetBool("ALLOW_MULTIPLE_REVERSALS")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")

	return cfg, nil
}
