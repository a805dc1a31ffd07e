package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	MigrationsPath string
	DataDir        string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// PIN lock
	OwnerID        string
	PINCode        string
	PINHash        string
	PINMaxAttempts int
	PINRateLimit   string

	// Remote sync
	RedisURL     string
	SyncDebounce time.Duration

	// Commit events
	KafkaBrokers []string
	KafkaTopic   string

	// Invoice scanning
	OCRProvider       string `mapstructure:"OCR_PROVIDER"`
	OpenAIAPIKey      string `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel       string `mapstructure:"OPENAI_MODEL"`
	GoogleCredentials string `mapstructure:"GOOGLE_CREDENTIALS"`

	CORSAllowedOrigins []string
	DueSoonDays        int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "12h")
	viper.SetDefault("JWT_ISSUER", "cassa-backend")
	viper.SetDefault("OWNER_ID", "default")
	viper.SetDefault("PIN_CODE", "")
	viper.SetDefault("PIN_HASH", "")
	viper.SetDefault("PIN_MAX_ATTEMPTS", 5)
	viper.SetDefault("PIN_RATE_LIMIT", "10-M")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("SYNC_DEBOUNCE", "500ms")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "cassa.register.events")
	viper.SetDefault("OCR_PROVIDER", "")
	viper.SetDefault("OPENAI_API_KEY", "")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o-mini")
	viper.SetDefault("GOOGLE_CREDENTIALS", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("DUE_SOON_DAYS", 7)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.DataDir = viper.GetString("DATA_DIR")
	if cfg.DatabaseURL == "" {
		log.Printf("PGSQL_URL not set. Registers are stored as JSON documents under %s.\n", cfg.DataDir)
	}
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = durationOr("JWT_EXPIRY_DURATION", 12*time.Hour)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "cassa-backend"
	}

	cfg.OwnerID = strings.TrimSpace(viper.GetString("OWNER_ID"))
	if cfg.OwnerID == "" {
		cfg.OwnerID = "default"
	}
	cfg.PINCode = viper.GetString("PIN_CODE")
	cfg.PINHash = viper.GetString("PIN_HASH")
	if cfg.PINCode == "" && cfg.PINHash == "" {
		log.Println("Warning: neither PIN_CODE nor PIN_HASH is set. The PIN lock is disabled.")
	}
	cfg.PINMaxAttempts = viper.GetInt("PIN_MAX_ATTEMPTS")
	if cfg.PINMaxAttempts <= 0 {
		cfg.PINMaxAttempts = 5
	}
	cfg.PINRateLimit = viper.GetString("PIN_RATE_LIMIT")

	cfg.RedisURL = viper.GetString("REDIS_URL")
	if cfg.RedisURL == "" {
		log.Println("REDIS_URL not set. Remote sync is disabled.")
	}
	cfg.SyncDebounce = durationOr("SYNC_DEBOUNCE", 500*time.Millisecond)

	cfg.KafkaBrokers = splitList(viper.GetString("KAFKA_BROKERS"))
	cfg.KafkaTopic = viper.GetString("KAFKA_TOPIC")

	cfg.OCRProvider = strings.ToLower(strings.TrimSpace(viper.GetString("OCR_PROVIDER")))
	cfg.OpenAIAPIKey = viper.GetString("OPENAI_API_KEY")
	cfg.OpenAIModel = viper.GetString("OPENAI_MODEL")
	cfg.GoogleCredentials = viper.GetString("GOOGLE_CREDENTIALS")

	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.DueSoonDays = viper.GetInt("DUE_SOON_DAYS")
	if cfg.DueSoonDays <= 0 {
		cfg.DueSoonDays = 7
	}

	return cfg, nil
}

func durationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
