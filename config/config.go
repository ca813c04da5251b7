package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins       string `mapstructure:"CORS_ORIGINS"`

	// TrustedProxies is a comma separated list of proxy CIDRs allowed to set X-Forwarded-For.
	TrustedProxies string `mapstructure:"TRUSTED_PROXIES"`

	// Store selects "mongo" or "memory" repositories.
	Store        string `mapstructure:"STORE"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`
	SeedMockData bool   `mapstructure:"SEED_MOCK_DATA"`

	// Redis configuration.
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int           `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int           `mapstructure:"REDIS_QUEUE_DB"`
	DirectoryTTL  time.Duration `mapstructure:"DIRECTORY_CACHE_TTL"`

	// Fees are whole percentages of the service price.
	PlatformFeePercent int64 `mapstructure:"PLATFORM_FEE_PERCENT"`
	PaymentFeePercent  int64 `mapstructure:"PAYMENT_FEE_PERCENT"`

	// Bookings are reminded this long before the session starts.
	ReminderLead time.Duration `mapstructure:"REMINDER_LEAD"`

	// Uncredited completions and unsent refunds are swept this often.
	ReconcileInterval time.Duration `mapstructure:"RECONCILE_INTERVAL"`

	// Integrations; an empty value disables the adapter.
	StripeKey           string `mapstructure:"STRIPE_KEY"`
	MidtransServerKey   string `mapstructure:"MIDTRANS_SERVER_KEY"`
	MidtransEnv         string `mapstructure:"MIDTRANS_ENV"`
	FirebaseCredentials string `mapstructure:"FIREBASE_CREDENTIALS"`
	CloudinaryURL       string `mapstructure:"CLOUDINARY_URL"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("CORS_ORIGINS", "*")
	viper.SetDefault("TRUSTED_PROXIES", "")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("STORE", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "pijatku")
	viper.SetDefault("SEED_MOCK_DATA", false)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DIRECTORY_CACHE_TTL", "2m")
	viper.SetDefault("PLATFORM_FEE_PERCENT", 10)
	viper.SetDefault("PAYMENT_FEE_PERCENT", 3)
	viper.SetDefault("REMINDER_LEAD", "2h")
	viper.SetDefault("RECONCILE_INTERVAL", "10m")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("MIDTRANS_SERVER_KEY", "")
	viper.SetDefault("MIDTRANS_ENV", "sandbox")
	viper.SetDefault("FIREBASE_CREDENTIALS", "")
	viper.SetDefault("CLOUDINARY_URL", "")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// UseMemoryStore reports whether repositories should live in process memory.
func UseMemoryStore() bool {
	return AppConfig.Store == "memory"
}

// TrustedProxyList splits TrustedProxies; nil means no proxy is trusted.
func TrustedProxyList() []string {
	var out []string
	for _, p := range strings.Split(AppConfig.TrustedProxies, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
