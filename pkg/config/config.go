package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageFile     = "file"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	StorageDriver string
	DataDir       string
	SQLitePath    string
	DatabaseURL   string

	JWTSecret []byte
	JWTTTL    time.Duration

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	RedisAddr     string
	RedisPassword string

	StripeSecretKey   string
	Currency          string
	PublicURL         string
	PaymentSuccessURL string
	PaymentCancelURL  string
}

// Load reads .env (if present) and then the process environment.
func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v. Using system environment variables", err)
	}
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "gamestore"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 3000),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		StorageDriver: strings.ToLower(EnvDefault("STORAGE_DRIVER", StorageFile)),
		DataDir:       EnvDefault("DATA_DIR", "./data"),
		SQLitePath:    EnvDefault("SQLITE_PATH", "./data/gamestore.db"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		JWTTTL:    EnvDurationDefault("JWT_TTL", time.Hour),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		StripeSecretKey:   os.Getenv("STRIPE_SECRET_KEY"),
		Currency:          EnvDefault("CURRENCY", "usd"),
		PublicURL:         strings.TrimRight(EnvDefault("PUBLIC_URL", "http://localhost:3000"), "/"),
		PaymentSuccessURL: EnvDefault("PAYMENT_SUCCESS_URL", "http://localhost:5173/payment/success"),
		PaymentCancelURL:  EnvDefault("PAYMENT_CANCEL_URL", "http://localhost:5173/payment/failed"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
