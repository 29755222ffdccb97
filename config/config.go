package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Application struct {
		Name        string
		Environment string
		Port        int
		Timeout     time.Duration
		Debug       bool
		BaseURL     string
	}

	CORS struct {
		AllowedOrigins   []string
		AllowedMethods   []string
		AllowedHeaders   []string
		ExposedHeaders   []string
		MaxAge           int
		AllowCredentials bool
	}

	JWT struct {
		PrivateKey []byte
		PublicKey  []byte
	}

	GCP struct {
		ProjectID      string
		LocationID     string
		ServiceAccount []byte
	}

	PostgreSQL struct {
		Host            string
		Port            int
		User            string
		Password        string
		Name            string
		SSLMode         string
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime int
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Kafka struct {
		BootstrapServers string
	}

	Order struct {
		Expiration time.Duration
	}

	Pricing struct {
		SettlementCurrency string
		// ExchangeRates maps a currency code to the number of settlement
		// currency units one unit of that currency buys.
		ExchangeRates map[string]float64
	}

	Paystack struct {
		BaseURL   string
		SecretKey string
		// Fee is flat, in settlement currency units.
		Fee float64
	}

	Flutterwave struct {
		BaseURL   string
		SecretKey string
		// Fees maps a currency code to the processing fee in that currency.
		Fees map[string]float64
	}
}

var (
	c    *Config
	once sync.Once
)

func Get() *Config {
	once.Do(func() {
		godotenv.Load()

		c = &Config{}

		c.Application.Name = getString("APP_NAME", "sahmticket-checkout")
		c.Application.Environment = getString("APP_ENV", "development")
		c.Application.Port = getInt("APP_PORT", 8080)
		c.Application.Timeout = getDuration("APP_TIMEOUT", 30*time.Second)
		c.Application.Debug = getBool("APP_DEBUG", false)
		c.Application.BaseURL = getString("APP_BASE_URL", "http://localhost:8080")

		c.CORS.AllowedOrigins = getStrings("CORS_ALLOWED_ORIGINS", "*")
		c.CORS.AllowedMethods = getStrings("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS")
		c.CORS.AllowedHeaders = getStrings("CORS_ALLOWED_HEADERS", "Authorization,Content-Type")
		c.CORS.ExposedHeaders = getStrings("CORS_EXPOSED_HEADERS", "X-Trace-Id")
		c.CORS.MaxAge = getInt("CORS_MAX_AGE", 3600)
		c.CORS.AllowCredentials = getBool("CORS_ALLOW_CREDENTIALS", true)

		c.JWT.PrivateKey = []byte(os.Getenv("JWT_PRIVATE_KEY"))
		c.JWT.PublicKey = []byte(os.Getenv("JWT_PUBLIC_KEY"))

		c.GCP.ProjectID = os.Getenv("GCP_PROJECT_ID")
		c.GCP.LocationID = getString("GCP_LOCATION_ID", "europe-west1")
		c.GCP.ServiceAccount = []byte(os.Getenv("GCP_SERVICE_ACCOUNT"))

		c.PostgreSQL.Host = getString("POSTGRES_HOST", "localhost")
		c.PostgreSQL.Port = getInt("POSTGRES_PORT", 5432)
		c.PostgreSQL.User = getString("POSTGRES_USER", "postgres")
		c.PostgreSQL.Password = os.Getenv("POSTGRES_PASSWORD")
		c.PostgreSQL.Name = getString("POSTGRES_DB", "sahmticket")
		c.PostgreSQL.SSLMode = getString("POSTGRES_SSLMODE", "disable")
		c.PostgreSQL.MaxOpenConns = getInt("POSTGRES_MAX_OPEN_CONNS", 25)
		c.PostgreSQL.MaxIdleConns = getInt("POSTGRES_MAX_IDLE_CONNS", 5)
		c.PostgreSQL.ConnMaxLifetime = getInt("POSTGRES_CONN_MAX_LIFETIME", 300)

		c.Redis.Addr = getString("REDIS_ADDR", "localhost:6379")
		c.Redis.Password = os.Getenv("REDIS_PASSWORD")
		c.Redis.DB = getInt("REDIS_DB", 0)

		c.Kafka.BootstrapServers = getString("KAFKA_BOOTSTRAP_SERVERS", "localhost:9092")

		c.Order.Expiration = getDuration("ORDER_EXPIRATION", 30*time.Minute)

		c.Pricing.SettlementCurrency = getString("PRICING_SETTLEMENT_CURRENCY", "NGN")
		c.Pricing.ExchangeRates = getRates("PRICING_EXCHANGE_RATES", "NGN:1,USD:1600,GBP:2030,EUR:1750,GHS:110")

		c.Paystack.BaseURL = getString("PAYSTACK_BASE_URL", "https://api.paystack.co")
		c.Paystack.SecretKey = os.Getenv("PAYSTACK_SECRET_KEY")
		c.Paystack.Fee = getFloat("PAYSTACK_FEE", 100)

		c.Flutterwave.BaseURL = getString("FLUTTERWAVE_BASE_URL", "https://api.flutterwave.com/v3")
		c.Flutterwave.SecretKey = os.Getenv("FLUTTERWAVE_SECRET_KEY")
		c.Flutterwave.Fees = getRates("FLUTTERWAVE_FEES", "NGN:100,USD:1,GBP:1,EUR:1,GHS:10")
	})

	return c
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getStrings(key, fallback string) []string {
	return strings.Split(getString(key, fallback), ",")
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// getRates parses "CODE:value" pairs separated by commas.
func getRates(key, fallback string) map[string]float64 {
	raw := getString(key, fallback)

	rates := make(map[string]float64)
	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 {
			continue
		}

		value, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			continue
		}

		rates[strings.ToUpper(parts[0])] = value
	}

	return rates
}
