package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Mailjet   MailjetConfig
	PayPal    PayPalConfig
	CoinGecko CoinGeckoConfig
	TSU       TSUConfig
	Redis     RedisConfig
}

type AppConfig struct {
	Name                    string
	Version                 string
	Environment             string
	AppDeploymentUrl        string
	AppEmailVerificationKey string
	AdminEmail              string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
	TTLHours  int
}

type MailjetConfig struct {
	MailjetBaseUrl           string
	MailjetBasicAuthUsername string
	MailjetBasicAuthPassword string
	MailjetSenderEmail       string
	MailjetSenderName        string
}

type PayPalConfig struct {
	BaseUrl      string
	ClientID     string
	ClientSecret string
	WebhookID    string
}

type CoinGeckoConfig struct {
	BaseUrl string
}

// TSUConfig holds the unit economics of the settlement currency: the fixed
// USD rate per TSU and the receiving addresses crypto buyers pay into.
type TSUConfig struct {
	RateUSD             decimal.Decimal
	EthReceivingAddress string
	BtcReceivingAddress string
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	jwtTTL, err := strconv.Atoi(getEnv("JWT_TTL_HOURS", "24"))
	if err != nil {
		return nil, errors.New("invalid jwt ttl")
	}

	tsuRate, err := decimal.NewFromString(getEnv("TSU_RATE_USD", "1.00"))
	if err != nil {
		return nil, errors.New("invalid tsu rate")
	}

	if !tsuRate.IsPositive() {
		return nil, errors.New("tsu rate must be positive")
	}

	cfg := &Config{
		App: AppConfig{
			Name:                    getEnv("APP_NAME", "TSU Wallet API"),
			Version:                 getEnv("APP_VERSION", "1.0.0"),
			Environment:             getEnv("APP_ENV", "development"),
			AppDeploymentUrl:        getEnv("APP_DEPLOYMENT_URL", ""),
			AppEmailVerificationKey: getEnv("APP_EMAIL_VERIFICATION_KEY", ""),
			AdminEmail:              getEnv("APP_ADMIN_EMAIL", ""),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "tsu_wallet"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
			TTLHours:  jwtTTL,
		},
		Mailjet: MailjetConfig{
			MailjetBaseUrl:           getEnv("MAILJET_BASE_URL", ""),
			MailjetBasicAuthUsername: getEnv("MAILJET_BASIC_AUTH_USERNAME", ""),
			MailjetBasicAuthPassword: getEnv("MAILJET_BASIC_AUTH_PASSWORD", ""),
			MailjetSenderEmail:       getEnv("MAILJET_SENDER_EMAIL", ""),
			MailjetSenderName:        getEnv("MAILJET_SENDER_NAME", ""),
		},
		PayPal: PayPalConfig{
			BaseUrl:      getEnv("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com"),
			ClientID:     getEnv("PAYPAL_CLIENT_ID", ""),
			ClientSecret: getEnv("PAYPAL_CLIENT_SECRET", ""),
			WebhookID:    getEnv("PAYPAL_WEBHOOK_ID", ""),
		},
		CoinGecko: CoinGeckoConfig{
			BaseUrl: getEnv("COINGECKO_BASE_URL", "https://api.coingecko.com"),
		},
		TSU: TSUConfig{
			RateUSD:             tsuRate,
			EthReceivingAddress: getEnv("TSU_ETH_RECEIVING_ADDRESS", ""),
			BtcReceivingAddress: getEnv("TSU_BTC_RECEIVING_ADDRESS", ""),
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.App.AppEmailVerificationKey == "" {
		return nil, errors.New("missing app email verification key")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}
