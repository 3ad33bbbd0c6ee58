package app

import (
	"time"

	"github.com/yungbote/keywordiq-backend/internal/modules/seo/ledger"
	"github.com/yungbote/keywordiq-backend/internal/platform/envutil"
	"github.com/yungbote/keywordiq-backend/internal/platform/logger"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	Port        string
	Environment string
	ServiceName string

	JWTSecretKey       string
	AccessTokenTTL     time.Duration
	SignupCreditPoints int

	RedisAddr      string
	LedgerLeaseTTL time.Duration
	Rates          ledger.Rates

	PaymentReceiptSecret string
	PaymentReceiptIssuer string

	GoogleSearchAPIKey string
	SearchEngineID     string
	PlacesAPIKey       string
	YouTubeAPIKey      string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:        envutil.String("PORT", "8080"),
		Environment: envutil.String("ENVIRONMENT", "development"),
		ServiceName: envutil.String("OTEL_SERVICE_NAME", "keywordiq-backend"),

		JWTSecretKey:       envutil.String("JWT_SECRET_KEY", defaultJWTSecret),
		AccessTokenTTL:     envutil.Seconds("ACCESS_TOKEN_TTL", time.Hour),
		SignupCreditPoints: envutil.Int("SIGNUP_CREDIT_POINTS", 100),

		RedisAddr:      envutil.String("REDIS_ADDR", ""),
		LedgerLeaseTTL: envutil.Seconds("LEDGER_LEASE_TTL_SECONDS", 5*time.Minute),
		Rates:          ledger.RatesFromEnv(),

		PaymentReceiptSecret: envutil.String("PAYMENT_RECEIPT_SECRET", ""),
		PaymentReceiptIssuer: envutil.String("PAYMENT_RECEIPT_ISSUER", ""),

		GoogleSearchAPIKey: envutil.String("GOOGLE_SEARCH_API_KEY", ""),
		SearchEngineID:     envutil.String("CUSTOM_SEARCH_ENGINE_ID", ""),
		PlacesAPIKey:       envutil.String("GOOGLE_SEARCH_API_KEY_FOR_PLACES", ""),
		YouTubeAPIKey:      envutil.String("YOUTUBE_API_KEY", ""),
	}
	if cfg.JWTSecretKey == defaultJWTSecret && log != nil {
		log.Warn("JWT_SECRET_KEY not set, using the development default")
	}
	if cfg.PaymentReceiptSecret == "" && log != nil {
		log.Warn("PAYMENT_RECEIPT_SECRET not set, credit purchases are disabled")
	}
	if cfg.SignupCreditPoints < 0 {
		cfg.SignupCreditPoints = 0
	}
	return cfg
}
