package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// PostgresEndpoint is one side of the read/write split.
type PostgresEndpoint struct {
	Host     string `envconfig:"HOST"`
	Port     string `envconfig:"PORT"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	Timezone string `envconfig:"TIMEZONE"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

// Config is read once from the environment, after an optional .env file.
type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"NAME"`
		Timezone string `envconfig:"TIMEZONE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		APIKey  string `envconfig:"API_KEY"`
		BaseURL string `envconfig:"BASE_URL"`
		Booking struct {
			AllowedEmailDomains []string `envconfig:"ALLOWED_EMAIL_DOMAINS"`
			MaxEnquiryDays      int      `envconfig:"MAX_ENQUIRY_DAYS" default:"30"`
			MaxAttachmentMB     float64  `envconfig:"MAX_ATTACHMENT_MB" default:"5"`
			PrefillTTLSeconds   int      `envconfig:"PREFILL_TTL_SECONDS" default:"86400"`
			TreeCacheTTLSeconds int      `envconfig:"TREE_CACHE_TTL_SECONDS" default:"60"`
		} `envconfig:"BOOKING"`
		Session struct {
			CookieName   string `envconfig:"COOKIE_NAME" default:"guestroom_session"`
			CookieDomain string `envconfig:"COOKIE_DOMAIN"`
			Secure       bool   `envconfig:"SECURE"`
		} `envconfig:"SESSION"`
		PasswordReset struct {
			ExpireMin int    `envconfig:"EXPIRE_MIN" default:"30"`
			URL       string `envconfig:"URL"`
		} `envconfig:"PASSWORD_RESET"`
		Dashboard struct {
			CacheTTLSeconds int `envconfig:"CACHE_TTL_SECONDS" default:"30"`
		} `envconfig:"DASHBOARD"`
	} `envconfig:"APP"`

	Mail struct {
		Transport     string   `envconfig:"TRANSPORT" default:"direct"`
		APIKey        string   `envconfig:"MAILERSEND_API_KEY"`
		FromName      string   `envconfig:"FROM_NAME"`
		FromEmail     string   `envconfig:"FROM_EMAIL"`
		ManagerEmails []string `envconfig:"MANAGER_EMAILS"`
		TimeoutSecond int      `envconfig:"TIMEOUT_SECONDS" default:"10"`
	} `envconfig:"MAIL"`

	Kafka struct {
		Brokers           []string `envconfig:"BROKERS"`
		ConsumerGroup     string   `envconfig:"CONSUMER_GROUP"`
		NotificationTopic string   `envconfig:"NOTIFICATION_TOPIC" default:"guestroom.notifications"`
		SASL              struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
	} `envconfig:"KAFKA"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret     string `envconfig:"ACCESS_SECRET"`
		RefreshSecret    string `envconfig:"REFRESH_SECRET"`
		AccessExpireMin  int    `envconfig:"ACCESS_EXPIRE_MIN"`
		RefreshExpireMin int    `envconfig:"REFRESH_EXPIRE_MIN"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int    `envconfig:"MAX_RETRY"`
			RetryWaitTime  int    `envconfig:"RETRY_WAIT_TIME"`
			MigrationTable string `envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool   `envconfig:"AUTO_MIGRATE"`
			Prefix         string `envconfig:"PREFIX"`
			Read           PostgresEndpoint `envconfig:"READ"`
			Write          PostgresEndpoint `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			BucketName      string `envconfig:"BUCKET_NAME"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
		} `envconfig:"S3"`
	} `envconfig:"EXTERNAL"`
}

var (
	conf    Config
	once    sync.Once
	loadErr error
)

// Init loads the configuration. Variables already set in the environment win over .env.
func Init() error {
	once.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Warn().Err(err).Msg("No .env file loaded, using the process environment")
		} else {
			log.Info().Msg("Loaded variables from .env")
		}

		if err := envconfig.Process("", &conf); err != nil {
			loadErr = fmt.Errorf("processing environment: %w", err)

			return
		}

		log.Info().Str("env", conf.Server.Env).Msg("Service configuration initialized")
	})

	return loadErr
}

// Get returns the process configuration, loading it on first use.
func Get() *Config {
	if err := Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize configuration")
	}

	return &conf
}
