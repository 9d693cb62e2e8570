package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var (
	// ErrRead возвращается, если не удалось прочитать конфигурационный файл
	ErrRead = errors.New("config: failed to read config")

	// ErrInvalid возвращается, если конфигурация не прошла проверку
	ErrInvalid = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Stripe    StripeConfig    `toml:"stripe"`
	Checkout  CheckoutConfig  `toml:"checkout"`
	Webhook   WebhookConfig   `toml:"webhook"`
	Auth      AuthConfig      `toml:"auth"`
	Mail      MailConfig      `toml:"mail"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Redis     RedisConfig     `toml:"redis"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	AutoMigrate     bool   `toml:"auto_migrate"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:     "/" + d.DBName,
		RawQuery: url.Values{"sslmode": []string{d.SSLMode}}.Encode(),
	}
	return u.String()
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type StripeConfig struct {
	SecretKey          string `toml:"secret_key"`
	WebhookSecret      string `toml:"webhook_secret"`
	APIURL             string `toml:"api_url"`
	Timeout            int    `toml:"timeout"` // секунды
	MaxNetworkRetries  int64  `toml:"max_network_retries"`
	BreakerMaxFailures uint32 `toml:"breaker_max_failures"`
	BreakerOpenTimeout int    `toml:"breaker_open_timeout"` // секунды
}

type CheckoutConfig struct {
	Currency    string `toml:"currency"`
	ProductName string `toml:"product_name"`
	FrontendURL string `toml:"frontend_url"`
}

// SuccessURL адрес возврата после успешной оплаты
func (c CheckoutConfig) SuccessURL() string {
	return strings.TrimRight(c.FrontendURL, "/") + "/success"
}

// CancelURL адрес возврата после отмены оплаты
func (c CheckoutConfig) CancelURL() string {
	return strings.TrimRight(c.FrontendURL, "/") + "/cancel"
}

type WebhookConfig struct {
	MaxBodyBytes       int64 `toml:"max_body_bytes"`
	SignatureTolerance int   `toml:"signature_tolerance"` // секунды
	// AckStoreFailures подтверждать доставку при ошибке БД (иначе 500 и повтор)
	AckStoreFailures bool `toml:"ack_store_failures"`
}

type AuthConfig struct {
	JWTSecret string `toml:"jwt_secret"`
}

type MailConfig struct {
	Enabled  bool   `toml:"enabled"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

type RateLimitConfig struct {
	Enabled            bool   `toml:"enabled"`
	CheckoutRate       string `toml:"checkout_rate"` // "20-M"
	Prefix             string `toml:"prefix"`
	TrustForwardHeader bool   `toml:"trust_forward_header"`
}

type RedisConfig struct {
	URL string `toml:"url"` // пусто - лимиты в памяти процесса
}

// envOverrides секреты и адреса, которые задаются окружением поверх файла
type envOverrides struct {
	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET"`
	JWTSecret           string `envconfig:"JWT_SECRET"`
	DBHost              string `envconfig:"DB_HOST"`
	DBPassword          string `envconfig:"DB_PASSWORD"`
	SMTPPassword        string `envconfig:"SMTP_PASSWORD"`
	RedisURL            string `envconfig:"REDIS_URL"`
	FrontendURL         string `envconfig:"FRONTEND_URL"`
	Port                int    `envconfig:"PORT"`
}

// Load читает конфигурацию из TOML файла, затем применяет .env и переменные окружения
func Load(path string) (*Config, error) {
	cfg := defaults()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRead, path, err)
	}

	// .env необязателен
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: .env: %v", ErrRead, err)
	}

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("%w: environment: %v", ErrRead, err)
	}
	cfg.applyEnv(env)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        5000,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "stayfinder-booking"},
		Stripe: StripeConfig{
			Timeout:            10,
			MaxNetworkRetries:  2,
			BreakerMaxFailures: 5,
			BreakerOpenTimeout: 30,
		},
		Checkout: CheckoutConfig{
			Currency:    "inr",
			ProductName: "StayFinder Booking",
			FrontendURL: "http://localhost:5173",
		},
		Webhook: WebhookConfig{
			MaxBodyBytes:       64 << 10,
			SignatureTolerance: 300,
			AckStoreFailures:   true,
		},
		Mail: MailConfig{Port: 587},
		RateLimit: RateLimitConfig{
			CheckoutRate: "20-M",
			Prefix:       "stayfinder-booking",
		},
	}
}

func (c *Config) applyEnv(env envOverrides) {
	if env.StripeSecretKey != "" {
		c.Stripe.SecretKey = env.StripeSecretKey
	}
	if env.StripeWebhookSecret != "" {
		c.Stripe.WebhookSecret = env.StripeWebhookSecret
	}
	if env.JWTSecret != "" {
		c.Auth.JWTSecret = env.JWTSecret
	}
	if env.DBHost != "" {
		c.Database.Host = env.DBHost
	}
	if env.DBPassword != "" {
		c.Database.Password = env.DBPassword
	}
	if env.SMTPPassword != "" {
		c.Mail.Password = env.SMTPPassword
	}
	if env.RedisURL != "" {
		c.Redis.URL = env.RedisURL
	}
	if env.FrontendURL != "" {
		c.Checkout.FrontendURL = env.FrontendURL
	}
	if env.Port != 0 {
		c.Server.HTTPPort = env.Port
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, "server.http_port must be in 1..65535")
	}
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		problems = append(problems, "database host, dbname and user are required")
	}
	if c.Stripe.SecretKey == "" {
		problems = append(problems, "stripe secret key is required (STRIPE_SECRET_KEY)")
	}
	if c.Stripe.WebhookSecret == "" {
		problems = append(problems, "stripe webhook secret is required (STRIPE_WEBHOOK_SECRET)")
	}
	if c.Auth.JWTSecret == "" {
		problems = append(problems, "jwt secret is required (JWT_SECRET)")
	}
	if c.Checkout.Currency == "" {
		problems = append(problems, "checkout.currency is required")
	}
	if _, err := url.ParseRequestURI(c.Checkout.FrontendURL); err != nil {
		problems = append(problems, "checkout.frontend_url must be an absolute URL")
	}
	if c.Webhook.MaxBodyBytes <= 0 {
		problems = append(problems, "webhook.max_body_bytes must be positive")
	}
	if c.Mail.Enabled && (c.Mail.Host == "" || c.Mail.From == "") {
		problems = append(problems, "mail host and from are required when mail is enabled")
	}
	if c.RateLimit.Enabled && c.RateLimit.CheckoutRate == "" {
		problems = append(problems, "rate_limit.checkout_rate is required when rate limiting is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

// Duration переводит секунды из конфигурации в time.Duration
func Duration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}
