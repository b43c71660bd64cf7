package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type HTTPServer struct {
	Addr            string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

// Backend is the catalog and recommendation service the storefront talks to.
type Backend struct {
	URL     string        `yaml:"url" env:"BACKEND_URL" env-default:"http://localhost:8000"`
	APIKey  string        `yaml:"api_key" env:"HWEIBO_API_KEY"`
	Timeout time.Duration `yaml:"timeout" env:"BACKEND_TIMEOUT" env-default:"45s"`
}

type Checkout struct {
	AuthorizeDelay time.Duration `yaml:"authorize_delay" env-default:"850ms"`
	ProcessDelay   time.Duration `yaml:"process_delay" env-default:"1200ms"`
	FinalizeDelay  time.Duration `yaml:"finalize_delay" env-default:"900ms"`
	Timeout        time.Duration `yaml:"timeout" env:"CHECKOUT_TIMEOUT" env-default:"10s"`
	ShippingFee    int64         `yaml:"shipping_fee" env:"CHECKOUT_SHIPPING_FEE" env-default:"15000"`
	TaxRate        string        `yaml:"tax_rate" env:"CHECKOUT_TAX_RATE" env-default:"0.18"`
	Currency       string        `yaml:"currency" env-default:"TZS"`
}

type Search struct {
	CatalogPath     string        `yaml:"catalog_path" env:"SEARCH_CATALOG_PATH"`
	BreakerFailures uint32        `yaml:"breaker_failures" env-default:"5"`
	BreakerCooldown time.Duration `yaml:"breaker_cooldown" env-default:"30s"`
}

type Session struct {
	IdleTTL         time.Duration `yaml:"idle_ttl" env:"SESSION_IDLE_TTL" env-default:"30m"`
	JanitorInterval time.Duration `yaml:"janitor_interval" env-default:"1m"`
	CookieName      string        `yaml:"cookie_name" env-default:"hweibo_session"`
}

// RedisConnect is optional; an empty host keeps receipts in memory and
// disables prompt rate limiting.
type RedisConnect struct {
	Host     string `yaml:"REDIS_HOST" env:"REDIS_HOST"`
	Port     string `yaml:"REDIS_PORT" env:"REDIS_PORT" env-default:"6379"`
	Username string `yaml:"REDIS_USER" env:"REDIS_USER"`
	Password string `yaml:"REDIS_PASSWORD" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"REDIS_DB" env:"REDIS_DB" env-default:"0"`
}

type RateConfig struct {
	MaxAttempts int64         `yaml:"MAX_ATTEMPTS" env:"MAX_ATTEMPTS" env-default:"20"`
	WindowSize  time.Duration `yaml:"WINDOW_SIZE" env:"WINDOW_SIZE" env-default:"1m"`
}

type Cache struct {
	ReceiptTTL time.Duration `yaml:"receipt_ttl" env:"CACHE_RECEIPT_TTL" env-default:"30m"`
}

type Otel struct {
	ServiceName      string  `yaml:"SERVICE_NAME" env:"OTEL_SERVICE_NAME" env-default:"hweibo-storefront"`
	ExporterEndpoint string  `yaml:"EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	SamplerRatio     float64 `yaml:"SAMPLER_RATIO" env:"OTEL_SAMPLER_RATIO" env-default:"1.0"`
}

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-required:"true"`
	LogLevel     string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	HTTPServer   `yaml:"http_server"`
	Backend      Backend      `yaml:"backend"`
	Checkout     Checkout     `yaml:"checkout"`
	Search       Search       `yaml:"search"`
	Session      Session      `yaml:"session"`
	RedisConnect RedisConnect `yaml:"redis"`
	RateConfig   RateConfig   `yaml:"rateConfig"`
	Cache        Cache        `yaml:"cache"`
	Otel         Otel         `yaml:"otel"`
}

func MustLoad() *Config {

	var configPath string

	configPath = os.Getenv("CONFIG_PATH")

	if configPath == "" {

		flags := flag.String("config", "", "gets the config flag value")

		flag.Parse()

		configPath = *flags

		if configPath == "" {

			log.Fatal("Config path is not set")

		}

	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		log.Fatal(err.Error())
	}

	return cfg

}

func LoadConfigFromPath(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("can not read config file: %w", err)
	}

	return &cfg, nil
}

func (r *RedisConnect) Enabled() bool {
	return r.Host != ""
}

func (r *RedisConnect) GetDSN() string {
	return fmt.Sprintf("redis://%s:%s@%s:%s/%d", r.Username, r.Password, r.Host, r.Port, r.DB)
}
