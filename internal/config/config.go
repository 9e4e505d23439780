package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	NotifyLog  = "log"
	NotifyAMQP = "amqp"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	HTTPServer `yaml:"http_server"`
	Storage    Storage   `yaml:"storage"`
	Database   Database  `yaml:"database"`
	Booking    Booking   `yaml:"booking"`
	Pricing    Pricing   `yaml:"pricing"`
	Notify     Notify    `yaml:"notify"`
	RateLimit  RateLimit `yaml:"rate_limit"`
}

type HTTPServer struct {
	Address        string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout        time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout    time.Duration `yaml:"idle_timeout" env-default:"60s"`
	RequestTimeout time.Duration `yaml:"request_timeout" env-default:"3s"`
}

type Storage struct {
	Driver      string        `yaml:"driver" env:"STORAGE_DRIVER" env-default:"postgres"`
	LockTimeout time.Duration `yaml:"lock_timeout" env:"STORAGE_LOCK_TIMEOUT" env-default:"2s"`
}

type Database struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User     string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"DB_NAME" env-default:"museum"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
}

type Booking struct {
	DefaultCapacity     int           `yaml:"default_capacity" env-default:"50"`
	DefaultTicketType   string        `yaml:"default_ticket_type" env-default:"Regular"`
	DefaultTimeSlots    []string      `yaml:"default_time_slots" env-default:"10:00 AM,2:00 PM"`
	CompensationTimeout time.Duration `yaml:"compensation_timeout" env-default:"5s"`
}

type Pricing struct {
	SeedPath string `yaml:"seed_path" env:"PRICING_SEED_PATH"`
}

type Notify struct {
	Driver     string        `yaml:"driver" env:"NOTIFY_DRIVER" env-default:"log"`
	AMQPURL    string        `yaml:"amqp_url" env:"NOTIFY_AMQP_URL"`
	Exchange   string        `yaml:"exchange" env-default:"booking.exchange"`
	RoutingKey string        `yaml:"routing_key" env-default:"booking.confirmed"`
	Timeout    time.Duration `yaml:"timeout" env-default:"5s"`
}

type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"20"`
	Burst int     `yaml:"burst" env-default:"40"`
	// IdleTTL is how long an idle client's bucket is kept.
	IdleTTL time.Duration `yaml:"idle_ttl" env-default:"10m"`
}

// Load reads the config file at path, falling back to CONFIG_PATH.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		return nil, errors.New("config path is not set")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("cannot read config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Notify.Driver {
	case NotifyLog:
	case NotifyAMQP:
		if c.Notify.AMQPURL == "" {
			return errors.New("notify.amqp_url is required for the amqp driver")
		}
	default:
		return fmt.Errorf("unknown notify driver %q", c.Notify.Driver)
	}

	if c.Booking.DefaultCapacity <= 0 {
		return errors.New("booking.default_capacity must be positive")
	}

	return nil
}
