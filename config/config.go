package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App       AppConfig       `yaml:"app"`
	HTTP      HTTPConfig      `yaml:"http"`
	GRPC      GRPCConfig      `yaml:"grpc"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Events    EventsConfig    `yaml:"events"`
	Booking   BookingConfig   `yaml:"booking"`
	Auth      AuthConfig      `yaml:"auth"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type AppConfig struct {
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level"`
}

type HTTPConfig struct {
	Address      string        `yaml:"address"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int32  `yaml:"max_conns"`
	Migrate  bool   `yaml:"migrate"`
	// SeedPath is a YAML catalog loaded into the memory driver on start.
	SeedPath string `yaml:"seed_path"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

const (
	EventsKafka    = "kafka"
	EventsRabbitMQ = "rabbitmq"
	EventsNone     = "none"
)

type EventsConfig struct {
	Driver  string   `yaml:"driver"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
	AMQPURL string   `yaml:"amqp_url"`
	Queue   string   `yaml:"queue"`
}

type BookingConfig struct {
	SlotMinutes          int           `yaml:"slot_minutes"`
	WindowDays           int           `yaml:"window_days"`
	Timezone             string        `yaml:"timezone"`
	LockTTL              time.Duration `yaml:"lock_ttl"`
	LockWait             time.Duration `yaml:"lock_wait"`
	AvailabilityCacheTTL time.Duration `yaml:"availability_cache_ttl"`
}

// Location resolves Timezone, falling back to UTC when it is empty.
func (b BookingConfig) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(b.Timezone)
}

type AuthConfig struct {
	JWTSecret       string   `yaml:"jwt_secret"`
	PrivilegedRoles []string `yaml:"privileged_roles"`
}

type TelemetryConfig struct {
	Enabled      bool    `yaml:"enabled"`
	OTLPEndpoint string  `yaml:"otlp_endpoint"`
	SampleRatio  float64 `yaml:"sample_ratio"`
	ServiceName  string  `yaml:"service_name"`
}

// Path returns the config file named by CONFIG_PATH or config.yaml.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config.yaml"
}

func LoadConfig(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration used for fields the file leaves out.
func Default() *Config {
	return &Config{
		App:  AppConfig{Env: "development", LogLevel: "info"},
		HTTP: HTTPConfig{Address: ":8080", ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second},
		GRPC: GRPCConfig{Address: ":9090"},
		Database: DatabaseConfig{
			Driver: DriverPostgres, Host: "localhost", Port: 5432,
			User: "postgres", Name: "salonbooking", SSLMode: "disable", MaxConns: 10,
		},
		Redis:  RedisConfig{Addr: "localhost:6379"},
		Events: EventsConfig{Driver: EventsNone, Topic: "appointment-events", GroupID: "salonbooking-worker", Queue: "appointment-events"},
		Booking: BookingConfig{
			SlotMinutes: 60, WindowDays: 7, Timezone: "UTC",
			LockTTL: 10 * time.Second, LockWait: 3 * time.Second, AvailabilityCacheTTL: 30 * time.Second,
		},
		Auth:      AuthConfig{PrivilegedRoles: []string{"admin", "staff"}},
		Telemetry: TelemetryConfig{SampleRatio: 1, ServiceName: "salonbooking"},
	}
}

func (c *Config) applyEnv() {
	override := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	override(&c.Database.Password, "DATABASE_PASSWORD")
	override(&c.Auth.JWTSecret, "AUTH_JWT_SECRET")
	override(&c.Redis.Password, "REDIS_PASSWORD")
	override(&c.Events.AMQPURL, "AMQP_URL")
}

func (c *Config) Validate() error {
	var errs []error
	if c.Booking.SlotMinutes <= 0 {
		errs = append(errs, errors.New("booking.slot_minutes must be positive"))
	}
	if c.Booking.WindowDays <= 0 {
		errs = append(errs, errors.New("booking.window_days must be positive"))
	}
	if _, err := c.Booking.Location(); err != nil {
		errs = append(errs, fmt.Errorf("booking.timezone: %w", err))
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("database.driver: unknown driver %q", c.Database.Driver))
	}
	switch c.Events.Driver {
	case EventsKafka:
		if len(c.Events.Brokers) == 0 {
			errs = append(errs, errors.New("events.brokers is required for kafka"))
		}
	case EventsRabbitMQ:
		if c.Events.AMQPURL == "" {
			errs = append(errs, errors.New("events.amqp_url is required for rabbitmq"))
		}
	case EventsNone, "":
	default:
		errs = append(errs, fmt.Errorf("events.driver: unknown driver %q", c.Events.Driver))
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	return errors.Join(errs...)
}
