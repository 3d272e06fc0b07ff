package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Вся конфигурация приложения, читается один раз при старте.
type Config struct {
	App      AppConfig
	Server   ServerConfig
	GRPC     GRPCConfig
	Database DBConfig
	Mail     MailConfig
	SMS      SMSConfig
	Notify   NotifyConfig
	CORS     CORSConfig
	OTel     OTelConfig
	Seed     SeedConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, production
	LogLevel    string
	TimeZone    string
	Version     string
}

func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Environment, "production")
}

// Location возвращает часовой пояс бизнеса, в нём считаем "сегодня".
func (a AppConfig) Location() (*time.Location, error) {
	return time.LoadLocation(a.TimeZone)
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type GRPCConfig struct {
	// При 0 gRPC-сервер не поднимаем.
	Port int
}

type MailConfig struct {
	Server        string
	Port          int
	Username      string
	Password      string
	DefaultSender string
	ResendAPIKey  string
}

func (m MailConfig) SMTPEnabled() bool {
	return m.Server != "" && m.Username != "" && m.Password != ""
}

type SMSConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

func (s SMSConfig) Enabled() bool {
	return s.AccountSID != "" && s.AuthToken != "" && s.From != ""
}

type NotifyConfig struct {
	BookingEmail    string
	Timeout         time.Duration
	NotifyOnReject  bool
	BusinessPhone   string
	BusinessWebsite string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type OTelConfig struct {
	Enabled       bool
	ServiceName   string
	CollectorAddr string
}

type SeedConfig struct {
	Services bool
}

// То, что нам нужно от viper.
type envReader interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	GetDuration(key string) time.Duration
}

// Load читает .env (если есть) и переменные окружения.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "dj-booking")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_TIMEZONE", "Europe/Warsaw")

	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 5000)
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "30s")
	v.SetDefault("SERVER_IDLE_TIMEOUT", "120s")

	v.SetDefault("GRPC_PORT", 50051)

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "postgres")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "booking")
	v.SetDefault("DB_PASSWORD", "booking")
	v.SetDefault("DB_NAME", "dj_booking")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_SQLITE_PATH", "dj_booking.db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")

	v.SetDefault("MAIL_SERVER", "smtp.gmail.com")
	v.SetDefault("MAIL_PORT", 587)
	v.SetDefault("MAIL_DEFAULT_SENDER", "booking@arch1tect.pl")

	v.SetDefault("BOOKING_EMAIL", "booking@arch1tect.pl")
	v.SetDefault("NOTIFY_TIMEOUT", "10s")
	v.SetDefault("NOTIFY_ON_REJECT", false)
	v.SetDefault("BUSINESS_WEBSITE", "https://www.arch1tect.pl")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "https://lively-river-087542903.3.azurestaticapps.net,http://localhost:3000,http://localhost:*")

	v.SetDefault("OTEL_ENABLED", false)
	v.SetDefault("OTEL_SERVICE_NAME", "dj-booking")
	v.SetDefault("OTEL_COLLECTOR_ADDR", "localhost:4317")

	v.SetDefault("SEED_SERVICES", true)
}

func fromViper(v envReader) *Config {
	return &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Environment: v.GetString("APP_ENV"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			TimeZone:    v.GetString("APP_TIMEZONE"),
			Version:     v.GetString("APP_VERSION"),
		},
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetInt("SERVER_PORT"),
			ReadTimeout:  v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("SERVER_WRITE_TIMEOUT"),
			IdleTimeout:  v.GetDuration("SERVER_IDLE_TIMEOUT"),
		},
		GRPC:     GRPCConfig{Port: v.GetInt("GRPC_PORT")},
		Database: loadDBConfig(v),
		Mail: MailConfig{
			Server:        v.GetString("MAIL_SERVER"),
			Port:          v.GetInt("MAIL_PORT"),
			Username:      v.GetString("MAIL_USERNAME"),
			Password:      v.GetString("MAIL_PASSWORD"),
			DefaultSender: v.GetString("MAIL_DEFAULT_SENDER"),
			ResendAPIKey:  v.GetString("RESEND_API_KEY"),
		},
		SMS: SMSConfig{
			AccountSID: v.GetString("SMS_ACCOUNT_SID"),
			AuthToken:  v.GetString("SMS_AUTH_TOKEN"),
			From:       v.GetString("SMS_FROM"),
		},
		Notify: NotifyConfig{
			BookingEmail:    v.GetString("BOOKING_EMAIL"),
			Timeout:         v.GetDuration("NOTIFY_TIMEOUT"),
			NotifyOnReject:  v.GetBool("NOTIFY_ON_REJECT"),
			BusinessPhone:   v.GetString("BUSINESS_PHONE"),
			BusinessWebsite: v.GetString("BUSINESS_WEBSITE"),
		},
		CORS: CORSConfig{AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS"))},
		OTel: OTelConfig{
			Enabled:       v.GetBool("OTEL_ENABLED"),
			ServiceName:   v.GetString("OTEL_SERVICE_NAME"),
			CollectorAddr: v.GetString("OTEL_COLLECTOR_ADDR"),
		},
		Seed: SeedConfig{Services: v.GetBool("SEED_SERVICES")},
	}
}

// Validate проверяет то, без чего сервис не поднимется.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.GRPC.Port < 0 {
		return fmt.Errorf("invalid grpc port %d", c.GRPC.Port)
	}
	if _, err := c.App.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.TimeZone, err)
	}
	if c.Notify.Timeout <= 0 {
		return fmt.Errorf("NOTIFY_TIMEOUT must be positive")
	}
	if c.Notify.BookingEmail == "" {
		return fmt.Errorf("BOOKING_EMAIL must not be empty")
	}
	return c.Database.validate()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
