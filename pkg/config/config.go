package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Supported record store backends.
const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

type Config struct {
	Env         string
	Port        int
	APIPrefix   string
	StoreDriver string
	Timezone    string

	Database      DatabaseConfig
	Mongo         MongoConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Auth          AuthConfig
	CORS          CORSConfig
	Log           LogConfig
	Dashboard     DashboardConfig
	Notifications NotificationConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

// MongoConfig points at the document store used when STORE_DRIVER=mongo.
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AuthConfig gates the admin login and bearer-token guard.
type AuthConfig struct {
	Enabled           bool
	AdminUsername     string
	AdminPasswordHash string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level        string
	Format       string
	RollbarToken string
}

// DashboardConfig tunes counter caching.
type DashboardConfig struct {
	CacheTTL time.Duration
}

// NotificationConfig drives the daily birthday check and its delivery channels.
type NotificationConfig struct {
	BirthdayEnabled bool
	BirthdayHour    int
	RedisChannel    string
	SendGridAPIKey  string
	FromEmail       string
	FromName        string
	ToEmails        []string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.StoreDriver = strings.ToLower(v.GetString("STORE_DRIVER"))
	cfg.Timezone = v.GetString("APP_TIMEZONE")

	switch cfg.StoreDriver {
	case StorePostgres, StoreMongo:
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.StoreDriver)
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", cfg.Timezone, err)
	}

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Mongo = MongoConfig{
		URI:            v.GetString("MONGO_URI"),
		Database:       v.GetString("MONGO_DATABASE"),
		ConnectTimeout: parseDuration(v.GetString("MONGO_CONNECT_TIMEOUT"), 10*time.Second),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.Auth = AuthConfig{
		Enabled:           v.GetBool("AUTH_ENABLED"),
		AdminUsername:     v.GetString("ADMIN_USERNAME"),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
	}
	if cfg.Auth.Enabled && cfg.Auth.AdminPasswordHash == "" {
		return nil, errors.New("AUTH_ENABLED requires ADMIN_PASSWORD_HASH")
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:        v.GetString("LOG_LEVEL"),
		Format:       v.GetString("LOG_FORMAT"),
		RollbarToken: v.GetString("ROLLBAR_TOKEN"),
	}

	cfg.Dashboard = DashboardConfig{
		CacheTTL: parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), time.Minute),
	}

	hour := v.GetInt("BIRTHDAY_NOTIFY_HOUR")
	if hour < 0 || hour > 23 {
		hour = 9
	}
	cfg.Notifications = NotificationConfig{
		BirthdayEnabled: v.GetBool("ENABLE_BIRTHDAY_NOTIFIER"),
		BirthdayHour:    hour,
		RedisChannel:    v.GetString("NOTIFY_REDIS_CHANNEL"),
		SendGridAPIKey:  v.GetString("SENDGRID_API_KEY"),
		FromEmail:       v.GetString("NOTIFY_FROM_EMAIL"),
		FromName:        v.GetString("NOTIFY_FROM_NAME"),
		ToEmails:        splitAndTrim(v.GetString("NOTIFY_TO_EMAILS")),
	}

	return cfg, nil
}

// Location returns the configured wall-clock location, defaulting to UTC.
func (c *Config) Location() *time.Location {
	if c == nil || c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("STORE_DRIVER", StorePostgres)
	v.SetDefault("APP_TIMEZONE", "UTC")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sabha_admin")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "sabha_admin")
	v.SetDefault("MONGO_CONNECT_TIMEOUT", "10s")

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("JWT_ISSUER", "sabha-admin-api")

	v.SetDefault("AUTH_ENABLED", false)
	v.SetDefault("ADMIN_USERNAME", "admin")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("ROLLBAR_TOKEN", "")

	v.SetDefault("DASHBOARD_CACHE_TTL", "1m")

	v.SetDefault("ENABLE_BIRTHDAY_NOTIFIER", false)
	v.SetDefault("BIRTHDAY_NOTIFY_HOUR", 9)
	v.SetDefault("NOTIFY_REDIS_CHANNEL", "notifications:birthdays")
	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("NOTIFY_FROM_EMAIL", "")
	v.SetDefault("NOTIFY_FROM_NAME", "Sabha Admin")
	v.SetDefault("NOTIFY_TO_EMAILS", "")
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
