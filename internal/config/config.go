package config

import (
	"fmt"
	"os"
	"strconv"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration
	Database DatabaseConfig `json:"database"`

	// Mongo / GridFS media store
	Mongo MongoConfig `json:"mongo"`

	// Redis cache (unread counters, like counts)
	Redis RedisConfig `json:"redis"`

	// Kafka event sink (optional)
	Kafka KafkaConfig `json:"kafka"`

	// Notification Configuration
	Notification NotificationConfig `json:"notification"`

	// Email Configuration (optional)
	Email EmailConfig `json:"email"`

	// Media server, used to build public URLs for uploaded files
	Media MediaConfig `json:"media"`

	// Auth configuration
	Auth AuthConfig `json:"auth"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Port         string `json:"port"`
	Host         string `json:"host"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
	Environment  string `json:"environment"` // development, staging, production
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

type MongoConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
}

type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// KafkaConfig configures the optional notification event sink.
type KafkaConfig struct {
	Brokers []string `json:"brokers"`
	Topic   string   `json:"topic"`
	Enabled bool     `json:"enabled"`
}

// NotificationConfig contains notification system configuration
type NotificationConfig struct {
	ChannelBufferSize int  `json:"channel_buffer_size"` // broker output channel buffer
	PageSize          int  `json:"page_size"`           // max notifications returned per page read
	ResyncInterval    int  `json:"resync_interval"`     // seconds between counter reconciliations, 0 disables
	Enabled           bool `json:"enabled"`
}

// EmailConfig contains email service configuration (optional)
type EmailConfig struct {
	SMTPHost  string `json:"smtp_host"`
	SMTPPort  int    `json:"smtp_port"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FromEmail string `json:"from_email"`
	Enabled   bool   `json:"enabled"`
}

type MediaConfig struct {
	BaseURL string `json:"base_url"` // e.g. http://localhost:8081/media/
	Port    string `json:"port"`
}

type AuthConfig struct {
	JWTSecret   string `json:"-"`
	TokenExpiry int    `json:"token_expiry"` // hours
}

// Load builds a Config from environment variables. Call godotenv.Load
// before this if a .env file is in play.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			Environment:  getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "3306"),
			Username:     getEnv("DB_USER", "linkup_user"),
			Password:     getEnv("DB_PASSWORD", ""),
			DatabaseName: getEnv("DB_NAME", "linkup_db"),
			MaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),
		},
		Mongo: MongoConfig{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DB", "linkup_media"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKER", "localhost:9092")},
			Topic:   getEnv("KAFKA_NOTIF_TOPIC", "linkup.notifications"),
			Enabled: getEnv("KAFKA_ENABLED", "false") == "true",
		},
		Notification: NotificationConfig{
			ChannelBufferSize: getEnvInt("NOTIF_CHANNEL_BUFFER", 256),
			PageSize:          getEnvInt("NOTIF_PAGE_SIZE", 50),
			ResyncInterval:    getEnvInt("NOTIF_RESYNC_INTERVAL", 60),
			Enabled:           true,
		},
		Email: EmailConfig{
			SMTPHost:  getEnv("SMTP_HOST", ""),
			SMTPPort:  getEnvInt("SMTP_PORT", 587),
			Username:  getEnv("SMTP_USERNAME", ""),
			Password:  getEnv("SMTP_PASSWORD", ""),
			FromEmail: getEnv("FROM_EMAIL", "no-reply@linkup.local"),
			Enabled:   getEnv("EMAIL_ENABLED", "false") == "true",
		},
		Media: MediaConfig{
			BaseURL: getEnv("MEDIA_BASE_URL", "http://localhost:8081/media/"),
			Port:    getEnv("MEDIA_PORT", "8081"),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("JWT_SECRET", ""),
			TokenExpiry: getEnvInt("TOKEN_EXPIRY_HOURS", 24),
		},
	}
}

// DSN assembles the MySQL connection string from the database section.
func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
