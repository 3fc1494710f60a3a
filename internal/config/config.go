package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN returns the keyword/value connection string for the postgres driver.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// URL returns the postgres:// connection URL used by the migration runner.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// KafkaConfig holds message broker settings.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
}

// PhotoConfig holds photo storage settings.
type PhotoConfig struct {
	StoragePath    string
	MaxUploadBytes int64
}

// ServiceConfig holds all configuration for the pet photo service.
type ServiceConfig struct {
	Port   string
	AppEnv string
	DB     DatabaseConfig
	Kafka  KafkaConfig
	Photo  PhotoConfig
}

// Load reads configuration from PETPHOTO_-prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	v.SetEnvPrefix("PETPHOTO")
	v.AutomaticEnv()

	v.SetDefault("SERVICE_PORT", "8084")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "petphoto")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "petphoto.")
	v.SetDefault("PHOTO_STORAGE_PATH", "./pet-photos")
	v.SetDefault("PHOTO_MAX_UPLOAD_BYTES", int64(10<<20))

	port := v.GetString("SERVICE_PORT")
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}

	maxUpload := v.GetInt64("PHOTO_MAX_UPLOAD_BYTES")
	if maxUpload <= 0 {
		return nil, fmt.Errorf("PHOTO_MAX_UPLOAD_BYTES must be positive, got %d", maxUpload)
	}

	return &ServiceConfig{
		Port:   port,
		AppEnv: v.GetString("APP_ENV"),
		DB: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
		},
		Kafka: KafkaConfig{
			Brokers:     splitBrokers(v.GetString("KAFKA_BROKERS")),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		},
		Photo: PhotoConfig{
			StoragePath:    v.GetString("PHOTO_STORAGE_PATH"),
			MaxUploadBytes: maxUpload,
		},
	}, nil
}

// splitBrokers parses a comma-separated broker list; viper does not
// split env values itself.
func splitBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}
