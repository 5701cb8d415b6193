package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contiene la configuración de la aplicación.
// Las variables de entorno son la única fuente: los secretos no tienen default.
type Config struct {
	Port string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool

	MemcachedHost string
	RabbitMQURL   string
	EventsQueue   string
	MongoURI      string
	MongoDatabase string

	LogLevel   string
	LogJSON    bool
	CORSOrigin string
	AppBaseURL string
}

// LoadConfig carga la configuración desde variables de entorno
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("SERVER_PORT", "8080"),
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBUser:        getEnv("DB_USER", "glor"),
		DBName:        getEnv("DB_NAME", "glor_crm"),
		DBSSLMode:     getEnv("DB_SSLMODE", "require"),
		MemcachedHost: os.Getenv("MEMCACHED_HOST"),
		RabbitMQURL:   os.Getenv("RABBITMQ_URL"),
		EventsQueue:   getEnv("EVENTS_QUEUE", "properties_queue"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDatabase: getEnv("MONGO_DATABASE", "glor_crm"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "*"),
		AppBaseURL:    getEnv("APP_BASE_URL", "http://localhost:3000"),
	}

	var err error
	if cfg.DBPassword, err = requireEnv("DB_PASSWORD"); err != nil {
		return nil, err
	}
	if cfg.JWTSecret, err = requireEnv("JWT_SECRET"); err != nil {
		return nil, err
	}

	switch cfg.DBDriver {
	case "mysql":
		cfg.DBPort = getEnv("DB_PORT", "3306")
	case "postgres":
		cfg.DBPort = getEnv("DB_PORT", "5432")
	default:
		return nil, fmt.Errorf("config: unsupported DB_DRIVER %q (mysql|postgres)", cfg.DBDriver)
	}

	if cfg.SessionTTL, err = time.ParseDuration(getEnv("SESSION_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("config: invalid SESSION_TTL: %w", err)
	}
	if cfg.LogJSON, err = strconv.ParseBool(getEnv("LOG_JSON", "true")); err != nil {
		return nil, fmt.Errorf("config: invalid LOG_JSON: %w", err)
	}
	if cfg.CookieSecure, err = strconv.ParseBool(getEnv("COOKIE_SECURE", "false")); err != nil {
		return nil, fmt.Errorf("config: invalid COOKIE_SECURE: %w", err)
	}

	return cfg, nil
}

// DSN arma el string de conexión según el driver
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
	}
	// Formato: usuario:password@tcp(host:puerto)/base_de_datos?opciones
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// getEnv obtiene una variable de entorno o retorna un valor por defecto
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// requireEnv falla si la variable no está definida
func requireEnv(key string) (string, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return "", fmt.Errorf("config: %s is required", key)
	}
	return value, nil
}
