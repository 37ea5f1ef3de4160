package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/yukikurage/todo-api/internal/constants"
)

// DefaultJWTSecret is only acceptable outside release mode.
const DefaultJWTSecret = "default-secret-key-change-me"

type Config struct {
	Port          string   `toml:"port"`
	GinMode       string   `toml:"gin_mode"`
	StoreDriver   string   `toml:"store_driver"`
	MongoURI      string   `toml:"mongo_uri"`
	MongoDatabase string   `toml:"mongo_database"`
	DBHost        string   `toml:"db_host"`
	DBPort        string   `toml:"db_port"`
	DBUser        string   `toml:"db_user"`
	DBPassword    string   `toml:"db_password"`
	DBName        string   `toml:"db_name"`
	SQLitePath    string   `toml:"sqlite_path"`
	JWTSecret     string   `toml:"jwt_secret"`
	CORSOrigins   []string `toml:"cors_origins"`
	OpenAIAPIKey  string   `toml:"openai_api_key"`
	OpenAIModel   string   `toml:"openai_model"`
	LogLevel      string   `toml:"log_level"`
}

// Load builds the configuration from, in increasing priority:
// built-in defaults, the TOML file named by CONFIG_FILE, a .env file in the
// working directory, and the process environment.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	// godotenv never overrides variables that are already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port:          "8080",
		GinMode:       "debug",
		StoreDriver:   constants.StoreDriverMongo,
		MongoURI:      "mongodb://localhost:27017",
		MongoDatabase: "todo_app",
		DBHost:        "localhost",
		DBPort:        "5432",
		DBUser:        "todouser",
		DBPassword:    "todopassword",
		DBName:        "todo_app",
		SQLitePath:    "todo.db",
		JWTSecret:     DefaultJWTSecret,
		OpenAIModel:   "gpt-4o",
		LogLevel:      "info",
	}
}

func applyEnv(cfg *Config) {
	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.GinMode = getEnv("GIN_MODE", cfg.GinMode)
	cfg.StoreDriver = strings.ToLower(getEnv("STORE_DRIVER", cfg.StoreDriver))
	cfg.MongoURI = getEnv("MONGO_URI", cfg.MongoURI)
	cfg.MongoDatabase = getEnv("MONGO_DATABASE", cfg.MongoDatabase)
	cfg.DBHost = getEnv("DB_HOST", cfg.DBHost)
	cfg.DBPort = getEnv("DB_PORT", cfg.DBPort)
	cfg.DBUser = getEnv("DB_USER", cfg.DBUser)
	cfg.DBPassword = getEnv("DB_PASSWORD", cfg.DBPassword)
	cfg.DBName = getEnv("DB_NAME", cfg.DBName)
	cfg.SQLitePath = getEnv("SQLITE_PATH", cfg.SQLitePath)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIModel = getEnv("OPENAI_MODEL", cfg.OpenAIModel)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if origins := os.Getenv("CORS_ORIGIN"); origins != "" {
		cfg.CORSOrigins = ParseOrigins(origins)
	}
}

// Validate reports configuration that the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case constants.StoreDriverMongo, constants.StoreDriverPostgres,
		constants.StoreDriverMySQL, constants.StoreDriverSQLite:
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}

	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.IsRelease() && c.JWTSecret == DefaultJWTSecret {
		return errors.New("JWT_SECRET must be set in release mode")
	}
	return nil
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

// ParseOrigins splits a comma separated allow-list, dropping blanks.
func ParseOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
