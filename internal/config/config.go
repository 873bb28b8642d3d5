package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Store   StoreConfig
	Catalog CatalogConfig
	Storage StorageConfig
	S3      S3Config
	Parse   ParseConfig
	Log     LogConfig
	CORS    CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// StoreConfig selects where parse runs are kept.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // memory | postgres
}

// UsesPostgres reports whether the run store needs a database.
func (s *StoreConfig) UsesPostgres() bool {
	return s.Driver == "postgres"
}

// CatalogConfig selects where the component catalog comes from.
type CatalogConfig struct {
	Source string `mapstructure:"source"` // file | postgres
	Path   string `mapstructure:"path"`
}

// StorageConfig selects the archive for uploaded drawings and exports.
type StorageConfig struct {
	Provider string `mapstructure:"provider"` // noop | s3
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// ParseConfig holds drawing parse settings.
type ParseConfig struct {
	MaxFileSizeMB      int64    `mapstructure:"max_file_size_mb"`
	ExcludedLayers     []string `mapstructure:"excluded_layers"`
	FirstInputAddress  int      `mapstructure:"first_input_address"`
	FirstOutputAddress int      `mapstructure:"first_output_address"`
}

// MaxFileSizeBytes returns the upload limit in bytes.
func (p *ParseConfig) MaxFileSizeBytes() int64 {
	return p.MaxFileSizeMB * 1024 * 1024
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the IOLIST_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("IOLIST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "iolist")
	v.SetDefault("db.password", "iolist_secret")
	v.SetDefault("db.name", "iolist_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 10)
	v.SetDefault("db.max_idle", 5)

	v.SetDefault("store.driver", "memory")

	v.SetDefault("catalog.source", "file")
	v.SetDefault("catalog.path", "component_db.json")

	v.SetDefault("storage.provider", "noop")

	// S3 defaults
	v.SetDefault("s3.region", "eu-central-1")
	v.SetDefault("s3.bucket", "iolist-drawings")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Parse defaults
	v.SetDefault("parse.max_file_size_mb", 100)
	v.SetDefault("parse.excluded_layers", "0_SA-Comp_ICE")
	v.SetDefault("parse.first_input_address", 300)
	v.SetDefault("parse.first_output_address", 318)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "IOLIST_SERVER_PORT",
		"server.read_timeout":        "IOLIST_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "IOLIST_SERVER_WRITE_TIMEOUT",
		"server.environment":         "IOLIST_SERVER_ENVIRONMENT",
		"db.host":                    "IOLIST_DB_HOST",
		"db.port":                    "IOLIST_DB_PORT",
		"db.user":                    "IOLIST_DB_USER",
		"db.password":                "IOLIST_DB_PASSWORD",
		"db.name":                    "IOLIST_DB_NAME",
		"db.sslmode":                 "IOLIST_DB_SSLMODE",
		"db.max_open":                "IOLIST_DB_MAX_OPEN",
		"db.max_idle":                "IOLIST_DB_MAX_IDLE",
		"store.driver":               "IOLIST_STORE_DRIVER",
		"catalog.source":             "IOLIST_CATALOG_SOURCE",
		"catalog.path":               "IOLIST_CATALOG_PATH",
		"storage.provider":           "IOLIST_STORAGE_PROVIDER",
		"s3.region":                  "IOLIST_S3_REGION",
		"s3.bucket":                  "IOLIST_S3_BUCKET",
		"s3.endpoint":                "IOLIST_S3_ENDPOINT",
		"s3.access_key":              "IOLIST_S3_ACCESS_KEY",
		"s3.secret_key":              "IOLIST_S3_SECRET_KEY",
		"s3.presign_expiry":          "IOLIST_S3_PRESIGN_EXPIRY",
		"parse.max_file_size_mb":     "IOLIST_PARSE_MAX_FILE_SIZE_MB",
		"parse.excluded_layers":      "IOLIST_PARSE_EXCLUDED_LAYERS",
		"parse.first_input_address":  "IOLIST_PARSE_FIRST_INPUT_ADDRESS",
		"parse.first_output_address": "IOLIST_PARSE_FIRST_OUTPUT_ADDRESS",
		"log.level":                  "IOLIST_LOG_LEVEL",
		"log.format":                 "IOLIST_LOG_FORMAT",
		"cors.allowed_origins":       "IOLIST_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if IOLIST_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("IOLIST_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Store = StoreConfig{
		Driver: strings.ToLower(v.GetString("store.driver")),
	}
	cfg.Catalog = CatalogConfig{
		Source: strings.ToLower(v.GetString("catalog.source")),
		Path:   v.GetString("catalog.path"),
	}
	cfg.Storage = StorageConfig{
		Provider: strings.ToLower(v.GetString("storage.provider")),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Parse = ParseConfig{
		MaxFileSizeMB:      v.GetInt64("parse.max_file_size_mb"),
		ExcludedLayers:     splitList(v.GetString("parse.excluded_layers")),
		FirstInputAddress:  v.GetInt("parse.first_input_address"),
		FirstOutputAddress: v.GetInt("parse.first_output_address"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case "memory", "postgres":
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	switch c.Catalog.Source {
	case "file", "postgres":
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}
	switch c.Storage.Provider {
	case "noop", "s3":
	default:
		return fmt.Errorf("unknown storage provider %q", c.Storage.Provider)
	}
	if c.Parse.MaxFileSizeMB <= 0 {
		return fmt.Errorf("parse.max_file_size_mb must be positive, got %d", c.Parse.MaxFileSizeMB)
	}
	return nil
}

// NeedsDB reports whether any configured component uses PostgreSQL.
func (c *Config) NeedsDB() bool {
	return c.Store.UsesPostgres() || c.Catalog.Source == "postgres"
}

// splitList parses a comma-separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
