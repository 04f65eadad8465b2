package config

import (
	"os"
	"time"

	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"
)

const (
	CONFIG_PATH = "./res/config.yaml"

	// ENV_PREFIX prefixes every environment override, e.g. JIRAIYA_SECRET_KEY.
	ENV_PREFIX = "JIRAIYA"
)

// ServiceConfig holds the configuration for the service.
type ServiceConfig struct {
	ServiceName string    `yaml:"service_name" validate:"required"`
	LogLevel    string    `yaml:"loglevel" validate:"required"`
	Host        string    `yaml:"host"`
	Port        string    `yaml:"port" validate:"required"`
	Token       Token     `yaml:"token"`
	RateLimit   RateLimit `yaml:"rate_limit"`
	Database    Database  `yaml:"database"`
}

// Token configures how bearer tokens are signed.
type Token struct {
	Algorithm      string `yaml:"algorithm" validate:"required,oneof=HS256 ES256"`
	SecretKey      string `yaml:"secret_key" validate:"required_if=Algorithm HS256"`
	PrivateKeyPath string `yaml:"private_key_path" validate:"required_if=Algorithm ES256"`
	Issuer         string `yaml:"issuer"`
	BcryptCost     int    `yaml:"bcrypt_cost"`
}

// RateLimit bounds login attempts across the whole service.
type RateLimit struct {
	LoginRPS   float64 `yaml:"login_rps" validate:"gte=0"`
	LoginBurst int     `yaml:"login_burst" validate:"gte=0"`
}

type Database struct {
	Type string `yaml:"type" validate:"required,oneof=sqlite postgres mongo"`
	// For SQLite
	SQLite SQLiteConfig `yaml:"sqlite_config"`
	// For MongoDB
	MongoDB MongoDBConfig `yaml:"mongodb_config"`
	// For PostgreSQL
	Postgres PostgresConfig `yaml:"postgres_config"`
}

type SQLiteConfig struct {
	DSN string `yaml:"dsn"`
}

// MongoDBConfig holds the MongoDB connection and sanitization settings.
type MongoDBConfig struct {
	DSN              string             `yaml:"dsn"`
	Timeout          time.Duration      `yaml:"timeout"`
	Options          MongoServerOptions `yaml:"mongo_server_options"`
	ValidCollections []string           `yaml:"valid_collections"`
	ValidFields      []string           `yaml:"valid_fields"`
}

type PostgresConfig struct {
	DSN     string                `yaml:"dsn"`
	Options PostgresServerOptions `yaml:"postgres_server_options"`
}

type MongoServerOptions struct {
	APIVersion           string `yaml:"api_version"`
	SetStrict            bool   `yaml:"set_strict"`
	SetDeprecationErrors bool   `yaml:"set_deprecation_errors"`
}

type PostgresServerOptions struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// ReadLocalConfig reads the service configuration from a YAML file at the specified path.
// It unmarshals the YAML content into a ServiceConfig struct and returns it.
// If there is an error reading the file or unmarshaling the content, it returns an error.
func ReadLocalConfig(configPath string) (*ServiceConfig, error) {
	config := &ServiceConfig{}

	yamlFile, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	err = yaml.Unmarshal(yamlFile, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyEnvOverrides overlays JIRAIYA_* environment variables on cfg. Secrets
// and connection strings are expected to come from the environment in deployments.
func ApplyEnvOverrides(cfg *ServiceConfig) {
	v := viper.New()
	v.SetEnvPrefix(ENV_PREFIX)
	for _, key := range []string{"secret_key", "database_type", "database_dsn", "loglevel", "host", "port"} {
		_ = v.BindEnv(key)
	}

	if s := v.GetString("secret_key"); s != "" {
		cfg.Token.SecretKey = s
	}
	if s := v.GetString("database_type"); s != "" {
		cfg.Database.Type = s
	}
	if s := v.GetString("database_dsn"); s != "" {
		cfg.Database.SetDSN(s)
	}
	if s := v.GetString("loglevel"); s != "" {
		cfg.LogLevel = s
	}
	if s := v.GetString("host"); s != "" {
		cfg.Host = s
	}
	if s := v.GetString("port"); s != "" {
		cfg.Port = s
	}
}

// DSN returns the connection string of the selected backend.
func (d *Database) DSN() string {
	switch d.Type {
	case "sqlite":
		return d.SQLite.DSN
	case "postgres":
		return d.Postgres.DSN
	case "mongo":
		return d.MongoDB.DSN
	default:
		return ""
	}
}

// SetDSN sets the connection string of the selected backend.
func (d *Database) SetDSN(dsn string) {
	switch d.Type {
	case "sqlite":
		d.SQLite.DSN = dsn
	case "postgres":
		d.Postgres.DSN = dsn
	case "mongo":
		d.MongoDB.DSN = dsn
	}
}

func BuildServerAPIOptions(cfg MongoServerOptions) *options.ServerAPIOptions {
	opts := options.ServerAPI(options.ServerAPIVersion(cfg.APIVersion))
	opts.SetStrict(cfg.SetStrict)
	opts.SetDeprecationErrors(cfg.SetDeprecationErrors)

	return opts
}

func ListToMap(list []string) map[string]bool {
	result := make(map[string]bool)
	for _, item := range list {
		result[item] = true
	}
	return result
}
