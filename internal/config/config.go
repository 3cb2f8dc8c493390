package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	BackendSQLite = "sqlite"
	BackendNeo4j  = "neo4j"

	Development = "development"
	Production  = "production"
)

var ErrInvalidSchema = errors.New("invalid memo schema")

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Schema describes the single memo table. Only the datetime key and version 1 exist.
type Schema struct {
	Table   string `yaml:"table" validate:"required,identifier"`
	Key     string `yaml:"key" validate:"required,eq=datetime"`
	Version int    `yaml:"version" validate:"eq=1"`
}

func DefaultSchema() Schema {
	return Schema{
		Table:   "memos",
		Key:     "datetime",
		Version: 1,
	}
}

func (s Schema) Validate() error {
	if err := newValidator().Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	return nil
}

type SQLiteConfig struct {
	Path string `yaml:"path" validate:"required"`
}

type Neo4jConfig struct {
	URI      string `yaml:"uri" validate:"required"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type Config struct {
	Environment string       `yaml:"environment" validate:"oneof=development production"`
	LogLevel    string       `yaml:"log_level" validate:"oneof=debug info warn error"`
	Backend     string       `yaml:"backend" validate:"oneof=sqlite neo4j"`
	SQLite      SQLiteConfig `yaml:"sqlite"`
	Neo4j       Neo4jConfig  `yaml:"neo4j"`
	Schema      Schema       `yaml:"schema"`
}

func Default() *Config {
	return &Config{
		Environment: Development,
		LogLevel:    "info",
		Backend:     BackendSQLite,
		SQLite: SQLiteConfig{
			Path: "markdown-editor.db",
		},
		Neo4j: Neo4jConfig{
			URI:      "bolt://localhost:7687",
			Username: "neo4j",
			Password: "password",
		},
		Schema: DefaultSchema(),
	}
}

// Load reads the YAML file at path on top of the defaults and applies MEMO_*
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err = yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Environment = getEnv("MEMO_ENVIRONMENT", c.Environment)
	c.LogLevel = getEnv("MEMO_LOG_LEVEL", c.LogLevel)
	c.Backend = getEnv("MEMO_BACKEND", c.Backend)
	c.SQLite.Path = getEnv("MEMO_SQLITE_PATH", c.SQLite.Path)
	c.Neo4j.URI = getEnv("MEMO_NEO4J_URI", c.Neo4j.URI)
	c.Neo4j.Username = getEnv("MEMO_NEO4J_USERNAME", c.Neo4j.Username)
	c.Neo4j.Password = getEnv("MEMO_NEO4J_PASSWORD", c.Neo4j.Password)
	c.Schema.Table = getEnv("MEMO_TABLE", c.Schema.Table)
	version, err := getEnvInt("MEMO_SCHEMA_VERSION", c.Schema.Version)
	if err != nil {
		return err
	}
	c.Schema.Version = version
	return nil
}

func (c *Config) Validate() error {
	if err := c.Schema.Validate(); err != nil {
		return err
	}
	v := newValidator()
	if err := v.StructExcept(c, "Schema", "SQLite", "Neo4j"); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.Backend {
	case BackendSQLite:
		if err := v.Struct(c.SQLite); err != nil {
			return fmt.Errorf("invalid sqlite config: %w", err)
		}
	case BackendNeo4j:
		if err := v.Struct(c.Neo4j); err != nil {
			return fmt.Errorf("invalid neo4j config: %w", err)
		}
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return identifierPattern.MatchString(fl.Field().String())
	})
	return v
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}
