package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/GonzaloH5/league-bot/go/internal/models"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when CONFIG_PATH is not set
const DefaultPath = "config.yaml"

type Config struct {
	Server struct {
		Port            string        `yaml:"port"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Storage struct {
		// DataDir holds one database per tenant. Empty keeps every tenant in memory.
		DataDir string `yaml:"data_dir"`
	} `yaml:"storage"`

	Registry struct {
		Driver string `yaml:"driver"` // sqlite or postgres
		DSN    string `yaml:"dsn"`
		Listen bool   `yaml:"listen"` // LISTEN for bans issued by other processes (postgres only)

		// Postgres builds the DSN when driver is postgres and dsn is empty
		Postgres Postgres `yaml:"postgres"`
	} `yaml:"registry"`

	Notifications struct {
		Driver        string `yaml:"driver"` // log or jetstream
		NATSURL       string `yaml:"nats_url"`
		StreamName    string `yaml:"stream_name"`
		SubjectPrefix string `yaml:"subject_prefix"`
	} `yaml:"notifications"`

	Operators []string `yaml:"operators"`
	LogLevel  string   `yaml:"log_level"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = "8080"
	cfg.Server.ShutdownTimeout = 10 * time.Second
	cfg.Storage.DataDir = "data"
	cfg.Registry.Driver = "sqlite"
	cfg.Registry.Postgres = defaultPostgres()
	cfg.Notifications.Driver = "log"
	cfg.LogLevel = "info"
	return cfg
}

// Load reads path over the defaults, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setFromEnv("PORT", &c.Server.Port)
	setFromEnv("DATA_DIR", &c.Storage.DataDir)
	setFromEnv("REGISTRY_DRIVER", &c.Registry.Driver)
	setFromEnv("REGISTRY_DSN", &c.Registry.DSN)
	setFromEnv("LOG_LEVEL", &c.LogLevel)
	c.Registry.Postgres.applyEnv()
	if url := os.Getenv("NATS_URL"); url != "" {
		c.Notifications.NATSURL = url
		c.Notifications.Driver = "jetstream"
	}
	if v := os.Getenv("REGISTRY_LISTEN"); v != "" {
		if listen, err := strconv.ParseBool(v); err == nil {
			c.Registry.Listen = listen
		}
	}
	if ops := os.Getenv("OPERATORS"); ops != "" {
		c.Operators = strings.Split(ops, ",")
	}
}

func (c *Config) finish() error {
	switch c.Registry.Driver {
	case "sqlite":
		if c.Registry.DSN == "" && c.Storage.DataDir != "" {
			c.Registry.DSN = filepath.Join(c.Storage.DataDir, "registry.db")
		}
	case "postgres":
		if c.Registry.DSN == "" {
			c.Registry.DSN = c.Registry.Postgres.DSN()
		}
	default:
		return fmt.Errorf("unknown registry driver %q", c.Registry.Driver)
	}

	switch c.Notifications.Driver {
	case "log", "jetstream":
	default:
		return fmt.Errorf("unknown notifications driver %q", c.Notifications.Driver)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return nil
}

// Level returns the configured zerolog level
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// OperatorIDs returns the configured platform operators
func (c *Config) OperatorIDs() []models.ActorID {
	ids := make([]models.ActorID, 0, len(c.Operators))
	for _, op := range c.Operators {
		if op = strings.TrimSpace(op); op != "" {
			ids = append(ids, models.ActorID(op))
		}
	}
	return ids
}

func setFromEnv(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}
