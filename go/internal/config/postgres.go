package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
)

// Postgres describes the registry database when no DSN is given
type Postgres struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

func defaultPostgres() Postgres {
	return Postgres{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "league",
		SSLMode:  "disable",
	}
}

// applyEnv overrides fields from DB_* variables; an unparsable DB_PORT is ignored
func (p *Postgres) applyEnv() {
	setFromEnv("DB_HOST", &p.Host)
	setFromEnv("DB_USER", &p.User)
	setFromEnv("DB_PASSWORD", &p.Password)
	setFromEnv("DB_NAME", &p.Database)
	setFromEnv("DB_SSLMODE", &p.SSLMode)
	if v := os.Getenv("DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			p.Port = port
		}
	}
}

// DSN returns the connection URL, escaping credentials
func (p Postgres) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:     "/" + p.Database,
		RawQuery: url.Values{"sslmode": {p.SSLMode}}.Encode(),
	}
	return u.String()
}
