package postgres

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

var ErrConfParamMissing = fmt.Errorf("configuration parameter missing")

// Config holds the parameters of a word list database connection.
type Config struct {
	User     string
	Password string
	Host     string
	Port     string
	DBName   string
}

// NewConfig reads the connection parameters from POSTGRES_* environment variables.
// Only POSTGRES_PASSWORD is required, the rest fall back to a local default database.
func NewConfig() (*Config, error) {
	conf := &Config{
		User:     envOr("POSTGRES_USER", "postgres"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		Host:     envOr("POSTGRES_HOST", "localhost"),
		Port:     envOr("POSTGRES_PORT", "5432"),
		DBName:   envOr("POSTGRES_DB", "censorship"),
	}
	if conf.Password == "" {
		return nil, fmt.Errorf("%w: POSTGRES_PASSWORD", ErrConfParamMissing)
	}

	return conf, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// ConString returns the connection URL. User and password are escaped.
func (c *Config) ConString() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.DBName,
	}
	return u.String()
}

func (c Config) String() string {
	c.Password = strings.Repeat("*", len([]rune(c.Password)))
	return fmt.Sprintf("%#v", c)
}
