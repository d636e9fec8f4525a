package mongo

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrConfParamMissing = fmt.Errorf("configuration parameter missing")

type Config struct {
	Host   string
	Port   string
	DBName string
	User   string
	Pass   string
}

// NewConfig reads the connection parameters from MONGO_* environment variables.
func NewConfig() (*Config, error) {
	conf := new(Config)
	conf.Host = os.Getenv("MONGO_HOST")
	if conf.Host == "" {
		return nil, fmt.Errorf("%w: MONGO_HOST", ErrConfParamMissing)
	}
	conf.Port = os.Getenv("MONGO_PORT")
	if conf.Port == "" {
		return nil, fmt.Errorf("%w: MONGO_PORT", ErrConfParamMissing)
	}
	conf.DBName = os.Getenv("MONGO_DB_NAME")
	if conf.DBName == "" {
		return nil, fmt.Errorf("%w: MONGO_DB_NAME", ErrConfParamMissing)
	}
	conf.User = os.Getenv("MONGO_USER")
	conf.Pass = os.Getenv("MONGO_PASS")

	return conf, nil
}

// ParseURI builds a Config from a mongodb://[user:pass@]host:port/dbname source.
func ParseURI(uri string) (*Config, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "mongodb" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	conf := &Config{
		Host:   u.Hostname(),
		Port:   u.Port(),
		DBName: strings.Trim(u.Path, "/"),
	}
	if u.User != nil {
		conf.User = u.User.Username()
		conf.Pass, _ = u.User.Password()
	}
	if conf.Host == "" {
		return nil, fmt.Errorf("%w: host", ErrConfParamMissing)
	}
	if conf.Port == "" {
		conf.Port = "27017"
	}
	if conf.DBName == "" {
		return nil, fmt.Errorf("%w: database name", ErrConfParamMissing)
	}

	return conf, nil
}

func (c *Config) conString() string {
	if c.User != "" && c.Pass != "" {
		return fmt.Sprintf("mongodb://%s:%s@%s:%s/", c.User, c.Pass, c.Host, c.Port)
	}
	return fmt.Sprintf("mongodb://%s:%s/", c.Host, c.Port)
}

func (c *Config) Options() *options.ClientOptions {
	return options.Client().ApplyURI(c.conString())
}
