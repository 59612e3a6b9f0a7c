package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Database struct {
	URL          string `mapstructure:"url"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	PasswordFile string `mapstructure:"password_file"`
	Host         string `mapstructure:"host"`
	Port         uint16 `mapstructure:"port"`
	Name         string `mapstructure:"name"`
	SSLMode      string `mapstructure:"sslmode"`
}

func (c Database) loadPassword() (string, error) {
	if c.Password != "" || c.PasswordFile == "" {
		return c.Password, nil
	}
	data, err := os.ReadFile(c.PasswordFile)
	if err != nil {
		return "", fmt.Errorf("unable to read from password file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ConnString returns the configured URL, or builds one from the individual
// fields.
func (c Database) ConnString() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}
	if c.User == "" {
		return "", fmt.Errorf("neither database.url nor database.user is set")
	}
	password, err := c.loadPassword()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(password),
		c.Host,
		c.Port,
		c.Name,
		c.SSLMode,
	), nil
}

func (c Database) PgxpoolConfig() (*pgxpool.Config, error) {
	connString, err := c.ConnString()
	if err != nil {
		return nil, err
	}
	return pgxpool.ParseConfig(connString)
}
