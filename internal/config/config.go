package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Log struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type Config struct {
	Mode      string    `mapstructure:"mode"`
	Addr      string    `mapstructure:"addr"`
	PublicURL string    `mapstructure:"public_url"`
	Origins   []string  `mapstructure:"origins"`
	Database  Database  `mapstructure:"database"`
	Cookies   Cookies   `mapstructure:"cookies"`
	JWT       JWTConfig `mapstructure:"jwt"`
	Log       Log       `mapstructure:"log"`
}

const EnvPrefix = "RECALL"

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "production")
	v.SetDefault("addr", ":8080")
	v.SetDefault("public_url", "http://localhost:5173/")
	v.SetDefault("origins", []string{})

	v.SetDefault("database.url", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.password_file", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "recall")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("cookies.domain", "")
	v.SetDefault("cookies.secure", true)
	v.SetDefault("cookies.samesite", "strict")

	v.SetDefault("jwt.private_key", "")
	v.SetDefault("jwt.private_key_file", "")
	v.SetDefault("jwt.public_key", "")
	v.SetDefault("jwt.public_key_file", "")
	v.SetDefault("jwt.token_lifetime", 30*24*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// Load reads the config file at path, if any, and overlays RECALL_*
// environment variables (RECALL_DATABASE_HOST for database.host).
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}
	return &cfg, nil
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

func (c Config) Fields() logrus.Fields {
	return logrus.Fields{
		"mode":                 c.Mode,
		"addr":                 c.Addr,
		"public_url":           c.PublicURL,
		"origins":              c.Origins,
		"pg_host":              c.Database.Host,
		"pg_port":              c.Database.Port,
		"pg_user":              c.Database.User,
		"pg_db_name":           c.Database.Name,
		"cookies_domain":       c.Cookies.Domain,
		"jwt_token_lifetime":   c.JWT.TokenLifetime.String(),
		"jwt_private_key_file": c.JWT.PrivateKeyFile,
		"jwt_public_key_file":  c.JWT.PublicKeyFile,
		"log_level":            c.Log.Level,
		"log_file":             c.Log.File,
	}
}
