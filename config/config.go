// Package config contains code to set the default values and read
// config files to be used throughout the whole application
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"bitwise74/notes-api/db"
	"bitwise74/notes-api/pkg/util"

	"github.com/spf13/pflag"
	v "github.com/spf13/viper"
)

var validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}

// MissingSecretError is returned when no JWT secret was configured. The
// message carries a freshly generated one the operator can paste.
type MissingSecretError struct {
	Suggested string
}

func (e *MissingSecretError) Error() string {
	return "no JWT secret set, use jwt.secret in config.toml or the JWT_SECRET environment variable. Random secret: " + e.Suggested
}

// Flags registers the command line flags read by Setup
func Flags(fs *pflag.FlagSet) {
	fs.String("config", ".", "Directory containing config.toml")
	fs.Int("port", 8080, "Port to listen on")
}

// Setup prepares everything config-related so that the app can
// start working. Function will return an error if something
// is critically wrong and the application can't run because of
// that. Every key can be overridden by its upper-cased environment
// variable with dots replaced by underscores (jwt.secret -> JWT_SECRET).
func Setup(fs *pflag.FlagSet) error {
	if fs != nil {
		if f := fs.Lookup("port"); f != nil {
			v.BindPFlag("host.port", f)
		}

		if f := fs.Lookup("config"); f != nil {
			v.AddConfigPath(f.Value.String())
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	//
	// Defaults
	//
	v.SetDefault("app.log_level", "info")

	v.SetDefault("host.port", 8080)
	v.SetDefault("host.domain", "localhost:8080")
	v.SetDefault("host.ssl_enabled", false)
	v.SetDefault("host.cors", []string{"http://localhost:3000"})

	v.SetDefault("jwt.ttl", "24h")

	v.SetDefault("database.driver", db.DriverSQLite)
	v.SetDefault("database.dsn", "database.db")

	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.workers", 2)
	v.SetDefault("mail.queue_size", 100)

	v.SetDefault("reminder.schedule", "@every 20s")

	v.SetDefault("security.rate_limit", 20)

	if err := v.ReadInConfig(); err != nil {
		var notFound v.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file, %w", err)
		}
	}

	if !slices.Contains(validLogLevels, v.GetString("app.log_level")) {
		return errors.New("invalid log level provided")
	}

	if v.GetInt("host.port") <= 0 {
		return errors.New("invalid port provided")
	}

	if v.GetDuration("jwt.ttl") <= 0 {
		return errors.New("jwt.ttl must be a positive duration")
	}

	switch v.GetString("database.driver") {
	case db.DriverSQLite, db.DriverPostgres:
	default:
		return errors.New("invalid database driver provided")
	}

	if v.GetString("mail.host") == "" {
		return errors.New("mail.host can't be empty")
	}

	if v.GetString("mail.sender") == "" {
		return errors.New("mail.sender can't be empty")
	}

	if v.GetInt("mail.workers") <= 0 {
		return errors.New("mail.workers must be bigger than 0")
	}

	if v.GetInt("security.rate_limit") <= 0 {
		return errors.New("security.rate_limit must be bigger than 0")
	}

	if v.GetString("jwt.secret") == "" {
		secret, err := util.GenerateToken(64)
		if err != nil {
			return err
		}

		return &MissingSecretError{Suggested: secret}
	}

	return nil
}

// BaseURL is the public address used in links sent by mail
func BaseURL() string {
	scheme := "http"
	if v.GetBool("host.ssl_enabled") {
		scheme = "https"
	}

	return scheme + "://" + strings.TrimSuffix(v.GetString("host.domain"), "/")
}

// Origins returns the allowed CORS origins. A comma separated string from
// the environment is split.
func Origins() []string {
	var out []string

	for _, o := range v.GetStringSlice("host.cors") {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}

	return out
}

func TokenTTL() time.Duration {
	return v.GetDuration("jwt.ttl")
}
