package config // package config loads application configuration from environment variables

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sort"
	"strings"

	"github.com/go-sql-driver/mysql" // mysql.Config builds and normalizes DSNs
	"github.com/joho/godotenv"       // godotenv loads an optional .env file into the environment
	"github.com/spf13/viper"         // viper reads env vars with defaults
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  It is built once at process entry and passed to
// the components that need it; nothing in the application reads the
// environment after Load returns.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	LogLevel     string // zap level name (debug, info, warn, error)
	DBDriver     string // "mysql" or "sqlite3"
	DatabaseURL  string // full DSN; takes precedence over the DB_* parts
	DBUser       string // database username
	DBPass       string // database password (optional)
	DBHost       string // database host address
	DBPort       string // database port number
	DBName       string // database name (file path for sqlite3)
	JWTSecret    string // secret used to sign JWTs
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing

	RateLimit RateLimitConfig
	Redis     RedisConfig
	Queue     QueueConfig
	Mail      MailConfig
}

// Load reads configuration values from the environment (after merging an
// optional .env file) and returns a Config.  Required variables that are
// missing are reported together in the returned error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("app_env", "dev")
	v.SetDefault("app_port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("db_driver", "mysql")
	v.SetDefault("db_port", "3306")
	v.SetDefault("access_token_ttl_min", 60)
	v.SetDefault("bcrypt_cost", 10)

	cfg := Config{
		Env:          v.GetString("app_env"),
		Port:         v.GetString("app_port"),
		LogLevel:     v.GetString("log_level"),
		DBDriver:     strings.ToLower(v.GetString("db_driver")),
		DatabaseURL:  v.GetString("database_url"),
		DBUser:       v.GetString("db_user"),
		DBPass:       v.GetString("db_pass"),
		DBHost:       v.GetString("db_host"),
		DBPort:       v.GetString("db_port"),
		DBName:       v.GetString("db_name"),
		JWTSecret:    v.GetString("jwt_secret"),
		AccessTTLMin: v.GetInt("access_token_ttl_min"),
		BcryptCost:   v.GetInt("bcrypt_cost"),
		RateLimit:    loadRateLimit(v),
		Redis:        loadRedis(v),
		Queue:        loadQueue(v),
		Mail:         loadMail(v),
	}

	var missing []string
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if cfg.DatabaseURL == "" {
		switch cfg.DBDriver {
		case "sqlite3":
			if cfg.DBName == "" {
				missing = append(missing, "DB_NAME")
			}
		default:
			for key, val := range map[string]string{"DB_USER": cfg.DBUser, "DB_HOST": cfg.DBHost, "DB_NAME": cfg.DBName} {
				if val == "" {
					missing = append(missing, key)
				}
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return Config{}, fmt.Errorf("missing required env vars: %s", strings.Join(missing, ", "))
	}
	if cfg.DBDriver != "mysql" && cfg.DBDriver != "sqlite3" {
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.AccessTTLMin <= 0 {
		return Config{}, fmt.Errorf("invalid ACCESS_TOKEN_TTL_MIN: %d", cfg.AccessTTLMin)
	}
	return cfg, nil
}

// DSN returns the connection string for the configured driver.  For MySQL
// the DSN always has parseTime enabled and times in UTC, whether it came
// from DATABASE_URL or was assembled from the DB_* parts.
func (c Config) DSN() (string, error) {
	if c.DBDriver == "sqlite3" {
		if c.DatabaseURL != "" {
			return c.DatabaseURL, nil
		}
		return "file:" + c.DBName + "?_busy_timeout=5000&_foreign_keys=on", nil
	}

	var mc *mysql.Config
	if c.DatabaseURL != "" {
		parsed, err := mysql.ParseDSN(c.DatabaseURL)
		if err != nil {
			return "", fmt.Errorf("parse DATABASE_URL: %w", err)
		}
		mc = parsed
	} else {
		mc = mysql.NewConfig()
		mc.User = c.DBUser
		mc.Passwd = c.DBPass
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(c.DBHost, c.DBPort)
		mc.DBName = c.DBName
	}
	mc.ParseTime = true
	if mc.Params == nil {
		mc.Params = map[string]string{}
	}
	mc.Params["charset"] = "utf8mb4"
	return mc.FormatDSN(), nil
}
