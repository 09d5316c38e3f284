package config

import (
	"fmt"
	"os"
	"time"
)

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"` // "mysql" or "sqlite3"
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// Returns the database connection string from the environment, or "" when none is set.
// The DB_* variables take priority over DATABASE_DSN.
func GetDatabaseDSN() string {
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_NAME")

	if user != "" && password != "" && host != "" && port != "" && database != "" {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true", user, password, host, port, database)
	}

	return os.Getenv("DATABASE_DSN")
}

func (d DatabaseConfig) validate() error {
	switch d.Driver {
	case "mysql", "sqlite3":
	default:
		return fmt.Errorf("invalid database.driver %q (allowed: mysql, sqlite3)", d.Driver)
	}
	if d.DSN == "" {
		return fmt.Errorf("database.dsn cannot be empty (set it in the config file or via DATABASE_DSN)")
	}
	if d.MaxOpenConns < 0 || d.MaxIdleConns < 0 {
		return fmt.Errorf("database connection limits cannot be negative")
	}
	return nil
}
