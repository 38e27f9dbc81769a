package helper

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	qh "github.com/siherrmann/queuer/helper"
)

// NewDatabaseConfigurationFromEnv reads the postgres connection settings of the row store.
func NewDatabaseConfigurationFromEnv() *qh.DatabaseConfiguration {
	return &qh.DatabaseConfiguration{
		Host:     GetEnvOrDefault("DATA_MANAGER_DB_HOST", "localhost"),
		Port:     GetEnvOrDefault("DATA_MANAGER_DB_PORT", "5432"),
		Database: GetEnvOrDefault("DATA_MANAGER_DB_NAME", "database"),
		Username: GetEnvOrDefault("DATA_MANAGER_DB_USER", "user"),
		Password: GetEnvOrDefault("DATA_MANAGER_DB_PASSWORD", "password"),
		Schema:   GetEnvOrDefault("DATA_MANAGER_DB_SCHEMA", "public"),
		SSLMode:  GetEnvOrDefault("DATA_MANAGER_DB_SSLMODE", "disable"),
	}
}

// OpenDatabase connects to postgres with the given configuration and wraps the pool
// into a queuer database handle used by the database handlers.
func OpenDatabase(name string, config *qh.DatabaseConfiguration, logger *slog.Logger) (*qh.Database, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s",
		config.Host, config.Port, config.Username, config.Password, config.Database, config.SSLMode, config.Schema,
	)

	instance, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, qh.NewError("open database", err)
	}

	err = instance.Ping()
	if err != nil {
		instance.Close()
		return nil, qh.NewError("ping database", err)
	}

	return qh.NewDatabaseWithDB(name, instance, logger), nil
}
