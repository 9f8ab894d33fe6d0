package main

import (
	"os"
	"strings"

	"github.com/alimjan/wholesale-crm/internal/config"
	"github.com/alimjan/wholesale-crm/pkg/kv"
	"github.com/alimjan/wholesale-crm/pkg/logger"
)

// Applies the records-table migrations to the postgres backend.
// main.go --env=.env --dir=./migrations
func main() {
	if err := config.Load(getEnvPath()); err != nil {
		logger.Error("failed to load config", "error", err)
	}
	cfg := config.Get()
	kvConf := kv.Config{
		User:     cfg.PostgresUser,
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		Password: cfg.PostgresPassword,
		Database: cfg.PostgresDatabase,
	}
	if err := kv.Migrate(kvConf, getMigrationPath(cfg.MigrationsDir)); err != nil {
		logger.Error("migration: error running migrations", "error", err)
	}
}

func getEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	if _, err := os.Open(".env"); err != nil {
		return ""
	}
	return ".env"
}

func getMigrationPath(fallback string) string {
	for _, v := range os.Args {
		if strings.Contains(v, "--dir=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed migrations dir, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return fallback
}
