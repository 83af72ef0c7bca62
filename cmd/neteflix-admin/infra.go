package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/pbflix/neteflix-api/config"
	"github.com/pbflix/neteflix-api/internal/bootstrap"
)

func connectDB(logger *slog.Logger, cfg *config.AppConfig) (*sql.DB, error) {
	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cfg.Postgres,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	return db, nil
}
