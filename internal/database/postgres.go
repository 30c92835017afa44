package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hamzakamil/personelplus/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewConnect opens a connection pool. The approval workflow runs row-locking
// transactions from concurrent handlers, so a single connection is not enough.
func NewConnect(config *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	var url = fmt.Sprintf("postgres://%s:%s@%s/%s",
		config.Database.User, config.Database.Password, config.Database.Host, config.Database.Database)

	pool, err := pgxpool.New(context.Background(), url)
	if err != nil {
		logger.Error("Error connecting to DB", slog.String("error", err.Error()))
		return nil, err
	}

	if err = pool.Ping(context.Background()); err != nil {
		logger.Error("Error pinging DB", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Connected to DB successfully")
	return pool, nil
}
