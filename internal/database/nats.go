package database

import (
	"log/slog"
	"time"

	"github.com/hamzakamil/personelplus/internal/config"
	"github.com/nats-io/nats.go"
)

// NewNatsConn connects to NATS for the notification dispatcher. Notifications
// are fire-and-forget, so a missing broker is not fatal: the caller gets a nil
// connection and the dispatcher drops events.
func NewNatsConn(cfg *config.Config, logger *slog.Logger) *nats.Conn {
	if cfg.Nats.URL == "" {
		logger.Warn("NATS url is not configured, notifications are disabled")
		return nil
	}

	nc, err := nats.Connect(cfg.Nats.URL,
		nats.Name("personelplus"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		logger.Warn("Failed to connect to NATS, notifications are disabled", slog.String("error", err.Error()))
		return nil
	}

	logger.Info("Successfully connected to NATS")

	return nc
}
