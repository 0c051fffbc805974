// Package alerts fans low-stock events out over redis pub/sub so dashboards
// and notifiers outside this process can react without polling.
package alerts

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/stockdesk/stockdesk/internal/ledger"
)

// DefaultChannel is the pub/sub channel alerts are published on.
const DefaultChannel = "stock.alerts"

// Publisher publishes stock alert events to a redis channel.
type Publisher struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

// NewPublisher constructs Publisher. An empty channel falls back to DefaultChannel.
func NewPublisher(client *redis.Client, channel string, logger *slog.Logger) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{client: client, channel: channel, logger: logger}
}

// StockStatusChanged implements ledger.Notifier. Failures are logged and
// swallowed; alert delivery must never fail a committed movement.
func (p *Publisher) StockStatusChanged(ctx context.Context, evt ledger.StockAlertEvent) error {
	if p == nil || p.client == nil {
		return nil
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		if p.logger != nil {
			p.logger.Warn("publish stock alert", slog.Any("error", err), slog.Int64("product_id", evt.ProductID))
		}
		return err
	}
	return nil
}
