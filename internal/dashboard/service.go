package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/stockdesk/stockdesk/internal/shared"
	"github.com/stockdesk/stockdesk/internal/stock"
)

// ServiceConfig carries the dashboard knobs.
type ServiceConfig struct {
	// LowStockThreshold is the quantity below which a product counts as low.
	LowStockThreshold int64
	// Window bounds the recent-activity counter, newest movements only.
	Window time.Duration
	// Limit caps the low-stock and recent-activity listings.
	Limit int
}

// Service computes the dashboard aggregates.
type Service struct {
	repo      Repository
	threshold int64
	window    time.Duration
	limit     int
	now       func() time.Time
}

// NewService constructs Service. Zero config fields fall back to defaults.
func NewService(repo Repository, cfg ServiceConfig) *Service {
	if cfg.LowStockThreshold <= 0 {
		cfg.LowStockThreshold = stock.DefaultLowStockThreshold
	}
	if cfg.Window <= 0 {
		cfg.Window = 7 * 24 * time.Hour
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 10
	}
	return &Service{
		repo:      repo,
		threshold: cfg.LowStockThreshold,
		window:    cfg.Window,
		limit:     cfg.Limit,
		now:       time.Now,
	}
}

// Stats fans the four counters out concurrently. The counts come from
// separate statements so a movement landing mid-request can skew them
// against each other; each one is correct at the instant it ran.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	since := s.now().UTC().Add(-s.window)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		count, err := s.repo.CountProducts(ctx)
		stats.TotalProducts = count
		return err
	})
	g.Go(func() error {
		count, err := s.repo.CountLowStock(ctx, s.threshold)
		stats.LowStock = count
		return err
	})
	g.Go(func() error {
		count, err := s.repo.CountCategories(ctx)
		stats.TotalCategories = count
		return err
	})
	g.Go(func() error {
		count, err := s.repo.CountRecentMovements(ctx, since)
		stats.RecentActivity = count
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, shared.Store("dashboard.stats", err)
	}
	return stats, nil
}

// LowStock lists the products with the least stock first.
func (s *Service) LowStock(ctx context.Context) ([]LowStockProduct, error) {
	items, err := s.repo.LowStockProducts(ctx, s.threshold, s.limit)
	if err != nil {
		return nil, shared.Store("dashboard.lowStock", err)
	}
	for i := range items {
		items[i].Status = stock.Classify(items[i].Quantity, s.threshold)
	}
	return items, nil
}

// RecentActivity lists the newest movements with their product names.
func (s *Service) RecentActivity(ctx context.Context) ([]Activity, error) {
	activity, err := s.repo.RecentActivity(ctx, s.limit)
	if err != nil {
		return nil, shared.Store("dashboard.recentActivity", err)
	}
	return activity, nil
}
