package dashboard

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stockdesk/stockdesk/internal/stock"
)

type memProduct struct {
	id       int64
	name     string
	sku      string
	unit     string
	quantity int64
}

type memMovement struct {
	id        int64
	productID int64
	typ       string
	quantity  int64
	createdAt time.Time
}

type memoryRepo struct {
	products   []memProduct
	movements  []memMovement
	categories int64
}

func (m *memoryRepo) CountProducts(ctx context.Context) (int64, error) {
	return int64(len(m.products)), nil
}

func (m *memoryRepo) CountLowStock(ctx context.Context, threshold int64) (int64, error) {
	var count int64
	for _, p := range m.products {
		if p.quantity < threshold {
			count++
		}
	}
	return count, nil
}

func (m *memoryRepo) CountCategories(ctx context.Context) (int64, error) {
	return m.categories, nil
}

func (m *memoryRepo) CountRecentMovements(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	for _, mv := range m.movements {
		if !mv.createdAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *memoryRepo) LowStockProducts(ctx context.Context, threshold int64, limit int) ([]LowStockProduct, error) {
	var items []LowStockProduct
	for _, p := range m.products {
		if p.quantity < threshold {
			items = append(items, LowStockProduct{ID: p.id, Name: p.name, SKU: p.sku, Unit: p.unit, Quantity: p.quantity})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Quantity != items[j].Quantity {
			return items[i].Quantity < items[j].Quantity
		}
		return items[i].ID < items[j].ID
	})
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *memoryRepo) RecentActivity(ctx context.Context, limit int) ([]Activity, error) {
	names := map[int64]string{}
	for _, p := range m.products {
		names[p.id] = p.name
	}
	var activity []Activity
	for _, mv := range m.movements {
		activity = append(activity, Activity{
			ID:          mv.id,
			ProductID:   mv.productID,
			ProductName: names[mv.productID],
			Type:        mv.typ,
			Quantity:    mv.quantity,
			CreatedAt:   mv.createdAt,
		})
	}
	sort.Slice(activity, func(i, j int) bool {
		if !activity[i].CreatedAt.Equal(activity[j].CreatedAt) {
			return activity[i].CreatedAt.After(activity[j].CreatedAt)
		}
		return activity[i].ID > activity[j].ID
	})
	if len(activity) > limit {
		activity = activity[:limit]
	}
	return activity, nil
}

func TestStatsLowStockMatchesStoreCount(t *testing.T) {
	repo := &memoryRepo{
		products: []memProduct{
			{id: 1, name: "Rice 25kg", sku: "RICE-25", unit: "sack", quantity: 3},
			{id: 2, name: "Cooking Oil 1L", sku: "OIL-1L", unit: "bottle", quantity: 0},
			{id: 3, name: "Sugar 1kg", sku: "SUG-1", unit: "kg", quantity: 9},
			{id: 4, name: "Flour 10kg", sku: "FLR-10", unit: "sack", quantity: 40},
		},
		categories: 2,
	}
	svc := NewService(repo, ServiceConfig{LowStockThreshold: 10})

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	want, err := repo.CountLowStock(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, want, stats.LowStock)
	require.EqualValues(t, 4, stats.TotalProducts)
	require.EqualValues(t, 2, stats.TotalCategories)
}

func TestStatsRecentActivityWindow(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	repo := &memoryRepo{
		movements: []memMovement{
			{id: 1, productID: 1, typ: "in", quantity: 5, createdAt: now.Add(-time.Hour)},
			{id: 2, productID: 1, typ: "out", quantity: 2, createdAt: now.Add(-6 * 24 * time.Hour)},
			{id: 3, productID: 1, typ: "in", quantity: 8, createdAt: now.Add(-8 * 24 * time.Hour)},
		},
	}
	svc := NewService(repo, ServiceConfig{Window: 7 * 24 * time.Hour})
	svc.now = func() time.Time { return now }

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.RecentActivity, "movement older than the window must not count")
}

func TestLowStockOrderedAndClassified(t *testing.T) {
	repo := &memoryRepo{
		products: []memProduct{
			{id: 1, name: "Rice 25kg", sku: "RICE-25", unit: "sack", quantity: 7},
			{id: 2, name: "Cooking Oil 1L", sku: "OIL-1L", unit: "bottle", quantity: 0},
			{id: 3, name: "Sugar 1kg", sku: "SUG-1", unit: "kg", quantity: 3},
			{id: 4, name: "Flour 10kg", sku: "FLR-10", unit: "sack", quantity: 40},
		},
	}
	svc := NewService(repo, ServiceConfig{LowStockThreshold: 10})

	items, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.EqualValues(t, 2, items[0].ID, "emptiest product comes first")
	require.Equal(t, stock.StatusOutOfStock, items[0].Status)
	require.Equal(t, stock.StatusLowStock, items[1].Status)
	require.Equal(t, stock.StatusLowStock, items[2].Status)
}

func TestLowStockHonorsLimit(t *testing.T) {
	repo := &memoryRepo{}
	for i := int64(1); i <= 15; i++ {
		repo.products = append(repo.products, memProduct{id: i, name: "P", sku: "P", unit: "pcs", quantity: i % 5})
	}
	svc := NewService(repo, ServiceConfig{LowStockThreshold: 10, Limit: 10})

	items, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 10)
}

func TestRecentActivityNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	repo := &memoryRepo{
		products: []memProduct{{id: 1, name: "Rice 25kg"}},
		movements: []memMovement{
			{id: 1, productID: 1, typ: "in", quantity: 10, createdAt: base.Add(-2 * time.Hour)},
			{id: 2, productID: 1, typ: "out", quantity: 4, createdAt: base.Add(-time.Hour)},
		},
	}
	svc := NewService(repo, ServiceConfig{})

	activity, err := svc.RecentActivity(context.Background())
	require.NoError(t, err)
	require.Len(t, activity, 2)
	require.EqualValues(t, 2, activity[0].ID)
	require.Equal(t, "Rice 25kg", activity[0].ProductName)
}
