package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/app/repositories"
	"github.com/shashiranjanraj/inventory/pkg/apperror"
	"github.com/shashiranjanraj/inventory/pkg/cache"
	"github.com/shashiranjanraj/inventory/pkg/event"
	"github.com/shashiranjanraj/inventory/pkg/logger"
	"github.com/shashiranjanraj/inventory/pkg/metrics"
)

// InventoryService computes per-store inventory statistics.
type InventoryService struct {
	stores   *StoreService
	products *repositories.ProductRepository
	cache    cache.Store
	ttl      time.Duration

	// versions counts invalidations per store; a computation that saw a
	// different version than it started with is not written back.
	mu       sync.Mutex
	versions map[uint]uint64
}

// NewInventoryService builds the service. A nil cache disables caching.
func NewInventoryService(db *gorm.DB, events *event.Bus, c cache.Store, ttl time.Duration) *InventoryService {
	if c == nil {
		c = cache.Noop{}
	}
	return &InventoryService{
		stores:   NewStoreService(db, events),
		products: repositories.NewProductRepository(db),
		cache:    c,
		ttl:      ttl,
		versions: map[uint]uint64{},
	}
}

func (s *InventoryService) version(storeID uint) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.versions[storeID]
}

func (s *InventoryService) bump(storeID uint) {
	s.mu.Lock()
	s.versions[storeID]++
	s.mu.Unlock()
}

func statsKey(storeID uint, threshold int) string {
	return fmt.Sprintf("stats:%d:%d", storeID, threshold)
}

func statsPrefix(storeID uint) string {
	return fmt.Sprintf("stats:%d:", storeID)
}

// Subscribe drops cached statistics of a store whenever it or one of its
// products changes.
func (s *InventoryService) Subscribe(bus *event.Bus) {
	for _, name := range AllEvents {
		bus.Listen(name, func(ctx context.Context, payload any) {
			change, ok := payload.(Change)
			if !ok {
				return
			}
			s.bump(change.StoreID)
			if err := s.cache.DeletePrefix(ctx, statsPrefix(change.StoreID)); err != nil {
				logger.WithCtx(ctx).Warn("stats cache invalidation failed", "store_id", change.StoreID, "error", err)
			}
		})
	}
}

// StoreStats summarises a store's inventory. Products with
// 0 < quantity <= lowStockThreshold count as low stock.
func (s *InventoryService) StoreStats(ctx context.Context, storeID uint, lowStockThreshold int) (StoreStats, error) {
	if lowStockThreshold < 0 {
		return StoreStats{}, apperror.InvalidField("lowStockThreshold",
			"The lowStockThreshold must be greater than or equal to 0.")
	}

	key := statsKey(storeID, lowStockThreshold)
	seen := s.version(storeID)
	var cached StoreStats
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	store, err := s.stores.Get(ctx, storeID)
	if err != nil {
		return StoreStats{}, err
	}

	stats, err := s.compute(ctx, store, lowStockThreshold)
	if err != nil {
		return StoreStats{}, err
	}

	if s.version(storeID) != seen {
		return stats, nil
	}
	if err := s.cache.Set(ctx, key, stats, s.ttl); err != nil {
		logger.WithCtx(ctx).Warn("stats cache write failed", "store_id", storeID, "error", err)
	}
	return stats, nil
}

func (s *InventoryService) compute(ctx context.Context, store models.Store, threshold int) (StoreStats, error) {
	defer metrics.StatsTimer()()

	groups, err := s.products.CategoryTotals(ctx, store.ID)
	if err != nil {
		return StoreStats{}, fmt.Errorf("inventory service: category totals of %d: %w", store.ID, err)
	}

	stats := StoreStats{
		StoreID:             store.ID,
		StoreName:           store.Name,
		TotalInventoryValue: decimal.Zero,
		CategoryBreakdown:   []CategoryBreakdown{},
	}

	for _, g := range groups {
		value := models.RoundPrice(g.Price).Mul(decimal.NewFromInt(g.Quantity))

		n := len(stats.CategoryBreakdown)
		if n == 0 || stats.CategoryBreakdown[n-1].Category != g.Category {
			stats.CategoryBreakdown = append(stats.CategoryBreakdown, CategoryBreakdown{
				Category:   g.Category,
				TotalValue: decimal.Zero,
			})
			n++
		}
		b := &stats.CategoryBreakdown[n-1]
		b.ProductCount += g.Products
		b.TotalQuantity += g.Quantity
		b.TotalValue = b.TotalValue.Add(value)

		stats.TotalProducts += g.Products
		stats.TotalQuantity += g.Quantity
		stats.TotalInventoryValue = stats.TotalInventoryValue.Add(value)
	}

	if stats.OutOfStockCount, err = s.products.CountOutOfStock(ctx, store.ID); err != nil {
		return StoreStats{}, fmt.Errorf("inventory service: out of stock of %d: %w", store.ID, err)
	}
	if stats.LowStockCount, err = s.products.CountLowStock(ctx, store.ID, threshold); err != nil {
		return StoreStats{}, fmt.Errorf("inventory service: low stock of %d: %w", store.ID, err)
	}
	return stats, nil
}
