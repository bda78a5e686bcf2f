package services_test

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/app/services"
	"github.com/shashiranjanraj/inventory/pkg/apperror"
	"github.com/shashiranjanraj/inventory/pkg/cache"
	"github.com/shashiranjanraj/inventory/pkg/metrics"
)

func TestStatsCounts(t *testing.T) {
	f := setup(t)
	s := f.store(t, "Main")
	f.product(t, s.ID, services.CreateProductInput{Name: "P1", Category: "A", Price: dec("2.00"), Quantity: intp(0)})
	f.product(t, s.ID, services.CreateProductInput{Name: "P2", Category: "A", Price: dec("3.00"), Quantity: intp(3)})
	f.product(t, s.ID, services.CreateProductInput{Name: "P3", Category: "B", Price: dec("1.50"), Quantity: intp(10)})

	inv := services.NewInventoryService(f.db, f.bus, nil, time.Minute)
	stats, err := inv.StoreStats(context.Background(), s.ID, services.DefaultLowStockThreshold)
	require.NoError(t, err)

	assert.Equal(t, s.ID, stats.StoreID)
	assert.Equal(t, "Main", stats.StoreName)
	assert.EqualValues(t, 3, stats.TotalProducts)
	assert.EqualValues(t, 13, stats.TotalQuantity)
	assert.EqualValues(t, 1, stats.OutOfStockCount)
	assert.EqualValues(t, 1, stats.LowStockCount)
	assert.Equal(t, "24.00", stats.TotalInventoryValue.StringFixed(2))

	require.Len(t, stats.CategoryBreakdown, 2)
	assert.Equal(t, "A", stats.CategoryBreakdown[0].Category)
	assert.EqualValues(t, 2, stats.CategoryBreakdown[0].ProductCount)
	assert.EqualValues(t, 3, stats.CategoryBreakdown[0].TotalQuantity)
	assert.Equal(t, "9.00", stats.CategoryBreakdown[0].TotalValue.StringFixed(2))
	assert.Equal(t, "B", stats.CategoryBreakdown[1].Category)
	assert.Equal(t, "15.00", stats.CategoryBreakdown[1].TotalValue.StringFixed(2))
}

func TestStatsExactMoney(t *testing.T) {
	f := setup(t)
	s := f.store(t, "Pennies")
	f.product(t, s.ID, services.CreateProductInput{Name: "Dime", Category: "Coins", Price: dec("0.10"), Quantity: intp(3)})

	inv := services.NewInventoryService(f.db, f.bus, nil, time.Minute)
	stats, err := inv.StoreStats(context.Background(), s.ID, 5)
	require.NoError(t, err)
	assert.True(t, stats.TotalInventoryValue.Equal(decimal.RequireFromString("0.30")))

	raw, err := json.Marshal(stats)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"totalInventoryValue":"0.30"`)
	assert.Contains(t, string(raw), `"totalValue":"0.30"`)
}

func TestStatsEmptyStoreAndErrors(t *testing.T) {
	f := setup(t)
	s := f.store(t, "Empty")
	inv := services.NewInventoryService(f.db, f.bus, nil, time.Minute)
	ctx := context.Background()

	stats, err := inv.StoreStats(ctx, s.ID, 5)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalProducts)
	assert.NotNil(t, stats.CategoryBreakdown)
	assert.Equal(t, "0.00", stats.TotalInventoryValue.StringFixed(2))

	_, err = inv.StoreStats(ctx, 999, 5)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = inv.StoreStats(ctx, s.ID, -1)
	assert.Equal(t, apperror.Validation, apperror.KindOf(err))
}

// naiveStats recomputes the statistics by walking every product.
func naiveStats(products []models.Product, threshold int) services.StoreStats {
	out := services.StoreStats{TotalInventoryValue: decimal.Zero}
	byCategory := map[string]*services.CategoryBreakdown{}
	for _, p := range products {
		value := p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))
		out.TotalProducts++
		out.TotalQuantity += int64(p.Quantity)
		out.TotalInventoryValue = out.TotalInventoryValue.Add(value)
		if p.Quantity == 0 {
			out.OutOfStockCount++
		} else if p.Quantity <= threshold {
			out.LowStockCount++
		}
		b, ok := byCategory[p.Category]
		if !ok {
			b = &services.CategoryBreakdown{Category: p.Category, TotalValue: decimal.Zero}
			byCategory[p.Category] = b
		}
		b.ProductCount++
		b.TotalQuantity += int64(p.Quantity)
		b.TotalValue = b.TotalValue.Add(value)
	}
	for _, b := range byCategory {
		out.CategoryBreakdown = append(out.CategoryBreakdown, *b)
	}
	return out
}

func TestStatsMatchNaiveComputation(t *testing.T) {
	f := setup(t)
	s := f.store(t, "Random")
	rng := rand.New(rand.NewSource(42))
	categories := []string{"Tools", "Food", "Toys", "Books"}

	var created []models.Product
	for i := 0; i < 60; i++ {
		cents := rng.Intn(100000) + 1
		price := decimal.New(int64(cents), -2)
		created = append(created, f.product(t, s.ID, services.CreateProductInput{
			Name:     fmt.Sprintf("P%d", i),
			Category: categories[rng.Intn(len(categories))],
			Price:    &price,
			Quantity: intp(rng.Intn(12)),
		}))
	}

	inv := services.NewInventoryService(f.db, f.bus, nil, time.Minute)
	for _, threshold := range []int{0, 3, 5, 20} {
		got, err := inv.StoreStats(context.Background(), s.ID, threshold)
		require.NoError(t, err)
		want := naiveStats(created, threshold)

		assert.Equal(t, want.TotalProducts, got.TotalProducts)
		assert.Equal(t, want.TotalQuantity, got.TotalQuantity)
		assert.Equal(t, want.OutOfStockCount, got.OutOfStockCount)
		assert.Equal(t, want.LowStockCount, got.LowStockCount, "threshold %d", threshold)
		assert.True(t, want.TotalInventoryValue.Equal(got.TotalInventoryValue),
			"want %s got %s", want.TotalInventoryValue, got.TotalInventoryValue)

		require.Len(t, got.CategoryBreakdown, len(want.CategoryBreakdown))
		for _, b := range got.CategoryBreakdown {
			var w services.CategoryBreakdown
			for _, c := range want.CategoryBreakdown {
				if c.Category == b.Category {
					w = c
				}
			}
			assert.Equal(t, w.ProductCount, b.ProductCount, b.Category)
			assert.Equal(t, w.TotalQuantity, b.TotalQuantity, b.Category)
			assert.True(t, w.TotalValue.Equal(b.TotalValue), b.Category)
		}
	}
}

func TestStatsCacheInvalidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	s := f.store(t, "Cached")
	p := f.product(t, s.ID, services.CreateProductInput{Name: "A", Price: dec("2.00"), Quantity: intp(1)})

	mem := cache.NewMemory()
	inv := services.NewInventoryService(f.db, f.bus, mem, time.Minute)
	inv.Subscribe(f.bus)

	first, err := inv.StoreStats(ctx, s.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, "2.00", first.TotalInventoryValue.StringFixed(2))

	var cached services.StoreStats
	require.True(t, mem.Get(ctx, fmt.Sprintf("stats:%d:5", s.ID), &cached))
	assert.True(t, cached.TotalInventoryValue.Equal(first.TotalInventoryValue))

	_, err = f.products.UpdateStock(ctx, p.ID, 4)
	require.NoError(t, err)
	assert.False(t, mem.Get(ctx, fmt.Sprintf("stats:%d:5", s.ID), &cached), "mutation drops cached stats")

	second, err := inv.StoreStats(ctx, s.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, "8.00", second.TotalInventoryValue.StringFixed(2))
}

func TestStatsCountsOneLookupPerCall(t *testing.T) {
	f := setup(t)
	s := f.store(t, "Metered")
	f.product(t, s.ID, services.CreateProductInput{Name: "A", Quantity: intp(2)})
	inv := services.NewInventoryService(f.db, f.bus, cache.NewMemory(), time.Minute)

	misses := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("memory", "miss"))
	hits := testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("memory", "hit"))

	_, err := inv.StoreStats(context.Background(), s.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("memory", "miss"))-misses)

	_, err = inv.StoreStats(context.Background(), s.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheLookups.WithLabelValues("memory", "hit"))-hits)
}

// interleavedCache calls during after every Get, standing in for a mutation
// committed while statistics are being computed.
type interleavedCache struct {
	cache.Store
	during func()
	sets   int
}

func (c *interleavedCache) Get(ctx context.Context, key string, dest interface{}) bool {
	hit := c.Store.Get(ctx, key, dest)
	if c.during != nil {
		c.during()
	}
	return hit
}

func (c *interleavedCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.sets++
	return c.Store.Set(ctx, key, value, ttl)
}

func TestStatsNotCachedWhenStoreChangesMidway(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	s := f.store(t, "Busy")
	p := f.product(t, s.ID, services.CreateProductInput{Name: "A", Price: dec("1.00"), Quantity: intp(1)})

	c := &interleavedCache{Store: cache.NewMemory()}
	inv := services.NewInventoryService(f.db, f.bus, c, time.Minute)
	inv.Subscribe(f.bus)

	c.during = func() {
		c.during = nil
		_, err := f.products.UpdateStock(ctx, p.ID, 7)
		require.NoError(t, err)
	}
	_, err := inv.StoreStats(ctx, s.ID, 5)
	require.NoError(t, err)
	assert.Zero(t, c.sets, "stats computed across a mutation must not be cached")

	stats, err := inv.StoreStats(ctx, s.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, c.sets)
	assert.EqualValues(t, 7, stats.TotalQuantity)

	cached, err := inv.StoreStats(ctx, s.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, c.sets)
	assert.EqualValues(t, 7, cached.TotalQuantity)
}
