package seeders

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/app/repositories"
	"github.com/shashiranjanraj/inventory/pkg/database"
	"github.com/shashiranjanraj/inventory/pkg/logger"
)

func init() {
	Register("stores", SeedStores)
}

type demoProduct struct {
	name, category, price, sku string
	quantity                   int
}

type demoStore struct {
	name, address, phone string
	products             []demoProduct
}

var demoStores = []demoStore{
	{
		name: "Downtown Hardware", address: "12 Market Street", phone: "555-0101",
		products: []demoProduct{
			{"Claw Hammer", "Tools", "15.99", "DH-HAM-01", 24},
			{"Adjustable Wrench", "Tools", "12.50", "DH-WRN-01", 3},
			{"Wood Screws (100)", "Fasteners", "4.25", "DH-SCR-01", 0},
			{"Cordless Drill", "Power Tools", "89.00", "DH-DRL-01", 7},
		},
	},
	{
		name: "Riverside Grocery", address: "480 River Road", phone: "555-0102",
		products: []demoProduct{
			{"Organic Apples (1kg)", "Produce", "3.49", "RG-APL-01", 120},
			{"Whole Milk (1L)", "Dairy", "1.19", "RG-MLK-01", 2},
			{"Sourdough Loaf", "Bakery", "4.80", "RG-BRD-01", 15},
		},
	},
	{
		name: "Hilltop Books", address: "3 Summit Avenue", phone: "555-0103",
		products: []demoProduct{
			{"The Go Programming Language", "Books", "39.95", "HB-GO-01", 5},
			{"Notebook A5", "Stationery", "2.10", "HB-NTB-01", 0},
		},
	},
}

// SeedStores inserts the demo stores and their products when the stores
// table is empty.
func SeedStores(ctx context.Context, db *gorm.DB) error {
	stores := repositories.NewStoreRepository(db)
	products := repositories.NewProductRepository(db)

	n, err := stores.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.WithCtx(ctx).Info("stores already present, skipping seed", "count", n)
		return nil
	}

	return database.Transaction(ctx, db, func(ctx context.Context) error {
		for _, ds := range demoStores {
			address, phone := ds.address, ds.phone
			store := models.Store{Name: ds.name, Address: &address, Phone: &phone}
			if err := stores.Create(ctx, &store); err != nil {
				return err
			}

			batch := make([]models.Product, 0, len(ds.products))
			for _, dp := range ds.products {
				sku := dp.sku
				batch = append(batch, models.Product{
					StoreID:  store.ID,
					Name:     dp.name,
					Category: dp.category,
					Price:    decimal.RequireFromString(dp.price),
					Quantity: dp.quantity,
					SKU:      &sku,
				})
			}
			if err := products.CreateBatch(ctx, batch); err != nil {
				return err
			}
		}
		return nil
	})
}
