package services

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/pkg/optional"
	"github.com/shashiranjanraj/inventory/pkg/orm"
)

// CreateStoreInput is the body of POST /stores.
type CreateStoreInput struct {
	Name    string  `json:"name"    validate:"required,max=255"`
	Address *string `json:"address" validate:"max=500"`
	Phone   *string `json:"phone"   validate:"max=50"`
}

// UpdateStoreInput is the body of PUT /stores/{id}. Omitted fields are left
// alone; null clears address and phone.
type UpdateStoreInput struct {
	Name    optional.Value[string] `json:"name"    validate:"required,max=255"`
	Address optional.Value[string] `json:"address" validate:"nullable,max=500"`
	Phone   optional.Value[string] `json:"phone"   validate:"nullable,max=50"`
}

// CreateProductInput is the body of POST /stores/{storeId}/products.
type CreateProductInput struct {
	Name        string           `json:"name"        validate:"required,max=255"`
	Category    string           `json:"category"    validate:"required,max=100"`
	Price       *decimal.Decimal `json:"price"       validate:"required,gt=0,lt=100000000"`
	Quantity    *int             `json:"quantity"    validate:"gte=0"`
	SKU         *string          `json:"sku"         validate:"max=50"`
	Description *string          `json:"description" validate:"max=1000"`
}

// UpdateProductInput is the body of PUT /products/{id}. Omitted fields are
// left alone; null clears sku and description.
type UpdateProductInput struct {
	Name        optional.Value[string]          `json:"name"        validate:"required,max=255"`
	Category    optional.Value[string]          `json:"category"    validate:"required,max=100"`
	Price       optional.Value[decimal.Decimal] `json:"price"       validate:"gt=0,lt=100000000"`
	Quantity    optional.Value[int]             `json:"quantity"    validate:"gte=0"`
	SKU         optional.Value[string]          `json:"sku"         validate:"nullable,max=50"`
	Description optional.Value[string]          `json:"description" validate:"nullable,max=1000"`
}

// UpdateStockInput is the body of PATCH /products/{id}/stock.
type UpdateStockInput struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

// ProductFilters is the query string of GET /stores/{storeId}/products.
type ProductFilters struct {
	Page      int              `json:"page"      validate:"gte=1"`
	Limit     int              `json:"limit"     validate:"gte=1,lte=100"`
	Category  string           `json:"category"  validate:"max=100"`
	MinPrice  *decimal.Decimal `json:"minPrice"  validate:"gte=0"`
	MaxPrice  *decimal.Decimal `json:"maxPrice"  validate:"gt=0"`
	InStock   *bool            `json:"inStock"`
	LowStock  *int             `json:"lowStock"  validate:"gte=0"`
	Search    string           `json:"search"    validate:"max=255"`
	SortBy    string           `json:"sortBy"    validate:"in=name|price|quantity|createdAt"`
	SortOrder string           `json:"sortOrder" validate:"in=asc|desc"`
}

// DefaultProductFilters returns page 1 of 20, newest first.
func DefaultProductFilters() ProductFilters {
	return ProductFilters{
		Page:      orm.DefaultPage,
		Limit:     orm.DefaultLimit,
		SortBy:    "createdAt",
		SortOrder: "desc",
	}
}

// ProductPage is one page of a store's products.
type ProductPage struct {
	Items      []models.Product `json:"items"`
	Pagination orm.Pagination   `json:"pagination"`
}

// DefaultLowStockThreshold is used when the stats request names none.
const DefaultLowStockThreshold = 5

// CategoryBreakdown aggregates one category of a store's products.
type CategoryBreakdown struct {
	Category      string          `json:"category"`
	ProductCount  int64           `json:"productCount"`
	TotalQuantity int64           `json:"totalQuantity"`
	TotalValue    decimal.Decimal `json:"totalValue"`
}

func (c CategoryBreakdown) MarshalJSON() ([]byte, error) {
	type plain CategoryBreakdown
	return json.Marshal(struct {
		plain
		TotalValue string `json:"totalValue"`
	}{plain: plain(c), TotalValue: c.TotalValue.StringFixed(models.PriceScale)})
}

// StoreStats is the inventory summary of one store.
type StoreStats struct {
	StoreID             uint                `json:"storeId"`
	StoreName           string              `json:"storeName"`
	TotalProducts       int64               `json:"totalProducts"`
	TotalQuantity       int64               `json:"totalQuantity"`
	TotalInventoryValue decimal.Decimal     `json:"totalInventoryValue"`
	OutOfStockCount     int64               `json:"outOfStockCount"`
	LowStockCount       int64               `json:"lowStockCount"`
	CategoryBreakdown   []CategoryBreakdown `json:"categoryBreakdown"`
}

func (s StoreStats) MarshalJSON() ([]byte, error) {
	type plain StoreStats
	return json.Marshal(struct {
		plain
		TotalInventoryValue string `json:"totalInventoryValue"`
	}{plain: plain(s), TotalInventoryValue: s.TotalInventoryValue.StringFixed(models.PriceScale)})
}

// StatsQuery is the query string of GET /stores/{id}/stats.
type StatsQuery struct {
	LowStockThreshold int `json:"lowStockThreshold" validate:"gte=0"`
}
