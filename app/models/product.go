package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places prices are stored with.
const PriceScale = 2

// Product is a sellable item belonging to exactly one store.
// Quantity 0 means out of stock.
type Product struct {
	ID          uint            `gorm:"primaryKey"                    json:"id"`
	StoreID     uint            `gorm:"not null;index"                json:"storeId"`
	Name        string          `gorm:"size:255;not null"             json:"name"`
	Category    string          `gorm:"size:100;not null;index"       json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"   json:"price"`
	Quantity    int             `gorm:"not null;default:0"            json:"quantity"`
	SKU         *string         `gorm:"size:50;uniqueIndex"           json:"sku"`
	Description *string         `gorm:"size:1000"                     json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`

	Store *Store `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// MarshalJSON renders price with exactly two decimals ("9.50", not "9.5").
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Price string `json:"price"`
	}{plain: plain(p), Price: p.Price.StringFixed(PriceScale)})
}

// RoundPrice rounds d to the stored scale.
func RoundPrice(d decimal.Decimal) decimal.Decimal {
	return d.Round(PriceScale)
}
