package models

import "time"

// Store is a named shop owning a catalogue of products.
type Store struct {
	ID        uint      `gorm:"primaryKey"                  json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Address   *string   `gorm:"size:500"                    json:"address"`
	Phone     *string   `gorm:"size:50"                     json:"phone"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
