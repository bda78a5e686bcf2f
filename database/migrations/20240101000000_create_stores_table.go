package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/pkg/migration"
)

func init() {
	migration.Register("20240101000000_create_stores_table", &CreateStoresTable{})
}

type CreateStoresTable struct{}

func (m *CreateStoresTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Store{})
}

func (m *CreateStoresTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("stores")
}
