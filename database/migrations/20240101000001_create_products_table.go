package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/pkg/migration"
)

func init() {
	migration.Register("20240101000001_create_products_table", &CreateProductsTable{})
}

// CreateProductsTable creates products with the cascading FK to stores and
// the store_id / category indexes.
type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}
