package migrations_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/inventory/app/models"
	_ "github.com/shashiranjanraj/inventory/database/migrations"
	"github.com/shashiranjanraj/inventory/pkg/database"
	"github.com/shashiranjanraj/inventory/pkg/migration"
)

func TestSchema(t *testing.T) {
	db, err := database.OpenMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, migration.New(db, nil).Run())

	m := db.Migrator()
	assert.True(t, m.HasTable("stores"))
	assert.True(t, m.HasTable("products"))
	assert.True(t, m.HasTable("migrations"))
	assert.True(t, m.HasIndex(&models.Product{}, "StoreID"))
	assert.True(t, m.HasIndex(&models.Product{}, "Category"))
	assert.True(t, m.HasIndex(&models.Product{}, "SKU"))
	assert.True(t, m.HasIndex(&models.Store{}, "Name"))

	store := models.Store{Name: "Cascade"}
	require.NoError(t, db.Create(&store).Error)
	require.NoError(t, db.Create(&models.Product{StoreID: store.ID, Name: "p", Category: "c", Price: decimal.NewFromInt(1)}).Error)
	require.NoError(t, db.Exec("DELETE FROM stores WHERE id = ?", store.ID).Error)
	var left int64
	require.NoError(t, db.Model(&models.Product{}).Count(&left).Error)
	assert.Zero(t, left, "products.store_id cascades on delete")

	err = db.Create(&models.Product{StoreID: 999, Name: "orphan", Category: "c", Price: decimal.NewFromInt(1)}).Error
	assert.Error(t, err, "foreign key rejects unknown store")

	require.NoError(t, migration.New(db, nil).Rollback())
	assert.False(t, m.HasTable("products"))
	assert.False(t, m.HasTable("stores"))
}
