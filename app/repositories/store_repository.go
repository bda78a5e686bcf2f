package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/pkg/database"
)

// StoreRepository handles database operations for Store.
type StoreRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// All returns every store in id order.
func (r *StoreRepository) All(ctx context.Context) ([]models.Store, error) {
	stores := []models.Store{}
	err := database.Conn(ctx, r.db).Order("id ASC").Find(&stores).Error
	return stores, err
}

// FindByID looks up a store by primary key. Returns gorm.ErrRecordNotFound
// when absent.
func (r *StoreRepository) FindByID(ctx context.Context, id uint) (models.Store, error) {
	var store models.Store
	err := database.Conn(ctx, r.db).Where("id = ?", id).Take(&store).Error
	return store, err
}

// Exists reports whether a store with id exists.
func (r *StoreRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	err := database.Conn(ctx, r.db).Model(&models.Store{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// Count returns the number of stores.
func (r *StoreRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := database.Conn(ctx, r.db).Model(&models.Store{}).Count(&n).Error
	return n, err
}

// Create persists a new store.
func (r *StoreRepository) Create(ctx context.Context, store *models.Store) error {
	return database.Conn(ctx, r.db).Create(store).Error
}

// Update writes the given columns (nil values clear them) and refreshes
// updated_at, then reloads store.
func (r *StoreRepository) Update(ctx context.Context, store *models.Store, changes map[string]interface{}) error {
	conn := database.Conn(ctx, r.db)
	if err := conn.Model(store).Updates(changes).Error; err != nil {
		return err
	}
	return conn.Where("id = ?", store.ID).Take(store).Error
}

// Delete removes the store row and reports how many rows went.
func (r *StoreRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := database.Conn(ctx, r.db).Where("id = ?", id).Delete(&models.Store{})
	return res.RowsAffected, res.Error
}
