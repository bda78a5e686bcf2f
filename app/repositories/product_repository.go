package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/pkg/database"
	"github.com/shashiranjanraj/inventory/pkg/orm"
)

// ProductFilter is the conjunctive filter applied by Search. Nil fields do
// not filter.
type ProductFilter struct {
	Category *string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	InStock  bool
	LowStock *int
	Search   string

	// SortColumn must be one of SortColumns' values.
	SortColumn string
	Desc       bool
	Page       int
	Limit      int
}

// SortColumns maps the public sort keys to columns.
var SortColumns = map[string]string{
	"name":      "name",
	"price":     "price",
	"quantity":  "quantity",
	"createdAt": "created_at",
}

// CategoryTotal is one (category, price) group of a store's products.
type CategoryTotal struct {
	Category string
	Price    decimal.Decimal
	Products int64
	Quantity int64
}

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) filtered(ctx context.Context, storeID uint, f ProductFilter) *gorm.DB {
	q := database.Conn(ctx, r.db).Model(&models.Product{}).Where("store_id = ?", storeID)

	if f.Category != nil {
		q = q.Where("category = ?", *f.Category)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.InStock {
		q = q.Where("quantity > 0")
	}
	if f.LowStock != nil {
		q = q.Where("quantity <= ?", *f.LowStock)
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(f.Search) + "%"
		q = q.Where("(LOWER(name) LIKE LOWER(?) ESCAPE '!' OR LOWER(description) LIKE LOWER(?) ESCAPE '!')", pattern, pattern)
	}
	return q
}

// Search returns one page of a store's products matching f, plus the total
// number of matches ignoring pagination.
func (r *ProductRepository) Search(ctx context.Context, storeID uint, f ProductFilter) ([]models.Product, int64, error) {
	var total int64
	if err := r.filtered(ctx, storeID, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := SortColumns[f.SortColumn]
	if !ok {
		column = "created_at"
	}

	products := []models.Product{}
	if int64(orm.NewPagination(f.Page, f.Limit, total).Offset()) >= total {
		return products, total, nil
	}
	err := r.filtered(ctx, storeID, f).
		Scopes(orm.OrderBy(column, f.Desc), orm.Paginate(f.Page, f.Limit)).
		Find(&products).Error
	return products, total, err
}

// FindByID looks up a product by primary key. Returns gorm.ErrRecordNotFound
// when absent.
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (models.Product, error) {
	var product models.Product
	err := database.Conn(ctx, r.db).Where("id = ?", id).Take(&product).Error
	return product, err
}

// Create persists a new product.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	return database.Conn(ctx, r.db).Create(product).Error
}

// CreateBatch inserts products in batches of 100.
func (r *ProductRepository) CreateBatch(ctx context.Context, products []models.Product) error {
	if len(products) == 0 {
		return nil
	}
	return database.Conn(ctx, r.db).CreateInBatches(products, 100).Error
}

// Update writes the given columns (nil values clear them) and refreshes
// updated_at, then reloads product.
func (r *ProductRepository) Update(ctx context.Context, product *models.Product, changes map[string]interface{}) error {
	conn := database.Conn(ctx, r.db)
	if err := conn.Model(product).Updates(changes).Error; err != nil {
		return err
	}
	return conn.Where("id = ?", product.ID).Take(product).Error
}

// Delete removes one product.
func (r *ProductRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := database.Conn(ctx, r.db).Where("id = ?", id).Delete(&models.Product{})
	return res.RowsAffected, res.Error
}

// DeleteByStore removes every product of a store.
func (r *ProductRepository) DeleteByStore(ctx context.Context, storeID uint) (int64, error) {
	res := database.Conn(ctx, r.db).Where("store_id = ?", storeID).Delete(&models.Product{})
	return res.RowsAffected, res.Error
}

// CategoryTotals groups a store's products by (category, price), ordered by
// category. Values are multiplied by the caller in exact decimal arithmetic.
func (r *ProductRepository) CategoryTotals(ctx context.Context, storeID uint) ([]CategoryTotal, error) {
	rows := []CategoryTotal{}
	err := database.Conn(ctx, r.db).Model(&models.Product{}).
		Select("category, price, COUNT(*) AS products, COALESCE(SUM(quantity), 0) AS quantity").
		Where("store_id = ?", storeID).
		Group("category, price").
		Order("category ASC, price ASC").
		Scan(&rows).Error
	return rows, err
}

// CountOutOfStock counts a store's products with quantity 0.
func (r *ProductRepository) CountOutOfStock(ctx context.Context, storeID uint) (int64, error) {
	var n int64
	err := database.Conn(ctx, r.db).Model(&models.Product{}).
		Where("store_id = ? AND quantity = 0", storeID).
		Count(&n).Error
	return n, err
}

// CountLowStock counts a store's products with 0 < quantity <= threshold.
func (r *ProductRepository) CountLowStock(ctx context.Context, storeID uint, threshold int) (int64, error) {
	var n int64
	err := database.Conn(ctx, r.db).Model(&models.Product{}).
		Where("store_id = ? AND quantity > 0 AND quantity <= ?", storeID, threshold).
		Count(&n).Error
	return n, err
}

// escapeLike escapes LIKE wildcards with '!', which every dialect accepts
// as an ESCAPE character.
func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, c := range s {
		if c == '%' || c == '_' || c == '!' {
			out = append(out, '!')
		}
		out = append(out, c)
	}
	return string(out)
}
