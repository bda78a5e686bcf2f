package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/app/repositories"
	"github.com/shashiranjanraj/inventory/pkg/apperror"
	"github.com/shashiranjanraj/inventory/pkg/database"
	"github.com/shashiranjanraj/inventory/pkg/event"
	"github.com/shashiranjanraj/inventory/pkg/logger"
	"github.com/shashiranjanraj/inventory/pkg/orm"
	"github.com/shashiranjanraj/inventory/pkg/validate"
)

// ProductService implements CRUD and filtered listing over products.
type ProductService struct {
	db       *gorm.DB
	stores   *repositories.StoreRepository
	products *repositories.ProductRepository
	events   *event.Bus
}

func NewProductService(db *gorm.DB, events *event.Bus) *ProductService {
	return &ProductService{
		db:       db,
		stores:   repositories.NewStoreRepository(db),
		products: repositories.NewProductRepository(db),
		events:   events,
	}
}

func productNotFound(id uint) error {
	return apperror.NotFoundf("Product with ID %d not found", id)
}

func (s *ProductService) requireStore(ctx context.Context, storeID uint) error {
	ok, err := s.stores.Exists(ctx, storeID)
	if err != nil {
		return fmt.Errorf("product service: check store %d: %w", storeID, err)
	}
	if !ok {
		return storeNotFound(storeID)
	}
	return nil
}

// ListByStore returns one page of a store's products matching f.
func (s *ProductService) ListByStore(ctx context.Context, storeID uint, f ProductFilters) (ProductPage, error) {
	if errs := validate.Struct(f); validate.HasErrors(errs) {
		return ProductPage{}, apperror.Invalid(errs)
	}

	page, limit := orm.Normalize(f.Page, f.Limit)
	filter := repositories.ProductFilter{
		MinPrice:   f.MinPrice,
		MaxPrice:   f.MaxPrice,
		InStock:    f.InStock != nil && *f.InStock,
		LowStock:   f.LowStock,
		Search:     strings.TrimSpace(f.Search),
		SortColumn: f.SortBy,
		Desc:       f.SortOrder != "asc",
		Page:       page,
		Limit:      limit,
	}
	if f.Category != "" {
		filter.Category = &f.Category
	}

	var (
		items []models.Product
		total int64
	)
	err := database.Snapshot(ctx, s.db, func(ctx context.Context) error {
		if err := s.requireStore(ctx, storeID); err != nil {
			return err
		}
		var err error
		items, total, err = s.products.Search(ctx, storeID, filter)
		if err != nil {
			return fmt.Errorf("product service: list store %d: %w", storeID, err)
		}
		return nil
	})
	if err != nil {
		return ProductPage{}, err
	}
	if items == nil {
		items = []models.Product{}
	}
	return ProductPage{Items: items, Pagination: orm.NewPagination(page, limit, total)}, nil
}

// Get returns one product or a NotFound error.
func (s *ProductService) Get(ctx context.Context, id uint) (models.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if database.IsNotFound(err) {
		return models.Product{}, productNotFound(id)
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("product service: get %d: %w", id, err)
	}
	return product, nil
}

// Create inserts a product into a store. Quantity defaults to 0.
func (s *ProductService) Create(ctx context.Context, storeID uint, in CreateProductInput) (models.Product, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Product{}, apperror.Invalid(errs)
	}
	price, err := roundedPrice(*in.Price)
	if err != nil {
		return models.Product{}, err
	}
	if err := s.requireStore(ctx, storeID); err != nil {
		return models.Product{}, err
	}

	product := models.Product{
		StoreID:     storeID,
		Name:        in.Name,
		Category:    in.Category,
		Price:       price,
		SKU:         in.SKU,
		Description: in.Description,
	}
	if in.Quantity != nil {
		product.Quantity = *in.Quantity
	}

	if err := s.products.Create(ctx, &product); err != nil {
		if database.IsUniqueViolation(err) {
			return models.Product{}, apperror.Conflictf(err, `Product with SKU "%s" already exists`, deref(in.SKU))
		}
		return models.Product{}, fmt.Errorf("product service: create in store %d: %w", storeID, err)
	}

	logger.WithCtx(ctx).Info("product created", "store_id", storeID, "product_id", product.ID)
	s.events.Fire(ctx, EventProductCreated, Change{StoreID: storeID, ProductID: product.ID})
	return product, nil
}

// Update merges the supplied fields into the product and refreshes updatedAt.
// A duplicate SKU is a Conflict and leaves the product unchanged.
func (s *ProductService) Update(ctx context.Context, id uint, in UpdateProductInput) (models.Product, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Product{}, apperror.Invalid(errs)
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	changes := map[string]interface{}{}
	if v, ok := in.Name.Get(); ok {
		changes["name"] = v
	}
	if v, ok := in.Category.Get(); ok {
		changes["category"] = v
	}
	if v, ok := in.Price.Get(); ok {
		price, err := roundedPrice(v)
		if err != nil {
			return models.Product{}, err
		}
		changes["price"] = price
	}
	if v, ok := in.Quantity.Get(); ok {
		changes["quantity"] = v
	}
	if in.SKU.IsSet() {
		changes["sku"] = in.SKU.Ptr()
	}
	if in.Description.IsSet() {
		changes["description"] = in.Description.Ptr()
	}

	if err := s.products.Update(ctx, &product, changes); err != nil {
		if database.IsUniqueViolation(err) {
			return models.Product{}, apperror.Conflictf(err, `Product with SKU "%s" already exists`, deref(in.SKU.Ptr()))
		}
		if database.IsNotFound(err) {
			return models.Product{}, productNotFound(id)
		}
		return models.Product{}, fmt.Errorf("product service: update %d: %w", id, err)
	}

	s.events.Fire(ctx, EventProductUpdated, Change{StoreID: product.StoreID, ProductID: id})
	return product, nil
}

// UpdateStock sets quantity (and updatedAt) only.
func (s *ProductService) UpdateStock(ctx context.Context, id uint, quantity int) (models.Product, error) {
	if quantity < 0 {
		return models.Product{}, apperror.InvalidField("quantity", "The quantity must be greater than or equal to 0.")
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	if err := s.products.Update(ctx, &product, map[string]interface{}{"quantity": quantity}); err != nil {
		if database.IsNotFound(err) {
			return models.Product{}, productNotFound(id)
		}
		return models.Product{}, fmt.Errorf("product service: update stock %d: %w", id, err)
	}

	logger.WithCtx(ctx).Info("stock updated", "product_id", id, "quantity", quantity)
	s.events.Fire(ctx, EventProductStockUpdated, Change{StoreID: product.StoreID, ProductID: id})
	return product, nil
}

// Delete removes one product.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	product, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	n, err := s.products.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("product service: delete %d: %w", id, err)
	}
	if n == 0 {
		return productNotFound(id)
	}

	s.events.Fire(ctx, EventProductDeleted, Change{StoreID: product.StoreID, ProductID: id})
	return nil
}

// priceCeiling is the first value decimal(10,2) cannot hold.
var priceCeiling = decimal.New(1, 8)

// roundedPrice rounds p to the stored scale and checks the rounded value,
// so 0.004 and 99999999.995 are rejected rather than stored as 0 or overflowed.
func roundedPrice(p decimal.Decimal) (decimal.Decimal, error) {
	price := models.RoundPrice(p)
	if !price.IsPositive() {
		return decimal.Zero, apperror.InvalidField("price", "The price must be greater than 0.")
	}
	if price.GreaterThanOrEqual(priceCeiling) {
		return decimal.Zero, apperror.InvalidField("price", "The price must be less than 100000000.")
	}
	return price, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
