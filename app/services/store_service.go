package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventory/app/models"
	"github.com/shashiranjanraj/inventory/app/repositories"
	"github.com/shashiranjanraj/inventory/pkg/apperror"
	"github.com/shashiranjanraj/inventory/pkg/database"
	"github.com/shashiranjanraj/inventory/pkg/event"
	"github.com/shashiranjanraj/inventory/pkg/logger"
	"github.com/shashiranjanraj/inventory/pkg/validate"
)

// StoreService implements CRUD over stores.
type StoreService struct {
	db       *gorm.DB
	stores   *repositories.StoreRepository
	products *repositories.ProductRepository
	events   *event.Bus
}

func NewStoreService(db *gorm.DB, events *event.Bus) *StoreService {
	return &StoreService{
		db:       db,
		stores:   repositories.NewStoreRepository(db),
		products: repositories.NewProductRepository(db),
		events:   events,
	}
}

func storeNotFound(id uint) error {
	return apperror.NotFoundf("Store with ID %d not found", id)
}

// List returns every store in id order.
func (s *StoreService) List(ctx context.Context) ([]models.Store, error) {
	stores, err := s.stores.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("store service: list: %w", err)
	}
	return stores, nil
}

// Get returns one store or a NotFound error.
func (s *StoreService) Get(ctx context.Context, id uint) (models.Store, error) {
	store, err := s.stores.FindByID(ctx, id)
	if database.IsNotFound(err) {
		return models.Store{}, storeNotFound(id)
	}
	if err != nil {
		return models.Store{}, fmt.Errorf("store service: get %d: %w", id, err)
	}
	return store, nil
}

// Create inserts a store. A taken name is a Conflict.
func (s *StoreService) Create(ctx context.Context, in CreateStoreInput) (models.Store, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Store{}, apperror.Invalid(errs)
	}

	store := models.Store{Name: in.Name, Address: in.Address, Phone: in.Phone}
	if err := s.stores.Create(ctx, &store); err != nil {
		if database.IsUniqueViolation(err) {
			return models.Store{}, apperror.Conflictf(err, `Store with name "%s" already exists`, in.Name)
		}
		return models.Store{}, fmt.Errorf("store service: create: %w", err)
	}

	logger.WithCtx(ctx).Info("store created", "store_id", store.ID)
	s.events.Fire(ctx, EventStoreCreated, Change{StoreID: store.ID})
	return store, nil
}

// Update merges the supplied fields into the store and refreshes updatedAt.
func (s *StoreService) Update(ctx context.Context, id uint, in UpdateStoreInput) (models.Store, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Store{}, apperror.Invalid(errs)
	}

	store, err := s.Get(ctx, id)
	if err != nil {
		return models.Store{}, err
	}

	changes := map[string]interface{}{}
	if name, ok := in.Name.Get(); ok {
		changes["name"] = name
	}
	if in.Address.IsSet() {
		changes["address"] = in.Address.Ptr()
	}
	if in.Phone.IsSet() {
		changes["phone"] = in.Phone.Ptr()
	}

	if err := s.stores.Update(ctx, &store, changes); err != nil {
		if database.IsUniqueViolation(err) {
			name, _ := in.Name.Get()
			return models.Store{}, apperror.Conflictf(err, `Store with name "%s" already exists`, name)
		}
		if database.IsNotFound(err) {
			return models.Store{}, storeNotFound(id)
		}
		return models.Store{}, fmt.Errorf("store service: update %d: %w", id, err)
	}

	s.events.Fire(ctx, EventStoreUpdated, Change{StoreID: id})
	return store, nil
}

// Delete removes the store and all of its products in one transaction.
func (s *StoreService) Delete(ctx context.Context, id uint) error {
	var removed int64
	err := database.Transaction(ctx, s.db, func(ctx context.Context) error {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}

		n, err := s.products.DeleteByStore(ctx, id)
		if err != nil {
			return fmt.Errorf("store service: delete products of %d: %w", id, err)
		}
		removed = n

		deleted, err := s.stores.Delete(ctx, id)
		if err != nil {
			return fmt.Errorf("store service: delete %d: %w", id, err)
		}
		if deleted == 0 {
			return storeNotFound(id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.WithCtx(ctx).Info("store deleted", "store_id", id, "products_removed", removed)
	s.events.Fire(ctx, EventStoreDeleted, Change{StoreID: id})
	return nil
}
