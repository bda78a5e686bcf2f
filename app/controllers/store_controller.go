package controllers

import (
	"github.com/shashiranjanraj/inventory/app/services"
	"github.com/shashiranjanraj/inventory/pkg/ctx"
)

type StoreController struct {
	stores    *services.StoreService
	inventory *services.InventoryService
}

func NewStoreController(stores *services.StoreService, inventory *services.InventoryService) *StoreController {
	return &StoreController{stores: stores, inventory: inventory}
}

// Index handles GET /stores.
func (sc *StoreController) Index(c *ctx.Context) {
	stores, err := sc.stores.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(stores)
}

// Show handles GET /stores/{id}.
func (sc *StoreController) Show(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	store, err := sc.stores.Get(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(store)
}

// Store handles POST /stores.
func (sc *StoreController) Store(c *ctx.Context) {
	var input services.CreateStoreInput
	if !c.BindJSON(&input) {
		return
	}
	store, err := sc.stores.Create(c.Context(), input)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(store)
}

// Update handles PUT /stores/{id}.
func (sc *StoreController) Update(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	var input services.UpdateStoreInput
	if !c.BindJSON(&input) {
		return
	}
	store, err := sc.stores.Update(c.Context(), id, input)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(store)
}

// Destroy handles DELETE /stores/{id}.
func (sc *StoreController) Destroy(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	if err := sc.stores.Delete(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.NoContent()
}

// Stats handles GET /stores/{id}/stats.
func (sc *StoreController) Stats(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	query := services.StatsQuery{LowStockThreshold: services.DefaultLowStockThreshold}
	if !c.BindQuery(&query) {
		return
	}
	stats, err := sc.inventory.StoreStats(c.Context(), id, query.LowStockThreshold)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(stats)
}
