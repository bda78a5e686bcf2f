package controllers

import (
	"github.com/shashiranjanraj/inventory/app/services"
	"github.com/shashiranjanraj/inventory/pkg/ctx"
)

type ProductController struct {
	products *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{products: products}
}

// Index handles GET /stores/{id}/products.
func (pc *ProductController) Index(c *ctx.Context) {
	storeID, ok := c.ParamID("id")
	if !ok {
		return
	}
	filters := services.DefaultProductFilters()
	if !c.BindQuery(&filters) {
		return
	}
	page, err := pc.products.ListByStore(c.Context(), storeID, filters)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Paginated(page.Items, page.Pagination)
}

// Store handles POST /stores/{id}/products.
func (pc *ProductController) Store(c *ctx.Context) {
	storeID, ok := c.ParamID("id")
	if !ok {
		return
	}
	var input services.CreateProductInput
	if !c.BindJSON(&input) {
		return
	}
	product, err := pc.products.Create(c.Context(), storeID, input)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Created(product)
}

// Show handles GET /products/{id}.
func (pc *ProductController) Show(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	product, err := pc.products.Get(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(product)
}

// Update handles PUT /products/{id}.
func (pc *ProductController) Update(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	var input services.UpdateProductInput
	if !c.BindJSON(&input) {
		return
	}
	product, err := pc.products.Update(c.Context(), id, input)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(product)
}

// Stock handles PATCH /products/{id}/stock.
func (pc *ProductController) Stock(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	var input services.UpdateStockInput
	if !c.BindJSON(&input) {
		return
	}
	product, err := pc.products.UpdateStock(c.Context(), id, *input.Quantity)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(product)
}

// Destroy handles DELETE /products/{id}.
func (pc *ProductController) Destroy(c *ctx.Context) {
	id, ok := c.ParamID("id")
	if !ok {
		return
	}
	if err := pc.products.Delete(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}
	c.NoContent()
}
