package routes

import (
	"github.com/shashiranjanraj/inventory/app/controllers"
	"github.com/shashiranjanraj/inventory/pkg/ctx"
	"github.com/shashiranjanraj/inventory/pkg/router"
)

// APIPrefix is the global prefix of every API route.
const APIPrefix = "/api/v1"

func RegisterAPI(r *router.Router, stores *controllers.StoreController, products *controllers.ProductController) {
	api := r.Group(APIPrefix)

	api.Get("/stores", "stores.index", ctx.Wrap(stores.Index))
	api.Post("/stores", "stores.store", ctx.Wrap(stores.Store))
	api.Get("/stores/{id}", "stores.show", ctx.Wrap(stores.Show))
	api.Put("/stores/{id}", "stores.update", ctx.Wrap(stores.Update))
	api.Delete("/stores/{id}", "stores.destroy", ctx.Wrap(stores.Destroy))
	api.Get("/stores/{id}/stats", "stores.stats", ctx.Wrap(stores.Stats))

	api.Get("/stores/{id}/products", "products.index", ctx.Wrap(products.Index))
	api.Post("/stores/{id}/products", "products.store", ctx.Wrap(products.Store))
	api.Get("/products/{id}", "products.show", ctx.Wrap(products.Show))
	api.Put("/products/{id}", "products.update", ctx.Wrap(products.Update))
	api.Patch("/products/{id}/stock", "products.stock", ctx.Wrap(products.Stock))
	api.Delete("/products/{id}", "products.destroy", ctx.Wrap(products.Destroy))
}
