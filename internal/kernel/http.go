// Package kernel assembles the HTTP handler: global middleware, the JSON
// fallbacks, operational endpoints and the API routes.
package kernel

import (
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/inventory/app/controllers"
	"github.com/shashiranjanraj/inventory/app/routes"
	"github.com/shashiranjanraj/inventory/app/services"
	"github.com/shashiranjanraj/inventory/pkg/cache"
	"github.com/shashiranjanraj/inventory/pkg/database"
	"github.com/shashiranjanraj/inventory/pkg/event"
	"github.com/shashiranjanraj/inventory/pkg/metrics"
	"github.com/shashiranjanraj/inventory/pkg/middleware"
	"github.com/shashiranjanraj/inventory/pkg/reqid"
	"github.com/shashiranjanraj/inventory/pkg/response"
	"github.com/shashiranjanraj/inventory/pkg/router"
)

// Options carries the kernel's collaborators. A nil Cache disables caching,
// a nil Bus gets a fresh one and empty CORS options fall back to
// middleware.DefaultCORSOptions.
type Options struct {
	DB       *gorm.DB
	Cache    cache.Store
	CacheTTL time.Duration
	Bus      *event.Bus
	CORS     middleware.CORSOptions
}

type HTTPKernel struct {
	router *router.Router
}

func NewHTTPKernel(opts Options) *HTTPKernel {
	if opts.Bus == nil {
		opts.Bus = event.NewBus()
	}
	if len(opts.CORS.AllowedOrigins) == 0 {
		opts.CORS = middleware.DefaultCORSOptions()
	}

	r := router.New()

	// Outermost → innermost: metrics, request id, logger, recovery, CORS.
	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(opts.CORS))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { response.NotFound(w) })
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) { response.MethodNotAllowed(w) })

	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/healthz", "health", healthHandler(opts.DB))

	storeService := services.NewStoreService(opts.DB, opts.Bus)
	productService := services.NewProductService(opts.DB, opts.Bus)
	inventoryService := services.NewInventoryService(opts.DB, opts.Bus, opts.Cache, opts.CacheTTL)
	inventoryService.Subscribe(opts.Bus)

	routes.RegisterAPI(r,
		controllers.NewStoreController(storeService, inventoryService),
		controllers.NewProductController(productService),
	)

	return &HTTPKernel{router: r}
}

func (k *HTTPKernel) Handler() http.Handler {
	return k.router.Handler()
}

// Router exposes the route table, for `route:list`.
func (k *HTTPKernel) Router() *router.Router {
	return k.router
}

func healthHandler(db *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			response.Error(w, http.StatusServiceUnavailable, "database not configured")
			return
		}
		if err := database.Ping(r.Context(), db); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "database unreachable")
			return
		}
		response.Success(w, map[string]string{"status": "ok"})
	}
}
