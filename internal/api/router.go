package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/daap14/quotator/internal/api/handler"
	"github.com/daap14/quotator/internal/api/middleware"
	"github.com/daap14/quotator/internal/catalog"
	"github.com/daap14/quotator/internal/quote"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Catalog     catalog.Repository
	Quotes      quote.Repository
	Crawler     handler.CrawlTrigger
	DBPinger    handler.DBPinger
	Version     string
	OpenAPISpec []byte
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         3600,
	}))

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	catalogHandler := handler.NewCatalogHandler(deps.Catalog)
	r.Get("/flavors", catalogHandler.ListFlavors)
	r.Get("/flavors/match", catalogHandler.BestMatch)
	r.Get("/disks", catalogHandler.ListDiskTypes)
	r.Get("/pricing", catalogHandler.Pricing)

	crawlHandler := handler.NewCrawlHandler(deps.Crawler)
	r.Post("/crawl", crawlHandler.ServeHTTP)

	quoteHandler := handler.NewQuoteHandler(deps.Quotes)
	itemHandler := handler.NewItemHandler(deps.Quotes)
	r.Route("/quotes", func(r chi.Router) {
		r.Get("/", quoteHandler.List)
		r.Post("/", quoteHandler.Create)
		r.Get("/paginated", quoteHandler.ListPaginated)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", quoteHandler.GetByID)
			r.Put("/", quoteHandler.Update)
			r.Delete("/", quoteHandler.Delete)

			r.Get("/items", itemHandler.List)
			r.Post("/items", itemHandler.Create)
			r.Put("/items/{itemId}", itemHandler.Update)
			r.Delete("/items/{itemId}", itemHandler.Delete)
		})
	})

	return r
}
