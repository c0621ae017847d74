package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(catalogHandler *CatalogHandler, cartHandler *CartHandler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", healthHandler)

	r.Route("/api/catalog", func(r chi.Router) {
		r.Get("/", catalogHandler.ListProducts)
		r.Get("/categories", catalogHandler.ListCategories)
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", cartHandler.GetCart)
		r.Post("/items", cartHandler.AddItem)
		r.Put("/items", cartHandler.UpdateItem)
		r.Delete("/items", cartHandler.RemoveItem)
		r.Post("/clear", cartHandler.ClearCart)
		r.Post("/checkout", cartHandler.Checkout)
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "storefront"})
}
