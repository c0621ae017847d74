package httpapi

import (
	"log"
	"net/http"

	"github.com/VictorPortugues07/Xis-Clique/internal/catalog"
)

type CatalogHandler struct {
	catalog catalog.Source
	logger  *log.Logger
}

func NewCatalogHandler(src catalog.Source, logger *log.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: src, logger: logger}
}

type productResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Featured    bool   `json:"featured,omitempty"`
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		h.logger.Printf("list products: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load catalog")
		return
	}

	category := r.URL.Query().Get("category")
	query := r.URL.Query().Get("q")
	filtered := catalog.Filter(products, category, query)

	out := make([]productResponse, len(filtered))
	for i, p := range filtered {
		out[i] = productResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price.StringFixed(2),
			Category:    p.Category,
			Image:       p.Image,
			Featured:    p.Featured,
		}
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		h.logger.Printf("list categories: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}

	writeJSON(w, http.StatusOK, categories)
}
