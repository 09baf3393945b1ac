package httpapi

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/amoree/storefront/internal/catalog"
)

type CatalogHandler struct {
	repo    catalog.Repository
	timeout time.Duration
	logger  *zap.Logger
}

func NewCatalogHandler(repo catalog.Repository, timeout time.Duration, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{repo: repo, timeout: timeout, logger: logger}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.repo.List(ctx)
	if err != nil {
		h.logger.Error("failed to load catalog", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load products")
		return
	}
	if products == nil {
		products = []catalog.Product{}
	}

	writeJSON(w, http.StatusOK, products)
}
