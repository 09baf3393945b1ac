package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/amoree/storefront/internal/auth"
	"github.com/amoree/storefront/internal/board"
	"github.com/amoree/storefront/internal/cart"
	"github.com/amoree/storefront/internal/catalog"
	"github.com/amoree/storefront/internal/checkout"
	"github.com/amoree/storefront/internal/schedule"
)

type Deps struct {
	Catalog  catalog.Repository
	Carts    *cart.Store
	Composer *checkout.Composer
	Board    *board.Service
	Verifier *auth.Verifier
	Policy   *auth.Policy

	SlotRules        schedule.Rules
	RequestTimeout   time.Duration
	CORSAllowOrigins []string
	Logger           *zap.Logger
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(CORS(d.CORSAllowOrigins))
	r.Use(Identity(d.Verifier, d.Policy))

	r.Get("/health", healthHandler)

	catalogH := NewCatalogHandler(d.Catalog, d.RequestTimeout, d.Logger)
	cartH := NewCartHandler(d.Carts, d.Catalog, d.Composer, d.RequestTimeout)
	checkoutH := NewCheckoutHandler(d.Composer, d.Carts, d.SlotRules, d.RequestTimeout)
	adminH := NewAdminHandler(d.Board, d.RequestTimeout)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", catalogH.ListProducts)
		r.Get("/delivery-slots", checkoutH.ListSlots)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartH.GetCart)
			r.Post("/items", cartH.AddItem)
			r.Post("/items/{sku}/decrement", cartH.DecrementItem)
			r.Delete("/items/{sku}", cartH.RemoveItem)
			r.Post("/recall", cartH.RecallLastOrder)
		})

		r.Post("/checkout", checkoutH.Checkout)

		r.Route("/admin", func(r chi.Router) {
			r.Use(RequireAdmin)
			r.Get("/orders", adminH.ListOrders)
			r.Put("/orders/{orderId}/status", adminH.SetStatus)
			r.Put("/orders/{orderId}/lines/{lineIndex}", adminH.AdjustLine)
			r.Post("/orders/{orderId}/finalize", adminH.Finalize)
		})
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "storefront",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
