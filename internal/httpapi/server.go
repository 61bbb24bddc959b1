package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/abenova/shopcore/internal/catalog"
	"github.com/abenova/shopcore/internal/checkout"
	"github.com/abenova/shopcore/internal/storage"
)

type Server struct {
	srv      *http.Server
	catalog  *catalog.Catalog
	checkout *checkout.Service
	store    *storage.Store
	log      *zap.Logger
}

func New(addr string, cat *catalog.Catalog, svc *checkout.Service, store *storage.Store, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	s := &Server{
		srv:      &http.Server{Addr: addr, Handler: r},
		catalog:  cat,
		checkout: svc,
		store:    store,
		log:      log,
	}

	r.Get("/products", s.listProducts)
	r.Get("/cart/{user}", s.viewCart)
	r.Post("/cart/{user}/items", s.addItem)
	r.Delete("/cart/{user}/items/{productID}", s.removeItem)
	r.Post("/cart/{user}/checkout", s.placeOrder)
	r.Get("/orders", s.listOrders)

	return s
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.List())
}

func (s *Server) viewCart(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	lines, total := s.checkout.ViewCart(user)
	writeJSON(w, http.StatusOK, map[string]any{
		"items": lines,
		"total": total.StringFixed(2),
	})
}

func (s *Server) addItem(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	var req struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := s.checkout.AddItem(user, req.ProductID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, checkout.ErrUnknownProduct):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, checkout.ErrBadQuantity), errors.Is(err, checkout.ErrInsufficientStock):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removeItem(w http.ResponseWriter, r *http.Request) {
	s.checkout.RemoveItem(chi.URLParam(r, "user"), chi.URLParam(r, "productID"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) placeOrder(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "user")
	o, err := s.checkout.Checkout(user)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		// The order is placed and queued; only the durable write failed.
		s.log.Error("checkout write failed", zap.String("user", user), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "order accepted but not persisted")
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

// listOrders returns the full history in file order, or one user's orders
// newest first when ?user= is given.
func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	if user := r.URL.Query().Get("user"); user != "" {
		writeJSON(w, http.StatusOK, s.store.ByUser(user))
		return
	}
	writeJSON(w, http.StatusOK, s.store.All())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) Start() error {
	s.log.Info("http listening", zap.String("addr", s.srv.Addr))
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }
