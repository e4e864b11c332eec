package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/wellywell/orderhub/internal/auth"
	"github.com/wellywell/orderhub/internal/compress"
	"github.com/wellywell/orderhub/internal/config"
	"github.com/wellywell/orderhub/internal/handlers"
)

const (
	compressLevel = 5
)

type Middleware interface {
	Handle(h http.Handler) http.Handler
}

type Router struct {
	address string
	router  *chi.Mux
}

func NewRouter(conf *config.ServerConfig, h *handlers.HandlerSet, middlewares ...Middleware) *Router {

	r := chi.NewRouter()

	for _, m := range middlewares {
		r.Use(m.Handle)
	}
	r.Use(middleware.Compress(compressLevel))

	r.Get("/health", handlers.HandleHealth)

	authMiddleware := &auth.AuthenticateMiddleware{Secret: conf.Secret}

	r.Group(func(r chi.Router) {

		r.Use(authMiddleware.Handle)

		r.Get("/api/orders", h.HandleGetOrders)
		r.Get("/api/orders/stats", h.HandleGetStats)
		r.Get("/api/orders/{orderID}", h.HandleGetOrder)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Use(compress.RequestUngzipper{}.Handle)
			r.Post("/api/upload/orders", h.HandleUploadOrders)
		})
	})

	return &Router{router: r, address: conf.RunAddress}
}

func (r *Router) ListenAndServe() error {
	err := http.ListenAndServe(r.address, r.router)
	return err
}

// Handler exposes the mux for tests.
func (r *Router) Handler() http.Handler {
	return r.router
}
