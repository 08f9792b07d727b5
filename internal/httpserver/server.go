package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	cartsvc "photoprint/internal/service/cart"
	catalogsvc "photoprint/internal/service/catalog"
	ordersvc "photoprint/internal/service/order"
	photosvc "photoprint/internal/service/photo"
)

// Deps are the services the HTTP layer maps requests onto.
type Deps struct {
	CartSvc    *cartsvc.Service
	OrderSvc   *ordersvc.Service
	PhotoSvc   *photosvc.Service
	CatalogSvc *catalogsvc.Service
}

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	db         *pgxpool.Pool
}

// New builds a Server with the full route set.
func New(addr string, db *pgxpool.Pool, deps Deps) *Server {
	router := buildRouter(db, deps)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		db:         db,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
