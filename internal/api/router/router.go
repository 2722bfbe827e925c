package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"filialen/internal/api/branch"
	"filialen/internal/pkg/cache"
	"filialen/internal/pkg/logger"
	"filialen/internal/pkg/middleware"
)

// RateLimit configura o limitador por IP. Sem Client, o limitador fica desligado.
type RateLimit struct {
	Client      cache.Client
	MaxRequests int
	Period      time.Duration
}

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
func NewRouter(branchHandler *branch.Handler, log logger.Logger, limit RateLimit) http.Handler {
	r := chi.NewRouter()

	// Middlewares globais
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(log))
	r.Use(chimw.Recoverer)

	// Health check e documentação ficam fora do rate limit.
	r.Get("/ping", PingHandler)
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Group(func(r chi.Router) {
		if limit.Client != nil {
			r.Use(middleware.RateLimiter(limit.Client, limit.MaxRequests, limit.Period, log))
		}
		r.Mount(branch.CollectionPath, branchHandler.Routes())
	})

	return r
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
