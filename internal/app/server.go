package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"
	"tush00nka/utransfer/internal/config"
	"tush00nka/utransfer/internal/pkg/httputils"
	"tush00nka/utransfer/internal/pkg/metrics"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"
)

const shutdownTimeout = 10 * time.Second

// RouteRegistrar регистрирует маршруты обработчика
type RouteRegistrar interface {
	RegisterRoutes(router *mux.Router)
}

type Server struct {
	router  *mux.Router
	handler http.Handler
}

func NewServer(cfg *config.Config, m *metrics.Metrics, gatherer prometheus.Gatherer, registrars ...RouteRegistrar) *Server {
	router := mux.NewRouter()

	// Middleware
	router.Use(httputils.RequestID)
	router.Use(m.Middleware)

	// Routes
	for _, r := range registrars {
		r.RegisterRoutes(router)
	}
	router.Handle("/metrics", metrics.Handler(gatherer)).Methods("GET")

	// Настройка Swagger, doc.json отдается из зарегистрированного пакета docs
	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"), // Важно: относительный путь
	))

	// Клиентский интерфейс, регистрируется последним
	router.PathPrefix("/").Handler(http.FileServer(http.Dir(cfg.StaticDir)))

	origins := cfg.Origins()
	if cfg.IsDevelopment() || len(origins) == 0 {
		origins = []string{"*"}
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "X-Requested-With", httputils.RequestIDHeader}),
		handlers.ExposedHeaders([]string{"Content-Disposition", httputils.RequestIDHeader}),
	)

	var h http.Handler = handlers.LoggingHandler(os.Stdout, router)
	h = cors(h)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)

	return &Server{router: router, handler: h}
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run слушает addr до отмены ctx, затем плавно останавливает сервер
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Handler: s.handler,
		Addr:    addr,
		// без таймаутов на тело: большие файлы по медленной сети
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
