package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"tush00nka/utransfer/internal/config"
	"tush00nka/utransfer/internal/handler"
	"tush00nka/utransfer/internal/pkg/device"
	"tush00nka/utransfer/internal/pkg/lan"
	"tush00nka/utransfer/internal/pkg/metrics"
	"tush00nka/utransfer/internal/pkg/storage"
	"tush00nka/utransfer/internal/repository"
	"tush00nka/utransfer/internal/service"
	"tush00nka/utransfer/internal/ws"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	cfg         *config.Config
	server      *Server
	hub         *ws.Hub
	fileService service.FileService
	url         string
}

// New собирает зависимости и сверяет каталог загрузок с пустым списком
func New(cfg *config.Config) (*App, error) {
	store, err := storage.NewDiskStorage(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	fileRepo := repository.NewFileRepository()
	hub := ws.NewHub(fileRepo.List)
	fileService := service.NewFileService(fileRepo, store, hub, cfg.MaxUploadBytes())

	if _, err := fileService.Reconcile(cfg.ReconcileMode); err != nil {
		hub.Shutdown()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := metrics.New(reg)
	if err != nil {
		hub.Shutdown()
		return nil, err
	}
	hubMetrics := hub.Metrics()
	err = metrics.RegisterState(reg, metrics.State{
		Files:      fileRepo.Len,
		Clients:    hub.Clients,
		Broadcasts: hubMetrics.Broadcasts.Load,
		Dropped:    hubMetrics.Dropped.Load,
	})
	if err != nil {
		hub.Shutdown()
		return nil, err
	}

	url := lan.URL(cfg.PublicURL, cfg.Port)

	fileHandler := handler.NewFileHandler(fileService, cfg.MaxUploadBytes(), cfg.TrustProxy)
	wsHandler := handler.NewWSHandler(hub, ws.NewUpgrader(cfg.Origins(), cfg.IsDevelopment()))
	systemHandler := handler.NewSystemHandler(fileRepo.Len, hub.Clients, url)

	server := NewServer(cfg, m, reg, fileHandler, wsHandler, systemHandler)

	return &App{
		cfg:         cfg,
		server:      server,
		hub:         hub,
		fileService: fileService,
		url:         url,
	}, nil
}

func (a *App) Handler() http.Handler {
	return a.server.Handler()
}

func (a *App) URL() string {
	return a.url
}

// Shutdown закрывает все WebSocket соединения
func (a *App) Shutdown() {
	a.hub.Shutdown()
}

func (a *App) Run(ctx context.Context) error {
	defer a.Shutdown()

	lan.PrintBanner(os.Stdout, a.url, device.Server(), a.cfg.ShowQR)

	return a.server.Run(ctx, a.cfg.Addr())
}

// Run запускает сервер до SIGINT/SIGTERM
func Run(cfg *config.Config) error {
	a, err := New(cfg)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		return err
	}

	log.Printf("👋 Server stopped")
	return nil
}
