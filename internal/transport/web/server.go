package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/ValerioGc/shop-manager/internal/config"
	"github.com/ValerioGc/shop-manager/internal/domain"
	"github.com/ValerioGc/shop-manager/internal/respcache"
	"github.com/ValerioGc/shop-manager/internal/transport/web/v1/health"
)

type Server struct {
	log    *log.Logger
	server *http.Server
	cfg    *config.Config
}

func New(
	logger *log.Logger,
	cfg *config.Config,
	repos Repos,
	auth AuthDeps,
	storage domain.BlobStorage,
	media domain.MediaProcessor,
	respCache *respcache.Service,
	db, cache health.Pinger,
) *Server {
	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           newRouter(logger, repos, auth, storage, media, respCache, db, cache),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv, cfg: cfg, log: logger}
}

func (ws *Server) Run() {
	ws.log.Printf("started on %s", ws.server.Addr)
	if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		ws.log.Fatalf("error: %v", err)
	}
}

func (ws *Server) Close(ctx context.Context) {
	if err := ws.server.Shutdown(ctx); err != nil {
		ws.log.Printf("forced to shutdown: %v", err)
	}
	ws.log.Println("exited gracefully")
}
