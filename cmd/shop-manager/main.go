package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/ValerioGc/shop-manager/internal/app"
)

// @title       shop-manager API
// @version     1.0
// @description Collectibles shop backend: public catalog and admin panel.
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx)
	if err != nil {
		log.Fatalf("build: %v", err)
	}
	if err := a.Run(ctx); err != nil {
		log.Fatalf("run: %v", err)
	}
}
