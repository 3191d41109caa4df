// Package app wires configuration, infrastructure and the HTTP server.
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ValerioGc/shop-manager/internal/auth/blacklist"
	"github.com/ValerioGc/shop-manager/internal/auth/password"
	"github.com/ValerioGc/shop-manager/internal/auth/token"
	"github.com/ValerioGc/shop-manager/internal/config"
	"github.com/ValerioGc/shop-manager/internal/media"
	"github.com/ValerioGc/shop-manager/internal/respcache"
	"github.com/ValerioGc/shop-manager/internal/transport/web"

	redisx "github.com/ValerioGc/shop-manager/internal/infra/cache/redis"
	"github.com/ValerioGc/shop-manager/internal/infra/database/postgres"
	s3storage "github.com/ValerioGc/shop-manager/internal/infra/storage/s3"
)

type App struct {
	config *config.Config
	server *web.Server
	log    *log.Logger
	repo   *postgres.PGRepo
	cache  *redisx.Cache
}

func Build(ctx context.Context) (*App, error) {
	base := log.New(os.Stdout, "[app] ", log.LstdFlags)

	serverLog := log.New(base.Writer(), base.Prefix()+"[server] ", base.Flags())
	pgLog := log.New(base.Writer(), base.Prefix()+"[postgres] ", base.Flags())
	redisLog := log.New(base.Writer(), base.Prefix()+"[redis] ", base.Flags())
	cacheLog := log.New(base.Writer(), base.Prefix()+"[respcache] ", base.Flags())

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed load config: %w", err)
	}
	base.Printf("\n  configuration: %s-------------------", cfg)

	base.Println("init PostgreSQL")
	pgRepo, err := postgres.NewPGRepo(ctx, pgLog, cfg.GetDSN(), cfg.DBScheme)
	if err != nil {
		return nil, fmt.Errorf("failed init postgres: %w", err)
	}
	base.Println("PostgreSQL is initialized")

	base.Println("init S3 storage")
	s3, err := s3storage.New(ctx, s3storage.Config{
		Endpoint:  cfg.S3Endpoint,
		Region:    cfg.S3Region,
		Bucket:    cfg.S3Bucket,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		PublicURL: cfg.S3PublicURL,
		UseSSL:    cfg.S3UseSSL,
		PathStyle: cfg.S3PathStyle,
	})
	if err != nil {
		return nil, fmt.Errorf("failed init s3: %w", err)
	}

	base.Println("init Redis")
	rc := redisx.New(redisx.Config{
		Addr:     cfg.RedisAddr,
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	}, redisLog)
	if err := rc.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed init redis: %w", err)
	}
	base.Println("Redis is initialized")

	// Auth primitives
	hasher := password.NewDefault()
	tm := token.New(cfg.AuthJWTSecret, cfg.AuthJWTIssuer, cfg.AuthTokenTTL)
	bl := blacklist.NewStore(rc, "jti:")

	respCache := respcache.New(rc, respcache.Config{
		Production: cfg.IsProduction(),
		Enabled:    cfg.CachingEnabled,
		PublicOnly: cfg.CachePublicOnly,
	}, cacheLog)

	mediaProc := media.New(base, s3, pgRepo)

	base.Println("init Server")
	repos := web.Repos{
		Users:      pgRepo,
		Categories: pgRepo,
		Products:   pgRepo,
		Conditions: pgRepo,
		Contacts:   pgRepo,
		Faqs:       pgRepo,
		Shows:      pgRepo,
		Images:     pgRepo,
		Relations:  pgRepo,
		Search:     pgRepo,
	}
	authDeps := web.AuthDeps{Hasher: hasher, Tokens: tm, Blacklist: bl}
	server := web.New(serverLog, cfg, repos, authDeps, s3, mediaProc, respCache, pgRepo, rc)
	base.Println("Server is initialized")

	base.Println("build ended")
	return &App{
		config: cfg,
		server: server,
		log:    base,
		repo:   pgRepo,
		cache:  rc,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Println("start application...")
	go a.server.Run()
	<-ctx.Done()
	a.log.Println("stop application...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.server.Close(stopCtx)
	a.repo.Close()
	a.cache.Close()

	return nil
}
