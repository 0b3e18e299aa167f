package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/yemenflix/yemenflix-server/internal/api"
	"github.com/yemenflix/yemenflix-server/internal/cache"
	"github.com/yemenflix/yemenflix-server/internal/catalog"
	"github.com/yemenflix/yemenflix-server/internal/config"
	"github.com/yemenflix/yemenflix-server/internal/db"
	"github.com/yemenflix/yemenflix-server/internal/jobs"
	"github.com/yemenflix/yemenflix-server/internal/repository"
	"github.com/yemenflix/yemenflix-server/internal/scheduler"
	"github.com/yemenflix/yemenflix-server/internal/search"
	"github.com/yemenflix/yemenflix-server/internal/version"
)

func main() {
	ver := version.Load()
	log.Printf("%s %s starting...", ver.Name, ver.Version)

	cfg := config.Load()

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database, cfg.MigrationsDir); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	cfg.MergeFromDB(database.DB)

	foldOpts := search.Options{FoldArabic: cfg.FoldArabic}
	contentRepo := repository.NewContentRepository(database.DB, foldOpts)
	taxonomyRepo := repository.NewTaxonomyRepository(database.DB)

	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 30*time.Second)
	if err := taxonomyRepo.SeedVocabulary(seedCtx); err != nil {
		log.Fatalf("vocabulary seed failed: %v", err)
	}
	cancelSeed()

	queryCache := cache.New(cfg.RedisAddr)
	defer queryCache.Close()
	catalogSvc := catalog.NewService(contentRepo, queryCache, cfg.QueryTimeout)

	queue := jobs.NewQueue(cfg.RedisAddr)
	srv := api.NewServer(cfg, database, contentRepo, catalogSvc, queue)
	defer srv.Close()

	importer := jobs.NewImporter(contentRepo, catalogSvc, srv.WSHub())
	statsRefresher := jobs.NewStatsRefresher(database.DB, contentRepo, catalogSvc)
	queue.Handle(jobs.TaskImportCatalog, importer.HandleImport)
	queue.Handle(jobs.TaskStatsRefresh, statsRefresher.HandleRefresh)

	var sched *scheduler.Scheduler
	if cfg.WorkerEnabled && cfg.RedisAddr != "" {
		if err := queue.Start(); err != nil {
			log.Fatalf("job queue start failed: %v", err)
		}
		defer queue.Shutdown()

		sched = scheduler.New(queue, catalogSvc)
		if err := sched.Start(); err != nil {
			log.Fatalf("scheduler start failed: %v", err)
		}
		defer sched.Stop()
	} else {
		log.Println("worker disabled, imports will stay queued")
	}

	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%d", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	httpServer.Shutdown(ctx)
}
