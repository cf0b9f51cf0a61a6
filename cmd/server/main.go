package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JohnnyRuss/academind-back/internal/cache"
	"github.com/JohnnyRuss/academind-back/internal/handlers"
	"github.com/JohnnyRuss/academind-back/internal/media"
	"github.com/JohnnyRuss/academind-back/internal/middleware"
	"github.com/JohnnyRuss/academind-back/internal/router"
	"github.com/JohnnyRuss/academind-back/internal/services"
	"github.com/JohnnyRuss/academind-back/pkg/config"
	"github.com/JohnnyRuss/academind-back/pkg/firebase"
	"github.com/JohnnyRuss/academind-back/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	repos, db, err := router.OpenRepositories(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	if db != nil {
		defer db.CloseDB() // Ensure database connections are closed when main exits
	}

	var rankingCache cache.RankingCache = cache.Noop{}
	if db != nil && db.Redis != nil {
		rankingCache = cache.NewRedisRankingCache(db.Redis, cfg.RankingCacheTTL)
		log.Printf("Ranking cache enabled (ttl %s)", cfg.RankingCacheTTL)
	}

	// Initialize Firebase only when something uses it
	var firebaseApp *firebase.App
	if cfg.AuthMode == "firebase" || cfg.MediaBackend == "firebase" {
		firebaseApp, err = firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseBucket)
		if err != nil {
			log.Fatalf("Failed to initialize Firebase: %v", err)
		}
	}

	var store media.Store
	mediaDir := ""
	if cfg.MediaBackend == "firebase" {
		bucket, err := firebaseApp.DefaultBucket(ctx)
		if err != nil {
			log.Fatalf("Failed to open media bucket: %v", err)
		}
		store = media.NewFirebaseStore(bucket, "media/")
	} else {
		disk, err := media.NewDiskStore(cfg.MediaDir)
		if err != nil {
			log.Fatalf("Failed to prepare media directory: %v", err)
		}
		store = disk
		mediaDir = disk.Dir()
	}

	var auth echo.MiddlewareFunc
	if cfg.AuthMode == "firebase" {
		auth = middleware.FirebaseAuthMiddleware(firebaseApp.AuthClient, repos.Users)
	} else {
		auth = middleware.JWTAuthMiddleware(cfg.JWTSecret)
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.ErrorHandler

	// Setup global middleware
	config.SetupMiddleware(e)

	// Setup routes and dependencies
	svc := router.NewServices(repos, media.NewResolver(store, cfg.MediaBaseURL), rankingCache)
	router.SetupRoutes(e, svc, auth, mediaDir)

	if cfg.ReconcileInterval > 0 {
		go runReconcile(ctx, svc.Reconcile, cfg.ReconcileInterval)
	}

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
}

func runReconcile(ctx context.Context, svc *services.ReconcileService, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := svc.Reconcile(ctx)
			if err != nil {
				log.Printf("Reconciliation failed: %v", err)
				continue
			}
			log.Printf("Reconciliation: %d orphan comments deleted, %d shares hidden, %d bookmarks flagged",
				report.OrphanCommentsDeleted, report.SharesHidden, report.BookmarksFlagged)
		}
	}
}
