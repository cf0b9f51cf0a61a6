package main

import (
	"context"
	"log"
	"time"

	"github.com/JohnnyRuss/academind-back/internal/router"
	"github.com/JohnnyRuss/academind-back/internal/services"
	"github.com/JohnnyRuss/academind-back/pkg/config"
)

// reconcile runs one repair pass over the stores and exits.
func main() {
	cfg := config.Load()
	if cfg.UsesMemoryStore() {
		log.Fatal("STORE_BACKEND=memory has nothing to reconcile")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	repos, db, err := router.OpenRepositories(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	reconciler := services.NewReconcileService(repos.Posts, repos.Comments, repos.Bookmarks)
	report, err := reconciler.Reconcile(ctx)
	if err != nil {
		log.Fatalf("Reconciliation failed: %v", err)
	}
	log.Printf("Reconciliation: %d orphan comments deleted, %d shares hidden, %d bookmarks flagged",
		report.OrphanCommentsDeleted, report.SharesHidden, report.BookmarksFlagged)
}
