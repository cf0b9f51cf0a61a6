package router

import (
	"context"
	"fmt"
	"log"

	"github.com/JohnnyRuss/academind-back/internal/cache"
	"github.com/JohnnyRuss/academind-back/internal/handlers"
	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/JohnnyRuss/academind-back/internal/repositories"
	"github.com/JohnnyRuss/academind-back/internal/repositories/memory"
	"github.com/JohnnyRuss/academind-back/internal/services"
	"github.com/JohnnyRuss/academind-back/pkg/config"
	"github.com/labstack/echo/v4"
)

// Repositories is the storage set every service is built from
type Repositories struct {
	Posts         repositories.PostRepository
	Comments      repositories.CommentRepository
	Bookmarks     repositories.BookmarkRepository
	Notifications repositories.NotificationRepository
	Users         repositories.UserRepository
}

// NewMemoryRepositories returns in-process repositories sharing one store
func NewMemoryRepositories() *Repositories {
	store := memory.NewStore()
	log.Println("Using in-memory repositories; data is lost on restart.")
	return &Repositories{
		Posts:         store.Posts(),
		Comments:      store.Comments(),
		Bookmarks:     store.Bookmarks(),
		Notifications: store.Notifications(),
		Users:         store.Users(),
	}
}

// NewPersistentRepositories migrates PostgreSQL, creates the MongoDB indexes
// and returns the repositories backed by them.
func NewPersistentRepositories(ctx context.Context, db *config.DB, mongoDatabase string) (*Repositories, error) {
	if err := db.Postgres.AutoMigrate(&models.User{}, &models.Bookmark{}, &models.Notification{}); err != nil {
		return nil, fmt.Errorf("auto migrating models: %w", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	mdb := db.Mongo.Database(mongoDatabase)
	postRepo := repositories.NewMongoPostRepository(mdb)
	commentRepo := repositories.NewMongoCommentRepository(mdb)
	if err := postRepo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("creating post indexes: %w", err)
	}
	if err := commentRepo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("creating comment indexes: %w", err)
	}
	log.Println("MongoDB indexes ensured.")

	return &Repositories{
		Posts:         postRepo,
		Comments:      commentRepo,
		Bookmarks:     repositories.NewPostgresBookmarkRepository(db.Postgres),
		Notifications: repositories.NewPostgresNotificationRepository(db.Postgres),
		Users:         repositories.NewPostgresUserRepository(db.Postgres),
	}, nil
}

// OpenRepositories picks the repository set named by cfg.StoreBackend. The
// returned DB is nil for the memory backend.
func OpenRepositories(ctx context.Context, cfg *config.Config) (*Repositories, *config.DB, error) {
	if cfg.UsesMemoryStore() {
		return NewMemoryRepositories(), nil, nil
	}
	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, nil, err
	}
	repos, err := NewPersistentRepositories(ctx, db, cfg.MongoDatabase)
	if err != nil {
		db.CloseDB()
		return nil, nil, err
	}
	return repos, db, nil
}

// Services groups the domain services wired from one repository set
type Services struct {
	Posts         *services.PostService
	Comments      *services.CommentService
	Bookmarks     *services.BookmarkService
	Ranking       *services.RankingService
	Notifications *services.NotificationService
	Reconcile     *services.ReconcileService
}

func NewServices(repos *Repositories, mediaResolver services.MediaResolver, rankingCache cache.RankingCache) *Services {
	notifications := services.NewNotificationService(repos.Notifications)
	return &Services{
		Posts:         services.NewPostService(repos.Posts, repos.Bookmarks, repos.Users, mediaResolver, notifications, rankingCache),
		Comments:      services.NewCommentService(repos.Comments, repos.Posts, notifications),
		Bookmarks:     services.NewBookmarkService(repos.Bookmarks, repos.Posts, repos.Users),
		Ranking:       services.NewRankingService(repos.Posts, repos.Users, rankingCache),
		Notifications: notifications,
		Reconcile:     services.NewReconcileService(repos.Posts, repos.Comments, repos.Bookmarks),
	}
}

// SetupRoutes configures all application routes. mediaDir is served under
// /media when media is kept on local disk; pass "" otherwise.
func SetupRoutes(e *echo.Echo, svc *Services, auth echo.MiddlewareFunc, mediaDir string) {
	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	if mediaDir != "" {
		e.Static("/media", mediaDir)
		log.Printf("Serving media from %s", mediaDir)
	}

	api := e.Group("/api/v1")
	api.Use(auth)

	handlers.NewBlogHandler(svc.Ranking).RegisterBlogRoutes(api)
	log.Println("Blog routes configured.")

	handlers.NewPostHandler(svc.Posts).RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	handlers.NewCommentHandler(svc.Comments).RegisterCommentRoutes(api)
	log.Println("Comment routes configured.")

	handlers.NewBookmarkHandler(svc.Bookmarks).RegisterBookmarkRoutes(api)
	log.Println("Bookmark routes configured.")

	handlers.NewNotificationHandler(svc.Notifications).RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
