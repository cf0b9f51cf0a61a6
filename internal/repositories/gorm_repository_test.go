package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/JohnnyRuss/academind-back/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// a single connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(&models.User{}, &models.Bookmark{}, &models.Notification{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestBookmarkToggle(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresBookmarkRepository(newTestDB(t))

	saved, err := repo.ToggleBookmark(ctx, "u1", "p1")
	if err != nil || !saved {
		t.Fatalf("first toggle = %v, %v; want saved", saved, err)
	}
	if _, err := repo.GetBookmark(ctx, "u1", "p1"); err != nil {
		t.Fatalf("GetBookmark after save: %v", err)
	}

	saved, err = repo.ToggleBookmark(ctx, "u1", "p1")
	if err != nil || saved {
		t.Fatalf("second toggle = %v, %v; want removed", saved, err)
	}
	if _, err := repo.GetBookmark(ctx, "u1", "p1"); !errors.Is(err, ErrBookmarkNotFound) {
		t.Fatalf("GetBookmark after removal err = %v", err)
	}
}

func TestBookmarkToggleIsPerAuthor(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresBookmarkRepository(newTestDB(t))

	if _, err := repo.ToggleBookmark(ctx, "u1", "p1"); err != nil {
		t.Fatal(err)
	}
	saved, err := repo.ToggleBookmark(ctx, "u2", "p1")
	if err != nil || !saved {
		t.Fatalf("other author toggle = %v, %v; want saved", saved, err)
	}
	if _, err := repo.GetBookmark(ctx, "u1", "p1"); err != nil {
		t.Fatalf("u1 bookmark disappeared: %v", err)
	}
}

func TestBookmarkMarkDeleted(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresBookmarkRepository(newTestDB(t))

	for _, pair := range [][2]string{{"u1", "p1"}, {"u2", "p1"}, {"u1", "p2"}} {
		if _, err := repo.ToggleBookmark(ctx, pair[0], pair[1]); err != nil {
			t.Fatal(err)
		}
	}

	n, err := repo.MarkDeletedByPostIDs(ctx, []string{"p1"})
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("marked %d bookmarks, want 2", n)
	}

	b, err := repo.GetBookmark(ctx, "u1", "p1")
	if err != nil {
		t.Fatal(err)
	}
	if !b.Deleted || b.PostID != nil || b.CachedID != "p1" {
		t.Fatalf("bookmark after delete = %+v", b)
	}

	live, err := repo.GetLivePostIDs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(live) != 1 || live[0] != "p2" {
		t.Fatalf("live post ids = %v, want [p2]", live)
	}

	list, err := repo.GetBookmarksByAuthor(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("u1 bookmarks = %d, want 2 (deleted ones are listed)", len(list))
	}
}

func TestNotificationStateOnlyMovesForward(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresNotificationRepository(newTestDB(t))

	n := &models.Notification{
		FromID:     "u1",
		AdressatID: "u2",
		Message:    "liked your post",
		Target:     models.NotificationTarget{TargetType: models.TargetPost, Options: models.TargetOptions{CommentID: "c1"}},
	}
	if err := repo.CreateNotification(ctx, n); err != nil {
		t.Fatal(err)
	}

	read := *n
	read.MarkRead()
	if err := repo.SaveState(ctx, &read); err != nil {
		t.Fatal(err)
	}

	// n is a stale copy with both flags false
	if err := repo.SaveState(ctx, n); err != nil {
		t.Fatal(err)
	}

	got, err := repo.GetNotificationByID(ctx, n.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.State() != models.StateRead {
		t.Fatalf("state = %v, want read", got.State())
	}
	if got.Target.Options.CommentID != "c1" {
		t.Fatalf("target not round-tripped: %+v", got.Target)
	}
}

func TestNotificationBulkOperations(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresNotificationRepository(newTestDB(t))

	for i := 0; i < 3; i++ {
		if err := repo.CreateNotification(ctx, &models.Notification{FromID: "u1", AdressatID: "u2"}); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.CreateNotification(ctx, &models.Notification{FromID: "u2", AdressatID: "u3"}); err != nil {
		t.Fatal(err)
	}

	unseen, err := repo.GetUnseen(ctx, "u2")
	if err != nil || len(unseen) != 3 {
		t.Fatalf("unseen = %d, %v; want 3", len(unseen), err)
	}

	if n, err := repo.MarkAllAsSeen(ctx, "u2"); err != nil || n != 3 {
		t.Fatalf("MarkAllAsSeen = %d, %v", n, err)
	}
	unseen, _ = repo.GetUnseen(ctx, "u2")
	if len(unseen) != 0 {
		t.Fatalf("unseen after mark = %d", len(unseen))
	}

	if n, err := repo.MarkAllAsRead(ctx, "u2"); err != nil || n != 3 {
		t.Fatalf("MarkAllAsRead = %d, %v", n, err)
	}

	if n, err := repo.DeleteAllByAdressatID(ctx, "u2"); err != nil || n != 3 {
		t.Fatalf("DeleteAllByAdressatID = %d, %v", n, err)
	}
	others, _ := repo.GetByAdressatID(ctx, "u3")
	if len(others) != 1 {
		t.Fatalf("u3 notifications = %d, want 1", len(others))
	}

	if err := repo.DeleteNotification(ctx, 9999); !errors.Is(err, ErrNotificationNotFound) {
		t.Fatalf("delete unknown err = %v", err)
	}
}

func TestUserSaveAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgresUserRepository(newTestDB(t))

	if err := repo.SaveUser(ctx, &models.User{ID: "u1", UserName: "ann", Role: models.RoleOrdinary}); err != nil {
		t.Fatal(err)
	}
	if err := repo.SaveUser(ctx, &models.User{ID: "u1", UserName: "ann b", Role: models.RoleOrdinary}); err != nil {
		t.Fatal(err)
	}

	u, err := repo.GetUserByID(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if u.UserName != "ann b" {
		t.Fatalf("user name = %q, want refreshed value", u.UserName)
	}

	users, err := repo.GetUsersByIDs(ctx, []string{"u1", "missing"})
	if err != nil || len(users) != 1 {
		t.Fatalf("GetUsersByIDs = %d, %v", len(users), err)
	}

	if _, err := repo.GetUserByID(ctx, "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing user err = %v", err)
	}
}
