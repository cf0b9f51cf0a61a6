package services

import (
	"context"
	"log"

	"github.com/JohnnyRuss/academind-back/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReconcileReport counts the repairs made by one reconciliation run
type ReconcileReport struct {
	OrphanCommentsDeleted int64 `json:"orphanCommentsDeleted"`
	SharesHidden          int64 `json:"sharesHidden"`
	BookmarksFlagged      int64 `json:"bookmarksFlagged"`
}

// ReconcileService repairs references left behind by an interrupted delete
// cascade: comments of missing posts, live shares of missing originals and
// live bookmarks of missing posts.
type ReconcileService struct {
	posts     repositories.PostRepository
	comments  repositories.CommentRepository
	bookmarks repositories.BookmarkRepository
}

func NewReconcileService(posts repositories.PostRepository, comments repositories.CommentRepository, bookmarks repositories.BookmarkRepository) *ReconcileService {
	return &ReconcileService{posts: posts, comments: comments, bookmarks: bookmarks}
}

func (s *ReconcileService) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{}

	commented, err := s.comments.GetCommentedPostIDs(ctx)
	if err != nil {
		return nil, translate(err, "comment")
	}
	missing, err := s.missingPosts(ctx, commented)
	if err != nil {
		return nil, err
	}
	if report.OrphanCommentsDeleted, err = s.comments.DeleteCommentsByPostIDs(ctx, missing); err != nil {
		return nil, translate(err, "comment")
	}

	authentics, err := s.posts.GetLiveShareAuthentics(ctx)
	if err != nil {
		return nil, translate(err, "post")
	}
	if missing, err = s.missingPosts(ctx, authentics); err != nil {
		return nil, err
	}
	if report.SharesHidden, err = s.posts.HideShares(ctx, missing); err != nil {
		return nil, translate(err, "post")
	}

	bookmarked, err := s.bookmarks.GetLivePostIDs(ctx)
	if err != nil {
		return nil, translate(err, "bookmark")
	}
	var stale []string
	ids := make([]primitive.ObjectID, 0, len(bookmarked))
	for _, raw := range bookmarked {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			stale = append(stale, raw)
			continue
		}
		ids = append(ids, id)
	}
	if missing, err = s.missingPosts(ctx, ids); err != nil {
		return nil, err
	}
	for _, id := range missing {
		stale = append(stale, id.Hex())
	}
	if report.BookmarksFlagged, err = s.bookmarks.MarkDeletedByPostIDs(ctx, stale); err != nil {
		return nil, translate(err, "bookmark")
	}

	if report.OrphanCommentsDeleted+report.SharesHidden+report.BookmarksFlagged > 0 {
		log.Printf("reconcile: removed %d orphan comments, hid %d shares, flagged %d bookmarks",
			report.OrphanCommentsDeleted, report.SharesHidden, report.BookmarksFlagged)
	}
	return report, nil
}

func (s *ReconcileService) missingPosts(ctx context.Context, ids []primitive.ObjectID) ([]primitive.ObjectID, error) {
	existing, err := s.posts.ExistingPostIDs(ctx, ids)
	if err != nil {
		return nil, translate(err, "post")
	}
	var missing []primitive.ObjectID
	for _, id := range ids {
		if !existing[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
