package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JohnnyRuss/academind-back/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockMongo(t *testing.T) *mtest.T {
	t.Helper()
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func postsNS(mt *mtest.T) string {
	return mt.DB.Name() + ".posts"
}

// lastCommand returns the most recent command the client sent
func lastCommand(mt *mtest.T) bson.Raw {
	mt.Helper()
	var cmd bson.Raw
	for e := mt.GetStartedEvent(); e != nil; e = mt.GetStartedEvent() {
		cmd = e.Command
	}
	if cmd == nil {
		mt.Fatal("no command was sent")
	}
	return cmd
}

func stageNames(mt *mtest.T, cmd bson.Raw) []string {
	mt.Helper()
	stages, err := cmd.Lookup("pipeline").Array().Values()
	if err != nil {
		mt.Fatalf("pipeline: %v", err)
	}
	names := make([]string, 0, len(stages))
	for _, s := range stages {
		elems, err := s.Document().Elements()
		if err != nil || len(elems) != 1 {
			mt.Fatalf("stage %v is not a single-operator document", s)
		}
		names = append(names, elems[0].Key())
	}
	return names
}

func TestMongoUpdateReactionsCompareAndSet(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("stale version is a conflict", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		post := &models.Post{ID: primitive.NewObjectID(), Version: 3}
		post.SetReactions([]models.Reaction{{Author: "u1", Kind: models.ReactionLike}})

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))
		err := repo.UpdateReactions(context.Background(), post)
		if !errors.Is(err, ErrVersionConflict) {
			mt.Fatalf("expected ErrVersionConflict, got %v", err)
		}
		if post.Version != 3 {
			mt.Errorf("version moved to %d on a failed write", post.Version)
		}

		filter := lastCommand(mt).Lookup("updates", "0", "q")
		if id, ok := filter.Document().Lookup("_id").ObjectIDOK(); !ok || id != post.ID {
			mt.Errorf("filter _id = %v", filter)
		}
		if v, ok := filter.Document().Lookup("version").Int64OK(); !ok || v != 3 {
			mt.Errorf("filter does not pin version 3: %v", filter)
		}
	})

	mt.Run("matched write bumps version", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		post := &models.Post{ID: primitive.NewObjectID(), Version: 7}

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		if err := repo.UpdateReactions(context.Background(), post); err != nil {
			mt.Fatalf("update: %v", err)
		}
		if post.Version != 8 {
			mt.Errorf("version = %d, want 8", post.Version)
		}

		update := lastCommand(mt).Lookup("updates", "0", "u")
		if inc, ok := update.Document().Lookup("$inc", "version").AsInt64OK(); !ok || inc != 1 {
			mt.Errorf("update does not increment version: %v", update)
		}
	})
}

func TestMongoSaveCommentCompareAndSet(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("stale version is a conflict", func(mt *mtest.T) {
		repo := NewMongoCommentRepository(mt.DB)
		comment := &models.Comment{ID: primitive.NewObjectID(), Text: "hi", Version: 2}

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))
		err := repo.SaveComment(context.Background(), comment)
		if !errors.Is(err, ErrVersionConflict) {
			mt.Fatalf("expected ErrVersionConflict, got %v", err)
		}
		if comment.Version != 2 {
			mt.Errorf("version moved to %d on a failed write", comment.Version)
		}

		cmd := lastCommand(mt)
		if v, ok := cmd.Lookup("updates", "0", "q", "version").Int64OK(); !ok || v != 2 {
			mt.Errorf("filter does not pin version 2: %v", cmd.Lookup("updates", "0", "q"))
		}
		if v, ok := cmd.Lookup("updates", "0", "u", "version").Int64OK(); !ok || v != 3 {
			mt.Errorf("replacement carries version %v, want 3", cmd.Lookup("updates", "0", "u", "version"))
		}
	})

	mt.Run("matched write bumps version", func(mt *mtest.T) {
		repo := NewMongoCommentRepository(mt.DB)
		comment := &models.Comment{ID: primitive.NewObjectID(), Version: 0}

		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		if err := repo.SaveComment(context.Background(), comment); err != nil {
			mt.Fatalf("save: %v", err)
		}
		if comment.Version != 1 || comment.UpdatedAt.IsZero() {
			mt.Errorf("comment = %+v", comment)
		}
	})
}

func TestMongoGetPostByIDNotFound(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("empty cursor", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, postsNS(mt), mtest.FirstBatch))

		_, err := repo.GetPostByID(context.Background(), primitive.NewObjectID())
		if !errors.Is(err, ErrPostNotFound) {
			mt.Fatalf("expected ErrPostNotFound, got %v", err)
		}
	})
}

func TestMongoDeletePostCascade(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("reports counts", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 4}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}, bson.E{Key: "nModified", Value: 2}),
			mtest.CreateSuccessResponse(),
		)

		res, err := repo.DeletePostCascade(context.Background(), primitive.NewObjectID())
		if err != nil {
			mt.Fatalf("cascade: %v", err)
		}
		if res.CommentsDeleted != 4 || res.SharesHidden != 2 {
			mt.Errorf("result = %+v", res)
		}
	})

	mt.Run("missing post", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
			mtest.CreateSuccessResponse(),
		)

		_, err := repo.DeletePostCascade(context.Background(), primitive.NewObjectID())
		if !errors.Is(err, ErrPostNotFound) {
			mt.Fatalf("expected ErrPostNotFound, got %v", err)
		}
	})
}

func TestMongoGetTopPublishers(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("decodes totals", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, postsNS(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "x"}, {Key: "post_count", Value: 2}, {Key: "total_likes", Value: 7}},
			bson.D{{Key: "_id", Value: "y"}, {Key: "post_count", Value: 1}, {Key: "total_likes", Value: 7}},
		))

		totals, err := repo.GetTopPublishers(context.Background(), 5)
		if err != nil {
			mt.Fatalf("aggregate: %v", err)
		}
		want := []PublisherTotal{{Author: "x", PostCount: 2, TotalLikes: 7}, {Author: "y", PostCount: 1, TotalLikes: 7}}
		if len(totals) != len(want) {
			mt.Fatalf("totals = %+v", totals)
		}
		for i := range want {
			if totals[i] != want[i] {
				mt.Errorf("totals[%d] = %+v, want %+v", i, totals[i], want[i])
			}
		}

		cmd := lastCommand(mt)
		got := stageNames(mt, cmd)
		stages := []string{"$match", "$group", "$sort", "$limit"}
		if len(got) != len(stages) {
			mt.Fatalf("stages = %v", got)
		}
		for i := range stages {
			if got[i] != stages[i] {
				mt.Errorf("stage %d = %s, want %s", i, got[i], stages[i])
			}
		}
		sortKeys, _ := cmd.Lookup("pipeline", "2", "$sort").Document().Elements()
		if len(sortKeys) != 2 || sortKeys[0].Key() != "total_likes" || sortKeys[1].Key() != "first_post" {
			mt.Errorf("sort = %v", cmd.Lookup("pipeline", "2", "$sort"))
		}
	})
}

func TestMongoGetRelatedBlogPosts(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("no categories skips the query", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		posts, err := repo.GetRelatedBlogPosts(context.Background(), primitive.NewObjectID(), nil, 3)
		if err != nil || len(posts) != 0 {
			mt.Fatalf("posts = %v, err = %v", posts, err)
		}
		if e := mt.GetStartedEvent(); e != nil {
			mt.Errorf("unexpected command %s", e.CommandName)
		}
	})

	mt.Run("ranks by category overlap", func(mt *mtest.T) {
		repo := NewMongoPostRepository(mt.DB)
		source := primitive.NewObjectID()
		hit := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, postsNS(mt), mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: hit},
				{Key: "type", Value: string(models.PostTypeBlog)},
				{Key: "author", Value: "u2"},
				{Key: "blog", Value: bson.D{{Key: "title", Value: "t"}, {Key: "categories", Value: bson.A{"go"}}}},
				{Key: "created_at", Value: time.Now()},
			},
		))

		posts, err := repo.GetRelatedBlogPosts(context.Background(), source, []string{"go", "db"}, 3)
		if err != nil {
			mt.Fatalf("aggregate: %v", err)
		}
		if len(posts) != 1 || posts[0].ID != hit || posts[0].Blog == nil || posts[0].Blog.Categories[0] != "go" {
			mt.Fatalf("posts = %+v", posts)
		}

		cmd := lastCommand(mt)
		if ne, ok := cmd.Lookup("pipeline", "0", "$match", "_id", "$ne").ObjectIDOK(); !ok || ne != source {
			mt.Errorf("source post is not excluded: %v", cmd.Lookup("pipeline", "0"))
		}
		if _, err := cmd.LookupErr("pipeline", "1", "$addFields", "overlap", "$size", "$setIntersection"); err != nil {
			mt.Errorf("overlap is not computed by the server: %v", err)
		}
	})
}
