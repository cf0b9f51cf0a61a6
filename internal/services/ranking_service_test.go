package services

import (
	"context"
	"testing"
	"time"

	"github.com/JohnnyRuss/academind-back/internal/apperror"
	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/JohnnyRuss/academind-back/internal/pagination"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTopRatedPublishers(t *testing.T) {
	f := newFixture(t)
	f.createBlog(t, "a10", 10)
	f.createBlog(t, "a30", 30)
	f.createBlog(t, "a5", 5)
	if err := f.store.Users().SaveUser(f.ctx, &models.User{ID: "a30", UserName: "thirty"}); err != nil {
		t.Fatal(err)
	}

	ranks, err := f.ranking.GetTopRatedPublishers(f.ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranks) != 2 || ranks[0].Author.ID != "a30" || ranks[1].Author.ID != "a10" {
		t.Fatalf("ranks = %+v", ranks)
	}
	if ranks[0].Author.UserName != "thirty" || ranks[0].TotalLikes != 30 || ranks[0].PostCount != 1 {
		t.Fatalf("top rank = %+v", ranks[0])
	}
}

func TestTopRatedPublishersGroupsAndKeepsTies(t *testing.T) {
	f := newFixture(t)
	f.createBlog(t, "x", 4)
	f.createBlog(t, "y", 7)
	f.createBlog(t, "x", 3)
	f.createBlog(t, "z", 1)
	f.createPost(t, "z", "plain posts do not count")

	ranks, err := f.ranking.GetTopRatedPublishers(f.ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranks) != 3 {
		t.Fatalf("ranks = %+v", ranks)
	}
	// x and y both total 7; x published first
	if ranks[0].Author.ID != "x" || ranks[0].PostCount != 2 || ranks[1].Author.ID != "y" || ranks[2].Author.ID != "z" {
		t.Fatalf("order = %+v", ranks)
	}
	if ranks[2].PostCount != 1 || ranks[2].TotalLikes != 1 {
		t.Fatalf("z = %+v", ranks[2])
	}
}

func TestRelatedPosts(t *testing.T) {
	f := newFixture(t)
	source := f.createBlog(t, "u1", 0, "tech", "ai")
	one := f.createBlog(t, "u2", 0, "tech", "cooking")
	none := f.createBlog(t, "u2", 0, "cooking")
	two := f.createBlog(t, "u3", 0, "ai", "tech")
	f.createPost(t, "u4", "plain post")

	related, err := f.ranking.GetRelatedPosts(f.ctx, source.ID, DefaultRelatedPosts)
	if err != nil {
		t.Fatal(err)
	}
	if len(related) != 2 || related[0].ID != two.ID || related[1].ID != one.ID {
		t.Fatalf("related = %v", ids(related))
	}
	for _, p := range related {
		if p.ID == source.ID || p.ID == none.ID {
			t.Fatalf("unexpected post %s in related", p.ID.Hex())
		}
	}

	limited, _ := f.ranking.GetRelatedPosts(f.ctx, source.ID, 1)
	if len(limited) != 1 || limited[0].ID != two.ID {
		t.Fatalf("limited = %v", ids(limited))
	}

	_, err = f.ranking.GetRelatedPosts(f.ctx, primitive.NewObjectID(), 5)
	wantKind(t, err, apperror.KindNotFound)
}

func TestBlogPostsPaging(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var created []primitive.ObjectID
	for i := 0; i < 5; i++ {
		at := base.Add(time.Duration(i) * time.Hour)
		f.store.SetClock(func() time.Time { return at })
		created = append(created, f.createBlog(t, "u1", i).ID)
	}

	page, _ := pagination.New(1, 2)
	first, err := f.ranking.GetBlogPosts(f.ctx, page, true)
	if err != nil {
		t.Fatal(err)
	}
	if first.TotalCount == nil || *first.TotalCount != 5 {
		t.Fatalf("total = %v", first.TotalCount)
	}
	if len(first.Data) != 2 || first.Data[0].ID != created[4] || first.Data[1].ID != created[3] {
		t.Fatalf("first page = %v", ids(first.Data))
	}

	page, _ = pagination.New(3, 2)
	last, err := f.ranking.GetBlogPosts(f.ctx, page, false)
	if err != nil {
		t.Fatal(err)
	}
	if last.TotalCount != nil {
		t.Fatal("count computed although not requested")
	}
	if len(last.Data) != 1 || last.Data[0].ID != created[0] {
		t.Fatalf("last page = %v", ids(last.Data))
	}

	top, _ := f.ranking.GetTopRatedBlogPosts(f.ctx, 2)
	if len(top) != 2 || top[0].LikesAmount != 4 || top[1].LikesAmount != 3 {
		t.Fatalf("top rated = %v", ids(top))
	}
}

type countingCache struct {
	count        int64
	hasCount     bool
	invalidated  int
	publishersOK bool
}

func (c *countingCache) GetBlogPostCount(context.Context) (int64, bool) { return c.count, c.hasCount }
func (c *countingCache) SetBlogPostCount(_ context.Context, n int64)  { c.count, c.hasCount = n, true }
func (c *countingCache) GetTopPublishers(context.Context, int) ([]models.PublisherRank, bool) {
	return nil, false
}
func (c *countingCache) SetTopPublishers(context.Context, int, []models.PublisherRank) {
	c.publishersOK = true
}
func (c *countingCache) Invalidate(context.Context) { c.hasCount = false; c.invalidated++ }

func TestBlogCountUsesCache(t *testing.T) {
	f := newFixture(t)
	rc := &countingCache{count: 42, hasCount: true}
	svc := NewRankingService(f.store.Posts(), f.store.Users(), rc)

	page, _ := pagination.New(1, 10)
	got, err := svc.GetBlogPosts(f.ctx, page, true)
	if err != nil {
		t.Fatal(err)
	}
	if *got.TotalCount != 42 {
		t.Fatalf("total = %d, want cached 42", *got.TotalCount)
	}

	posts := NewPostService(f.store.Posts(), f.store.Bookmarks(), f.store.Users(), nopMedia{}, nil, rc)
	if _, err := posts.CreatePost(f.ctx, "u1", CreatePostInput{Type: models.PostTypeBlog, Title: "t", Article: "a"}); err != nil {
		t.Fatal(err)
	}
	if rc.invalidated != 1 {
		t.Fatalf("cache invalidated %d times, want 1", rc.invalidated)
	}
	got, _ = svc.GetBlogPosts(f.ctx, page, true)
	if *got.TotalCount != 1 {
		t.Fatalf("total after invalidation = %d, want 1", *got.TotalCount)
	}
}

func ids(posts []models.EnrichedPost) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID.Hex())
	}
	return out
}
