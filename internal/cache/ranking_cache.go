// Package cache keeps short-lived copies of ranking results.
package cache

import (
	"context"

	"github.com/JohnnyRuss/academind-back/internal/models"
)

// RankingCache caches the blog post count and the top publishers ranking.
// A miss is never an error; callers fall back to the store.
type RankingCache interface {
	GetBlogPostCount(ctx context.Context) (int64, bool)
	SetBlogPostCount(ctx context.Context, n int64)
	GetTopPublishers(ctx context.Context, limit int) ([]models.PublisherRank, bool)
	SetTopPublishers(ctx context.Context, limit int, ranks []models.PublisherRank)
	// Invalidate drops everything, called after blog posts or their likes change
	Invalidate(ctx context.Context)
}

// Noop is used when no Redis address is configured
type Noop struct{}

func (Noop) GetBlogPostCount(context.Context) (int64, bool) { return 0, false }

func (Noop) SetBlogPostCount(context.Context, int64) {}

func (Noop) GetTopPublishers(context.Context, int) ([]models.PublisherRank, bool) {
	return nil, false
}

func (Noop) SetTopPublishers(context.Context, int, []models.PublisherRank) {}

func (Noop) Invalidate(context.Context) {}
