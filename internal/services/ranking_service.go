package services

import (
	"context"

	"github.com/JohnnyRuss/academind-back/internal/cache"
	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/JohnnyRuss/academind-back/internal/pagination"
	"github.com/JohnnyRuss/academind-back/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultTopPublishers = 3
	DefaultTopRatedPosts = 3
	DefaultRelatedPosts  = 5
)

// RankingService answers the read-only blog feed and ranking queries
type RankingService struct {
	posts repositories.PostRepository
	users repositories.UserRepository
	cache cache.RankingCache
}

func NewRankingService(posts repositories.PostRepository, users repositories.UserRepository, rankingCache cache.RankingCache) *RankingService {
	if rankingCache == nil {
		rankingCache = cache.Noop{}
	}
	return &RankingService{posts: posts, users: users, cache: rankingCache}
}

// GetBlogPosts returns one page of blog posts, newest first. The total is
// only computed when needCount is set.
func (s *RankingService) GetBlogPosts(ctx context.Context, page pagination.Page, needCount bool) (*models.BlogPage, error) {
	posts, err := s.posts.GetBlogPosts(ctx, page.Offset(), int64(page.Limit))
	if err != nil {
		return nil, translate(err, "post")
	}
	data, err := enrichPosts(ctx, s.users, posts)
	if err != nil {
		return nil, err
	}
	result := &models.BlogPage{Data: data}

	if needCount {
		total, ok := s.cache.GetBlogPostCount(ctx)
		if !ok {
			if total, err = s.posts.CountBlogPosts(ctx); err != nil {
				return nil, translate(err, "post")
			}
			s.cache.SetBlogPostCount(ctx, total)
		}
		result.TotalCount = &total
	}
	return result, nil
}

func (s *RankingService) GetTopRatedBlogPosts(ctx context.Context, limit int) ([]models.EnrichedPost, error) {
	posts, err := s.posts.GetTopRatedBlogPosts(ctx, int64(limit))
	if err != nil {
		return nil, translate(err, "post")
	}
	return enrichPosts(ctx, s.users, posts)
}

func (s *RankingService) GetTopRatedPublishers(ctx context.Context, limit int) ([]models.PublisherRank, error) {
	if ranks, ok := s.cache.GetTopPublishers(ctx, limit); ok {
		return ranks, nil
	}

	totals, err := s.posts.GetTopPublishers(ctx, int64(limit))
	if err != nil {
		return nil, translate(err, "post")
	}

	authors := make([]string, 0, len(totals))
	for _, t := range totals {
		authors = append(authors, t.Author)
	}
	summaries, err := authorSummaries(ctx, s.users, authors)
	if err != nil {
		return nil, err
	}

	ranks := make([]models.PublisherRank, 0, len(totals))
	for _, t := range totals {
		ranks = append(ranks, models.PublisherRank{Author: summaries[t.Author], PostCount: t.PostCount, TotalLikes: t.TotalLikes})
	}
	s.cache.SetTopPublishers(ctx, limit, ranks)
	return ranks, nil
}

// GetRelatedPosts lists blog posts sharing categories with the given post
func (s *RankingService) GetRelatedPosts(ctx context.Context, id primitive.ObjectID, limit int) ([]models.EnrichedPost, error) {
	source, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, translate(err, "post")
	}
	if len(source.Categories()) == 0 {
		return []models.EnrichedPost{}, nil
	}

	posts, err := s.posts.GetRelatedBlogPosts(ctx, source.ID, source.Categories(), int64(limit))
	if err != nil {
		return nil, translate(err, "post")
	}
	return enrichPosts(ctx, s.users, posts)
}
