package services

import (
	"context"

	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/JohnnyRuss/academind-back/internal/repositories"
)

// authorSummaries loads the compact profiles of ids. Unknown users get a
// summary carrying only their id.
func authorSummaries(ctx context.Context, users repositories.UserRepository, ids []string) (map[string]models.UserCompact, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	found, err := users.GetUsersByIDs(ctx, unique)
	if err != nil {
		return nil, translate(err, "user")
	}
	summaries := make(map[string]models.UserCompact, len(unique))
	for _, id := range unique {
		summaries[id] = models.UserCompact{ID: id}
	}
	for i := range found {
		summaries[found[i].ID] = found[i].ToCompact()
	}
	return summaries, nil
}

func enrichPosts(ctx context.Context, users repositories.UserRepository, posts []models.Post) ([]models.EnrichedPost, error) {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.Author)
	}
	summaries, err := authorSummaries(ctx, users, ids)
	if err != nil {
		return nil, err
	}
	enriched := make([]models.EnrichedPost, 0, len(posts))
	for _, p := range posts {
		enriched = append(enriched, models.EnrichedPost{Post: normalizePost(p), Author: summaries[p.Author]})
	}
	return enriched, nil
}

func enrichPost(ctx context.Context, users repositories.UserRepository, post *models.Post) (*models.EnrichedPost, error) {
	enriched, err := enrichPosts(ctx, users, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &enriched[0], nil
}

// normalizePost gives nil lists their empty JSON form
func normalizePost(p models.Post) models.Post {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Media == nil {
		p.Media = []string{}
	}
	if p.Reactions == nil {
		p.Reactions = []models.Reaction{}
	}
	return p
}
