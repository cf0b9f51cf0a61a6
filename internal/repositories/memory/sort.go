package memory

import (
	"sort"

	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/JohnnyRuss/academind-back/internal/repositories"
)

func sortNewestFirst(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

func sortByLikes(posts []*models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].LikesAmount > posts[j].LikesAmount
	})
}

func sortByTotalLikes(totals []repositories.PublisherTotal) {
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].TotalLikes > totals[j].TotalLikes
	})
}

type related struct {
	post    *models.Post
	overlap int
}

func sortByOverlap(candidates []related) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].overlap > candidates[j].overlap
	})
}

// overlap counts the distinct values of have that appear in want
func overlap(have, want []string) int {
	wanted := make(map[string]bool, len(want))
	for _, w := range want {
		wanted[w] = true
	}
	n := 0
	for _, h := range have {
		if wanted[h] {
			n++
			delete(wanted, h)
		}
	}
	return n
}
