package models

// PublisherRank is one row of the top publishers ranking
type PublisherRank struct {
	Author     UserCompact `json:"author"`
	PostCount  int         `json:"postCount"`
	TotalLikes int         `json:"totalLikes"`
}

// BlogPage is a page of the blog feed. TotalCount is only filled when the
// caller asked for it.
type BlogPage struct {
	Data       []EnrichedPost `json:"data"`
	TotalCount *int64         `json:"totalCount,omitempty"`
}
