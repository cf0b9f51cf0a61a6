package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostType discriminates the post variants
type PostType string

const (
	PostTypePost PostType = "post"
	PostTypeBlog PostType = "blogPost"
)

func (t PostType) Valid() bool {
	return t == PostTypePost || t == PostTypeBlog
}

// BlogContent is the payload only blog posts carry
type BlogContent struct {
	Title      string   `json:"title" bson:"title"`
	Article    string   `json:"article" bson:"article"`
	Categories []string `json:"categories" bson:"categories"`
}

// Post represents a post or blog post stored in MongoDB. Description is set
// for plain posts only, Blog for blog posts only.
type Post struct {
	ID             primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Type           PostType            `json:"type" bson:"type"`
	Author         string              `json:"author" bson:"author"`
	Description    string              `json:"description,omitempty" bson:"description,omitempty"`
	Blog           *BlogContent        `json:"blog,omitempty" bson:"blog,omitempty"`
	Tags           []string            `json:"tags" bson:"tags"`
	Media          []string            `json:"media" bson:"media"`
	Reactions      []Reaction          `json:"reactions" bson:"reactions"`
	LikesAmount    int                 `json:"likesAmount" bson:"likes_amount"`
	DislikesAmount int                 `json:"dislikesAmount" bson:"dislikes_amount"`
	Shared         bool                `json:"shared" bson:"shared"`
	Authentic      *primitive.ObjectID `json:"authentic,omitempty" bson:"authentic,omitempty"`
	Deleted        bool                `json:"deleted" bson:"deleted"`
	Version        int64               `json:"-" bson:"version"`
	CreatedAt      time.Time           `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time           `json:"updatedAt" bson:"updated_at"`
}

func (p *Post) IsBlog() bool {
	return p.Type == PostTypeBlog
}

// MediaEditable reports whether the media list may change. Shares never own media.
func (p *Post) MediaEditable() bool {
	return !p.Shared
}

// Categories returns the blog categories, nil for plain posts
func (p *Post) Categories() []string {
	if p.Blog == nil {
		return nil
	}
	return p.Blog.Categories
}

// SetReactions replaces the ledger and keeps the derived counters in sync
func (p *Post) SetReactions(reactions []Reaction) {
	p.Reactions = reactions
	p.LikesAmount, p.DislikesAmount = CountReactions(reactions)
}

func (p *Post) ReactionSummary() ReactionSummary {
	return summarize(p.Reactions)
}

// TargetType is the notification target a post maps to
func (p *Post) TargetType() TargetType {
	if p.IsBlog() {
		return TargetBlogPost
	}
	return TargetPost
}

// EnrichedPost is a post with its author summary joined in
type EnrichedPost struct {
	Post
	Author UserCompact `json:"author"`
}

// CreatePostRequest defines the form fields for creating a post. Tags and
// categories arrive as JSON encoded arrays.
type CreatePostRequest struct {
	Type        string `form:"type" validate:"required,oneof=post blogPost"`
	Description string `form:"description" validate:"omitempty,max=5000"`
	Title       string `form:"title" validate:"omitempty,max=300"`
	Article     string `form:"article"`
	Categories  string `form:"categories"`
	Tags        string `form:"tags"`
}

// SharePostRequest defines the request body for sharing a post
type SharePostRequest struct {
	Description string   `json:"description" form:"description" validate:"omitempty,max=5000"`
	Tags        []string `json:"tags" form:"tags"`
}

// ReactRequest defines the request body for every react endpoint
type ReactRequest struct {
	Reaction string `json:"reaction" validate:"required,oneof=like dislike"`
}
