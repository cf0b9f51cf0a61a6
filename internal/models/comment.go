package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a post together with its replies
type Comment struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Post           primitive.ObjectID `json:"post" bson:"post"`
	Author         string             `json:"author" bson:"author"`
	Text           string             `json:"text" bson:"text"`
	Tags           []string           `json:"tags" bson:"tags"`
	Reactions      []Reaction         `json:"reactions" bson:"reactions"`
	LikesAmount    int                `json:"likesAmount" bson:"likes_amount"`
	DislikesAmount int                `json:"dislikesAmount" bson:"dislikes_amount"`
	Replies        []Reply            `json:"replies" bson:"replies"`
	Version        int64              `json:"-" bson:"version"`
	CreatedAt      time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updated_at"`
}

// Reply is a single-level answer inside a comment
type Reply struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	Author         string             `json:"author" bson:"author"`
	Adressat       string             `json:"adressat" bson:"adressat"`
	Text           string             `json:"text" bson:"text"`
	Tags           []string           `json:"tags" bson:"tags"`
	Reactions      []Reaction         `json:"reactions" bson:"reactions"`
	LikesAmount    int                `json:"likesAmount" bson:"likes_amount"`
	DislikesAmount int                `json:"dislikesAmount" bson:"dislikes_amount"`
	CreatedAt      time.Time          `json:"createdAt" bson:"created_at"`
}

func (c *Comment) SetReactions(reactions []Reaction) {
	c.Reactions = reactions
	c.LikesAmount, c.DislikesAmount = CountReactions(reactions)
}

func (c *Comment) ReactionSummary() ReactionSummary {
	return summarize(c.Reactions)
}

// Reply returns a pointer into Replies, nil when the id is unknown
func (c *Comment) Reply(id primitive.ObjectID) *Reply {
	for i := range c.Replies {
		if c.Replies[i].ID == id {
			return &c.Replies[i]
		}
	}
	return nil
}

// RemoveReply drops the reply with the given id and reports whether it existed
func (c *Comment) RemoveReply(id primitive.ObjectID) bool {
	for i := range c.Replies {
		if c.Replies[i].ID == id {
			c.Replies = append(c.Replies[:i:i], c.Replies[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Reply) SetReactions(reactions []Reaction) {
	r.Reactions = reactions
	r.LikesAmount, r.DislikesAmount = CountReactions(reactions)
}

func (r *Reply) ReactionSummary() ReactionSummary {
	return summarize(r.Reactions)
}

// CreateCommentRequest defines the request body for creating a comment
type CreateCommentRequest struct {
	Text string   `json:"text" validate:"required,min=1,max=2000"`
	Tags []string `json:"tags"`
}

// CreateReplyRequest defines the request body for replying to a comment.
// Adressat defaults to the comment author.
type CreateReplyRequest struct {
	Adressat string   `json:"adressat"`
	Text     string   `json:"text" validate:"required,min=1,max=2000"`
	Tags     []string `json:"tags"`
}

// UpdateCommentRequest defines the request body for editing a comment or reply
type UpdateCommentRequest struct {
	Text string   `json:"text" validate:"required,min=1,max=2000"`
	Tags []string `json:"tags"`
}
