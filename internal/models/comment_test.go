package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCommentReplyLookupAndRemoval(t *testing.T) {
	first, second := primitive.NewObjectID(), primitive.NewObjectID()
	c := &Comment{Replies: []Reply{{ID: first, Text: "one"}, {ID: second, Text: "two"}}}

	r := c.Reply(second)
	if r == nil || r.Text != "two" {
		t.Fatalf("expected to find the second reply, got %+v", r)
	}
	r.SetReactions([]Reaction{{Author: "a", Kind: ReactionLike}})
	if c.Replies[1].LikesAmount != 1 {
		t.Fatalf("Reply must point into the comment's replies")
	}

	if !c.RemoveReply(first) || len(c.Replies) != 1 || c.Replies[0].ID != second {
		t.Fatalf("unexpected replies after removal: %+v", c.Replies)
	}
	if c.RemoveReply(first) {
		t.Fatalf("removing an unknown reply must report false")
	}
	if c.Reply(primitive.NewObjectID()) != nil {
		t.Fatalf("unknown id must return nil")
	}
}

func TestPostVariantHelpers(t *testing.T) {
	blog := &Post{Type: PostTypeBlog, Blog: &BlogContent{Categories: []string{"tech"}}}
	if !blog.IsBlog() || blog.TargetType() != TargetBlogPost || len(blog.Categories()) != 1 {
		t.Fatalf("unexpected blog helpers result")
	}
	share := &Post{Type: PostTypePost, Shared: true}
	if share.MediaEditable() || share.Categories() != nil || share.TargetType() != TargetPost {
		t.Fatalf("unexpected share helpers result")
	}
	if PostType("story").Valid() || !PostTypeBlog.Valid() {
		t.Fatalf("post type validation is wrong")
	}
}
