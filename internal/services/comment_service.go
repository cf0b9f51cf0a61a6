package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JohnnyRuss/academind-back/internal/apperror"
	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/JohnnyRuss/academind-back/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CommentService struct {
	comments repositories.CommentRepository
	posts    repositories.PostRepository
	notifier Notifier
	now      func() time.Time
}

func NewCommentService(comments repositories.CommentRepository, posts repositories.PostRepository, notifier Notifier) *CommentService {
	return &CommentService{comments: comments, posts: posts, notifier: notifier, now: time.Now}
}

func (s *CommentService) CreateComment(ctx context.Context, postID primitive.ObjectID, author string, req models.CreateCommentRequest) (*models.Comment, error) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, translate(err, "post")
	}
	if post.Deleted {
		return nil, apperror.NotFound("post not found")
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperror.Validation("comment text is required")
	}

	comment := &models.Comment{
		Post:      postID,
		Author:    author,
		Text:      text,
		Tags:      cleanList(req.Tags),
		Reactions: []models.Reaction{},
	}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, translate(err, "comment")
	}

	target := models.NotificationTarget{TargetType: post.TargetType(), Options: models.TargetOptions{CommentID: comment.ID.Hex()}}
	send(ctx, s.notifier, author, post.Author, "commented on your post", postLocation(post), target)
	for _, tagged := range comment.Tags {
		send(ctx, s.notifier, author, tagged, "mentioned you in a comment", postLocation(post), target)
	}
	return comment, nil
}

// GetPostComments lists the comments of an existing post, newest first
func (s *CommentService) GetPostComments(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	if _, err := s.posts.GetPostByID(ctx, postID); err != nil {
		return nil, translate(err, "post")
	}
	comments, err := s.comments.GetCommentsByPostID(ctx, postID)
	return comments, translate(err, "comment")
}

func (s *CommentService) UpdateComment(ctx context.Context, commentID primitive.ObjectID, author string, req models.UpdateCommentRequest) (*models.Comment, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperror.Validation("comment text is required")
	}
	return s.mutate(ctx, commentID, func(c *models.Comment) error {
		if c.Author != author {
			return apperror.Forbidden("you are not the author of this comment")
		}
		c.Text = text
		if req.Tags != nil {
			c.Tags = cleanList(req.Tags)
		}
		return nil
	})
}

func (s *CommentService) DeleteComment(ctx context.Context, commentID primitive.ObjectID, requester string) error {
	comment, err := s.comments.GetCommentByID(ctx, commentID)
	if err != nil {
		return translate(err, "comment")
	}
	if comment.Author != requester {
		return apperror.Forbidden("you are not the author of this comment")
	}
	return translate(s.comments.DeleteComment(ctx, commentID), "comment")
}

func (s *CommentService) ReactOnComment(ctx context.Context, commentID primitive.ObjectID, user string, kind models.ReactionKind) (*models.ReactionSummary, error) {
	if !kind.Valid() {
		return nil, apperror.Validation("invalid reaction %q", kind)
	}
	var change models.ReactionChange
	comment, err := s.mutate(ctx, commentID, func(c *models.Comment) error {
		var reactions []models.Reaction
		reactions, change = models.ToggleReaction(c.Reactions, user, kind)
		c.SetReactions(reactions)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if change != models.ReactionRemoved {
		location, targetType := s.postTarget(ctx, comment.Post)
		send(ctx, s.notifier, user, comment.Author, fmt.Sprintf("reacted with %s on your comment", kind), location,
			models.NotificationTarget{TargetType: targetType, Options: models.TargetOptions{CommentID: comment.ID.Hex()}})
	}
	summary := comment.ReactionSummary()
	return &summary, nil
}

// AddReply appends a reply. The adressat defaults to the comment author.
func (s *CommentService) AddReply(ctx context.Context, commentID primitive.ObjectID, author string, req models.CreateReplyRequest) (*models.Reply, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperror.Validation("reply text is required")
	}
	reply := models.Reply{
		ID:        primitive.NewObjectID(),
		Author:    author,
		Adressat:  strings.TrimSpace(req.Adressat),
		Text:      text,
		Tags:      cleanList(req.Tags),
		Reactions: []models.Reaction{},
		CreatedAt: s.now(),
	}

	comment, err := s.mutate(ctx, commentID, func(c *models.Comment) error {
		if reply.Adressat == "" {
			reply.Adressat = c.Author
		}
		c.Replies = append(c.Replies, reply)
		return nil
	})
	if err != nil {
		return nil, err
	}

	location, targetType := s.postTarget(ctx, comment.Post)
	target := models.NotificationTarget{TargetType: targetType, Options: models.TargetOptions{CommentID: comment.ID.Hex(), ReplyID: reply.ID.Hex()}}
	send(ctx, s.notifier, author, reply.Adressat, "replied to your comment", location, target)
	for _, tagged := range reply.Tags {
		if tagged != reply.Adressat {
			send(ctx, s.notifier, author, tagged, "mentioned you in a reply", location, target)
		}
	}
	return &reply, nil
}

func (s *CommentService) UpdateReply(ctx context.Context, commentID, replyID primitive.ObjectID, author string, req models.UpdateCommentRequest) (*models.Reply, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, apperror.Validation("reply text is required")
	}
	var updated models.Reply
	_, err := s.mutate(ctx, commentID, func(c *models.Comment) error {
		r := c.Reply(replyID)
		if r == nil {
			return apperror.NotFound("reply not found")
		}
		if r.Author != author {
			return apperror.Forbidden("you are not the author of this reply")
		}
		r.Text = text
		if req.Tags != nil {
			r.Tags = cleanList(req.Tags)
		}
		updated = *r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *CommentService) DeleteReply(ctx context.Context, commentID, replyID primitive.ObjectID, requester string) error {
	_, err := s.mutate(ctx, commentID, func(c *models.Comment) error {
		r := c.Reply(replyID)
		if r == nil {
			return apperror.NotFound("reply not found")
		}
		if r.Author != requester {
			return apperror.Forbidden("you are not the author of this reply")
		}
		c.RemoveReply(replyID)
		return nil
	})
	return err
}

func (s *CommentService) ReactOnReply(ctx context.Context, commentID, replyID primitive.ObjectID, user string, kind models.ReactionKind) (*models.ReactionSummary, error) {
	if !kind.Valid() {
		return nil, apperror.Validation("invalid reaction %q", kind)
	}
	var (
		change  models.ReactionChange
		summary models.ReactionSummary
		author  string
	)
	comment, err := s.mutate(ctx, commentID, func(c *models.Comment) error {
		r := c.Reply(replyID)
		if r == nil {
			return apperror.NotFound("reply not found")
		}
		var reactions []models.Reaction
		reactions, change = models.ToggleReaction(r.Reactions, user, kind)
		r.SetReactions(reactions)
		summary = r.ReactionSummary()
		author = r.Author
		return nil
	})
	if err != nil {
		return nil, err
	}

	if change != models.ReactionRemoved {
		location, targetType := s.postTarget(ctx, comment.Post)
		send(ctx, s.notifier, user, author, fmt.Sprintf("reacted with %s on your reply", kind), location,
			models.NotificationTarget{TargetType: targetType, Options: models.TargetOptions{CommentID: comment.ID.Hex(), ReplyID: replyID.Hex()}})
	}
	return &summary, nil
}

// mutate applies fn to a fresh copy of the comment and stores it with a
// compare-and-set, retrying on version conflicts. Errors returned by fn
// abort without retry.
func (s *CommentService) mutate(ctx context.Context, commentID primitive.ObjectID, fn func(*models.Comment) error) (*models.Comment, error) {
	for attempt := 0; attempt < maxCASRetries; attempt++ {
		comment, err := s.comments.GetCommentByID(ctx, commentID)
		if err != nil {
			return nil, translate(err, "comment")
		}
		if err := fn(comment); err != nil {
			return nil, err
		}

		err = s.comments.SaveComment(ctx, comment)
		if errors.Is(err, repositories.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, translate(err, "comment")
		}
		return comment, nil
	}
	return nil, conflictError("comment")
}

// postTarget resolves the notification location of a comment's post. A post
// that vanished meanwhile falls back to a plain post target.
func (s *CommentService) postTarget(ctx context.Context, postID primitive.ObjectID) (string, models.TargetType) {
	post, err := s.posts.GetPostByID(ctx, postID)
	if err != nil {
		return "/posts/" + postID.Hex(), models.TargetPost
	}
	return postLocation(post), post.TargetType()
}
