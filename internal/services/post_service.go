package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/JohnnyRuss/academind-back/internal/apperror"
	"github.com/JohnnyRuss/academind-back/internal/cache"
	"github.com/JohnnyRuss/academind-back/internal/media"
	"github.com/JohnnyRuss/academind-back/internal/models"
	"github.com/JohnnyRuss/academind-back/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaResolver stores uploads and removes stored objects by reference
type MediaResolver interface {
	StoreMedia(ctx context.Context, uploads []media.Upload) ([]string, error)
	DeleteMedia(ctx context.Context, refs []string) []apperror.Warning
}

// CreatePostInput carries a parsed create request
type CreatePostInput struct {
	Type        models.PostType
	Description string
	Title       string
	Article     string
	Categories  []string
	Tags        []string
	Uploads     []media.Upload
}

// UpdatePostInput carries a parsed update request. Nil fields are left
// untouched. Media lists the existing references to keep; Uploads are
// appended after them.
type UpdatePostInput struct {
	Description *string
	Title       *string
	Article     *string
	Categories  []string
	Tags        []string
	Media       []string
	Uploads     []media.Upload
}

// PostUpdate is an updated post plus the media removals that failed
type PostUpdate struct {
	models.EnrichedPost
	Warnings []apperror.Warning `json:"warnings,omitempty"`
}

// PostDeletion reports a completed delete cascade
type PostDeletion struct {
	Deleted          string             `json:"deleted"`
	CommentsDeleted  int64              `json:"commentsDeleted"`
	SharesHidden     int64              `json:"sharesHidden"`
	BookmarksFlagged int64              `json:"bookmarksFlagged"`
	Warnings         []apperror.Warning `json:"warnings,omitempty"`
}

type PostService struct {
	posts     repositories.PostRepository
	bookmarks repositories.BookmarkRepository
	users     repositories.UserRepository
	media     MediaResolver
	notifier  Notifier
	ranking   cache.RankingCache
}

func NewPostService(
	posts repositories.PostRepository,
	bookmarks repositories.BookmarkRepository,
	users repositories.UserRepository,
	mediaResolver MediaResolver,
	notifier Notifier,
	ranking cache.RankingCache,
) *PostService {
	if ranking == nil {
		ranking = cache.Noop{}
	}
	return &PostService{
		posts:     posts,
		bookmarks: bookmarks,
		users:     users,
		media:     mediaResolver,
		notifier:  notifier,
		ranking:   ranking,
	}
}

func (s *PostService) CreatePost(ctx context.Context, author string, in CreatePostInput) (*models.EnrichedPost, error) {
	post := &models.Post{
		Type:      in.Type,
		Author:    author,
		Tags:      cleanList(in.Tags),
		Reactions: []models.Reaction{},
	}

	switch in.Type {
	case models.PostTypePost:
		post.Description = strings.TrimSpace(in.Description)
		if post.Description == "" && len(in.Uploads) == 0 {
			return nil, apperror.Validation("post needs a description or media")
		}
	case models.PostTypeBlog:
		title, article := strings.TrimSpace(in.Title), strings.TrimSpace(in.Article)
		if title == "" || article == "" {
			return nil, apperror.Validation("blog post needs a title and an article")
		}
		post.Blog = &models.BlogContent{Title: title, Article: article, Categories: cleanList(in.Categories)}
	default:
		return nil, apperror.Validation("invalid post type %q", in.Type)
	}

	refs, err := s.media.StoreMedia(ctx, in.Uploads)
	if err != nil {
		return nil, err
	}
	post.Media = refs

	if err := s.posts.CreatePost(ctx, post); err != nil {
		for _, w := range s.media.DeleteMedia(ctx, refs) {
			log.Printf("cleanup after failed create: %s", w)
		}
		return nil, translate(err, "post")
	}

	if post.IsBlog() {
		s.ranking.Invalidate(ctx)
	}
	for _, tagged := range post.Tags {
		send(ctx, s.notifier, author, tagged, "tagged you in a post", postLocation(post), models.NotificationTarget{TargetType: post.TargetType()})
	}

	return enrichPost(ctx, s.users, post)
}

func (s *PostService) GetPost(ctx context.Context, id primitive.ObjectID) (*models.EnrichedPost, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, translate(err, "post")
	}
	return enrichPost(ctx, s.users, post)
}

func (s *PostService) UpdatePost(ctx context.Context, id primitive.ObjectID, author string, in UpdatePostInput) (*PostUpdate, error) {
	post, err := s.livePost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.Author != author {
		return nil, apperror.Forbidden("you are not the author of this post")
	}

	if post.IsBlog() {
		blog := models.BlogContent{}
		if post.Blog != nil {
			blog = *post.Blog
		}
		if in.Title != nil {
			blog.Title = strings.TrimSpace(*in.Title)
		}
		if in.Article != nil {
			blog.Article = strings.TrimSpace(*in.Article)
		}
		if in.Categories != nil {
			blog.Categories = cleanList(in.Categories)
		}
		if blog.Title == "" || blog.Article == "" {
			return nil, apperror.Validation("blog post needs a title and an article")
		}
		post.Blog = &blog
	} else if in.Description != nil {
		post.Description = strings.TrimSpace(*in.Description)
	}
	if in.Tags != nil {
		post.Tags = cleanList(in.Tags)
	}

	var removed []string
	if post.MediaEditable() && (in.Media != nil || len(in.Uploads) > 0) {
		keep := in.Media
		if keep == nil {
			keep = post.Media
		}
		var kept []string
		kept, removed = diffMedia(post.Media, keep)

		added, err := s.media.StoreMedia(ctx, in.Uploads)
		if err != nil {
			return nil, err
		}
		post.Media = append(kept, added...)
	}

	if err := s.posts.UpdatePost(ctx, post); err != nil {
		return nil, translate(err, "post")
	}
	if post.IsBlog() {
		s.ranking.Invalidate(ctx)
	}

	warnings := s.media.DeleteMedia(ctx, removed)
	for _, w := range warnings {
		log.Printf("post %s update: %s", post.ID.Hex(), w)
	}

	enriched, err := enrichPost(ctx, s.users, post)
	if err != nil {
		return nil, err
	}
	return &PostUpdate{EnrichedPost: *enriched, Warnings: warnings}, nil
}

// DeletePost removes the post with its comments, hides its shares and flags
// bookmarks pointing at it. Media is removed last and only produces warnings.
func (s *PostService) DeletePost(ctx context.Context, id primitive.ObjectID, author string) (*PostDeletion, error) {
	post, err := s.ownedPost(ctx, id, author)
	if err != nil {
		return nil, err
	}

	cascade, err := s.posts.DeletePostCascade(ctx, id)
	if err != nil {
		return nil, translate(err, "post")
	}
	result := &PostDeletion{
		Deleted:         id.Hex(),
		CommentsDeleted: cascade.CommentsDeleted,
		SharesHidden:    cascade.SharesHidden,
	}

	flagged, err := s.bookmarks.MarkDeletedByPostIDs(ctx, []string{id.Hex()})
	if err != nil {
		// reconciliation flags them on its next run
		log.Printf("post %s: flagging bookmarks failed: %v", id.Hex(), err)
		result.Warnings = append(result.Warnings, apperror.Warning{Reference: id.Hex(), Message: "bookmarks not updated yet"})
	}
	result.BookmarksFlagged = flagged

	if post.IsBlog() {
		s.ranking.Invalidate(ctx)
	}

	if !post.Shared {
		mediaWarnings := s.media.DeleteMedia(ctx, post.Media)
		for _, w := range mediaWarnings {
			log.Printf("post %s delete: %s", id.Hex(), w)
		}
		result.Warnings = append(result.Warnings, mediaWarnings...)
	}
	return result, nil
}

// SharePost creates a share of the post. Sharing a share shares its original.
func (s *PostService) SharePost(ctx context.Context, id primitive.ObjectID, sharer string, req models.SharePostRequest) (*models.EnrichedPost, error) {
	root, err := s.livePost(ctx, id)
	if err != nil {
		return nil, err
	}
	if root.Shared && root.Authentic != nil {
		if root, err = s.livePost(ctx, *root.Authentic); err != nil {
			return nil, err
		}
	}

	authentic := root.ID
	share := &models.Post{
		Type:        models.PostTypePost,
		Author:      sharer,
		Description: strings.TrimSpace(req.Description),
		Tags:        cleanList(req.Tags),
		Media:       []string{},
		Reactions:   []models.Reaction{},
		Shared:      true,
		Authentic:   &authentic,
	}
	if err := s.posts.CreatePost(ctx, share); err != nil {
		return nil, translate(err, "post")
	}

	send(ctx, s.notifier, sharer, root.Author, "shared your post", postLocation(share), models.NotificationTarget{TargetType: root.TargetType()})
	return enrichPost(ctx, s.users, share)
}

// ReactOnPost toggles user's reaction with a compare-and-set on the post version
func (s *PostService) ReactOnPost(ctx context.Context, id primitive.ObjectID, user string, kind models.ReactionKind) (*models.ReactionSummary, error) {
	if !kind.Valid() {
		return nil, apperror.Validation("invalid reaction %q", kind)
	}

	for attempt := 0; attempt < maxCASRetries; attempt++ {
		post, err := s.livePost(ctx, id)
		if err != nil {
			return nil, err
		}

		reactions, change := models.ToggleReaction(post.Reactions, user, kind)
		post.SetReactions(reactions)

		err = s.posts.UpdateReactions(ctx, post)
		if errors.Is(err, repositories.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, translate(err, "post")
		}

		if post.IsBlog() {
			s.ranking.Invalidate(ctx)
		}
		if change != models.ReactionRemoved {
			send(ctx, s.notifier, user, post.Author, fmt.Sprintf("reacted with %s on your post", kind), postLocation(post), models.NotificationTarget{TargetType: post.TargetType()})
		}
		summary := post.ReactionSummary()
		return &summary, nil
	}
	return nil, conflictError("post reactions")
}

// IsUserPost reports ownership and bookmark state. A bookmark survives its
// post, so only the absence of both is NotFound.
func (s *PostService) IsUserPost(ctx context.Context, id primitive.ObjectID, user string) (*models.PostOwnership, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil && !errors.Is(err, repositories.ErrPostNotFound) {
		return nil, translate(err, "post")
	}
	_, err = s.bookmarks.GetBookmark(ctx, user, id.Hex())
	if err != nil && !errors.Is(err, repositories.ErrBookmarkNotFound) {
		return nil, translate(err, "bookmark")
	}
	bookmarked := err == nil

	if post == nil && !bookmarked {
		return nil, apperror.NotFound("post not found")
	}
	return &models.PostOwnership{
		BelongsToUser: post != nil && post.Author == user,
		IsBookmarked:  bookmarked,
	}, nil
}

func (s *PostService) ownedPost(ctx context.Context, id primitive.ObjectID, author string) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, translate(err, "post")
	}
	if post.Author != author {
		return nil, apperror.Forbidden("you are not the author of this post")
	}
	return post, nil
}

// livePost loads a post that is present and not hidden. Hidden shares stay
// readable and deletable by their author but take no reactions or edits.
func (s *PostService) livePost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	post, err := s.posts.GetPostByID(ctx, id)
	if err != nil {
		return nil, translate(err, "post")
	}
	if post.Deleted {
		return nil, apperror.NotFound("post not found")
	}
	return post, nil
}

// diffMedia splits current into the references listed in keep, in their
// current order, and the ones to remove. Unknown entries of keep are ignored.
func diffMedia(current, keep []string) (kept, removed []string) {
	wanted := make(map[string]bool, len(keep))
	for _, ref := range keep {
		wanted[ref] = true
	}
	kept = []string{}
	for _, ref := range current {
		if wanted[ref] {
			kept = append(kept, ref)
		} else {
			removed = append(removed, ref)
		}
	}
	return kept, removed
}

// cleanList trims entries and drops blanks and duplicates
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

func postLocation(p *models.Post) string {
	if p.IsBlog() {
		return "/blog/" + p.ID.Hex()
	}
	return "/posts/" + p.ID.Hex()
}
