package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/JohnnyRuss/academind-back/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CascadeResult reports what a post deletion touched besides the post itself
type CascadeResult struct {
	CommentsDeleted int64 `json:"commentsDeleted"`
	SharesHidden    int64 `json:"sharesHidden"`
}

// PublisherTotal is one author's blog post count and like total
type PublisherTotal struct {
	Author     string `bson:"_id"`
	PostCount  int    `bson:"post_count"`
	TotalLikes int    `bson:"total_likes"`
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	GetPostsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error)
	// UpdatePost writes the editable fields (description, blog, tags, media).
	UpdatePost(ctx context.Context, post *models.Post) error
	// UpdateReactions stores post.Reactions and the derived counters only if
	// the stored version still equals post.Version, then bumps the version.
	UpdateReactions(ctx context.Context, post *models.Post) error
	// DeletePostCascade removes the post and its comments and hides its shares
	// as one unit.
	DeletePostCascade(ctx context.Context, id primitive.ObjectID) (*CascadeResult, error)
	CountBlogPosts(ctx context.Context) (int64, error)
	GetBlogPosts(ctx context.Context, skip, limit int64) ([]models.Post, error)
	GetTopRatedBlogPosts(ctx context.Context, limit int64) ([]models.Post, error)
	// GetTopPublishers groups blog posts by author, most total likes first.
	// Equal totals put the author of the older first post first.
	GetTopPublishers(ctx context.Context, limit int64) ([]PublisherTotal, error)
	// GetRelatedBlogPosts returns blog posts other than exclude that share at
	// least one of categories, most shared categories first, older posts
	// first among equals.
	GetRelatedBlogPosts(ctx context.Context, exclude primitive.ObjectID, categories []string, limit int64) ([]models.Post, error)
	ExistingPostIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]bool, error)
	GetLiveShareAuthentics(ctx context.Context) ([]primitive.ObjectID, error)
	HideShares(ctx context.Context, authenticIDs []primitive.ObjectID) (int64, error)
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	client   *mongo.Client
	posts    *mongo.Collection
	comments *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{
		client:   db.Client(),
		posts:    db.Collection("posts"),
		comments: db.Collection("comments"),
	}
}

// EnsureIndexes creates the indexes the feed, ranking and cascade queries rely on
func (r *MongoPostRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.posts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "likes_amount", Value: -1}}},
		{Keys: bson.D{{Key: "blog.categories", Value: 1}}},
		{Keys: bson.D{{Key: "authentic", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
	})
	return err
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	post.Version = 0
	_, err := r.posts.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := r.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetPostsByIDs returns the posts that still exist, in the order of ids
func (r *MongoPostRepository) GetPostsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Post, error) {
	if len(ids) == 0 {
		return []models.Post{}, nil
	}
	cursor, err := r.posts.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var found []models.Post
	if err = cursor.All(ctx, &found); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]models.Post, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	posts := make([]models.Post, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

// UpdatePost updates the editable fields of an existing post in MongoDB
func (r *MongoPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now()
	update := bson.M{
		"$set": bson.M{
			"description": post.Description,
			"blog":        post.Blog,
			"tags":        post.Tags,
			"media":       post.Media,
			"updated_at":  post.UpdatedAt,
		},
		"$inc": bson.M{"version": 1},
	}
	res, err := r.posts.UpdateOne(ctx, bson.M{"_id": post.ID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	post.Version++
	return nil
}

// UpdateReactions is a compare-and-set on the version field
func (r *MongoPostRepository) UpdateReactions(ctx context.Context, post *models.Post) error {
	filter := bson.M{"_id": post.ID, "version": post.Version}
	update := bson.M{
		"$set": bson.M{
			"reactions":       post.Reactions,
			"likes_amount":    post.LikesAmount,
			"dislikes_amount": post.DislikesAmount,
		},
		"$inc": bson.M{"version": 1},
	}
	res, err := r.posts.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	post.Version++
	return nil
}

// DeletePostCascade runs the post, comment and share writes in one transaction
func (r *MongoPostRepository) DeletePostCascade(ctx context.Context, id primitive.ObjectID) (*CascadeResult, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("starting session: %w", err)
	}
	defer session.EndSession(ctx)

	out, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.posts.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return nil, err
		}
		if res.DeletedCount == 0 {
			return nil, ErrPostNotFound
		}

		comments, err := r.comments.DeleteMany(sc, bson.M{"post": id})
		if err != nil {
			return nil, err
		}

		shares, err := r.posts.UpdateMany(sc,
			bson.M{"shared": true, "authentic": id},
			bson.M{"$set": bson.M{"deleted": true, "updated_at": time.Now()}},
		)
		if err != nil {
			return nil, err
		}

		return &CascadeResult{CommentsDeleted: comments.DeletedCount, SharesHidden: shares.ModifiedCount}, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*CascadeResult), nil
}

var blogFilter = bson.M{"type": models.PostTypeBlog}

func (r *MongoPostRepository) CountBlogPosts(ctx context.Context) (int64, error) {
	return r.posts.CountDocuments(ctx, blogFilter)
}

// GetBlogPosts retrieves a page of blog posts, newest first
func (r *MongoPostRepository) GetBlogPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	findOptions := options.Find().
		SetSkip(skip).
		SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	return r.find(ctx, blogFilter, findOptions)
}

// GetTopRatedBlogPosts sorts by likes; equal likes keep insertion order
func (r *MongoPostRepository) GetTopRatedBlogPosts(ctx context.Context, limit int64) ([]models.Post, error) {
	findOptions := options.Find().
		SetLimit(limit).
		SetSort(bson.D{{Key: "likes_amount", Value: -1}, {Key: "_id", Value: 1}})
	return r.find(ctx, blogFilter, findOptions)
}

func (r *MongoPostRepository) GetTopPublishers(ctx context.Context, limit int64) ([]PublisherTotal, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: blogFilter}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$author",
			"post_count":  bson.M{"$sum": 1},
			"total_likes": bson.M{"$sum": "$likes_amount"},
			"first_post":  bson.M{"$min": "$_id"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "total_likes", Value: -1}, {Key: "first_post", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	totals := []PublisherTotal{}
	if err = cursor.All(ctx, &totals); err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *MongoPostRepository) GetRelatedBlogPosts(ctx context.Context, exclude primitive.ObjectID, categories []string, limit int64) ([]models.Post, error) {
	if len(categories) == 0 {
		return []models.Post{}, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"type":            models.PostTypeBlog,
			"_id":             bson.M{"$ne": exclude},
			"blog.categories": bson.M{"$in": categories},
		}}},
		{{Key: "$addFields", Value: bson.M{
			"overlap": bson.M{"$size": bson.M{"$setIntersection": bson.A{"$blog.categories", categories}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "overlap", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$project", Value: bson.M{"overlap": 0}}},
	}

	cursor, err := r.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *MongoPostRepository) ExistingPostIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]bool, error) {
	existing := make(map[primitive.ObjectID]bool, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}
	raw, err := r.posts.Distinct(ctx, "_id", bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	for _, v := range raw {
		if id, ok := v.(primitive.ObjectID); ok {
			existing[id] = true
		}
	}
	return existing, nil
}

// GetLiveShareAuthentics lists the originals referenced by shares that are not hidden yet
func (r *MongoPostRepository) GetLiveShareAuthentics(ctx context.Context) ([]primitive.ObjectID, error) {
	raw, err := r.posts.Distinct(ctx, "authentic", bson.M{"shared": true, "deleted": false})
	if err != nil {
		return nil, err
	}
	return objectIDs(raw), nil
}

func (r *MongoPostRepository) HideShares(ctx context.Context, authenticIDs []primitive.ObjectID) (int64, error) {
	if len(authenticIDs) == 0 {
		return 0, nil
	}
	res, err := r.posts.UpdateMany(ctx,
		bson.M{"shared": true, "deleted": false, "authentic": bson.M{"$in": authenticIDs}},
		bson.M{"$set": bson.M{"deleted": true, "updated_at": time.Now()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *MongoPostRepository) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Post, error) {
	cursor, err := r.posts.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func objectIDs(raw []interface{}) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
