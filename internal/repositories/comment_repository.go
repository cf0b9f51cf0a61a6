package repositories

import (
	"context"
	"time"

	"github.com/JohnnyRuss/academind-back/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	// GetCommentsByPostID returns the comments of a post, newest first
	GetCommentsByPostID(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error)
	// SaveComment replaces the stored comment if its version still equals
	// comment.Version. Replies and reactions live inside the document, so
	// every mutation of a comment goes through here.
	SaveComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
	GetCommentedPostIDs(ctx context.Context) ([]primitive.ObjectID, error)
	DeleteCommentsByPostIDs(ctx context.Context, postIDs []primitive.ObjectID) (int64, error)
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

func (r *MongoCommentRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "post", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}

// CreateComment creates a new comment in MongoDB
func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	comment.Version = 0
	if comment.Replies == nil {
		comment.Replies = []models.Reply{}
	}
	_, err := r.collection.InsertOne(ctx, comment)
	return err
}

// GetCommentByID retrieves a comment by ID from MongoDB
func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByPostID retrieves all comments for a specific post from MongoDB
func (r *MongoCommentRepository) GetCommentsByPostID(ctx context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"post": postID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *MongoCommentRepository) SaveComment(ctx context.Context, comment *models.Comment) error {
	expected := comment.Version
	next := *comment
	next.Version = expected + 1
	next.UpdatedAt = time.Now()

	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": comment.ID, "version": expected}, &next)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrVersionConflict
	}
	comment.Version = next.Version
	comment.UpdatedAt = next.UpdatedAt
	return nil
}

// DeleteComment deletes a comment and its replies from MongoDB
func (r *MongoCommentRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrCommentNotFound
	}
	return nil
}

func (r *MongoCommentRepository) GetCommentedPostIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	raw, err := r.collection.Distinct(ctx, "post", bson.M{})
	if err != nil {
		return nil, err
	}
	return objectIDs(raw), nil
}

func (r *MongoCommentRepository) DeleteCommentsByPostIDs(ctx context.Context, postIDs []primitive.ObjectID) (int64, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}
	res, err := r.collection.DeleteMany(ctx, bson.M{"post": bson.M{"$in": postIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
