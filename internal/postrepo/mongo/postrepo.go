package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"go.mongodb.org/mongo-driver/bson"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/haguru/jiraiya/internal/apperrors"
	"github.com/haguru/jiraiya/internal/interfaces"
	"github.com/haguru/jiraiya/internal/models"
	mongoClient "github.com/haguru/jiraiya/pkg/databases/mongo"
)

const (
	PostsCollection = "posts"
	// PostsSequence names the counter that hands out post ids.
	PostsSequence = "posts"

	IDField      = "id"
	TitleField   = "title"
	ContentField = "content"
	AuthorField  = "author"
)

// MongoPostRepository implements PostRepository using the MongoDB client. Posts
// carry an integer id field drawn from a counter document; _id stays driver-owned.
type MongoPostRepository struct {
	dbClient *mongoClient.MongoDBClient
}

// NewMongoPostRepository fails when the client's field whitelist does not cover every post field.
func NewMongoPostRepository(dbClient *mongoClient.MongoDBClient) (*MongoPostRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	if err := dbClient.RequireFields(IDField, TitleField, ContentField, AuthorField); err != nil {
		return nil, err
	}
	return &MongoPostRepository{dbClient: dbClient}, nil
}

func (r *MongoPostRepository) Create(ctx context.Context, post models.Post) (*models.Post, error) {
	id, err := r.dbClient.NextSequence(ctx, PostsSequence)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate post id: %w", err)
	}
	post.ID = id

	doc := bson.M{
		IDField:      post.ID,
		TitleField:   post.Title,
		ContentField: post.Content,
		AuthorField:  post.Author,
	}
	if _, err := r.dbClient.InsertOne(ctx, PostsCollection, doc); err != nil {
		return nil, fmt.Errorf("failed to insert post into MongoDB: %w", err)
	}
	return &post, nil
}

func (r *MongoPostRepository) List(ctx context.Context) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: IDField, Value: -1}})
	docs, err := r.dbClient.FindMany(ctx, PostsCollection, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts from MongoDB: %w", err)
	}
	return decodePosts(docs)
}

func (r *MongoPostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	err := r.dbClient.FindOne(ctx, PostsCollection, bson.M{IDField: id}, &post)
	if err != nil {
		if errors.Is(err, mongoClient.ErrNoDocuments) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post from MongoDB: %w", err)
	}
	return &post, nil
}

// Update sets title and content, then reads the post back.
func (r *MongoPostRepository) Update(ctx context.Context, post models.Post) (*models.Post, error) {
	matched, err := r.dbClient.UpdateOne(ctx, PostsCollection,
		bson.M{IDField: post.ID},
		bson.M{TitleField: post.Title, ContentField: post.Content},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update post in MongoDB: %w", err)
	}
	if matched == 0 {
		return nil, apperrors.ErrPostNotFound
	}
	return r.GetByID(ctx, post.ID)
}

func (r *MongoPostRepository) Delete(ctx context.Context, id int64) error {
	deleted, err := r.dbClient.DeleteOne(ctx, PostsCollection, bson.M{IDField: id})
	if err != nil {
		return fmt.Errorf("failed to delete post from MongoDB: %w", err)
	}
	if deleted == 0 {
		return apperrors.ErrPostNotFound
	}
	return nil
}

// EnsureIndices creates the unique index on id.
func (r *MongoPostRepository) EnsureIndices(ctx context.Context) error {
	indexModel := mongosdk.IndexModel{
		Keys:    bson.D{{Key: IDField, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	return r.dbClient.EnsureSchema(ctx, PostsCollection, indexModel)
}

// decodePosts maps generic documents onto posts using their mapstructure tags.
// Unknown keys such as _id are ignored.
func decodePosts(docs []interfaces.Document) ([]models.Post, error) {
	posts := make([]models.Post, 0, len(docs))
	for _, doc := range docs {
		var p models.Post
		if err := mapstructure.Decode(doc, &p); err != nil {
			return nil, fmt.Errorf("failed to decode post document: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, nil
}

var _ interfaces.PostRepository = (*MongoPostRepository)(nil)
