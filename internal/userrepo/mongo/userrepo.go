package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	mongosdk "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/haguru/jiraiya/internal/apperrors"
	"github.com/haguru/jiraiya/internal/interfaces"
	"github.com/haguru/jiraiya/internal/models"
	mongoClient "github.com/haguru/jiraiya/pkg/databases/mongo"
)

const (
	UsersCollection = "users"
	UsernameField   = "username"
	PasswordField   = "hashed_password"
)

// MongoUserRepository implements UserRepository using the MongoDB client.
type MongoUserRepository struct {
	dbClient *mongoClient.MongoDBClient
}

// NewMongoUserRepository creates a new MongoDB repository instance. The
// client must whitelist the user fields.
func NewMongoUserRepository(dbClient *mongoClient.MongoDBClient) (*MongoUserRepository, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("dbClient cannot be nil")
	}
	if err := dbClient.RequireFields(UsernameField, PasswordField); err != nil {
		return nil, err
	}
	return &MongoUserRepository{dbClient: dbClient}, nil
}

// AddUser saves a new user. EnsureIndices must have run so the unique index rejects duplicates.
func (r *MongoUserRepository) AddUser(ctx context.Context, user models.User) error {
	doc := bson.M{
		UsernameField: user.Username,
		PasswordField: user.HashedPassword,
	}

	if _, err := r.dbClient.InsertOne(ctx, UsersCollection, doc); err != nil {
		if mongosdk.IsDuplicateKeyError(err) {
			return fmt.Errorf("username '%s': %w", user.Username, apperrors.ErrUsernameTaken)
		}
		return fmt.Errorf("failed to add user to MongoDB: %w", err)
	}
	return nil
}

// GetUserByUsername retrieves a user from MongoDB.
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.dbClient.FindOne(ctx, UsersCollection, bson.M{UsernameField: username}, &user)
	if err != nil {
		if errors.Is(err, mongoClient.ErrNoDocuments) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username from MongoDB: %w", err)
	}
	return &user, nil
}

// EnsureIndices creates the unique index on username.
func (r *MongoUserRepository) EnsureIndices(ctx context.Context) error {
	indexModel := mongosdk.IndexModel{
		Keys:    bson.D{{Key: UsernameField, Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	return r.dbClient.EnsureSchema(ctx, UsersCollection, indexModel)
}

var _ interfaces.UserRepository = (*MongoUserRepository)(nil)
