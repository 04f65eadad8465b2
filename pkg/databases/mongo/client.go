package mongo

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/haguru/jiraiya/config"
	"github.com/haguru/jiraiya/internal/interfaces"
)

const (
	MAXPOOLSIZE = 20
	IDFIELD     = "_id"

	// CountersCollection stores one integer sequence per named counter.
	CountersCollection = "counters"
	SEQFIELD           = "seq"
)

var (
	// ErrNoDocuments is wrapped by FindOne when nothing matches the filter.
	ErrNoDocuments = mongo.ErrNoDocuments

	// ErrInvalidFilter is returned when a filter holds a key outside the
	// whitelist, or when a single-document operation gets an empty filter.
	ErrInvalidFilter = errors.New("invalid filter")
)

// MongoDBClient implements the interfaces.DBClient interface for MongoDB operations.
type MongoDBClient struct {
	ServerOpts       *options.ServerAPIOptions
	client           *mongo.Client
	db               *mongo.Database
	logger           interfaces.Logger
	timeout          time.Duration
	validCollections map[string]bool // A map to validate collection names
	validFields      map[string]bool // A map to validate field names
}

// NewMongoDB returns a client configured from dbConfig. It does not connect.
func NewMongoDB(dbConfig *config.MongoDBConfig, logger interfaces.Logger) *MongoDBClient {
	return &MongoDBClient{
		timeout:          dbConfig.Timeout,
		ServerOpts:       config.BuildServerAPIOptions(dbConfig.Options),
		validCollections: config.ListToMap(dbConfig.ValidCollections),
		validFields:      config.ListToMap(dbConfig.ValidFields),
		logger:           logger,
	}
}

// Connect establishes a connection to the MongoDB database using the provided DSN (Data Source Name).
// The DSN should be in the format "mongodb://<host>:<port>/<database>"; the path
// names the database the client works on.
func (m *MongoDBClient) Connect(ctx context.Context, dsn string) error {
	if dsn == "" {
		return fmt.Errorf("MongoDBClient: DSN is empty")
	}
	if !strings.HasPrefix(dsn, "mongodb://") && !strings.HasPrefix(dsn, "mongodb+srv://") {
		return fmt.Errorf("MongoDBClient: Invalid DSN format, expected 'mongodb://' or 'mongodb+srv://'")
	}
	databaseName, err := getDBNameFromMongoDSN(dsn)
	if err != nil {
		return fmt.Errorf("MongoDBClient: Failed to extract database name from datasource name(dsn): %w", err)
	}

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	clientOptions := options.Client().ApplyURI(dsn)
	if m.ServerOpts != nil {
		clientOptions.SetServerAPIOptions(m.ServerOpts)
	}
	clientOptions.SetMaxPoolSize(MAXPOOLSIZE)
	clientOptions.SetReadPreference(readpref.PrimaryPreferred())

	m.client, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		return err
	}

	if err = m.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("MongoDBClient: Failed to connect to MongoDB server: %w", err)
	}
	m.logger.Info("connected to mongodb", "database", databaseName)

	m.db = m.client.Database(databaseName)
	return nil
}

// Disconnect closes the connection to the MongoDB database.
func (m *MongoDBClient) Disconnect(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	m.logger.Debug("disconnecting from mongodb")
	err := m.client.Disconnect(ctx)
	m.client = nil
	m.db = nil
	return err
}

// Ping verifies the MongoDB connection health using a ping command.
func (m *MongoDBClient) Ping(ctx context.Context) error {
	if m.client == nil {
		return fmt.Errorf("MongoDBClient is not connected to a database")
	}
	return m.client.Ping(ctx, nil)
}

// InsertOne inserts a sanitized document and returns its ID.
func (m *MongoDBClient) InsertOne(ctx context.Context, collectionName string, document interfaces.Document) (interface{}, error) {
	if err := m.checkCollection(collectionName); err != nil {
		return nil, err
	}

	res, err := m.db.Collection(collectionName).InsertOne(ctx, m.sanitizeDocument(document))
	if err != nil {
		return nil, fmt.Errorf("MongoDBClient: Failed to insert one into %s: %w", collectionName, err)
	}

	return res.InsertedID, nil
}

// FindOne decodes the first document matching filter into result. When nothing
// matches the returned error wraps ErrNoDocuments.
func (m *MongoDBClient) FindOne(ctx context.Context, collectionName string, filter interfaces.Document, result interfaces.Document) error {
	safeFilter, err := m.sanitizeFilter(filter, false)
	if err != nil {
		return err
	}
	if err := m.checkCollection(collectionName); err != nil {
		return err
	}

	err = m.db.Collection(collectionName).FindOne(ctx, safeFilter).Decode(result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("MongoDBClient: No document found in %s: %w", collectionName, err)
		}
		return fmt.Errorf("MongoDBClient: Failed to find one in %s: %w", collectionName, err)
	}

	return nil
}

// FindMany retrieves every document matching filter as a generic map.
func (m *MongoDBClient) FindMany(ctx context.Context, collectionName string, filter interfaces.Document, opts ...*options.FindOptions) ([]interfaces.Document, error) {
	safeFilter, err := m.sanitizeFilter(filter, true)
	if err != nil {
		return nil, err
	}
	if err := m.checkCollection(collectionName); err != nil {
		return nil, err
	}

	cursor, err := m.db.Collection(collectionName).Find(ctx, safeFilter, opts...)
	if err != nil {
		return nil, fmt.Errorf("MongoDBClient: Finding many in %s failed: %w", collectionName, err)
	}
	defer func() {
		if err := cursor.Close(ctx); err != nil {
			m.logger.Warn("failed to close cursor", "collection", collectionName, "error", err)
		}
	}()

	results := []interfaces.Document{}
	for cursor.Next(ctx) {
		var doc map[string]interface{}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("MongoDBClient: Failed to decode cursor: %w", err)
		}
		results = append(results, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("MongoDBClient: cursor error in %s: %w", collectionName, err)
	}

	return results, nil
}

// UpdateOne sets the sanitized fields of update on the first document matching
// filter. It returns the number of matched documents.
func (m *MongoDBClient) UpdateOne(ctx context.Context, collectionName string, filter interfaces.Document, update interfaces.Document) (int64, error) {
	safeFilter, err := m.sanitizeFilter(filter, false)
	if err != nil {
		return 0, err
	}
	if err := m.checkCollection(collectionName); err != nil {
		return 0, err
	}

	set := bson.M{"$set": m.sanitizeDocument(update)}
	res, err := m.db.Collection(collectionName).UpdateOne(ctx, safeFilter, set)
	if err != nil {
		return 0, fmt.Errorf("MongoDBClient: Failed updating one in %s: %w", collectionName, err)
	}

	return res.MatchedCount, nil
}

// DeleteOne removes a single document matching filter and returns the deleted count.
func (m *MongoDBClient) DeleteOne(ctx context.Context, collectionName string, filter interfaces.Document) (int64, error) {
	safeFilter, err := m.sanitizeFilter(filter, false)
	if err != nil {
		return 0, err
	}
	if err := m.checkCollection(collectionName); err != nil {
		return 0, err
	}

	res, err := m.db.Collection(collectionName).DeleteOne(ctx, safeFilter)
	if err != nil {
		return 0, fmt.Errorf("MongoDBClient: Failed deleting one from %s: %w", collectionName, err)
	}

	return res.DeletedCount, nil
}

// NextSequence atomically increments the counter called name and returns the new value.
// The first call for a name returns 1.
func (m *MongoDBClient) NextSequence(ctx context.Context, name string) (int64, error) {
	if m.db == nil {
		return 0, fmt.Errorf("MongoDBClient is not connected to a database")
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := m.db.Collection(CountersCollection).FindOneAndUpdate(ctx,
		bson.M{IDFIELD: name},
		bson.M{"$inc": bson.M{SEQFIELD: int64(1)}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("MongoDBClient: Failed to advance sequence %s: %w", name, err)
	}

	return counter.Seq, nil
}

// EnsureSchema creates the index described by schema, a mongo.IndexModel, on collectionName.
// The collection is created if it does not exist yet.
func (m *MongoDBClient) EnsureSchema(ctx context.Context, collectionName string, schema interfaces.Document) error {
	if m.db == nil {
		return fmt.Errorf("MongoDBClient is not connected to a database")
	}

	model, ok := schema.(mongo.IndexModel)
	if !ok {
		return fmt.Errorf("EnsureSchema: expected mongo.IndexModel for MongoDB")
	}

	_, err := m.db.Collection(collectionName).Indexes().CreateOne(ctx, model)
	return err
}

// RequireFields reports an error unless every field is whitelisted in the
// client's valid_fields.
func (m *MongoDBClient) RequireFields(fields ...string) error {
	var missing []string
	for _, field := range fields {
		if !m.validFields[field] {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("MongoDBClient: valid_fields is missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func (m *MongoDBClient) checkCollection(collectionName string) error {
	if collectionName == "" {
		return fmt.Errorf("MongoDBClient: Collection name cannot be empty")
	}
	if !m.validCollections[collectionName] {
		return fmt.Errorf("MongoDBClient: Invalid collection name: %s", collectionName)
	}
	if m.db == nil {
		return fmt.Errorf("MongoDBClient is not connected to a database")
	}
	return nil
}

// sanitizeDocument keeps only whitelisted top-level keys. The _id field and any
// key containing '$' or '.' are dropped so callers cannot inject operators.
func (m *MongoDBClient) sanitizeDocument(document interfaces.Document) bson.M {
	sanitized := bson.M{}

	var docMap map[string]interface{}
	switch d := document.(type) {
	case bson.M:
		docMap = d
	case map[string]interface{}:
		docMap = d
	case nil:
		return sanitized
	default:
		m.logger.Warn("document is not a map, cannot sanitize", "type", fmt.Sprintf("%T", document))
		return sanitized
	}

	for key, value := range docMap {
		if key == IDFIELD {
			continue
		}
		if !m.validFields[key] || strings.ContainsAny(key, "$.") {
			m.logger.Warn("skipping invalid or unsafe field name", "field", key)
			continue
		}
		sanitized[key] = value
	}

	return sanitized
}

// sanitizeFilter applies the same rules as sanitizeDocument but fails closed:
// any rejected key is an error instead of being dropped, so a filter can never
// silently widen to match other documents. Empty filters are accepted only when
// allowEmpty is set.
func (m *MongoDBClient) sanitizeFilter(filter interfaces.Document, allowEmpty bool) (bson.M, error) {
	var filterMap map[string]interface{}
	switch f := filter.(type) {
	case bson.M:
		filterMap = f
	case map[string]interface{}:
		filterMap = f
	case nil:
	default:
		return nil, fmt.Errorf("%w: unsupported filter type %T", ErrInvalidFilter, filter)
	}

	if len(filterMap) == 0 {
		if !allowEmpty {
			return nil, fmt.Errorf("%w: empty filter", ErrInvalidFilter)
		}
		return bson.M{}, nil
	}

	safe := bson.M{}
	for key, value := range filterMap {
		if key == IDFIELD || !m.validFields[key] || strings.ContainsAny(key, "$.") {
			return nil, fmt.Errorf("%w: field %q is not allowed", ErrInvalidFilter, key)
		}
		safe[key] = value
	}
	return safe, nil
}

// getDBNameFromMongoDSN extracts the database name from a MongoDB DSN.
func getDBNameFromMongoDSN(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("failed to parse MongoDB DSN: %w", err)
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if idx := strings.Index(dbName, "/"); idx != -1 {
		dbName = dbName[:idx]
	}
	if dbName == "" {
		return "", fmt.Errorf("no database name found in MongoDB DSN path")
	}

	return dbName, nil
}
