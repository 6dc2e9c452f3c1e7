package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	defaultDatabase   = "biolink_explorer"
	defaultCollection = "snapshots"

	mongoConnectTimeout = 10 * time.Second
)

// MongoConfig configures the MongoDB snapshot store.
type MongoConfig struct {
	// URI is the MongoDB connection string (mongodb://...).
	URI string

	// Database and Collection override the default locations.
	Database   string
	Collection string
}

// MongoStore persists snapshots in a MongoDB collection, keyed by
// version. Safe for concurrent use.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = defaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = defaultCollection
	}

	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Put upserts the snapshot for its version.
func (m *MongoStore) Put(ctx context.Context, s Snapshot) error {
	_, err := m.collection.ReplaceOne(ctx,
		bson.M{"_id": s.Version}, s, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store snapshot %s: %w", s.Version, err)
	}
	return nil
}

// Get loads the snapshot for a version.
func (m *MongoStore) Get(ctx context.Context, version string) (Snapshot, error) {
	var s Snapshot
	err := m.collection.FindOne(ctx, bson.M{"_id": version}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot %s: %w", version, err)
	}
	return s, nil
}

// Versions lists stored versions, sorted.
func (m *MongoStore) Versions(ctx context.Context) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.M{"_id": 1})
	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer cursor.Close(ctx)

	var versions []string
	for cursor.Next(ctx) {
		var doc struct {
			Version string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		versions = append(versions, doc.Version)
	}
	return versions, cursor.Err()
}

// Delete removes the snapshot for a version.
func (m *MongoStore) Delete(ctx context.Context, version string) error {
	_, err := m.collection.DeleteOne(ctx, bson.M{"_id": version})
	return err
}

// Close disconnects from MongoDB.
func (m *MongoStore) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
