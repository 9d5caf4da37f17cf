package board

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// =============================================================================
// MongoDB-Backed Store
// =============================================================================

// MongoConfig holds MongoDB connection parameters.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// MongoStore persists boards in a MongoDB collection, keyed by board ID
// via the _id field. Suited for multi-instance server deployments where
// a shared directory is not available.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "easel"
	}
	if cfg.Collection == "" {
		cfg.Collection = "boards"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Save upserts the board document.
func (s *MongoStore) Save(ctx context.Context, b Board) error {
	if b.ID == "" {
		return fmt.Errorf("save board: empty id")
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.coll.ReplaceOne(ctx, bson.M{"_id": b.ID}, b, opts); err != nil {
		return fmt.Errorf("save board %s: %w", b.ID, err)
	}
	return nil
}

// Load retrieves a board by ID.
func (s *MongoStore) Load(ctx context.Context, id string) (Board, error) {
	var b Board
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Board{}, ErrNotFound
		}
		return Board{}, fmt.Errorf("load board %s: %w", id, err)
	}
	return b, nil
}

// List returns summaries for every stored board, sorted by name.
func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	defer cur.Close(ctx)

	var summaries []Summary
	for cur.Next(ctx) {
		var b Board
		if err := cur.Decode(&b); err != nil {
			return nil, fmt.Errorf("decode board: %w", err)
		}
		summaries = append(summaries, Summary{
			ID:        b.ID,
			Name:      b.Name,
			NodeCount: len(b.Nodes),
		})
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	return summaries, nil
}

// Delete removes a board document. Absent boards are a no-op.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete board %s: %w", id, err)
	}
	return nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
