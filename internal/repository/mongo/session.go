// Package mongo stores sessions as MongoDB documents.
package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/ecolearn/internal/config"
	"github.com/Rrens/ecolearn/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type sessionDocument struct {
	ID        string    `bson:"_id"`
	Phase     string    `bson:"phase"`
	Data      string    `bson:"data"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// SessionRepository implements domain.SessionRepository on a MongoDB collection.
// A TTL index on created_at removes sessions once they expire.
type SessionRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Open connects to MongoDB and ensures the expiry index exists
func Open(ctx context.Context, cfg config.MongoConfig, expiry time.Duration) (*SessionRepository, error) {
	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)

	if expiry > 0 {
		index := mongo.IndexModel{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(expiry.Seconds())),
		}
		if _, err := coll.Indexes().CreateOne(ctx, index); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("failed to create expiry index: %w", err)
		}
	}

	return &SessionRepository{client: client, collection: coll}, nil
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	var doc sessionDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return decodeDocument(doc)
}

func (r *SessionRepository) Save(ctx context.Context, session *domain.Session) error {
	doc, err := encodeDocument(session)
	if err != nil {
		return err
	}

	_, err = r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

// Close disconnects the client
func (r *SessionRepository) Close() error {
	return r.client.Disconnect(context.Background())
}

func encodeDocument(session *domain.Session) (sessionDocument, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return sessionDocument{}, fmt.Errorf("failed to marshal session: %w", err)
	}
	return sessionDocument{
		ID:        session.ID,
		Phase:     string(session.Phase),
		Data:      string(data),
		CreatedAt: session.CreatedAt.UTC(),
		UpdatedAt: session.LastUpdatedAt.UTC(),
	}, nil
}

func decodeDocument(doc sessionDocument) (*domain.Session, error) {
	var s domain.Session
	if err := json.Unmarshal([]byte(doc.Data), &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &s, nil
}
