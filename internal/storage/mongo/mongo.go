// Package mongo stores snapshot blobs in a MongoDB collection, one document per key.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	blobCollection    = "snapshot_blobs"
	counterCollection = "counters"
	revisionCounterID = "snapshot_revision"
)

type blobDoc struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	Revision  int64     `bson:"revision"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

type Store struct {
	client   *mongo.Client
	blobs    *mongo.Collection
	counters *mongo.Collection
}

// New connects to uri and verifies the connection with a ping.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}

	db := client.Database(dbName)
	slog.InfoContext(ctx, "Connected to MongoDB", "database", dbName)
	return &Store{
		client:   client,
		blobs:    db.Collection(blobCollection),
		counters: db.Collection(counterCollection),
	}, nil
}

func (s *Store) Load(ctx context.Context) (map[string][]byte, uint64, error) {
	cursor, err := s.blobs.Find(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("find blobs: %w", err)
	}
	defer cursor.Close(ctx)

	out := make(map[string][]byte)
	var maxRev uint64
	for cursor.Next(ctx) {
		var doc blobDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode blob: %w", err)
		}
		out[doc.Key] = []byte(doc.Value)
		if uint64(doc.Revision) > maxRev {
			maxRev = uint64(doc.Revision)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate blobs: %w", err)
	}
	return out, maxRev, nil
}

func (s *Store) nextRevision(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": revisionCounterID},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("increment revision: %w", err)
	}
	return counter.Seq, nil
}

// Save upserts every key with a fresh revision taken from the counters collection.
func (s *Store) Save(ctx context.Context, blobs map[string][]byte) (uint64, error) {
	rev, err := s.nextRevision(ctx)
	if err != nil {
		return 0, err
	}
	now := time.Now().UTC()
	for k, v := range blobs {
		_, err := s.blobs.UpdateOne(ctx,
			bson.M{"_id": k},
			bson.M{"$set": bson.M{"value": string(v), "revision": rev, "updatedAt": now}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return 0, fmt.Errorf("upsert %s: %w", k, err)
		}
	}
	return uint64(rev), nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil && !errors.Is(err, mongo.ErrClientDisconnected) {
		return fmt.Errorf("disconnect MongoDB: %w", err)
	}
	return nil
}
