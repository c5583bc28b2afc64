package documentstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/maplelabs/chaos-actions/pkg/log"
)

const serverSelectionTimeout = 5 * time.Second

// collection is the slice of mongo.Collection the cleanup passes use.
type collection interface {
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	DeleteMany(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

// Store wraps one collection of the document store used by the target
// application. Cleanup keeps the collection bounded between load cycles so
// experiments start from a comparable data volume.
type Store struct {
	client *mongo.Client
	coll   collection
}

// Connect opens and pings a client for the given collection.
func Connect(ctx context.Context, uri, database, collection string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(serverSelectionTimeout))
	if err != nil {
		return nil, errors.Wrapf(err, "unable to connect to document store at %v", uri)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrapf(err, "document store at %v is not reachable", uri)
	}
	return &Store{client: client, coll: client.Database(database).Collection(collection)}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Count returns the number of documents matching the filter. A nil filter
// counts the whole collection.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	count, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, errors.Wrap(err, "unable to count documents")
	}
	return count, nil
}

// DeleteWhere removes every document matching the filter and returns the
// deleted count.
func (s *Store) DeleteWhere(ctx context.Context, filter bson.M) (int64, error) {
	result, err := s.coll.DeleteMany(ctx, filter)
	if err != nil {
		return 0, errors.Wrap(err, "unable to delete documents")
	}
	return result.DeletedCount, nil
}

// CleanupResult reports what a cleanup pass did or would do.
type CleanupResult struct {
	Performed   bool  `json:"performed"`
	Deleted     int64 `json:"deleted"`
	Remaining   int64 `json:"remaining"`
	WouldDelete int64 `json:"wouldDelete,omitempty"`
}

// CleanupKeepLatest deletes everything but the newest keep documents,
// ordered by _id. With dryRun it only reports what would be removed.
func (s *Store) CleanupKeepLatest(ctx context.Context, keep int64, dryRun bool) (CleanupResult, error) {
	if keep <= 0 {
		return CleanupResult{}, errors.Errorf("keep must be positive, got %v", keep)
	}
	total, err := s.Count(ctx, nil)
	if err != nil {
		return CleanupResult{}, err
	}
	if total <= keep {
		log.Infof("[Cleanup]: Only %v documents, nothing to remove", total)
		return CleanupResult{Remaining: total}, nil
	}
	if dryRun {
		return CleanupResult{Remaining: total, WouldDelete: total - keep}, nil
	}

	// the _id of the oldest document inside the kept window is the cutoff
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}}).SetSkip(keep - 1)
	var cutoff struct {
		ID interface{} `bson:"_id"`
	}
	if err := s.coll.FindOne(ctx, bson.M{}, opts).Decode(&cutoff); err != nil {
		return CleanupResult{}, errors.Wrap(err, "unable to find the cleanup cutoff document")
	}

	deleted, err := s.DeleteWhere(ctx, bson.M{"_id": bson.M{"$lt": cutoff.ID}})
	if err != nil {
		return CleanupResult{}, err
	}
	log.Infof("[Cleanup]: Deleted %v documents, kept the latest %v", deleted, keep)
	return CleanupResult{Performed: true, Deleted: deleted, Remaining: total - deleted}, nil
}

// AutoCleanup runs CleanupKeepLatest only when the collection has grown past
// the threshold.
func (s *Store) AutoCleanup(ctx context.Context, threshold, keep int64) (CleanupResult, error) {
	total, err := s.Count(ctx, nil)
	if err != nil {
		return CleanupResult{}, err
	}
	if total <= threshold {
		log.Infof("[Cleanup]: %v documents is within the threshold of %v", total, threshold)
		return CleanupResult{Remaining: total}, nil
	}
	log.Infof("[Cleanup]: %v documents exceeds the threshold of %v, cleaning up", total, threshold)
	return s.CleanupKeepLatest(ctx, keep, false)
}
