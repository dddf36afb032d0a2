package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/velora/shipping-engine/internal/core/domain"
)

const collectionCalculations = "shipping_calculations"

// recordTTL is how long calculation records are retained before MongoDB
// expires them. Retention is a storage policy, not engine logic.
const recordTTL = 24 * time.Hour

// CalculationRepository persists calculation records and serves distance
// cache reads against the same collection: the newest record for a
// vendor/destination pair is the cache entry.
type CalculationRepository struct {
	col *mongo.Collection
}

func NewCalculationRepository(db *mongo.Database) *CalculationRepository {
	return &CalculationRepository{col: db.Collection(collectionCalculations)}
}

// Insert appends one calculation record. Records are never updated in place.
func (r *CalculationRepository) Insert(ctx context.Context, rec *domain.CalculationRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, rec)
	if err != nil {
		return err
	}
	return nil
}

// FindRecentDistance returns the distance embedded in the newest record for
// the same vendor and destination coordinates created at or after since.
// A miss is (nil, nil).
func (r *CalculationRepository) FindRecentDistance(ctx context.Context, vendorID string, lat, lng float64, since time.Time) (*domain.DistanceResult, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"vendor_id":             vendorID,
		"destination.latitude":  lat,
		"destination.longitude": lng,
		"created_at":            bson.M{"$gte": since},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var rec domain.CalculationRecord
	err := r.col.FindOne(ctx, filter, opts).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &rec.Distance, nil
}

// EnsureIndexes creates the cache lookup index and the TTL index that
// implements the 24 hour retention window.
func (r *CalculationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "vendor_id", Value: 1},
				{Key: "destination.latitude", Value: 1},
				{Key: "destination.longitude", Value: 1},
				{Key: "created_at", Value: -1},
			},
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(recordTTL.Seconds())),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
