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

const collectionConfigs = "shipping_configs"

// ConfigRepository reads vendor shipping configurations from MongoDB.
type ConfigRepository struct {
	col *mongo.Collection
}

func NewConfigRepository(db *mongo.Database) *ConfigRepository {
	return &ConfigRepository{col: db.Collection(collectionConfigs)}
}

// GetActiveConfig returns the vendor's active configuration. The query always
// filters on is_active; an inactive config is reported exactly like a missing
// one.
func (r *ConfigRepository) GetActiveConfig(ctx context.Context, vendorID string) (*domain.ShippingConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"vendor_id": vendorID, "is_active": true}

	var cfg domain.ShippingConfig
	err := r.col.FindOne(ctx, filter).Decode(&cfg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, err
	}
	return &cfg, nil
}

// EnsureIndexes creates necessary indexes on the configs collection.
// The partial unique index backs the one-active-config-per-vendor invariant.
func (r *ConfigRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "vendor_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"is_active": true}),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
