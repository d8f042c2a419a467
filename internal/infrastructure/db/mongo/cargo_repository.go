package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/airrush/charter-api/internal/core/domain"
)

const cargoCollection = "cargo_bookings"

// CargoRepository implements ports.CargoRepository on MongoDB.
type CargoRepository struct {
	col *mongo.Collection
}

func NewCargoRepository(db *mongo.Database) *CargoRepository {
	return &CargoRepository{col: db.Collection(cargoCollection)}
}

// EnsureIndexes creates the unique airwaybill index. Safe to call on every
// startup.
func (r *CargoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "airwaybill", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("cargo indexes: %w", err)
	}
	return nil
}

func (r *CargoRepository) Insert(ctx context.Context, c *domain.CargoBooking) error {
	if c.ID == "" {
		c.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, c); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateAirwaybill
		}
		return fmt.Errorf("insert cargo: %w", err)
	}
	return nil
}

func (r *CargoRepository) FindByAirwaybill(ctx context.Context, airwaybill string) (*domain.CargoBooking, error) {
	var c domain.CargoBooking
	err := r.col.FindOne(ctx, bson.M{"airwaybill": airwaybill}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrCargoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cargo: %w", err)
	}
	return &c, nil
}

func (r *CargoRepository) FindAll(ctx context.Context) ([]*domain.CargoBooking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list cargo: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.CargoBooking
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode cargo list: %w", err)
	}
	return out, nil
}

// Replace overwrites the document matching the airwaybill and the version
// the caller loaded. A miss with an existing document means a concurrent
// writer won, surfaced as domain.ErrConflict.
func (r *CargoRepository) Replace(ctx context.Context, c *domain.CargoBooking) error {
	loaded := c.Version
	c.Version = loaded + 1

	filter := bson.M{"airwaybill": c.Airwaybill, "version": loaded}
	res, err := r.col.ReplaceOne(ctx, filter, c)
	if err != nil {
		c.Version = loaded
		return fmt.Errorf("replace cargo: %w", err)
	}
	if res.MatchedCount == 0 {
		c.Version = loaded
		n, err := r.col.CountDocuments(ctx, bson.M{"airwaybill": c.Airwaybill})
		if err != nil {
			return fmt.Errorf("replace cargo: %w", err)
		}
		if n == 0 {
			return domain.ErrCargoNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

func (r *CargoRepository) Delete(ctx context.Context, airwaybill string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"airwaybill": airwaybill})
	if err != nil {
		return fmt.Errorf("delete cargo: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCargoNotFound
	}
	return nil
}
