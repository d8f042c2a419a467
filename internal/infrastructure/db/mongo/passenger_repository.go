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

const passengerCollection = "passenger_bookings"

// PassengerRepository implements ports.PassengerRepository on MongoDB.
type PassengerRepository struct {
	col *mongo.Collection
}

func NewPassengerRepository(db *mongo.Database) *PassengerRepository {
	return &PassengerRepository{col: db.Collection(passengerCollection)}
}

func (r *PassengerRepository) EnsureIndexes(ctx context.Context) error {
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
		return fmt.Errorf("passenger indexes: %w", err)
	}
	return nil
}

func (r *PassengerRepository) Insert(ctx context.Context, p *domain.PassengerBooking) error {
	if p.ID == "" {
		p.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateAirwaybill
		}
		return fmt.Errorf("insert passenger: %w", err)
	}
	return nil
}

func (r *PassengerRepository) FindByAirwaybill(ctx context.Context, airwaybill string) (*domain.PassengerBooking, error) {
	var p domain.PassengerBooking
	err := r.col.FindOne(ctx, bson.M{"airwaybill": airwaybill}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrPassengerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find passenger: %w", err)
	}
	return &p, nil
}

func (r *PassengerRepository) FindAll(ctx context.Context) ([]*domain.PassengerBooking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list passengers: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.PassengerBooking
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode passenger list: %w", err)
	}
	return out, nil
}

func (r *PassengerRepository) Replace(ctx context.Context, p *domain.PassengerBooking) error {
	loaded := p.Version
	p.Version = loaded + 1

	filter := bson.M{"airwaybill": p.Airwaybill, "version": loaded}
	res, err := r.col.ReplaceOne(ctx, filter, p)
	if err != nil {
		p.Version = loaded
		return fmt.Errorf("replace passenger: %w", err)
	}
	if res.MatchedCount == 0 {
		p.Version = loaded
		n, err := r.col.CountDocuments(ctx, bson.M{"airwaybill": p.Airwaybill})
		if err != nil {
			return fmt.Errorf("replace passenger: %w", err)
		}
		if n == 0 {
			return domain.ErrPassengerNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

func (r *PassengerRepository) Delete(ctx context.Context, airwaybill string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"airwaybill": airwaybill})
	if err != nil {
		return fmt.Errorf("delete passenger: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrPassengerNotFound
	}
	return nil
}
