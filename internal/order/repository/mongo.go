package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fekuna/trimstore-service/internal/model"
)

const orderCollection = "orders"

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(orderCollection)}
}

func (r *MongoRepository) Create(ctx context.Context, o *model.Order) error {
	_, err := r.coll.InsertOne(ctx, o)
	return err
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *MongoRepository) UpdateStatus(ctx context.Context, id, from, to string, at time.Time) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": at}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
