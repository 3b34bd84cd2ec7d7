package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fekuna/trimstore-service/internal/model"
	"github.com/fekuna/trimstore-service/internal/product/dto"
)

const productCollection = "products"

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{coll: db.Collection(productCollection)}
}

func (r *MongoRepository) Create(ctx context.Context, p *model.Product) error {
	_, err := r.coll.InsertOne(ctx, p)
	return err
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *MongoRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.IsActive != nil {
		filter["is_active"] = *f.IsActive
	}
	if f.SearchQuery != "" {
		pattern := containsPattern(f.SearchQuery)
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
			bson.M{"variants.sku": pattern},
		}
	}

	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(sortFor(f))
	if f.PageSize > 0 {
		page := max(f.Page, 1)
		opts.SetLimit(int64(f.PageSize)).SetSkip(int64((page - 1) * f.PageSize))
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	products := []model.Product{}
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, int(count), nil
}

func (r *MongoRepository) Update(ctx context.Context, p *model.Product, prev time.Time) (bool, error) {
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.ID, "updated_at": prev}, p)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func sortFor(f *dto.ProductFilters) bson.D {
	field := "created_at"
	switch f.SortBy {
	case "name":
		field = "name"
	case "price":
		field = "base_price"
	}
	dir := -1
	if f.SortBy != "" && f.SortOrder == "asc" {
		dir = 1
	}
	return bson.D{{Key: field, Value: dir}}
}

func containsPattern(q string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(q), "$options": "i"}
}
