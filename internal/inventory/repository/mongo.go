package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fekuna/trimstore-service/internal/inventory"
	"github.com/fekuna/trimstore-service/internal/inventory/dto"
	"github.com/fekuna/trimstore-service/internal/model"
)

// MongoRepository updates stock with a compare-and-set on updated_at, so it
// works on a standalone server without multi-document transactions.
type MongoRepository struct {
	products  *mongo.Collection
	movements *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		products:  db.Collection("products"),
		movements: db.Collection("inventory_movements"),
	}
}

func (r *MongoRepository) AdjustStockWithMovement(ctx context.Context, m *model.InventoryMovement) error {
	var p model.Product
	if err := r.products.FindOne(ctx, bson.M{"_id": m.ProductID}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return inventory.ErrProductNotFound
		}
		return err
	}

	prevUpdatedAt := p.UpdatedAt
	before, after, err := inventory.ApplyDelta(&p, m.SKU, m.QuantityChange)
	if err != nil {
		return err
	}
	m.QuantityBefore, m.QuantityAfter = before, after
	p.UpdatedAt = time.Now()

	res, err := r.products.UpdateOne(ctx,
		bson.M{"_id": p.ID, "updated_at": prevUpdatedAt},
		bson.M{"$set": bson.M{
			"variants":       p.Variants,
			"base_stock_qty": p.BaseStockQty,
			"in_stock":       p.InStock,
			"updated_at":     p.UpdatedAt,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return inventory.ErrConcurrentUpdate
	}

	_, err = r.movements.InsertOne(ctx, m)
	return err
}

func (r *MongoRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	filter := bson.M{}
	if f.ProductID != "" {
		filter["product_id"] = f.ProductID
	}
	if f.SKU != "" {
		filter["sku"] = f.SKU
	}
	if f.MovementType != "" {
		filter["movement_type"] = f.MovementType
	}
	if f.StartDate != nil || f.EndDate != nil {
		window := bson.M{}
		if f.StartDate != nil {
			window["$gte"] = *f.StartDate
		}
		if f.EndDate != nil {
			window["$lt"] = *f.EndDate
		}
		filter["created_at"] = window
	}

	count, err := r.movements.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.PageSize > 0 {
		opts.SetLimit(int64(f.PageSize)).SetSkip(int64((max(f.Page, 1) - 1) * f.PageSize))
	}

	cur, err := r.movements.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	items := []model.InventoryMovement{}
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, err
	}
	return items, int(count), nil
}
