package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fekuna/trimstore-service/internal/inventory"
	"github.com/fekuna/trimstore-service/internal/inventory/dto"
	"github.com/fekuna/trimstore-service/internal/model"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) AdjustStockWithMovement(ctx context.Context, m *model.InventoryMovement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var p model.Product
	err = tx.GetContext(ctx, &p, `SELECT * FROM products WHERE id = $1 FOR UPDATE`, m.ProductID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return inventory.ErrProductNotFound
		}
		return err
	}

	before, after, err := inventory.ApplyDelta(&p, m.SKU, m.QuantityChange)
	if err != nil {
		return err
	}
	m.QuantityBefore, m.QuantityAfter = before, after
	p.UpdatedAt = time.Now()

	_, err = tx.NamedExecContext(ctx, `
        UPDATE products
        SET variants = :variants,
            base_stock_qty = :base_stock_qty,
            in_stock = :in_stock,
            updated_at = :updated_at
        WHERE id = :id
    `, &p)
	if err != nil {
		return err
	}

	_, err = tx.NamedExecContext(ctx, `
        INSERT INTO inventory_movements (
            id, product_id, sku, movement_type, quantity_change, quantity_before,
            quantity_after, reference_type, reference_id, notes, created_by, created_at
        )
        VALUES (
            :id, :product_id, :sku, :movement_type, :quantity_change, :quantity_before,
            :quantity_after, :reference_type, :reference_id, :notes, :created_by, :created_at
        )
    `, m)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PGRepository) ListMovements(ctx context.Context, f *dto.MovementFilters) ([]model.InventoryMovement, int, error) {
	var items []model.InventoryMovement
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != "" {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = f.ProductID
	}
	if f.SKU != "" {
		conditions = append(conditions, "sku = :sku")
		args["sku"] = f.SKU
	}
	if f.MovementType != "" {
		conditions = append(conditions, "movement_type = :movement_type")
		args["movement_type"] = f.MovementType
	}
	if f.StartDate != nil {
		conditions = append(conditions, "created_at >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "created_at < :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM inventory_movements"+whereClause, args)
	if err != nil {
		return nil, 0, err
	}
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			rows.Close()
			return nil, 0, err
		}
	}
	rows.Close()

	query := "SELECT * FROM inventory_movements" + whereClause + " ORDER BY created_at DESC"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &items, args)
	return items, count, err
}
