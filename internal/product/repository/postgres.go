package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fekuna/trimstore-service/internal/model"
	"github.com/fekuna/trimstore-service/internal/product/dto"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, name, description, category, base_price, base_stock_qty,
            in_stock, image_url, is_active, variants, created_at, updated_at
        )
        VALUES (
            :id, :name, :description, :category, :base_price, :base_stock_qty,
            :in_stock, :image_url, :is_active, :variants, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := r.DB.GetContext(ctx, &p, `SELECT * FROM products WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	var products []model.Product
	var count int

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = f.Category
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.SearchQuery != "" {
		// variants is searched as text so a SKU fragment still hits
		conditions = append(conditions, "(name ILIKE :search OR description ILIKE :search OR variants::text ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	rows, err := r.DB.NamedQueryContext(ctx, "SELECT count(*) FROM products"+whereClause, args)
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

	query := fmt.Sprintf("SELECT * FROM products%s ORDER BY %s", whereClause, orderBy(f))
	if f.PageSize > 0 {
		page := max(f.Page, 1)
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, (page-1)*f.PageSize)
	}

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &products, args); err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product, prev time.Time) (bool, error) {
	query := `
        UPDATE products
        SET name = :name,
            description = :description,
            category = :category,
            base_price = :base_price,
            base_stock_qty = :base_stock_qty,
            in_stock = :in_stock,
            image_url = :image_url,
            is_active = :is_active,
            variants = :variants,
            updated_at = :updated_at
        WHERE id = :id AND updated_at = :prev_updated_at
    `
	arg := struct {
		*model.Product
		PrevUpdatedAt time.Time `db:"prev_updated_at"`
	}{p, prev}

	res, err := r.DB.NamedExecContext(ctx, query, arg)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *PGRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	return err
}

// orderBy whitelists the sortable columns.
func orderBy(f *dto.ProductFilters) string {
	if f.SortBy == "" {
		return "created_at DESC"
	}
	col := "created_at"
	switch f.SortBy {
	case "name":
		col = "name"
	case "price":
		col = "base_price"
	}
	if strings.ToLower(f.SortOrder) == "asc" {
		return col + " ASC"
	}
	return col + " DESC"
}
