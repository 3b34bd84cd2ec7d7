package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fekuna/trimstore-service/internal/model"
	"github.com/fekuna/trimstore-service/internal/product"
	"github.com/fekuna/trimstore-service/internal/product/dto"
	"github.com/fekuna/trimstore-service/internal/variant"
	"github.com/fekuna/trimstore-service/pkg/cache"
	"github.com/fekuna/trimstore-service/pkg/logger"
	"github.com/fekuna/trimstore-service/pkg/search"
)

const (
	indexName      = "products"
	listCacheTTL   = 5 * time.Minute
	updateAttempts = 3
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"name": { "type": "text" },
			"description": { "type": "text" },
			"category": { "type": "keyword" },
			"price": { "type": "double" },
			"isActive": { "type": "boolean" },
			"variantPricing": {
				"properties": {
					"sku": { "type": "keyword" },
					"color": { "type": "keyword" },
					"size": { "type": "keyword" }
				}
			},
			"created_at": { "type": "date" }
		}
	}
}`

type productUseCase struct {
	repo   product.Repository
	cache  *cache.RedisClient
	es     *search.Client
	logger logger.ZapLogger
}

// NewProductUseCase accepts a nil cache or es; the list cache and search
// index are then skipped.
func NewProductUseCase(repo product.Repository, cache *cache.RedisClient, es *search.Client, log logger.ZapLogger) product.UseCase {
	return &productUseCase{
		repo:   repo,
		cache:  cache,
		es:     es,
		logger: log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := checkStock(input.Category, input.Price, input.StockQty, input.Variants); err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now()

	p := &model.Product{
		BaseModel:    model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		Name:         input.Name,
		Description:  optional(input.Description),
		Category:     input.Category,
		BasePrice:    input.Price,
		BaseStockQty: input.StockQty,
		ImageURL:     input.ImageURL,
		IsActive:     true,
		Variants:     prepareVariants(id, input.Variants),
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateProductCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (uc *productUseCase) GetProductView(ctx context.Context, input *dto.ProductViewInput) (*dto.ProductView, error) {
	p, err := uc.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, product.ErrNotFound
	}
	return BuildView(p, input.Selection, input.PreviousSKU), nil
}

// BuildView resolves sel against p and assembles the detail payload. An
// empty selection with no previous variant starts from the first variant.
func BuildView(p *model.Product, sel variant.Selection, previousSKU string) *dto.ProductView {
	ix := variant.NewIndex(p.Variants, p.Category, p.ImageURL)
	view := &dto.ProductView{
		Product: p,
		Match:   variant.MatchNone.String(),
		Price:   p.BasePrice,
		Image:   p.ImageURL,
		Gallery: ix.Images(),
	}

	if !p.HasVariants() {
		view.Options = ix.Options(variant.Selection{})
		view.Availability = variant.Aggregate(p, nil)
		return view
	}

	axes := variant.AxesFor(p.Category)
	sel = sel.Normalize().Restrict(axes)
	r := variant.NewResolver(p.Variants, p.Category)

	var res variant.Resolution
	if sel.IsEmpty() && previousSKU == "" {
		sel, res = r.Seed()
	} else {
		res = r.Resolve(sel, findBySKU(p.Variants, previousSKU))
		if res.Match != variant.MatchExact {
			sel = variant.SelectionOf(*res.Variant).Restrict(axes)
		}
	}

	v := res.Variant
	view.Selection = sel
	view.Options = ix.Options(sel)
	view.Variant = v
	view.Match = res.Match.String()
	view.Price = v.Price
	if img, ok := variant.NormalizeImagePath(v.Image); ok {
		view.Image = img
	}
	view.Availability = variant.Aggregate(p, v)
	return view
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey, err := generateCacheKey(filters)
	if err == nil && uc.cache != nil {
		val, err := uc.cache.Client.Get(ctx, cacheKey).Result()
		if err == nil {
			var result struct {
				Products []model.Product
				Count    int
			}
			if err := json.Unmarshal([]byte(val), &result); err == nil {
				return result.Products, result.Count, nil
			}
		}
	}

	if filters.SearchQuery != "" && uc.es != nil {
		products, total, err := uc.search(ctx, filters)
		if err == nil {
			return products, total, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if cacheKey != "" && uc.cache != nil {
		cacheData := struct {
			Products []model.Product
			Count    int
		}{
			Products: products,
			Count:    count,
		}
		if data, err := json.Marshal(cacheData); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, listCacheTTL)
		}
	}

	return products, count, nil
}

func (uc *productUseCase) search(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	must := []map[string]interface{}{
		{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", filters.SearchQuery),
				"fields": []string{"name^3", "description", "variantPricing.sku"},
			},
		},
	}
	if filters.Category != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"category": filters.Category},
		})
	}
	if filters.IsActive != nil {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"isActive": *filters.IsActive},
		})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
	}
	if filters.PageSize > 0 {
		q["size"] = filters.PageSize
		if filters.Page > 1 {
			q["from"] = (filters.Page - 1) * filters.PageSize
		}
	}

	res, err := uc.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, 0, err
	}

	products := make([]model.Product, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var p model.Product
		if err := json.Unmarshal(hit.Source, &p); err == nil {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

// UpdateProduct rewrites the catalog fields of a product. Stock is owned by
// the inventory service: variants that survive the edit keep their stored
// stock, and only new variants take the submitted stockQty. The write is a
// compare-and-set on updated_at, retried when a stock movement lands first.
func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	for attempt := 1; attempt <= updateAttempts; attempt++ {
		p, err := uc.GetProduct(ctx, input.ID)
		if err != nil {
			return nil, err
		}
		if err := checkStock(input.Category, input.Price, input.StockQty, input.Variants); err != nil {
			return nil, err
		}

		prev := p.UpdatedAt
		applyUpdate(p, input)

		ok, err := uc.repo.Update(ctx, p, prev)
		if err != nil {
			return nil, err
		}
		if ok {
			go uc.invalidateProductCache(context.Background())
			go uc.syncToElastic(context.Background(), p)
			return p, nil
		}

		uc.logger.Warn("product changed during update, retrying",
			zap.String("product_id", input.ID), zap.Int("attempt", attempt))
	}
	return nil, product.ErrConcurrentUpdate
}

func applyUpdate(p *model.Product, input *dto.UpdateProductInput) {
	p.Name = input.Name
	p.Description = optional(input.Description)
	p.Category = input.Category
	p.BasePrice = input.Price
	p.ImageURL = input.ImageURL
	p.IsActive = input.IsActive
	p.Variants = carryStock(p.Variants, prepareVariants(p.ID, input.Variants))
	if p.BaseStockQty == nil && input.StockQty != nil {
		n := *input.StockQty
		p.BaseStockQty = &n
		p.InStock = nil
	}
	p.UpdatedAt = time.Now()
}

// carryStock copies the stock of every stored variant into its edited
// counterpart, matched by SKU and then by attributes.
func carryStock(stored []model.Variant, edited model.VariantList) model.VariantList {
	for i := range edited {
		old := findBySKU(stored, edited[i].SKU)
		if old == nil {
			old = findByKey(stored, edited[i].Key())
		}
		if old != nil {
			edited[i].StockQty = old.StockQty
			edited[i].InStock = old.InStock
		}
	}
	return edited
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return nil // already deleted
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	go uc.invalidateProductCache(context.Background())
	if uc.es != nil {
		go func() {
			if err := uc.es.Delete(context.Background(), indexName, id); err != nil {
				uc.logger.Error("failed to delete product from ES", zap.String("product_id", id), zap.Error(err))
			}
		}()
	}

	return nil
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	_ = uc.es.CreateIndex(ctx, indexName, indexMapping)

	if err := uc.es.Index(ctx, indexName, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	keys, err := uc.cache.Client.Keys(ctx, "products:list:*").Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}

func generateCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%x", md5.Sum(data)), nil
}

// checkStock validates the price and stock a product is written with. A
// variant product is priced per variant, so the base price is not checked.
func checkStock(category string, price decimal.Decimal, stockQty *int, variants []model.Variant) error {
	if len(variants) > 0 {
		return variant.Validate(category, variants)
	}
	if !price.IsPositive() {
		return product.ErrInvalidPrice
	}
	if stockQty != nil && *stockQty < 0 {
		return product.ErrInvalidStock
	}
	return nil
}

// prepareVariants gives every variant a SKU and drops the legacy inStock
// flag, since new writes always carry stockQty.
func prepareVariants(productID string, variants []model.Variant) model.VariantList {
	out := variant.AssignSKUs(productID, variants)
	for i := range out {
		out[i].InStock = nil
	}
	return out
}

func findBySKU(variants []model.Variant, sku string) *model.Variant {
	if sku == "" {
		return nil
	}
	for i := range variants {
		if variants[i].SKU == sku {
			return &variants[i]
		}
	}
	return nil
}

func findByKey(variants []model.Variant, key model.VariantKey) *model.Variant {
	for i := range variants {
		if variant.SameKey(variants[i].Key(), key) {
			return &variants[i]
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
