package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fekuna/trimstore-service/internal/handlerutils"
	"github.com/fekuna/trimstore-service/internal/middlewares"
	"github.com/fekuna/trimstore-service/internal/model"
	"github.com/fekuna/trimstore-service/internal/product"
	"github.com/fekuna/trimstore-service/internal/product/dto"
	"github.com/fekuna/trimstore-service/internal/servererrors"
	"github.com/fekuna/trimstore-service/internal/validate"
	"github.com/fekuna/trimstore-service/internal/variant"
	"github.com/fekuna/trimstore-service/pkg/logger"
)

type ProductHandler struct {
	uc     product.UseCase
	mw     *middlewares.Middleware
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, mw *middlewares.Middleware, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		mw:     mw,
		logger: log,
	}
}

func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.mw.ErrorHandler(h.listProducts))
		r.Post("/", h.mw.ErrorHandler(h.createProduct))
		r.Get("/{productID}", h.mw.ErrorHandler(h.getProduct))
		r.Put("/{productID}", h.mw.ErrorHandler(h.updateProduct))
		r.Delete("/{productID}", h.mw.ErrorHandler(h.deleteProduct))
	})
}

type listResponse struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

func (h *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	filters := &dto.ProductFilters{
		Category:    q.Get("category"),
		SearchQuery: q.Get("q"),
		SortBy:      q.Get("sortBy"),
		SortOrder:   q.Get("sortOrder"),
		Page:        1,
		PageSize:    20,
	}
	if v := q.Get("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return servererrors.New(http.StatusBadRequest, servererrors.ErrURLQueryParams.Error(), "active")
		}
		filters.IsActive = &b
	}
	for name, dst := range map[string]*int{"page": &filters.Page, "pageSize": &filters.PageSize} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return servererrors.New(http.StatusBadRequest, servererrors.ErrURLQueryParams.Error(), name)
		}
		*dst = n
	}

	products, total, err := h.uc.ListProducts(r.Context(), filters)
	if err != nil {
		return err
	}
	if products == nil {
		products = []model.Product{}
	}

	return handlerutils.WriteSuccessJSON(w, http.StatusOK, "products retrieved", listResponse{
		Products: products,
		Total:    total,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	})
}

// getProduct returns the detail view. The query carries the current
// selection (size, color, pack, quantity) and prev, the SKU shown before.
func (h *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	input := &dto.ProductViewInput{
		ID: chi.URLParam(r, "productID"),
		Selection: variant.Selection{
			Size:     q.Get("size"),
			Color:    q.Get("color"),
			Pack:     q.Get("pack"),
			Quantity: q.Get("quantity"),
		},
		PreviousSKU: q.Get("prev"),
	}

	view, err := h.uc.GetProductView(r.Context(), input)
	if err != nil {
		return mapError(err)
	}
	return handlerutils.WriteSuccessJSON(w, http.StatusOK, "product found", view)
}

func (h *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) error {
	var input dto.CreateProductInput
	if err := handlerutils.ParseJSON(r, &input); err != nil {
		return servererrors.New(http.StatusBadRequest, servererrors.ErrInvalidRequestPayload.Error(), err.Error())
	}
	if err := validate.StructFields(&input); err != nil {
		return servererrors.New(http.StatusUnprocessableEntity, servererrors.ErrValidationFailed.Error(), err)
	}

	p, err := h.uc.CreateProduct(r.Context(), &input)
	if err != nil {
		return mapError(err)
	}

	h.logger.Info("product created", zap.String("product_id", p.ID), zap.Int("variants", len(p.Variants)))
	return handlerutils.WriteSuccessJSON(w, http.StatusCreated, "product created", p)
}

func (h *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) error {
	var input dto.UpdateProductInput
	if err := handlerutils.ParseJSON(r, &input); err != nil {
		return servererrors.New(http.StatusBadRequest, servererrors.ErrInvalidRequestPayload.Error(), err.Error())
	}
	input.ID = chi.URLParam(r, "productID")
	if err := validate.StructFields(&input); err != nil {
		return servererrors.New(http.StatusUnprocessableEntity, servererrors.ErrValidationFailed.Error(), err)
	}

	p, err := h.uc.UpdateProduct(r.Context(), &input)
	if err != nil {
		return mapError(err)
	}
	return handlerutils.WriteSuccessJSON(w, http.StatusOK, "product updated", p)
}

func (h *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) error {
	if err := h.uc.DeleteProduct(r.Context(), chi.URLParam(r, "productID")); err != nil {
		return err
	}
	return handlerutils.WriteSuccessJSON(w, http.StatusOK, "product deleted", nil)
}

func mapError(err error) error {
	var verrs variant.ValidationErrors
	switch {
	case errors.Is(err, product.ErrNotFound):
		return servererrors.New(http.StatusNotFound, err.Error(), nil)
	case errors.As(err, &verrs):
		details := make([]string, len(verrs))
		for i, fe := range verrs {
			details[i] = fe.Error()
		}
		return servererrors.New(http.StatusUnprocessableEntity, servererrors.ErrValidationFailed.Error(), details)
	case errors.Is(err, product.ErrInvalidPrice), errors.Is(err, product.ErrInvalidStock):
		return servererrors.New(http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, product.ErrConcurrentUpdate):
		return servererrors.New(http.StatusConflict, err.Error(), nil)
	}
	return err
}
