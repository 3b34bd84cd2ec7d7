package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/trimstore-service/internal/handlerutils"
	"github.com/fekuna/trimstore-service/internal/inventory"
	"github.com/fekuna/trimstore-service/internal/inventory/dto"
	"github.com/fekuna/trimstore-service/internal/middlewares"
	"github.com/fekuna/trimstore-service/internal/model"
	"github.com/fekuna/trimstore-service/internal/servererrors"
	"github.com/fekuna/trimstore-service/internal/validate"
	"github.com/fekuna/trimstore-service/pkg/logger"
)

// UserIDHeader optionally names the operator recorded on a movement.
const UserIDHeader = "X-User-ID"

type InventoryHandler struct {
	uc     inventory.UseCase
	mw     *middlewares.Middleware
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, mw *middlewares.Middleware, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		mw:     mw,
		logger: log,
	}
}

func (h *InventoryHandler) RegisterRoutes(r chi.Router) {
	r.Route("/inventory", func(r chi.Router) {
		r.Post("/adjust", h.mw.ErrorHandler(h.adjustStock))
		r.Get("/movements", h.mw.ErrorHandler(h.listMovements))
	})
}

func (h *InventoryHandler) adjustStock(w http.ResponseWriter, r *http.Request) error {
	var input dto.AdjustStockInput
	if err := handlerutils.ParseJSON(r, &input); err != nil {
		return servererrors.New(http.StatusBadRequest, servererrors.ErrInvalidRequestPayload.Error(), err.Error())
	}
	if err := validate.StructFields(&input); err != nil {
		return servererrors.New(http.StatusUnprocessableEntity, servererrors.ErrValidationFailed.Error(), err)
	}
	input.UserID = r.Header.Get(UserIDHeader)

	movement, err := h.uc.AdjustStock(r.Context(), &input)
	if err != nil {
		return mapError(err)
	}
	return handlerutils.WriteSuccessJSON(w, http.StatusOK, "stock adjusted", movement)
}

type movementsResponse struct {
	Movements []model.InventoryMovement `json:"movements"`
	Total     int                       `json:"total"`
	Page      int                       `json:"page"`
	PageSize  int                       `json:"pageSize"`
}

func (h *InventoryHandler) listMovements(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	filters := &dto.MovementFilters{
		ProductID:    q.Get("productId"),
		SKU:          q.Get("sku"),
		MovementType: q.Get("type"),
		Page:         1,
		PageSize:     50,
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
	for name, dst := range map[string]**time.Time{"from": &filters.StartDate, "to": &filters.EndDate} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return servererrors.New(http.StatusBadRequest, servererrors.ErrURLQueryParams.Error(), name)
		}
		*dst = &t
	}

	items, total, err := h.uc.ListMovements(r.Context(), filters)
	if err != nil {
		return err
	}
	if items == nil {
		items = []model.InventoryMovement{}
	}

	return handlerutils.WriteSuccessJSON(w, http.StatusOK, "movements retrieved", movementsResponse{
		Movements: items,
		Total:     total,
		Page:      filters.Page,
		PageSize:  filters.PageSize,
	})
}

func mapError(err error) error {
	switch {
	case errors.Is(err, inventory.ErrProductNotFound), errors.Is(err, inventory.ErrSKUNotFound):
		return servererrors.New(http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, inventory.ErrInsufficientStock), errors.Is(err, inventory.ErrInvalidAdjustment):
		return servererrors.New(http.StatusUnprocessableEntity, err.Error(), nil)
	case errors.Is(err, inventory.ErrBusy), errors.Is(err, inventory.ErrConcurrentUpdate):
		return servererrors.New(http.StatusServiceUnavailable, servererrors.ErrServiceBusy.Error(), nil)
	}
	return err
}
