package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fekuna/trimstore-service/internal/cart"
	carthandler "github.com/fekuna/trimstore-service/internal/cart/handler"
	"github.com/fekuna/trimstore-service/internal/handlerutils"
	"github.com/fekuna/trimstore-service/internal/middlewares"
	"github.com/fekuna/trimstore-service/internal/order"
	"github.com/fekuna/trimstore-service/internal/order/dto"
	"github.com/fekuna/trimstore-service/internal/servererrors"
	"github.com/fekuna/trimstore-service/internal/validate"
	"github.com/fekuna/trimstore-service/pkg/logger"
)

type OrderHandler struct {
	uc     order.UseCase
	mw     *middlewares.Middleware
	logger logger.ZapLogger
}

func NewOrderHandler(uc order.UseCase, mw *middlewares.Middleware, log logger.ZapLogger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		mw:     mw,
		logger: log,
	}
}

func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.mw.ErrorHandler(h.placeOrder))
		r.Get("/{orderID}", h.mw.ErrorHandler(h.getOrder))
		r.Patch("/{orderID}/status", h.mw.ErrorHandler(h.updateStatus))
	})
}

// placeOrder checks out the cart named by the X-Cart-ID header.
func (h *OrderHandler) placeOrder(w http.ResponseWriter, r *http.Request) error {
	cartID := r.Header.Get(carthandler.CartIDHeader)
	if _, err := uuid.Parse(cartID); err != nil {
		return servererrors.New(http.StatusBadRequest, "invalid cart id", carthandler.CartIDHeader)
	}

	var input dto.PlaceOrderInput
	if err := handlerutils.ParseJSON(r, &input); err != nil {
		return servererrors.New(http.StatusBadRequest, servererrors.ErrInvalidRequestPayload.Error(), err.Error())
	}
	input.CartID = cartID
	if err := validate.StructFields(&input); err != nil {
		return servererrors.New(http.StatusUnprocessableEntity, servererrors.ErrValidationFailed.Error(), err)
	}

	o, err := h.uc.PlaceOrder(r.Context(), &input)
	if err != nil {
		return mapError(err)
	}

	h.logger.Info("checkout completed", zap.String("order_id", o.ID), zap.String("cart_id", cartID))
	return handlerutils.WriteSuccessJSON(w, http.StatusCreated, "order placed", o)
}

func (h *OrderHandler) getOrder(w http.ResponseWriter, r *http.Request) error {
	o, err := h.uc.GetOrder(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		return mapError(err)
	}
	return handlerutils.WriteSuccessJSON(w, http.StatusOK, "order found", o)
}

func (h *OrderHandler) updateStatus(w http.ResponseWriter, r *http.Request) error {
	var input dto.UpdateStatusInput
	if err := handlerutils.ParseJSON(r, &input); err != nil {
		return servererrors.New(http.StatusBadRequest, servererrors.ErrInvalidRequestPayload.Error(), err.Error())
	}
	input.ID = chi.URLParam(r, "orderID")
	if err := validate.StructFields(&input); err != nil {
		return servererrors.New(http.StatusUnprocessableEntity, servererrors.ErrValidationFailed.Error(), err)
	}

	o, err := h.uc.UpdateStatus(r.Context(), &input)
	if err != nil {
		return mapError(err)
	}
	return handlerutils.WriteSuccessJSON(w, http.StatusOK, "order status updated", o)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, order.ErrNotFound):
		return servererrors.New(http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, order.ErrInvalidTransition):
		return servererrors.New(http.StatusConflict, err.Error(), nil)
	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrLineUnavailable),
		errors.Is(err, order.ErrInsufficientStock),
		errors.Is(err, cart.ErrInvalidItem):
		return servererrors.New(http.StatusUnprocessableEntity, err.Error(), nil)
	}
	return err
}
