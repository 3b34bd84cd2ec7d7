package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fekuna/trimstore-service/internal/cart"
	"github.com/fekuna/trimstore-service/internal/cart/dto"
	"github.com/fekuna/trimstore-service/internal/handlerutils"
	"github.com/fekuna/trimstore-service/internal/middlewares"
	"github.com/fekuna/trimstore-service/internal/servererrors"
	"github.com/fekuna/trimstore-service/internal/validate"
	"github.com/fekuna/trimstore-service/pkg/logger"
)

// CartIDHeader identifies the client's cart. A request without one gets a
// fresh id, echoed back in the response header.
const CartIDHeader = "X-Cart-ID"

type CartHandler struct {
	uc     cart.UseCase
	mw     *middlewares.Middleware
	logger logger.ZapLogger
}

func NewCartHandler(uc cart.UseCase, mw *middlewares.Middleware, log logger.ZapLogger) *CartHandler {
	return &CartHandler{
		uc:     uc,
		mw:     mw,
		logger: log,
	}
}

func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.mw.ErrorHandler(h.getCart))
		r.Delete("/", h.mw.ErrorHandler(h.clearCart))
		r.Post("/items", h.mw.ErrorHandler(h.addItem))
		r.Patch("/items", h.mw.ErrorHandler(h.updateQuantity))
		r.Delete("/items", h.mw.ErrorHandler(h.removeItem))
	})
}

func (h *CartHandler) getCart(w http.ResponseWriter, r *http.Request) error {
	cartID, err := cartIDFrom(w, r)
	if err != nil {
		return err
	}
	view, err := h.uc.GetCart(r.Context(), cartID)
	if err != nil {
		return mapError(err)
	}
	return handlerutils.WriteSuccessJSON(w, http.StatusOK, "cart retrieved", view)
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request) error {
	cartID, err := cartIDFrom(w, r)
	if err != nil {
		return err
	}

	input := dto.AddItemInput{Quantity: 1}
	if err := handlerutils.ParseJSON(r, &input); err != nil {
		return servererrors.New(http.StatusBadRequest, servererrors.ErrInvalidRequestPayload.Error(), err.Error())
	}
	input.CartID = cartID
	if err := validate.StructFields(&input); err != nil {
		return servererrors.New(http.StatusUnprocessableEntity, servererrors.ErrValidationFailed.Error(), err)
	}

	view, err := h.uc.AddItem(r.Context(), &input)
	if err != nil {
		return mapError(err)
	}
	return handlerutils.WriteSuccessJSON(w, http.StatusOK, "item added", view)
}

func (h *CartHandler) updateQuantity(w http.ResponseWriter, r *http.Request) error {
	cartID, err := cartIDFrom(w, r)
	if err != nil {
		return err
	}

	var input dto.UpdateQuantityInput
	if err := handlerutils.ParseJSON(r, &input); err != nil {
		return servererrors.New(http.StatusBadRequest, servererrors.ErrInvalidRequestPayload.Error(), err.Error())
	}
	input.CartID = cartID
	if err := validate.StructFields(&input); err != nil {
		return servererrors.New(http.StatusUnprocessableEntity, servererrors.ErrValidationFailed.Error(), err)
	}

	view, err := h.uc.UpdateQuantity(r.Context(), &input)
	if err != nil {
		return mapError(err)
	}
	return handlerutils.WriteSuccessJSON(w, http.StatusOK, "quantity updated", view)
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request) error {
	cartID, err := cartIDFrom(w, r)
	if err != nil {
		return err
	}
	key := r.URL.Query().Get("key")
	if key == "" {
		return servererrors.New(http.StatusBadRequest, servererrors.ErrURLQueryParams.Error(), "key")
	}

	view, err := h.uc.RemoveItem(r.Context(), cartID, key)
	if err != nil {
		return mapError(err)
	}
	return handlerutils.WriteSuccessJSON(w, http.StatusOK, "item removed", view)
}

func (h *CartHandler) clearCart(w http.ResponseWriter, r *http.Request) error {
	cartID, err := cartIDFrom(w, r)
	if err != nil {
		return err
	}
	if err := h.uc.ClearCart(r.Context(), cartID); err != nil {
		return err
	}
	return handlerutils.WriteSuccessJSON(w, http.StatusOK, "cart cleared", nil)
}

func cartIDFrom(w http.ResponseWriter, r *http.Request) (string, error) {
	id := r.Header.Get(CartIDHeader)
	if id == "" {
		id = uuid.New().String()
	} else if _, err := uuid.Parse(id); err != nil {
		return "", servererrors.New(http.StatusBadRequest, "invalid cart id", CartIDHeader)
	}
	w.Header().Set(CartIDHeader, id)
	return id, nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, cart.ErrInvalidKey):
		return servererrors.New(http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, cart.ErrLineNotFound), errors.Is(err, cart.ErrProductUnavailable):
		return servererrors.New(http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidItem),
		errors.Is(err, cart.ErrOutOfStock),
		errors.Is(err, cart.ErrVariantUnavailable):
		return servererrors.New(http.StatusUnprocessableEntity, err.Error(), nil)
	}
	return err
}
