package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fekuna/trimstore-service/internal/cart"
	"github.com/fekuna/trimstore-service/internal/events"
	"github.com/fekuna/trimstore-service/internal/model"
	"github.com/fekuna/trimstore-service/internal/order"
	"github.com/fekuna/trimstore-service/internal/order/dto"
	"github.com/fekuna/trimstore-service/internal/product"
	"github.com/fekuna/trimstore-service/internal/variant"
	"github.com/fekuna/trimstore-service/pkg/logger"
)

type orderUseCase struct {
	repo      order.Repository
	carts     cart.Store
	products  product.Repository
	publisher order.Publisher
	logger    logger.ZapLogger
}

// NewOrderUseCase builds the order use case. A nil publisher skips the
// OrderPlaced event, leaving stock untouched.
func NewOrderUseCase(
	repo order.Repository,
	carts cart.Store,
	products product.Repository,
	publisher order.Publisher,
	log logger.ZapLogger,
) order.UseCase {
	return &orderUseCase{
		repo:      repo,
		carts:     carts,
		products:  products,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *orderUseCase) PlaceOrder(ctx context.Context, input *dto.PlaceOrderInput) (*model.Order, error) {
	l, err := cart.Open(ctx, uc.carts, input.CartID)
	if err != nil {
		return nil, err
	}
	if l.Len() == 0 {
		return nil, order.ErrEmptyCart
	}

	items := l.Items()
	lines := make(model.OrderLines, 0, len(items))
	for _, item := range items {
		if err := uc.recheck(ctx, item); err != nil {
			return nil, err
		}
		lines = append(lines, model.OrderLine{
			ProductID:  item.ProductID,
			SKU:        item.SKU,
			VariantKey: item.VariantKey,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
			Image:      item.Image,
			Category:   item.Category,
		})
	}

	now := time.Now()
	o := &model.Order{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CartID:       input.CartID,
		ContactName:  input.ContactName,
		ContactEmail: input.ContactEmail,
		ShippingAddr: input.ShippingAddress,
		Items:        lines,
		Total:        l.Total(),
		Status:       model.OrderStatusPending,
	}

	if err := uc.repo.Create(ctx, o); err != nil {
		uc.logger.Error("failed to create order", zap.String("cart_id", input.CartID), zap.Error(err))
		return nil, err
	}

	if err := uc.publishPlaced(ctx, o); err != nil {
		uc.logger.Error("failed to publish OrderPlaced", zap.String("order_id", o.ID), zap.Error(err))
	}

	if err := l.Clear(ctx); err != nil {
		uc.logger.Warn("order placed but cart not cleared", zap.String("order_id", o.ID), zap.String("cart_id", input.CartID), zap.Error(err))
	}

	uc.logger.Info("order placed",
		zap.String("order_id", o.ID),
		zap.Int("lines", len(o.Items)),
		zap.String("total", o.Total.String()),
	)
	return o, nil
}

// recheck resolves a cart line against the current catalog. The line keeps
// its frozen price; only its availability is checked.
func (uc *orderUseCase) recheck(ctx context.Context, item cart.LineItem) error {
	p, err := uc.products.FindByID(ctx, item.ProductID)
	if err != nil {
		return err
	}
	if p == nil || !p.IsActive {
		return fmt.Errorf("%w: %s", order.ErrLineUnavailable, item.Name)
	}

	fresh, stock, err := cart.LineFor(p, variant.FromKey(item.VariantKey), item.Quantity)
	switch {
	case errors.Is(err, cart.ErrOutOfStock):
		return fmt.Errorf("%w: %s", order.ErrInsufficientStock, item.Name)
	case err != nil:
		return fmt.Errorf("%w: %s", order.ErrLineUnavailable, item.Name)
	}
	if !fresh.Key().Equal(item.Key()) {
		return fmt.Errorf("%w: %s", order.ErrLineUnavailable, item.Name)
	}
	if stock != nil && *stock < item.Quantity {
		return fmt.Errorf("%w: %s", order.ErrInsufficientStock, item.Name)
	}
	return nil
}

func (uc *orderUseCase) publishPlaced(ctx context.Context, o *model.Order) error {
	if uc.publisher == nil {
		return nil
	}

	event := events.OrderPlacedEvent{
		EventID:   uuid.New().String(),
		EventType: events.OrderPlaced,
		Payload: events.OrderPayload{
			ID:     o.ID,
			CartID: o.CartID,
			Items:  make([]events.OrderItemPayload, 0, len(o.Items)),
		},
		Timestamp: o.CreatedAt,
	}
	for _, line := range o.Items {
		event.Payload.Items = append(event.Payload.Items, events.OrderItemPayload{
			ProductID: line.ProductID,
			SKU:       line.SKU,
			Quantity:  line.Quantity,
		})
	}

	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return uc.publisher.Publish(ctx, o.ID, value)
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, order.ErrNotFound
	}
	return o, nil
}

func (uc *orderUseCase) UpdateStatus(ctx context.Context, input *dto.UpdateStatusInput) (*model.Order, error) {
	o, err := uc.GetOrder(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if !order.CanTransition(o.Status, input.Status) {
		return nil, fmt.Errorf("%w: %s to %s", order.ErrInvalidTransition, o.Status, input.Status)
	}

	now := time.Now()
	ok, err := uc.repo.UpdateStatus(ctx, o.ID, o.Status, input.Status, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// status changed underneath us
		return nil, fmt.Errorf("%w: %s changed concurrently", order.ErrInvalidTransition, o.ID)
	}

	uc.logger.Info("order status updated",
		zap.String("order_id", o.ID),
		zap.String("from", o.Status),
		zap.String("to", input.Status),
	)
	o.Status = input.Status
	o.UpdatedAt = now
	return o, nil
}
