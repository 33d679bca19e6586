package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"launchthat.app/portal/common/id"
	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/queue"
	"launchthat.app/portal/internal/store"
)

const (
	defaultCurrency       = "USD"
	defaultOrderListLimit = 50
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("order status transition not allowed")
)

type CreateOrderInput struct {
	CustomerEmail string
	Currency      string
	Items         []model.OrderItem
}

type OrderService interface {
	// Create is open to anonymous checkouts; actor may be nil.
	Create(ctx context.Context, orgID int64, actor *model.Actor, input CreateOrderInput) (*model.Order, error)
	Get(ctx context.Context, orgID int64, actor model.Actor, orderID int64) (*model.Order, error)
	List(ctx context.Context, orgID int64, actor model.Actor, limit, offset int32) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orgID int64, actor model.Actor, orderID int64, status model.OrderStatus) (*model.Order, error)
}

type orderService struct {
	stores StoreProvider
	queue  queue.Producer
}

func NewOrderService(stores StoreProvider, producer queue.Producer) OrderService {
	return &orderService{stores: stores, queue: producer}
}

func (s *orderService) Create(ctx context.Context, orgID int64, actor *model.Actor, input CreateOrderInput) (*model.Order, error) {
	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: an order needs at least one item", ErrInvalidInput)
	}

	var total int64
	for i, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item %d quantity must be positive", ErrInvalidInput, i)
		}
		if item.UnitPriceCents < 0 {
			return nil, fmt.Errorf("%w: item %d price cannot be negative", ErrInvalidInput, i)
		}
		if item.UnitPriceCents > 0 && item.Quantity > (math.MaxInt64-total)/item.UnitPriceCents {
			return nil, fmt.Errorf("%w: order total is too large", ErrInvalidInput)
		}
		total += item.Quantity * item.UnitPriceCents
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	order := &model.Order{
		ID:             id.New(),
		OrganizationID: orgID,
		CustomerEmail:  strings.ToLower(strings.TrimSpace(input.CustomerEmail)),
		Status:         model.OrderStatusPending,
		Currency:       currency,
		Items:          input.Items,
		TotalCents:     total,
	}
	if actor != nil && actor.User != nil {
		userID := actor.UserID()
		order.CustomerUserID = &userID
		if order.CustomerEmail == "" {
			order.CustomerEmail = strings.ToLower(actor.User.Email)
		}
	}
	if order.CustomerEmail == "" {
		return nil, fmt.Errorf("%w: customer email is required", ErrInvalidInput)
	}

	if err := s.stores.Orders().Create(ctx, order); err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	s.publish(ctx, order, model.EventOrderCreated, nil)

	slog.InfoContext(ctx, "order created",
		"organization_id", orgID,
		"order_id", order.ID,
		"total_cents", order.TotalCents,
		"currency", order.Currency)
	return order, nil
}

func (s *orderService) Get(ctx context.Context, orgID int64, actor model.Actor, orderID int64) (*model.Order, error) {
	if err := authorize(actor, model.PermOrdersView); err != nil {
		return nil, err
	}
	order, err := s.stores.Orders().Get(ctx, orgID, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("getting order: %w", err)
	}
	return order, nil
}

func (s *orderService) List(ctx context.Context, orgID int64, actor model.Actor, limit, offset int32) ([]model.Order, error) {
	if err := authorize(actor, model.PermOrdersView); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > defaultOrderListLimit {
		limit = defaultOrderListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.stores.Orders().List(ctx, orgID, limit, offset)
}

// UpdateStatus moves the order along its lifecycle. The store write is a
// compare-and-set, so a concurrent change also yields ErrInvalidTransition.
func (s *orderService) UpdateStatus(ctx context.Context, orgID int64, actor model.Actor, orderID int64, status model.OrderStatus) (*model.Order, error) {
	if err := authorize(actor, model.PermOrdersManage); err != nil {
		return nil, err
	}

	current, err := s.stores.Orders().Get(ctx, orgID, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("getting order: %w", err)
	}
	if !current.Status.CanTransition(status) {
		return nil, fmt.Errorf("%w: %s to %s", ErrInvalidTransition, current.Status, status)
	}

	updated, err := s.stores.Orders().UpdateStatus(ctx, orderID, current.Status, status)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: order changed concurrently", ErrInvalidTransition)
		}
		return nil, fmt.Errorf("updating order status: %w", err)
	}

	s.publish(ctx, updated, model.EventOrderStatusChanged, map[string]any{"previous_status": current.Status})

	slog.InfoContext(ctx, "order status changed",
		"order_id", orderID,
		"from", current.Status,
		"to", status)
	return updated, nil
}

// publish enqueues a webhook_dispatch task. The order is already committed, so
// a failure is logged rather than returned.
func (s *orderService) publish(ctx context.Context, order *model.Order, eventType string, extra map[string]any) {
	body := map[string]any{
		"event": eventType,
		"order": order,
	}
	for k, v := range extra {
		body[k] = v
	}
	payload, err := json.Marshal(body)
	if err != nil {
		slog.ErrorContext(ctx, "failed to encode order event", "order_id", order.ID, "error", err)
		return
	}
	if err := s.queue.Enqueue(ctx, queue.WebhookDispatchTask(order.OrganizationID, eventType, payload)); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue order event",
			"order_id", order.ID,
			"event_type", eventType,
			"error", err)
	}
}
