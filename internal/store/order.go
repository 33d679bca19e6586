package store

import (
	"context"
	"encoding/json"
	"fmt"

	"launchthat.app/portal/core/db/sqlc"
	"launchthat.app/portal/internal/model"
)

type orderStore struct {
	queries *sqlc.Queries
}

func newOrderStore(queries *sqlc.Queries) OrderStore {
	return &orderStore{queries: queries}
}

func (s *orderStore) Create(ctx context.Context, order *model.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("encoding order items: %w", err)
	}
	row, err := s.queries.CreateOrder(ctx, sqlc.CreateOrderParams{
		ID:             order.ID,
		OrganizationID: order.OrganizationID,
		CustomerUserID: order.CustomerUserID,
		CustomerEmail:  order.CustomerEmail,
		Status:         string(order.Status),
		Currency:       order.Currency,
		Items:          items,
		TotalCents:     order.TotalCents,
	})
	if err != nil {
		return mapErr(err)
	}
	*order = *toOrderModel(row)
	return nil
}

func (s *orderStore) Get(ctx context.Context, orgID, id int64) (*model.Order, error) {
	row, err := s.queries.GetOrder(ctx, sqlc.GetOrderParams{ID: id, OrganizationID: orgID})
	if err != nil {
		return nil, mapErr(err)
	}
	return toOrderModel(row), nil
}

func (s *orderStore) List(ctx context.Context, orgID int64, limit, offset int32) ([]model.Order, error) {
	rows, err := s.queries.ListOrders(ctx, sqlc.ListOrdersParams{
		OrganizationID: orgID,
		LimitCount:     limit,
		OffsetCount:    offset,
	})
	if err != nil {
		return nil, err
	}
	result := make([]model.Order, len(rows))
	for i, row := range rows {
		result[i] = *toOrderModel(row)
	}
	return result, nil
}

func (s *orderStore) UpdateStatus(ctx context.Context, id int64, from, to model.OrderStatus) (*model.Order, error) {
	row, err := s.queries.UpdateOrderStatus(ctx, sqlc.UpdateOrderStatusParams{
		ID:         id,
		Status:     string(to),
		FromStatus: string(from),
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return toOrderModel(row), nil
}

func toOrderModel(row sqlc.Order) *model.Order {
	var items []model.OrderItem
	_ = json.Unmarshal(row.Items, &items)
	return &model.Order{
		ID:             row.ID,
		OrganizationID: row.OrganizationID,
		CustomerUserID: row.CustomerUserID,
		CustomerEmail:  row.CustomerEmail,
		Status:         model.OrderStatus(row.Status),
		Currency:       row.Currency,
		Items:          items,
		TotalCents:     row.TotalCents,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
