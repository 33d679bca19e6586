package dto

import (
	"time"

	"launchthat.app/portal/internal/model"
	"launchthat.app/portal/internal/service"
)

type OrderItemRequest struct {
	ProductID      string `json:"product_id" binding:"required"`
	Name           string `json:"name"`
	Quantity       int64  `json:"quantity" binding:"min=1,max=10000"`
	UnitPriceCents int64  `json:"unit_price_cents" binding:"min=0,max=100000000"`
}

type CreateOrderRequest struct {
	CustomerEmail string             `json:"customer_email" binding:"omitempty,email"`
	Currency      string             `json:"currency,omitempty" binding:"omitempty,len=3"`
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

func (r CreateOrderRequest) ToInput() service.CreateOrderInput {
	items := make([]model.OrderItem, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, model.OrderItem{
			ProductID:      it.ProductID,
			Name:           it.Name,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
		})
	}
	return service.CreateOrderInput{
		CustomerEmail: r.CustomerEmail,
		Currency:      r.Currency,
		Items:         items,
	}
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

type OrderResponse struct {
	ID             int64             `json:"id,string"`
	CustomerUserID *string           `json:"customer_user_id,omitempty"`
	CustomerEmail  string            `json:"customer_email"`
	Status         model.OrderStatus `json:"status"`
	Currency       string            `json:"currency"`
	Items          []model.OrderItem `json:"items"`
	TotalCents     int64             `json:"total_cents"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func ToOrderResponse(o *model.Order) OrderResponse {
	return OrderResponse{
		ID:             o.ID,
		CustomerUserID: FormatID(o.CustomerUserID),
		CustomerEmail:  o.CustomerEmail,
		Status:         o.Status,
		Currency:       o.Currency,
		Items:          o.Items,
		TotalCents:     o.TotalCents,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
	}
}
