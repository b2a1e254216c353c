package domain

import "time"

type OrderStatus string

const (
	// OrderStatusPending is the only status the order flow assigns; later
	// transitions belong to services that do not exist in this slice.
	OrderStatusPending OrderStatus = "PENDING"
)

type Order struct {
	ID         int64       `json:"id" db:"id"`
	UserID     int64       `json:"user_id" db:"user_id"`
	Status     OrderStatus `json:"status" db:"status"`
	TotalPrice float64     `json:"total_price" db:"total_price"`
	Items      []OrderItem `json:"items" db:"items"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderItem is stored on the order as a value copy, never as a foreign key
// into the inventory database; the two services do not share a store.
type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}
