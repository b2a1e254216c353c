package domain

// OrderCreatedEvent is the snapshot published by the order service. Line
// items travel by value; there is no relational link back to the orders
// database.
type OrderCreatedEvent struct {
	EventID string      `json:"event_id"`
	OrderID int64       `json:"order_id"`
	Items   []OrderItem `json:"items"`
}

type OrderItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}
