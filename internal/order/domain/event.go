package domain

// OrderCreatedEvent is a snapshot of the order taken at publish time.
// Mutating the order afterwards has no effect on an event already in
// flight.
type OrderCreatedEvent struct {
	EventID string      `json:"event_id"`
	OrderID int64       `json:"order_id"`
	Items   []OrderItem `json:"items"`
}
