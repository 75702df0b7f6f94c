package models

const (
	EventNewOrder     = "newOrder"
	EventOrderStatus  = "orderStatus"
	EventStockChanged = "stockChanged"
)

// Notification is pushed to every connected dashboard.
type Notification struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}
