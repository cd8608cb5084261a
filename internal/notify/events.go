package notify

// Event types pushed to connected clients.
const (
	EventStationCreated     = "STATION_CREATED"
	EventStationUpdated     = "STATION_UPDATED"
	EventStationMaintenance = "STATION_MAINTENANCE"
	EventSessionCreated     = "SESSION_CREATED"
	EventSessionEnded       = "SESSION_ENDED"
	EventPaymentCreated     = "PAYMENT_CREATED"
	EventPaymentCompleted   = "PAYMENT_COMPLETED"
	EventCustomerCreated    = "CUSTOMER_CREATED"
	EventCustomerUpdated    = "CUSTOMER_UPDATED"
	EventCustomerDeleted    = "CUSTOMER_DELETED"
	EventGameCreated        = "GAME_CREATED"
	EventGameUpdated        = "GAME_UPDATED"
	EventGameDeleted        = "GAME_DELETED"
)

// Event is the wire shape broadcast to every connected client. Delivery is
// best-effort with no ordering or replay.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}
