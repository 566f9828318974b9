// Package kite wraps the Kite Connect trading API behind a Broker
// interface so the MCP tool handlers can be exercised against a fake.
package kite

import (
	kiteconnect "github.com/zerodha/gokiteconnect/v4"
)

// Broker is the surface of the Kite Connect API used by the MCP tools.
// Read operations return the broker's error unmodified; order operations
// return the assigned order ID on success.
type Broker interface {
	// LoginURL returns the Kite login URL for the configured API key.
	LoginURL() string

	// GenerateSession exchanges a request token for an access token,
	// authenticates all subsequent calls on this session, and returns
	// the access token.
	GenerateSession(requestToken string) (string, error)

	// Profile returns the authenticated user's profile.
	Profile() (kiteconnect.UserProfile, error)

	// Margins returns funds and margin details. With an empty segment it
	// returns kiteconnect.AllMargins covering every segment; with "equity"
	// or "commodity" it returns the kiteconnect.Margins for that segment.
	Margins(segment string) (any, error)

	// Holdings returns the user's long-term holdings.
	Holdings() (kiteconnect.Holdings, error)

	// Positions returns the user's net and day positions.
	Positions() (kiteconnect.Positions, error)

	// Orders returns all orders for the current trading day.
	Orders() (kiteconnect.Orders, error)

	// OrderHistory returns the state transitions of a single order.
	OrderHistory(orderID string) ([]kiteconnect.Order, error)

	// OrderTrades returns the trades executed against a single order.
	OrderTrades(orderID string) ([]kiteconnect.Trade, error)

	// PlaceOrder places a new order and returns its order ID.
	PlaceOrder(params OrderParams) (string, error)

	// ModifyOrder modifies a pending regular order and returns its order ID.
	ModifyOrder(params ModifyParams) (string, error)

	// CancelOrder cancels a pending regular order and returns its order ID.
	CancelOrder(orderID string) (string, error)
}

// OrderParams carries the fields for placing an order. Zero-valued
// optional fields are omitted from the API request. An empty Variety
// places a regular order.
type OrderParams struct {
	Exchange        string
	TradingSymbol   string
	TransactionType string
	Quantity        int
	Product         string
	OrderType       string
	Price           float64
	Validity        string
	Variety         string
}

// ModifyParams carries the fields for modifying a pending regular order.
// Zero values leave the corresponding order attribute unchanged.
type ModifyParams struct {
	OrderID      string
	Quantity     int
	Price        float64
	OrderType    string
	TriggerPrice float64
	Validity     string
}
