package kite

import (
	"net/http"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"github.com/kitebridge/zerodha-mcp/internal/common"
)

// Session is a Broker backed by the Kite Connect HTTP API. It holds the
// access token obtained from GenerateSession; until then only LoginURL
// and GenerateSession are useful.
type Session struct {
	client      *kiteconnect.Client
	apiSecret   string
	accessToken string
	logger      *common.Logger
}

var _ Broker = (*Session)(nil)

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used for broker call diagnostics.
func WithLogger(logger *common.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithBaseURL points the session at a different API endpoint. Used by
// tests to target a local fake.
func WithBaseURL(url string) Option {
	return func(s *Session) {
		s.client.SetBaseURI(url)
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Session) {
		s.client.SetHTTPClient(client)
	}
}

// NewSession creates an unauthenticated session for the given API
// credentials.
func NewSession(apiKey, apiSecret string, opts ...Option) *Session {
	s := &Session{
		client:    kiteconnect.New(apiKey),
		apiSecret: apiSecret,
		logger:    common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoginURL returns the Kite login URL for the configured API key.
func (s *Session) LoginURL() string {
	return s.client.GetLoginURL()
}

// GenerateSession exchanges the request token for an access token. The
// token value itself is never logged.
func (s *Session) GenerateSession(requestToken string) (string, error) {
	start := time.Now()
	sess, err := s.client.GenerateSession(requestToken, s.apiSecret)
	if err != nil {
		s.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("session generation failed")
		return "", err
	}

	s.accessToken = sess.AccessToken
	s.client.SetAccessToken(sess.AccessToken)

	s.logger.Info().Dur("duration", time.Since(start)).Msg("session generated")
	return sess.AccessToken, nil
}

// AccessToken returns the access token obtained from GenerateSession,
// or empty when the session is unauthenticated.
func (s *Session) AccessToken() string {
	return s.accessToken
}

// Profile returns the authenticated user's profile.
func (s *Session) Profile() (kiteconnect.UserProfile, error) {
	start := time.Now()
	profile, err := s.client.GetUserProfile()
	if err != nil {
		s.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("profile request failed")
		return kiteconnect.UserProfile{}, err
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("profile fetched")
	return profile, nil
}

// Margins returns funds and margin details, for all segments when
// segment is empty or for the named segment otherwise.
func (s *Session) Margins(segment string) (any, error) {
	start := time.Now()
	if segment == "" {
		margins, err := s.client.GetUserMargins()
		if err != nil {
			s.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("margins request failed")
			return nil, err
		}
		s.logger.Debug().Dur("duration", time.Since(start)).Msg("margins fetched")
		return margins, nil
	}

	margins, err := s.client.GetUserSegmentMargins(segment)
	if err != nil {
		s.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("margins request failed")
		return nil, err
	}
	s.logger.Debug().Dur("duration", time.Since(start)).Msg("margins fetched")
	return margins, nil
}

// Holdings returns the user's long-term holdings.
func (s *Session) Holdings() (kiteconnect.Holdings, error) {
	start := time.Now()
	holdings, err := s.client.GetHoldings()
	if err != nil {
		s.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("holdings request failed")
		return nil, err
	}
	s.logger.Debug().Int("count", len(holdings)).Dur("duration", time.Since(start)).Msg("holdings fetched")
	return holdings, nil
}

// Positions returns the user's net and day positions.
func (s *Session) Positions() (kiteconnect.Positions, error) {
	start := time.Now()
	positions, err := s.client.GetPositions()
	if err != nil {
		s.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("positions request failed")
		return kiteconnect.Positions{}, err
	}
	s.logger.Debug().Int("net", len(positions.Net)).Int("day", len(positions.Day)).Dur("duration", time.Since(start)).Msg("positions fetched")
	return positions, nil
}

// Orders returns all orders for the current trading day.
func (s *Session) Orders() (kiteconnect.Orders, error) {
	start := time.Now()
	orders, err := s.client.GetOrders()
	if err != nil {
		s.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("orders request failed")
		return nil, err
	}
	s.logger.Debug().Int("count", len(orders)).Dur("duration", time.Since(start)).Msg("orders fetched")
	return orders, nil
}

// OrderHistory returns the state transitions of a single order.
func (s *Session) OrderHistory(orderID string) ([]kiteconnect.Order, error) {
	start := time.Now()
	history, err := s.client.GetOrderHistory(orderID)
	if err != nil {
		s.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("order history request failed")
		return nil, err
	}
	s.logger.Debug().Int("count", len(history)).Dur("duration", time.Since(start)).Msg("order history fetched")
	return history, nil
}

// OrderTrades returns the trades executed against a single order.
func (s *Session) OrderTrades(orderID string) ([]kiteconnect.Trade, error) {
	start := time.Now()
	trades, err := s.client.GetOrderTrades(orderID)
	if err != nil {
		s.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("order trades request failed")
		return nil, err
	}
	s.logger.Debug().Int("count", len(trades)).Dur("duration", time.Since(start)).Msg("order trades fetched")
	return trades, nil
}

// PlaceOrder places a new order and returns the assigned order ID.
func (s *Session) PlaceOrder(params OrderParams) (string, error) {
	variety := params.Variety
	if variety == "" {
		variety = kiteconnect.VarietyRegular
	}

	start := time.Now()
	resp, err := s.client.PlaceOrder(variety, kiteconnect.OrderParams{
		Exchange:        params.Exchange,
		Tradingsymbol:   params.TradingSymbol,
		TransactionType: params.TransactionType,
		Quantity:        params.Quantity,
		Product:         params.Product,
		OrderType:       params.OrderType,
		Price:           params.Price,
		Validity:        params.Validity,
	})
	if err != nil {
		s.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("order placement failed")
		return "", err
	}

	s.logger.Info().Str("order_id", resp.OrderID).Dur("duration", time.Since(start)).Msg("order placed")
	return resp.OrderID, nil
}

// ModifyOrder modifies a pending regular order. Zero-valued params keep
// the order's current attributes.
func (s *Session) ModifyOrder(params ModifyParams) (string, error) {
	start := time.Now()
	resp, err := s.client.ModifyOrder(kiteconnect.VarietyRegular, params.OrderID, kiteconnect.OrderParams{
		Quantity:     params.Quantity,
		Price:        params.Price,
		OrderType:    params.OrderType,
		TriggerPrice: params.TriggerPrice,
		Validity:     params.Validity,
	})
	if err != nil {
		s.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("order modification failed")
		return "", err
	}

	s.logger.Info().Str("order_id", resp.OrderID).Dur("duration", time.Since(start)).Msg("order modified")
	return resp.OrderID, nil
}

// CancelOrder cancels a pending regular order.
func (s *Session) CancelOrder(orderID string) (string, error) {
	start := time.Now()
	resp, err := s.client.CancelOrder(kiteconnect.VarietyRegular, orderID, nil)
	if err != nil {
		s.logger.Error().Err(err).Dur("duration", time.Since(start)).Msg("order cancellation failed")
		return "", err
	}

	s.logger.Info().Str("order_id", resp.OrderID).Dur("duration", time.Since(start)).Msg("order cancelled")
	return resp.OrderID, nil
}
