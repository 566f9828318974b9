package main

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kitebridge/zerodha-mcp/internal/kite"
)

// registerTools registers all MCP tools on the server, wiring each to a
// handler that calls the Kite Connect API via the broker session.
func registerTools(s *server.MCPServer, b kite.Broker) {
	s.AddTool(createGetLoginURLTool(), handleGetLoginURL(b))
	s.AddTool(createGetAccessTokenTool(), handleGetAccessToken(b))
	s.AddTool(createGetUserProfileTool(), handleGetUserProfile(b))
	s.AddTool(createGetMarginsTool(), handleGetMargins(b))
	s.AddTool(createGetHoldingsTool(), handleGetHoldings(b))
	s.AddTool(createGetPositionsTool(), handleGetPositions(b))
	s.AddTool(createGetOrdersTool(), handleGetOrders(b))
	s.AddTool(createGetOrderHistoryTool(), handleGetOrderHistory(b))
	s.AddTool(createGetOrderTradesTool(), handleGetOrderTrades(b))
	s.AddTool(createPlaceOrderTool(), handlePlaceOrder(b))
	s.AddTool(createModifyOrderTool(), handleModifyOrder(b))
	s.AddTool(createCancelOrderTool(), handleCancelOrder(b))
}

// --- Tool definitions ---

func createGetLoginURLTool() mcp.Tool {
	return mcp.NewTool("get_login_url",
		mcp.WithDescription("Get the Zerodha login URL. Redirect the user to this URL to obtain a request token after they log in."),
	)
}

func createGetAccessTokenTool() mcp.Tool {
	return mcp.NewTool("get_access_token",
		mcp.WithDescription("Exchange a request token for an access token. Authenticates every subsequent call in this session and returns the access token."),
		mcp.WithString("request_token", mcp.Required(), mcp.Description("The request token obtained from the login redirect")),
	)
}

func createGetUserProfileTool() mcp.Tool {
	return mcp.NewTool("get_user_profile",
		mcp.WithDescription("Get the authenticated user's Zerodha profile: user ID, name, email, enabled products, order types, and exchanges."),
	)
}

func createGetMarginsTool() mcp.Tool {
	return mcp.NewTool("get_margins",
		mcp.WithDescription("Get the user's available margins and fund details: cash balance, used and available margin, collateral, and SPAN/exposure categories."),
		mcp.WithString("segment", mcp.Required(), mcp.Description("Trading segment: 'equity' (equity, mutual funds, bonds) or 'commodity'. An empty segment returns margins for all segments.")),
	)
}

func createGetHoldingsTool() mcp.Tool {
	return mcp.NewTool("get_holdings",
		mcp.WithDescription("Get the user's portfolio holdings: trading symbol, exchange, ISIN, product, quantities, average/last/close prices, and P&L."),
	)
}

func createGetPositionsTool() mcp.Tool {
	return mcp.NewTool("get_positions",
		mcp.WithDescription("Get the user's current positions, both day and net: trading symbol, exchange, product, quantity, prices, P&L, and overnight quantity."),
	)
}

func createGetOrdersTool() mcp.Tool {
	return mcp.NewTool("get_orders",
		mcp.WithDescription("Get all orders placed for the day: order ID, status, exchange, trading symbol, order and transaction type, quantities, prices, and timestamps."),
	)
}

func createGetOrderHistoryTool() mcp.Tool {
	return mcp.NewTool("get_order_history",
		mcp.WithDescription("Get the history of an order: every state it has gone through with filled/pending quantities and prices at each state."),
		mcp.WithString("order_id", mcp.Required(), mcp.Description("ID of the order whose history is to be retrieved")),
	)
}

func createGetOrderTradesTool() mcp.Tool {
	return mcp.NewTool("get_order_trades",
		mcp.WithDescription("Get the trades generated by an order. An order can be executed in multiple trades; this returns all trades linked to one order."),
		mcp.WithString("order_id", mcp.Required(), mcp.Description("ID of the order whose trades are to be retrieved")),
	)
}

func createPlaceOrderTool() mcp.Tool {
	return mcp.NewTool("place_order",
		mcp.WithDescription("Place a new order on Zerodha."),
		mcp.WithString("exchange", mcp.Required(), mcp.Description("Exchange in which the security is listed (NSE, BSE, NFO, etc)")),
		mcp.WithString("tradingsymbol", mcp.Required(), mcp.Description("Trading symbol of the security (RELIANCE, INFY, etc)")),
		mcp.WithString("transaction_type", mcp.Required(), mcp.Description("Transaction type (BUY or SELL)")),
		mcp.WithNumber("quantity", mcp.Required(), mcp.Description("Order quantity")),
		mcp.WithNumber("price", mcp.Description("Order price, for LIMIT orders")),
		mcp.WithString("product", mcp.DefaultString("CNC"), mcp.Description("Product code (CNC, MIS, etc). Default is CNC (delivery).")),
		mcp.WithString("order_type", mcp.DefaultString("MARKET"), mcp.Description("Order type (MARKET, LIMIT, etc). Default is MARKET.")),
		mcp.WithString("validity", mcp.DefaultString("DAY"), mcp.Description("Order validity (DAY, IOC, etc). Default is DAY.")),
		mcp.WithString("variety", mcp.DefaultString("regular"), mcp.Description("Order variety (regular, amo, co, etc). Default is regular.")),
	)
}

func createModifyOrderTool() mcp.Tool {
	return mcp.NewTool("modify_order",
		mcp.WithDescription("Modify a pending regular order. Only the provided fields change; omitted fields keep the order's current values."),
		mcp.WithString("order_id", mcp.Required(), mcp.Description("ID of the order to be modified")),
		mcp.WithNumber("quantity", mcp.Description("New order quantity")),
		mcp.WithNumber("price", mcp.Description("New order price")),
		mcp.WithString("order_type", mcp.Description("New order type (LIMIT, SL, SL-M, MARKET)")),
		mcp.WithNumber("trigger_price", mcp.Description("New trigger price, for SL and SL-M orders")),
		mcp.WithString("validity", mcp.Description("New validity (DAY, IOC)")),
	)
}

func createCancelOrderTool() mcp.Tool {
	return mcp.NewTool("cancel_order",
		mcp.WithDescription("Cancel a pending regular order."),
		mcp.WithString("order_id", mcp.Required(), mcp.Description("ID of the order to be cancelled")),
	)
}
