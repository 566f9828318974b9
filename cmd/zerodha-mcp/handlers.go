package main

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kitebridge/zerodha-mcp/internal/kite"
)

// --- Helpers ---

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// --- Handlers ---
//
// Read handlers let broker errors propagate to the protocol layer
// unmodified. The three order mutations instead convert failures into a
// descriptive string result, so a rejected order reads like a filled one
// until the text is inspected. Clients depend on both behaviors.

func handleGetLoginURL(b kite.Broker) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return textResult(b.LoginURL()), nil
	}
}

func handleGetAccessToken(b kite.Broker) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		requestToken, err := request.RequireString("request_token")
		if err != nil || requestToken == "" {
			return errorResult("Error: request_token parameter is required"), nil
		}

		token, err := b.GenerateSession(requestToken)
		if err != nil {
			return nil, err
		}
		return textResult(token), nil
	}
}

func handleGetUserProfile(b kite.Broker) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		profile, err := b.Profile()
		if err != nil {
			return nil, err
		}
		return textResult(renderJSON(profile)), nil
	}
}

func handleGetMargins(b kite.Broker) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		segment := request.GetString("segment", "")

		margins, err := b.Margins(segment)
		if err != nil {
			return nil, err
		}
		return textResult(renderJSON(margins)), nil
	}
}

func handleGetHoldings(b kite.Broker) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		holdings, err := b.Holdings()
		if err != nil {
			return nil, err
		}
		return textResult(renderJSON(holdings)), nil
	}
}

func handleGetPositions(b kite.Broker) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		positions, err := b.Positions()
		if err != nil {
			return nil, err
		}
		return textResult(renderJSON(positions)), nil
	}
}

func handleGetOrders(b kite.Broker) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		orders, err := b.Orders()
		if err != nil {
			return nil, err
		}
		return textResult(renderJSON(orders)), nil
	}
}

func handleGetOrderHistory(b kite.Broker) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		orderID, err := request.RequireString("order_id")
		if err != nil || orderID == "" {
			return errorResult("Error: order_id parameter is required"), nil
		}

		history, err := b.OrderHistory(orderID)
		if err != nil {
			return nil, err
		}
		return textResult(renderJSON(history)), nil
	}
}

func handleGetOrderTrades(b kite.Broker) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		orderID, err := request.RequireString("order_id")
		if err != nil || orderID == "" {
			return errorResult("Error: order_id parameter is required"), nil
		}

		trades, err := b.OrderTrades(orderID)
		if err != nil {
			return nil, err
		}
		return textResult(renderJSON(trades)), nil
	}
}

func handlePlaceOrder(b kite.Broker) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		exchange, err := request.RequireString("exchange")
		if err != nil || exchange == "" {
			return errorResult("Error: exchange parameter is required"), nil
		}
		tradingSymbol, err := request.RequireString("tradingsymbol")
		if err != nil || tradingSymbol == "" {
			return errorResult("Error: tradingsymbol parameter is required"), nil
		}
		transactionType, err := request.RequireString("transaction_type")
		if err != nil || transactionType == "" {
			return errorResult("Error: transaction_type parameter is required"), nil
		}
		quantity, err := request.RequireInt("quantity")
		if err != nil {
			return errorResult("Error: quantity parameter is required"), nil
		}

		orderID, err := b.PlaceOrder(kite.OrderParams{
			Exchange:        exchange,
			TradingSymbol:   tradingSymbol,
			TransactionType: transactionType,
			Quantity:        quantity,
			Price:           request.GetFloat("price", 0),
			Product:         request.GetString("product", "CNC"),
			OrderType:       request.GetString("order_type", "MARKET"),
			Validity:        request.GetString("validity", "DAY"),
			Variety:         request.GetString("variety", "regular"),
		})
		if err != nil {
			return textResult(fmt.Sprintf("Order placement failed: %v", err)), nil
		}
		return textResult(fmt.Sprintf("Order placed successfully. Order ID: %s", orderID)), nil
	}
}

func handleModifyOrder(b kite.Broker) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		orderID, err := request.RequireString("order_id")
		if err != nil || orderID == "" {
			return errorResult("Error: order_id parameter is required"), nil
		}

		modifiedID, err := b.ModifyOrder(kite.ModifyParams{
			OrderID:      orderID,
			Quantity:     request.GetInt("quantity", 0),
			Price:        request.GetFloat("price", 0),
			OrderType:    request.GetString("order_type", ""),
			TriggerPrice: request.GetFloat("trigger_price", 0),
			Validity:     request.GetString("validity", ""),
		})
		if err != nil {
			return textResult(fmt.Sprintf("Order modification failed: %v", err)), nil
		}
		return textResult(fmt.Sprintf("Order modified successfully. Order ID: %s", modifiedID)), nil
	}
}

func handleCancelOrder(b kite.Broker) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		orderID, err := request.RequireString("order_id")
		if err != nil || orderID == "" {
			return errorResult("Error: order_id parameter is required"), nil
		}

		cancelledID, err := b.CancelOrder(orderID)
		if err != nil {
			return textResult(fmt.Sprintf("Order cancellation failed: %v", err)), nil
		}
		return textResult(fmt.Sprintf("Order cancelled successfully. Order ID: %s", cancelledID)), nil
	}
}
