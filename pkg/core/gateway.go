package core

import "context"

// Result statuses the exchange embeds in an otherwise successful response.
// A response carrying ResultError reached the exchange and was answered,
// but the request itself was rejected.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Money is a single monetary value as the exchange reports it. Values stay
// strings on the wire and are parsed only where an operation needs a number.
type Money struct {
	Value    string
	Currency string
}

// Wallet is the exchange-side balance of one asset.
type Wallet struct {
	Balance Money
}

type OrderResponse struct {
	Result  string
	Message string
	OrderID string
}

type CancelResponse struct {
	Result  string
	Message string
}

// OpenOrder is one entry of the exchange's open-orders list.
type OpenOrder struct {
	ID     string
	Side   Side
	Amount Money
	Price  Money
	Status string
}

type OrdersResponse struct {
	Result string
	Orders []OpenOrder
}

type TradesResponse struct {
	Result string
	Trades []Trade
}

type AccountResponse struct {
	Result   string
	Wallets  map[string]Wallet
	TradeFee float64
}

type TickerResponse struct {
	Result string
	Buy    Money
	Sell   Money
}

// Gateway is the remote exchange client the trader drives. Implementations
// own the wire protocol, authentication and parsing; the trader owns retry
// and normalization. A returned error means the call itself failed
// (transport), while a rejection the exchange answered with is reported
// through the response's Result field.
type Gateway interface {
	PlaceOrder(ctx context.Context, side Side, amount, price float64) (*OrderResponse, error)
	CancelOrder(ctx context.Context, orderID string) (*CancelResponse, error)
	ListOrders(ctx context.Context) (*OrdersResponse, error)
	FetchTrades(ctx context.Context, sinceMicros int64) (*TradesResponse, error)
	FetchAccountInfo(ctx context.Context) (*AccountResponse, error)
	FetchTicker(ctx context.Context) (*TickerResponse, error)
}

// GatewayFactory builds the gateway handle a trader is bound to. The trader
// calls it exactly once, at construction, with its credentials and trading
// pair.
type GatewayFactory func(key, secret, pair string) Gateway
