package sim

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mzielinski/goxtrader/pkg/core"
)

// ErrUnreachable is the transport failure injected by FailNext.
var ErrUnreachable = errors.New("simulated exchange unreachable")

const defaultTradeAmount = "0.01"

// Gateway is an in-memory stand-in for the remote exchange, serving dry
// runs and tests. Orders rest on the book until cancelled, balances never
// change, and the quote only moves when Tick is called. FailNext injects
// transport failures to exercise the trader's retry path.
type Gateway struct {
	mutex sync.Mutex

	pair     string
	bid      decimal.Decimal
	ask      decimal.Decimal
	spread   decimal.Decimal
	wallets  map[string]decimal.Decimal
	orders   []core.OpenOrder
	tape     []core.Trade
	tradeFee float64
	failures int
	lastTid  int64
}

type Option func(*Gateway)

// WithQuotes sets the initial bid and ask. The spread between them is kept
// by subsequent Tick calls.
func WithQuotes(bid, ask string) Option {
	return func(g *Gateway) {
		g.bid = decimal.RequireFromString(bid)
		g.ask = decimal.RequireFromString(ask)
	}
}

// WithWallet seeds the balance of one asset.
func WithWallet(name, amount string) Option {
	return func(g *Gateway) {
		g.wallets[name] = decimal.RequireFromString(amount)
	}
}

// WithTradeFee sets the account trading fee, as the percentage the real
// exchange reports.
func WithTradeFee(fee float64) Option {
	return func(g *Gateway) {
		g.tradeFee = fee
	}
}

func NewGateway(pair string, options ...Option) *Gateway {
	gateway := &Gateway{
		pair:     pair,
		bid:      decimal.RequireFromString("100"),
		ask:      decimal.RequireFromString("101"),
		wallets:  make(map[string]decimal.Decimal),
		tradeFee: 0.6,
	}

	for _, option := range options {
		option(gateway)
	}

	gateway.spread = gateway.ask.Sub(gateway.bid)

	return gateway
}

// FailNext makes the next count gateway calls fail with ErrUnreachable.
func (g *Gateway) FailNext(count int) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.failures = count
}

func (g *Gateway) takeFailure() error {
	if g.failures > 0 {
		g.failures--
		return ErrUnreachable
	}

	return nil
}

// Tick moves the book to the given last price, keeping the configured
// spread, and appends a matching trade to the tape.
func (g *Gateway) Tick(price decimal.Decimal) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	half := g.spread.Div(decimal.NewFromInt(2))
	g.bid = price.Sub(half)
	g.ask = price.Add(half)

	tid := time.Now().UnixNano() / int64(time.Microsecond)
	if tid <= g.lastTid {
		tid = g.lastTid + 1
	}
	g.lastTid = tid

	side := core.Bid
	if len(g.tape)%2 == 1 {
		side = core.Ask
	}

	g.tape = append(g.tape, core.Trade{
		Tid:    tid,
		Date:   tid / int64(time.Second/time.Microsecond),
		Price:  price.String(),
		Amount: defaultTradeAmount,
		Type:   side,
	})
}

func (g *Gateway) PlaceOrder(
	_ context.Context,
	side core.Side,
	amount, price float64,
) (*core.OrderResponse, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if err := g.takeFailure(); err != nil {
		return nil, err
	}

	if amount <= 0 || price <= 0 {
		return &core.OrderResponse{
			Result:  core.ResultError,
			Message: "invalid order amount or price",
		}, nil
	}

	order := core.OpenOrder{
		ID:     uuid.New().String(),
		Side:   side,
		Amount: core.Money{Value: decimal.NewFromFloat(amount).String()},
		Price:  core.Money{Value: decimal.NewFromFloat(price).String()},
		Status: "open",
	}

	g.orders = append(g.orders, order)

	return &core.OrderResponse{
		Result:  core.ResultSuccess,
		OrderID: order.ID,
	}, nil
}

func (g *Gateway) CancelOrder(
	_ context.Context,
	orderID string,
) (*core.CancelResponse, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if err := g.takeFailure(); err != nil {
		return nil, err
	}

	for index, order := range g.orders {
		if order.ID == orderID {
			g.orders = append(g.orders[:index], g.orders[index+1:]...)

			return &core.CancelResponse{Result: core.ResultSuccess}, nil
		}
	}

	return &core.CancelResponse{
		Result:  core.ResultError,
		Message: "unknown order",
	}, nil
}

func (g *Gateway) ListOrders(_ context.Context) (*core.OrdersResponse, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if err := g.takeFailure(); err != nil {
		return nil, err
	}

	orders := make([]core.OpenOrder, len(g.orders))
	copy(orders, g.orders)

	return &core.OrdersResponse{
		Result: core.ResultSuccess,
		Orders: orders,
	}, nil
}

func (g *Gateway) FetchTrades(
	_ context.Context,
	sinceMicros int64,
) (*core.TradesResponse, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if err := g.takeFailure(); err != nil {
		return nil, err
	}

	trades := make([]core.Trade, 0, len(g.tape))
	for _, trade := range g.tape {
		if trade.Tid > sinceMicros {
			trades = append(trades, trade)
		}
	}

	return &core.TradesResponse{
		Result: core.ResultSuccess,
		Trades: trades,
	}, nil
}

func (g *Gateway) FetchAccountInfo(
	_ context.Context,
) (*core.AccountResponse, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if err := g.takeFailure(); err != nil {
		return nil, err
	}

	wallets := make(map[string]core.Wallet, len(g.wallets))
	for name, balance := range g.wallets {
		wallets[name] = core.Wallet{
			Balance: core.Money{
				Value:    balance.String(),
				Currency: name,
			},
		}
	}

	return &core.AccountResponse{
		Result:   core.ResultSuccess,
		Wallets:  wallets,
		TradeFee: g.tradeFee,
	}, nil
}

func (g *Gateway) FetchTicker(_ context.Context) (*core.TickerResponse, error) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if err := g.takeFailure(); err != nil {
		return nil, err
	}

	return &core.TickerResponse{
		Result: core.ResultSuccess,
		Buy:    core.Money{Value: g.bid.String()},
		Sell:   core.Money{Value: g.ask.String()},
	}, nil
}
