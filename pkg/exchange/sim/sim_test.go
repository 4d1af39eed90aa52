package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mzielinski/goxtrader/pkg/core"
)

func TestOrderRoundTrip(t *testing.T) {
	gateway := NewGateway("BTCUSD")
	ctx := context.Background()

	placed, err := gateway.PlaceOrder(ctx, core.Bid, 0.5, 95)
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v, want nil", err)
	}
	if placed.Result != core.ResultSuccess {
		t.Fatalf("PlaceOrder() result = %q, want success", placed.Result)
	}
	if placed.OrderID == "" {
		t.Fatalf("PlaceOrder() returned empty order ID")
	}

	listed, err := gateway.ListOrders(ctx)
	if err != nil {
		t.Fatalf("ListOrders() error = %v, want nil", err)
	}
	if len(listed.Orders) != 1 || listed.Orders[0].ID != placed.OrderID {
		t.Fatalf("ListOrders() = %+v, want the placed order", listed.Orders)
	}
	if listed.Orders[0].Side != core.Bid {
		t.Fatalf("listed side = %v, want bid", listed.Orders[0].Side)
	}

	cancelled, err := gateway.CancelOrder(ctx, placed.OrderID)
	if err != nil {
		t.Fatalf("CancelOrder() error = %v, want nil", err)
	}
	if cancelled.Result != core.ResultSuccess {
		t.Fatalf("CancelOrder() result = %q, want success", cancelled.Result)
	}

	listed, err = gateway.ListOrders(ctx)
	if err != nil {
		t.Fatalf("ListOrders() error = %v, want nil", err)
	}
	if len(listed.Orders) != 0 {
		t.Fatalf("ListOrders() after cancel = %+v, want empty", listed.Orders)
	}

	cancelled, err = gateway.CancelOrder(ctx, placed.OrderID)
	if err != nil {
		t.Fatalf("CancelOrder(again) error = %v, want nil", err)
	}
	if cancelled.Result != core.ResultError {
		t.Fatalf(
			"CancelOrder(again) result = %q, want error",
			cancelled.Result,
		)
	}
}

func TestPlaceOrderRejectsInvalidInput(t *testing.T) {
	gateway := NewGateway("BTCUSD")

	response, err := gateway.PlaceOrder(context.Background(), core.Bid, 0, 100)
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v, want nil", err)
	}
	if response.Result != core.ResultError {
		t.Fatalf("PlaceOrder() result = %q, want error", response.Result)
	}
}

func TestTickMovesQuotesAndTape(t *testing.T) {
	gateway := NewGateway("BTCUSD", WithQuotes("100", "101"))
	ctx := context.Background()

	gateway.Tick(decimal.RequireFromString("105"))

	ticker, err := gateway.FetchTicker(ctx)
	if err != nil {
		t.Fatalf("FetchTicker() error = %v, want nil", err)
	}
	if ticker.Buy.Value != "104.5" || ticker.Sell.Value != "105.5" {
		t.Fatalf(
			"ticker = buy %q sell %q, want buy 104.5 sell 105.5",
			ticker.Buy.Value,
			ticker.Sell.Value,
		)
	}

	trades, err := gateway.FetchTrades(ctx, 0)
	if err != nil {
		t.Fatalf("FetchTrades() error = %v, want nil", err)
	}
	if len(trades.Trades) != 1 || trades.Trades[0].Price != "105" {
		t.Fatalf("trades = %+v, want one trade at 105", trades.Trades)
	}

	// Trades at or before the given bound are filtered out.
	trades, err = gateway.FetchTrades(ctx, trades.Trades[0].Tid)
	if err != nil {
		t.Fatalf("FetchTrades(since) error = %v, want nil", err)
	}
	if len(trades.Trades) != 0 {
		t.Fatalf("trades since last tid = %+v, want empty", trades.Trades)
	}
}

func TestFetchAccountInfo(t *testing.T) {
	gateway := NewGateway(
		"BTCUSD",
		WithWallet("BTC", "1.5"),
		WithWallet("USD", "500.0241"),
		WithWallet("EUR", "0"),
		WithTradeFee(0.3),
	)

	account, err := gateway.FetchAccountInfo(context.Background())
	if err != nil {
		t.Fatalf("FetchAccountInfo() error = %v, want nil", err)
	}

	if len(account.Wallets) != 3 {
		t.Fatalf("wallets = %v, want 3 entries", account.Wallets)
	}
	if account.Wallets["BTC"].Balance.Value != "1.5" {
		t.Fatalf(
			"BTC balance = %q, want 1.5",
			account.Wallets["BTC"].Balance.Value,
		)
	}
	if account.Wallets["EUR"].Balance.Value != "0" {
		t.Fatalf(
			"EUR balance = %q, want 0",
			account.Wallets["EUR"].Balance.Value,
		)
	}
	if account.TradeFee != 0.3 {
		t.Fatalf("trade fee = %v, want 0.3", account.TradeFee)
	}
}

func TestFailNextInjectsTransportFailures(t *testing.T) {
	gateway := NewGateway("BTCUSD")
	ctx := context.Background()

	gateway.FailNext(2)

	if _, err := gateway.FetchTicker(ctx); !errors.Is(err, ErrUnreachable) {
		t.Fatalf("FetchTicker() error = %v, want ErrUnreachable", err)
	}
	if _, err := gateway.FetchAccountInfo(ctx); !errors.Is(err, ErrUnreachable) {
		t.Fatalf("FetchAccountInfo() error = %v, want ErrUnreachable", err)
	}

	if _, err := gateway.FetchTicker(ctx); err != nil {
		t.Fatalf("FetchTicker() after recovery error = %v, want nil", err)
	}
}
