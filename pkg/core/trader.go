package core

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/mzielinski/goxtrader/pkg/core/logger"
)

const (
	traderName   = "Mt. Gox"
	baseCurrency = "BTC"

	defaultCurrency = "USD"

	// callTimeout caps a single gateway round trip. A timed out call is a
	// transport failure and follows the retry rules of its operation.
	callTimeout = 1 * time.Minute
)

type OrderCallback func(err error, orderID string)

// TradesCallback has no error parameter: trade fetching retries until a
// non-empty result arrives, so callers only ever see data.
type TradesCallback func(trades []Trade)

type PortfolioCallback func(err error, portfolio []Asset)

type FeeCallback func(err error, fee float64)

// CheckOrderCallback reports closed == true when the order is no longer on
// the open-orders list, meaning it was filled or cancelled.
type CheckOrderCallback func(err error, closed bool)

type TickerCallback func(err error, ticker *Ticker)

// Config carries the exchange credentials and the quote currency. All
// fields are optional; missing credentials surface as gateway failures on
// the first call that needs them, not at construction.
type Config struct {
	Key      string
	Secret   string
	Currency string
}

// Trader normalizes one exchange behind a uniform contract and shields
// callers from transient failures. All public operations are non-blocking:
// the gateway call runs on an internal goroutine and the completion
// callback is invoked from there. The trader holds no mutable state beyond
// its configuration and gateway handle, both read-only after construction;
// callers racing conflicting operations against the same logical order must
// coordinate themselves.
type Trader struct {
	name     string
	key      string
	secret   string
	currency string
	pair     string

	gateway    Gateway
	retryDelay time.Duration
	logger     logger.Logger
}

type Option func(*Trader)

// WithRetryDelay overrides the spacing between retry attempts.
func WithRetryDelay(delay time.Duration) Option {
	return func(t *Trader) {
		t.retryDelay = delay
	}
}

func WithLogger(log logger.Logger) Option {
	return func(t *Trader) {
		t.logger = log
	}
}

// NewTrader builds a trader bound to the gateway produced by connect. The
// trading pair is derived from the base currency and the configured quote
// currency, defaulting to USD; with a nil config the credentials and pair
// stay empty. No network I/O happens here.
func NewTrader(config *Config, connect GatewayFactory, options ...Option) *Trader {
	trader := &Trader{
		name:       traderName,
		retryDelay: DefaultRetryDelay,
	}

	if config != nil {
		trader.key = config.Key
		trader.secret = config.Secret

		trader.currency = config.Currency
		if trader.currency == "" {
			trader.currency = defaultCurrency
		}

		trader.pair = baseCurrency + trader.currency
	}

	for _, option := range options {
		option(trader)
	}

	if trader.logger == nil {
		trader.logger = logger.WithField("exchange", trader.name)
	}

	trader.gateway = connect(trader.key, trader.secret, trader.pair)

	return trader
}

func (t *Trader) Name() string {
	return t.name
}

// Pair is the trading pair the gateway is bound to, for example BTCUSD.
func (t *Trader) Pair() string {
	return t.pair
}

// Buy submits a bid order. Order submission is not idempotent so it is
// never retried: transport failures and exchange rejections are logged and
// reported through the callback, which runs exactly once.
func (t *Trader) Buy(amount, price float64, callback OrderCallback) {
	go t.placeOrder(Bid, amount, price, callback)
}

// Sell submits an ask order. Same completion contract as Buy.
func (t *Trader) Sell(amount, price float64, callback OrderCallback) {
	go t.placeOrder(Ask, amount, price, callback)
}

func (t *Trader) placeOrder(
	side Side,
	amount, price float64,
	callback OrderCallback,
) {
	ctx, cancelCtx := context.WithTimeout(context.Background(), callTimeout)
	defer cancelCtx()

	response, err := t.gateway.PlaceOrder(ctx, side, amount, price)

	if err == nil && response != nil && response.Result == ResultError {
		err = &ExchangeError{
			Operation: "placeOrder",
			Status:    response.Result,
			Message:   response.Message,
		}
	}

	var orderID string
	if response != nil {
		orderID = response.OrderID
	}

	if err != nil {
		t.logger.Errorf(
			"unable to %v [%v] at [%v]: [%v]",
			orderVerb(side),
			amount,
			price,
			err,
		)
	}

	callback(err, orderID)
}

func orderVerb(side Side) string {
	if side == Bid {
		return "buy"
	}

	return "sell"
}

// GetTrades fetches trades newer than since, oldest first unless descending
// is set. The callback only ever receives a non-empty list: transport
// failures and empty pages are both retried with the original arguments,
// under the assumption that an empty page from this feed signals exchange
// lag rather than a truly empty history. A zero since means no lower bound.
func (t *Trader) GetTrades(since time.Time, callback TradesCallback, descending bool) {
	go t.fetchTrades(since, callback, descending)
}

func (t *Trader) fetchTrades(
	since time.Time,
	callback TradesCallback,
	descending bool,
) {
	var sinceMicros int64
	if !since.IsZero() {
		sinceMicros = since.UnixNano() / int64(time.Microsecond)
	}

	ctx, cancelCtx := context.WithTimeout(context.Background(), callTimeout)
	defer cancelCtx()

	response, err := t.gateway.FetchTrades(ctx, sinceMicros)
	if err != nil || response == nil || len(response.Trades) == 0 {
		t.retry("getTrades", func() {
			t.fetchTrades(since, callback, descending)
		})
		return
	}

	trades := response.Trades
	if descending {
		trades = reversedTrades(trades)
	}

	callback(trades)
}

func reversedTrades(trades []Trade) []Trade {
	reversed := make([]Trade, len(trades))

	for index, trade := range trades {
		reversed[len(trades)-index-1] = trade
	}

	return reversed
}

// GetPortfolio reports the balance of every wallet the exchange knows
// about, zero balances included, sorted by asset name. Built fresh on every
// call; transport failures are retried.
func (t *Trader) GetPortfolio(callback PortfolioCallback) {
	go t.fetchPortfolio(callback)
}

func (t *Trader) fetchPortfolio(callback PortfolioCallback) {
	ctx, cancelCtx := context.WithTimeout(context.Background(), callTimeout)
	defer cancelCtx()

	response, err := t.gateway.FetchAccountInfo(ctx)
	if err != nil || response == nil {
		t.retry("getPortfolio", func() {
			t.fetchPortfolio(callback)
		})
		return
	}

	portfolio := make([]Asset, 0, len(response.Wallets))
	for name, wallet := range response.Wallets {
		// Malformed balances read as zero rather than failing the whole
		// portfolio.
		amount, _ := strconv.ParseFloat(wallet.Balance.Value, 64)

		portfolio = append(portfolio, Asset{Name: name, Amount: amount})
	}

	sort.Slice(portfolio, func(i, j int) bool {
		return portfolio[i].Name < portfolio[j].Name
	})

	callback(nil, portfolio)
}

// GetFee reports the account's trading fee as a fraction; the exchange
// reports a percentage. Transport failures are retried.
func (t *Trader) GetFee(callback FeeCallback) {
	go t.fetchFee(callback)
}

func (t *Trader) fetchFee(callback FeeCallback) {
	ctx, cancelCtx := context.WithTimeout(context.Background(), callTimeout)
	defer cancelCtx()

	response, err := t.gateway.FetchAccountInfo(ctx)
	if err != nil || response == nil {
		t.retry("getFee", func() {
			t.fetchFee(callback)
		})
		return
	}

	callback(nil, response.TradeFee/100)
}

// CheckOrder reports whether the given order has left the exchange's
// open-orders list. The exchange offers no single-order lookup, so the full
// list is scanned; absence means filled or cancelled. Transport failures
// are retried.
func (t *Trader) CheckOrder(orderID string, callback CheckOrderCallback) {
	go t.checkOrder(orderID, callback)
}

func (t *Trader) checkOrder(orderID string, callback CheckOrderCallback) {
	ctx, cancelCtx := context.WithTimeout(context.Background(), callTimeout)
	defer cancelCtx()

	response, err := t.gateway.ListOrders(ctx)
	if err != nil || response == nil {
		t.retry("checkOrder", func() {
			t.checkOrder(orderID, callback)
		})
		return
	}

	stillOpen := false
	for _, order := range response.Orders {
		if order.ID == orderID {
			stillOpen = true
			break
		}
	}

	callback(nil, !stillOpen)
}

// CancelOrder requests cancellation of the given order, fire and forget:
// there is no completion callback and no retry. Failures of either kind are
// logged only.
func (t *Trader) CancelOrder(orderID string) {
	go func() {
		ctx, cancelCtx := context.WithTimeout(context.Background(), callTimeout)
		defer cancelCtx()

		response, err := t.gateway.CancelOrder(ctx, orderID)
		if err != nil || response == nil || response.Result != ResultSuccess {
			t.logger.Errorf(
				"unable to cancel order [%v]: [%v] [%+v]",
				orderID,
				err,
				response,
			)
		}
	}()
}

// GetTicker reports the current bid and ask quotes, fetched fresh on every
// call. Transport failures are retried; on success the callback's error is
// always nil.
func (t *Trader) GetTicker(callback TickerCallback) {
	go t.fetchTicker(callback)
}

func (t *Trader) fetchTicker(callback TickerCallback) {
	ctx, cancelCtx := context.WithTimeout(context.Background(), callTimeout)
	defer cancelCtx()

	response, err := t.gateway.FetchTicker(ctx)
	if err != nil || response == nil {
		t.retry("getTicker", func() {
			t.fetchTicker(callback)
		})
		return
	}

	callback(nil, &Ticker{
		Bid: response.Buy.Value,
		Ask: response.Sell.Value,
	})
}
