package job

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/shopspring/decimal"

	"github.com/mzielinski/goxtrader/configs"
	"github.com/mzielinski/goxtrader/pkg/core"
	"github.com/mzielinski/goxtrader/pkg/core/logger"
	"github.com/mzielinski/goxtrader/pkg/exchange/sim"
)

const tickInterval = 5 * time.Second

// RunTrading drives a trading client against the simulated exchange: a
// random walk moves the book while the client polls ticker, portfolio, fee
// and trade data, and runs one full order round trip. Selection of a live
// transport stays outside this binary.
func RunTrading(ctx context.Context, config *configs.Config) error {
	log.Infof("creating trading client")

	price, err := decimal.NewFromString(config.Sim.Price)
	if err != nil {
		return fmt.Errorf("could not parse sim price: [%v]", err)
	}

	spread, err := decimal.NewFromString(config.Sim.Spread)
	if err != nil {
		return fmt.Errorf("could not parse sim spread: [%v]", err)
	}

	half := spread.Div(decimal.NewFromInt(2))

	var gateway *sim.Gateway

	connect := func(key, secret, pair string) core.Gateway {
		gateway = sim.NewGateway(
			pair,
			sim.WithQuotes(price.Sub(half).String(), price.Add(half).String()),
			sim.WithWallet("BTC", "1.5"),
			sim.WithWallet(strings.TrimPrefix(pair, "BTC"), "5000"),
			sim.WithTradeFee(config.Sim.Fee),
		)

		return gateway
	}

	trader := core.NewTrader(
		&core.Config{
			Key:      config.Mtgox.Key,
			Secret:   config.Mtgox.Secret,
			Currency: config.Mtgox.Currency,
		},
		connect,
	)

	contextLogger := logger.WithFields(map[string]interface{}{
		"exchange": trader.Name(),
		"pair":     trader.Pair(),
	})

	contextLogger.Infof("starting paper trading loop")

	trader.GetPortfolio(func(err error, portfolio []core.Asset) {
		if err != nil {
			contextLogger.Errorf("could not get portfolio: [%v]", err)
			return
		}

		for _, asset := range portfolio {
			contextLogger.Infof("holding [%v] [%v]", asset.Amount, asset.Name)
		}
	})

	trader.GetFee(func(err error, fee float64) {
		if err != nil {
			contextLogger.Errorf("could not get fee: [%v]", err)
			return
		}

		contextLogger.Infof("trading fee fraction is [%v]", fee)
	})

	trader.GetTrades(time.Now(), func(trades []core.Trade) {
		contextLogger.Infof("received [%v] fresh trades", len(trades))
	}, false)

	runOrderRoundTrip(trader, price, contextLogger)

	rand.Seed(time.Now().UnixNano())

	quotes := time.NewTicker(tickInterval)
	defer quotes.Stop()

	for {
		select {
		case <-quotes.C:
			step := half
			if rand.Intn(2) == 0 {
				step = step.Neg()
			}
			price = price.Add(step)

			gateway.Tick(price)

			trader.GetTicker(func(err error, ticker *core.Ticker) {
				if err != nil {
					contextLogger.Errorf("could not get ticker: [%v]", err)
					return
				}

				contextLogger.Infof(
					"ticker bid [%v] ask [%v]",
					ticker.Bid,
					ticker.Ask,
				)
			})
		case <-ctx.Done():
			contextLogger.Infof("trading context is done")
			return nil
		}
	}
}

// runOrderRoundTrip places a deep bid, confirms it is still open and
// cancels it again.
func runOrderRoundTrip(
	trader *core.Trader,
	price decimal.Decimal,
	contextLogger logger.Logger,
) {
	bidPrice, _ := price.Mul(decimal.RequireFromString("0.5")).Float64()

	trader.Buy(0.01, bidPrice, func(err error, orderID string) {
		if err != nil {
			contextLogger.Errorf("could not place order: [%v]", err)
			return
		}

		contextLogger.Infof("placed order [%v]", orderID)

		trader.CheckOrder(orderID, func(err error, closed bool) {
			if err != nil {
				contextLogger.Errorf("could not check order: [%v]", err)
				return
			}

			contextLogger.Infof("order [%v] closed: [%v]", orderID, closed)

			trader.CancelOrder(orderID)
		})
	})
}
