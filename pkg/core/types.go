package core

import "fmt"

// Side of an order book entry.
type Side string

const (
	Bid Side = "bid"
	Ask Side = "ask"
)

// Asset is one entry of a portfolio: an asset symbol together with the
// amount held, zero balances included.
type Asset struct {
	Name   string
	Amount float64
}

// Trade is a single exchange trade. Its fields are passed to callers as the
// exchange reports them; the trader only adjusts their ordering.
type Trade struct {
	// Tid is the exchange's trade identifier, a microsecond timestamp.
	Tid    int64
	Date   int64
	Price  string
	Amount string
	Type   Side
}

// Ticker carries the current top of book quotes. Values are kept as the
// exchange's string representation.
type Ticker struct {
	Bid string
	Ask string
}

// ExchangeError is a rejection reported by the exchange itself: the request
// reached the exchange but was answered with an error status. Rejections
// are authoritative and are never retried.
type ExchangeError struct {
	Operation string
	Status    string
	Message   string
}

func (e *ExchangeError) Error() string {
	return fmt.Sprintf(
		"exchange rejected %v: [%v] [%v]",
		e.Operation,
		e.Status,
		e.Message,
	)
}
