package core

import "time"

// DefaultRetryDelay is the spacing between attempts of a failed gateway
// call.
const DefaultRetryDelay = 10 * time.Second

// retryTask re-runs one failed operation with the arguments of the original
// call, the completion callback included, captured as a closure.
type retryTask func()

// retry schedules task to run once after the trader's retry delay. There is
// no attempt limit: an operation that keeps failing keeps rescheduling
// itself until it succeeds or the process terminates. The constant delay
// bounds the load this puts on the exchange. Each scheduled task is
// independent; once scheduled it will fire.
func (t *Trader) retry(operation string, task retryTask) {
	t.logger.Debugf(
		"%v returned an error, retrying [%v] in [%v]",
		t.name,
		operation,
		t.retryDelay,
	)

	time.AfterFunc(t.retryDelay, task)
}
