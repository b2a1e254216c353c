package domain

import "errors"

var (
	// ErrProductNotFound aborts the whole order; no partial orders exist.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock is raised at validation time against the stock
	// observed then; the later asynchronous decrement may still fail.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrUpstreamUnavailable covers transport failures and timeouts while
	// querying the inventory service.
	ErrUpstreamUnavailable = errors.New("inventory service unavailable")
)
