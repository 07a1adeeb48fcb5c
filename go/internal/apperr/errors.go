package apperr

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"
)

// Lookup and access errors
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
)

// Lifecycle errors
var (
	ErrInvalidState     = errors.New("invalid state")
	ErrAuctionNotActive = fmt.Errorf("auction not active: %w", ErrInvalidState)
	ErrAlreadySettled   = errors.New("item already settled")
)

// Bid rejection errors
var (
	ErrBidTooLow          = errors.New("bid amount too low")
	ErrInsufficientBudget = errors.New("insufficient budget")
	ErrItemMismatch       = errors.New("bid is not for the current item")
)

// Kind returns a short machine-readable name for err, used in client replies.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrAuctionNotActive):
		return "auction_not_active"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrAlreadySettled):
		return "already_settled"
	case errors.Is(err, ErrBidTooLow):
		return "bid_too_low"
	case errors.Is(err, ErrInsufficientBudget):
		return "insufficient_budget"
	case errors.Is(err, ErrItemMismatch):
		return "item_mismatch"
	default:
		return "internal"
	}
}

// ConnectCode maps err onto the RPC status a client should see.
func ConnectCode(err error) connect.Code {
	switch {
	case errors.Is(err, ErrNotFound):
		return connect.CodeNotFound
	case errors.Is(err, ErrForbidden):
		return connect.CodePermissionDenied
	case errors.Is(err, ErrInvalidInput):
		return connect.CodeInvalidArgument
	case errors.Is(err, ErrAlreadySettled):
		return connect.CodeAlreadyExists
	case errors.Is(err, ErrInvalidState),
		errors.Is(err, ErrBidTooLow),
		errors.Is(err, ErrInsufficientBudget),
		errors.Is(err, ErrItemMismatch):
		return connect.CodeFailedPrecondition
	default:
		return connect.CodeInternal
	}
}

// ToConnect wraps err as a connect error carrying the mapped code.
func ToConnect(err error) error {
	if err == nil {
		return nil
	}
	var ce *connect.Error
	if errors.As(err, &ce) {
		return err
	}
	return connect.NewError(ConnectCode(err), err)
}
