package rpc

import (
	"errors"
	"net/http"

	"launchpad/crypto"
	"launchpad/native/sale"
	"launchpad/native/token"
)

// statusFor maps engine and ledger errors onto HTTP status codes following
// the error taxonomy: authorization 403, phase and state conflicts 409,
// validation 400, supply and funds exhaustion 422.
func statusFor(err error) int {
	switch {
	case errors.Is(err, sale.ErrUnauthorized),
		errors.Is(err, token.ErrUnauthorized),
		errors.Is(err, token.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, sale.ErrNotStarted),
		errors.Is(err, sale.ErrSaleEnded),
		errors.Is(err, sale.ErrSaleNotEnded),
		errors.Is(err, sale.ErrSaleStarted),
		errors.Is(err, sale.ErrCliffNotReached),
		errors.Is(err, sale.ErrAlreadyInitialized),
		errors.Is(err, sale.ErrNotConfigured),
		errors.Is(err, token.ErrUpdateInProgress),
		errors.Is(err, token.ErrUpdateNotPending),
		errors.Is(err, token.ErrUpdateExecuted),
		errors.Is(err, token.ErrGraceNotElapsed):
		return http.StatusConflict
	case errors.Is(err, sale.ErrInvalidAmount),
		errors.Is(err, sale.ErrBelowMinimum),
		errors.Is(err, sale.ErrAboveMaximum),
		errors.Is(err, sale.ErrInvalidReferral),
		errors.Is(err, sale.ErrUnauthorizedCurrency),
		errors.Is(err, sale.ErrInvalidConfig),
		errors.Is(err, token.ErrInvalidAmount),
		errors.Is(err, token.ErrInvalidAddress),
		errors.Is(err, crypto.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, sale.ErrInsufficientSupply),
		errors.Is(err, token.ErrInsufficientBalance),
		errors.Is(err, token.ErrInsufficientAllowance):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	writeJSONError(w, statusFor(err), err.Error())
}
