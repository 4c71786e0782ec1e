package token

import "errors"

var (
	ErrUnauthorized          = errors.New("token: caller is not the owner")
	ErrAccessDenied          = errors.New("token: access denied")
	ErrInvalidAmount         = errors.New("token: amount must be positive")
	ErrInvalidAddress        = errors.New("token: zero address")
	ErrInsufficientBalance   = errors.New("token: insufficient balance")
	ErrInsufficientAllowance = errors.New("token: insufficient allowance")
	ErrUpdateInProgress      = errors.New("token: current update not yet executed")
	ErrUpdateNotPending      = errors.New("token: no bridge update pending")
	ErrUpdateExecuted        = errors.New("token: update already executed")
	ErrGraceNotElapsed       = errors.New("token: grace period has not finished")
)
