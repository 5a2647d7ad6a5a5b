package service

import "errors"

var (
	// ErrNotFound covers both a missing row and an ownership mismatch.
	// Callers are deliberately unable to tell the two apart.
	ErrNotFound            = errors.New("not found")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrAuthorizationDenied = errors.New("authorization denied")
	ErrNotConfigured       = errors.New("service not configured")
)
