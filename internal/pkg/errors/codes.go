package errors

import (
	"fmt"
	"net/http"
)

// Transition validation codes.
const (
	CodeUnknownStatus = "UNKNOWN_STATUS"
	CodeInvalidAmount = "INVALID_AMOUNT"
)

// Lookup codes.
const (
	CodeInvestmentNotFound = "INVESTMENT_NOT_FOUND"
	CodeOwnerNotFound      = "PORTFOLIO_OWNER_NOT_FOUND"
	CodeScopeNotLoaded     = "SCOPE_NOT_LOADED"
)

// Concurrency codes.
const (
	CodeTransitionInFlight = "TRANSITION_IN_FLIGHT"
)

// Backend gateway codes.
const (
	CodeBackendUnavailable = "BACKEND_UNAVAILABLE"
)

// Auth codes.
const (
	CodeAuthFailed     = "AUTH_FAILED"
	CodeTokenExpired   = "TOKEN_EXPIRED"
	CodeTokenInvalid   = "TOKEN_INVALID"
	CodeForbidden      = "FORBIDDEN"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeSessionClosed  = "SESSION_CLOSED"
)

// Convenience constructors using predefined codes.

// ErrUnknownStatusf creates a validation error for an unrecognized status value.
// Wraps ErrValidation for errors.Is classification.
func ErrUnknownStatusf(status string) *AppError {
	return Wrap(ErrValidation, CodeUnknownStatus, "unknown investment status", http.StatusBadRequest).
		WithParams(map[string]interface{}{"status": status})
}

// ErrInvalidAmountf creates a validation error for a missing or malformed amount.
func ErrInvalidAmountf(reason string) *AppError {
	return Wrap(ErrValidation, CodeInvalidAmount, "invalid transition amount", http.StatusBadRequest).
		WithParams(map[string]interface{}{"reason": reason})
}

// ErrInvestmentNotFoundf creates a not-found error for an investment id.
func ErrInvestmentNotFoundf(investmentID string) *AppError {
	return Wrap(ErrNotFound, CodeInvestmentNotFound, "investment not found", http.StatusNotFound).
		WithParams(map[string]interface{}{"investment_id": investmentID})
}

// ErrBackendUnavailablef wraps an upstream gateway failure. The result
// matches both ErrBackend and the original cause under errors.Is.
func ErrBackendUnavailablef(err error) *AppError {
	return Wrap(fmt.Errorf("%w: %w", ErrBackend, err), CodeBackendUnavailable, "backend request failed", http.StatusBadGateway)
}

// ErrTransitionInFlightf signals a concurrent transition already committing
// for the same investment.
func ErrTransitionInFlightf(investmentID string) *AppError {
	return New(CodeTransitionInFlight, "a transition for this investment is already in flight", http.StatusConflict).
		WithParams(map[string]interface{}{"investment_id": investmentID})
}
