package model

import (
	"errors"
	"fmt"
)

// Error codes returned at the API boundary. Every typed failure maps to
// exactly one code so callers can branch without string matching.
const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeAuth        = "AUTHENTICATION_ERROR"
	CodeLocked      = "WALLET_LOCKED"
	CodeDecryption  = "DECRYPTION_ERROR"
	CodeDerivation  = "DERIVATION_ERROR"
	CodeNetwork     = "NETWORK_ERROR"
	CodeUnsupported = "UNSUPPORTED_OPERATION"
	CodeNotFound    = "NOT_FOUND"
	CodeInternal    = "INTERNAL_ERROR"
)

var (
	// ErrLocked is returned when an operation needs the seed but the
	// session is locked. Callers must re-prompt, never retry silently.
	ErrLocked = errors.New("wallet is locked")

	// ErrDecryption is returned when an envelope cannot be opened with the
	// supplied password. Wrong password and tampered ciphertext are
	// indistinguishable on purpose (authenticated encryption).
	ErrDecryption = errors.New("decryption failed")

	// ErrAuthentication is returned when password verification fails on
	// every path, including the seed-decrypt ground truth.
	ErrAuthentication = errors.New("invalid password")

	ErrWalletNotFound  = errors.New("wallet not found")
	ErrAccountNotFound = errors.New("account not found")
)

// ValidationError reports caller-correctable input problems: malformed
// address, short password, insufficient balance. Never retried automatically
// and never the cause of a network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// DerivationError reports an internal derivation invariant violation, e.g. a
// derived address that fails its own network's format check. Fatal for the
// request; a malformed address is never returned.
type DerivationError struct {
	Network string
	Reason  string
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("derivation failed for network %q: %s", e.Network, e.Reason)
}

// UnsupportedOperationError reports a network family or method the engine
// does not implement. Terminal and explicit, never a silent no-op.
type UnsupportedOperationError struct {
	Network   string
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operation %q is not supported on network %q", e.Operation, e.Network)
}

// NetworkError wraps a single failed endpoint attempt.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// AllEndpointsFailed is returned when every endpoint in a network's failover
// list has been tried without success. Last carries the final observed error
// for diagnostics.
type AllEndpointsFailed struct {
	Network  string
	Attempts int
	Last     error
}

func (e *AllEndpointsFailed) Error() string {
	return fmt.Sprintf("all %d endpoints failed for network %q: %v", e.Attempts, e.Network, e.Last)
}

func (e *AllEndpointsFailed) Unwrap() error { return e.Last }

// ErrorCode maps a typed failure to its API error code.
func ErrorCode(err error) string {
	var (
		validationErr  *ValidationError
		derivationErr  *DerivationError
		unsupportedErr *UnsupportedOperationError
		networkErr     *NetworkError
		exhaustedErr   *AllEndpointsFailed
	)
	switch {
	case errors.As(err, &validationErr):
		return CodeValidation
	case errors.Is(err, ErrLocked):
		return CodeLocked
	case errors.Is(err, ErrDecryption):
		return CodeDecryption
	case errors.Is(err, ErrAuthentication):
		return CodeAuth
	case errors.As(err, &derivationErr):
		return CodeDerivation
	case errors.As(err, &unsupportedErr):
		return CodeUnsupported
	case errors.As(err, &exhaustedErr), errors.As(err, &networkErr):
		return CodeNetwork
	case errors.Is(err, ErrWalletNotFound), errors.Is(err, ErrAccountNotFound):
		return CodeNotFound
	default:
		return CodeInternal
	}
}
