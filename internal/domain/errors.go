package domain

import (
	"errors"
	"fmt"
)

// Validation reason codes reported by the offer validator and request parsing.
const (
	ReasonMissingPrice      = "missing-price"
	ReasonInvalidPrice      = "invalid-price"
	ReasonInvalidRange      = "invalid-range"
	ReasonDuplicatePrice    = "duplicate-price"
	ReasonDuplicateRange    = "duplicate-range"
	ReasonDuplicateBoundary = "duplicate-boundary"
	ReasonOverlap           = "overlap"
	ReasonInvalidTier       = "invalid-tier"
	ReasonInvalidAmount     = "invalid-amount"
	ReasonInvalidKind       = "invalid-kind"
	ReasonInvalidID         = "invalid-id"
)

// State reason codes reported by the participation ledger.
const (
	StateAlreadySubscribed    = "already-subscribed"
	StatePaymentExceedsPrice  = "payment-exceeds-price"
	StateInvalidPaymentAmount = "invalid-payment-amount"
	StateNotApproved          = "not-approved"
)

// ValidationError is a caller-correctable rejection of input data.
// Index and Other point at offers in the submitted list (-1 when not applicable).
type ValidationError struct {
	Code    string
	Index   int
	Other   int
	OfferID int64
	Field   string
	Msg     string
	Err     error
}

func (e ValidationError) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = "validation error"
	}
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, msg)
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

func (e ValidationError) Unwrap() error { return e.Err }

// StateError rejects a ledger transition before any mutation happened.
type StateError struct {
	Code string
	Msg  string
}

func (e StateError) Error() string {
	if e.Msg == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// AuthError means the acting identity is missing or unusable.
type AuthError struct {
	Msg string
	Err error
}

func (e AuthError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "unauthenticated"
}

func (e AuthError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// StorageError wraps a durable-store failure. It is never retried by the engine.
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("storage: %s failed", e.Op)
	}
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e StorageError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsState(err error) bool {
	var target StateError
	return errors.As(err, &target)
}

func IsAuth(err error) bool {
	var target AuthError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsStorage(err error) bool {
	var target StorageError
	return errors.As(err, &target)
}

// Code extracts the machine-readable reason of a domain error, or "" if none.
func Code(err error) string {
	var v ValidationError
	if errors.As(err, &v) {
		return v.Code
	}
	var s StateError
	if errors.As(err, &s) {
		return s.Code
	}
	return ""
}
