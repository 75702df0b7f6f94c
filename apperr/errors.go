// Package apperr holds the error kinds shared by the cart, checkout and
// receipt packages. Handlers translate kinds into HTTP statuses.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a business or persistence failure.
type Kind string

const (
	KindNotFound            Kind = "NotFound"
	KindInactive            Kind = "Inactive"
	KindInsufficientStock   Kind = "InsufficientStock"
	KindInvalidQuantity     Kind = "InvalidQuantity"
	KindEmptyCart           Kind = "EmptyCart"
	KindInsufficientPayment Kind = "InsufficientPayment"
	KindMissingTableNumber  Kind = "MissingTableNumber"
	KindPreconditionFailed  Kind = "PreconditionFailed"
	KindInvalidTransition   Kind = "InvalidTransition"
	KindInvalidInput        Kind = "InvalidInput"
	KindConflict            Kind = "Conflict"
	KindPersistence         Kind = "PersistenceFailure"
)

// Sentinel errors for comparison with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrInactive            = errors.New("menu item is inactive")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInvalidQuantity     = errors.New("quantity must be greater than zero")
	ErrEmptyCart           = errors.New("cart is empty")
	ErrInsufficientPayment = errors.New("cash tendered is less than the total")
	ErrMissingTableNumber  = errors.New("table number is required for dine in orders")
	ErrPreconditionFailed  = errors.New("precondition failed")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInvalidInput        = errors.New("invalid input")
	ErrConflict            = errors.New("concurrent modification")
	ErrPersistenceFailure  = errors.New("persistence failure")
)

var sentinels = map[Kind]error{
	KindNotFound:            ErrNotFound,
	KindInactive:            ErrInactive,
	KindInsufficientStock:   ErrInsufficientStock,
	KindInvalidQuantity:     ErrInvalidQuantity,
	KindEmptyCart:           ErrEmptyCart,
	KindInsufficientPayment: ErrInsufficientPayment,
	KindMissingTableNumber:  ErrMissingTableNumber,
	KindPreconditionFailed:  ErrPreconditionFailed,
	KindInvalidTransition:   ErrInvalidTransition,
	KindInvalidInput:        ErrInvalidInput,
	KindConflict:            ErrConflict,
	KindPersistence:         ErrPersistenceFailure,
}

// Error carries the failing operation, the kind and the entity involved.
type Error struct {
	Op      string // e.g. "cart.Add"
	Kind    Kind
	ID      string // optional id of the menu item, order or line
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = string(e.Kind)
	}
	switch {
	case e.Op != "" && e.ID != "":
		return fmt.Sprintf("%s [%s]: %s", e.Op, e.ID, msg)
	case e.Op != "":
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

// Unwrap exposes the wrapped error, or the kind's sentinel when nothing is wrapped.
func (e *Error) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return sentinels[e.Kind]
}

// Is reports a match against the sentinel for this error's kind, so a
// persistence failure wrapping a driver error still matches ErrPersistenceFailure.
func (e *Error) Is(target error) bool {
	s, ok := sentinels[e.Kind]
	return ok && s == target
}

// New builds an Error of the given kind.
func New(op string, kind Kind, id string, message string) *Error {
	return &Error{Op: op, Kind: kind, ID: id, Message: message}
}

// Persistence wraps a storage error. A nil err stays nil.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return &Error{Op: op, Kind: KindPersistence, Err: err}
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	for kind, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return ""
}

// IsNotFound reports whether err is a NotFound failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
