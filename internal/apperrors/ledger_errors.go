package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failed ledger action.
type Kind string

const (
	KindFetch         Kind = "FetchError"
	KindCreate        Kind = "CreateError"
	KindPartialCreate Kind = "PartialCreateError"
	KindAddItem       Kind = "AddItemError"
	KindUpdateItem    Kind = "UpdateItemError"
	KindRecompute     Kind = "RecomputeError"
	KindLifecycle     Kind = "LifecycleError"
)

// Kind sentinels, usable with errors.Is against any *LedgerError.
var (
	ErrFetch         = kindError(KindFetch)
	ErrCreate        = kindError(KindCreate)
	ErrPartialCreate = kindError(KindPartialCreate)
	ErrAddItem       = kindError(KindAddItem)
	ErrUpdateItem    = kindError(KindUpdateItem)
	ErrRecompute     = kindError(KindRecompute)
	ErrLifecycle     = kindError(KindLifecycle)
)

type kindError Kind

func (k kindError) Error() string { return string(k) }

// LedgerError is returned by every ledger action that fails at a collaborator
// boundary. DebtID and ItemID are zero when unknown.
type LedgerError struct {
	Kind   Kind
	DebtID int64
	ItemID int64
	Err    error

	// Pending is set on PartialCreateError and holds whatever the caller
	// needs to finish the interrupted create.
	Pending any
}

func (e *LedgerError) Error() string {
	msg := string(e.Kind)
	if e.DebtID != 0 {
		msg += fmt.Sprintf(" (debt %d)", e.DebtID)
	}
	if e.ItemID != 0 {
		msg += fmt.Sprintf(" (item %d)", e.ItemID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LedgerError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels so errors.Is(err, ErrRecompute) works
// without unwrapping to the concrete type.
func (e *LedgerError) Is(target error) bool {
	k, ok := target.(kindError)
	return ok && Kind(k) == e.Kind
}

// NewLedgerError builds a LedgerError of the given kind.
func NewLedgerError(kind Kind, debtID, itemID int64, err error) *LedgerError {
	return &LedgerError{Kind: kind, DebtID: debtID, ItemID: itemID, Err: err}
}

// AsLedgerError unwraps err to a *LedgerError if there is one.
func AsLedgerError(err error) (*LedgerError, bool) {
	var le *LedgerError
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
