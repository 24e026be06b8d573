package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPair     = errors.New("invalid pair")
	ErrUnsupportedPair = errors.New("unsupported pair")
)

type FetchErrorKind string

const (
	FetchTimeout      FetchErrorKind = "timeout"
	FetchNetwork      FetchErrorKind = "network"
	FetchPairNotFound FetchErrorKind = "pair_not_found"
	FetchBadResponse  FetchErrorKind = "bad_response"
)

// FetchError is returned by every quote source.
type FetchError struct {
	Kind   FetchErrorKind
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Source, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func NewFetchError(source string, kind FetchErrorKind, err error) *FetchError {
	return &FetchError{Kind: kind, Source: source, Err: err}
}

// FetchKind reports the kind of the outermost FetchError in err's chain.
func FetchKind(err error) (FetchErrorKind, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return "", false
}

type StoreErrorKind string

const (
	StoreErrUnavailable      StoreErrorKind = "unavailable"
	StoreErrPermissionDenied StoreErrorKind = "permission_denied"
	StoreErrUnknown          StoreErrorKind = "unknown"
)

// StoreError is returned by every history store.
type StoreError struct {
	Kind StoreErrorKind
	Op   string
	Err  error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("store %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("store %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func NewStoreError(op string, kind StoreErrorKind, err error) *StoreError {
	return &StoreError{Kind: kind, Op: op, Err: err}
}

func StoreKind(err error) (StoreErrorKind, bool) {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind, true
	}
	return "", false
}
