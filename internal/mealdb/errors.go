package mealdb

import (
	"errors"
	"fmt"
)

// ErrNotFound matches lookups that returned no meal.
var ErrNotFound = errors.New("meal not found")

// Kind classifies why a fetch failed. Only the collapsed Failure is shown to
// users; Kind is kept for logging.
type Kind int

const (
	KindTransport Kind = iota
	KindStatus
	KindDecode
	KindEmpty
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	case KindEmpty:
		return "empty"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Failure is the user-facing failure class.
type Failure int

const (
	NetworkOrFormat Failure = iota
	NotFound
)

func (f Failure) String() string {
	if f == NotFound {
		return "not_found"
	}
	return "network_or_format"
}

// FetchError describes a failed API call.
type FetchError struct {
	Op     string // "random" or "lookup"
	Kind   Kind
	Status int // HTTP status for KindStatus
	Err    error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("mealdb %s: api returned status %d", e.Op, e.Status)
	case KindNotFound, KindEmpty:
		if e.Err != nil {
			return fmt.Sprintf("mealdb %s: %v", e.Op, e.Err)
		}
		return fmt.Sprintf("mealdb %s: no meals in response", e.Op)
	default:
		return fmt.Sprintf("mealdb %s: %s: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNotFound) match NotFound failures.
func (e *FetchError) Is(target error) bool {
	return target == ErrNotFound && e.Kind == KindNotFound
}

// Failure collapses the kind into the user-facing class.
func (e *FetchError) Failure() Failure {
	if e.Kind == KindNotFound {
		return NotFound
	}
	return NetworkOrFormat
}

// FailureOf classifies any error returned by the client.
func FailureOf(err error) Failure {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Failure()
	}
	return NetworkOrFormat
}
