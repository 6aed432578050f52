package domain

import "errors"

type LookupState int

const (
	LookupNotFound LookupState = iota
	LookupFound
	LookupFailed
)

func (s LookupState) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupFailed:
		return "failed"
	default:
		return "not_found"
	}
}

// Lookup is the outcome of a single record fetch. It keeps "row does not
// exist" apart from "the query failed".
type Lookup[T any] struct {
	Value *T
	State LookupState
	Err   error
}

func Found[T any](v *T) Lookup[T] {
	return Lookup[T]{Value: v, State: LookupFound}
}

func Missing[T any]() Lookup[T] {
	return Lookup[T]{State: LookupNotFound}
}

func Failed[T any](err error) Lookup[T] {
	return Lookup[T]{State: LookupFailed, Err: err}
}

// LookupOf classifies a repository result.
func LookupOf[T any](v *T, err error) Lookup[T] {
	switch {
	case err == nil && v != nil:
		return Found(v)
	case err == nil, errors.Is(err, ErrNotFound):
		return Missing[T]()
	default:
		return Failed[T](err)
	}
}

func (l Lookup[T]) Failed() bool {
	return l.State == LookupFailed
}

// OrZero returns the value or T's zero value when the lookup did not find one.
func (l Lookup[T]) OrZero() T {
	var zero T
	if l.Value == nil {
		return zero
	}
	return *l.Value
}

// StatusSnapshot is everything the gate and the display builder need for one request.
type StatusSnapshot struct {
	Profile             Lookup[Profile]
	RoleRecord          Lookup[RoleRecord]
	Activation          Lookup[ActivationStatus]
	PendingItems        Lookup[int]
	UnreadNotifications Lookup[int]
}

func (s StatusSnapshot) Counts() Counts {
	return Counts{
		PendingItems:        s.PendingItems.OrZero(),
		UnreadNotifications: s.UnreadNotifications.OrZero(),
	}
}

// GateError reports a failed lookup among the records the gate decides on.
func (s StatusSnapshot) GateError() error {
	if s.RoleRecord.Failed() {
		return s.RoleRecord.Err
	}
	if s.Activation.Failed() {
		return s.Activation.Err
	}
	return nil
}
