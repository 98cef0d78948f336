package models

import "fmt"

// Status classifies the outcome of a client call.
type Status int

const (
	// StatusOK means the call succeeded and Value is meaningful.
	StatusOK Status = iota
	// StatusSoftFailure means the call failed, was logged, and Value holds the empty default.
	StatusSoftFailure
	// StatusQuotaExceeded means the destination refused the call for quota; the run must stop.
	StatusQuotaExceeded
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSoftFailure:
		return "soft_failure"
	case StatusQuotaExceeded:
		return "quota_exceeded"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result carries a value together with how it was obtained.
type Result[T any] struct {
	Value  T
	Status Status
	Err    error
}

// OK wraps a successful value.
func OK[T any](v T) Result[T] { return Result[T]{Value: v, Status: StatusOK} }

// Soft reports a recoverable failure; partial may hold whatever was collected before it.
func Soft[T any](partial T, err error) Result[T] {
	return Result[T]{Value: partial, Status: StatusSoftFailure, Err: err}
}

// QuotaExceeded reports the one failure that aborts a run.
func QuotaExceeded[T any](err error) Result[T] {
	return Result[T]{Status: StatusQuotaExceeded, Err: err}
}

func (r Result[T]) IsOK() bool { return r.Status == StatusOK }

func (r Result[T]) IsQuotaExceeded() bool { return r.Status == StatusQuotaExceeded }
