package siri

import "fmt"

// DataSourceError wraps any failure to fetch or decode a provider
// payload: transport errors, non-200 statuses, and undecodable bodies.
// Callers decide fatality per call site; catalog fetches treat it as
// fatal while per-stop membership probes swallow it.
type DataSourceError struct {
	Op  string // endpoint or operation that failed
	Err error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("siri: %s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }

func newError(op string, err error) *DataSourceError {
	return &DataSourceError{Op: op, Err: err}
}
