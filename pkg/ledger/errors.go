package ledger

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCapacityExceeded indicates the store already holds MaxTransactions records.
	ErrCapacityExceeded = errors.New("transaction capacity exceeded")
	// ErrInvalidTransaction indicates an input with non-positive IDs or negative amounts.
	ErrInvalidTransaction = errors.New("invalid transaction")
	// ErrFieldCount indicates a persisted record without exactly RecordFields fields.
	ErrFieldCount = errors.New("wrong field count")
	// ErrDuplicateID indicates a persisted record reusing an already loaded ID.
	ErrDuplicateID = errors.New("duplicate transaction id")
)

// ParseError reports a single persisted record that could not be loaded.
// Line is 1-based.
type ParseError struct {
	Line   int
	Record []string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse line %d %q: %v", e.Line, strings.Join(e.Record, ","), e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
