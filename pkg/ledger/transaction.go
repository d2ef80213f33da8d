// Package ledger holds the in-memory record of peer-to-peer energy trades.
//
// Transactions are appended in order, stamped with a fixed-width
// "YYYY-MM-DD HH:MM:SS" timestamp and never modified afterwards. Everything
// that reports on the ledger (aggregate, pairindex, rank) reads the store
// through All and recomputes its results on every call.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// TimestampLayout is the persisted timestamp format. It is fixed-width and
// zero-padded, so lexical order of two timestamps equals their chronological
// order. Range filters rely on that.
const TimestampLayout = "2006-01-02 15:04:05"

// Transaction is a single recorded trade.
type Transaction struct {
	ID          int
	BuyerID     int
	SellerID    int
	EnergyKWh   float64
	PricePerKWh float64
	Timestamp   string
}

// Revenue returns the amount paid to the seller for this trade.
func (t Transaction) Revenue() float64 {
	return t.EnergyKWh * t.PricePerKWh
}

// Input carries the caller-supplied fields of a new transaction.
type Input struct {
	BuyerID     int     `validate:"gt=0"`
	SellerID    int     `validate:"gt=0"`
	EnergyKWh   float64 `validate:"gte=0"`
	PricePerKWh float64 `validate:"gte=0"`
}

var validate = validator.New()

// Validate checks that IDs are positive and amounts are non-negative.
func (in Input) Validate() error {
	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return fmt.Errorf("%w: %s must be %s %s", ErrInvalidTransaction, fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	return nil
}

// FormatTimestamp renders t in TimestampLayout using t's own location.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}
