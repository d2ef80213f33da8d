package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RecordFields is the number of comma-separated fields in a persisted record:
// id,buyerID,sellerID,energy,price,timestamp.
const RecordFields = 6

// FormatRecord renders tx as one persisted log line without the newline.
// Energy and price are written with exactly two fractional digits.
func FormatRecord(tx Transaction) string {
	return fmt.Sprintf("%d,%d,%d,%.2f,%.2f,%s",
		tx.ID, tx.BuyerID, tx.SellerID, tx.EnergyKWh, tx.PricePerKWh, tx.Timestamp)
}

// Quantize rounds v to the two fractional digits the log keeps, so a value
// held in memory equals the value read back after a restart.
func Quantize(v float64) float64 {
	q, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	if err != nil {
		return v
	}
	return q
}

// ParseRecord decodes the fields of one persisted record.
func ParseRecord(fields []string) (Transaction, error) {
	if len(fields) != RecordFields {
		return Transaction{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), RecordFields)
	}

	var (
		tx  Transaction
		err error
	)
	if tx.ID, err = parseInt("id", fields[0]); err != nil {
		return Transaction{}, err
	}
	if tx.BuyerID, err = parseInt("buyer id", fields[1]); err != nil {
		return Transaction{}, err
	}
	if tx.SellerID, err = parseInt("seller id", fields[2]); err != nil {
		return Transaction{}, err
	}
	if tx.EnergyKWh, err = parseFloat("energy", fields[3]); err != nil {
		return Transaction{}, err
	}
	if tx.PricePerKWh, err = parseFloat("price", fields[4]); err != nil {
		return Transaction{}, err
	}

	ts := fields[5]
	if _, err := time.Parse(TimestampLayout, ts); err != nil {
		return Transaction{}, fmt.Errorf("timestamp %q: %w", ts, err)
	}
	tx.Timestamp = ts

	if tx.ID <= 0 {
		return Transaction{}, fmt.Errorf("%w: id must be positive, got %d", ErrInvalidTransaction, tx.ID)
	}
	in := Input{BuyerID: tx.BuyerID, SellerID: tx.SellerID, EnergyKWh: tx.EnergyKWh, PricePerKWh: tx.PricePerKWh}
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

func parseInt(name, s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}

func parseFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}
