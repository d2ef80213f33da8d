// Package aggregate computes scalar and grouped statistics over a ledger.
//
// Every function scans the full transaction sequence on each call; nothing is
// cached between calls.
package aggregate

import (
	"fmt"
	"time"

	"github.com/eunmann/energy-ledger/pkg/ledger"
)

// Source provides transactions in insertion order. *ledger.Store implements it.
type Source interface {
	All() []ledger.Transaction
}

var _ Source = (*ledger.Store)(nil)

// MonthCount is the number of transactions recorded in a calendar month
// (1..12), summed across years.
type MonthCount struct {
	Month int
	Count int
}

// RevenueBySeller sums energy*price over the seller's transactions.
// It returns 0 for an unknown seller.
func RevenueBySeller(src Source, sellerID int) float64 {
	var total float64
	for _, tx := range src.All() {
		if tx.SellerID == sellerID {
			total += tx.Revenue()
		}
	}
	return total
}

// EnergyByBuyer sums the energy bought by buyerID.
func EnergyByBuyer(src Source, buyerID int) float64 {
	var total float64
	for _, tx := range src.All() {
		if tx.BuyerID == buyerID {
			total += tx.EnergyKWh
		}
	}
	return total
}

// TransactionsForSeller returns the seller's transactions in insertion order.
func TransactionsForSeller(src Source, sellerID int) []ledger.Transaction {
	return filter(src, func(tx ledger.Transaction) bool { return tx.SellerID == sellerID })
}

// TransactionsForBuyer returns the buyer's transactions in insertion order.
func TransactionsForBuyer(src Source, buyerID int) []ledger.Transaction {
	return filter(src, func(tx ledger.Transaction) bool { return tx.BuyerID == buyerID })
}

// TransactionsInPeriod returns transactions with start <= timestamp <= end.
//
// Bounds are compared as strings. This equals chronological order only
// because ledger.TimestampLayout is fixed-width and zero-padded; malformed
// bounds are not rejected here (see ValidateBound).
func TransactionsInPeriod(src Source, start, end string) []ledger.Transaction {
	return filter(src, func(tx ledger.Transaction) bool {
		return tx.Timestamp >= start && tx.Timestamp <= end
	})
}

// ValidateBound reports whether s is a well-formed period bound.
func ValidateBound(s string) error {
	if _, err := time.Parse(ledger.TimestampLayout, s); err != nil {
		return fmt.Errorf("period bound %q must look like %q: %w", s, ledger.TimestampLayout, err)
	}
	return nil
}

// HighestEnergy returns the transaction with the largest positive energy
// amount. Ties go to the earliest transaction. ok is false when src is empty
// or no transaction carries any energy.
func HighestEnergy(src Source) (tx ledger.Transaction, ok bool) {
	var maxEnergy float64
	for _, t := range src.All() {
		if t.EnergyKWh > maxEnergy {
			maxEnergy = t.EnergyKWh
			tx, ok = t, true
		}
	}
	return tx, ok
}

// MonthlyCounts returns the number of transactions per calendar month;
// index 0 is January. Transactions without a valid month are ignored.
func MonthlyCounts(src Source) [12]int {
	var counts [12]int
	for _, tx := range src.All() {
		if m, ok := month(tx.Timestamp); ok {
			counts[m-1]++
		}
	}
	return counts
}

// BusiestMonth returns the month with the most transactions. Ties go to the
// lowest month number. ok is false when no transaction has a valid month.
func BusiestMonth(src Source) (MonthCount, bool) {
	counts := MonthlyCounts(src)

	var best MonthCount
	for i, c := range counts {
		if c > best.Count {
			best = MonthCount{Month: i + 1, Count: c}
		}
	}
	return best, best.Count > 0
}

// month extracts MM from a "YYYY-MM-DD ..." timestamp.
func month(ts string) (int, bool) {
	if len(ts) < 7 || ts[4] != '-' {
		return 0, false
	}
	hi, lo := ts[5], ts[6]
	if hi < '0' || hi > '9' || lo < '0' || lo > '9' {
		return 0, false
	}
	m := int(hi-'0')*10 + int(lo-'0')
	if m < 1 || m > 12 {
		return 0, false
	}
	return m, true
}

func filter(src Source, keep func(ledger.Transaction) bool) []ledger.Transaction {
	out := make([]ledger.Transaction, 0)
	for _, tx := range src.All() {
		if keep(tx) {
			out = append(out, tx)
		}
	}
	return out
}
