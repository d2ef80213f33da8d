// Package pairindex groups transactions by (seller, buyer) relationship.
//
// An Index is built from scratch on every call; it is never merged with a
// previous build, so repeated reports cannot double-count.
package pairindex

import (
	"slices"

	"github.com/eunmann/energy-ledger/pkg/ledger"
)

// Key identifies a trading relationship.
type Key struct {
	SellerID int
	BuyerID  int
}

// Pair holds cumulative statistics for one seller/buyer relationship.
type Pair struct {
	SellerID         int
	BuyerID          int
	TransactionCount int
	TotalRevenue     float64
}

// Key returns the pair's identity.
func (p Pair) Key() Key {
	return Key{SellerID: p.SellerID, BuyerID: p.BuyerID}
}

// Index maps each distinct relationship to its statistics. Pairs are kept in
// the order their first transaction appears; rankings use that order to
// break ties.
type Index struct {
	pairs []Pair
	slots map[Key]int
}

// Build scans txs once and accumulates one Pair per distinct relationship.
func Build(txs []ledger.Transaction) *Index {
	idx := &Index{slots: make(map[Key]int)}
	for _, tx := range txs {
		k := Key{SellerID: tx.SellerID, BuyerID: tx.BuyerID}
		slot, ok := idx.slots[k]
		if !ok {
			slot = len(idx.pairs)
			idx.slots[k] = slot
			idx.pairs = append(idx.pairs, Pair{SellerID: k.SellerID, BuyerID: k.BuyerID})
		}
		p := &idx.pairs[slot]
		p.TransactionCount++
		p.TotalRevenue += tx.Revenue()
	}
	return idx
}

// Pairs returns a copy of the pairs in first-seen order.
func (idx *Index) Pairs() []Pair {
	return slices.Clone(idx.pairs)
}

// Len returns the number of distinct pairs.
func (idx *Index) Len() int {
	return len(idx.pairs)
}

// Lookup returns the statistics for one relationship.
func (idx *Index) Lookup(sellerID, buyerID int) (Pair, bool) {
	slot, ok := idx.slots[Key{SellerID: sellerID, BuyerID: buyerID}]
	if !ok {
		return Pair{}, false
	}
	return idx.pairs[slot], true
}

// MostActive returns the pair with the most transactions. Ties go to the pair
// seen first. ok is false when txs is empty.
func MostActive(txs []ledger.Transaction) (Pair, bool) {
	var (
		best Pair
		ok   bool
	)
	for _, p := range Build(txs).pairs {
		if p.TransactionCount > best.TransactionCount {
			best, ok = p, true
		}
	}
	return best, ok
}
