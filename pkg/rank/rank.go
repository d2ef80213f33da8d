// Package rank orders sellers, buyers and seller/buyer pairs for reports.
//
// Every ordering is stable: entries with equal keys keep the order in which
// they were first seen while scanning the ledger, which is the only
// deterministic tie-break participant IDs offer. Directions differ per
// report on purpose: sellers and pair revenue ascend, buyers and pair counts
// descend.
package rank

import (
	"cmp"
	"slices"

	"github.com/eunmann/energy-ledger/pkg/aggregate"
	"github.com/eunmann/energy-ledger/pkg/pairindex"
)

// SellerRevenue is a seller's total revenue.
type SellerRevenue struct {
	SellerID int
	Revenue  float64
}

// BuyerEnergy is a buyer's total purchased energy.
type BuyerEnergy struct {
	BuyerID   int
	EnergyKWh float64
}

// SellersByRevenue sums revenue per seller in order of first appearance and
// sorts ascending. Sellers whose revenue is zero are kept; see NonZeroSellers.
func SellersByRevenue(src aggregate.Source) []SellerRevenue {
	var out []SellerRevenue
	slot := make(map[int]int)
	for _, tx := range src.All() {
		i, ok := slot[tx.SellerID]
		if !ok {
			i = len(out)
			slot[tx.SellerID] = i
			out = append(out, SellerRevenue{SellerID: tx.SellerID})
		}
		out[i].Revenue += tx.Revenue()
	}

	slices.SortStableFunc(out, func(a, b SellerRevenue) int {
		return cmp.Compare(a.Revenue, b.Revenue)
	})
	return out
}

// NonZeroSellers drops sellers with no revenue, preserving order.
func NonZeroSellers(ranked []SellerRevenue) []SellerRevenue {
	out := make([]SellerRevenue, 0, len(ranked))
	for _, s := range ranked {
		if s.Revenue > 0 {
			out = append(out, s)
		}
	}
	return out
}

// BuyersByEnergy sums energy per buyer over the buyer ID space, scanned in
// ascending ID order, drops buyers with zero energy and sorts descending.
// Equal totals therefore stay in ascending ID order.
func BuyersByEnergy(src aggregate.Source) []BuyerEnergy {
	totals := make(map[int]float64)
	for _, tx := range src.All() {
		totals[tx.BuyerID] += tx.EnergyKWh
	}

	ids := make([]int, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]BuyerEnergy, 0, len(ids))
	for _, id := range ids {
		if e := totals[id]; e > 0 {
			out = append(out, BuyerEnergy{BuyerID: id, EnergyKWh: e})
		}
	}

	slices.SortStableFunc(out, func(a, b BuyerEnergy) int {
		return cmp.Compare(b.EnergyKWh, a.EnergyKWh)
	})
	return out
}

// PairsByTransactionCount orders pairs by transaction count, highest first.
// Its first element equals pairindex.MostActive.
func PairsByTransactionCount(src aggregate.Source) []pairindex.Pair {
	pairs := pairindex.Build(src.All()).Pairs()
	slices.SortStableFunc(pairs, func(a, b pairindex.Pair) int {
		return cmp.Compare(b.TransactionCount, a.TransactionCount)
	})
	return pairs
}

// PairsByTotalRevenue orders pairs by total revenue, lowest first.
func PairsByTotalRevenue(src aggregate.Source) []pairindex.Pair {
	pairs := pairindex.Build(src.All()).Pairs()
	slices.SortStableFunc(pairs, func(a, b pairindex.Pair) int {
		return cmp.Compare(a.TotalRevenue, b.TotalRevenue)
	})
	return pairs
}
