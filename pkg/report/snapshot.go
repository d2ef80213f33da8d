package report

import (
	"github.com/eunmann/energy-ledger/pkg/aggregate"
	"github.com/eunmann/energy-ledger/pkg/ledger"
	"github.com/eunmann/energy-ledger/pkg/pairindex"
	"github.com/eunmann/energy-ledger/pkg/rank"
)

// Snapshot gathers every report dataset computed from one view of the ledger.
type Snapshot struct {
	Transactions []ledger.Transaction
	Sellers      []rank.SellerRevenue
	Buyers       []rank.BuyerEnergy
	Pairs        []pairindex.Pair
	Months       [12]int
}

// sourceOf pins a transaction slice so every dataset sees the same records.
type sourceOf []ledger.Transaction

func (s sourceOf) All() []ledger.Transaction { return s }

// TakeSnapshot computes all datasets from a single read of src. Pairs are
// ordered by transaction count.
func TakeSnapshot(src aggregate.Source) Snapshot {
	txs := sourceOf(src.All())
	return Snapshot{
		Transactions: txs,
		Sellers:      rank.SellersByRevenue(txs),
		Buyers:       rank.BuyersByEnergy(txs),
		Pairs:        rank.PairsByTransactionCount(txs),
		Months:       aggregate.MonthlyCounts(txs),
	}
}
