// Package report renders ledger results for people: console tables in the
// layout operators are used to, and workbook/columnar exports.
package report

import (
	"fmt"
	"io"

	"github.com/eunmann/energy-ledger/pkg/aggregate"
	"github.com/eunmann/energy-ledger/pkg/humanfmt"
	"github.com/eunmann/energy-ledger/pkg/ledger"
	"github.com/eunmann/energy-ledger/pkg/pairindex"
	"github.com/eunmann/energy-ledger/pkg/rank"
)

// Console writes plain-text reports. The first write error sticks and is
// returned by every later call.
type Console struct {
	w   io.Writer
	err error
}

// NewConsole creates a console presenter writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) printf(format string, args ...any) {
	if c.err != nil {
		return
	}
	_, c.err = fmt.Fprintf(c.w, format, args...)
}

// Err returns the first write error, if any.
func (c *Console) Err() error {
	return c.err
}

func (c *Console) row(tx ledger.Transaction) {
	c.printf("%-12d %-12d %-12d %-12.2f %-12.2f %s\n",
		tx.ID, tx.BuyerID, tx.SellerID, tx.EnergyKWh, tx.PricePerKWh, tx.Timestamp)
}

// Added confirms a newly recorded transaction.
func (c *Console) Added(tx ledger.Transaction) error {
	c.printf("Transaction added successfully! (ID %d)\n", tx.ID)
	return c.err
}

// Loaded summarizes the startup load.
func (c *Console) Loaded(res ledger.LoadResult) error {
	for _, e := range res.Errors {
		c.printf("Error parsing line: %v\n", e)
	}
	c.printf("Loaded %d transactions from file.\n", res.Loaded)
	return c.err
}

// Transactions prints the full table.
func (c *Console) Transactions(txs []ledger.Transaction) error {
	if len(txs) == 0 {
		c.printf("No transactions to display.\n")
		return c.err
	}
	c.printf("\n%-12s %-12s %-12s %-12s %-12s %s\n", "Trans ID", "Buyer ID", "Seller ID", "Energy (kWh)", "Price/kWh", "Timestamp")
	var energy float64
	for _, tx := range txs {
		c.row(tx)
		energy += tx.EnergyKWh
	}
	c.printf("%s in %d transactions\n", humanfmt.Energy(energy), len(txs))
	return c.err
}

// SellerTransactions prints one seller's trades; the seller column is implied.
func (c *Console) SellerTransactions(sellerID int, txs []ledger.Transaction) error {
	c.printf("Transactions for Seller ID %d:\n", sellerID)
	for _, tx := range txs {
		c.printf("%-12d %-12d %-12.2f %-12.2f %s\n", tx.ID, tx.BuyerID, tx.EnergyKWh, tx.PricePerKWh, tx.Timestamp)
	}
	return c.err
}

// BuyerTransactions prints one buyer's trades; the buyer column is implied.
func (c *Console) BuyerTransactions(buyerID int, txs []ledger.Transaction) error {
	c.printf("Transactions for Buyer ID %d:\n", buyerID)
	for _, tx := range txs {
		c.printf("%-12d %-12d %-12.2f %-12.2f %s\n", tx.ID, tx.SellerID, tx.EnergyKWh, tx.PricePerKWh, tx.Timestamp)
	}
	return c.err
}

// Period prints the trades inside [start, end].
func (c *Console) Period(start, end string, txs []ledger.Transaction) error {
	c.printf("Transactions from %s to %s:\n", start, end)
	for _, tx := range txs {
		c.row(tx)
	}
	return c.err
}

// SellerRevenue prints one seller's total.
func (c *Console) SellerRevenue(sellerID int, revenue float64) error {
	c.printf("Total Revenue by Seller %d: %.2f\n", sellerID, revenue)
	return c.err
}

// SellersByRevenue prints the ascending seller ranking, omitting sellers
// without revenue.
func (c *Console) SellersByRevenue(ranked []rank.SellerRevenue) error {
	c.printf("Sellers sorted by revenue:\n")
	for _, s := range rank.NonZeroSellers(ranked) {
		c.printf("Seller ID: %d, Revenue: %.2f\n", s.SellerID, s.Revenue)
	}
	return c.err
}

// HighestEnergy prints the largest trade, if any.
func (c *Console) HighestEnergy(tx ledger.Transaction, ok bool) error {
	if !ok {
		c.printf("No transactions with energy recorded.\n")
		return c.err
	}
	c.printf("Transaction with highest energy:\n")
	c.row(tx)
	return c.err
}

// BuyersByEnergy prints the descending buyer ranking.
func (c *Console) BuyersByEnergy(ranked []rank.BuyerEnergy) error {
	c.printf("Buyers sorted by energy purchased:\n")
	for _, b := range ranked {
		c.printf("Buyer ID: %d, Energy: %.2f\n", b.BuyerID, b.EnergyKWh)
	}
	return c.err
}

// BusiestMonth prints the month with the most trades.
func (c *Console) BusiestMonth(mc aggregate.MonthCount, ok bool) error {
	if !ok {
		c.printf("No transactions recorded.\n")
		return c.err
	}
	c.printf("Month with maximum transactions: %d (%s) (Transactions: %d)\n", mc.Month, humanfmt.MonthName(mc.Month), mc.Count)
	return c.err
}

// MostActivePair prints the relationship with the most trades.
func (c *Console) MostActivePair(p pairindex.Pair, ok bool) error {
	if !ok {
		c.printf("No transactions recorded.\n")
		return c.err
	}
	c.printf("Pair with maximum transactions: Seller ID: %d, Buyer ID: %d, Transactions: %d\n",
		p.SellerID, p.BuyerID, p.TransactionCount)
	return c.err
}

// Pair prints a single relationship lookup.
func (c *Console) Pair(sellerID, buyerID int, p pairindex.Pair, ok bool) error {
	if !ok {
		c.printf("No transactions between Seller ID %d and Buyer ID %d.\n", sellerID, buyerID)
		return c.err
	}
	c.printf("Seller ID: %d, Buyer ID: %d, Transactions: %d, Total Revenue: %.2f\n",
		p.SellerID, p.BuyerID, p.TransactionCount, p.TotalRevenue)
	return c.err
}

// PairsByTransactionCount prints pairs ranked by trade count.
func (c *Console) PairsByTransactionCount(pairs []pairindex.Pair) error {
	c.printf("Seller/Buyer pairs sorted by number of transactions:\n")
	for _, p := range pairs {
		c.printf("Seller ID: %d, Buyer ID: %d, Transactions: %d\n", p.SellerID, p.BuyerID, p.TransactionCount)
	}
	return c.err
}

// PairsByTotalRevenue prints pairs ranked by revenue.
func (c *Console) PairsByTotalRevenue(pairs []pairindex.Pair) error {
	c.printf("Seller/Buyer pairs sorted by total revenue:\n")
	for _, p := range pairs {
		c.printf("Seller ID: %d, Buyer ID: %d, Total Revenue: %.2f\n", p.SellerID, p.BuyerID, p.TotalRevenue)
	}
	return c.err
}
