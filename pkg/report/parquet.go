package report

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/eunmann/energy-ledger/pkg/fileutil"
	"github.com/eunmann/energy-ledger/pkg/ledger"
	"github.com/eunmann/energy-ledger/pkg/pairindex"
)

// Parquet file names written by WriteParquet.
const (
	TransactionsParquet = "transactions.parquet"
	PairsParquet        = "pairs.parquet"
)

// TransactionRow is the columnar layout of one transaction.
type TransactionRow struct {
	ID          int64   `parquet:"id"`
	BuyerID     int64   `parquet:"buyer_id"`
	SellerID    int64   `parquet:"seller_id"`
	EnergyKWh   float64 `parquet:"energy_kwh"`
	PricePerKWh float64 `parquet:"price_per_kwh"`
	Revenue     float64 `parquet:"revenue"`
	Timestamp   string  `parquet:"timestamp"`
}

// PairRow is the columnar layout of one seller/buyer relationship.
type PairRow struct {
	SellerID         int64   `parquet:"seller_id"`
	BuyerID          int64   `parquet:"buyer_id"`
	TransactionCount int64   `parquet:"transaction_count"`
	TotalRevenue     float64 `parquet:"total_revenue"`
}

func transactionRows(txs []ledger.Transaction) []TransactionRow {
	rows := make([]TransactionRow, len(txs))
	for i, tx := range txs {
		rows[i] = TransactionRow{
			ID:          int64(tx.ID),
			BuyerID:     int64(tx.BuyerID),
			SellerID:    int64(tx.SellerID),
			EnergyKWh:   tx.EnergyKWh,
			PricePerKWh: tx.PricePerKWh,
			Revenue:     tx.Revenue(),
			Timestamp:   tx.Timestamp,
		}
	}
	return rows
}

func pairRows(pairs []pairindex.Pair) []PairRow {
	rows := make([]PairRow, len(pairs))
	for i, p := range pairs {
		rows[i] = PairRow{
			SellerID:         int64(p.SellerID),
			BuyerID:          int64(p.BuyerID),
			TransactionCount: int64(p.TransactionCount),
			TotalRevenue:     p.TotalRevenue,
		}
	}
	return rows
}

// WriteParquet writes transactions.parquet and pairs.parquet into dir.
// It returns the paths written.
func WriteParquet(dir string, snap Snapshot) ([]string, error) {
	txPath := filepath.Join(dir, TransactionsParquet)
	if err := writeRows(txPath, transactionRows(snap.Transactions)); err != nil {
		return nil, err
	}
	pairPath := filepath.Join(dir, PairsParquet)
	if err := writeRows(pairPath, pairRows(snap.Pairs)); err != nil {
		return nil, err
	}
	return []string{txPath, pairPath}, nil
}

func writeRows[T any](path string, rows []T) error {
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		pw := parquet.NewGenericWriter[T](w)
		if _, err := pw.Write(rows); err != nil {
			return fmt.Errorf("write %s: %w", filepath.Base(path), err)
		}
		if err := pw.Close(); err != nil {
			return fmt.Errorf("close %s: %w", filepath.Base(path), err)
		}
		return nil
	})
}
