package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/eunmann/energy-ledger/pkg/fileutil"
)

// Workbook sheet names.
const (
	SheetTransactions = "Transactions"
	SheetSellers      = "Sellers"
	SheetBuyers       = "Buyers"
	SheetPairs        = "Pairs"
	SheetMonths       = "Months"
)

// WriteXLSX writes snap as a workbook at path, one sheet per dataset with a
// header row. Numeric columns are stored as numbers.
func WriteXLSX(path string, snap Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetTransactions); err != nil {
		return fmt.Errorf("rename default sheet: %w", err)
	}
	for _, name := range []string{SheetSellers, SheetBuyers, SheetPairs, SheetMonths} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	sw := sheetWriter{f: f}
	sw.row(SheetTransactions, 1, "ID", "Buyer ID", "Seller ID", "Energy (kWh)", "Price/kWh", "Revenue", "Timestamp")
	for i, tx := range snap.Transactions {
		sw.row(SheetTransactions, i+2, tx.ID, tx.BuyerID, tx.SellerID, tx.EnergyKWh, tx.PricePerKWh, tx.Revenue(), tx.Timestamp)
	}

	sw.row(SheetSellers, 1, "Seller ID", "Revenue")
	for i, s := range snap.Sellers {
		sw.row(SheetSellers, i+2, s.SellerID, s.Revenue)
	}

	sw.row(SheetBuyers, 1, "Buyer ID", "Energy (kWh)")
	for i, b := range snap.Buyers {
		sw.row(SheetBuyers, i+2, b.BuyerID, b.EnergyKWh)
	}

	sw.row(SheetPairs, 1, "Seller ID", "Buyer ID", "Transactions", "Total Revenue")
	for i, p := range snap.Pairs {
		sw.row(SheetPairs, i+2, p.SellerID, p.BuyerID, p.TransactionCount, p.TotalRevenue)
	}

	sw.row(SheetMonths, 1, "Month", "Transactions")
	for m, n := range snap.Months {
		sw.row(SheetMonths, m+2, m+1, n)
	}
	if sw.err != nil {
		return sw.err
	}

	f.SetActiveSheet(0)
	return fileutil.WriteAtomic(path, func(w io.Writer) error {
		if _, err := f.WriteTo(w); err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
		return nil
	})
}

type sheetWriter struct {
	f   *excelize.File
	err error
}

func (sw *sheetWriter) row(sheet string, n int, values ...any) {
	if sw.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		sw.err = err
		return
	}
	if err := sw.f.SetSheetRow(sheet, cell, &values); err != nil {
		sw.err = fmt.Errorf("write %s row %d: %w", sheet, n, err)
	}
}
