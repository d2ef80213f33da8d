package report

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/xuri/excelize/v2"

	"github.com/eunmann/energy-ledger/pkg/aggregate"
	"github.com/eunmann/energy-ledger/pkg/ledger"
	"github.com/eunmann/energy-ledger/pkg/pairindex"
	"github.com/eunmann/energy-ledger/pkg/rank"
)

type sliceSource []ledger.Transaction

func (s sliceSource) All() []ledger.Transaction { return s }

func sample() sliceSource {
	return sliceSource{
		{ID: 1, BuyerID: 1, SellerID: 2, EnergyKWh: 10, PricePerKWh: 0.5, Timestamp: "2024-01-10 08:00:00"},
		{ID: 2, BuyerID: 1, SellerID: 2, EnergyKWh: 5, PricePerKWh: 0.5, Timestamp: "2024-01-10 09:00:00"},
		{ID: 3, BuyerID: 3, SellerID: 4, EnergyKWh: 20, PricePerKWh: 0.25, Timestamp: "2024-01-11 10:00:00"},
	}
}

func TestConsole_Transactions(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	if err := c.Transactions(sample()[:1]); err != nil {
		t.Fatal(err)
	}
	want := "\n" +
		"Trans ID     Buyer ID     Seller ID    Energy (kWh) Price/kWh    Timestamp\n" +
		"1            1            2            10.00        0.50         2024-01-10 08:00:00\n" +
		"10.00 kWh in 1 transactions\n"
	if got := buf.String(); got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

func TestConsole_Empty(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)
	_ = c.Transactions(nil)
	_ = c.HighestEnergy(ledger.Transaction{}, false)
	want := "No transactions to display.\nNo transactions with energy recorded.\n"
	if got := buf.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestConsole_Rankings(t *testing.T) {
	src := sample()
	var buf bytes.Buffer
	c := NewConsole(&buf)

	_ = c.SellerRevenue(2, aggregate.RevenueBySeller(src, 2))
	_ = c.SellersByRevenue(rank.SellersByRevenue(src))
	_ = c.BuyersByEnergy(rank.BuyersByEnergy(src))
	p, ok := pairindex.MostActive(src)
	_ = c.MostActivePair(p, ok)
	_ = c.PairsByTotalRevenue(rank.PairsByTotalRevenue(src))
	mc, ok := aggregate.BusiestMonth(src)
	if err := c.BusiestMonth(mc, ok); err != nil {
		t.Fatal(err)
	}

	want := []string{
		"Total Revenue by Seller 2: 7.50",
		"Sellers sorted by revenue:",
		"Seller ID: 4, Revenue: 5.00",
		"Seller ID: 2, Revenue: 7.50",
		"Buyers sorted by energy purchased:",
		"Buyer ID: 3, Energy: 20.00",
		"Buyer ID: 1, Energy: 15.00",
		"Pair with maximum transactions: Seller ID: 2, Buyer ID: 1, Transactions: 2",
		"Seller/Buyer pairs sorted by total revenue:",
		"Seller ID: 4, Buyer ID: 3, Total Revenue: 5.00",
		"Seller ID: 2, Buyer ID: 1, Total Revenue: 7.50",
		"Month with maximum transactions: 1 (January) (Transactions: 3)",
	}
	got := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(want), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestConsole_SellerAndBuyerTables(t *testing.T) {
	src := sample()
	var buf bytes.Buffer
	c := NewConsole(&buf)
	_ = c.SellerTransactions(4, aggregate.TransactionsForSeller(src, 4))
	_ = c.BuyerTransactions(3, aggregate.TransactionsForBuyer(src, 3))

	want := "Transactions for Seller ID 4:\n" +
		"3            3            20.00        0.25         2024-01-11 10:00:00\n" +
		"Transactions for Buyer ID 3:\n" +
		"3            4            20.00        0.25         2024-01-11 10:00:00\n"
	if got := buf.String(); got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}
}

type failWriter struct{ n int }

func (w *failWriter) Write(p []byte) (int, error) {
	w.n++
	return 0, errors.New("disk full")
}

func TestConsole_StickyError(t *testing.T) {
	w := &failWriter{}
	c := NewConsole(w)
	if err := c.Transactions(sample()); err == nil {
		t.Fatal("expected write error")
	}
	_ = c.SellerRevenue(1, 0)
	if w.n != 1 {
		t.Errorf("writes after failure = %d, want 1", w.n)
	}
	if c.Err() == nil {
		t.Error("Err() should report the first failure")
	}
}

func TestTakeSnapshot(t *testing.T) {
	snap := TakeSnapshot(sample())
	if len(snap.Transactions) != 3 {
		t.Errorf("transactions = %d, want 3", len(snap.Transactions))
	}
	if len(snap.Sellers) != 2 || snap.Sellers[0].SellerID != 4 {
		t.Errorf("sellers = %+v", snap.Sellers)
	}
	if len(snap.Pairs) != 2 || snap.Pairs[0].TransactionCount != 2 {
		t.Errorf("pairs = %+v", snap.Pairs)
	}
	if snap.Months[0] != 3 {
		t.Errorf("january = %d, want 3", snap.Months[0])
	}
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.xlsx")
	if err := WriteXLSX(path, TakeSnapshot(sample())); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	wantSheets := []string{SheetTransactions, SheetSellers, SheetBuyers, SheetPairs, SheetMonths}
	if strings.Join(sheets, ",") != strings.Join(wantSheets, ",") {
		t.Errorf("sheets = %v, want %v", sheets, wantSheets)
	}

	rows, err := f.GetRows(SheetTransactions)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("transaction rows = %d, want 4", len(rows))
	}
	if rows[0][0] != "ID" || rows[1][0] != "1" || rows[3][6] != "2024-01-11 10:00:00" {
		t.Errorf("unexpected rows: %v", rows)
	}

	pairs, err := f.GetRows(SheetPairs)
	if err != nil {
		t.Fatal(err)
	}
	if len(pairs) != 3 || pairs[1][0] != "2" || pairs[1][1] != "1" || pairs[1][2] != "2" {
		t.Errorf("unexpected pair rows: %v", pairs)
	}

	months, err := f.GetRows(SheetMonths)
	if err != nil {
		t.Fatal(err)
	}
	if len(months) != 13 || months[1][1] != "3" {
		t.Errorf("unexpected month rows: %v", months)
	}
}

func TestWriteParquet(t *testing.T) {
	dir := t.TempDir()
	paths, err := WriteParquet(dir, TakeSnapshot(sample()))
	if err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %v", paths)
	}

	txs, err := parquet.ReadFile[TransactionRow](filepath.Join(dir, TransactionsParquet))
	if err != nil {
		t.Fatalf("read transactions: %v", err)
	}
	if len(txs) != 3 {
		t.Fatalf("rows = %d, want 3", len(txs))
	}
	if txs[2].ID != 3 || txs[2].SellerID != 4 || txs[2].Revenue != 5 {
		t.Errorf("row 3 = %+v", txs[2])
	}

	pairs, err := parquet.ReadFile[PairRow](filepath.Join(dir, PairsParquet))
	if err != nil {
		t.Fatalf("read pairs: %v", err)
	}
	if len(pairs) != 2 || pairs[0].TransactionCount != 2 || pairs[0].TotalRevenue != 7.5 {
		t.Errorf("pairs = %+v", pairs)
	}
}
