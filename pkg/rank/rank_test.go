package rank

import (
	"math/rand"
	"testing"

	"github.com/eunmann/energy-ledger/pkg/ledger"
	"github.com/eunmann/energy-ledger/pkg/pairindex"
)

type sliceSource []ledger.Transaction

func (s sliceSource) All() []ledger.Transaction { return s }

func tx(buyer, seller int, energy, price float64) ledger.Transaction {
	return ledger.Transaction{BuyerID: buyer, SellerID: seller, EnergyKWh: energy, PricePerKWh: price, Timestamp: "2024-01-10 08:00:00"}
}

func TestSellersByRevenue(t *testing.T) {
	src := sliceSource{
		tx(1, 5, 10, 1),  // seller 5: 10
		tx(1, 3, 2, 1),   // seller 3: 2
		tx(2, 9, 0, 4),   // seller 9: 0
		tx(2, 7, 1, 2),   // seller 7: 2
		tx(3, 5, 1, 1),   // seller 5: 11
		tx(3, 4, 4, 0.5), // seller 4: 2
	}

	got := SellersByRevenue(src)
	want := []SellerRevenue{
		{SellerID: 9, Revenue: 0},
		{SellerID: 3, Revenue: 2},
		{SellerID: 7, Revenue: 2},
		{SellerID: 4, Revenue: 2},
		{SellerID: 5, Revenue: 11},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d sellers, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sellers[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	printed := NonZeroSellers(got)
	if len(printed) != 4 || printed[0].SellerID != 3 {
		t.Errorf("NonZeroSellers() = %+v, want zero-revenue seller 9 dropped", printed)
	}
}

func TestBuyersByEnergy(t *testing.T) {
	src := sliceSource{
		tx(4, 1, 5, 1),
		tx(2, 1, 8, 1),
		tx(9, 1, 0, 1),
		tx(1, 1, 5, 1),
		tx(4, 1, 3, 1),
	}

	got := BuyersByEnergy(src)
	want := []BuyerEnergy{
		{BuyerID: 2, EnergyKWh: 8},
		{BuyerID: 4, EnergyKWh: 8},
		{BuyerID: 1, EnergyKWh: 5},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d buyers, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("buyers[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPairsByTransactionCount(t *testing.T) {
	src := sliceSource{
		tx(1, 2, 1, 1),
		tx(3, 4, 1, 1),
		tx(3, 4, 1, 1),
		tx(5, 6, 1, 1),
		tx(5, 6, 1, 1),
		tx(7, 8, 1, 1),
	}

	got := PairsByTransactionCount(src)
	wantKeys := []pairindex.Key{
		{SellerID: 4, BuyerID: 3},
		{SellerID: 6, BuyerID: 5},
		{SellerID: 2, BuyerID: 1},
		{SellerID: 8, BuyerID: 7},
	}
	for i, k := range wantKeys {
		if got[i].Key() != k {
			t.Errorf("pairs[%d] = %+v, want key %+v", i, got[i], k)
		}
	}

	top, ok := pairindex.MostActive(src)
	if !ok || top != got[0] {
		t.Errorf("MostActive() = %+v, want head of ranking %+v", top, got[0])
	}
}

func TestPairsByTotalRevenue(t *testing.T) {
	src := sliceSource{
		tx(1, 2, 10, 1),
		tx(3, 4, 1, 1),
		tx(5, 6, 2, 0.5),
		tx(1, 2, 1, 1),
	}

	got := PairsByTotalRevenue(src)
	wantKeys := []pairindex.Key{
		{SellerID: 4, BuyerID: 3},
		{SellerID: 6, BuyerID: 5},
		{SellerID: 2, BuyerID: 1},
	}
	for i, k := range wantKeys {
		if got[i].Key() != k {
			t.Errorf("pairs[%d] = %+v, want key %+v", i, got[i], k)
		}
	}
	if got[2].TotalRevenue != 11 || got[2].TransactionCount != 2 {
		t.Errorf("top revenue pair = %+v, want revenue 11 over 2 transactions", got[2])
	}
}

func TestEmptyLedger(t *testing.T) {
	src := sliceSource{}
	if got := SellersByRevenue(src); len(got) != 0 {
		t.Errorf("SellersByRevenue(empty) = %+v", got)
	}
	if got := BuyersByEnergy(src); len(got) != 0 {
		t.Errorf("BuyersByEnergy(empty) = %+v", got)
	}
	if got := PairsByTransactionCount(src); len(got) != 0 {
		t.Errorf("PairsByTransactionCount(empty) = %+v", got)
	}
	if got := PairsByTotalRevenue(src); len(got) != 0 {
		t.Errorf("PairsByTotalRevenue(empty) = %+v", got)
	}
}

// randomLedger draws small IDs and coarse amounts so that ties are common.
func randomLedger(r *rand.Rand, n int) sliceSource {
	out := make(sliceSource, n)
	for i := range out {
		out[i] = tx(r.Intn(5)+1, r.Intn(5)+1, float64(r.Intn(4)), float64(r.Intn(3)))
		out[i].ID = i + 1
	}
	return out
}

func TestOrderingProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		src := randomLedger(r, r.Intn(40))

		sellers := SellersByRevenue(src)
		firstSeen := make(map[int]int)
		for i, x := range src {
			if _, ok := firstSeen[x.SellerID]; !ok {
				firstSeen[x.SellerID] = i
			}
		}
		for i := 1; i < len(sellers); i++ {
			a, b := sellers[i-1], sellers[i]
			if a.Revenue > b.Revenue {
				t.Fatalf("round %d: sellers not ascending at %d: %+v", round, i, sellers)
			}
			if a.Revenue == b.Revenue && firstSeen[a.SellerID] > firstSeen[b.SellerID] {
				t.Fatalf("round %d: equal-revenue sellers out of first-seen order: %+v", round, sellers)
			}
		}

		buyers := BuyersByEnergy(src)
		for i := 1; i < len(buyers); i++ {
			a, b := buyers[i-1], buyers[i]
			if a.EnergyKWh < b.EnergyKWh || (a.EnergyKWh == b.EnergyKWh && a.BuyerID > b.BuyerID) {
				t.Fatalf("round %d: buyers misordered: %+v", round, buyers)
			}
		}
		for _, b := range buyers {
			if b.EnergyKWh == 0 {
				t.Fatalf("round %d: zero-energy buyer in output: %+v", round, buyers)
			}
		}

		byCount := PairsByTransactionCount(src)
		for i := 1; i < len(byCount); i++ {
			if byCount[i-1].TransactionCount < byCount[i].TransactionCount {
				t.Fatalf("round %d: pairs not descending by count: %+v", round, byCount)
			}
		}
		if top, ok := pairindex.MostActive(src); ok && top != byCount[0] {
			t.Fatalf("round %d: MostActive %+v != ranking head %+v", round, top, byCount[0])
		}

		byRevenue := PairsByTotalRevenue(src)
		for i := 1; i < len(byRevenue); i++ {
			if byRevenue[i-1].TotalRevenue > byRevenue[i].TotalRevenue {
				t.Fatalf("round %d: pairs not ascending by revenue: %+v", round, byRevenue)
			}
		}
	}
}

func TestRankingsAreIdempotent(t *testing.T) {
	src := randomLedger(rand.New(rand.NewSource(7)), 30)

	a, b := PairsByTotalRevenue(src), PairsByTotalRevenue(src)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("PairsByTotalRevenue differs between calls at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
	s1, s2 := SellersByRevenue(src), SellersByRevenue(src)
	for i := range s1 {
		if s1[i] != s2[i] {
			t.Fatalf("SellersByRevenue differs between calls at %d", i)
		}
	}
}
