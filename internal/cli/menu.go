package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/eunmann/energy-ledger/pkg/aggregate"
	"github.com/eunmann/energy-ledger/pkg/ledger"
	"github.com/eunmann/energy-ledger/pkg/pairindex"
	"github.com/eunmann/energy-ledger/pkg/rank"
)

const menuText = `
Energy Trading Record Management System
1. Add Transaction
2. Display All Transactions
3. List Transactions for Seller
4. List Transactions for Buyer
5. List Transactions in Time Period
6. Calculate Revenue by Seller
7. Sort Sellers by Revenue
8. Find Transaction with Highest Energy
9. Sort Buyers by Energy Purchased
10. Month with Maximum Transactions
11. Seller/Buyer pair involved in Maximum Number of Transactions
12. Sort Seller/Buyer pairs by Number of Transactions
13. Sort Seller/Buyer pairs by Total Revenue Exchanged
0. Exit
Enter your choice: `

// menu drives the numbered interactive loop. Input is read a line at a time;
// end of input ends the session like choice 0.
type menu struct {
	e   *env
	sc  *bufio.Scanner
	eof bool
	err error
}

func runMenu(ctx context.Context, e *env, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))
	}
	res, err := e.openForWrite(ctx)
	if err != nil {
		return err
	}
	if err := e.out.Loaded(res); err != nil {
		return err
	}

	m := &menu{e: e, sc: bufio.NewScanner(e.in)}
	return m.loop()
}

func (m *menu) printf(format string, args ...any) {
	if m.err != nil {
		return
	}
	_, m.err = fmt.Fprintf(m.e.raw, format, args...)
}

// readLine prompts and returns the next input line. ok is false at end of input.
func (m *menu) readLine(prompt string) (string, bool) {
	m.printf("%s", prompt)
	if !m.sc.Scan() {
		m.eof = true
		if err := m.sc.Err(); err != nil && m.err == nil {
			m.err = fmt.Errorf("read input: %w", err)
		}
		return "", false
	}
	return strings.TrimSpace(m.sc.Text()), true
}

func (m *menu) readInt(prompt string) (int, bool) {
	line, ok := m.readLine(prompt)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(line)
	if err != nil {
		m.printf("Invalid number: %q\n", line)
		return 0, false
	}
	return v, true
}

func (m *menu) readFloat(prompt string) (float64, bool) {
	line, ok := m.readLine(prompt)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(line, 64)
	if err != nil {
		m.printf("Invalid number: %q\n", line)
		return 0, false
	}
	return v, true
}

func (m *menu) loop() error {
	for {
		line, ok := m.readLine(menuText)
		if !ok {
			return m.err
		}
		choice, err := strconv.Atoi(line)
		if err != nil {
			choice = -1
		}
		if choice == 0 {
			m.printf("Exiting...\n")
			return m.err
		}
		if err := m.dispatch(choice); err != nil {
			return err
		}
		if m.eof || m.err != nil {
			return m.err
		}
	}
}

func (m *menu) dispatch(choice int) error {
	e := m.e
	switch choice {
	case 1:
		return m.add()
	case 2:
		return e.out.Transactions(e.store.All())
	case 3:
		if id, ok := m.readInt("Enter Seller ID: "); ok {
			return e.out.SellerTransactions(id, aggregate.TransactionsForSeller(e.store, id))
		}
	case 4:
		if id, ok := m.readInt("Enter Buyer ID: "); ok {
			return e.out.BuyerTransactions(id, aggregate.TransactionsForBuyer(e.store, id))
		}
	case 5:
		return m.period()
	case 6:
		if id, ok := m.readInt("Enter Seller ID: "); ok {
			return e.out.SellerRevenue(id, aggregate.RevenueBySeller(e.store, id))
		}
	case 7:
		return e.out.SellersByRevenue(rank.SellersByRevenue(e.store))
	case 8:
		return e.out.HighestEnergy(aggregate.HighestEnergy(e.store))
	case 9:
		return e.out.BuyersByEnergy(rank.BuyersByEnergy(e.store))
	case 10:
		return e.out.BusiestMonth(aggregate.BusiestMonth(e.store))
	case 11:
		return e.out.MostActivePair(pairindex.MostActive(e.store.All()))
	case 12:
		return e.out.PairsByTransactionCount(rank.PairsByTransactionCount(e.store))
	case 13:
		return e.out.PairsByTotalRevenue(rank.PairsByTotalRevenue(e.store))
	default:
		m.printf("Invalid choice. Please try again.\n")
	}
	return nil
}

func (m *menu) add() error {
	var in ledger.Input
	var ok bool
	if in.BuyerID, ok = m.readInt("Enter Buyer ID: "); !ok {
		return nil
	}
	if in.SellerID, ok = m.readInt("Enter Seller ID: "); !ok {
		return nil
	}
	if in.EnergyKWh, ok = m.readFloat("Enter Energy Amount (kWh): "); !ok {
		return nil
	}
	if in.PricePerKWh, ok = m.readFloat("Enter Price per kWh: "); !ok {
		return nil
	}

	tx, err := m.e.store.Append(in, m.e.clock())
	switch {
	case errors.Is(err, ledger.ErrCapacityExceeded):
		m.printf("Transaction list is full!\n")
		return nil
	case errors.Is(err, ledger.ErrInvalidTransaction):
		m.printf("%v\n", err)
		return nil
	case err != nil:
		return err
	}
	return m.e.out.Added(tx)
}

func (m *menu) period() error {
	start, ok := m.readLine("Enter start time (YYYY-MM-DD HH:MM:SS): ")
	if !ok {
		return nil
	}
	end, ok := m.readLine("Enter end time (YYYY-MM-DD HH:MM:SS): ")
	if !ok {
		return nil
	}
	if err := errors.Join(aggregate.ValidateBound(start), aggregate.ValidateBound(end)); err != nil {
		m.printf("%v\n", err)
		return nil
	}
	return m.e.out.Period(start, end, aggregate.TransactionsInPeriod(m.e.store, start, end))
}
