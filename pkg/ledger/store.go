package ledger

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// DefaultMaxTransactions bounds the store when no explicit limit is set.
const DefaultMaxTransactions = 1000

// Options controls store limits.
type Options struct {
	// MaxTransactions is the maximum number of records the store accepts.
	// Appends beyond it fail with ErrCapacityExceeded.
	// Default: DefaultMaxTransactions
	MaxTransactions int
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{MaxTransactions: DefaultMaxTransactions}
}

// Validate replaces zero or negative values with defaults.
func (o *Options) Validate() {
	if o.MaxTransactions <= 0 {
		o.MaxTransactions = DefaultMaxTransactions
	}
}

// WithMaxTransactions sets the capacity bound.
func (o Options) WithMaxTransactions(n int) Options {
	o.MaxTransactions = n
	return o
}

// Sink receives every appended transaction before it becomes visible in the
// store. A Sink error aborts the append.
type Sink interface {
	Write(tx Transaction) error
}

// Store is an ordered, append-only collection of transactions.
//
// Store is safe for concurrent use: appends are serialized and All returns a
// snapshot that later appends never change.
type Store struct {
	mu     sync.RWMutex
	opts   Options
	txs    []Transaction
	ids    map[int]struct{}
	nextID int
	sink   Sink
}

// New creates an empty store.
func New(opts Options) *Store {
	opts.Validate()
	return &Store{
		opts:   opts,
		ids:    make(map[int]struct{}),
		nextID: 1,
	}
}

// SetSink attaches the persistence target used by Append.
func (s *Store) SetSink(sink Sink) {
	s.mu.Lock()
	s.sink = sink
	s.mu.Unlock()
}

// Append records a new transaction stamped with now.
func (s *Store) Append(in Input, now time.Time) (Transaction, error) {
	if err := in.Validate(); err != nil {
		return Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.txs) >= s.opts.MaxTransactions {
		return Transaction{}, fmt.Errorf("%w: limit is %d", ErrCapacityExceeded, s.opts.MaxTransactions)
	}

	tx := Transaction{
		ID:          s.nextID,
		BuyerID:     in.BuyerID,
		SellerID:    in.SellerID,
		EnergyKWh:   Quantize(in.EnergyKWh),
		PricePerKWh: Quantize(in.PricePerKWh),
		Timestamp:   FormatTimestamp(now),
	}

	if s.sink != nil {
		if err := s.sink.Write(tx); err != nil {
			return Transaction{}, fmt.Errorf("persist transaction %d: %w", tx.ID, err)
		}
	}

	s.insert(tx)
	return tx, nil
}

// All returns the transactions in insertion order. The slice must not be
// modified.
func (s *Store) All() []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clip(s.txs)
}

// Len returns the number of stored transactions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.txs)
}

// Cap returns the configured capacity bound.
func (s *Store) Cap() int {
	return s.opts.MaxTransactions
}

// LoadResult summarizes a bulk load.
type LoadResult struct {
	Loaded int
	Errors []error
}

// Err joins the per-record errors, or returns nil when every record loaded.
func (r LoadResult) Err() error {
	return errors.Join(r.Errors...)
}

// RawRecord is one persisted record with its 1-based line number.
type RawRecord struct {
	Line   int
	Fields []string
}

// Load bulk-populates the store from persisted records, keeping their IDs and
// order. A bad record is reported as a *ParseError and skipped; the rest still
// load. Line numbers in errors are record positions (1-based).
func (s *Store) Load(records [][]string) LoadResult {
	raw := make([]RawRecord, len(records))
	for i, rec := range records {
		raw[i] = RawRecord{Line: i + 1, Fields: rec}
	}
	return s.LoadRaw(raw)
}

// LoadRaw is Load for records that carry their own line numbers. The sink is
// not written to.
func (s *Store) LoadRaw(records []RawRecord) LoadResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	var res LoadResult
	for _, rec := range records {
		tx, err := ParseRecord(rec.Fields)
		switch {
		case err != nil:
		case len(s.txs) >= s.opts.MaxTransactions:
			err = ErrCapacityExceeded
		default:
			if _, dup := s.ids[tx.ID]; dup {
				err = fmt.Errorf("%w: %d", ErrDuplicateID, tx.ID)
			}
		}
		if err != nil {
			res.Errors = append(res.Errors, &ParseError{Line: rec.Line, Record: slices.Clone(rec.Fields), Err: err})
			continue
		}
		s.insert(tx)
		res.Loaded++
	}
	return res
}

func (s *Store) insert(tx Transaction) {
	s.txs = append(s.txs, tx)
	s.ids[tx.ID] = struct{}{}
	if tx.ID >= s.nextID {
		s.nextID = tx.ID + 1
	}
}
