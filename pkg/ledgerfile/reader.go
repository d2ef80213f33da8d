// Package ledgerfile persists the ledger as an append-only text log with one
// comma-separated record per line:
//
//	id,buyerID,sellerID,energy,price,YYYY-MM-DD HH:MM:SS
package ledgerfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/eunmann/energy-ledger/internal/logctx"
	"github.com/eunmann/energy-ledger/pkg/ledger"
	"github.com/eunmann/energy-ledger/pkg/logging"
)

// ReadRecords splits r into one record per line. Each line is split on
// commas as-is: there is no quoting, so a damaged line never affects its
// neighbours. Blank lines are skipped; only I/O failures produce err.
func ReadRecords(r io.Reader) ([]ledger.RawRecord, error) {
	br := bufio.NewReader(r)
	var records []ledger.RawRecord
	for line := 1; ; line++ {
		text, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read transaction log line %d: %w", line, err)
		}
		text = strings.TrimRight(text, "\r\n")
		if strings.TrimSpace(text) != "" {
			records = append(records, ledger.RawRecord{Line: line, Fields: strings.Split(text, ",")})
		}
		if err != nil {
			return records, nil
		}
	}
}

// Load reads the log at path into store. A missing file is an empty ledger.
// Bad lines are logged, skipped and returned in the result; err is reserved
// for failures to read the file at all.
func Load(ctx context.Context, path string, store *ledger.Store) (ledger.LoadResult, error) {
	log := logctx.FromContext(ctx).With().Str("path", path).Logger()
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Debug().Msg("transaction log not found, starting empty")
			return ledger.LoadResult{}, nil
		}
		return ledger.LoadResult{}, fmt.Errorf("open transaction log: %w", err)
	}
	defer f.Close()

	records, err := ReadRecords(f)
	if err != nil {
		return ledger.LoadResult{}, err
	}

	res := store.LoadRaw(records)

	for _, e := range res.Errors {
		log.Warn().Err(e).Msg("error parsing line")
	}
	logging.LedgerLoaded(log, time.Since(start)).
		Count("loaded", int64(res.Loaded)).
		Int("skipped", len(res.Errors)).
		Int("capacity", store.Cap()).
		Log("transaction log loaded")

	return res, nil
}
