package ledgerfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/eunmann/energy-ledger/pkg/ledger"
	"github.com/eunmann/energy-ledger/pkg/logging"
	"github.com/rs/zerolog"
)

// Journal appends transactions to the log file. It implements ledger.Sink.
//
// Each write takes an exclusive advisory lock on the file (where the platform
// supports it) and is synced before returning, so a record is either fully on
// disk or the append fails.
type Journal struct {
	mu   sync.Mutex
	f    *os.File
	path string
	log  zerolog.Logger
}

var _ ledger.Sink = (*Journal)(nil)

// OpenJournal opens path for appending, creating it and its directory if needed.
func OpenJournal(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open transaction log: %w", err)
	}

	return &Journal{
		f:    f,
		path: path,
		log:  logging.WithComponent("journal").With().Str("path", path).Logger(),
	}, nil
}

// Write appends one record line and syncs it.
func (j *Journal) Write(tx ledger.Transaction) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.f == nil {
		return fmt.Errorf("write transaction %d: journal closed", tx.ID)
	}

	if err := lockFile(j.f); err != nil {
		return fmt.Errorf("lock transaction log: %w", err)
	}
	defer func() {
		if err := unlockFile(j.f); err != nil {
			j.log.Warn().Err(err).Msg("unlock transaction log")
		}
	}()

	if _, err := j.f.WriteString(ledger.FormatRecord(tx) + "\n"); err != nil {
		return fmt.Errorf("append transaction %d: %w", tx.ID, err)
	}
	if err := j.f.Sync(); err != nil {
		return fmt.Errorf("sync transaction log: %w", err)
	}

	j.log.Debug().Int("id", tx.ID).Msg("transaction appended")
	return nil
}

// Path returns the log file path.
func (j *Journal) Path() string {
	return j.path
}

// Close closes the underlying file. Further writes fail.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.f == nil {
		return nil
	}
	err := j.f.Close()
	j.f = nil
	return err
}
