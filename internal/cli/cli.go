// Package cli implements the command-line interface for energy-ledger.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/eunmann/energy-ledger/internal/logctx"
	"github.com/eunmann/energy-ledger/pkg/ledger"
	"github.com/eunmann/energy-ledger/pkg/ledgerfile"
	"github.com/eunmann/energy-ledger/pkg/logging"
	"github.com/eunmann/energy-ledger/pkg/report"
)

const usage = `usage: energy-ledger [global options] <command> [options]
commands:
  add                 record a transaction
  list                display all transactions
  seller              list transactions for a seller
  buyer               list transactions for a buyer
  period              list transactions in a time period
  revenue             total revenue of a seller
  rank-sellers        sellers sorted by revenue
  highest             transaction with the highest energy
  rank-buyers         buyers sorted by energy purchased
  busiest-month       month with the most transactions
  top-pair            seller/buyer pair with the most transactions
  rank-pairs-count    seller/buyer pairs by number of transactions
  rank-pairs-revenue  seller/buyer pairs by total revenue
  pair                look up one seller/buyer pair
  export              write the ledger as xlsx or parquet
  backup              upload the transaction log to S3
  restore             download the transaction log from S3
  menu                interactive menu`

// Streams are the standard streams a command talks to. Reports go to Out and
// log lines to Err; a nil Err means stderr.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run executes the CLI with the given arguments against the process streams.
func Run(args []string) error {
	return RunWith(context.Background(), args, Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
}

// RunWith executes the CLI with explicit streams.
func RunWith(ctx context.Context, args []string, streams Streams) error {
	fs := flag.NewFlagSet("energy-ledger", flag.ContinueOnError)
	var g globalFlags
	g.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		return errors.New(usage)
	}

	cfg, err := resolveConfig(fs, g)
	if err != nil {
		return err
	}
	logging.Setup(logging.Config{Debug: cfg.Log.Debug, Human: cfg.Log.Human, Out: streams.Err})

	cmd, cmdArgs := rest[0], rest[1:]
	run, ok := commands[cmd]
	if !ok {
		return fmt.Errorf("unknown command: %s", cmd)
	}

	ctx = logctx.WithLogger(ctx, logging.WithComponent("cli"))
	ctx = logctx.WithStr(ctx, "command", cmd)
	e := &env{
		cfg:   cfg,
		in:    streams.In,
		out:   report.NewConsole(streams.Out),
		raw:   streams.Out,
		clock: time.Now,
	}
	defer e.close()
	return run(ctx, e, cmdArgs)
}

// env is the state one command invocation works with.
type env struct {
	cfg     Config
	in      io.Reader
	out     *report.Console
	raw     io.Writer
	clock   func() time.Time
	store   *ledger.Store
	journal *ledgerfile.Journal
}

// open loads the transaction log into a fresh store.
func (e *env) open(ctx context.Context) (ledger.LoadResult, error) {
	e.store = ledger.New(e.cfg.StoreOptions())
	res, err := ledgerfile.Load(ctx, e.cfg.DataFile, e.store)
	if err != nil {
		return res, fmt.Errorf("load %s: %w", e.cfg.DataFile, err)
	}
	return res, nil
}

// openForWrite loads the log and attaches the journal so appends persist.
func (e *env) openForWrite(ctx context.Context) (ledger.LoadResult, error) {
	res, err := e.open(ctx)
	if err != nil {
		return res, err
	}
	j, err := ledgerfile.OpenJournal(e.cfg.DataFile)
	if err != nil {
		return res, err
	}
	e.journal = j
	e.store.SetSink(j)
	return res, nil
}

func (e *env) close() {
	if e.journal != nil {
		if err := e.journal.Close(); err != nil {
			logging.L().Warn().Err(err).Str("path", e.journal.Path()).Msg("close transaction log")
		}
	}
}
