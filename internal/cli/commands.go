package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/eunmann/energy-ledger/internal/logctx"
	"github.com/eunmann/energy-ledger/pkg/aggregate"
	"github.com/eunmann/energy-ledger/pkg/archive"
	"github.com/eunmann/energy-ledger/pkg/fileutil"
	"github.com/eunmann/energy-ledger/pkg/ledger"
	"github.com/eunmann/energy-ledger/pkg/logging"
	"github.com/eunmann/energy-ledger/pkg/pairindex"
	"github.com/eunmann/energy-ledger/pkg/rank"
	"github.com/eunmann/energy-ledger/pkg/report"
)

type command func(ctx context.Context, e *env, args []string) error

var commands = map[string]command{
	"add":                runAdd,
	"list":               report0(func(e *env) error { return e.out.Transactions(e.store.All()) }),
	"seller":             runSeller,
	"buyer":              runBuyer,
	"period":             runPeriod,
	"revenue":            runRevenue,
	"rank-sellers":       report0(func(e *env) error { return e.out.SellersByRevenue(rank.SellersByRevenue(e.store)) }),
	"highest":            report0(func(e *env) error { return e.out.HighestEnergy(aggregate.HighestEnergy(e.store)) }),
	"rank-buyers":        report0(func(e *env) error { return e.out.BuyersByEnergy(rank.BuyersByEnergy(e.store)) }),
	"busiest-month":      report0(func(e *env) error { return e.out.BusiestMonth(aggregate.BusiestMonth(e.store)) }),
	"top-pair":           report0(func(e *env) error { return e.out.MostActivePair(pairindex.MostActive(e.store.All())) }),
	"rank-pairs-count":   report0(func(e *env) error { return e.out.PairsByTransactionCount(rank.PairsByTransactionCount(e.store)) }),
	"rank-pairs-revenue": report0(func(e *env) error { return e.out.PairsByTotalRevenue(rank.PairsByTotalRevenue(e.store)) }),
	"pair":               runPair,
	"export":             runExport,
	"backup":             runBackup,
	"restore":            runRestore,
	"menu":               runMenu,
}

// newArchiveClient is replaced in tests.
var newArchiveClient = archive.NewClient

// report0 adapts a flagless read-only report into a command.
func report0(print func(e *env) error) command {
	return func(ctx context.Context, e *env, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("unexpected arguments: %s", strings.Join(args, " "))
		}
		if _, err := e.open(ctx); err != nil {
			return err
		}
		return print(e)
	}
}

// requireFlags returns an error naming the first flag in names that was not
// set on the command line.
func requireFlags(fs *flag.FlagSet, names ...string) error {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for _, name := range names {
		if !set[name] {
			return fmt.Errorf("--%s is required", name)
		}
	}
	return nil
}

func runAdd(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	var in ledger.Input
	fs.IntVar(&in.BuyerID, "buyer", 0, "buyer ID")
	fs.IntVar(&in.SellerID, "seller", 0, "seller ID")
	fs.Float64Var(&in.EnergyKWh, "energy", 0, "energy amount in kWh")
	fs.Float64Var(&in.PricePerKWh, "price", 0, "price per kWh")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlags(fs, "buyer", "seller", "energy", "price"); err != nil {
		return err
	}

	if _, err := e.openForWrite(ctx); err != nil {
		return err
	}
	tx, err := e.store.Append(in, e.clock())
	if err != nil {
		return err
	}
	log := logctx.FromContext(ctx)
	log.Debug().Int("id", tx.ID).Msg("transaction recorded")
	return e.out.Added(tx)
}

func runSeller(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("seller", flag.ContinueOnError)
	id := fs.Int("id", 0, "seller ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlags(fs, "id"); err != nil {
		return err
	}
	if _, err := e.open(ctx); err != nil {
		return err
	}
	return e.out.SellerTransactions(*id, aggregate.TransactionsForSeller(e.store, *id))
}

func runBuyer(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("buyer", flag.ContinueOnError)
	id := fs.Int("id", 0, "buyer ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlags(fs, "id"); err != nil {
		return err
	}
	if _, err := e.open(ctx); err != nil {
		return err
	}
	return e.out.BuyerTransactions(*id, aggregate.TransactionsForBuyer(e.store, *id))
}

func runPeriod(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("period", flag.ContinueOnError)
	start := fs.String("start", "", "start time, "+ledger.TimestampLayout)
	end := fs.String("end", "", "end time, "+ledger.TimestampLayout)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlags(fs, "start", "end"); err != nil {
		return err
	}
	if err := errors.Join(aggregate.ValidateBound(*start), aggregate.ValidateBound(*end)); err != nil {
		return err
	}
	if _, err := e.open(ctx); err != nil {
		return err
	}
	return e.out.Period(*start, *end, aggregate.TransactionsInPeriod(e.store, *start, *end))
}

func runRevenue(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("revenue", flag.ContinueOnError)
	id := fs.Int("seller", 0, "seller ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlags(fs, "seller"); err != nil {
		return err
	}
	if _, err := e.open(ctx); err != nil {
		return err
	}
	return e.out.SellerRevenue(*id, aggregate.RevenueBySeller(e.store, *id))
}

func runPair(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("pair", flag.ContinueOnError)
	seller := fs.Int("seller", 0, "seller ID")
	buyer := fs.Int("buyer", 0, "buyer ID")
	indexPath := fs.String("index", "", "read pairs from a saved pair directory instead of the log")
	savePath := fs.String("save-index", "", "write the pair directory built from the log to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireFlags(fs, "seller", "buyer"); err != nil {
		return err
	}
	if *indexPath != "" && *savePath != "" {
		return errors.New("--index and --save-index are mutually exclusive")
	}

	ctx = logctx.WithInt(ctx, "seller", *seller)
	ctx = logctx.WithInt(ctx, "buyer", *buyer)
	log := logctx.FromContext(ctx)

	var dir *pairindex.Directory
	if *indexPath != "" {
		if !fileutil.Exists(*indexPath) {
			return fmt.Errorf("pair directory %s not found", *indexPath)
		}
		d, err := pairindex.OpenDirectory(*indexPath)
		if err != nil {
			return err
		}
		dir = d
	} else {
		if _, err := e.open(ctx); err != nil {
			return err
		}
		start := time.Now()
		d, err := pairindex.Freeze(pairindex.Build(e.store.All()))
		if err != nil {
			return fmt.Errorf("build pair directory: %w", err)
		}
		dir = d
		logging.PairDirectoryBuilt(log, time.Since(start)).
			Count("pairs", int64(dir.Len())).
			LogDebug("pair directory built")
		if *savePath != "" {
			if err := dir.WriteFile(*savePath); err != nil {
				return err
			}
			log.Info().Str("path", *savePath).Int("pairs", dir.Len()).Msg("pair directory written")
		}
	}

	p, ok := dir.Find(*seller, *buyer)
	log.Debug().Bool("found", ok).Msg("pair lookup")
	return e.out.Pair(*seller, *buyer, p, ok)
}

func runExport(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", "xlsx", "export format: xlsx or parquet")
	out := fs.String("out", "", "output file (xlsx) or directory (parquet)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errors.New("--out is required")
	}

	if _, err := e.open(ctx); err != nil {
		return err
	}
	start := time.Now()
	snap := report.TakeSnapshot(e.store)

	var paths []string
	switch *format {
	case "xlsx":
		if err := report.WriteXLSX(*out, snap); err != nil {
			return err
		}
		paths = []string{*out}
	case "parquet":
		if err := fileutil.CleanupTmpFiles(*out); err != nil {
			return err
		}
		written, err := report.WriteParquet(*out, snap)
		if err != nil {
			return err
		}
		paths = written
	default:
		return fmt.Errorf("unknown export format: %s", *format)
	}

	logging.ExportWritten(logctx.FromContext(ctx), time.Since(start)).
		Str("format", *format).
		Count("transactions", int64(len(snap.Transactions))).
		Count("pairs", int64(len(snap.Pairs))).
		Log("export written")
	for _, p := range paths {
		if _, err := fmt.Fprintln(e.raw, p); err != nil {
			return err
		}
	}
	return nil
}

// archiveLocation resolves the S3 target from an optional s3:// argument,
// flags and the config file, in that order of precedence.
func archiveLocation(e *env, name string, args []string) (archive.Location, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	bucket := fs.String("bucket", e.cfg.Archive.Bucket, "S3 bucket")
	key := fs.String("key", e.cfg.Archive.Key, "S3 object key")
	if err := fs.Parse(args); err != nil {
		return archive.Location{}, err
	}

	loc := archive.Location{Bucket: *bucket, Key: *key}
	switch fs.NArg() {
	case 0:
	case 1:
		parsed, err := archive.ParseS3URI(fs.Arg(0))
		if err != nil {
			return archive.Location{}, err
		}
		loc = parsed
	default:
		return archive.Location{}, fmt.Errorf("expected at most one s3:// URI, got %d arguments", fs.NArg())
	}

	if err := loc.Validate(filepath.Base(e.cfg.DataFile)); err != nil {
		return archive.Location{}, err
	}
	return loc, nil
}

func runBackup(ctx context.Context, e *env, args []string) error {
	loc, err := archiveLocation(e, "backup", args)
	if err != nil {
		return err
	}
	if !fileutil.IsNonEmpty(e.cfg.DataFile) {
		return fmt.Errorf("nothing to back up: %s is missing or empty", e.cfg.DataFile)
	}
	client, err := newArchiveClient(ctx)
	if err != nil {
		return err
	}
	n, err := client.Backup(ctx, e.cfg.DataFile, loc)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.raw, "Backed up %s (%d bytes) to %s\n", e.cfg.DataFile, n, loc)
	return err
}

func runRestore(ctx context.Context, e *env, args []string) error {
	loc, err := archiveLocation(e, "restore", args)
	if err != nil {
		return err
	}
	client, err := newArchiveClient(ctx)
	if err != nil {
		return err
	}
	n, err := client.Restore(ctx, loc, e.cfg.DataFile)
	if err != nil {
		return err
	}
	res, err := e.open(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.raw, "Restored %s (%d bytes) from %s: %d transactions, %d bad lines\n",
		e.cfg.DataFile, n, loc, res.Loaded, len(res.Errors))
	return err
}
