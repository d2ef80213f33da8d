package logging

import (
	"time"

	"github.com/eunmann/energy-ledger/pkg/humanfmt"
	"github.com/rs/zerolog"
)

// CompletionEvent builds a consistent "something finished" log line with
// duration and optional human-readable companions.
type CompletionEvent struct {
	log     zerolog.Logger
	event   string
	elapsed time.Duration
	fields  []func(e *zerolog.Event) *zerolog.Event
}

// NewCompletionEvent creates a new completion event builder.
func NewCompletionEvent(log zerolog.Logger, event string, elapsed time.Duration) *CompletionEvent {
	return &CompletionEvent{log: log, event: event, elapsed: elapsed}
}

// LedgerLoaded starts the event logged after the transaction log is read.
func LedgerLoaded(log zerolog.Logger, elapsed time.Duration) *CompletionEvent {
	return NewCompletionEvent(log, "ledger_loaded", elapsed)
}

// ExportWritten starts the event logged after an export file is written.
func ExportWritten(log zerolog.Logger, elapsed time.Duration) *CompletionEvent {
	return NewCompletionEvent(log, "export_written", elapsed)
}

// ArchiveTransferred starts the event logged after a backup or restore.
func ArchiveTransferred(log zerolog.Logger, elapsed time.Duration) *CompletionEvent {
	return NewCompletionEvent(log, "archive_transferred", elapsed)
}

// PairDirectoryBuilt starts the event logged after pair statistics are frozen
// into a lookup directory.
func PairDirectoryBuilt(log zerolog.Logger, elapsed time.Duration) *CompletionEvent {
	return NewCompletionEvent(log, "pair_directory_built", elapsed)
}

// Str adds a string field.
func (ce *CompletionEvent) Str(key, val string) *CompletionEvent {
	ce.fields = append(ce.fields, func(e *zerolog.Event) *zerolog.Event { return e.Str(key, val) })
	return ce
}

// Int adds an int field.
func (ce *CompletionEvent) Int(key string, val int) *CompletionEvent {
	ce.fields = append(ce.fields, func(e *zerolog.Event) *zerolog.Event { return e.Int(key, val) })
	return ce
}

// Count adds a count with a "_h" companion in pretty mode.
func (ce *CompletionEvent) Count(key string, n int64) *CompletionEvent {
	ce.fields = append(ce.fields, func(e *zerolog.Event) *zerolog.Event {
		e = e.Int64(key, n)
		if IsPrettyMode() {
			e = e.Str(key+"_h", humanfmt.Count(n))
		}
		return e
	})
	return ce
}

// Bytes adds a byte count with a "_h" companion in pretty mode.
func (ce *CompletionEvent) Bytes(key string, n int64) *CompletionEvent {
	ce.fields = append(ce.fields, func(e *zerolog.Event) *zerolog.Event {
		e = e.Int64(key, n)
		if IsPrettyMode() {
			e = e.Str(key+"_h", humanfmt.Bytes(n))
		}
		return e
	})
	return ce
}

// Log emits the event at info level.
func (ce *CompletionEvent) Log(msg string) {
	ce.emit(ce.log.Info(), msg)
}

// LogDebug emits the event at debug level.
func (ce *CompletionEvent) LogDebug(msg string) {
	ce.emit(ce.log.Debug(), msg)
}

func (ce *CompletionEvent) emit(e *zerolog.Event, msg string) {
	e = e.Str("event", ce.event).Int64("duration_ms", ce.elapsed.Milliseconds())
	if IsPrettyMode() {
		e = e.Str("duration_h", humanfmt.Duration(ce.elapsed))
	}
	for _, f := range ce.fields {
		e = f(e)
	}
	e.Msg(msg)
}
