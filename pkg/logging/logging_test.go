package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestSetup_LevelAndFormat(t *testing.T) {
	defer Setup(Config{})

	tests := []struct {
		name      string
		cfg       Config
		wantDebug bool
		wantJSON  bool
	}{
		{"json info", Config{}, false, true},
		{"json debug", Config{Debug: true}, true, true},
		{"human info", Config{Human: true}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.cfg.Out = &buf
			Setup(tt.cfg)

			L().Debug().Msg("debug line")
			L().Info().Msg("info line")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
				t.Errorf("debug line present = %v, want %v: %s", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "info line") {
				t.Errorf("info line missing: %s", out)
			}
			if got := strings.HasPrefix(out, "{"); got != tt.wantJSON {
				t.Errorf("JSON output = %v, want %v: %s", got, tt.wantJSON, out)
			}
			if IsPrettyMode() != tt.cfg.Human {
				t.Errorf("IsPrettyMode() = %v, want %v", IsPrettyMode(), tt.cfg.Human)
			}
		})
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer Setup(Config{})

	log := WithComponent("journal")
	log.Info().Msg("test message")

	if !bytes.Contains(buf.Bytes(), []byte(`"component":"journal"`)) {
		t.Errorf("expected component field in output, got: %s", buf.String())
	}
}

func TestSetLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf).With().Str("custom", "field").Logger())
	defer Setup(Config{})

	L().Info().Msg("test")

	if !bytes.Contains(buf.Bytes(), []byte(`"custom":"field"`)) {
		t.Errorf("expected custom field in output, got: %s", buf.String())
	}
}

func TestCompletionEvent_Fields(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	LedgerLoaded(log, 1500*time.Millisecond).
		Str("path", "transactions.txt").
		Int("skipped", 2).
		Count("loaded", 42).
		Log("ledger loaded")

	out := buf.String()
	for _, want := range []string{
		`"event":"ledger_loaded"`,
		`"duration_ms":1500`,
		`"path":"transactions.txt"`,
		`"skipped":2`,
		`"loaded":42`,
		`"message":"ledger loaded"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
	if strings.Contains(out, "_h") {
		t.Errorf("unexpected human-readable fields outside pretty mode: %s", out)
	}
}

func TestCompletionEvent_PrettyCompanions(t *testing.T) {
	pretty = true
	defer func() { pretty = false }()

	var buf bytes.Buffer
	ExportWritten(zerolog.New(&buf), 250*time.Millisecond).
		Bytes("size", 2048).
		Count("rows", 1500).
		Log("export written")

	out := buf.String()
	for _, want := range []string{`"size_h":"2.00 KiB"`, `"rows_h":"1.50K"`, `"duration_h":"250.0ms"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %s: %s", want, out)
		}
	}
}

func TestCompletionEvent_LogDebugRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.InfoLevel)

	ArchiveTransferred(log, time.Second).LogDebug("hidden")

	if buf.Len() != 0 {
		t.Errorf("debug event written at info level: %s", buf.String())
	}
}
