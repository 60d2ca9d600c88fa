package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// Not parallel: these tests replace the package-level logger.
func TestPackageLogger(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithTimeLayout("none")))
	Config(WithLevel(LevelDebug))

	Trace("hidden")
	Debug("debug")
	Info("info")
	Warn("warn")
	Error("error")
	With(slog.String("k", "v")).Info("with")

	want := []string{
		"level=DEBUG msg=debug",
		"level=INFO msg=info",
		"level=WARN msg=warn",
		"level=ERROR msg=error",
		"level=INFO msg=with k=v",
	}

	got := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(got) != len(want) {
		t.Fatalf("expected %d records, got %d: %q", len(want), len(got), buf.String())
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestPackageLoggerContext(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer

	SetDefault(Make(&buf, WithTimeLayout("none"), WithLevel(LevelTrace)))

	ctx := t.Context()
	TraceContext(ctx, "a")
	DebugContext(ctx, "b")
	InfoContext(ctx, "c")
	WarnContext(ctx, "d")
	ErrorContext(ctx, "e")

	if n := strings.Count(buf.String(), "\n"); n != 5 {
		t.Errorf("expected 5 records, got %d", n)
	}
}
