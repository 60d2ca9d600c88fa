package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestMakeDefaults(t *testing.T) {
	t.Parallel()

	logger := Make(nil)

	if logger.Level() != DefaultLevel {
		t.Errorf("expected level %v, got %v", DefaultLevel, logger.Level())
	}

	if logger.Format() != DefaultFormat {
		t.Errorf("expected format %v, got %v", DefaultFormat, logger.Format())
	}

	if logger.caller || logger.pretty {
		t.Error("expected caller and pretty disabled by default")
	}
}

func TestZeroLoggerDiscards(t *testing.T) {
	t.Parallel()

	var logger Logger

	logger.Error("nothing happens", slog.Int("n", 1))
	logger.With(slog.String("k", "v")).Trace("still nothing")

	if logger.Enabled(LevelError) {
		t.Error("expected zero logger to be disabled at every level")
	}

	if logger.Level() != DefaultLevel {
		t.Errorf("expected level %v, got %v", DefaultLevel, logger.Level())
	}

	wrapped := logger.Wrap(WithLevel(LevelWarn))
	if wrapped.Logger == nil || wrapped.Level() != LevelWarn {
		t.Error("expected Wrap on a zero logger to build a usable one")
	}
}

func TestLevelFiltering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		log    func(Logger, string, ...slog.Attr)
		min    Level
		logged bool
	}{
		{"trace at trace", Logger.Trace, LevelTrace, true},
		{"trace at debug", Logger.Trace, LevelDebug, false},
		{"debug at debug", Logger.Debug, LevelDebug, true},
		{"debug at info", Logger.Debug, LevelInfo, false},
		{"info at info", Logger.Info, LevelInfo, true},
		{"info at warn", Logger.Info, LevelWarn, false},
		{"warn at warn", Logger.Warn, LevelWarn, true},
		{"warn at error", Logger.Warn, LevelError, false},
		{"error at trace", Logger.Error, LevelTrace, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			tt.log(Make(&buf, WithLevel(tt.min)), "message")

			if got := buf.Len() > 0; got != tt.logged {
				t.Errorf("expected logged=%v, got %v (%q)", tt.logged, got, buf.String())
			}
		})
	}
}

func TestTraceLevelName(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	Make(&buf, WithLevel(LevelTrace), WithTimeLayout("none")).Trace("step")

	if got, want := buf.String(), "level=TRACE msg=step\n"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestJSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := Make(&buf, WithFormat(FormatJSON))
	logger.With(slog.String("component", "eval")).
		Warn("slow call", slog.Int("depth", 12))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	want := map[string]any{
		"level":     "WARN",
		"msg":       "slow call",
		"component": "eval",
		"depth":     float64(12),
	}

	for k, v := range want {
		if rec[k] != v {
			t.Errorf("expected %s=%v, got %v", k, v, rec[k])
		}
	}

	if _, ok := rec["time"]; !ok {
		t.Error("expected a time field")
	}
}

func TestTimeLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		layout  string
		present bool
	}{
		{"RFC3339", true},
		{"rfc-3339-nano", true},
		{"kitchen", true},
		{"15:04", true},
		{"none", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			Make(&buf, WithTimeLayout(tt.layout)).Info("x")

			if got := strings.Contains(buf.String(), "time="); got != tt.present {
				t.Errorf("expected time present=%v, got %q", tt.present, buf.String())
			}
		})
	}
}

func TestCallerReportsCallSite(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	Make(&buf, WithCaller(true)).Info("here")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("expected source to name this file, got %q", buf.String())
	}

	buf.Reset()
	Make(&buf).Info("here")

	if strings.Contains(buf.String(), "source=") {
		t.Errorf("expected no source, got %q", buf.String())
	}
}

func TestWrapKeepsSettings(t *testing.T) {
	t.Parallel()

	var first, second bytes.Buffer

	base := Make(&first, WithLevel(LevelDebug), WithTimeLayout("none"))
	moved := base.Wrap(WithOutput(&second))

	moved.Debug("moved")
	base.Debug("stayed")

	if got := second.String(); got != "level=DEBUG msg=moved\n" {
		t.Errorf("expected wrapped logger to keep its level, got %q", got)
	}

	if got := first.String(); got != "level=DEBUG msg=stayed\n" {
		t.Errorf("expected original logger to be unchanged, got %q", got)
	}
}

func TestPrettyKeepsAttrsAndGroups(t *testing.T) {
	t.Parallel()

	for _, format := range []Format{FormatText, FormatJSON} {
		t.Run(format.String(), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer

			logger := Make(&buf, WithPretty(true), WithFormat(format), WithTimeLayout("none"))
			grouped := Logger{
				Logger: logger.Logger.WithGroup("run"),
				config: logger.config,
			}

			grouped.With(slog.String("file", "a.zy")).
				Error("failed", slog.Any("err", errors.New("boom")), slog.Bool("ok", false))

			out := buf.String()
			for _, want := range []string{"run.file", "a.zy", "run.err", "boom", "run.ok", "failed"} {
				if !strings.Contains(out, want) {
					t.Errorf("expected %q in %q", want, out)
				}
			}

			if strings.Contains(out, "time") {
				t.Errorf("expected no time field, got %q", out)
			}
		})
	}
}

func TestConcurrentLogging(t *testing.T) {
	t.Parallel()

	var (
		mu  sync.Mutex
		buf bytes.Buffer
		wg  sync.WaitGroup
	)

	logger := Make(writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()

		return buf.Write(p)
	}), WithTimeLayout("none"))

	for i := range 8 {
		wg.Go(func() {
			logger.With(slog.Int("worker", i)).Info("tick")
		})
	}

	wg.Wait()

	if n := strings.Count(buf.String(), "\n"); n != 8 {
		t.Errorf("expected 8 records, got %d", n)
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
