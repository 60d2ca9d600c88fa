package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"trace", LevelTrace, false},
		{"TRACE", LevelTrace, false},
		{"debug", LevelDebug, false},
		{" info ", LevelInfo, false},
		{"warn", LevelWarn, false},
		{"error", LevelError, false},
		{"info+2", Level(2), false},
		{"loud", DefaultLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLevelText(t *testing.T) {
	t.Parallel()

	for name := range Levels() {
		var l Level
		if err := l.UnmarshalText([]byte(name)); err != nil {
			t.Fatalf("unmarshal error: %v", err)
		}

		b, _ := l.MarshalText()
		if string(b) != name {
			t.Errorf("expected %q, got %q", name, b)
		}
	}

	if got := slices.Collect(Levels()); len(got) != 5 || got[0] != "trace" {
		t.Errorf("expected five levels starting with trace, got %v", got)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for _, name := range slices.Collect(Formats()) {
		var f Format
		if err := f.UnmarshalText([]byte(name)); err != nil {
			t.Fatalf("unmarshal error: %v", err)
		}

		if f.String() != name {
			t.Errorf("expected %q, got %q", name, f)
		}
	}

	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected an error for an unknown format")
	}

	if got := Format(7).String(); got != "Format(7)" {
		t.Errorf("expected Format(7), got %q", got)
	}
}

func TestOptionsCopy(t *testing.T) {
	t.Parallel()

	base := makeConfig(nil)
	changed := apply(base, WithLevel(LevelError), WithFormat(FormatJSON), WithCaller(true), WithPretty(true), nil)

	if base.level != DefaultLevel || base.format != DefaultFormat || base.caller || base.pretty {
		t.Error("expected options to leave the original config unchanged")
	}

	if changed.level != LevelError || changed.format != FormatJSON || !changed.caller || !changed.pretty {
		t.Error("expected options to apply to the copy")
	}
}

func TestMakeFormatTime(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 3, 9, 15, 4, 5, 6000, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-03-09T15:04:05Z"},
		{"Kitchen", "3:04PM"},
		{"date-time", "2024-03-09 15:04:05"},
		{"us", "Mar  9 15:04:05.000006"},
		{"2006/01/02", "2024/03/09"},
		{"none", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			t.Parallel()

			if got := makeFormatTime(tt.layout)(at); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
