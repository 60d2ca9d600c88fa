package cli

import (
	"testing"

	"github.com/ardnew/zyra/log"
)

// TestLogScan mutates the package-level logger, so it does not run in
// parallel.
func TestLogScan(t *testing.T) {
	saved := log.Default()
	t.Cleanup(func() { log.SetDefault(saved) })

	tests := []struct {
		name   string
		args   []string
		level  logLevel
		format logFormat
		pretty bool
		caller bool
	}{
		{
			name:   "separate_values",
			args:   []string{"run", "--log-level", "debug", "--log-format", "json", "x.zy"},
			level:  "debug",
			format: "json",
			pretty: true,
		},
		{
			name:   "assigned_values",
			args:   []string{"--log-level=trace", "--log-format=text", "--no-log-pretty", "--log-caller"},
			level:  "trace",
			format: "text",
		},
		{
			name:   "negated_assignment",
			args:   []string{"--no-log-pretty=false", "--log-caller=false"},
			pretty: true,
		},
		{
			name:   "stops_at_terminator",
			args:   []string{"run", "x.zy", "--", "--log-level=error"},
			pretty: true,
		},
		{
			name:   "invalid_level_ignored",
			args:   []string{"--log-level=loud"},
			pretty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log.SetDefault(log.Make(nil))

			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if f.Level != tt.level || f.Format != tt.format {
				t.Errorf("expected level %q format %q, got %q %q", tt.level, tt.format, f.Level, f.Format)
			}

			if f.Pretty != tt.pretty || f.Caller != tt.caller {
				t.Errorf("expected pretty %v caller %v, got %v %v", tt.pretty, tt.caller, f.Pretty, f.Caller)
			}

			if tt.level != "" {
				want, _ := log.ParseLevel(string(tt.level))
				if got := log.Default().Level(); got != want {
					t.Errorf("expected the default logger at %s, got %s", want, got)
				}
			}
		})
	}
}

func TestLogVars(t *testing.T) {
	t.Parallel()

	vars := (&logConfig{}).vars()

	if vars["logLevelEnum"] != "trace,debug,info,warn,error" {
		t.Errorf("unexpected level enum %q", vars["logLevelEnum"])
	}

	if vars["logFormatEnum"] != "text,json" {
		t.Errorf("unexpected format enum %q", vars["logFormatEnum"])
	}
}
