package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolveFlattens(t *testing.T) {
	t.Parallel()

	src := `
log:
  level: debug
  pretty: false
log_caller: true
run:
  max-depth: 200
ratio: 0.5
offset: -3
path: [a, b]
`

	r, err := resolve(strings.NewReader(src))
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	conf, ok := r.(config)
	if !ok {
		t.Fatalf("expected config, got %T", r)
	}

	want := map[string]any{
		"log-level":     "debug",
		"log-pretty":    false,
		"log-caller":    true,
		"run-max-depth": "200",
		"ratio":         "0.5",
		"offset":        "-3",
	}

	for k, v := range want {
		if conf[k] != v {
			t.Errorf("expected %s = %v, got %#v", k, v, conf[k])
		}
	}

	if list, ok := conf["path"].([]any); !ok || len(list) != 2 {
		t.Errorf("expected a list for path, got %#v", conf["path"])
	}
}

func TestResolveEmptyAndInvalid(t *testing.T) {
	t.Parallel()

	r, err := resolve(strings.NewReader(""))
	if err != nil {
		t.Fatalf("resolve error: %v", err)
	}

	if len(r.(config)) != 0 {
		t.Errorf("expected an empty config, got %v", r)
	}

	if _, err := resolve(strings.NewReader("log: [unclosed")); err == nil {
		t.Error("expected an error for malformed YAML")
	}
}

func TestResolverAppliesToFlags(t *testing.T) {
	t.Parallel()

	var cli struct {
		Level string `default:"info"`
		Run   struct {
			MaxDepth int    `default:"10"`
			Name     string `default:"x"`
		} `cmd:""`
	}

	conf := config{
		"level":         "debug",
		"run-max-depth": "64",
		"max-depth":     "1",
		"name":          "global",
	}

	parser, err := kong.New(&cli, kong.Resolvers(conf))
	if err != nil {
		t.Fatalf("kong error: %v", err)
	}

	if _, err := parser.Parse([]string{"run"}); err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if cli.Level != "debug" {
		t.Errorf("expected level debug, got %s", cli.Level)
	}

	if cli.Run.MaxDepth != 64 {
		t.Errorf("expected the command-qualified key to win, got %d", cli.Run.MaxDepth)
	}

	if cli.Run.Name != "global" {
		t.Errorf("expected the global key as fallback, got %s", cli.Run.Name)
	}

	if _, err := parser.Parse([]string{"run", "--max-depth=5"}); err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if cli.Run.MaxDepth != 5 {
		t.Errorf("expected the flag to override the configuration, got %d", cli.Run.MaxDepth)
	}
}
