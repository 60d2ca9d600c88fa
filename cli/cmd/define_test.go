package cmd

import (
	"errors"
	"testing"

	"github.com/ardnew/zyra/pkg"
)

func TestEvalDefines(t *testing.T) {
	t.Setenv("ZYRA_TEST_DEFINE", "from-env")

	got, err := evalDefines(map[string]string{
		"a":    "1 + 2",
		"b":    "a * 10",
		"name": `env("ZYRA_TEST_DEFINE")`,
		"n":    "len(args)",
		"list": "[1, 2]",
	}, []string{"x", "y"})
	if err != nil {
		t.Fatalf("define error: %v", err)
	}

	want := map[string]string{
		"a":    "3",
		"b":    "30",
		"name": "from-env",
		"n":    "2",
		"list": "[1, 2]",
	}

	for k, v := range want {
		if got[k] == nil || got[k].String() != v {
			t.Errorf("expected %s = %s, got %v", k, v, got[k])
		}
	}
}

func TestEvalDefinesErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		defs map[string]string
	}{
		{name: "bad_name", defs: map[string]string{"1x": "1"}},
		{name: "keyword", defs: map[string]string{"while": "1"}},
		{name: "syntax", defs: map[string]string{"x": "1 +"}},
		{name: "runtime", defs: map[string]string{"x": "1 / y"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := evalDefines(tt.defs, nil); !errors.Is(err, pkg.ErrInvalidDefine) {
				t.Errorf("expected ErrInvalidDefine, got %v", err)
			}
		})
	}

	if got, err := evalDefines(nil, nil); got != nil || err != nil {
		t.Errorf("expected nothing for no defines, got %v, %v", got, err)
	}
}
