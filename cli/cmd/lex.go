package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/zyra/lang/diag"
	"github.com/ardnew/zyra/lang/lexer"
	"github.com/ardnew/zyra/log"
)

// Lex prints the token stream of a script.
type Lex struct {
	Format string `default:"text" enum:"text,yaml,json" help:"Output format" short:"o"`

	File string `arg:"" default:"-" help:"Script file or '-' for stdin" name:"file"`
}

// lexeme is the encoded form of one token.
type lexeme struct {
	Kind   string `json:"kind"   yaml:"kind"`
	Lexeme string `json:"lexeme" yaml:"lexeme"`
	Line   int    `json:"line"   yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

// Run executes the lex command.
func (l *Lex) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readSource(ctx, l.File)
	if err != nil {
		return err
	}

	toks, err := lexer.Tokenize(src.Text)
	if err != nil {
		fmt.Fprintf(stdioFrom(ctx).err, "%s: %s\n", src.Name, diag.Format(src.Text, err))

		return ErrScript.Wrap(err).With(slog.String("file", src.Name))
	}

	log.DebugContext(ctx, "lex",
		slog.String("file", src.Name),
		slog.Int("tokens", len(toks)),
	)

	out := make([]lexeme, len(toks))
	for i, t := range toks {
		out[i] = lexeme{Kind: t.Kind.String(), Lexeme: t.Lexeme, Line: t.Line, Column: t.Column}
	}

	w := stdioFrom(ctx).out

	switch l.Format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(out); err != nil {
			return ErrJSONMarshal.Wrap(err)
		}

	case "yaml":
		b, err := yaml.Marshal(out)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		if _, err := w.Write(b); err != nil {
			return ErrWriteOutput.Wrap(err)
		}

	default:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, t := range out {
			fmt.Fprintf(tw, "%d:%d\t%s\t%q\n", t.Line, t.Column, t.Kind, t.Lexeme)
		}

		if err := tw.Flush(); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}
