package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/zyra/lang/diag"
	"github.com/ardnew/zyra/lang/parser"
	"github.com/ardnew/zyra/log"
	"github.com/ardnew/zyra/pkg"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand]. It opens the user's editor on a
// temporary source file seeded with content and keeps reopening it while
// the result fails to parse and the user asks to retry. src holds the
// accepted program, or "" when the edit was abandoned.
type editCommand struct {
	ctx     context.Context
	logger  log.Logger
	content string
	src     string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func (c *editCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

func (c *editCommand) Run() error {
	f, err := os.CreateTemp("", pkg.Name+"-repl-*"+pkg.SourceExt)
	if err != nil {
		return err
	}

	path := f.Name()
	f.Close()

	defer os.Remove(path)

	content := c.content

	for {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}

		if err := runEditor(c.ctx, c.stdin, c.stdout, c.stderr, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		content = string(data)
		if strings.TrimSpace(content) == "" {
			return nil
		}

		_, perr := parser.ParseString(content)

		c.logger.TraceContext(c.ctx, "editor parse attempt",
			slog.Int("length", len(content)),
			slog.Bool("ok", perr == nil),
		)

		if perr == nil {
			c.src = content

			return nil
		}

		fmt.Fprintf(c.stderr, "\n%s\nRe-edit? [Y/n] ", diag.Format(content, perr))

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return nil
		}

		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "n", "no":
			return nil
		}
	}
}

// runEditor runs $VISUAL or $EDITOR on path and waits for it to exit.
func runEditor(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, path string) error {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}

	if editor == "" {
		editor = defaultEditor
	}

	args := strings.Fields(editor)
	if len(args) == 0 {
		return ErrNoEditor
	}

	cmd := exec.CommandContext(ctx, args[0], append(args[1:], path)...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
