// Package repl implements the interactive zyra shell.
//
// Each submitted entry is evaluated in one long-lived interpreter, so
// declarations persist between entries. Entries with unbalanced brackets
// continue on the next line. The value of an entry is printed unless it is
// null. Output written by print and printf is shown above the prompt.
package repl

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/zyra/lang"
	"github.com/ardnew/zyra/lang/diag"
	"github.com/ardnew/zyra/log"
	"github.com/ardnew/zyra/pkg"
)

const (
	evalPrompt = "➜ "
	contPrompt = "… "

	defaultWidth = 80
)

var (
	promptStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	contPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("4"))
)

func helpMessage() string {
	return `
Commands (alone on a line):

  help     Print this overview
  vars     List global bindings
  reset    Discard all declarations
  edit     Compose the current entry in $EDITOR
  clear    Clear the screen
  quit     Exit (also: exit, Ctrl+D)

Language:

  dec x = 1; const PI = 3.14; dec uint8 b = 300     // b == 44
  fnc add(a, b = 1) { return a + b }   |x| x * 2
  struct P { x: int32, y: int32 }  enum Shape { Circle(r), Square(s) }
  if / elif / else, while, for (;;), for x in xs, switch, match
  try { } catch (KeyError e) { } finally { }   throw v
  print(v)  printf("%05.2f\n", x)  f"{name}!"  import "lib" as l

Keys:

  Tab / Shift+Tab cycle completions, Enter accepts one
  Up / Down browse history, Ctrl+C clears the entry
`
}

// Option configures [Run].
type Option func(*config)

type config struct {
	logger      log.Logger
	historyPath string
	langOpts    []lang.Option
	preload     []string
}

// WithLogger sets the logger for shell and interpreter diagnostics.
func WithLogger(logger log.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithHistoryFile persists entered lines to path. An empty path disables
// persistence.
func WithHistoryFile(path string) Option {
	return func(c *config) { c.historyPath = path }
}

// WithInterpreter passes options to the session's interpreter. Its output
// is always captured by the shell.
func WithInterpreter(opts ...lang.Option) Option {
	return func(c *config) { c.langOpts = append(c.langOpts, opts...) }
}

// WithPreload evaluates srcs in the session before the first prompt.
func WithPreload(srcs ...string) Option {
	return func(c *config) { c.preload = append(c.preload, srcs...) }
}

// Run starts an interactive session and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts ...Option) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	history := NewHistory(cfg.historyPath)
	if err := history.Load(); err != nil {
		cfg.logger.WarnContext(ctx, "could not load history",
			slog.String("path", cfg.historyPath),
			slog.Any("error", err),
		)
	}

	cfg.logger.TraceContext(ctx, "repl start",
		slog.String("history", cfg.historyPath),
		slog.Int("entries", history.Len()),
	)

	m := newModel(ctx, cfg, history)

	for i, src := range cfg.preload {
		if err := m.interp.Run(ctx, src); err != nil {
			cfg.logger.WarnContext(ctx, "preload failed",
				slog.Int("index", i),
				slog.String("error", diag.Format(src, err)),
			)
		}
	}

	m.startup = strings.TrimSuffix(m.out.String(), "\n")
	m.out.Reset()

	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()

	return err
}

// model is the Bubble Tea model of a session.
type model struct {
	ctxFunc      func() context.Context
	interp       *lang.Interpreter
	out          *bytes.Buffer
	logger       log.Logger
	input        textinput.Model
	history      *History
	historyIdx   int
	pending      []string      // lines of an unfinished entry
	matches      fuzzy.Matches // ranked completions for the current word
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int
	width        int
	quitting     bool
	startup      string // output of preloaded sources
}

func newModel(ctx context.Context, cfg config, history *History) model {
	out := new(bytes.Buffer)

	langOpts := append([]lang.Option{lang.WithLogger(cfg.logger)}, cfg.langOpts...)
	langOpts = append(langOpts, lang.WithOutput(out))

	ti := textinput.New()
	ti.Prompt = promptStyle.Render(evalPrompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc:    func() context.Context { return ctx },
		interp:     lang.New(langOpts...),
		out:        out,
		logger:     cfg.logger,
		input:      ti,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

// editDoneMsg carries the program accepted in the external editor.
type editDoneMsg struct{ src string }

// editErrorMsg reports a failure to run the external editor.
type editErrorMsg struct{ err error }

func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.Println(hintStyle.Render(pkg.Name + " " + pkg.Version() + ", type help for an overview")),
	}

	if m.startup != "" {
		cmds = append(cmds, tea.Println(m.startup))
	}

	return tea.Sequence(append(cmds, textinput.Blink)...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-len(evalPrompt)-2, 1)

		return m, nil

	case editDoneMsg:
		if msg.src == "" {
			return m, tea.Println(hintStyle.Render("edit cancelled"))
		}

		m.pending = nil
		m.input.Prompt = promptStyle.Render(evalPrompt)

		return m.evaluate(msg.src)

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("edit failed: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteByte('\n')

	input := m.input.Value()
	call := detectFunctionCall(input, m.input.Position())

	switch {
	case m.historyIdx < m.history.Len():
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))
		b.WriteString(hintStyle.Render(fmt.Sprintf("%s/%d", pos, m.history.Len())))

	case strings.TrimSpace(input) == "" && len(m.pending) == 0:
		b.WriteString(hintStyle.Render("Type a statement, or help for commands"))

	case strings.TrimSpace(input) == "":
		b.WriteString(hintStyle.Render("Continue the entry, or submit an empty line to run it"))

	case call.inCall && !m.tabActive:
		if params, ok := signature(m.interp, call.name); ok {
			b.WriteString(renderSignatureHint(call.name, params, call.argIndex))
		} else {
			b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
		}

	default:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteByte('\n')

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" && len(m.pending) == 0 {
			m.quitting = true

			return m, tea.Quit
		}

		m.pending = nil
		m.input.Prompt = promptStyle.Render(evalPrompt)
		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m, false)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" && len(m.pending) == 0 {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			refreshMatches(&m, true)

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.browse(-1), nil

	case tea.KeyDown:
		return m.browse(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)
		}

		return m, nil

	case tea.KeyRunes, tea.KeySpace:
		if m.tabActive && msg.String() == " " {
			m.tabActive = false
		}

		var cmd tea.Cmd

		m.historyIdx = m.history.Len()
		m.input, cmd = m.input.Update(msg)
		refreshMatches(&m, true)

		return m, cmd
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, false)

	return m, cmd
}

// cycle moves the tab selection by step, completing immediately when only
// one candidate exists.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if m.tabActive {
		m.suggIdx = (m.suggIdx + step + n) % n
	} else {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()

		m.suggIdx = 0
		if step < 0 {
			m.suggIdx = n - 1
		}
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// browse steps through history. Moving past the newest entry clears the
// input.
func (m model) browse(step int) model {
	idx := m.historyIdx + step
	if idx < 0 {
		return m
	}

	m.historyIdx = min(idx, m.history.Len())

	line, err := m.history.Get(m.historyIdx)
	if err != nil {
		line = ""
	}

	// multi-line entries are recalled on one line; use edit for the rest
	line = strings.ReplaceAll(line, "\n", " ")

	m.input.SetValue(line)
	m.input.SetCursor(len(line))
	refreshMatches(&m, false)

	return m
}

func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(m.wordStart + len(replacement))
	m.wordEnd = m.wordStart + len(replacement)
}

// refreshMatches recomputes completions. With autoConfirm, a word that
// already equals its only candidate is accepted so the bar disappears.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if autoConfirm && len(m.matches) == 1 &&
		m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.matches = nil
		m.suggIdx = -1
		m.tabActive = false
	}
}

// submit handles Enter: it runs a command, extends a pending entry, or
// evaluates the completed entry.
func (m model) submit() (model, tea.Cmd) {
	line := m.input.Value()

	m.input.SetValue("")
	m.historyIdx = m.history.Len()
	m.matches = nil

	prompt := evalPrompt
	pStyle := promptStyle

	if len(m.pending) > 0 {
		prompt, pStyle = contPrompt, contPromptStyle
	}

	echo := tea.Println(pStyle.Render(prompt) + inputStyle.Render(line))

	if len(m.pending) == 0 {
		word := strings.TrimSpace(line)
		if word == "" {
			return m, nil
		}

		if isCommand(word) {
			_ = m.history.Add(word)

			next, cmd := m.command(word)

			return next, tea.Sequence(echo, cmd)
		}
	}

	m.pending = append(m.pending, line)
	src := strings.Join(m.pending, "\n")

	// an empty continuation line forces evaluation
	if needsMore(src) && strings.TrimSpace(line) != "" {
		m.input.Prompt = contPromptStyle.Render(contPrompt)

		return m, echo
	}

	m.pending = nil
	m.input.Prompt = promptStyle.Render(evalPrompt)

	if err := m.history.Add(src); err != nil {
		m.logger.DebugContext(m.ctxFunc(), "history write failed", slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()

	next, cmd := m.evaluate(src)

	return next, tea.Sequence(echo, cmd)
}

// evaluate runs src in the session and prints its output and value.
func (m model) evaluate(src string) (model, tea.Cmd) {
	ctx := m.ctxFunc()

	m.logger.TraceContext(ctx, "repl eval", slog.String("input", src))

	m.out.Reset()
	v, err := m.interp.Eval(ctx, src)

	var cmds []tea.Cmd

	if out := strings.TrimSuffix(m.out.String(), "\n"); m.out.Len() > 0 {
		cmds = append(cmds, tea.Println(out))
	}

	switch {
	case err != nil:
		m.logger.TraceContext(ctx, "repl eval failed", slog.Any("error", err))
		cmds = append(cmds, tea.Println(errorStyle.Render(diag.Format(src, err))))

	case v != nil && v.Kind() != lang.KindNull:
		cmds = append(cmds, tea.Println(resultStyle.Render(v.String())))
	}

	return m, tea.Sequence(cmds...)
}

func isCommand(word string) bool {
	for _, c := range commands {
		if c == word {
			return true
		}
	}

	return false
}

func (m model) command(name string) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl command", slog.String("command", name))

	switch name {
	case "quit", "exit":
		m.quitting = true

		return m, tea.Quit

	case "help":
		return m, tea.Println(helpMessage())

	case "vars":
		return m, tea.Println(m.listVars())

	case "reset":
		m.interp.Reset()

		return m, tea.Println(hintStyle.Render("session reset"))

	case "clear":
		return m, tea.ClearScreen

	case "edit":
		c := &editCommand{
			ctx:     m.ctxFunc(),
			logger:  m.logger,
			content: strings.Join(m.pending, "\n"),
		}

		return m, tea.Exec(c, func(err error) tea.Msg {
			if err != nil {
				return editErrorMsg{err: err}
			}

			return editDoneMsg{src: c.src}
		})
	}

	return m, nil
}

// listVars renders every global binding with its kind and value.
func (m model) listVars() string {
	env := m.interp.Globals()

	names := env.Names()
	if len(names) == 0 {
		return hintStyle.Render("  (no bindings)")
	}

	var b strings.Builder

	for _, name := range names {
		bind, ok := env.Local(name)
		if !ok {
			continue
		}

		kind := bind.Value.Kind().String()
		if bind.Const {
			kind = "const " + kind
		}

		fmt.Fprintf(&b, "  %s %s %s\n", name, hintStyle.Render(kind), lang.Repr(bind.Value))
	}

	return strings.TrimSuffix(b.String(), "\n")
}
