package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used to colorize pretty output. Styles come from
// a renderer bound to the handler's writer, so color is dropped
// automatically when that writer is not a terminal.
type palette struct {
	key, str, num, yes, no, dur, when, null lipgloss.Style
	trace, debug, info, warn, error         lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return &palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		dur:   fg("5"),
		when:  fg("4"),
		null:  fg("8"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3"),
		error: fg("1").Bold(true),
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.error
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	}

	return p.trace
}

// prettyHandler is a colorizing [slog.Handler]. Group names are flattened
// into dotted keys, the same way [slog.TextHandler] presents them.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	colors *palette
	json   bool
	attrs  []slog.Attr
	groups []string
}

func newPrettyTextHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	return &prettyHandler{opts: *opts, mu: &sync.Mutex{}, w: w, colors: newPalette(w)}
}

func newPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *prettyHandler {
	h := newPrettyTextHandler(w, opts)
	h.json = true

	return h
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	c.attrs = slices.Clip(h.attrs)

	for _, a := range attrs {
		c.attrs = append(c.attrs, h.qualify(a)...)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(slices.Clip(h.groups), name)

	return &c
}

// qualify flattens a into attributes whose keys carry the open groups.
func (h *prettyHandler) qualify(a slog.Attr) []slog.Attr {
	return flatten(strings.Join(h.groups, "."), a)
}

func flatten(prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return nil
	}

	key := a.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if key == "" {
		key = prefix
	}

	if a.Value.Kind() != slog.KindGroup {
		return []slog.Attr{{Key: key, Value: a.Value}}
	}

	var out []slog.Attr
	for _, g := range a.Value.Group() {
		out = append(out, flatten(key, g)...)
	}

	return out
}

func (h *prettyHandler) builtin(a slog.Attr) (slog.Attr, bool) {
	if h.opts.ReplaceAttr != nil {
		a = h.opts.ReplaceAttr(nil, a)
	}

	return a, !a.Equal(slog.Attr{})
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		if a, ok := h.builtin(slog.Time(slog.TimeKey, r.Time)); ok {
			fields = append(fields, a)
		}
	}

	if a, ok := h.builtin(slog.Any(slog.LevelKey, r.Level)); ok {
		fields = append(fields, a)
	}

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields, slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = append(fields, h.qualify(a)...)

		return true
	})

	buf := new(bytes.Buffer)
	if h.json {
		h.writeJSON(buf, r.Level, fields)
	} else {
		h.writeText(buf, r.Level, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) writeText(buf *bytes.Buffer, level slog.Level, fields []slog.Attr) {
	for i, a := range fields {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.colors.key.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.value(level, a, false))
	}

	buf.WriteByte('\n')
}

func (h *prettyHandler) writeJSON(buf *bytes.Buffer, level slog.Level, fields []slog.Attr) {
	buf.WriteString("{\n")

	for i, a := range fields {
		buf.WriteString("  ")
		buf.WriteString(h.colors.key.Render(strconv.Quote(a.Key)))
		buf.WriteString(": ")
		buf.WriteString(h.value(level, a, true))

		if i < len(fields)-1 {
			buf.WriteByte(',')
		}

		buf.WriteByte('\n')
	}

	buf.WriteString("}\n")
}

func (h *prettyHandler) value(level slog.Level, a slog.Attr, quote bool) string {
	c := h.colors
	v := a.Value

	str := func(s string) string {
		if quote || s == "" || strings.ContainsAny(s, " =\"\t\n") {
			s = strconv.Quote(s)
		}

		return s
	}

	if a.Key == slog.LevelKey {
		return c.level(level).Render(str(v.String()))
	}

	switch v.Kind() {
	case slog.KindString:
		return c.str.Render(str(v.String()))
	case slog.KindInt64:
		return c.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return c.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return c.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return c.yes.Render("true")
		}

		return c.no.Render("false")
	case slog.KindDuration:
		return c.dur.Render(str(v.Duration().String()))
	case slog.KindTime:
		return c.when.Render(str(v.Time().Format(time.RFC3339)))
	}

	switch x := v.Any().(type) {
	case nil:
		return c.null.Render("null")
	case error:
		return c.no.Render(str(x.Error()))
	}

	return c.str.Render(str(v.String()))
}
