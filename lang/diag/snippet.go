package diag

import (
	"strconv"
	"strings"

	"github.com/ardnew/zyra/lang/token"
)

// Snippet renders the source line containing pos with a caret under the
// offending column:
//
//	  3 | dec x = )
//	              ^
//
// It returns "" if pos does not refer to a line of src.
func Snippet(src string, pos token.Pos) string {
	if !pos.IsValid() {
		return ""
	}

	lines := strings.Split(src, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	line := strings.TrimRight(lines[pos.Line-1], "\r")
	num := strconv.Itoa(pos.Line)

	var b strings.Builder

	b.WriteString("  ")
	b.WriteString(num)
	b.WriteString(" | ")
	b.WriteString(line)
	b.WriteByte('\n')

	// 2 leading spaces + " | " (3 chars)
	b.WriteString(strings.Repeat(" ", len(num)+5))

	// Tabs in the prefix are kept so the caret lines up in a terminal.
	col := 1
	for _, r := range line {
		if col >= pos.Column {
			break
		}

		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}

		col++
	}

	b.WriteString("^\n")

	return b.String()
}

// Format renders err with a source snippet when it is a positioned *Error.
// Other errors are rendered with their Error method.
func Format(src string, err error) string {
	e := As(err)
	if e == nil {
		return err.Error()
	}

	s := Snippet(src, e.Pos())
	if s == "" {
		return e.Error()
	}

	return e.Error() + "\n" + s
}
