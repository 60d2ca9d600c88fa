package repl

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/zyra/lang"
	"github.com/ardnew/zyra/lang/token"
)

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// wordBounds returns the identifier surrounding cursor and its byte offsets
// within input. The word is empty when the cursor is not touching an
// identifier.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	end = cursor
	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isIdentRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// selector describes what precedes the word being completed.
type selector int

const (
	selectNone   selector = iota
	selectMember          // receiver.word
	selectPath            // Type::word
)

// qualifier returns the identifier before wordStart that the word is
// selected from, such as "p" in "p.na" or "Color" in "Color::Re".
func qualifier(input string, wordStart int) (string, selector) {
	prefix := input[:wordStart]

	var sel selector

	switch {
	case strings.HasSuffix(prefix, "::"):
		sel, prefix = selectPath, prefix[:len(prefix)-2]
	case strings.HasSuffix(prefix, "."):
		sel, prefix = selectMember, prefix[:len(prefix)-1]
	default:
		return "", selectNone
	}

	name, _, _ := wordBounds(prefix, len(prefix))
	if name == "" {
		return "", selectNone
	}

	return name, sel
}

// commands are the shell commands recognised on an otherwise empty line.
var commands = []string{"clear", "edit", "exit", "help", "quit", "reset", "vars"}

// topLevel returns every name visible at the top level of the session.
func topLevel(in *lang.Interpreter) []string {
	names := slices.Concat(token.Keywords(), lang.Builtins(), in.Globals().Names())
	slices.Sort(names)

	return slices.Compact(names)
}

// selected returns the names that may follow qual with the given selector.
func selected(in *lang.Interpreter, qual string, sel selector) []string {
	env := in.Globals()

	if sel == selectPath {
		if def, ok := env.LookupEnum(qual); ok {
			names := make([]string, len(def.Variants))
			for i, v := range def.Variants {
				names[i] = v.Name
			}

			return names
		}

		return nil
	}

	v, ok := env.Get(qual)
	if !ok {
		return nil
	}

	names := lang.Methods(v.Kind())

	switch v := v.(type) {
	case *lang.Struct:
		names = append(slices.Clone(v.Fields()), names...)
	case *lang.Union:
		names = append([]string{v.Field}, names...)
	}

	return names
}

// computeMatches ranks the completion candidates for the word under the
// cursor. An empty word yields no matches except directly after a selector,
// where every member is offered.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	input := m.input.Value()

	word, ws, we := wordBounds(input, m.input.Position())
	qual, sel := qualifier(input, ws)

	var candidates []string

	switch {
	case sel != selectNone:
		candidates = selected(m.interp, qual, sel)
	case ws == 0 && len(m.pending) == 0:
		candidates = slices.Concat(commands, topLevel(m.interp))
	default:
		candidates = topLevel(m.interp)
	}

	if len(candidates) == 0 {
		return nil, ws, we
	}

	if word == "" {
		if sel == selectNone {
			return nil, ws, we
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, ws, we
	}

	return fuzzy.Find(word, candidates), ws, we
}

// renderCandidateBar lays the matches out on one line, ending with an
// ellipsis when they do not fit in width.
func renderCandidateBar(matches fuzzy.Matches, selectedIdx int, tabActive bool, width int) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	reserve := lipgloss.Width(sep) + lipgloss.Width(ellipsis)

	var (
		b    strings.Builder
		used int
	)

	for i, match := range matches {
		item := renderCandidate(match, tabActive && i == selectedIdx)
		w := lipgloss.Width(item)

		if i > 0 {
			w += lipgloss.Width(sep)

			if i < len(matches)-1 && used+w+reserve > width {
				b.WriteString(sep)
				b.WriteString(ellipsis)

				break
			}

			b.WriteString(sep)
		}

		b.WriteString(item)

		used += w
	}

	return b.String()
}

// renderCandidate highlights the characters of the match that the typed
// word matched.
func renderCandidate(match fuzzy.Match, isSelected bool) string {
	base, highlight := suggestionStyle, suggestionStyle.Bold(true)
	if isSelected {
		base, highlight = selectedStyle, selectedStyle.Bold(true)
	}

	hit := make(map[int]bool, len(match.MatchedIndexes))
	for _, i := range match.MatchedIndexes {
		hit[i] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if hit[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
