package repl

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/zyra/lang"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	currentParamStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

// functionCall describes the call whose argument list contains the cursor.
type functionCall struct {
	name     string
	argIndex int
	inCall   bool
}

// detectFunctionCall finds the innermost open call before cursor and the
// index of the argument being typed. Parentheses, brackets and braces nest;
// commas inside them do not advance the argument index, nor do commas or
// parentheses inside string literals.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))
	text := input[:cursor]

	type frame struct {
		open  int
		comma int
		paren bool
	}

	var (
		stack []frame
		quote byte
	)

	for i := 0; i < len(text); i++ {
		c := text[i]

		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}

			continue
		}

		switch c {
		case '"', '\'':
			quote = c
		case '(', '[', '{':
			stack = append(stack, frame{open: i, paren: c == '('})
		case ')', ']', '}':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case ',':
			if len(stack) > 0 {
				stack[len(stack)-1].comma++
			}
		}
	}

	if len(stack) == 0 || !stack[len(stack)-1].paren {
		return functionCall{}
	}

	top := stack[len(stack)-1]

	name, _, _ := wordBounds(text[:top.open], top.open)
	if name == "" {
		return functionCall{}
	}

	return functionCall{name: name, argIndex: top.comma, inCall: true}
}

// signature returns the name and parameter labels of the callable bound to
// name in the session. Variadic natives end with a "..." label.
func signature(in *lang.Interpreter, name string) ([]string, bool) {
	v, ok := in.Globals().Get(name)
	if !ok {
		return nil, false
	}

	switch fn := v.(type) {
	case *lang.Function:
		params := make([]string, len(fn.Decl.Params))
		for i, p := range fn.Decl.Params {
			label := p.Name
			if p.Type != "" {
				label = p.Type + " " + label
			}

			if p.Default != nil {
				label += "?"
			}

			params[i] = label
		}

		return params, true

	case *lang.Lambda:
		return fn.Decl.Params, true

	case *lang.Native:
		n := fn.Max
		if n < 0 {
			n = fn.Min + 1
		}

		params := make([]string, n)
		for i := range params {
			params[i] = "arg" + strconv.Itoa(i+1)
			if i >= fn.Min {
				params[i] += "?"
			}
		}

		if fn.Max < 0 {
			params[n-1] = "..."
		}

		return params, true
	}

	return nil, false
}

// renderSignatureHint renders "name(a, b)" with the parameter at argIndex
// highlighted. A trailing "..." stays highlighted past the last parameter.
func renderSignatureHint(name string, params []string, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, p := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := p == "..." && i == len(params)-1
		if argIndex == i || (variadic && argIndex >= i) {
			b.WriteString(currentParamStyle.Render(p))
		} else {
			b.WriteString(signatureStyle.Render(p))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
