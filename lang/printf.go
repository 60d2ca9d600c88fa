package lang

import (
	"fmt"
	"strings"
)

var escapes = map[byte]byte{
	'n':  '\n',
	't':  '\t',
	'r':  '\r',
	'\\': '\\',
	'"':  '"',
}

// Unescape replaces the escape sequences \n, \t, \r, \\ and \" in s. Other
// backslashes are kept as written.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder

	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			if r, ok := escapes[s[i+1]]; ok {
				b.WriteByte(r)
				i++

				continue
			}
		}

		b.WriteByte(s[i])
	}

	return b.String()
}

// Sprintf formats args according to a C-style format string. Conversions
// have the form %[flags][width][.precision]verb with verbs
// d i u s f F e E g G x X o b c and %.
func Sprintf(format string, args ...Value) (string, error) {
	var b strings.Builder

	next := 0

	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)

			continue
		}

		j := i + 1
		for j < len(format) && strings.IndexByte("-+ #0", format[j]) >= 0 {
			j++
		}

		for j < len(format) && format[j] >= '0' && format[j] <= '9' {
			j++
		}

		if j < len(format) && format[j] == '.' {
			j++
			for j < len(format) && format[j] >= '0' && format[j] <= '9' {
				j++
			}
		}

		if j >= len(format) {
			return "", ErrFormat.Detailf("incomplete conversion %q", format[i:])
		}

		spec, verb := format[i+1:j], format[j]
		i = j

		if verb == '%' {
			b.WriteByte('%')

			continue
		}

		if next >= len(args) {
			return "", ErrFormat.Detailf("not enough arguments for format string")
		}

		s, err := convert(spec, verb, args[next])
		if err != nil {
			return "", err
		}

		b.WriteString(s)

		next++
	}

	if next < len(args) {
		return "", ErrFormat.Detailf("not all arguments converted during formatting")
	}

	return b.String(), nil
}

// convert renders one argument for a conversion with the given flags,
// width and precision.
func convert(spec string, verb byte, arg Value) (string, error) {
	switch verb {
	case 'd', 'i', 'u', 'x', 'X', 'o', 'b':
		n, ok := toBig(arg)
		if !ok {
			return "", ErrFormat.Detailf("%%%c requires a number, not %s", verb, arg.Kind())
		}

		if verb == 'i' || verb == 'u' {
			verb = 'd'
		}

		return fmt.Sprintf("%"+spec+string(verb), n), nil

	case 'f', 'F', 'e', 'E', 'g', 'G':
		if numRank(arg) < 0 {
			return "", ErrFormat.Detailf("%%%c requires a number, not %s", verb, arg.Kind())
		}

		if verb == 'F' {
			verb = 'f'
		}

		return fmt.Sprintf("%"+spec+string(verb), toFloat(arg)), nil

	case 's':
		return fmt.Sprintf("%"+spec+"s", arg.String()), nil

	case 'c':
		switch a := arg.(type) {
		case Char:
			return fmt.Sprintf("%"+spec+"c", rune(a)), nil
		case String:
			if runeLen(string(a)) == 1 {
				return fmt.Sprintf("%"+spec+"s", string(a)), nil
			}
		default:
			if n, ok := toInteger(arg); ok && n.IsInt64() {
				return fmt.Sprintf("%"+spec+"c", rune(n.Int64())), nil
			}
		}

		return "", ErrFormat.Detailf("%%c requires a character, not %s", arg.Kind())
	}

	return "", ErrFormat.Detailf("unsupported conversion %%%c", verb)
}
