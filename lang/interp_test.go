package lang

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

// run executes src in a fresh interpreter and returns what it printed.
func run(t *testing.T, src string, opts ...Option) (string, error) {
	t.Helper()

	var out bytes.Buffer

	in := New(append([]Option{WithOutput(&out)}, opts...)...)
	err := in.Run(t.Context(), src)

	return out.String(), err
}

func TestRunPrograms(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "arithmetic",
			src:  "print(1 + 2 * 3)\nprint(7 / 2)\nprint(7//2)\nprint(-7//2)\nprint(-7 % 3)\nprint(2 ** 10)\nprint(4 / 2)",
			want: "7\n3.5\n3\n-4\n2\n1024\n2.0\n",
		},
		{
			name: "comment_vs_floor_division",
			src:  "dec x = 9 // not a division\nprint(x)",
			want: "9\n",
		},
		{
			name: "sized_constructors",
			src:  "print(uint8(300))\nprint(int8(130))\nprint(usize(-1))",
			want: "44\n-126\n18446744073709551615\n",
		},
		{
			name: "sized_declaration_wraps_on_store",
			src:  "dec uint8 x = 250\nx += 10\nprint(x)",
			want: "4\n",
		},
		{
			name: "alias_resolves_to_sized_type",
			src:  "type Byte = uint8\ntype Octet = Byte\ndec Octet z = 257\nprint(z)",
			want: "1\n",
		},
		{
			name: "sized_params_and_return",
			src:  "fnc f(int8 a) -> uint8 { return a - 1 }\nprint(f(128))",
			want: "127\n",
		},
		{
			name: "const_violation_keeps_value",
			src:  "const PI = 3.14\ntry { PI = 3 } catch (e) { print(e) }\nprint(PI)",
			want: "cannot assign to constant: PI\n3.14\n",
		},
		{
			name: "closure_counter",
			src: `
fnc make() {
	dec count = 0
	fnc inc() {
		count += 1
		return count
	}
	return inc
}
dec c = make()
print(c())
print(c())`,
			want: "1\n2\n",
		},
		{
			name: "unmatched_match_is_noop",
			src:  "match 5 { 1 => print(\"one\") }\nprint(\"done\")",
			want: "done\n",
		},
		{
			name: "union_misuse",
			src: `
union Val { i: int, s: string }
dec v = Val { i: 5 }
print(v.i)
try { print(v.s) } catch (e) { print("inactive") }
try { dec w = Val { i: 1, s: "x" } } catch (TypeError e) { print("bad") }`,
			want: "5\ninactive\nbad\n",
		},
		{
			name: "printf_resolves_escapes",
			src:  `printf("A%sB\n", "x")`,
			want: "AxB\n",
		},
		{
			name: "printf_conversions",
			src:  `printf("%5.2f|%-3d|%x|%c|%%\n", 3.14159, 7, 255, 'z')`,
			want: " 3.14|7  |ff|z|%\n",
		},
		{
			name: "logical_operators_evaluate_both_sides",
			src: `
fnc a() { print("a"); return false }
fnc b() { print("b"); return true }
dec r = a() and b()
print(r)`,
			want: "a\nb\nfalse\n",
		},
		{
			name: "c_style_for_continue",
			src: `
for (dec i = 0; i < 3; i++) {
	if (i == 1) { continue }
	print(i)
}`,
			want: "0\n2\n",
		},
		{
			name: "while_break",
			src:  "dec n = 0\nwhile (true) { n += 1\n if (n >= 3) { break } }\nprint(n)",
			want: "3\n",
		},
		{
			name: "for_in_range_and_collections",
			src:  "for i in 1..=3 { print(i) }\nfor (k in {\"a\": 1}) { print(k) }\nfor c in \"hi\" { print(c) }",
			want: "1\n2\n3\na\nh\ni\n",
		},
		{
			name: "enum_constructors_and_match",
			src: `
enum Shape { Circle(int), Square(int), Empty }
fnc area(s) {
	match s {
		Circle(r) => { return 3 * r * r }
		Square(w) => { return w * w }
		Empty => { return 0 }
	}
}
print(area(Shape_Circle(2)))
print(area(Shape.Square(3)))
print(area(Shape.Empty))
print(Shape_Circle(5))`,
			want: "12\n9\n0\nShape::Circle(5)\n",
		},
		{
			name: "match_guards_and_tuples",
			src: `
fnc sign(n) {
	match n {
		0 => return "zero"
		x if x < 0 => return "negative"
		_ => return "positive"
	}
}
print(sign(-4))
print(sign(0))
print(sign(9))
match (1, 2) { (a, b) => print(a + b) }`,
			want: "negative\nzero\npositive\n3\n",
		},
		{
			name: "structs",
			src: `
struct Point { x: int, y: int = 5 }
dec p = Point { x: 10 }
print(p)
p.y = 20
print(p.y)
print(Point { 1, 2 })`,
			want: "Point { x: 10, y: 5 }\n20\nPoint { x: 1, y: 2 }\n",
		},
		{
			name: "struct_without_union",
			src:  "struct P { x: int, y: int = 2 }\nprint(P { x: 1 })",
			want: "P { x: 1, y: 2 }\n",
		},
		{
			name: "inner_union_shadows_outer_struct",
			src: `
struct P { x: int, y: int = 2 }
fnc g() {
	union P { x: int, y: int }
	return P { x: 1 }
}
print(g())
print(P { x: 1 })`,
			want: "P { x: 1 }\nP { x: 1, y: 2 }\n",
		},
		{
			name: "outer_union_shadows_inner_struct",
			src: `
union P { x: int, y: int }
fnc g() {
	struct P { x: int, y: int = 2 }
	return P { x: 1 }
}
print(g())`,
			want: "P { x: 1 }\n",
		},
		{
			name: "callables_hash_by_identity",
			src: `
dec f = |x| x
dec g = |x| x
dec s = {f, g, f}
print(len(s))
dec d = {}
d[f] = 1
d[g] = 2
print(len(d))
print(d[f] + d[g])`,
			want: "2\n2\n3\n",
		},
		{
			name: "sized_struct_field",
			src:  "struct B { v: uint8 }\ndec b = B { v: 256 }\nprint(b.v)\nb.v = 257\nprint(b.v)",
			want: "0\n1\n",
		},
		{
			name: "arrays",
			src:  "dec a = [3, 1, 2]\na.push(4)\nprint(a)\nprint(len(a))\nprint(sorted(a))\nprint(a[-1])\nprint(a[1:3])\nprint(a[::-1])",
			want: "[3, 1, 2, 4]\n4\n[1, 2, 3, 4]\n4\n[1, 2]\n[4, 2, 1, 3]\n",
		},
		{
			name: "dicts",
			src:  "dec d = {\"a\": 1}\nd[\"b\"] = 2\nprint(d)\nprint(\"a\" in d)\nprint(d.get(\"z\", 0))\nprint(d.a)",
			want: "{\"a\": 1, \"b\": 2}\ntrue\n0\n1\n",
		},
		{
			name: "sets_and_tuples",
			src:  "print({1, 2} + {2, 3})\nprint({1, 2} - {2})\nprint({1, 2} * {2, 3})\nprint((1,))\nprint(())\nprint(set())",
			want: "{1, 2, 3}\n{1}\n{2}\n(1,)\n()\nset()\n",
		},
		{
			name: "strings",
			src:  "dec s = \"Hello\"\nprint(s.upper())\nprint(s[1:])\nprint(s[::-1])\nprint(\"ab\" * 3)\nprint(\"x\" + 1)\nprint(f\"{s}, {1 + 1}!\")",
			want: "HELLO\nello\nolleH\nababab\nx1\nHello, 2!\n",
		},
		{
			name: "print_escapes",
			src:  `print("a\tb\\c")`,
			want: "a\tb\\c\n",
		},
		{
			name: "lambdas_and_higher_order",
			src:  "dec sq = |x| x * x\nprint(sq(4))\nprint(map(sq, [1, 2, 3]))\nprint(filter(|x| x % 2 == 0, 1..7))\nprint(reduce(|a, b| a + b, [1, 2, 3]))",
			want: "16\n[1, 4, 9]\n[2, 4, 6]\n6\n",
		},
		{
			name: "named_and_default_arguments",
			src:  "fnc greet(name, greeting = \"Hello\") { return greeting + \", \" + name }\nprint(greet(\"Ann\"))\nprint(greet(greeting = \"Hi\", name = \"Bo\"))",
			want: "Hello, Ann\nHi, Bo\n",
		},
		{
			name: "increment_semantics",
			src:  "dec i = 5\nprint(++i)\nprint(i)\nprint(i++)\nprint(i)\nprint(--i)\nprint(i--)\nprint(i)",
			want: "5\n6\n7\n7\n7\n5\n5\n",
		},
		{
			name: "switch",
			src: `
fnc name(n) {
	switch (n) {
	case 1, 2:
		return "small"
	case 3:
		return "three"
	default:
		return "other"
	}
}
print(name(2))
print(name(3))
print(name(9))`,
			want: "small\nthree\nother\n",
		},
		{
			name: "try_finally_ordering",
			src: `
try {
	throw "boom"
} catch (e) {
	print("caught " + e)
} finally {
	print("finally")
}`,
			want: "caught boom\nfinally\n",
		},
		{
			name: "catch_by_thrown_type",
			src: `
struct Oops { code: int }
try { throw Oops { code: 7 } } catch (KeyError e) { print("wrong") } catch (Oops e) { print(e) }`,
			want: "Oops { code: 7 }\n",
		},
		{
			name: "numeric_tower",
			src:  "print(1 + 2.5)\nprint(10n + 1)\nprint(1.5d + 1)\nprint(0.1d + 0.2d)\nprint(1 == 1.0)\nprint(true + 1)",
			want: "3.5\n11\n2.5\n0.3\ntrue\n2\n",
		},
		{
			name: "comparisons",
			src:  "print(1 <=> 2)\nprint(\"b\" > \"a\")\nprint([1, 2] < [1, 3])\ndec a = [1]\ndec b = [1]\nprint(a == b)\nprint(a === b)\nprint(a === a)",
			want: "-1\ntrue\ntrue\ntrue\nfalse\ntrue\n",
		},
		{
			name: "logical_words",
			src:  "print(true xor true)\nprint(false then false)\nprint(true nand true)\nprint(not 0)",
			want: "false\ntrue\nfalse\ntrue\n",
		},
		{
			name: "shadowing_builtins",
			src:  "dec len = 3\nprint(len)",
			want: "3\n",
		},
		{
			name: "elif_and_else_if",
			src:  "dec n = 2\nif (n == 1) { print(1) } elif (n == 2) { print(2) } else { print(3) }\nif (n == 3) { print(3) } else if (n == 2) { print(\"two\") }",
			want: "2\ntwo\n",
		},
		{
			name: "ternary_and_truthiness",
			src:  "print([] ? \"full\" : \"empty\")\nprint(\"x\" ? 1 : 2)\nprint(bool(0.0))",
			want: "empty\n1\nfalse\n",
		},
		{
			name: "float_display",
			src:  "print(2.0)\nprint(1e20)\nprint(0.5)\nprint([1.0, \"a\", 'c'])",
			want: "2.0\n1e+20\n0.5\n[1.0, \"a\", 'c']\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := run(t, tt.src)
			if err != nil {
				t.Fatalf("run error: %v\noutput so far: %q", err, got)
			}

			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want error
		kind string
	}{
		{name: "undefined", src: "print(nope)", want: ErrUndefined, kind: "NameError"},
		{name: "undefined_type", src: "dec p = Nope { x: 1 }", want: ErrUndefinedType, kind: "NameError"},
		{name: "not_callable", src: "dec x = 1\nx()", want: ErrNotCallable, kind: "TypeError"},
		{name: "bad_operands", src: "print(null - 1)", want: ErrOperand, kind: "TypeError"},
		{name: "not_iterable", src: "for x in 5 { print(x) }", want: ErrNotIterable, kind: "TypeError"},
		{name: "union_fields", src: "union U { a: int, b: int }\ndec u = U { a: 1, b: 2 }", want: ErrUnionInit, kind: "TypeError"},
		{name: "arity", src: "fnc f(a, b) { return a }\nf(1)", want: ErrArity, kind: "ArityError"},
		{name: "lambda_arity", src: "dec f = |a| a\nf(1, 2)", want: ErrArity, kind: "ArityError"},
		{name: "unknown_named", src: "fnc f(a) { return a }\nf(b = 1)", want: ErrArgument, kind: "ArityError"},
		{name: "const", src: "const X = 1\nX = 2", want: ErrConst, kind: "ConstError"},
		{name: "enum_constructor_is_const", src: "enum E { A }\nE_A = 1", want: ErrConst, kind: "ConstError"},
		{name: "index", src: "dec a = [1]\nprint(a[3])", want: ErrIndex, kind: "IndexError"},
		{name: "key", src: "dec d = {}\nprint(d[\"k\"])", want: ErrKey, kind: "KeyError"},
		{name: "member", src: "struct P { x: int }\ndec p = P { x: 1 }\nprint(p.y)", want: ErrMember, kind: "AttributeError"},
		{name: "inactive", src: "union U { a: int, b: int }\ndec u = U { a: 1 }\nprint(u.b)", want: ErrInactive, kind: "AttributeError"},
		{name: "zero_division", src: "print(1 / 0)", want: ErrZeroDivision, kind: "ZeroDivisionError"},
		{name: "modulo_zero", src: "print(1 % 0)", want: ErrZeroDivision, kind: "ZeroDivisionError"},
		{name: "slice_step", src: "print([1, 2][::0])", want: ErrValue, kind: "ValueError"},
		{name: "negative_shift", src: "print(1 << -1)", want: ErrValue, kind: "ValueError"},
		{name: "printf_args", src: `printf("%d %d", 1)`, want: ErrFormat, kind: "ValueError"},
		{name: "printf_extra", src: `printf("%d", 1, 2)`, want: ErrFormat, kind: "ValueError"},
		{name: "recursion", src: "fnc f(n) { return f(n + 1) }\nf(0)", want: ErrRecursion, kind: "RecursionError"},
		{name: "break_outside_loop", src: "fnc f() { break }\nf()", want: ErrControl, kind: "SyntaxError"},
		{name: "top_level_return", src: "return 1", want: ErrControl, kind: "SyntaxError"},
		{name: "increment_target", src: "dec a = [1]\na[0]++", want: ErrTarget, kind: "SyntaxError"},
		{name: "unhashable", src: "dec s = {[1], 2}", want: ErrUnhashable, kind: "TypeError"},
		{name: "assert", src: "assert(1 == 2, \"math\")", want: ErrAssert, kind: "AssertionError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := run(t, tt.src, WithMaxDepth(50))
			if err == nil {
				t.Fatal("expected an error")
			}

			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}

			if got := ErrorKind(err); got != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, got)
			}
		})
	}
}

func TestUncaughtThrowCarriesValue(t *testing.T) {
	t.Parallel()

	_, err := run(t, "\n  throw 42")

	var thrown *Thrown
	if !errors.As(err, &thrown) {
		t.Fatalf("expected *Thrown, got %T: %v", err, err)
	}

	if !Equal(thrown.Value, NewInt(42)) {
		t.Errorf("expected 42, got %v", thrown.Value)
	}

	if thrown.Pos.Line != 2 || thrown.Pos.Column != 3 {
		t.Errorf("expected position 2:3, got %v", thrown.Pos)
	}

	if want := "line 2, column 3: uncaught Exception: 42"; err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestErrorPosition(t *testing.T) {
	t.Parallel()

	_, err := run(t, "dec a = 1\ndec b = a + missing")

	e := ErrUndefined
	if !errors.Is(err, e) {
		t.Fatalf("expected %v, got %v", e, err)
	}

	if want := "line 2, column 13: undefined variable: missing"; err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestCancellationIsNotCatchable(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	var out bytes.Buffer

	in := New(WithOutput(&out))

	err := in.Run(ctx, "try { while (true) { } } catch (e) { print(\"caught\") }")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestEvalReturnsTrailingExpression(t *testing.T) {
	t.Parallel()

	in := New(WithOutput(&bytes.Buffer{}))

	tests := []struct {
		src  string
		want string
	}{
		{src: "dec x = 40", want: "null"},
		{src: "x + 2", want: "42"},
		{src: "print(x)", want: "null"},
		{src: "[x, \"y\"]", want: "[40, \"y\"]"},
	}

	for _, tt := range tests {
		v, err := in.Eval(t.Context(), tt.src)
		if err != nil {
			t.Fatalf("eval %q: %v", tt.src, err)
		}

		if v.String() != tt.want {
			t.Errorf("eval %q: expected %s, got %s", tt.src, tt.want, v)
		}
	}
}

func TestGlobalsAndReset(t *testing.T) {
	t.Parallel()

	in := New(
		WithOutput(&bytes.Buffer{}),
		WithGlobals(map[string]Value{"answer": NewInt(42)}),
	)

	if err := in.Run(t.Context(), "dec extra = answer + 1\nstruct S { a: int }"); err != nil {
		t.Fatalf("run: %v", err)
	}

	if v, ok := in.Globals().Get("extra"); !ok || v.String() != "43" {
		t.Errorf("expected extra = 43, got %v", v)
	}

	in.Reset()

	if _, ok := in.Globals().Local("extra"); ok {
		t.Error("expected extra to be discarded by Reset")
	}

	if _, ok := in.Globals().LookupStruct("S"); ok {
		t.Error("expected struct S to be discarded by Reset")
	}

	if v, ok := in.Globals().Get("answer"); !ok || v.String() != "42" {
		t.Errorf("expected preset answer to survive Reset, got %v", v)
	}
}

type mapImporter map[string]string

func (m mapImporter) Import(ctx context.Context, path string) (*Module, error) {
	src, ok := m[path]
	if !ok {
		return nil, errors.New("no such module")
	}

	in := New(WithImporter(m))
	if err := in.Run(ctx, src); err != nil {
		return nil, err
	}

	return &Module{Path: path, Globals: in.Globals()}, nil
}

func TestImport(t *testing.T) {
	t.Parallel()

	imp := mapImporter{
		"util.zy": "fnc double(n) { return n * 2 }\nstruct Pair { a: int, b: int }\ndec scale = 10",
	}

	tests := []struct {
		name string
		src  string
		want string
	}{
		{name: "all_names", src: "import util\nprint(double(scale))\nprint(Pair { 1, 2 })", want: "20\nPair { a: 1, b: 2 }\n"},
		{name: "alias", src: "import \"util.zy\" as u\nprint(u.double(3))\nprint(u.scale)", want: "6\n10\n"},
		{name: "from", src: "from util import double, Pair\nprint(double(4))\nprint(Pair { a: 0, b: 1 })", want: "8\nPair { a: 0, b: 1 }\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := run(t, tt.src, WithImporter(imp))
			if err != nil {
				t.Fatalf("run: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	t.Run("missing_name", func(t *testing.T) {
		t.Parallel()

		_, err := run(t, "from util import nothing", WithImporter(imp))
		if !errors.Is(err, ErrImport) {
			t.Errorf("expected %v, got %v", ErrImport, err)
		}
	})

	t.Run("missing_module", func(t *testing.T) {
		t.Parallel()

		_, err := run(t, "import absent", WithImporter(imp))
		if !errors.Is(err, ErrImport) {
			t.Errorf("expected %v, got %v", ErrImport, err)
		}
	})

	t.Run("no_importer", func(t *testing.T) {
		t.Parallel()

		got, err := run(t, "import util\nprint(1)")
		if err != nil || got != "1\n" {
			t.Errorf("expected import to be skipped, got %q, %v", got, err)
		}
	})
}
