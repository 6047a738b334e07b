package el

import "testing"

// expressions exercised by the property tests below, one per named
// EL operator family. Each entry gives the source text, the numeric
// free variables it expects in its store, and nothing else — the
// properties check relationships between evaluations of the same
// expression, not fixed expected values.
var propertyExpressions = []struct {
	name string
	src  string
	vars map[string]Value
}{
	{"arithmetic", "2 + 3 * 4 - 1", nil},
	{"parenthesized", "(2 + 3) * 4", nil},
	{"comparison chain", "x > 1 && x < 10", map[string]Value{"x": NewNumber(5)}},
	{"string concat", `"a" + "b" + "c"`, nil},
	{"array literal", "[1, 2, 3][1]", nil},
	{"map literal", `{a: 1, b: 2}["b"]`, nil},
	{"switch with fallthrough default", "{{x > 0 -> 1, x < 0 -> -1, 0}}", map[string]Value{"x": NewNumber(-3)}},
	{"bitwise", "(6 & 3) | 8", nil},
	{"unary chain", "- - 5", nil},
}

func evalSrc(t *testing.T, src string, vars map[string]Value) Value {
	t.Helper()
	node, err := ParseStrict(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	v, err := node.Evaluate(NewVariableStore(vars), nil)
	if err != nil {
		t.Fatalf("Evaluate(%q): %v", src, err)
	}
	return v
}

// TestPropertyOptimizationPreservesValue checks spec property 11:
// evaluate(e, sigma) == evaluate(optimize(e), sigma) for every sample
// expression, against the same variable store both times.
func TestPropertyOptimizationPreservesValue(t *testing.T) {
	for _, tc := range propertyExpressions {
		t.Run(tc.name, func(t *testing.T) {
			node, err := ParseStrict(tc.src)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tc.src, err)
			}
			store := NewVariableStore(tc.vars)

			before, err := node.Evaluate(store, nil)
			if err != nil {
				t.Fatalf("Evaluate before optimize: %v", err)
			}
			after, err := node.Optimize().Evaluate(store, nil)
			if err != nil {
				t.Fatalf("Evaluate after optimize: %v", err)
			}
			if !before.Equals(after) {
				t.Fatalf("optimize changed the result: before=%v after=%v", before, after)
			}
		})
	}
}

// TestPropertyFullyLiteralExpressionsFoldToLiteral checks that an
// expression with no free variables optimizes all the way down to a
// single literal node, the strongest form of property 11 for the
// constant-only case.
func TestPropertyFullyLiteralExpressionsFoldToLiteral(t *testing.T) {
	for _, tc := range propertyExpressions {
		if len(tc.vars) != 0 {
			continue
		}
		t.Run(tc.name, func(t *testing.T) {
			node, err := ParseStrict(tc.src)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tc.src, err)
			}
			opt := node.Optimize()
			if opt.Kind() != NodeLiteral {
				t.Fatalf("optimize(%q) = %v node, want NodeLiteral", tc.src, opt.Kind())
			}
		})
	}
}

// TestPropertyAndShortCircuits checks spec property 12: the right
// operand of `&&` is never evaluated once the left operand is false.
// The right operand is a variable lookup, and a Trace records every
// lookup Evaluate performs, so an empty trace proves it was skipped.
func TestPropertyAndShortCircuits(t *testing.T) {
	node, err := ParseStrict("false && never")
	if err != nil {
		t.Fatal(err)
	}
	trace := NewTrace()
	v, err := node.Evaluate(NewVariableStore(map[string]Value{"never": NewNumber(1)}), trace)
	if err != nil {
		t.Fatal(err)
	}
	if v.BoolValue() != false {
		t.Fatalf("false && never = %v, want false", v)
	}
	if vars := trace.Variables(); len(vars) != 0 {
		t.Fatalf("right operand was evaluated: trace saw %v", vars)
	}
}

// TestPropertyOrShortCircuits is TestPropertyAndShortCircuits's mirror
// for `||`: the right operand is never evaluated once the left
// operand is true.
func TestPropertyOrShortCircuits(t *testing.T) {
	node, err := ParseStrict("true || never")
	if err != nil {
		t.Fatal(err)
	}
	trace := NewTrace()
	v, err := node.Evaluate(NewVariableStore(map[string]Value{"never": NewNumber(1)}), trace)
	if err != nil {
		t.Fatal(err)
	}
	if v.BoolValue() != true {
		t.Fatalf("true || never = %v, want true", v)
	}
	if vars := trace.Variables(); len(vars) != 0 {
		t.Fatalf("right operand was evaluated: trace saw %v", vars)
	}
}

// TestPropertyAndDoesEvaluateRightWhenLeftTrue is the short-circuit
// tests' negative control: without a definite false/true on the left,
// the right operand must actually run, or the two tests above would
// be passing vacuously (for instance if && never evaluated its right
// side at all).
func TestPropertyAndDoesEvaluateRightWhenLeftTrue(t *testing.T) {
	node, err := ParseStrict("true && visited")
	if err != nil {
		t.Fatal(err)
	}
	trace := NewTrace()
	_, err = node.Evaluate(NewVariableStore(map[string]Value{"visited": NewBoolean(true)}), trace)
	if err != nil {
		t.Fatal(err)
	}
	if vars := trace.Variables(); len(vars) != 1 || vars[0] != "visited" {
		t.Fatalf("right operand was not evaluated: trace saw %v", vars)
	}
}

// roundTripValues covers every Value kind the grammar can actually
// express as a literal; Range and Undefined have no literal syntax
// and are exercised by the parser's own subscript/switch tests
// instead.
var roundTripValues = []Value{
	NewNumber(0),
	NewNumber(-17),
	NewNumber(3.5),
	NewString(""),
	NewString(`quote " and backslash \`),
	NewBoolean(true),
	NewBoolean(false),
	Null,
	NewArray([]Value{NewNumber(1), NewString("x"), NewBoolean(false)}),
	NewMap(map[string]Value{"a": NewNumber(1), "b": NewString("two")}),
}

// literalSource renders v the way a caller would have to type it back
// in, quoting top-level strings (ToString returns a String's text
// without quotes).
func literalSource(v Value) (string, error) {
	s, err := v.ToString()
	if err != nil {
		return "", err
	}
	if v.Kind() == KindString {
		return quoteString(s), nil
	}
	return s, nil
}

// TestPropertyValueRoundTripsThroughPrintAndParse checks spec property
// 9: parse(print(v)) evaluates back to a value equal to v, for every
// literal-representable kind.
func TestPropertyValueRoundTripsThroughPrintAndParse(t *testing.T) {
	for _, v := range roundTripValues {
		src, err := literalSource(v)
		if err != nil {
			t.Fatalf("ToString(%v): %v", v, err)
		}
		t.Run(src, func(t *testing.T) {
			node, err := ParseStrict(src)
			if err != nil {
				t.Fatalf("Parse(%q): %v", src, err)
			}
			got, err := node.Evaluate(emptyStore, nil)
			if err != nil {
				t.Fatalf("Evaluate(%q): %v", src, err)
			}
			if !got.Equals(v) {
				t.Fatalf("round trip of %v through %q produced %v", v, src, got)
			}
		})
	}
}

// TestPropertyPrecedenceMultiplicationBindsTighterThanAddition checks
// spec property 10 for the operator pair the construction-time
// rebalancing in NewBinary exists to get right.
func TestPropertyPrecedenceMultiplicationBindsTighterThanAddition(t *testing.T) {
	got := evalSrc(t, "2 + 3 * 4", nil)
	if got.NumberValue() != 14 {
		t.Fatalf("2 + 3 * 4 = %v, want 14 (* must bind before +)", got.NumberValue())
	}
}

// TestPropertyPrecedenceComparisonBindsLooserThanArithmetic checks
// spec property 10 for comparison operators against arithmetic ones.
func TestPropertyPrecedenceComparisonBindsLooserThanArithmetic(t *testing.T) {
	got := evalSrc(t, "1 + 1 == 2", nil)
	if got.BoolValue() != true {
		t.Fatalf("1 + 1 == 2 = %v, want true (+ must bind before ==)", got.BoolValue())
	}
}

// TestPropertyPrecedenceLogicalAndBindsTighterThanOr checks spec
// property 10 for && against ||: "false || true && false" must parse
// as "false || (true && false)", not "(false || true) && false".
func TestPropertyPrecedenceLogicalAndBindsTighterThanOr(t *testing.T) {
	got := evalSrc(t, "false || true && false", nil)
	if got.BoolValue() != false {
		t.Fatalf("false || true && false = %v, want false (&& must bind before ||)", got.BoolValue())
	}
}

// TestPropertyExplicitParenthesesOverridePrecedence is property 10's
// complement: a parenthesized group's precedence can never be
// rotated across by NewBinary's rebalancing (spec §8 S4).
func TestPropertyExplicitParenthesesOverridePrecedence(t *testing.T) {
	got := evalSrc(t, "(2 + 3) * 4", nil)
	if got.NumberValue() != 20 {
		t.Fatalf("(2 + 3) * 4 = %v, want 20", got.NumberValue())
	}
}
