// Package el implements the expression language used to parameterize
// entity model and decal definitions: a small, pure, side-effect-free
// evaluator over JSON-like values with operator precedence,
// short-circuiting, ranges, subscripting and a first-defined switch.
//
// The three layers are:
//
//	Value           — the tagged value model (value.go)
//	ExpressionNode  — the immutable expression tree and its evaluator (node.go)
//	Parser          — tokenizer + recursive-descent parser (parser.go)
//
// A typical caller parses source text once and evaluates the resulting
// tree against as many variable stores as it likes:
//
//	node, err := el.ParseStrict(`{a: 1, b: 2}["b"]`)
//	if err != nil {
//		return err
//	}
//	result, err := node.Evaluate(el.NewVariableStore(nil), nil)
//
// Evaluation never mutates the tree and never has side effects; the
// same tree may be evaluated concurrently from multiple goroutines.
package el
