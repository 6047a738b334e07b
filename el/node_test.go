package el

import "testing"

func loc() Location { return Location{} }

func TestNewBinaryRebalancesPrecedence(t *testing.T) {
	// simulates left-to-right construction of "2 + 3 * 4": the '+' is
	// built first since it's encountered first, then '*' combines with
	// the accumulated result and must rotate to bind tighter than '+'.
	two := NewLiteral(NewNumber(2), loc())
	three := NewLiteral(NewNumber(3), loc())
	four := NewLiteral(NewNumber(4), loc())

	sum := NewBinary(OpAdd, two, three, loc())
	root := NewBinary(OpMul, sum, four, loc())

	if root.kind != NodeBinary || root.binaryOp != OpAdd {
		t.Fatalf("root op = %v, want OpAdd", root.binaryOp)
	}
	if root.left.kind != NodeLiteral || root.left.literal.NumberValue() != 2 {
		t.Fatalf("root.left = %v, want literal 2", root.left)
	}
	mulNode := root.right
	if mulNode.kind != NodeBinary || mulNode.binaryOp != OpMul {
		t.Fatalf("root.right op = %v, want OpMul", mulNode.binaryOp)
	}

	v, err := root.Evaluate(emptyStore, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v.NumberValue() != 14 {
		t.Fatalf("got %v, want 14", v.NumberValue())
	}
}

func TestNewBinaryHeapInvariantHolds(t *testing.T) {
	// build "1 - 2 + 3 * 4 - 5" left to right and confirm no binary
	// node's precedence exceeds either binary child's.
	nodes := []*ExpressionNode{
		NewLiteral(NewNumber(1), loc()),
		NewLiteral(NewNumber(2), loc()),
		NewLiteral(NewNumber(3), loc()),
		NewLiteral(NewNumber(4), loc()),
		NewLiteral(NewNumber(5), loc()),
	}
	ops := []BinaryOp{OpSub, OpAdd, OpMul, OpSub}

	acc := nodes[0]
	for i, op := range ops {
		acc = NewBinary(op, acc, nodes[i+1], loc())
	}

	var check func(n *ExpressionNode)
	check = func(n *ExpressionNode) {
		if n.kind != NodeBinary {
			return
		}
		p := precedenceOf(n.binaryOp)
		if p > nodePrecedence(n.left) || p > nodePrecedence(n.right) {
			t.Fatalf("heap violated at op %v: left=%v right=%v", n.binaryOp, nodePrecedence(n.left), nodePrecedence(n.right))
		}
		check(n.left)
		check(n.right)
	}
	check(acc)

	v, err := acc.Evaluate(emptyStore, nil)
	if err != nil {
		t.Fatal(err)
	}
	if v.NumberValue() != 6 { // ((1-2)+(3*4))-5 = 6
		t.Fatalf("got %v, want 6", v.NumberValue())
	}
}

func TestOptimizeFoldsConstantArithmetic(t *testing.T) {
	node := NewBinary(OpMul, NewLiteral(NewNumber(3), loc()), NewLiteral(NewNumber(4), loc()), loc())
	opt := node.Optimize()
	if opt.kind != NodeLiteral {
		t.Fatalf("got kind %v, want NodeLiteral", opt.kind)
	}
	if opt.literal.NumberValue() != 12 {
		t.Fatalf("got %v, want 12", opt.literal.NumberValue())
	}
}

func TestOptimizeDoesNotFoldVariables(t *testing.T) {
	node := NewBinary(OpAdd, NewVariable("x", loc()), NewLiteral(NewNumber(1), loc()), loc())
	opt := node.Optimize()
	if opt.kind != NodeBinary {
		t.Fatalf("got kind %v, want NodeBinary (unfoldable)", opt.kind)
	}

	for _, x := range []float64{1, 2, 3} {
		store := NewVariableStore(map[string]Value{"x": NewNumber(x)})
		want, err := node.Evaluate(store, nil)
		if err != nil {
			t.Fatal(err)
		}
		got, err := opt.Evaluate(store, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !want.Equals(got) {
			t.Fatalf("x=%v: want %v, got %v", x, want, got)
		}
	}
}

func TestOptimizeSwitchCollapsesToFirstDefiniteCase(t *testing.T) {
	cases := []*ExpressionNode{
		NewBinary(OpCase, NewLiteral(NewBoolean(false), loc()), NewLiteral(NewNumber(1), loc()), loc()),
		NewBinary(OpCase, NewLiteral(NewBoolean(true), loc()), NewLiteral(NewNumber(2), loc()), loc()),
		NewVariable("fallback", loc()),
	}
	node := NewSwitchNode(cases, loc())
	opt := node.Optimize()
	if opt.kind != NodeLiteral || opt.literal.NumberValue() != 2 {
		t.Fatalf("got %v, want literal 2", opt)
	}
}

func TestOptimizeSwitchKeepsDynamicCases(t *testing.T) {
	cases := []*ExpressionNode{
		NewBinary(OpCase, NewLiteral(NewBoolean(false), loc()), NewLiteral(NewNumber(1), loc()), loc()),
		NewBinary(OpCase, NewVariable("cond", loc()), NewLiteral(NewNumber(2), loc()), loc()),
		NewLiteral(NewNumber(3), loc()),
	}
	node := NewSwitchNode(cases, loc())
	opt := node.Optimize()
	if opt.kind != NodeSwitch {
		t.Fatalf("got kind %v, want NodeSwitch", opt.kind)
	}

	for _, cond := range []bool{true, false} {
		store := NewVariableStore(map[string]Value{"cond": NewBoolean(cond)})
		want, err := node.Evaluate(store, nil)
		if err != nil {
			t.Fatal(err)
		}
		got, err := opt.Evaluate(store, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !want.Equals(got) {
			t.Fatalf("cond=%v: want %v, got %v", cond, want, got)
		}
	}
}

func TestEvaluateSubscriptAutoRangeParameter(t *testing.T) {
	arr := NewArrayNode([]*ExpressionNode{
		NewLiteral(NewNumber(1), loc()),
		NewLiteral(NewNumber(2), loc()),
		NewLiteral(NewNumber(3), loc()),
	}, loc())
	sub := NewSubscriptNode(arr, []*ExpressionNode{
		NewBinary(OpRange, NewLiteral(NewNumber(1), loc()), NewVariable(autoRangeParameter, loc()), loc()),
	}, loc())
	v, err := sub.Evaluate(emptyStore, nil)
	if err != nil {
		t.Fatal(err)
	}
	s, _ := v.ToString()
	if s != "[2, 3]" {
		t.Fatalf("got %s, want [2, 3]", s)
	}
}

func TestTraceRecordsVariableLookups(t *testing.T) {
	node := NewBinary(OpAdd, NewVariable("a", loc()), NewVariable("b", loc()), loc())
	store := NewVariableStore(map[string]Value{"a": NewNumber(1), "b": NewNumber(2)})
	trace := NewTrace()
	if _, err := node.Evaluate(store, trace); err != nil {
		t.Fatal(err)
	}
	vars := trace.Variables()
	if len(vars) != 2 || vars[0] != "a" || vars[1] != "b" {
		t.Fatalf("got %v, want [a b]", vars)
	}
}
