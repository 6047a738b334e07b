package el

// NodeKind discriminates the eight shapes an ExpressionNode can take
// (spec §4.2).
type NodeKind int

const (
	NodeLiteral NodeKind = iota
	NodeVariable
	NodeArray
	NodeMap
	NodeUnary
	NodeBinary
	NodeSubscript
	NodeSwitch
)

// UnaryOp is the operator of a NodeUnary node.
type UnaryOp int

const (
	OpPlus UnaryOp = iota
	OpNegate
	OpNot
	OpBitwiseNot
	// OpGroup wraps a parenthesized subexpression. It is a no-op at
	// evaluation time; its only purpose is to report maxPrecedence
	// (nodePrecedence treats every non-NodeBinary node that way) so the
	// NewBinary rotation below can never reach past explicit parens.
	OpGroup
)

// BinaryOp is the operator of a NodeBinary node. Its precedence, used
// by the tree-rebalancing constructor below, is given by precedenceOf.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpShl
	OpShr
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpBitAnd
	OpBitXor
	OpBitOr
	OpAnd
	OpOr
	OpRange
	OpCase
)

// maxPrecedence is the precedence assigned to any node that is not
// itself a NodeBinary: such a node can never be the lower-precedence
// side of a rotation.
const maxPrecedence = 13

func precedenceOf(op BinaryOp) int {
	switch op {
	case OpMul, OpDiv, OpMod:
		return 12
	case OpAdd, OpSub:
		return 11
	case OpShl, OpShr:
		return 10
	case OpLt, OpLe, OpGt, OpGe:
		return 9
	case OpEq, OpNe:
		return 8
	case OpBitAnd:
		return 7
	case OpBitXor:
		return 6
	case OpBitOr:
		return 5
	case OpAnd:
		return 4
	case OpOr:
		return 3
	case OpRange:
		return 2
	case OpCase:
		return 1
	default:
		return maxPrecedence
	}
}

// MapEntry is one key/value pair of a NodeMap literal.
type MapEntry struct {
	Key   string
	Value *ExpressionNode
}

// ExpressionNode is an immutable node of a parsed expression tree. It
// is a closed variant over NodeKind; only the fields relevant to Kind
// are populated.
type ExpressionNode struct {
	kind NodeKind
	loc  Location

	literal Value  // NodeLiteral
	varName string // NodeVariable

	elements   []*ExpressionNode // NodeArray
	mapEntries []MapEntry        // NodeMap

	unaryOp UnaryOp         // NodeUnary
	operand *ExpressionNode // NodeUnary

	binaryOp    BinaryOp        // NodeBinary
	left, right *ExpressionNode // NodeBinary

	subscriptee *ExpressionNode   // NodeSubscript
	subscripts  []*ExpressionNode // NodeSubscript

	cases []*ExpressionNode // NodeSwitch
}

// Kind reports which of the eight node shapes n is.
func (n *ExpressionNode) Kind() NodeKind { return n.kind }

// Location reports the source position n was parsed from.
func (n *ExpressionNode) Location() Location { return n.loc }

func nodePrecedence(n *ExpressionNode) int {
	if n.kind != NodeBinary {
		return maxPrecedence
	}
	return precedenceOf(n.binaryOp)
}

// NewLiteral builds a node that always evaluates to v.
func NewLiteral(v Value, loc Location) *ExpressionNode {
	return &ExpressionNode{kind: NodeLiteral, literal: v, loc: loc}
}

// NewVariable builds a node that looks up name in the evaluation store.
func NewVariable(name string, loc Location) *ExpressionNode {
	return &ExpressionNode{kind: NodeVariable, varName: name, loc: loc}
}

// NewArrayNode builds an array literal from already-parsed elements.
func NewArrayNode(elements []*ExpressionNode, loc Location) *ExpressionNode {
	return &ExpressionNode{kind: NodeArray, elements: elements, loc: loc}
}

// NewMapNode builds a map literal from already-parsed entries.
func NewMapNode(entries []MapEntry, loc Location) *ExpressionNode {
	return &ExpressionNode{kind: NodeMap, mapEntries: entries, loc: loc}
}

// NewUnary builds a unary operator node.
func NewUnary(op UnaryOp, operand *ExpressionNode, loc Location) *ExpressionNode {
	return &ExpressionNode{kind: NodeUnary, unaryOp: op, operand: operand, loc: loc}
}

// NewSubscriptNode builds a subscript node over subscriptee.
func NewSubscriptNode(subscriptee *ExpressionNode, subscripts []*ExpressionNode, loc Location) *ExpressionNode {
	return &ExpressionNode{kind: NodeSubscript, subscriptee: subscriptee, subscripts: subscripts, loc: loc}
}

// NewSwitchNode builds a switch node from its ordered case expressions.
// Each case is typically itself a NewBinary(OpCase, cond, result) node,
// with a final bare expression acting as the default.
func NewSwitchNode(cases []*ExpressionNode, loc Location) *ExpressionNode {
	return &ExpressionNode{kind: NodeSwitch, cases: cases, loc: loc}
}

// NewBinary builds a binary operator node, rebalancing the tree so that
// no node's precedence exceeds that of either binary child (spec
// §4.2). The parser calls this for every operator it consumes, left to
// right, without needing a separate precedence-climbing pass: whatever
// shape falls out of naive left-to-right construction is corrected
// here.
//
// When op binds tighter than the lower-precedence of left/right, that
// side (necessarily itself a NodeBinary, since only binary nodes have
// precedence below maxPrecedence) is rotated to the top: its far
// subtree trades places with the node being built, op sinks down to
// combine with it, and the result is rebuilt recursively in case the
// rotation itself produced a new violation.
func NewBinary(op BinaryOp, left, right *ExpressionNode, loc Location) *ExpressionNode {
	p := precedenceOf(op)
	pl := nodePrecedence(left)
	pr := nodePrecedence(right)

	if p <= pl && p <= pr {
		return &ExpressionNode{kind: NodeBinary, binaryOp: op, left: left, right: right, loc: loc}
	}

	if pl <= pr {
		// left is (or ties as) the lower-precedence side: it becomes the
		// new root, its right subtree sinks to combine with op and right.
		inner := NewBinary(op, left.right, right, loc)
		return NewBinary(left.binaryOp, left.left, inner, left.loc)
	}

	// right is the lower-precedence side, mirrored.
	inner := NewBinary(op, left, right.left, loc)
	return NewBinary(right.binaryOp, inner, right.right, right.loc)
}

// Evaluate computes n's value against store, recording variable
// lookups into trace if non-nil. Evaluation is pure: it never mutates
// n and has no side effects beyond trace recording.
func (n *ExpressionNode) Evaluate(store VariableStore, trace *Trace) (Value, error) {
	switch n.kind {
	case NodeLiteral:
		return n.literal.WithLocation(n.loc), nil

	case NodeVariable:
		v := store.Lookup(n.varName)
		trace.record(n.varName, v, n.loc)
		return v, nil

	case NodeArray:
		items := make([]Value, len(n.elements))
		for i, e := range n.elements {
			v, err := e.Evaluate(store, trace)
			if err != nil {
				return Undefined, err
			}
			items[i] = v
		}
		return NewArray(items).WithLocation(n.loc), nil

	case NodeMap:
		entries := make(map[string]Value, len(n.mapEntries))
		for _, e := range n.mapEntries {
			v, err := e.Value.Evaluate(store, trace)
			if err != nil {
				return Undefined, err
			}
			entries[e.Key] = v
		}
		return NewMap(entries).WithLocation(n.loc), nil

	case NodeUnary:
		v, err := n.operand.Evaluate(store, trace)
		if err != nil {
			return Undefined, err
		}
		return evalUnary(n.unaryOp, v)

	case NodeBinary:
		return n.evalBinary(store, trace)

	case NodeSubscript:
		return n.evalSubscript(store, trace)

	case NodeSwitch:
		for _, c := range n.cases {
			v, err := c.Evaluate(store, trace)
			if err != nil {
				return Undefined, err
			}
			if !v.IsUndefined() {
				return v, nil
			}
		}
		return Undefined, nil

	default:
		return Undefined, newEvalError(ErrInvalidOperands, "unknown node kind")
	}
}

func evalUnary(op UnaryOp, v Value) (Value, error) {
	if op == OpGroup {
		return v, nil
	}
	if v.IsUndefined() {
		// Arithmetic propagates Undefined rather than erroring, matching
		// this implementation's resolution of the switch/case interaction
		// spec.md leaves open (see DESIGN.md).
		return Undefined, nil
	}
	switch op {
	case OpPlus:
		return v.Plus()
	case OpNegate:
		return v.Negate()
	case OpNot:
		return v.Not()
	case OpBitwiseNot:
		return v.BitwiseNot()
	default:
		return Undefined, newEvalError(ErrInvalidOperands, "unknown unary operator")
	}
}

func (n *ExpressionNode) evalBinary(store VariableStore, trace *Trace) (Value, error) {
	left, err := n.left.Evaluate(store, trace)
	if err != nil {
		return Undefined, err
	}

	switch n.binaryOp {
	case OpAnd:
		lb, err := left.ToBoolean()
		if err != nil {
			return Undefined, err
		}
		if !lb {
			return NewBoolean(false), nil
		}
		right, err := n.right.Evaluate(store, trace)
		if err != nil {
			return Undefined, err
		}
		rb, err := right.ToBoolean()
		if err != nil {
			return Undefined, err
		}
		return NewBoolean(rb), nil

	case OpOr:
		lb, err := left.ToBoolean()
		if err != nil {
			return Undefined, err
		}
		if lb {
			return NewBoolean(true), nil
		}
		right, err := n.right.Evaluate(store, trace)
		if err != nil {
			return Undefined, err
		}
		rb, err := right.ToBoolean()
		if err != nil {
			return Undefined, err
		}
		return NewBoolean(rb), nil

	case OpCase:
		lb, err := left.ToBoolean()
		if err != nil {
			return Undefined, err
		}
		if !lb {
			return Undefined, nil
		}
		return n.right.Evaluate(store, trace)

	case OpEq:
		right, err := n.right.Evaluate(store, trace)
		if err != nil {
			return Undefined, err
		}
		return NewBoolean(left.Equals(right)), nil

	case OpNe:
		right, err := n.right.Evaluate(store, trace)
		if err != nil {
			return Undefined, err
		}
		return NewBoolean(!left.Equals(right)), nil

	case OpLt, OpLe, OpGt, OpGe:
		right, err := n.right.Evaluate(store, trace)
		if err != nil {
			return Undefined, err
		}
		return evalComparison(n.binaryOp, left, right)

	case OpRange:
		right, err := n.right.Evaluate(store, trace)
		if err != nil {
			return Undefined, err
		}
		from, err := left.toInteger()
		if err != nil {
			return Undefined, err
		}
		to, err := right.toInteger()
		if err != nil {
			return Undefined, err
		}
		return NewRange(int(from), int(to)), nil

	default:
		right, err := n.right.Evaluate(store, trace)
		if err != nil {
			return Undefined, err
		}
		if left.IsUndefined() || right.IsUndefined() {
			return Undefined, nil
		}
		switch n.binaryOp {
		case OpAdd:
			return left.Add(right)
		case OpSub:
			return left.Sub(right)
		case OpMul:
			return left.Mul(right)
		case OpDiv:
			return left.Div(right)
		case OpMod:
			return left.Mod(right)
		case OpShl:
			return left.ShiftLeft(right)
		case OpShr:
			return left.ShiftRight(right)
		case OpBitAnd:
			return left.BitAnd(right)
		case OpBitXor:
			return left.BitXor(right)
		case OpBitOr:
			return left.BitOr(right)
		default:
			return Undefined, newEvalError(ErrInvalidOperands, "unknown binary operator")
		}
	}
}

func evalComparison(op BinaryOp, left, right Value) (Value, error) {
	cmp, ordered := left.Compare(right)
	if !ordered {
		return Undefined, newEvalError(ErrInvalidOperands, "%s and %s are not ordered", left.Kind(), right.Kind())
	}
	switch op {
	case OpLt:
		return NewBoolean(cmp < 0), nil
	case OpLe:
		return NewBoolean(cmp <= 0), nil
	case OpGt:
		return NewBoolean(cmp > 0), nil
	default:
		return NewBoolean(cmp >= 0), nil
	}
}

// evalSubscript evaluates n.subscriptee and then each of n.subscripts
// against a store extended with __AutoRangeParameter bound to
// length-1, so that open-ended ranges like arr[2..] resolve (spec
// §4.1). A single plain index returns that element directly; any
// subscript item that is (or evaluates to) a Range, or the presence of
// more than one item, wraps the result in an Array.
func (n *ExpressionNode) evalSubscript(store VariableStore, trace *Trace) (Value, error) {
	base, err := n.subscriptee.Evaluate(store, trace)
	if err != nil {
		return Undefined, err
	}
	length, lenErr := base.Length()
	if lenErr != nil {
		length = 0
	}
	subStore := store.With(autoRangeParameter, NewNumber(float64(length-1)))

	results := make([]Value, 0, len(n.subscripts))
	wrap := len(n.subscripts) != 1

	for _, sub := range n.subscripts {
		key, err := sub.Evaluate(subStore, trace)
		if err != nil {
			return Undefined, err
		}
		if key.Kind() == KindRange {
			wrap = true
			for _, i := range key.RangeValue().Values() {
				v, err := base.Index(NewNumber(float64(i)))
				if err != nil {
					return Undefined, err
				}
				results = append(results, v)
			}
			continue
		}
		v, err := base.Index(key)
		if err != nil {
			return Undefined, err
		}
		results = append(results, v)
	}

	if !wrap {
		if len(results) == 0 {
			return Undefined, nil
		}
		return results[0], nil
	}
	return NewArray(results), nil
}

// Optimize returns a tree equivalent to n under every variable store
// (evaluate(e, s) == evaluate(optimize(e), s) for all s) with constant
// subtrees folded to literals. It never evaluates against a non-empty
// store and never changes observable behavior (spec §4.2).
func (n *ExpressionNode) Optimize() *ExpressionNode {
	switch n.kind {
	case NodeLiteral, NodeVariable:
		return n

	case NodeArray:
		elems := make([]*ExpressionNode, len(n.elements))
		allLiteral := true
		for i, e := range n.elements {
			oe := e.Optimize()
			elems[i] = oe
			if oe.kind != NodeLiteral {
				allLiteral = false
			}
		}
		node := &ExpressionNode{kind: NodeArray, elements: elems, loc: n.loc}
		if allLiteral {
			return foldToLiteral(node)
		}
		return node

	case NodeMap:
		entries := make([]MapEntry, len(n.mapEntries))
		allLiteral := true
		for i, e := range n.mapEntries {
			ov := e.Value.Optimize()
			entries[i] = MapEntry{Key: e.Key, Value: ov}
			if ov.kind != NodeLiteral {
				allLiteral = false
			}
		}
		node := &ExpressionNode{kind: NodeMap, mapEntries: entries, loc: n.loc}
		if allLiteral {
			return foldToLiteral(node)
		}
		return node

	case NodeUnary:
		operand := n.operand.Optimize()
		node := &ExpressionNode{kind: NodeUnary, unaryOp: n.unaryOp, operand: operand, loc: n.loc}
		if operand.kind == NodeLiteral {
			return foldToLiteral(node)
		}
		return node

	case NodeBinary:
		left := n.left.Optimize()
		right := n.right.Optimize()
		node := &ExpressionNode{kind: NodeBinary, binaryOp: n.binaryOp, left: left, right: right, loc: n.loc}
		if left.kind == NodeLiteral && right.kind == NodeLiteral {
			return foldToLiteral(node)
		}
		return node

	case NodeSubscript:
		subscriptee := n.subscriptee.Optimize()
		subs := make([]*ExpressionNode, len(n.subscripts))
		allLiteral := subscriptee.kind == NodeLiteral
		for i, s := range n.subscripts {
			os := s.Optimize()
			subs[i] = os
			if os.kind != NodeLiteral {
				allLiteral = false
			}
		}
		node := &ExpressionNode{kind: NodeSubscript, subscriptee: subscriptee, subscripts: subs, loc: n.loc}
		if allLiteral {
			return foldToLiteral(node)
		}
		return node

	case NodeSwitch:
		return n.optimizeSwitch()

	default:
		return n
	}
}

// optimizeSwitch drops leading cases that are already known to
// evaluate to Undefined (they can never match), and collapses the
// whole switch to a literal the moment it finds a literal case that is
// not Undefined — since every case before it has already been proven
// to never match. Once a non-literal case is reached, the remaining
// cases are kept (individually optimized) and the collapse stops: a
// later case's outcome can no longer be proven at compile time.
func (n *ExpressionNode) optimizeSwitch() *ExpressionNode {
	kept := make([]*ExpressionNode, 0, len(n.cases))
	provable := true

	for _, c := range n.cases {
		oc := c.Optimize()
		if provable && oc.kind == NodeLiteral {
			if oc.literal.IsUndefined() {
				continue
			}
			return oc
		}
		provable = false
		kept = append(kept, oc)
	}

	if len(kept) == 0 {
		return NewLiteral(Undefined, n.loc)
	}
	return &ExpressionNode{kind: NodeSwitch, cases: kept, loc: n.loc}
}

func foldToLiteral(node *ExpressionNode) *ExpressionNode {
	v, err := node.Evaluate(emptyStore, nil)
	if err != nil {
		// The same error would occur at every future evaluation of this
		// fully-literal subtree regardless of store; leaving it unfolded
		// preserves that rather than surfacing it here.
		return node
	}
	return NewLiteral(v, node.loc)
}
