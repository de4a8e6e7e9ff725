package solid

// Opcode identifies the operation performed by a tree node.
type Opcode uint8

const (
	// OpConst is a constant value leaf.
	OpConst Opcode = iota
	// OpAxis is a coordinate variable leaf (X, Y or Z).
	OpAxis
	// OpOracle is a leaf evaluated by an externally supplied Oracle.
	OpOracle

	// Unary operations.
	OpNeg
	OpSquare
	OpSqrt
	OpAbs
	OpSin
	OpCos
	OpExp

	// Binary operations.
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMin
	OpMax
)

// node is a single operation in the expression graph. Nodes are
// immutable after construction and may be shared between trees, so the
// graph is a DAG. Cycles are impossible: every constructor only links to
// nodes that already exist.
type node struct {
	op Opcode

	// value is the constant for OpConst nodes.
	value float64

	// axis is 0, 1 or 2 for OpAxis nodes.
	axis int

	// clause manufactures evaluator-scoped Oracle instances for
	// OpOracle nodes. It must be stateless (see OracleClause).
	clause OracleClause

	lhs, rhs *node
}

// Tree is an immutable expression over the three spatial coordinates,
// denoting a scalar implicit function: negative inside the shape,
// positive outside, zero on the surface.
//
// Trees are cheap values wrapping a shared node graph. No operation
// mutates a tree; combinators and Remap always build new nodes.
type Tree struct {
	n *node
}

// X returns the tree denoting the X coordinate.
func X() Tree { return Tree{n: &node{op: OpAxis, axis: 0}} }

// Y returns the tree denoting the Y coordinate.
func Y() Tree { return Tree{n: &node{op: OpAxis, axis: 1}} }

// Z returns the tree denoting the Z coordinate.
func Z() Tree { return Tree{n: &node{op: OpAxis, axis: 2}} }

// Axis returns the coordinate variable for the given axis index
// (0=X, 1=Y, 2=Z).
func Axis(axis int) Tree {
	if axis < 0 || axis > 2 {
		panic("solid: axis index out of range")
	}
	return Tree{n: &node{op: OpAxis, axis: axis}}
}

// Const returns a constant-valued tree.
func Const(v float64) Tree { return Tree{n: &node{op: OpConst, value: v}} }

// NewOracleTree returns a leaf evaluated through the given clause's
// oracles. The clause may be shared between any number of trees and
// evaluation contexts.
func NewOracleTree(clause OracleClause) Tree {
	if clause == nil {
		panic("solid: nil OracleClause")
	}
	return Tree{n: &node{op: OpOracle, clause: clause}}
}

func unary(op Opcode, a Tree) Tree {
	return Tree{n: &node{op: op, lhs: a.n}}
}

func binary(op Opcode, a, b Tree) Tree {
	return Tree{n: &node{op: op, lhs: a.n, rhs: b.n}}
}

// Neg returns -a.
func Neg(a Tree) Tree { return unary(OpNeg, a) }

// Square returns a².
func Square(a Tree) Tree { return unary(OpSquare, a) }

// Sqrt returns √a.
func Sqrt(a Tree) Tree { return unary(OpSqrt, a) }

// Abs returns |a|.
func Abs(a Tree) Tree { return unary(OpAbs, a) }

// Sin returns sin(a).
func Sin(a Tree) Tree { return unary(OpSin, a) }

// Cos returns cos(a).
func Cos(a Tree) Tree { return unary(OpCos, a) }

// Exp returns e^a.
func Exp(a Tree) Tree { return unary(OpExp, a) }

// Add returns a + b.
func Add(a, b Tree) Tree { return binary(OpAdd, a, b) }

// Sub returns a - b.
func Sub(a, b Tree) Tree { return binary(OpSub, a, b) }

// Mul returns a * b.
func Mul(a, b Tree) Tree { return binary(OpMul, a, b) }

// Div returns a / b.
func Div(a, b Tree) Tree { return binary(OpDiv, a, b) }

// Min returns min(a, b). Min is the union operator for implicit solids.
func Min(a, b Tree) Tree { return binary(OpMin, a, b) }

// Max returns max(a, b). Max is the intersection operator for implicit
// solids; nested Max expressions are where sharp features come from.
func Max(a, b Tree) Tree { return binary(OpMax, a, b) }

// Remap returns a new tree with every coordinate leaf replaced by the
// corresponding replacement subtree: X leaves become xr, Y leaves yr and
// Z leaves zr. Constant and oracle leaves pass through unchanged, and
// the surrounding operator structure is preserved.
//
// The rebuild is memoized per node, so subtrees shared in the original
// remain shared in the result. Replacements may themselves contain
// oracle nodes; this is how oracles are substituted for native axes.
func (t Tree) Remap(xr, yr, zr Tree) Tree {
	memo := make(map[*node]*node)
	repl := [3]*node{xr.n, yr.n, zr.n}
	return Tree{n: remapNode(t.n, repl, memo)}
}

func remapNode(n *node, repl [3]*node, memo map[*node]*node) *node {
	if out, ok := memo[n]; ok {
		return out
	}
	var out *node
	switch n.op {
	case OpAxis:
		out = repl[n.axis]
	case OpConst, OpOracle:
		out = n
	default:
		out = &node{op: n.op, lhs: remapNode(n.lhs, repl, memo)}
		if n.rhs != nil {
			out.rhs = remapNode(n.rhs, repl, memo)
		}
	}
	memo[n] = out
	return out
}

// walk appends every node reachable from n to out in post-order
// (children before parents), visiting shared nodes once. The resulting
// order is deterministic for a given tree, which makes evaluation and
// meshing independent of scheduling.
func walk(n *node, seen map[*node]bool, out []*node) []*node {
	if n == nil || seen[n] {
		return out
	}
	seen[n] = true
	out = walk(n.lhs, seen, out)
	out = walk(n.rhs, seen, out)
	return append(out, n)
}
