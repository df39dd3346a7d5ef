package tmuxfmt

import "strings"

// Node is an immutable tmux filter-expression AST node. Rendering is a pure
// recursive function producing tmux's prefix-notation filter syntax:
// variables as "#{name}", constants verbatim, binary operators as
// "#{op:left,right}".
type Node interface {
	Render() string
}

type variableNode struct{ v FormatVariable }

func (n variableNode) Render() string { return n.v.Format() }

// Var builds a reference to a tmux format variable, e.g. "#{session_id}".
func Var(v FormatVariable) Node { return variableNode{v: v} }

type constNode struct{ value string }

func (n constNode) Render() string { return n.value }

// Const builds a constant string node. Constants are assumed safe —
// callers pass only ids and names, never untrusted input — because filter
// strings are always the value of tmux's -f flag and are never interpolated
// into a shell.
func Const(value string) Node { return constNode{value: value} }

type relOp string

const (
	OpEq  relOp = "=="
	OpNeq relOp = "!="
	OpLt  relOp = "<"
	OpGt  relOp = ">"
	OpLte relOp = "<="
	OpGte relOp = ">="
)

type relationalNode struct {
	op          relOp
	left, right Node
}

func (n relationalNode) Render() string {
	return "#{" + string(n.op) + ":" + n.left.Render() + "," + n.right.Render() + "}"
}

func Eq(left, right Node) Node  { return relationalNode{op: OpEq, left: left, right: right} }
func Neq(left, right Node) Node { return relationalNode{op: OpNeq, left: left, right: right} }
func Lt(left, right Node) Node  { return relationalNode{op: OpLt, left: left, right: right} }
func Gt(left, right Node) Node  { return relationalNode{op: OpGt, left: left, right: right} }
func Lte(left, right Node) Node { return relationalNode{op: OpLte, left: left, right: right} }
func Gte(left, right Node) Node { return relationalNode{op: OpGte, left: left, right: right} }

type logOp string

const (
	OpAnd logOp = "&&"
	OpOr  logOp = "||"
)

type logicalNode struct {
	op          logOp
	left, right Node
}

func (n logicalNode) Render() string {
	return "#{" + string(n.op) + ":" + n.left.Render() + "," + n.right.Render() + "}"
}

func And(left, right Node) Node { return logicalNode{op: OpAnd, left: left, right: right} }
func Or(left, right Node) Node  { return logicalNode{op: OpOr, left: left, right: right} }

// trueLiteral is emitted by Any when given zero nodes, matching tmux's own
// "always true" filter literal.
type trueLiteral struct{}

func (trueLiteral) Render() string { return "1" }

// Any folds nodes with || right-associatively. Zero nodes degenerates to the
// literal "1" (always true); one node degenerates to that node unchanged.
func Any(nodes ...Node) Node {
	switch len(nodes) {
	case 0:
		return trueLiteral{}
	case 1:
		return nodes[0]
	default:
		return Or(nodes[0], Any(nodes[1:]...))
	}
}

// Builder provides a fluent construction surface mirroring the source's
// closure-based builder ("TmuxFilterAstBuilder::build(|b| ...)"): callers
// pass a function that receives a Builder and returns the root Node.
type Builder struct{}

func (Builder) Var(v FormatVariable) Node     { return Var(v) }
func (Builder) Const(value string) Node       { return Const(value) }
func (Builder) Eq(l, r Node) Node             { return Eq(l, r) }
func (Builder) Neq(l, r Node) Node            { return Neq(l, r) }
func (Builder) Lt(l, r Node) Node             { return Lt(l, r) }
func (Builder) Gt(l, r Node) Node             { return Gt(l, r) }
func (Builder) Lte(l, r Node) Node            { return Lte(l, r) }
func (Builder) Gte(l, r Node) Node            { return Gte(l, r) }
func (Builder) And(l, r Node) Node            { return And(l, r) }
func (Builder) Or(l, r Node) Node             { return Or(l, r) }
func (Builder) Any(nodes ...Node) Node        { return Any(nodes...) }

// Build invokes fn with a Builder and returns the resulting root Node.
func Build(fn func(Builder) Node) Node {
	return fn(Builder{})
}

// Render is a package-level convenience equal to node.Render(), kept for
// readability at call sites that already hold a Node.
func Render(n Node) string { return n.Render() }

// EscapeConstant guards against constants that would otherwise introduce
// unescaped braces into the rendered filter; callers pass ids and names so
// this is a defensive trim rather than a general escaper.
func EscapeConstant(value string) string {
	return strings.NewReplacer("{", "", "}", "").Replace(value)
}
