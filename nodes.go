package exprcalc

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression.
type node struct {
	kind nodeKind
	// pos is the position of the token that produced the node: the literal,
	// the operator, or the function name.
	pos int

	num  float64
	text string // text literal contents or function name
	op   TokenKind

	left  *node
	right *node
	args  []*node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum    // num
	nodeText   // text
	nodeCall   // call text with args
	nodeUnary  // apply op to left
	nodeBinary // apply op to left and right
)

var nodeKindNames = [...]string{
	nodeNone:   "None",
	nodeNum:    "Num",
	nodeText:   "Text",
	nodeCall:   "Call",
	nodeUnary:  "Unary",
	nodeBinary: "Binary",
}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(nodeKindNames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeKindNames[k]
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

func (n *node) fmt(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b, !square)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b, !square)
		}
		b.WriteByte('$')
	case nodeNum:
		b.WriteString(strconv.FormatFloat(n.num, 'g', -1, 64))
	case nodeText:
		b.WriteByte('"')
		b.WriteString(n.text)
		b.WriteByte('"')
	case nodeCall:
		b.WriteString(n.text)
		n.fmtargs(b, !square)
	case nodeUnary:
		b.WriteString(n.op.String())
		n.left.fmt(b, !square)
	case nodeBinary:
		n.left.fmt(b, !square)
		b.WriteByte(' ')
		b.WriteString(n.op.String())
		b.WriteByte(' ')
		n.right.fmt(b, !square)
	default:
		panic("exprcalc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

func (n *node) fmtargs(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	for i, a := range n.args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.fmt(b, !square)
	}
}
