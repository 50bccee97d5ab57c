package tmpl

import (
	"strings"
)

// Op identifies the operator of an expression.
type Op uint8

const (
	OpSelect Op = iota // select a value by key path
	OpFormat           // format a string against flattened data
	OpExec             // call a registered function

	opCount
)

// DefaultOp applies when an expression carries no operator tag.
const DefaultOp = OpSelect

// String returns the operator name.
func (o Op) String() string {
	switch o {
	case OpSelect:
		return "select"
	case OpFormat:
		return "format"
	case OpExec:
		return "exec"
	default:
		return "unknown"
	}
}

// tag returns the letter that selects o in the "!<letter>:" prefix.
func (o Op) tag() byte {
	return "sfx"[o]
}

func opForTag(c byte) (Op, bool) {
	switch c {
	case 's':
		return OpSelect, true
	case 'f':
		return OpFormat, true
	case 'x':
		return OpExec, true
	default:
		return 0, false
	}
}

// Node is one compiled expression.
type Node struct {
	// Op is the operator applied on evaluation.
	Op Op
	// Offset is the byte offset of the opening bracket within the schema
	// string containing the expression.
	Offset int
	// Source is the text between the brackets.
	Source string

	args    []arg
	path    []string // static SELECT path
	dynamic bool     // SELECT path contains expressions
	def     *fallback
	execs   []execArg
	formats [][]formatPiece
}

// String returns the expression as written.
func (n *Node) String() string { return "[" + n.Source + "]" }

// Args returns the raw text of each argument. For SELECT the first
// argument is the key path and the second, if present, the default.
func (n *Node) Args() []string {
	out := make([]string, len(n.args))
	for i, a := range n.args {
		out[i] = a.raw
	}

	return out
}

// Nodes returns the expressions nested directly inside n, in order.
func (n *Node) Nodes() []*Node {
	var out []*Node

	for _, a := range n.args {
		for _, p := range a.parts {
			if p.node != nil {
				out = append(out, p.node)
			}
		}
	}

	return out
}

// visitKeys calls add with the top-level data key of every reference in n,
// in source order.
func (n *Node) visitKeys(add func(string)) {
	switch n.Op {
	case OpSelect:
		if n.dynamic {
			add(staticRoot(n.args[0].parts))
		} else {
			add(firstSegment(n.path))
		}

		for _, a := range n.args {
			a.visitKeys(add)
		}

	case OpFormat:
		for _, pieces := range n.formats {
			for _, p := range pieces {
				switch {
				case p.node != nil:
					p.node.visitKeys(add)
				case p.key != nil:
					add(firstSegment(p.key))
				}
			}
		}

	case OpExec:
		for _, a := range n.args {
			a.visitKeys(add)
		}
	}
}

// part is one fragment of a compiled argument or schema string.
type part struct {
	text    string
	escaped bool
	node    *Node
}

// arg is a compiled argument: an ordered list of parts.
type arg struct {
	raw   string
	parts []part
}

// static returns the concatenated text of a, if a contains no expressions.
func (a arg) static() (string, bool) {
	var sb strings.Builder

	for _, p := range a.parts {
		if p.node != nil {
			return "", false
		}

		sb.WriteString(p.text)
	}

	return sb.String(), true
}

// literal reports whether a is unescaped text only.
func (a arg) literal() bool {
	for _, p := range a.parts {
		if p.node != nil || p.escaped {
			return false
		}
	}

	return true
}

// escaped reports whether a is escaped text only.
func (a arg) escaped() bool {
	if len(a.parts) == 0 {
		return false
	}

	for _, p := range a.parts {
		if !p.escaped {
			return false
		}
	}

	return true
}

func (a arg) visitKeys(add func(string)) {
	for _, p := range a.parts {
		if p.node != nil {
			p.node.visitKeys(add)
		}
	}
}

// single returns the expression if a consists of exactly one.
func (a arg) single() *Node {
	if len(a.parts) == 1 {
		return a.parts[0].node
	}

	return nil
}
