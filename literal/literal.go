package literal

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"

	"github.com/ardnew/tdict/pkg"
)

// ErrSyntax is returned when text is not a well-formed literal.
var ErrSyntax = pkg.NewError("invalid literal")

// Parser parses literal text. The zero value is ready to use.
type Parser struct{}

// Default is the Parser used by [Parse].
var Default Parser

// Parse parses text as a literal with the [Default] parser.
func Parse(text string) (any, error) { return Default.Parse(text) }

// Parse returns the value denoted by text.
//
// Integers are returned as int64, floats as float64, lists as []any, and
// mappings as map[string]any. Surrounding whitespace is ignored.
func (Parser) Parse(text string) (any, error) {
	src := strings.TrimSpace(text)
	if src == "" {
		return nil, ErrSyntax.With(slog.String("source", text))
	}

	tree, err := parser.Parse(src)
	if err != nil {
		return nil, ErrSyntax.Wrap(err).With(slog.String("source", text))
	}

	v, err := value(tree.Node, []rune(src))
	if err != nil {
		return nil, ErrSyntax.Wrap(err).With(slog.String("source", text))
	}

	return v, nil
}

// nodeError reports a node outside the literal subset.
type nodeError struct {
	kind string
	node ast.Node
}

func (e nodeError) Error() string {
	return fmt.Sprintf("unsupported %s (%T)", e.kind, e.node)
}

func unsupported(kind string, n ast.Node) error {
	return nodeError{kind: kind, node: n}
}

// value converts n to a Go value. src is the parsed text, indexed by the
// rune offsets recorded in node locations.
func value(n ast.Node, src []rune) (any, error) {
	switch n := n.(type) {
	case *ast.NilNode:
		return nil, nil

	case *ast.BoolNode:
		return n.Value, nil

	case *ast.IntegerNode:
		return int64(n.Value), nil

	case *ast.FloatNode:
		return n.Value, nil

	case *ast.StringNode:
		return n.Value, nil

	case *ast.IdentifierNode:
		return constant(n)

	case *ast.UnaryNode:
		return signed(n)

	case *ast.ArrayNode:
		list := make([]any, 0, len(n.Nodes))

		for _, elem := range n.Nodes {
			v, err := value(elem, src)
			if err != nil {
				return nil, err
			}

			list = append(list, v)
		}

		return list, nil

	case *ast.MapNode:
		m := make(map[string]any, len(n.Pairs))

		for _, p := range n.Pairs {
			pair, ok := p.(*ast.PairNode)
			if !ok {
				return nil, unsupported("map entry", p)
			}

			key, ok := pair.Key.(*ast.StringNode)
			if !ok || numeric(pair.Key, src) {
				return nil, unsupported("map key", pair.Key)
			}

			v, err := value(pair.Value, src)
			if err != nil {
				return nil, err
			}

			m[key.Value] = v
		}

		return m, nil

	default:
		return nil, unsupported("expression", n)
	}
}

// numeric reports whether n was written as a number. The parser turns bare
// number keys into string nodes, so only the source tells them apart.
func numeric(n ast.Node, src []rune) bool {
	from := n.Location().From
	if from < 0 || from >= len(src) {
		return false
	}

	r := src[from]

	return r == '.' || ('0' <= r && r <= '9')
}

func constant(n *ast.IdentifierNode) (any, error) {
	switch n.Value {
	case "True", "true":
		return true, nil
	case "False", "false":
		return false, nil
	case "None", "null", "nil":
		return nil, nil
	default:
		return nil, unsupported("identifier "+n.Value, n)
	}
}

func signed(n *ast.UnaryNode) (any, error) {
	if n.Operator != "-" && n.Operator != "+" {
		return nil, unsupported("operator "+n.Operator, n)
	}

	neg := n.Operator == "-"

	switch operand := n.Node.(type) {
	case *ast.IntegerNode:
		if neg {
			return -int64(operand.Value), nil
		}

		return int64(operand.Value), nil

	case *ast.FloatNode:
		if neg {
			return -operand.Value, nil
		}

		return operand.Value, nil

	case *ast.UnaryNode:
		v, err := signed(operand)
		if err != nil || !neg {
			return v, err
		}

		switch v := v.(type) {
		case int64:
			return -v, nil
		case float64:
			return -v, nil
		}
	}

	return nil, unsupported("operand of "+n.Operator, n.Node)
}
