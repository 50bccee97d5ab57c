package tmpl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/tdict/literal"
	"github.com/ardnew/tdict/pkg"
	"github.com/ardnew/tdict/registry"
)

// evaluator implements the semantics of one operator.
type evaluator interface {
	eval(s *state, n *Node) (any, error)
}

// evaluators is indexed by Op.
var evaluators = [opCount]evaluator{
	OpSelect: selectOp{},
	OpFormat: formatOp{},
	OpExec:   execOp{},
}

// state is the per-call evaluation context.
type state struct {
	ctx  context.Context
	tmpl *Template
	data any
}

// evalNode evaluates n and attaches its position to the innermost error.
func (s *state) evalNode(n *Node) (any, error) {
	v, err := evaluators[n.Op].eval(s, n)
	if err == nil {
		return v, nil
	}

	if e, ok := err.(*pkg.Error); ok {
		if _, has := e.Attr("expr"); !has {
			return nil, e.With(
				slog.String("op", n.Op.String()),
				slog.Int("offset", n.Offset),
				slog.String("expr", n.String()),
			)
		}
	}

	return nil, err
}

// text concatenates parts, stringifying expression values.
func (s *state) text(parts []part) (string, error) {
	var sb strings.Builder

	for _, p := range parts {
		if p.node == nil {
			sb.WriteString(p.text)

			continue
		}

		v, err := s.evalNode(p.node)
		if err != nil {
			return "", err
		}

		sb.WriteString(literal.Format(v))
	}

	return sb.String(), nil
}

// value evaluates a: the native value of a lone expression, otherwise the
// concatenated text.
func (s *state) value(a arg) (any, error) {
	if node := a.single(); node != nil {
		return s.evalNode(node)
	}

	return s.text(a.parts)
}

type selectOp struct{}

func (selectOp) eval(s *state, n *Node) (any, error) {
	path := n.path

	if n.dynamic {
		vals, err := s.nodeTexts(n.args[0].parts)
		if err != nil {
			return nil, err
		}

		path = pathOf(n.args[0].parts, vals)
	}

	var def func() (any, error)
	if n.def != nil {
		def = func() (any, error) { return s.fallback(n.def) }
	}

	return resolve(s.data, path, keyDelim, def)
}

// nodeTexts evaluates the expressions among parts in order.
func (s *state) nodeTexts(parts []part) ([]string, error) {
	var vals []string

	for _, p := range parts {
		if p.node == nil {
			continue
		}

		v, err := s.evalNode(p.node)
		if err != nil {
			return nil, err
		}

		vals = append(vals, literal.Format(v))
	}

	return vals, nil
}

func (s *state) fallback(f *fallback) (any, error) {
	if f.dynamic != nil {
		return s.value(*f.dynamic)
	}

	return clone(f.value), nil
}

type formatOp struct{}

func (formatOp) eval(s *state, n *Node) (any, error) {
	out := make([]string, len(n.formats))

	for i, pieces := range n.formats {
		var sb strings.Builder

		for _, p := range pieces {
			switch {
			case p.node != nil:
				v, err := s.evalNode(p.node)
				if err != nil {
					return nil, err
				}

				sb.WriteString(literal.Format(v))

			case p.key != nil:
				v, err := s.placeholder(p)
				if err != nil {
					return nil, err
				}

				sb.WriteString(literal.Format(v))

			default:
				sb.WriteString(p.text)
			}
		}

		out[i] = sb.String()
	}

	return strings.Join(out, joinDelim), nil
}

func (s *state) placeholder(p formatPiece) (any, error) {
	var def func() (any, error)
	if fb := s.tmpl.cfg.formatFallback; fb != nil {
		def = func() (any, error) { return *fb, nil }
	}

	// A path crossing a scalar has no flattened key either.
	v, err := resolve(s.data, p.key, flatDelim, def)
	if errors.Is(err, ErrKeyNotFound) || errors.Is(err, ErrInvalidPath) {
		if def != nil {
			return def()
		}

		return nil, ErrMissingFormatKey.With(slog.String("placeholder", p.name))
	}

	return v, err
}

type execOp struct{}

func (execOp) eval(s *state, n *Node) (any, error) {
	name, err := s.text(n.args[0].parts)
	if err != nil {
		return nil, err
	}

	args := make([]any, len(n.execs))

	for i, ea := range n.execs {
		switch {
		case ea.err != nil:
			return nil, ea.err
		case ea.expr != nil:
			v, err := s.value(*ea.expr)
			if err != nil {
				return nil, err
			}

			args[i] = v
		default:
			args[i] = clone(ea.value)
		}
	}

	f, ok := s.tmpl.cfg.functions.Lookup(name)
	if !ok {
		return nil, s.unknownFunction(name)
	}

	s.tmpl.cfg.logger.TraceContext(s.ctx, "call function",
		slog.String("function", name),
		slog.Int("args", len(args)),
	)

	return invoke(name, f, args)
}

// suggester is implemented by function tables that can rank names.
type suggester interface {
	Suggest(pattern string) []string
}

const maxSuggestions = 3

func (s *state) unknownFunction(name string) error {
	err := ErrUnknownFunction.With(slog.String("function", name))

	if sg, ok := s.tmpl.cfg.functions.(suggester); ok {
		names := sg.Suggest(name)
		if len(names) > maxSuggestions {
			names = names[:maxSuggestions]
		}

		if len(names) > 0 {
			err = err.With(slog.String("suggest", strings.Join(names, ",")))
		}
	}

	return err
}

func invoke(name string, f registry.Func, args []any) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, ErrFunctionExecution.Wrap(fmt.Errorf("panic: %v", r)).
				With(slog.String("function", name))
		}
	}()

	v, err = f(args...)
	if err != nil {
		return nil, ErrFunctionExecution.Wrap(err).With(slog.String("function", name))
	}

	return v, nil
}
