package tmpl

import (
	"log/slog"
	"strings"
)

// DefaultMaxDepth is the default bound on expression nesting.
const DefaultMaxDepth = 100

// fallback is the compiled default of a SELECT expression.
type fallback struct {
	value   any
	dynamic *arg
}

// execArg is a compiled EXEC argument after the function name.
type execArg struct {
	value any
	err   error
	expr  *arg
}

// formatPiece is one run of a FORMAT argument: literal text, a
// placeholder, or a nested expression.
type formatPiece struct {
	text string
	name string
	key  []string
	node *Node
}

// parse compiles the text between one pair of brackets. offset is the
// position of the opening bracket.
func (c *compiler) parse(raw string, offset, depth int) (*Node, error) {
	if depth > c.cfg.maxDepth {
		return nil, ErrMaxDepthExceeded.With(
			slog.Int("depth", c.cfg.maxDepth),
			slog.Int("offset", offset),
			slog.String("source", raw),
		)
	}

	n := &Node{Op: DefaultOp, Offset: offset, Source: raw}
	body, bodyOffset := raw, offset+1

	if len(raw) > 0 && raw[0] == opSign {
		op, ok := Op(0), false
		if len(raw) >= 3 && raw[2] == argDelim {
			op, ok = opForTag(raw[1])
		}

		if !ok {
			return nil, syntaxError(errTag, raw, offset)
		}

		n.Op = op
		body, bodyOffset = raw[3:], bodyOffset+3
	}

	segs := splitTop(body, bodyOffset)

	var err error

	switch n.Op {
	case OpSelect:
		err = c.parseSelect(n, body, bodyOffset, segs, depth)
	case OpFormat:
		err = c.parseFormat(n, segs, depth)
	case OpExec:
		err = c.parseExec(n, segs, depth)
	}

	if err != nil {
		return nil, err
	}

	return n, nil
}

// parseArg scans one segment into an argument, parsing nested spans.
func (c *compiler) parseArg(seg segment, depth int) (arg, error) {
	a := arg{raw: seg.text}

	for frag, err := range Scan(seg.text) {
		if err != nil {
			return arg{}, err
		}

		switch frag.Kind {
		case FragmentText:
			a.parts = append(a.parts, part{text: frag.Text})

		case FragmentEscaped:
			a.parts = append(a.parts, part{text: frag.Text, escaped: true})

		case FragmentSpan:
			node, err := c.parse(frag.Text, seg.offset+frag.Offset, depth+1)
			if err != nil {
				return arg{}, err
			}

			a.parts = append(a.parts, part{node: node})
		}
	}

	return a, nil
}

func (c *compiler) parseSelect(
	n *Node,
	body string,
	bodyOffset int,
	segs []segment,
	depth int,
) error {
	path, err := c.parseArg(segs[0], depth)
	if err != nil {
		return err
	}

	if len(path.parts) == 0 {
		return syntaxError(errEmptyPath, n.Source, n.Offset)
	}

	n.args = []arg{path}

	if _, ok := path.static(); ok {
		n.path = pathOf(path.parts, nil)
	} else {
		n.dynamic = true
	}

	if len(segs) == 1 {
		return nil
	}

	// The default is everything after the first separator.
	rest := segs[1].offset - bodyOffset
	def, err := c.parseArg(segment{text: body[rest:], offset: segs[1].offset}, depth)
	if err != nil {
		return err
	}

	n.args = append(n.args, def)
	n.def = c.fallbackOf(def)

	return nil
}

// fallbackOf compiles a SELECT default. Literal text that does not parse as
// a literal stands for itself.
func (c *compiler) fallbackOf(def arg) *fallback {
	text, static := def.static()

	switch {
	case !static:
		return &fallback{dynamic: &def}

	case def.literal():
		if v, err := c.cfg.literals.Parse(text); err == nil {
			return &fallback{value: v}
		}

		return &fallback{value: text}

	default:
		return &fallback{value: text}
	}
}

func (c *compiler) parseExec(n *Node, segs []segment, depth int) error {
	name, err := c.parseArg(segs[0], depth)
	if err != nil {
		return err
	}

	if s, ok := name.static(); ok && strings.TrimSpace(s) == "" {
		return syntaxError(errNoFunction, n.Source, n.Offset)
	}

	n.args = []arg{name}

	for _, seg := range segs[1:] {
		a, err := c.parseArg(seg, depth)
		if err != nil {
			return err
		}

		n.args = append(n.args, a)
		n.execs = append(n.execs, c.execArgOf(a))
	}

	return nil
}

func (c *compiler) execArgOf(a arg) execArg {
	text, static := a.static()

	switch {
	case !static:
		return execArg{expr: &a}

	case a.literal():
		v, err := c.cfg.literals.Parse(text)
		if err != nil {
			return execArg{err: ErrLiteralSyntax.Wrap(err).With(
				slog.String("source", text),
			)}
		}

		return execArg{value: v}

	default:
		return execArg{value: text}
	}
}

func (c *compiler) parseFormat(n *Node, segs []segment, depth int) error {
	for _, seg := range segs {
		a, err := c.parseArg(seg, depth)
		if err != nil {
			return err
		}

		pieces, err := formatPieces(a, seg)
		if err != nil {
			return err
		}

		n.args = append(n.args, a)
		n.formats = append(n.formats, pieces)
	}

	return nil
}

// formatPieces splits the unescaped text of a into literal runs and
// "{name}" placeholders. "{{" and "}}" stand for literal braces.
func formatPieces(a arg, seg segment) ([]formatPiece, error) {
	var pieces []formatPiece

	for _, p := range a.parts {
		switch {
		case p.node != nil:
			pieces = append(pieces, formatPiece{node: p.node})

		case p.escaped:
			pieces = append(pieces, formatPiece{text: p.text})

		default:
			placed, err := placeholders(p.text)
			if err != nil {
				return nil, syntaxError(err, seg.text, seg.offset)
			}

			pieces = append(pieces, placed...)
		}
	}

	return pieces, nil
}

func placeholders(s string) ([]formatPiece, error) {
	var (
		pieces []formatPiece
		text   strings.Builder
	)

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				text.WriteByte('{')
				i++

				continue
			}

			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				return nil, errPlaceholder
			}

			name := s[i+1 : i+1+end]
			if name == "" || strings.ContainsRune(name, '{') {
				return nil, errPlaceholder
			}

			if text.Len() > 0 {
				pieces = append(pieces, formatPiece{text: text.String()})
				text.Reset()
			}

			pieces = append(pieces, formatPiece{
				name: name,
				key:  strings.Split(name, flatDelim),
			})
			i += end + 1

		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				text.WriteByte('}')
				i++

				continue
			}

			return nil, errPlaceholder

		default:
			text.WriteByte(s[i])
		}
	}

	if text.Len() > 0 {
		pieces = append(pieces, formatPiece{text: text.String()})
	}

	return pieces, nil
}

// pathOf splits parts into key path segments. Unescaped text and the text
// of nested values (supplied in order by vals) split on "."; escaped text
// never splits.
func pathOf(parts []part, vals []string) []string {
	var (
		segs []string
		cur  strings.Builder
	)

	appendSplit := func(s string) {
		for i, piece := range strings.Split(s, keyDelim) {
			if i > 0 {
				segs = append(segs, cur.String())
				cur.Reset()
			}

			cur.WriteString(piece)
		}
	}

	next := 0

	for _, p := range parts {
		switch {
		case p.node != nil:
			if next < len(vals) {
				appendSplit(vals[next])
				next++
			}

		case p.escaped:
			cur.WriteString(p.text)

		default:
			appendSplit(p.text)
		}
	}

	return append(segs, cur.String())
}

// staticRoot returns the first complete path segment preceding any nested
// expression in parts, or "" if there is none.
func staticRoot(parts []part) string {
	for i, p := range parts {
		if p.node != nil {
			segs := pathOf(parts[:i], nil)

			return firstSegment(segs[:len(segs)-1])
		}
	}

	return firstSegment(pathOf(parts, nil))
}

func firstSegment(segs []string) string {
	for _, s := range segs {
		if s != "" {
			return s
		}
	}

	return ""
}
