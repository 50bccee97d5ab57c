package tmpl

import (
	"iter"
	"log/slog"
	"strings"
)

const (
	openBracket  = '['
	closeBracket = ']'
	escapeQuote  = '`'
	argDelim     = ':'
	keyDelim     = "."
	flatDelim    = "-"
	joinDelim    = ","
	opSign       = '!'
)

// FragmentKind classifies a [Fragment].
type FragmentKind uint8

const (
	FragmentText    FragmentKind = iota // literal text
	FragmentEscaped                     // text from an escape region
	FragmentSpan                        // bracketed expression
)

func (k FragmentKind) String() string {
	switch k {
	case FragmentText:
		return "text"
	case FragmentEscaped:
		return "escaped"
	case FragmentSpan:
		return "span"
	default:
		return "unknown"
	}
}

// Fragment is one run of a scanned string.
type Fragment struct {
	Kind FragmentKind
	// Text is the literal text with escape quotes removed, or for a span the
	// raw text between its brackets.
	Text string
	// Offset is the byte offset of the fragment within the scanned string.
	Offset int
}

// Scan splits s into literal text, escaped text, and expression spans.
//
// The sequence stops after the first error, which is always [ErrSyntax].
func Scan(s string) iter.Seq2[Fragment, error] {
	return func(yield func(Fragment, error) bool) {
		var (
			text  strings.Builder
			start int
		)

		flush := func(end int) bool {
			if text.Len() == 0 {
				start = end

				return true
			}

			frag := Fragment{Kind: FragmentText, Text: text.String(), Offset: start}
			text.Reset()
			start = end

			return yield(frag, nil)
		}

		for i := 0; i < len(s); {
			switch s[i] {
			case escapeQuote:
				if i+1 < len(s) && s[i+1] == escapeQuote {
					if text.Len() == 0 {
						start = i
					}

					text.WriteByte(escapeQuote)
					i += 2

					continue
				}

				body, end, ok := escapeRegion(s, i)
				if !ok {
					yield(Fragment{}, syntaxError(errUnterminated, s, i))

					return
				}

				if !flush(i) || !yield(Fragment{Kind: FragmentEscaped, Text: body, Offset: i}, nil) {
					return
				}

				i, start = end, end

			case openBracket:
				end, err := matchBracket(s, i)
				if err != nil {
					yield(Fragment{}, err)

					return
				}

				if !flush(i) || !yield(Fragment{Kind: FragmentSpan, Text: s[i+1 : end], Offset: i}, nil) {
					return
				}

				i, start = end+1, end+1

			case closeBracket:
				yield(Fragment{}, syntaxError(errUnbalanced, s, i))

				return

			default:
				if text.Len() == 0 {
					start = i
				}

				text.WriteByte(s[i])
				i++
			}
		}

		flush(len(s))
	}
}

// escapeRegion decodes the escape region opening at s[i]. It returns the
// decoded text and the index just past the closing quote.
func escapeRegion(s string, i int) (string, int, bool) {
	var sb strings.Builder

	for j := i + 1; j < len(s); j++ {
		if s[j] != escapeQuote {
			sb.WriteByte(s[j])

			continue
		}

		if j+1 < len(s) && s[j+1] == escapeQuote {
			sb.WriteByte(escapeQuote)
			j++

			continue
		}

		return sb.String(), j + 1, true
	}

	return "", len(s), false
}

// skipEscape returns the index just past the escape construct at s[i]: a
// doubled quote or a whole region.
func skipEscape(s string, i int) (int, bool) {
	if i+1 < len(s) && s[i+1] == escapeQuote {
		return i + 2, true
	}

	_, end, ok := escapeRegion(s, i)

	return end, ok
}

// matchBracket returns the index of the bracket closing the one at s[i].
func matchBracket(s string, i int) (int, error) {
	depth := 0

	for j := i; j < len(s); {
		switch s[j] {
		case escapeQuote:
			end, ok := skipEscape(s, j)
			if !ok {
				return 0, syntaxError(errUnterminated, s, j)
			}

			j = end

			continue

		case openBracket:
			depth++

		case closeBracket:
			depth--
			if depth == 0 {
				return j, nil
			}
		}

		j++
	}

	return 0, syntaxError(errUnbalanced, s, i)
}

// segment is a slice of a span body between top-level separators.
type segment struct {
	text   string
	offset int
}

// splitTop splits s on argDelim occurring at bracket depth zero outside
// escape regions. s must already be balanced.
func splitTop(s string, offset int) []segment {
	var (
		segs  []segment
		depth int
		start int
	)

	for j := 0; j < len(s); {
		switch s[j] {
		case escapeQuote:
			end, _ := skipEscape(s, j)
			j = end

			continue

		case openBracket:
			depth++

		case closeBracket:
			depth--

		case argDelim:
			if depth == 0 {
				segs = append(segs, segment{text: s[start:j], offset: offset + start})
				start = j + 1
			}
		}

		j++
	}

	return append(segs, segment{text: s[start:], offset: offset + start})
}

func syntaxError(cause error, source string, offset int) error {
	return ErrSyntax.Wrap(cause).With(
		slog.Int("offset", offset),
		slog.String("source", source),
	)
}
