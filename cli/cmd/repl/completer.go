package repl

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-yaml"
	"github.com/sahilm/fuzzy"
)

// isWordBoundary reports whether r delimits a completion word. Expression
// brackets, separators, and operator marks are boundaries. Hyphens are not,
// since data keys may contain them (e.g., user-name).
func isWordBoundary(r rune) bool {
	switch r {
	case '[', ']', ':', '.', '!', '{', '}', '`', ',', ' ', '\t':
		return true
	}

	return false
}

// wordBounds returns the word at the cursor and its byte boundaries within
// input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// openExpr returns the text between the innermost unclosed bracket before
// pos and pos itself. Escaped regions are skipped.
func openExpr(input string, pos int) (inner string, ok bool) {
	var (
		opens   []int
		escaped bool
	)

	for i := 0; i < pos && i < len(input); i++ {
		switch c := input[i]; {
		case c == '`':
			escaped = !escaped
		case escaped:
		case c == '[':
			opens = append(opens, i)
		case c == ']' && len(opens) > 0:
			opens = opens[:len(opens)-1]
		}
	}

	if escaped || len(opens) == 0 {
		return "", false
	}

	return input[opens[len(opens)-1]+1 : pos], true
}

// candidates returns the completion candidates for the word starting at
// wordStart. Commands complete after a leading ':', function names after
// "[!x:", and data keys inside a key path.
func (s *session) candidates(input string, wordStart int) []string {
	if strings.HasPrefix(input, commandPrefix) {
		if wordStart == len(commandPrefix) {
			return commands
		}

		return nil
	}

	inner, ok := openExpr(input, wordStart)
	if !ok {
		return nil
	}

	if rest, ok := strings.CutPrefix(inner, "!x:"); ok {
		if rest == "" {
			return s.funcs.Names()
		}

		return nil
	}

	inner = strings.TrimPrefix(inner, "!s:")

	if strings.ContainsAny(inner, "!:`") {
		return nil
	}

	if inner == "" {
		return dataKeys(s.data, nil)
	}

	parent, ok := strings.CutSuffix(inner, ".")
	if !ok {
		return nil
	}

	return dataKeys(s.data, strings.Split(parent, "."))
}

// dataKeys returns the mapping keys found at path inside data. A sequence
// along the path contributes the keys of all of its elements.
func dataKeys(data any, path []string) []string {
	if len(path) > 0 {
		var next []any

		for _, v := range fanOut(data) {
			if child, ok := childOf(v, path[0]); ok {
				next = append(next, child)
			}
		}

		if len(next) == 0 {
			return nil
		}

		return dataKeys(next, path[1:])
	}

	var keys []string

	for _, v := range fanOut(data) {
		for _, k := range keysOf(v) {
			if !slices.Contains(keys, k) {
				keys = append(keys, k)
			}
		}
	}

	return keys
}

// fanOut flattens nested sequences into their elements.
func fanOut(v any) []any {
	seq, ok := v.([]any)
	if !ok {
		return []any{v}
	}

	var out []any
	for _, e := range seq {
		out = append(out, fanOut(e)...)
	}

	return out
}

func childOf(v any, key string) (any, bool) {
	switch m := v.(type) {
	case yaml.MapSlice:
		for _, item := range m {
			if k, ok := item.Key.(string); ok && k == key {
				return item.Value, true
			}
		}
	case map[string]any:
		child, ok := m[key]

		return child, ok
	}

	return nil, false
}

func keysOf(v any) []string {
	switch m := v.(type) {
	case yaml.MapSlice:
		keys := make([]string, 0, len(m))
		for _, item := range m {
			if k, ok := item.Key.(string); ok {
				keys = append(keys, k)
			}
		}

		return keys
	case map[string]any:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}

		slices.Sort(keys)

		return keys
	}

	return nil
}

// computeMatches calculates the fuzzy matches for the word at the cursor.
// An empty word right after a boundary lists every candidate so the user can
// browse; an empty line shows none, leaving room for the hint.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	candidates := m.sess.candidates(input, wordStart)
	if len(candidates) == 0 {
		return nil, wordStart, wordEnd
	}

	if word == "" {
		if wordStart == 0 {
			return nil, wordStart, wordEnd
		}

		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within width. The selected candidate (when tabbing) uses the selected
// style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		last := i == len(matches)-1

		if i > 0 && used+entryWidth+ellipsisWidth > width && !(last && used+entryWidth <= width) {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders one candidate with its matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
