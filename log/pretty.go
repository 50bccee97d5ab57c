package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used by the pretty handler.
type palette struct {
	time    lipgloss.Style
	key     lipgloss.Style
	str     lipgloss.Style
	num     lipgloss.Style
	literal lipgloss.Style
	source  lipgloss.Style
	punct   lipgloss.Style
	level   map[slog.Level]lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	style := func(color string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(color))
	}

	return palette{
		time:    style("8"),
		key:     style("6"),
		str:     style("2"),
		num:     style("3"),
		literal: style("5"),
		source:  style("8").Italic(true),
		punct:   style("7"),
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): style("13"),
			slog.LevelDebug:        style("12").Bold(true),
			slog.LevelInfo:         style("10").Bold(true),
			slog.LevelWarn:         style("11").Bold(true),
			slog.LevelError:        style("9").Bold(true),
		},
	}
}

func (p palette) levelStyle(level slog.Level) lipgloss.Style {
	switch {
	case level < slog.LevelDebug:
		return p.level[slog.Level(LevelTrace)]
	case level < slog.LevelInfo:
		return p.level[slog.LevelDebug]
	case level < slog.LevelWarn:
		return p.level[slog.LevelInfo]
	case level < slog.LevelError:
		return p.level[slog.LevelWarn]
	default:
		return p.level[slog.LevelError]
	}
}

// prettyHandler is a [slog.Handler] producing colorized text or JSON.
// Group names qualify attribute keys with a "." separator.
type prettyHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	format Format
	opts   *slog.HandlerOptions
	style  palette
	attrs  []slog.Attr
	group  string
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	opts *slog.HandlerOptions,
) *prettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	return &prettyHandler{
		mu:     &sync.Mutex{},
		out:    w,
		format: format,
		opts:   opts,
		style:  newPalette(w),
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	c.attrs = slices.Clone(h.attrs)

	for _, a := range attrs {
		c.attrs = append(c.attrs, qualify(h.group, a))
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.group = join(h.group, name)

	return &c
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	header := h.header(r)
	attrs := slices.Clone(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, qualify(h.group, a))

		return true
	})

	var buf bytes.Buffer

	switch h.format {
	case FormatJSON:
		h.writeJSON(&buf, header, attrs)
	default:
		h.writeText(&buf, header, attrs)
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.out.Write(buf.Bytes())

	return err
}

// header returns the built-in attributes of r after ReplaceAttr.
func (h *prettyHandler) header(r slog.Record) []slog.Attr {
	header := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		header = append(header, slog.Time(slog.TimeKey, r.Time))
	}

	header = append(header,
		slog.Any(slog.LevelKey, r.Level),
		slog.String(slog.MessageKey, r.Message),
	)

	if h.opts.AddSource && r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		frame, _ := frames.Next()
		header = append(header, slog.String(
			slog.SourceKey,
			frame.File+":"+strconv.Itoa(frame.Line),
		))
	}

	if h.opts.ReplaceAttr == nil {
		return header
	}

	out := header[:0]

	for _, a := range header {
		if a = h.opts.ReplaceAttr(nil, a); a.Key != "" {
			out = append(out, a)
		}
	}

	return out
}

func (h *prettyHandler) writeText(
	buf *bytes.Buffer,
	header, attrs []slog.Attr,
) {
	level := slog.LevelInfo

	for i, a := range header {
		if i > 0 {
			buf.WriteByte(' ')
		}

		switch a.Key {
		case slog.TimeKey:
			buf.WriteString(h.style.time.Render(textValue(a.Value)))
		case slog.LevelKey:
			name := textValue(a.Value)
			level = slog.Level(ParseLevel(name))
			buf.WriteString(
				h.style.levelStyle(level).Render(fmt.Sprintf("%-5s", name)),
			)
		case slog.MessageKey:
			buf.WriteString(a.Value.String())
		case slog.SourceKey:
			buf.WriteString(h.style.source.Render(textValue(a.Value)))
		}
	}

	for _, a := range flatten("", attrs) {
		buf.WriteByte(' ')
		buf.WriteString(h.style.key.Render(a.Key))
		buf.WriteString(h.style.punct.Render("="))
		buf.WriteString(h.renderValue(a.Value, textValue(a.Value)))
	}
}

func (h *prettyHandler) writeJSON(
	buf *bytes.Buffer,
	header, attrs []slog.Attr,
) {
	buf.WriteString(h.style.punct.Render("{"))

	for i, a := range append(header, flatten("", attrs)...) {
		if i > 0 {
			buf.WriteString(h.style.punct.Render(","))
		}

		buf.WriteString(h.style.key.Render(strconv.Quote(a.Key)))
		buf.WriteString(h.style.punct.Render(":"))

		if a.Key == slog.LevelKey {
			name := textValue(a.Value)
			buf.WriteString(h.style.levelStyle(
				slog.Level(ParseLevel(name)),
			).Render(strconv.Quote(name)))

			continue
		}

		buf.WriteString(h.renderValue(a.Value, jsonValue(a.Value)))
	}

	buf.WriteString(h.style.punct.Render("}"))
}

func (h *prettyHandler) renderValue(v slog.Value, text string) string {
	switch v.Kind() {
	case slog.KindString, slog.KindTime, slog.KindDuration:
		return h.style.str.Render(text)
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.style.num.Render(text)
	case slog.KindBool:
		return h.style.literal.Render(text)
	default:
		if v.Any() == nil {
			return h.style.literal.Render(text)
		}

		return h.style.str.Render(text)
	}
}

// flatten resolves attribute values and expands groups into dotted keys.
func flatten(prefix string, attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))

	for _, a := range attrs {
		a.Value = a.Value.Resolve()

		if a.Value.Kind() == slog.KindGroup {
			out = append(out, flatten(join(prefix, a.Key), a.Value.Group())...)

			continue
		}

		if a.Key == "" {
			continue
		}

		a.Key = join(prefix, a.Key)
		out = append(out, a)
	}

	return out
}

func qualify(group string, a slog.Attr) slog.Attr {
	if group != "" && a.Key != "" {
		a.Key = join(group, a.Key)
	}

	return a
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}

	if key == "" {
		return prefix
	}

	return prefix + "." + key
}

func textValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return quoteText(v.String())
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return quoteText(err.Error())
		}

		if v.Any() == nil {
			return "<nil>"
		}

		return quoteText(fmt.Sprint(v.Any()))
	default:
		return v.String()
	}
}

func quoteText(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}

	return s
}

func jsonValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return strconv.Quote(v.String())
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindBool:
		return v.String()
	case slog.KindTime:
		return strconv.Quote(v.Time().Format(time.RFC3339Nano))
	case slog.KindDuration:
		return strconv.Quote(v.Duration().String())
	default:
		if err, ok := v.Any().(error); ok {
			return strconv.Quote(err.Error())
		}

		data, err := json.Marshal(v.Any())
		if err != nil {
			return strconv.Quote(fmt.Sprint(v.Any()))
		}

		return string(data)
	}
}
