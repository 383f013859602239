package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Styles used by the pretty handlers.
var (
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stringStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	numberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	trueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	falseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	durStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))

	levelStyle = map[slog.Level]lipgloss.Style{
		slog.LevelError:        lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		slog.LevelWarn:         lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		slog.LevelInfo:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		slog.LevelDebug:        lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		slog.Level(LevelTrace): lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
)

// styleLevel returns the style of the nearest named level at or below l.
func styleLevel(l slog.Level) lipgloss.Style {
	for _, named := range []slog.Level{
		slog.LevelError,
		slog.LevelWarn,
		slog.LevelInfo,
		slog.LevelDebug,
	} {
		if l >= named {
			return levelStyle[named]
		}
	}

	return levelStyle[slog.Level(LevelTrace)]
}

// prettyBase holds the state shared by both pretty handlers: options, the
// output writer and its lock, plus attributes and groups accumulated through
// WithAttrs and WithGroup.
type prettyBase struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

func (h prettyBase) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

// qualify prefixes key with the open groups.
func (h prettyBase) qualify(key string) string {
	if len(h.groups) == 0 {
		return key
	}

	return strings.Join(h.groups, ".") + "." + key
}

// header returns the built-in time, level, source and message attributes
// after ReplaceAttr has been applied.
func (h prettyBase) header(r slog.Record) []slog.Attr {
	head := make([]slog.Attr, 0, 4)

	if !r.Time.IsZero() {
		head = append(head, slog.Time(slog.TimeKey, r.Time))
	}

	head = append(head, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			head = append(head, slog.String(
				slog.SourceKey,
				src.File+":"+strconv.Itoa(src.Line),
			))
		}
	}

	head = append(head, slog.String(slog.MessageKey, r.Message))

	if h.opts.ReplaceAttr == nil {
		return head
	}

	out := head[:0]

	for _, a := range head {
		a = h.opts.ReplaceAttr(nil, a)
		if !a.Equal(slog.Attr{}) {
			out = append(out, a)
		}
	}

	return out
}

// body returns the handler's accumulated attributes followed by the
// record's own, with group prefixes applied to the record attributes.
func (h prettyBase) body(r slog.Record) []slog.Attr {
	body := slices.Clone(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		a.Key = h.qualify(a.Key)
		body = append(body, a)

		return true
	})

	return body
}

func (h prettyBase) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	qualified := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		a.Key = h.qualify(a.Key)
		qualified[i] = a
	}

	h.attrs = append(slices.Clip(h.attrs), qualified...)

	return h
}

func (h prettyBase) withGroup(name string) prettyBase {
	if name != "" {
		h.groups = append(slices.Clip(h.groups), name)
	}

	return h
}

// prettyTextHandler writes one colorized key=value line per record.
type prettyTextHandler struct{ prettyBase }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{prettyBase{opts: *opts, mu: &sync.Mutex{}, w: w}}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range append(h.header(r), h.body(r)...) {
		writeTextAttr(buf, a)
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

func writeTextAttr(buf *bytes.Buffer, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			if a.Key != "" {
				ga.Key = a.Key + "." + ga.Key
			}

			writeTextAttr(buf, ga)
		}

		return
	}

	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	buf.WriteString(keyStyle.Render(a.Key))
	buf.WriteByte('=')
	buf.WriteString(renderValue(a.Value))
}

// renderValue renders a resolved, non-group value with its style.
func renderValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return stringStyle.Render(v.String())

	case slog.KindInt64:
		return numberStyle.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return numberStyle.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return numberStyle.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return trueStyle.Render("true")
		}

		return falseStyle.Render("false")

	case slog.KindDuration:
		return durStyle.Render(v.Duration().String())

	case slog.KindTime:
		return timeStyle.Render(v.Time().Format(time.RFC3339))

	default:
		if level, ok := v.Any().(slog.Level); ok {
			return styleLevel(level).Render(strings.ToUpper(Level(level).String()))
		}

		return stringStyle.Render(fmt.Sprint(v.Any()))
	}
}

// prettyJSONHandler writes each record as an indented JSON object whose keys
// and scalar values are colorized.
type prettyJSONHandler struct{ prettyBase }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{prettyBase{opts: *opts, mu: &sync.Mutex{}, w: w}}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{")
	writeJSONAttrs(buf, append(h.header(r), h.body(r)...), 1)
	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

func writeJSONAttrs(buf *bytes.Buffer, attrs []slog.Attr, depth int) {
	indent := strings.Repeat("  ", depth)

	for i, a := range attrs {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString("\n" + indent)
		buf.WriteString(keyStyle.Render(strconv.Quote(a.Key)))
		buf.WriteString(": ")

		v := a.Value.Resolve()
		if v.Kind() == slog.KindGroup {
			buf.WriteString("{")
			writeJSONAttrs(buf, v.Group(), depth+1)
			buf.WriteString("\n" + indent + "}")

			continue
		}

		buf.WriteString(renderJSONValue(v))
	}
}

func renderJSONValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return stringStyle.Render(strconv.Quote(v.String()))

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64, slog.KindBool:
		return renderValue(v)

	case slog.KindDuration, slog.KindTime:
		return stringStyle.Render(strconv.Quote(v.String()))

	default:
		if level, ok := v.Any().(slog.Level); ok {
			return styleLevel(level).Render(
				strconv.Quote(strings.ToUpper(Level(level).String())),
			)
		}

		if err, ok := v.Any().(error); ok {
			return stringStyle.Render(strconv.Quote(err.Error()))
		}

		data, err := json.Marshal(v.Any())
		if err != nil {
			return stringStyle.Render(strconv.Quote(fmt.Sprint(v.Any())))
		}

		return stringStyle.Render(string(data))
	}
}
