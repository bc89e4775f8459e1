package slogobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"
)

const timeLayout = "2006-01-02 15:04:05"

const (
	ansiReset  = "\033[0m"
	ansiGray   = "\033[90m"
	ansiBlue   = "\033[34m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
)

// HandlerOptions configures a [Handler].
type HandlerOptions struct {
	// Format is the output format. Defaults to FormatCompact.
	Format Format
	// Level is the minimum level written.
	Level slog.Level
	// Output defaults to os.Stderr.
	Output io.Writer
	// Colors enables ANSI colors for the compact and pretty formats.
	// When false, colors are still used if Output is a terminal.
	Colors bool
}

// field is an attribute flattened to its dotted key.
type field struct {
	key   string
	value any
}

// Handler is a slog.Handler writing compact, pretty or JSON records.
// Handlers derived through WithAttrs and WithGroup share the output lock.
type Handler struct {
	format Format
	level  slog.Level
	output io.Writer
	colors bool

	mu     *sync.Mutex
	json   slog.Handler
	prefix string
	fields []field
}

// NewHandler creates a Handler. A nil opts uses the defaults.
func NewHandler(opts *HandlerOptions) *Handler {
	var o HandlerOptions
	if opts != nil {
		o = *opts
	}
	if o.Output == nil {
		o.Output = os.Stderr
	}
	if o.Format == "" {
		o.Format = FormatCompact
	}

	h := &Handler{
		format: o.Format,
		level:  o.Level,
		output: o.Output,
		mu:     &sync.Mutex{},
	}

	if o.Format == FormatJSON {
		h.json = slog.NewJSONHandler(o.Output, &slog.HandlerOptions{Level: o.Level})
		return h
	}

	h.colors = o.Colors
	if f, ok := o.Output.(*os.File); ok && !h.colors {
		h.colors = isTerminal(f)
	}
	return h
}

// Enabled reports whether records at level are written.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// WithAttrs returns a Handler that adds attrs to every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := h.clone()
	if next.json != nil {
		next.json = next.json.WithAttrs(attrs)
		return next
	}
	for _, attr := range attrs {
		next.fields = appendField(next.fields, next.prefix, attr)
	}
	return next
}

// WithGroup returns a Handler that qualifies later attribute keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	if next.json != nil {
		next.json = next.json.WithGroup(name)
		return next
	}
	next.prefix += name + "."
	return next
}

// Handle writes r.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if h.json != nil {
		return h.json.Handle(ctx, r)
	}

	fields := make([]field, len(h.fields), len(h.fields)+r.NumAttrs())
	copy(fields, h.fields)
	r.Attrs(func(attr slog.Attr) bool {
		fields = appendField(fields, h.prefix, attr)
		return true
	})

	var buf bytes.Buffer
	if h.format == FormatPretty {
		h.writePretty(&buf, r, fields)
	} else {
		h.writeCompact(&buf, r, fields)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.output.Write(buf.Bytes())
	return err
}

func (h *Handler) clone() *Handler {
	next := *h
	next.fields = append([]field(nil), h.fields...)
	return &next
}

// writeCompact renders: 2026-01-02 15:04:05 INFO  message -> {"k":"v"}
func (h *Handler) writeCompact(buf *bytes.Buffer, r slog.Record, fields []field) {
	if !r.Time.IsZero() {
		buf.WriteString(h.paint(ansiGray, r.Time.Format(timeLayout)))
		buf.WriteByte(' ')
	}
	buf.WriteString(h.paint(levelColor(r.Level), fmt.Sprintf("%-5s", LevelString(r.Level))))
	buf.WriteByte(' ')
	buf.WriteString(r.Message)

	if len(fields) > 0 {
		buf.WriteString(h.paint(ansiGray, " -> "))
		writeObject(buf, fields)
	}
	buf.WriteByte('\n')
}

// writePretty renders the header line followed by one indented line per field.
func (h *Handler) writePretty(buf *bytes.Buffer, r slog.Record, fields []field) {
	if !r.Time.IsZero() {
		buf.WriteString(h.paint(ansiGray, "["+r.Time.Format(timeLayout)+"]"))
		buf.WriteByte(' ')
	}
	buf.WriteString(h.paint(levelColor(r.Level), fmt.Sprintf("%-5s", LevelString(r.Level))))
	buf.WriteString(" | ")
	buf.WriteString(r.Message)
	buf.WriteByte('\n')

	for _, f := range fields {
		fmt.Fprintf(buf, "    %s = %v\n", h.paint(ansiBlue, f.key), f.value)
	}
}

func (h *Handler) paint(color, s string) string {
	if !h.colors || color == "" {
		return s
	}
	return color + s + ansiReset
}

// writeObject writes fields as a JSON object, keeping their order.
func writeObject(buf *bytes.Buffer, fields []field) {
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(f.key)
		buf.Write(key)
		buf.WriteByte(':')

		value, err := json.Marshal(f.value)
		if err != nil {
			value, _ = json.Marshal(fmt.Sprint(f.value))
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
}

// appendField flattens attr into fields, expanding groups into dotted keys.
func appendField(fields []field, prefix string, attr slog.Attr) []field {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return fields
	}

	if attr.Value.Kind() == slog.KindGroup {
		group := attr.Value.Group()
		if attr.Key != "" {
			prefix += attr.Key + "."
		}
		for _, inner := range group {
			fields = appendField(fields, prefix, inner)
		}
		return fields
	}

	return append(fields, field{key: prefix + attr.Key, value: fieldValue(attr.Value)})
}

func fieldValue(v slog.Value) any {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindBool:
		return v.Bool()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().Format(time.RFC3339)
	}

	switch val := v.Any().(type) {
	case error:
		return val.Error()
	case fmt.Stringer:
		return val.String()
	default:
		return val
	}
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return ansiRed
	case level >= slog.LevelWarn:
		return ansiYellow
	case level >= slog.LevelInfo:
		return ansiBlue
	default:
		return ansiGray
	}
}

// isTerminal reports whether f is a character device.
func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
