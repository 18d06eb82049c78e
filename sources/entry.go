package sources

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrUnparseable is returned by ParseLine for lines that are not one-line
// source entries.
var ErrUnparseable = errors.New("unparseable source line")

// Whitespace is ASCII space and control whitespace, \v, the Unicode
// separators and the byte order mark.
const (
	space    = `[\s\v\p{Z}\x{FEFF}]`
	nonSpace = `[^\s\v\p{Z}\x{FEFF}]`
	// anything but a line terminator
	lineChar = `[^\n\r\x{2028}\x{2029}]`
)

// onelinePattern matches "type [options] uri suite components...".
// The bracket group must not be empty, and components is the verbatim
// remainder of the line.
var onelinePattern = regexp.MustCompile(`^(deb|deb-src)` + space + `+(?:\[([^\]]+)\]` + space + `+)?(` +
	nonSpace + `+)` + space + `+(` + nonSpace + `+)` + space + `+(` + lineChar + `+)$`)

// isSpace reports whether r is whitespace in the sense of onelinePattern.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\uFEFF':
		return true
	}
	return unicode.Is(unicode.Z, r)
}

// trimSpace is strings.TrimSpace with isSpace as the whitespace set.
func trimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// Option is a key=value pair from the bracketed part of a one-line entry.
type Option struct {
	Key   string
	Value string
}

// Field is a single line of a deb822 entry.
type Field struct {
	Name  FieldName
	Value string
}

// Entry is a parsed one-line source entry.
type Entry struct {
	Type Type
	// Options are kept in source order, duplicates included.
	Options []Option
	URI     string
	Suite   string
	// Components is the rest of the line after the suite. It is never split.
	Components string
}

// ParseLine parses a single trimmed one-line entry.
// It returns ErrUnparseable if the line does not have the expected shape.
// Malformed options (no '=', empty key or empty value) are dropped.
func ParseLine(line string) (*Entry, error) {
	m := onelinePattern.FindStringSubmatch(line)
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnparseable, line)
	}
	typ := Type(m[1])
	switch typ {
	case TypeDeb, TypeDebSrc:
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrUnparseable, typ)
	}
	return &Entry{
		Type:       typ,
		Options:    parseOptions(m[2]),
		URI:        m[3],
		Suite:      m[4],
		Components: m[5],
	}, nil
}

// parseOptions splits the interior of the bracket group into options.
func parseOptions(s string) []Option {
	var opts []Option
	for _, tok := range strings.FieldsFunc(s, isSpace) {
		key, value, ok := strings.Cut(tok, "=")
		if !ok || key == "" || value == "" {
			continue
		}
		opts = append(opts, Option{Key: key, Value: value})
	}
	return opts
}

// Fields returns the deb822 fields of the entry in output order: Types,
// URIs, Suites, Components, then one field per option.
func (e *Entry) Fields() []Field {
	fields := []Field{
		{Name: FieldTypes, Value: string(e.Type)},
		{Name: FieldURIs, Value: e.URI},
		{Name: FieldSuites, Value: e.Suite},
		{Name: FieldComponents, Value: e.Components},
	}
	for _, o := range e.Options {
		fields = append(fields, Field{Name: FieldNameFor(o.Key), Value: o.Value})
	}
	return fields
}

// WriteTo writes the deb822 rendering of the entry to w.
// Every field line, including the last one, ends with a newline.
func (e *Entry) WriteTo(w io.Writer) (int64, error) {
	return writeFields(w, e.Fields())
}

// String returns the deb822 rendering of the entry.
func (e *Entry) String() string {
	var b strings.Builder
	e.WriteTo(&b)
	return b.String()
}

// writeFields renders fields as deb822 lines.
// A multi-line value starts on the line after the field name, each line is
// indented by one space and empty lines are written as " .".
func writeFields(w io.Writer, fields []Field) (int64, error) {
	var total int64
	write := func(s string) error {
		n, err := io.WriteString(w, s)
		total += int64(n)
		return err
	}
	for _, f := range fields {
		if !strings.Contains(f.Value, "\n") {
			if err := write(string(f.Name) + ": " + f.Value + "\n"); err != nil {
				return total, err
			}
			continue
		}
		if err := write(string(f.Name) + ":\n"); err != nil {
			return total, err
		}
		for _, line := range strings.Split(f.Value, "\n") {
			if strings.TrimSpace(line) == "" {
				line = "."
			}
			if err := write(" " + line + "\n"); err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
