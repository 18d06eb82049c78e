package sources

import (
	"fmt"
	"strings"
)

// Example is a short list of one-line entries, suitable to pre-fill an
// input or to try the converter.
const Example = `deb http://archive.ubuntu.com/ubuntu jammy main restricted
deb [arch=amd64 signed-by=/usr/share/keyrings/example.gpg] https://example.com/debian stable main contrib
deb-src http://archive.ubuntu.com/ubuntu jammy main`

// Kind classifies the result of converting one line.
type Kind int

const (
	KindEntry Kind = iota
	KindComment
	KindUnparseable
)

func (k Kind) String() string {
	switch k {
	case KindEntry:
		return "entry"
	case KindComment:
		return "comment"
	case KindUnparseable:
		return "unparseable"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Result is the conversion of a single input line.
type Result struct {
	Kind Kind
	// Line is the trimmed input line.
	Line string
	// Entry is set for KindEntry results only.
	Entry *Entry
	// Fields are the fields rendered in Text, with Signed-By keys embedded.
	// Set for KindEntry results only.
	Fields []Field
	// Text is the output for this line. Entries end with a newline,
	// comments do not.
	Text string
}

// KeyEmbedder returns the ASCII-armored public key stored at a keyring path.
type KeyEmbedder interface {
	ArmoredKey(path string) ([]byte, error)
}

// Converter converts one-line entries to deb822 entries.
// The zero value is ready to use and performs a plain conversion.
type Converter struct {
	// Keys, if set, is used to replace Signed-By keyring paths by the
	// armored key they contain.
	Keys KeyEmbedder
	// Listener, if set, receives one event per converted line. It must be
	// safe for concurrent use if the Converter is shared.
	Listener Listener
}

// Convert converts a block of one-line entries into deb822 entries.
// It is safe for concurrent use and never fails: see Converter.Convert.
func Convert(text string) string {
	var c Converter
	return c.Convert(text)
}

// ConvertLines is like Convert but returns the per-line results.
func ConvertLines(text string) []Result {
	var c Converter
	return c.ConvertLines(text)
}

// SplitLines returns the trimmed, non-empty lines of text.
func SplitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(trimSpace(text), "\n") {
		line = trimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Convert converts a block of one-line entries into deb822 entries.
//
// Each non-empty line produces exactly one result, in input order:
// comments are normalized to "# text", valid entries are rendered as field
// blocks and any other line is replaced by an UnparseablePrefix comment.
// Results are joined with a newline, which leaves one blank line between
// consecutive entries.
func (c *Converter) Convert(text string) string {
	return Join(c.ConvertLines(text))
}

// Join concatenates the text of results the way Convert does.
func Join(results []Result) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = r.Text
	}
	return strings.Join(parts, "\n")
}

// ConvertLines converts text and returns one Result per non-empty line.
func (c *Converter) ConvertLines(text string) []Result {
	l := c.Listener
	if l == nil {
		l = func(fmt.Stringer) {}
	}

	lines := SplitLines(text)
	results := make([]Result, 0, len(lines))
	for _, line := range lines {
		r := c.convertLine(line, l)
		results = append(results, r)
	}
	return results
}

func (c *Converter) convertLine(line string, l Listener) Result {
	if strings.HasPrefix(line, "#") {
		l(EventCommentNormalized{Line: line})
		return Result{
			Kind: KindComment,
			Line: line,
			Text: "# " + trimSpace(line[1:]),
		}
	}

	entry, err := ParseLine(line)
	if err != nil {
		l(EventLineUnparseable{Line: line})
		return Result{
			Kind: KindUnparseable,
			Line: line,
			Text: UnparseablePrefix + line,
		}
	}

	fields := entry.Fields()
	if c.Keys != nil {
		c.embedKeys(fields, l)
	}
	var b strings.Builder
	writeFields(&b, fields)

	l(EventEntryConverted{
		Line:    line,
		Type:    string(entry.Type),
		URI:     entry.URI,
		Suite:   entry.Suite,
		Options: len(entry.Options),
	})
	return Result{
		Kind:   KindEntry,
		Line:   line,
		Entry:  entry,
		Fields: fields,
		Text:   b.String(),
	}
}

// embedKeys replaces Signed-By values that name a single absolute keyring
// path by the armored key. Paths that cannot be resolved are kept.
func (c *Converter) embedKeys(fields []Field, l Listener) {
	for i, f := range fields {
		if f.Name != FieldSignedBy || !isKeyringPath(f.Value) {
			continue
		}
		key, err := c.Keys.ArmoredKey(f.Value)
		if err != nil {
			l(EventKeyNotEmbedded{Path: f.Value, Error: err.Error()})
			continue
		}
		fields[i].Value = strings.TrimRight(string(key), "\n")
		l(EventKeyEmbedded{Path: f.Value, Size: len(key)})
	}
}

// isKeyringPath reports whether a Signed-By value is a single absolute path,
// as opposed to a list of paths or fingerprints.
func isKeyringPath(v string) bool {
	return strings.HasPrefix(v, "/") && !strings.ContainsAny(v, ", \t")
}
