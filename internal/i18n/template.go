package i18n

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// MissingArgError is returned when a template references a placeholder
// that the caller did not supply.
type MissingArgError struct {
	Key    string // message key, empty when rendering a bare Template
	Locale string // locale the message was resolved in
	Name   string // placeholder name without the $
}

func (e *MissingArgError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("i18n: missing value for placeholder {$%s}", e.Name)
	}
	return fmt.Sprintf("i18n: message %q (%s): missing value for placeholder {$%s}", e.Key, e.Locale, e.Name)
}

type segment struct {
	text string
	arg  string // set for placeholders, text is empty then
}

// Template is a parsed message value: literal text interleaved with {$name}
// placeholders. Templates are immutable once parsed.
type Template struct {
	raw      string
	segments []segment
	args     []string
}

// ParseTemplate parses a message value.
//
// A placeholder is `{$name}`, optionally padded with spaces as in `{ $name }`.
// Names follow the key rules: a letter, then letters, digits, '-' or '_'.
// A '{' that does not open a placeholder is literal text; an unterminated
// placeholder or an empty name is an error.
func ParseTemplate(s string) (*Template, error) {
	t := &Template{raw: s}

	var lit strings.Builder
	rest := s
	for {
		i := strings.IndexByte(rest, '{')
		if i < 0 {
			lit.WriteString(rest)
			break
		}
		lit.WriteString(rest[:i])

		inner := strings.TrimLeft(rest[i+1:], " ")
		if !strings.HasPrefix(inner, "$") {
			lit.WriteByte('{')
			rest = rest[i+1:]
			continue
		}

		end := strings.IndexByte(inner, '}')
		if end < 0 {
			return nil, fmt.Errorf("unterminated placeholder in %q", s)
		}
		name := strings.TrimSpace(inner[1:end])
		if !validIdentifier(name) {
			return nil, fmt.Errorf("invalid placeholder name %q in %q", name, s)
		}

		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{text: lit.String()})
			lit.Reset()
		}
		t.segments = append(t.segments, segment{arg: name})
		if !slices.Contains(t.args, name) {
			t.args = append(t.args, name)
		}
		rest = inner[end+1:]
	}
	if lit.Len() > 0 {
		t.segments = append(t.segments, segment{text: lit.String()})
	}
	return t, nil
}

// String returns the template source.
func (t *Template) String() string {
	return t.raw
}

// Placeholders returns the distinct placeholder names in order of first use.
func (t *Template) Placeholders() []string {
	return slices.Clone(t.args)
}

// Missing returns the placeholders without a non-nil value in args.
func (t *Template) Missing(args map[string]any) []string {
	var missing []string
	for _, name := range t.args {
		if v, ok := args[name]; !ok || v == nil {
			missing = append(missing, name)
		}
	}
	return missing
}

// Render substitutes args into the template. Values are formatted with fmt.Sprint.
func (t *Template) Render(args map[string]any) (string, error) {
	if missing := t.Missing(args); len(missing) > 0 {
		return "", &MissingArgError{Name: missing[0]}
	}

	var b strings.Builder
	for _, seg := range t.segments {
		if seg.arg != "" {
			fmt.Fprint(&b, args[seg.arg])
			continue
		}
		b.WriteString(seg.text)
	}
	return b.String(), nil
}

// goTemplate rewrites the template in text/template syntax for go-i18n.
// Placeholders become index lookups so names containing '-' stay valid.
// Literal text holding braces is emitted as a quoted string action so it can
// never merge with a neighbouring delimiter.
func (t *Template) goTemplate() string {
	var b strings.Builder
	for _, seg := range t.segments {
		switch {
		case seg.arg != "":
			b.WriteString(`{{index . ` + strconv.Quote(seg.arg) + `}}`)
		case strings.ContainsAny(seg.text, "{}"):
			b.WriteString(`{{` + strconv.Quote(seg.text) + `}}`)
		default:
			b.WriteString(seg.text)
		}
	}
	return b.String()
}

func validIdentifier(s string) bool {
	if s == "" || !isLetter(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isLetter(c) && !(c >= '0' && c <= '9') && c != '-' && c != '_' {
			return false
		}
	}
	return true
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
