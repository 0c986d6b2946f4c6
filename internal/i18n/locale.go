package i18n

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// ErrDuplicateKey is wrapped by the ParseError reported for a key defined twice in a locale.
var ErrDuplicateKey = errors.New("duplicate message key")

// ParseError reports a malformed line in a message file.
type ParseError struct {
	File string
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("i18n: %s:%d: %s", e.File, e.Line, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Message is one entry of a locale message table.
type Message struct {
	Key      string
	Template *Template
	File     string
	Line     int
}

// Locale is the message table of one language.
type Locale struct {
	Tag      language.Tag
	messages map[string]Message
	order    []string
}

// NewLocale returns an empty message table for tag.
func NewLocale(tag language.Tag) *Locale {
	return &Locale{Tag: tag, messages: make(map[string]Message)}
}

// ParseLocale reads a message file into a new Locale.
//
// The format is one `key = value` message per line. Blank lines and lines
// starting with '#' are skipped. Whitespace around the key and the value is
// trimmed. name is only used in error messages.
func ParseLocale(tag language.Tag, name string, r io.Reader) (*Locale, error) {
	l := NewLocale(tag)
	if err := l.parse(name, r); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Locale) parse(name string, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return &ParseError{File: name, Line: lineNo, Msg: "expected key = value"}
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if !validIdentifier(key) {
			return &ParseError{File: name, Line: lineNo, Msg: fmt.Sprintf("invalid message key %q", key)}
		}
		if value == "" {
			return &ParseError{File: name, Line: lineNo, Msg: fmt.Sprintf("message %q has no value", key)}
		}
		tmpl, err := ParseTemplate(value)
		if err != nil {
			return &ParseError{File: name, Line: lineNo, Msg: err.Error(), Err: err}
		}

		if prev, dup := l.messages[key]; dup {
			return &ParseError{
				File: name,
				Line: lineNo,
				Msg:  fmt.Sprintf("message %q already defined at %s:%d", key, prev.File, prev.Line),
				Err:  ErrDuplicateKey,
			}
		}
		l.messages[key] = Message{Key: key, Template: tmpl, File: name, Line: lineNo}
		l.order = append(l.order, key)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("i18n: read %s: %w", name, err)
	}
	return nil
}

// Lookup returns the message for key.
func (l *Locale) Lookup(key string) (Message, bool) {
	m, ok := l.messages[key]
	return m, ok
}

// Keys returns the message keys in the order they were defined.
func (l *Locale) Keys() []string {
	return slices.Clone(l.order)
}

// Len returns the number of messages.
func (l *Locale) Len() int {
	return len(l.order)
}

// Map returns key → template source for every message.
func (l *Locale) Map() map[string]string {
	out := make(map[string]string, len(l.messages))
	for k, m := range l.messages {
		out[k] = m.Template.String()
	}
	return out
}

// Equal reports whether both locales hold the same tag and key/template pairs.
func (l *Locale) Equal(other *Locale) bool {
	return l.Tag == other.Tag && maps.Equal(l.Map(), other.Map())
}
