// Package i18n loads the application's locale message tables and renders
// user-facing strings from them.
//
// Message files use a line-oriented `key = value` format with `{$name}`
// placeholders. Rendering negotiates the locale against the requested
// languages, falls back to the default locale for keys a translation lacks,
// and hands the final substitution to a go-i18n bundle.
package i18n

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

// FileExt is the extension of message files.
const FileExt = ".ftl"

// ErrMissingKey is returned when no loaded locale defines a message key.
var ErrMissingKey = errors.New("i18n: message key not found")

// Catalog holds the message tables of every loaded locale.
// A Catalog is immutable after construction and safe for concurrent use.
type Catalog struct {
	defaultTag language.Tag
	tags       []language.Tag // default first, others in load order
	locales    map[language.Tag]*Locale
	matcher    language.Matcher
	bundle     *goi18n.Bundle
	logger     *slog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger that receives per-string render failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// New builds a catalog from parsed locales. One of them must carry defaultTag.
func New(defaultTag language.Tag, locales []*Locale, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		defaultTag: defaultTag,
		locales:    make(map[language.Tag]*Locale, len(locales)),
		bundle:     goi18n.NewBundle(defaultTag),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, l := range locales {
		if _, dup := c.locales[l.Tag]; dup {
			return nil, fmt.Errorf("i18n: locale %s loaded twice", l.Tag)
		}
		c.locales[l.Tag] = l
		if l.Tag == defaultTag {
			c.tags = append([]language.Tag{l.Tag}, c.tags...)
		} else {
			c.tags = append(c.tags, l.Tag)
		}
		if err := c.register(l); err != nil {
			return nil, err
		}
	}
	if _, ok := c.locales[defaultTag]; !ok {
		return nil, fmt.Errorf("i18n: no messages for default locale %s", defaultTag)
	}

	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

func (c *Catalog) register(l *Locale) error {
	msgs := make([]*goi18n.Message, 0, l.Len())
	for _, key := range l.order {
		msgs = append(msgs, &goi18n.Message{
			ID:    key,
			Other: l.messages[key].Template.goTemplate(),
		})
	}
	if err := c.bundle.AddMessages(l.Tag, msgs...); err != nil {
		return fmt.Errorf("i18n: register locale %s: %w", l.Tag, err)
	}
	return nil
}

// LoadFS loads every locale under dir in fsys.
//
// Two layouts are accepted and may be mixed: `<dir>/<tag>.ftl`, and
// `<dir>/<tag>/*.ftl` where all files of a directory form one locale.
// A key defined twice within one locale is an error, across files too.
func LoadFS(fsys fs.FS, dir string, defaultTag language.Tag, opts ...Option) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("i18n: read %s: %w", dir, err)
	}

	byTag := make(map[language.Tag]*Locale)
	var order []language.Tag
	add := func(tagName, file string) error {
		tag, err := language.Parse(tagName)
		if err != nil {
			return fmt.Errorf("i18n: %s: invalid locale %q: %w", file, tagName, err)
		}
		l, ok := byTag[tag]
		if !ok {
			l = NewLocale(tag)
			byTag[tag] = l
			order = append(order, tag)
		}
		f, err := fsys.Open(file)
		if err != nil {
			return fmt.Errorf("i18n: open %s: %w", file, err)
		}
		defer f.Close()
		return l.parse(file, f)
	}

	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() {
			if strings.HasSuffix(name, FileExt) {
				if err := add(strings.TrimSuffix(name, FileExt), path.Join(dir, name)); err != nil {
					return nil, err
				}
			}
			continue
		}

		sub, err := fs.ReadDir(fsys, path.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", path.Join(dir, name), err)
		}
		for _, s := range sub {
			if s.IsDir() || !strings.HasSuffix(s.Name(), FileExt) {
				continue
			}
			if err := add(name, path.Join(dir, name, s.Name())); err != nil {
				return nil, err
			}
		}
	}

	locales := make([]*Locale, 0, len(order))
	for _, tag := range order {
		locales = append(locales, byTag[tag])
	}
	return New(defaultTag, locales, opts...)
}

// LoadDir loads locales from a directory on disk, see LoadFS.
func LoadDir(dir string, defaultTag language.Tag, opts ...Option) (*Catalog, error) {
	return LoadFS(os.DirFS(dir), ".", defaultTag, opts...)
}

// DefaultTag returns the locale used when nothing better matches.
func (c *Catalog) DefaultTag() language.Tag {
	return c.defaultTag
}

// Tags returns the loaded locales, default first.
func (c *Catalog) Tags() []language.Tag {
	return slices.Clone(c.tags)
}

// Locale returns the message table for tag.
func (c *Catalog) Locale(tag language.Tag) (*Locale, bool) {
	l, ok := c.locales[tag]
	return l, ok
}

// Keys returns the keys of the locale best matching lang, in file order.
func (c *Catalog) Keys(lang string) []string {
	return c.locales[c.Match(lang)].Keys()
}

// Match returns the loaded locale that best serves the requested languages.
// Each entry may be a tag ("nl-BE") or an Accept-Language list. With no
// acceptable match the default locale is returned.
func (c *Catalog) Match(langs ...string) language.Tag {
	_, idx := language.MatchStrings(c.matcher, langs...)
	return c.tags[idx]
}

// Lookup resolves key against the requested languages, falling back to the
// default locale. It reports the locale the message was found in.
func (c *Catalog) Lookup(key string, langs ...string) (Message, language.Tag, error) {
	for _, tag := range c.chain(langs) {
		if m, ok := c.locales[tag].Lookup(key); ok {
			return m, tag, nil
		}
	}
	return Message{}, language.Und, fmt.Errorf("%w: %q", ErrMissingKey, key)
}

func (c *Catalog) chain(langs []string) []language.Tag {
	matched := c.Match(langs...)
	if matched == c.defaultTag {
		return []language.Tag{matched}
	}
	return []language.Tag{matched, c.defaultTag}
}

// Render renders the message key with args.
//
// A key missing from every locale fails with ErrMissingKey. A placeholder
// without a value fails with *MissingArgError.
func (c *Catalog) Render(key string, args map[string]any, langs ...string) (string, error) {
	msg, tag, err := c.Lookup(key, langs...)
	if err != nil {
		return "", err
	}
	if missing := msg.Template.Missing(args); len(missing) > 0 {
		return "", &MissingArgError{Key: key, Locale: tag.String(), Name: missing[0]}
	}

	localizer := goi18n.NewLocalizer(c.bundle, tag.String())
	out, err := localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: args,
	})
	if err != nil {
		return "", fmt.Errorf("i18n: render %q (%s): %w", key, tag, err)
	}
	return out, nil
}

// T renders a message and never fails. A missing key renders as the key
// itself; a missing placeholder value renders the raw template. Failures are
// logged at warn level.
func (c *Catalog) T(key string, args map[string]any, langs ...string) string {
	out, err := c.Render(key, args, langs...)
	if err == nil {
		return out
	}

	c.logger.Warn("i18n: render failed", slog.String("key", key), slog.Any("error", err))
	if msg, _, lookupErr := c.Lookup(key, langs...); lookupErr == nil {
		return msg.Template.String()
	}
	return key
}

// Localizer binds the catalog to a language preference list.
type Localizer struct {
	catalog *Catalog
	langs   []string
}

// Localizer returns a translator bound to langs.
func (c *Catalog) Localizer(langs ...string) *Localizer {
	return &Localizer{catalog: c, langs: slices.Clone(langs)}
}

// T renders key like Catalog.T for the bound languages.
func (l *Localizer) T(key string, args map[string]any) string {
	return l.catalog.T(key, args, l.langs...)
}

// Render renders key like Catalog.Render for the bound languages.
func (l *Localizer) Render(key string, args map[string]any) (string, error) {
	return l.catalog.Render(key, args, l.langs...)
}

// Tag returns the locale messages are primarily drawn from.
func (l *Localizer) Tag() language.Tag {
	return l.catalog.Match(l.langs...)
}
