package i18n

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

// IssueKind classifies a consistency problem between locales.
type IssueKind string

const (
	// IssueMissing: the default locale defines the key, the translation does not.
	IssueMissing IssueKind = "missing"

	// IssueExtra: the translation defines a key the default locale lacks.
	IssueExtra IssueKind = "extra"

	// IssuePlaceholders: both define the key with different placeholder sets.
	IssuePlaceholders IssueKind = "placeholders"
)

// Issue is one finding of Catalog.Check.
type Issue struct {
	Locale language.Tag
	Key    string
	Kind   IssueKind
	Detail string
}

func (i Issue) String() string {
	if i.Detail == "" {
		return fmt.Sprintf("%s: %s: %s", i.Locale, i.Key, i.Kind)
	}
	return fmt.Sprintf("%s: %s: %s (%s)", i.Locale, i.Key, i.Kind, i.Detail)
}

// Check compares every translation against the default locale.
// Issues are ordered by locale, then by key position in the default locale.
func (c *Catalog) Check() []Issue {
	base := c.locales[c.defaultTag]

	var issues []Issue
	for _, tag := range c.tags[1:] {
		l := c.locales[tag]
		for _, key := range base.order {
			m, ok := l.messages[key]
			if !ok {
				issues = append(issues, Issue{Locale: tag, Key: key, Kind: IssueMissing})
				continue
			}
			want := sortedPlaceholders(base.messages[key].Template)
			got := sortedPlaceholders(m.Template)
			if !slices.Equal(want, got) {
				issues = append(issues, Issue{
					Locale: tag,
					Key:    key,
					Kind:   IssuePlaceholders,
					Detail: fmt.Sprintf("want {%s}, got {%s}", strings.Join(want, ", "), strings.Join(got, ", ")),
				})
			}
		}
		for _, key := range l.order {
			if _, ok := base.messages[key]; !ok {
				issues = append(issues, Issue{Locale: tag, Key: key, Kind: IssueExtra})
			}
		}
	}
	return issues
}

func sortedPlaceholders(t *Template) []string {
	names := t.Placeholders()
	slices.Sort(names)
	return names
}
