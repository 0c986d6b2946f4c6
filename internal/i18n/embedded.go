package i18n

import (
	"embed"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.ftl
var localesFS embed.FS

// DefaultCatalog loads the locales shipped with the application.
// English is the default locale.
func DefaultCatalog(opts ...Option) (*Catalog, error) {
	return LoadFS(localesFS, "locales", language.English, opts...)
}

// RequestedLanguages returns the desktop's preferred languages, most
// preferred first, from LANGUAGE, LC_ALL, LC_MESSAGES and LANG.
// POSIX values such as "nl_NL.UTF-8@euro" are converted to "nl-NL";
// "C" and "POSIX" are ignored.
func RequestedLanguages() []string {
	var raw []string
	raw = append(raw, strings.Split(os.Getenv("LANGUAGE"), ":")...)
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		raw = append(raw, os.Getenv(env))
	}

	var langs []string
	for _, r := range raw {
		tag := posixToBCP47(r)
		if tag == "" || slices.Contains(langs, tag) {
			continue
		}
		langs = append(langs, tag)
	}
	return langs
}

func posixToBCP47(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, ".@"); i >= 0 {
		s = s[:i]
	}
	if s == "" || s == "C" || s == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(s, "_", "-")
}
