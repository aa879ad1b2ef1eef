// Package i18n provides the translation helper used for every user-facing
// string of the CronTab form.
//
// Message IDs are the English source strings. Catalogs live in locales/ and
// are embedded at build time; an ID missing from the active catalog renders
// its English text, with template data substituted.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"strings"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var locales embed.FS

// Translator resolves message IDs for a preferred list of languages.
type Translator struct {
	localizer *goi18n.Localizer
}

// New creates a Translator for the given languages, in order of preference.
// Unknown languages fall back to English.
func New(langs ...string) (*Translator, error) {
	bundle, err := newBundle(locales)
	if err != nil {
		return nil, err
	}
	return &Translator{localizer: goi18n.NewLocalizer(bundle, langs...)}, nil
}

// Default returns an English translator. The embedded catalogs are
// validated by tests, so a load failure here is a build defect.
func Default() *Translator {
	t, err := New(language.English.String())
	if err != nil {
		panic(err)
	}
	return t
}

// T translates key, substituting data into {{.field}} placeholders.
func (t *Translator) T(key string, data map[string]any) string {
	msg, _ := t.localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
		DefaultMessage: &goi18n.Message{
			ID:    key,
			Other: key,
		},
	})
	if msg == "" {
		return key
	}
	return msg
}

// LanguageFromEnv returns the preferred language from CRONTAB_LANG or LANG,
// stripped of any encoding suffix (e.g. "es_ES.UTF-8" -> "es-ES").
func LanguageFromEnv() string {
	lang := os.Getenv("CRONTAB_LANG")
	if lang == "" {
		lang = os.Getenv("LANG")
	}
	if i := strings.IndexAny(lang, ".@"); i >= 0 {
		lang = lang[:i]
	}
	if lang == "" || lang == "C" || lang == "POSIX" {
		return language.English.String()
	}
	return strings.ReplaceAll(lang, "_", "-")
}

func newBundle(fsys fs.FS) (*goi18n.Bundle, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to list locales: %w", err)
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(fsys, f); err != nil {
			return nil, fmt.Errorf("failed to load locale %s: %w", f, err)
		}
	}
	return bundle, nil
}
