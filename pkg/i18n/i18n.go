package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

//go:embed messages/*.json
var messagesFS embed.FS

// Supported locales
const (
	LocaleSpanish = "es"
	LocaleEnglish = "en"
	DefaultLocale = LocaleSpanish
)

type localeKey struct{}

// catalog maps a dotted key such as "errors.not_found" to its text
type catalog map[string]string

var (
	catalogs     map[string]catalog
	catalogsOnce sync.Once
)

func loadCatalogs() map[string]catalog {
	catalogsOnce.Do(func() {
		catalogs = make(map[string]catalog, 2)
		for _, locale := range []string{LocaleSpanish, LocaleEnglish} {
			c, err := readCatalog(locale)
			if err != nil {
				// the files are embedded, so this only trips during development
				panic(err)
			}
			catalogs[locale] = c
		}
	})
	return catalogs
}

func readCatalog(locale string) (catalog, error) {
	data, err := messagesFS.ReadFile("messages/" + locale + ".json")
	if err != nil {
		return nil, fmt.Errorf("i18n: missing catalog %s: %w", locale, err)
	}

	var tree map[string]interface{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("i18n: malformed catalog %s: %w", locale, err)
	}

	c := make(catalog)
	flatten(c, "", tree)
	return c, nil
}

func flatten(c catalog, prefix string, node map[string]interface{}) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := v.(type) {
		case string:
			c[key] = v
		case map[string]interface{}:
			flatten(c, key, v)
		}
	}
}

// Supported reports whether locale has a catalog
func Supported(locale string) bool {
	_, ok := loadCatalogs()[locale]
	return ok
}

// Localizer translates catalog keys for one locale
type Localizer struct {
	locale string
}

// NewLocalizer returns a localizer for locale, falling back to Spanish for
// unsupported locales
func NewLocalizer(locale string) *Localizer {
	if !Supported(locale) {
		locale = DefaultLocale
	}
	return &Localizer{locale: locale}
}

// LocalizerFromContext creates a localizer from context
func LocalizerFromContext(ctx context.Context) *Localizer {
	return NewLocalizer(GetLocaleFromContext(ctx))
}

// Locale returns the locale in use
func (l *Localizer) Locale() string {
	return l.locale
}

// T translates key, replacing {name} placeholders from params. A key missing
// from the locale falls back to Spanish, then to the key itself.
func (l *Localizer) T(key string, params ...map[string]string) string {
	all := loadCatalogs()

	msg, ok := all[l.locale][key]
	if !ok {
		msg, ok = all[DefaultLocale][key]
	}
	if !ok {
		return key
	}

	if len(params) > 0 {
		for k, v := range params[0] {
			msg = strings.ReplaceAll(msg, "{"+k+"}", v)
		}
	}
	return msg
}

// Weekday returns the localized day name
func (l *Localizer) Weekday(d time.Weekday) string {
	return l.T("days." + strconv.Itoa(int(d)))
}

// WeekdayInitial returns the single letter used in grid headers
func (l *Localizer) WeekdayInitial(d time.Weekday) string {
	return l.T("day_initials." + strconv.Itoa(int(d)))
}

// Month returns the localized month name
func (l *Localizer) Month(m time.Month) string {
	return l.T("months." + strconv.Itoa(int(m)))
}

// WithLocale adds locale to context
func WithLocale(ctx context.Context, locale string) context.Context {
	return context.WithValue(ctx, localeKey{}, locale)
}

// GetLocaleFromContext retrieves locale from context
func GetLocaleFromContext(ctx context.Context) string {
	if locale, ok := ctx.Value(localeKey{}).(string); ok && locale != "" {
		return locale
	}
	return DefaultLocale
}

// ParseAcceptLanguage picks the first supported language of an
// Accept-Language header in the order the client lists them. Quality values
// are ignored.
func ParseAcceptLanguage(header string) string {
	for _, part := range strings.Split(strings.ToLower(header), ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		lang := strings.SplitN(tag, "-", 2)[0]
		if lang != "" && Supported(lang) {
			return lang
		}
	}
	return DefaultLocale
}

// T translates using the default locale
func T(key string, params ...map[string]string) string {
	return NewLocalizer(DefaultLocale).T(key, params...)
}

// TFromContext translates using locale from context
func TFromContext(ctx context.Context, key string, params ...map[string]string) string {
	return LocalizerFromContext(ctx).T(key, params...)
}
