// Package i18n provides localized message catalogs for engine error codes.
package i18n

import (
	"bytes"
	"strings"
	"text/template"

	"golang.org/x/text/language"
)

// Code is a machine-readable error code (duplicated as a string type to avoid
// an import cycle with the errors package).
type Code = string

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

// catalogs holds all registered catalogs by locale.
var catalogs = map[string]*Catalog{
	"en-US": enUSCatalog,
}

// supported lists the locales with registered catalogs, en-US first so the
// matcher falls back to it.
var supported = []language.Tag{
	language.AmericanEnglish,
}

// GetCatalog returns the catalog best matching the given locale, falling back
// to en-US when the locale is unknown or malformed.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		return enUSCatalog
	}

	tag, err := language.Parse(requested)
	if err != nil {
		return enUSCatalog
	}

	matcher := language.NewMatcher(supported)
	_, index, _ := matcher.Match(tag)
	matched := supported[index].String()
	// language tags render as en-US; catalog keys use the same form.
	if c, ok := catalogs[matched]; ok {
		return c
	}
	return enUSCatalog
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template with the given metadata.
// Falls back to the error code itself if no template is found. Templates are
// always executed even with nil metadata so variables render as empty rather
// than failing.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		return code
	}

	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}
