// Package locale supplies the user-facing message catalogues. Catalogues
// are YAML documents embedded in the binary, keyed by the stable error
// codes plus a handful of report strings. A Catalog is loaded once and
// then read-only; nothing in this package holds global state.
package locale

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Locale selects a message catalogue.
type Locale string

const (
	Portuguese Locale = "pt"
	English    Locale = "en"
)

//go:embed catalog/*.yaml
var catalogFS embed.FS

// Catalog maps message keys to format templates for one locale.
type Catalog struct {
	locale   Locale
	messages map[string]string
}

// Load reads the embedded catalogue for the locale.
func Load(l Locale) (*Catalog, error) {
	data, err := catalogFS.ReadFile(fmt.Sprintf("catalog/%s.yaml", l))
	if err != nil {
		return nil, fmt.Errorf("unknown locale %q (use pt or en)", l)
	}
	var messages map[string]string
	if err := yaml.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("loading %s catalogue: %w", l, err)
	}
	return &Catalog{locale: l, messages: messages}, nil
}

// MustLoad is Load for the embedded locales, panicking on a bad name.
func MustLoad(l Locale) *Catalog {
	c, err := Load(l)
	if err != nil {
		panic(err)
	}
	return c
}

// Locale returns the catalogue's locale.
func (c *Catalog) Locale() Locale {
	return c.locale
}

// Message returns the raw template for a key, or the key itself when the
// catalogue has no entry, so missing translations stay diagnosable.
func (c *Catalog) Message(key string) string {
	if m, ok := c.messages[key]; ok {
		return m
	}
	return key
}

// Format renders the template for key with the given arguments.
func (c *Catalog) Format(key string, args ...any) string {
	if len(args) == 0 {
		return c.Message(key)
	}
	return fmt.Sprintf(c.Message(key), args...)
}
