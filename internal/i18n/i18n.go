// Package i18n holds the storefront's language context: supported
// languages, negotiation from a persisted preference or the browser, and
// the static translation tables.
package i18n

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v2"
)

// Lang is a two-letter language code.
type Lang string

const (
	EN Lang = "en"
	ID Lang = "id"

	// Default is used when neither the preference nor the browser names a
	// supported language.
	Default = EN

	// CookieName persists the chosen language.
	CookieName = "ts_lang"
)

// Supported lists the languages with a translation table.
var Supported = []Lang{EN, ID}

//go:embed locales/*.yaml
var localeFS embed.FS

// Parse maps a language code or tag ("id", "ID", "id-ID") to a supported
// Lang.
func Parse(s string) (Lang, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	tag, err := language.Parse(s)
	if err != nil {
		return "", false
	}
	return fromTag(tag)
}

func fromTag(tag language.Tag) (Lang, bool) {
	base, _ := tag.Base()
	code := Lang(base.String())
	for _, l := range Supported {
		if l == code {
			return l, true
		}
	}
	return "", false
}

// Resolve picks the active language: the persisted preference when it is
// supported, else the first Accept-Language entry whose primary subtag is
// supported, else fallback.
func Resolve(persisted, acceptLanguage string, fallback Lang) Lang {
	if l, ok := Parse(persisted); ok {
		return l
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err == nil {
		for _, tag := range tags {
			if l, ok := fromTag(tag); ok {
				return l
			}
		}
	}
	return fallback
}

// Translator serves the static translation tables. It is read-only after
// Load and safe for concurrent use.
type Translator struct {
	tables map[Lang]map[string]string
}

// Load parses the embedded locale files.
func Load() (*Translator, error) {
	tr := &Translator{tables: make(map[Lang]map[string]string, len(Supported))}
	for _, l := range Supported {
		raw, err := localeFS.ReadFile("locales/" + string(l) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("i18n read %s: %w", l, err)
		}
		table, err := parseTable(raw)
		if err != nil {
			return nil, fmt.Errorf("i18n parse %s: %w", l, err)
		}
		tr.tables[l] = table
	}
	return tr, nil
}

// T translates key. Missing keys fall back to Default, then to the key itself.
func (tr *Translator) T(lang Lang, key string) string {
	if v, ok := tr.tables[lang][key]; ok {
		return v
	}
	if v, ok := tr.tables[Default][key]; ok {
		return v
	}
	return key
}

// Table returns the complete table for lang, with Default entries filling
// any gaps. The map is a copy.
func (tr *Translator) Table(lang Lang) map[string]string {
	out := make(map[string]string, len(tr.tables[Default]))
	for k, v := range tr.tables[Default] {
		out[k] = v
	}
	for k, v := range tr.tables[lang] {
		out[k] = v
	}
	return out
}

// keys returns the sorted keys of lang's own table.
func (tr *Translator) keys(lang Lang) []string {
	keys := make([]string, 0, len(tr.tables[lang]))
	for k := range tr.tables[lang] {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseTable flattens nested YAML maps into dotted keys.
func parseTable(raw []byte) (map[string]string, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	out := make(map[string]string)
	if err := flatten("", doc, out); err != nil {
		return nil, err
	}
	return out, nil
}

func flatten(prefix string, node interface{}, out map[string]string) error {
	switch v := node.(type) {
	case map[string]interface{}:
		for k, child := range v {
			if err := flatten(join(prefix, k), child, out); err != nil {
				return err
			}
		}
	case map[interface{}]interface{}:
		for k, child := range v {
			if err := flatten(join(prefix, fmt.Sprint(k)), child, out); err != nil {
				return err
			}
		}
	case string:
		out[prefix] = v
	case nil:
		return fmt.Errorf("key %q has no value", prefix)
	default:
		out[prefix] = fmt.Sprint(v)
	}
	return nil
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
