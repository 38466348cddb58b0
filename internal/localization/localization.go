// Package localization provides the user-facing message catalog.
// Catalogs are JSON files named by language code (e.g. "en.json"); English is
// embedded so the server always has a complete fallback.
package localization

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

//go:embed locales/*.json
var embedded embed.FS

const DefaultLang = "en"

// Localizer manages the translations for the application.
// It holds a map of languages, each with its own map of translation keys and values.
type Localizer struct {
	translations map[string]map[string]string
	mu           sync.RWMutex
}

// NewDefault returns a Localizer with only the embedded catalogs.
func NewDefault() *Localizer {
	l := &Localizer{translations: make(map[string]map[string]string)}
	if err := l.loadFS(embedded, "locales"); err != nil {
		panic(fmt.Sprintf("embedded locales are broken: %v", err))
	}
	return l
}

// NewLocalizer loads the embedded catalogs and then every JSON file in path,
// which may add languages or override embedded keys. A missing directory is
// not an error.
func NewLocalizer(path string) (*Localizer, error) {
	l := NewDefault()
	if path == "" {
		return l, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return l, nil
	}
	if err := l.loadFS(os.DirFS(path), "."); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Localizer) loadFS(fsys fs.FS, dir string) error {
	files, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("failed to read localization directory: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(file.Name(), ".json")
		data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(dir, file.Name())))
		if err != nil {
			return fmt.Errorf("failed to read localization file %s: %w", file.Name(), err)
		}

		var translations map[string]string
		if err := json.Unmarshal(data, &translations); err != nil {
			return fmt.Errorf("failed to parse localization file %s: %w", file.Name(), err)
		}

		if l.translations[lang] == nil {
			l.translations[lang] = make(map[string]string, len(translations))
		}
		for k, v := range translations {
			l.translations[lang][k] = v
		}
	}
	return nil
}

// GetString returns the localized string for a given key and language.
// If the language or the key is not found, it falls back to English and then
// to the key itself.
func (l *Localizer) GetString(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if langTranslations, ok := l.translations[lang]; ok {
		if value, ok := langTranslations[key]; ok {
			return value
		}
	}

	if lang != DefaultLang {
		if enTranslations, ok := l.translations[DefaultLang]; ok {
			if value, ok := enTranslations[key]; ok {
				return value
			}
		}
	}

	return key
}

// Languages lists the loaded language codes.
func (l *Localizer) Languages() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	langs := make([]string, 0, len(l.translations))
	for lang := range l.translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Negotiate picks the first loaded language from an Accept-Language header,
// ignoring quality weights and region suffixes.
func (l *Localizer) Negotiate(acceptLanguage string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if _, ok := l.translations[base]; ok {
			return base
		}
	}
	return DefaultLang
}
