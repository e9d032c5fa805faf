package i18n

import (
	"fmt"
	"sync"

	"github.com/five82/lunchbox/internal/prefs"
)

// Switcher is the language-switching capability. The UI only sees this
// interface, so persistence and reload behaviour can change freely.
type Switcher interface {
	Current() Lang
	Toggle() (Lang, error)
}

// PrefsSwitcher persists the language in the prefs file. The new language
// takes effect on the next render.
type PrefsSwitcher struct {
	mu   sync.Mutex
	path string
	lang Lang
}

var _ Switcher = (*PrefsSwitcher)(nil)

// NewPrefsSwitcher starts from the stored preference value.
func NewPrefsSwitcher(prefsPath, stored string) *PrefsSwitcher {
	return &PrefsSwitcher{path: prefsPath, lang: Parse(stored)}
}

func (s *PrefsSwitcher) Current() Lang {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lang
}

// Toggle flips between English and German and saves the choice. On a save
// error the language still switches for this run.
func (s *PrefsSwitcher) Toggle() (Lang, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lang = s.lang.Other()
	next := string(s.lang)
	if err := prefs.Update(s.path, func(p *prefs.Prefs) { p.Language = next }); err != nil {
		return s.lang, fmt.Errorf("save language: %w", err)
	}
	return s.lang, nil
}

// Fixed is a Switcher that never persists, for tests and read-only setups.
type Fixed struct{ Lang Lang }

func (f *Fixed) Current() Lang { return Parse(string(f.Lang)) }

func (f *Fixed) Toggle() (Lang, error) {
	f.Lang = f.Current().Other()
	return f.Lang, nil
}
