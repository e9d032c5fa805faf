// Package i18n localizes lunchbox's interface text and owns the language
// preference.
//
// Meal content comes from the API and is shown as-is. Only labels, hints and
// messages are translated.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Lang is a supported interface language.
type Lang string

const (
	English Lang = "en"
	German  Lang = "de"
)

// Parse maps a stored preference to a Lang, defaulting to English.
func Parse(value string) Lang {
	if strings.EqualFold(strings.TrimSpace(value), string(German)) {
		return German
	}
	return English
}

// Tag returns the BCP 47 tag.
func (l Lang) Tag() language.Tag {
	if l == German {
		return language.German
	}
	return language.English
}

// Label is the short toggle label, "EN" or "DE".
func (l Lang) Label() string {
	return strings.ToUpper(string(Parse(string(l))))
}

// Other returns the language a toggle switches to.
func (l Lang) Other() Lang {
	if l == German {
		return English
	}
	return German
}

// Catalog holds a printer per supported language.
type Catalog struct {
	printers map[Lang]*message.Printer
}

// NewCatalog builds the message catalog. English strings are their own keys.
func NewCatalog() *Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, text := range german {
		_ = b.SetString(language.German, key, text)
	}
	return &Catalog{printers: map[Lang]*message.Printer{
		English: message.NewPrinter(language.English, message.Catalog(b)),
		German:  message.NewPrinter(language.German, message.Catalog(b)),
	}}
}

// Printer returns the printer for l.
func (c *Catalog) Printer(l Lang) Printer {
	if c == nil {
		return Printer{}
	}
	return Printer{p: c.printers[Parse(string(l))]}
}

// Printer translates message keys. The zero value formats keys untranslated.
type Printer struct {
	p *message.Printer
}

// T translates key and formats it with args.
func (p Printer) T(key string, args ...any) string {
	if p.p == nil {
		return fmt.Sprintf(key, args...)
	}
	return p.p.Sprintf(key, args...)
}

var german = map[string]string{
	"Lunch proposal":                  "Mittagsvorschlag",
	"New proposal":                    "Neuer Vorschlag",
	"Another proposal":                "Noch ein Vorschlag",
	"Finding a tasty lunch…":          "Suche ein leckeres Mittagessen…",
	"Oops! Something went wrong":      "Hoppla! Etwas ist schiefgelaufen",
	"That meal could not be found.":   "Dieses Gericht wurde nicht gefunden.",
	"Try again":                       "Erneut versuchen",
	"Ingredients":                     "Zutaten",
	"Instructions":                    "Zubereitung",
	"Show full recipe →":              "Ganzes Rezept anzeigen →",
	"← Show less":                     "← Weniger anzeigen",
	"Favorites":                       "Favoriten",
	"No favorites yet":                "Noch keine Favoriten",
	"Press f on any meal to save it!": "Drücke f bei einem Gericht, um es zu speichern!",
	"Add to favorites":                "Zu Favoriten hinzufügen",
	"Remove from favorites":           "Aus Favoriten entfernen",
	"International":                   "International",
	"Category":                        "Kategorie",
	"Area":                            "Region",
	"Tags":                            "Schlagwörter",
	"Keyboard Shortcuts":              "Tastenkürzel",
	"Meal":                            "Gericht",
	"General":                         "Allgemein",
	"Fetch a new proposal":            "Neuen Vorschlag laden",
	"Toggle favorite":                 "Favorit umschalten",
	"Open favorites":                  "Favoriten öffnen",
	"Toggle full recipe":              "Ganzes Rezept umschalten",
	"Open recipe in browser":          "Rezept im Browser öffnen",
	"Switch language":                 "Sprache wechseln",
	"Cycle theme":                     "Design wechseln",
	"Toggle help":                     "Hilfe umschalten",
	"Quit":                            "Beenden",
	"Scroll":                          "Blättern",
	"Load meal":                       "Gericht laden",
	"Remove":                          "Entfernen",
	"Close":                           "Schließen",
	"Opening in browser…":             "Wird im Browser geöffnet…",
	"Could not open browser":          "Browser konnte nicht geöffnet werden",
	"Could not save favorites":        "Favoriten konnten nicht gespeichert werden",
	"Nothing to open":                 "Nichts zum Öffnen",
	"Could not save language":         "Sprache konnte nicht gespeichert werden",
	"Help":                            "Hilfe",

	"We couldn't fetch a meal. Check your connection and retry.": "Wir konnten kein Gericht laden. Prüfe deine Verbindung und versuche es erneut.",
}
