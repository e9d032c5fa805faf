// Package render projects application state into a ViewModel. It performs no
// I/O and holds no state, so rendering the same input twice yields the same
// output.
package render

import (
	"strings"

	"github.com/five82/lunchbox/internal/favorites"
	"github.com/five82/lunchbox/internal/i18n"
	"github.com/five82/lunchbox/internal/mealdb"
	"github.com/five82/lunchbox/internal/viewstate"
)

// ClampLines is how many instruction lines show while collapsed.
const ClampLines = 4

const (
	heartOn     = "♥"
	heartOff    = "♡"
	removeGlyph = "×"
	defaultArea = "International"
	subtitleSep = " • "
)

// State is everything the view depends on.
type State struct {
	View         viewstate.State
	Meal         mealdb.Meal
	HasMeal      bool
	Failure      mealdb.Failure
	Favorites    []favorites.Entry
	DropdownOpen bool
	Expanded     bool
	Lang         i18n.Lang
	Text         i18n.Printer
}

// ViewModel is the display-ready projection of State.
type ViewModel struct {
	Panels viewstate.Panels

	Heading       string
	NewProposal   string
	LanguageLabel string

	Loading string
	Error   ErrorPanel
	Meal    MealPanel

	Heart     Heart
	Count     int
	Favorites Dropdown
}

// ErrorPanel is the failure message and retry affordance.
type ErrorPanel struct {
	Title   string
	Message string
	Retry   string
}

// MealPanel holds the meal card content.
type MealPanel struct {
	ID                string
	Title             string
	Category          string
	Area              string
	Thumbnail         string
	Source            string
	Tags              []string
	IngredientsLabel  string
	Ingredients       []IngredientLine
	InstructionsLabel string
	Instructions      string
	Clamped           bool
	ShowMore          string
	Another           string
}

// IngredientLine is one rendered ingredient.
type IngredientLine struct {
	Measure string
	Name    string
}

func (l IngredientLine) String() string {
	if l.Measure == "" {
		return l.Name
	}
	return l.Measure + " " + l.Name
}

// Heart reflects whether the current meal is a favorite.
type Heart struct {
	Glyph  string
	Active bool
	Hint   string
}

// Dropdown is the favorites list.
type Dropdown struct {
	Open      bool
	Title     string
	Entries   []FavoriteItem
	Empty     bool
	EmptyText string
	EmptyHint string
}

// FavoriteItem is one dropdown row.
type FavoriteItem struct {
	ID        string
	Title     string
	Thumbnail string
	Subtitle  string
	Remove    string
	Current   bool
}

// Render builds the ViewModel for s.
func Render(s State) ViewModel {
	t := s.Text.T
	vm := ViewModel{
		Panels:        s.View.Panels(),
		Heading:       t("Lunch proposal"),
		NewProposal:   t("New proposal"),
		LanguageLabel: s.Lang.Label(),
		Loading:       t("Finding a tasty lunch…"),
		Error: ErrorPanel{
			Title:   t("Oops! Something went wrong"),
			Message: t("We couldn't fetch a meal. Check your connection and retry."),
			Retry:   t("Try again"),
		},
		Count: len(s.Favorites),
	}
	if s.Failure == mealdb.NotFound {
		vm.Error.Message = t("That meal could not be found.")
	}

	if s.HasMeal {
		vm.Meal = mealPanel(s)
	}
	vm.Heart = heart(s)
	vm.Favorites = dropdown(s)
	return vm
}

func mealPanel(s State) MealPanel {
	t := s.Text.T
	m := s.Meal
	p := MealPanel{
		ID:                m.ID,
		Title:             m.Title,
		Category:          m.Category,
		Area:              DisplayArea(m.Area, s.Text),
		Thumbnail:         m.Thumbnail,
		Source:            m.Source,
		Tags:              append([]string(nil), m.Tags...),
		IngredientsLabel:  t("Ingredients"),
		Ingredients:       Ingredients(m),
		InstructionsLabel: t("Instructions"),
		Instructions:      strings.TrimSpace(m.Instructions),
		Clamped:           !s.Expanded,
		Another:           t("Another proposal"),
	}
	if s.Expanded {
		p.ShowMore = t("← Show less")
	} else {
		p.ShowMore = t("Show full recipe →")
	}
	return p
}

func heart(s State) Heart {
	if s.HasMeal && isFavorite(s.Favorites, s.Meal.ID) {
		return Heart{Glyph: heartOn, Active: true, Hint: s.Text.T("Remove from favorites")}
	}
	return Heart{Glyph: heartOff, Hint: s.Text.T("Add to favorites")}
}

func dropdown(s State) Dropdown {
	t := s.Text.T
	d := Dropdown{
		Open:  s.DropdownOpen,
		Title: t("Favorites"),
	}
	if len(s.Favorites) == 0 {
		d.Empty = true
		d.EmptyText = t("No favorites yet")
		d.EmptyHint = t("Press f on any meal to save it!")
		return d
	}
	d.Entries = make([]FavoriteItem, 0, len(s.Favorites))
	for _, f := range s.Favorites {
		d.Entries = append(d.Entries, FavoriteItem{
			ID:        f.ID,
			Title:     f.Title,
			Thumbnail: f.Thumbnail,
			Subtitle:  f.Category + subtitleSep + DisplayArea(f.Area, s.Text),
			Remove:    removeGlyph,
			Current:   s.HasMeal && f.ID == s.Meal.ID,
		})
	}
	return d
}

// Ingredients walks slots 1..20 in order, skipping blank ingredients. Nothing
// is deduplicated or reordered.
func Ingredients(m mealdb.Meal) []IngredientLine {
	var lines []IngredientLine
	for _, ing := range m.Ingredients {
		if ing.Blank() {
			continue
		}
		lines = append(lines, IngredientLine{
			Measure: strings.TrimSpace(ing.Measure),
			Name:    strings.TrimSpace(ing.Name),
		})
	}
	return lines
}

// DisplayArea substitutes "International" for a missing area.
func DisplayArea(area string, p i18n.Printer) string {
	if strings.TrimSpace(area) == "" {
		return p.T(defaultArea)
	}
	return area
}

func isFavorite(entries []favorites.Entry, id string) bool {
	for _, e := range entries {
		if e.ID == id {
			return true
		}
	}
	return false
}
