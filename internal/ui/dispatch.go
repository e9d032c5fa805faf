package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/lunchbox/internal/mealdb"
	"github.com/five82/lunchbox/internal/prefs"
	"github.com/five82/lunchbox/internal/viewstate"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if m.dropdownOpen {
		if model, cmd, handled := m.handleDropdownKey(msg); handled {
			return model, cmd
		}
		// Any other action dismisses the dropdown first.
		m.dropdownOpen = false
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		return m, m.cycleTheme()

	case key.Matches(msg, m.keys.Language):
		return m, m.toggleLanguage()

	case key.Matches(msg, m.keys.Escape):
		return m, nil

	case key.Matches(msg, m.keys.NewMeal):
		return m, m.requestRandom()

	case key.Matches(msg, m.keys.Confirm):
		// Enter is the retry button while the error panel shows.
		if m.ctrl.State() == viewstate.Error {
			return m, m.requestRandom()
		}
		return m, nil

	case key.Matches(msg, m.keys.Favorite):
		return m, m.toggleFavorite()

	case key.Matches(msg, m.keys.Favorites):
		m.openDropdown()
		return m, nil

	case key.Matches(msg, m.keys.ShowMore):
		m.toggleExpanded()
		return m, nil

	case key.Matches(msg, m.keys.Open):
		return m, m.openInBrowser()

	case key.Matches(msg, m.keys.Up):
		m.body.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		m.body.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		m.body.PageUp()
	case key.Matches(msg, m.keys.PageDown):
		m.body.PageDown()
	case key.Matches(msg, m.keys.Top):
		m.body.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.body.GotoBottom()
	}

	return m, nil
}

// handleDropdownKey handles keys that act on the open dropdown. handled is
// false for keys the dropdown does not own.
func (m Model) handleDropdownKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	n := m.favoriteCount()

	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Favorites):
		m.dropdownOpen = false
		return m, nil, true

	case key.Matches(msg, m.keys.Up):
		m.cursor = clampInt(m.cursor-1, 0, n-1)
		return m, nil, true

	case key.Matches(msg, m.keys.Down):
		m.cursor = clampInt(m.cursor+1, 0, n-1)
		return m, nil, true

	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
		return m, nil, true

	case key.Matches(msg, m.keys.Bottom):
		m.cursor = clampInt(n-1, 0, n-1)
		return m, nil, true

	case key.Matches(msg, m.keys.Confirm):
		return m, m.selectFavorite(m.cursor), true

	case key.Matches(msg, m.keys.Remove):
		return m, m.removeFavorite(m.cursor), true
	}

	return m, nil, false
}

// handleMouse routes clicks. A left press outside both the dropdown and its
// toggle closes the dropdown before anything else happens.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showHelp || !m.ready {
		return m, nil
	}

	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.body.ScrollUp(3)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.body.ScrollDown(3)
		return m, nil
	case tea.MouseButtonLeft:
	default:
		return m, nil
	}

	vm := m.viewModel()
	r := m.layout(vm)

	if r.toggle.contains(msg.X, msg.Y) {
		if m.dropdownOpen {
			m.dropdownOpen = false
		} else {
			m.openDropdown()
		}
		return m, nil
	}

	if m.dropdownOpen {
		if r.dropdown.contains(msg.X, msg.Y) {
			index, remove, ok := m.entryAt(vm, r.dropdown, msg.X, msg.Y)
			if !ok {
				return m, nil
			}
			if remove {
				return m, m.removeFavorite(index)
			}
			return m, m.selectFavorite(index)
		}
		m.dropdownOpen = false
	}

	switch {
	case r.heart.contains(msg.X, msg.Y):
		return m, m.toggleFavorite()
	case r.retry.contains(msg.X, msg.Y):
		return m, m.requestRandom()
	}
	return m, nil
}

// requestRandom asks for a new random proposal. It doubles as retry.
func (m *Model) requestRandom() tea.Cmd {
	if m.fetcher == nil {
		return nil
	}
	return m.requestMeal(opRandom, m.fetcher.FetchRandom)
}

// requestLookup loads a meal by id, as when a favorite is selected.
func (m *Model) requestLookup(id string) tea.Cmd {
	if m.fetcher == nil {
		return nil
	}
	fetcher := m.fetcher
	return m.requestMeal(opLookup, func(ctx context.Context) (mealdb.Meal, error) {
		return fetcher.FetchByID(ctx, id)
	})
}

// requestMeal moves the view to Loading and starts fetch in the background.
func (m *Model) requestMeal(op string, fetch viewstate.FetchOp) tea.Cmd {
	t := m.ctrl.Begin()
	m.logger.Debug("fetch started", "op", op, "ticket", uint64(t))
	return tea.Batch(m.spinner.Tick, fetchMealCmd(m.ctx, t, op, fetch))
}

// toggleFavorite adds or removes the displayed meal. It does nothing unless a
// meal is loaded.
func (m *Model) toggleFavorite() tea.Cmd {
	if m.favs == nil || m.ctrl.State() != viewstate.Loaded {
		return nil
	}
	meal, ok := m.ctrl.Meal()
	if !ok {
		return nil
	}
	added, err := m.favs.Toggle(meal)
	if err != nil {
		m.logger.Error("save favorites failed", "id", meal.ID, "error", err)
		return m.toast.show(m.printer().T("Could not save favorites"), true)
	}
	m.logger.Debug("favorite toggled", "id", meal.ID, "saved", added)
	return nil
}

// selectFavorite closes the dropdown and loads the entry at index.
func (m *Model) selectFavorite(index int) tea.Cmd {
	if m.favs == nil {
		return nil
	}
	entries := m.favs.Entries()
	if index < 0 || index >= len(entries) {
		return nil
	}
	m.dropdownOpen = false
	return m.requestLookup(entries[index].ID)
}

// removeFavorite deletes the entry at index. The dropdown stays open and the
// displayed meal is untouched.
func (m *Model) removeFavorite(index int) tea.Cmd {
	if m.favs == nil {
		return nil
	}
	entries := m.favs.Entries()
	if index < 0 || index >= len(entries) {
		return nil
	}
	if err := m.favs.Remove(entries[index].ID); err != nil {
		m.logger.Error("save favorites failed", "id", entries[index].ID, "error", err)
		return m.toast.show(m.printer().T("Could not save favorites"), true)
	}
	m.cursor = clampInt(m.cursor, 0, len(entries)-2)
	return nil
}

func (m *Model) openDropdown() {
	m.dropdownOpen = true
	m.cursor = clampInt(m.cursor, 0, m.favoriteCount()-1)
}

func (m Model) favoriteCount() int {
	if m.favs == nil {
		return 0
	}
	return m.favs.Len()
}

// toggleExpanded flips between the clamped and full instructions.
func (m *Model) toggleExpanded() {
	if m.ctrl.State() != viewstate.Loaded {
		return
	}
	m.expanded = !m.expanded
	m.syncBody()
}

// toggleLanguage switches the UI language and re-renders in place.
func (m *Model) toggleLanguage() tea.Cmd {
	lang, err := m.lang.Toggle()
	m.syncBody()
	if err != nil {
		m.logger.Warn("save language failed", "lang", string(lang), "error", err)
		return m.toast.show(m.printer().T("Could not save language"), true)
	}
	m.logger.Debug("language switched", "lang", string(lang))
	return nil
}

// cycleTheme moves to the next theme and saves it.
func (m *Model) cycleTheme() tea.Cmd {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.spinner.Style = m.spinner.Style.Foreground(lipgloss.Color(m.theme.Accent))
	m.syncBody()
	name := m.theme.Name
	if err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.Theme = name }); err != nil {
		m.logger.Warn("save theme failed", "theme", name, "error", err)
	}
	return nil
}

// openInBrowser opens the displayed meal's recipe link.
func (m *Model) openInBrowser() tea.Cmd {
	meal, ok := m.ctrl.Meal()
	if !ok || m.ctrl.State() != viewstate.Loaded {
		return nil
	}
	url := recipeURL(meal)
	if url == "" {
		return m.toast.show(m.printer().T("Nothing to open"), false)
	}
	return tea.Batch(
		m.toast.show(m.printer().T("Opening in browser…"), false),
		openURLCmd(m.openURL, url),
	)
}

// recipeURL prefers the source page, then the video, then the picture.
func recipeURL(meal mealdb.Meal) string {
	for _, u := range []string{meal.Source, meal.YouTube, meal.Thumbnail} {
		if u != "" {
			return u
		}
	}
	return ""
}
