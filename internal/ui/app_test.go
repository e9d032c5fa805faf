package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/five82/lunchbox/internal/favorites"
	"github.com/five82/lunchbox/internal/i18n"
	"github.com/five82/lunchbox/internal/mealdb"
	"github.com/five82/lunchbox/internal/session"
	"github.com/five82/lunchbox/internal/viewstate"
)

func init() {
	// Plain output so views can be matched as text.
	lipgloss.SetColorProfile(termenv.Ascii)
}

const (
	testWidth  = 100
	testHeight = 30
)

// fakeFetcher serves queued random meals and a lookup table.
type fakeFetcher struct {
	mu      sync.Mutex
	random  []mealdb.Meal
	byID    map[string]mealdb.Meal
	err     error
	lookups []string
}

func (f *fakeFetcher) FetchRandom(context.Context) (mealdb.Meal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return mealdb.Meal{}, f.err
	}
	if len(f.random) == 0 {
		return mealdb.Meal{}, &mealdb.FetchError{Op: "random", Kind: mealdb.KindEmpty}
	}
	m := f.random[0]
	if len(f.random) > 1 {
		f.random = f.random[1:]
	}
	return m, nil
}

func (f *fakeFetcher) FetchByID(_ context.Context, id string) (mealdb.Meal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, id)
	if f.err != nil {
		return mealdb.Meal{}, f.err
	}
	m, ok := f.byID[id]
	if !ok {
		return mealdb.Meal{}, &mealdb.FetchError{Op: "lookup", Kind: mealdb.KindNotFound, Err: mealdb.ErrNotFound}
	}
	return m, nil
}

func testMeal(id, title string) mealdb.Meal {
	m := mealdb.Meal{
		ID:           id,
		Title:        title,
		Category:     "Chicken",
		Area:         "Japanese",
		Instructions: "Preheat oven.\nMix the sauce.\nBake.\nRest.\nSlice.\nServe.",
		Thumbnail:    "https://example.test/images/" + id + ".jpg",
		Source:       "https://example.test/recipes/" + id,
	}
	m.Ingredients[0] = mealdb.Ingredient{Name: "soy sauce", Measure: "3/4 cup"}
	m.Ingredients[1] = mealdb.Ingredient{Name: "water", Measure: "1/2 cup"}
	return m
}

type testEnv struct {
	fetcher *fakeFetcher
	favs    *favorites.Store
	ctrl    *viewstate.Controller
	opened  []string
}

func newTestModel(t *testing.T, policy viewstate.Policy, fetcher *fakeFetcher) (Model, *testEnv) {
	t.Helper()
	env := &testEnv{
		fetcher: fetcher,
		favs: favorites.Open(session.NewMemory(), favorites.WithClock(func() time.Time {
			return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		})),
		ctrl: viewstate.New(policy),
	}
	m := New(Options{
		Fetcher:    fetcher,
		Favorites:  env.favs,
		Controller: env.ctrl,
		Language:   &i18n.Fixed{Lang: i18n.English},
		ThemeName:  "Nightfox",
		PrefsPath:  t.TempDir() + "/prefs.toml",
		OpenURL: func(url string) error {
			env.opened = append(env.opened, url)
			return nil
		},
	})
	m = update(t, m, tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
	return m, env
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// mealMsgs runs cmd and returns the fetch results it produces. Only use it on
// commands that do not include a timer.
func mealMsgs(cmd tea.Cmd) []mealMsg {
	if cmd == nil {
		return nil
	}
	var out []mealMsg
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			out = append(out, mealMsgs(c)...)
		}
	case mealMsg:
		out = append(out, msg)
	}
	return out
}

// settle delivers every fetch result produced by cmd.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range mealMsgs(cmd) {
		m = update(t, m, msg)
	}
	return m
}

func loaded(t *testing.T, meals ...mealdb.Meal) (Model, *testEnv) {
	t.Helper()
	m, env := newTestModel(t, viewstate.LatestIssued, &fakeFetcher{random: meals, byID: map[string]mealdb.Meal{}})
	for _, meal := range meals {
		env.fetcher.byID[meal.ID] = meal
	}
	m = settle(t, m, m.Init())
	if env.ctrl.State() != viewstate.Loaded {
		t.Fatalf("state = %v, want loaded", env.ctrl.State())
	}
	return m, env
}

func TestInitialStateIsLoading(t *testing.T) {
	m, env := newTestModel(t, viewstate.LatestIssued, &fakeFetcher{})
	if env.ctrl.State() != viewstate.Loading {
		t.Fatalf("state = %v, want loading", env.ctrl.State())
	}
	if view := m.View(); !strings.Contains(view, "Finding a tasty lunch…") {
		t.Fatalf("loading panel missing:\n%s", view)
	}
}

func TestInitLoadsRandomMeal(t *testing.T) {
	m, _ := loaded(t, testMeal("52772", "Teriyaki Chicken Casserole"))
	view := m.View()
	for _, want := range []string{"Teriyaki Chicken Casserole", "3/4 cup soy sauce", "Chicken", "Japanese", "♡", "Show full recipe →"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Finding a tasty lunch") || strings.Contains(view, "Oops!") {
		t.Fatalf("more than one panel visible:\n%s", view)
	}
}

func TestFetchFailureShowsErrorAndRetries(t *testing.T) {
	fetcher := &fakeFetcher{err: &mealdb.FetchError{Op: "random", Kind: mealdb.KindTransport, Err: errors.New("dial tcp: refused")}}
	m, env := newTestModel(t, viewstate.LatestIssued, fetcher)
	m = settle(t, m, m.Init())

	if env.ctrl.State() != viewstate.Error {
		t.Fatalf("state = %v, want error", env.ctrl.State())
	}
	view := m.View()
	if !strings.Contains(view, "Oops! Something went wrong") || !strings.Contains(view, "Try again") {
		t.Fatalf("error panel missing:\n%s", view)
	}

	fetcher.mu.Lock()
	fetcher.err = nil
	fetcher.random = []mealdb.Meal{testMeal("1", "Retry Soup")}
	fetcher.mu.Unlock()

	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if env.ctrl.State() != viewstate.Loading {
		t.Fatalf("state after retry = %v, want loading", env.ctrl.State())
	}
	m = settle(t, m, cmd)
	if !strings.Contains(m.View(), "Retry Soup") {
		t.Fatalf("retry did not load meal:\n%s", m.View())
	}
}

func TestRetryButtonClick(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("boom")}
	m, env := newTestModel(t, viewstate.LatestIssued, fetcher)
	m = settle(t, m, m.Init())

	r := m.layout(m.viewModel()).retry
	if r.w == 0 {
		t.Fatalf("retry region empty")
	}
	m, cmd := updateCmd(t, m, tea.MouseMsg{X: r.x, Y: r.y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if cmd == nil || env.ctrl.State() != viewstate.Loading {
		t.Fatalf("click on retry did not start a fetch (state %v)", env.ctrl.State())
	}
	_ = m
}

func TestFavoriteToggleWithKey(t *testing.T) {
	m, env := loaded(t, testMeal("52772", "Teriyaki Chicken Casserole"))

	m = update(t, m, runes("f"))
	if !env.favs.IsFavorite("52772") || env.favs.Len() != 1 {
		t.Fatalf("favorite not added: %+v", env.favs.Entries())
	}
	view := m.View()
	if !strings.Contains(view, "♥ Teriyaki") || !strings.Contains(view, "Favorites 1") {
		t.Fatalf("heart/count not updated:\n%s", view)
	}
	if !strings.Contains(view, "Remove from favorites") {
		t.Fatalf("heart hint not updated:\n%s", view)
	}

	m = update(t, m, runes("f"))
	if env.favs.Len() != 0 {
		t.Fatalf("favorite not removed: %+v", env.favs.Entries())
	}
	if !strings.Contains(m.View(), "Favorites 0") {
		t.Fatalf("count not updated:\n%s", m.View())
	}
}

func TestFavoriteToggleIgnoredWhileLoading(t *testing.T) {
	m, env := loaded(t, testMeal("1", "Soup"))
	m, _ = updateCmd(t, m, runes("n"))
	if env.ctrl.State() != viewstate.Loading {
		t.Fatalf("state = %v, want loading", env.ctrl.State())
	}
	update(t, m, runes("f"))
	if env.favs.Len() != 0 {
		t.Fatalf("favorite added while loading")
	}
}

func TestHeartClickTogglesFavorite(t *testing.T) {
	m, env := loaded(t, testMeal("1", "Soup"))
	r := m.layout(m.viewModel()).heart
	update(t, m, tea.MouseMsg{X: r.x, Y: r.y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !env.favs.IsFavorite("1") {
		t.Fatalf("heart click did not add favorite")
	}
}

func TestStaleResultDroppedUnderLatestIssued(t *testing.T) {
	m, env := newTestModel(t, viewstate.LatestIssued, &fakeFetcher{})
	first := env.ctrl.Begin()
	second := env.ctrl.Begin()

	m = update(t, m, mealMsg{ticket: second, op: opRandom, meal: testMeal("2", "Second")})
	m = update(t, m, mealMsg{ticket: first, op: opRandom, meal: testMeal("1", "First")})

	meal, _ := env.ctrl.Meal()
	if meal.ID != "2" {
		t.Fatalf("displayed meal = %q, want 2", meal.ID)
	}
	if !strings.Contains(m.View(), "Second") {
		t.Fatalf("view does not show latest meal:\n%s", m.View())
	}
}

func TestLastResolvedWinsUnderApplyPolicy(t *testing.T) {
	m, env := newTestModel(t, viewstate.LastResolved, &fakeFetcher{})
	first := env.ctrl.Begin()
	second := env.ctrl.Begin()

	m = update(t, m, mealMsg{ticket: second, op: opRandom, meal: testMeal("2", "Second")})
	m = update(t, m, mealMsg{ticket: first, op: opRandom, meal: testMeal("1", "First")})

	meal, _ := env.ctrl.Meal()
	if meal.ID != "1" {
		t.Fatalf("displayed meal = %q, want 1", meal.ID)
	}
	if !strings.Contains(m.View(), "First") {
		t.Fatalf("view does not show last resolved meal:\n%s", m.View())
	}
}

func TestShowMoreToggle(t *testing.T) {
	m, _ := loaded(t, testMeal("1", "Soup"))
	if strings.Contains(m.View(), "Serve.") {
		t.Fatalf("instructions not clamped:\n%s", m.View())
	}

	m = update(t, m, runes("m"))
	view := m.View()
	if !strings.Contains(view, "← Show less") || !strings.Contains(view, "Serve.") {
		t.Fatalf("instructions not expanded:\n%s", view)
	}

	m = update(t, m, runes("m"))
	if !strings.Contains(m.View(), "Show full recipe →") {
		t.Fatalf("show more label not restored:\n%s", m.View())
	}
}

func TestDropdownEmptyState(t *testing.T) {
	m, _ := loaded(t, testMeal("1", "Soup"))
	m = update(t, m, runes("F"))
	view := m.View()
	if !strings.Contains(view, "No favorites yet") || !strings.Contains(view, "Press f on any meal to save it!") {
		t.Fatalf("empty dropdown text missing:\n%s", view)
	}
}

func TestDropdownSelectLoadsByIDAndCloses(t *testing.T) {
	soup, stew := testMeal("1", "Soup"), testMeal("2", "Stew")
	m, env := loaded(t, soup, stew)
	m = update(t, m, runes("f")) // save Soup
	m, next := updateCmd(t, m, runes("n"))
	m = settle(t, m, next)
	if meal, _ := env.ctrl.Meal(); meal.ID != "2" {
		t.Fatalf("expected Stew to be displayed, got %q", meal.ID)
	}

	m = update(t, m, runes("F"))
	if !m.dropdownOpen {
		t.Fatalf("dropdown not open")
	}
	view := m.View()
	if !strings.Contains(view, "Chicken • Japanese") || !strings.Contains(view, "×") {
		t.Fatalf("dropdown entry missing:\n%s", view)
	}

	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.dropdownOpen {
		t.Fatalf("dropdown should close after selecting")
	}
	m = settle(t, m, cmd)
	if meal, _ := env.ctrl.Meal(); meal.ID != "1" {
		t.Fatalf("displayed meal = %q, want 1", meal.ID)
	}
	if got := env.fetcher.lookups; len(got) != 1 || got[0] != "1" {
		t.Fatalf("lookups = %v, want [1]", got)
	}
}

func TestDropdownRemoveKeepsOpenAndMeal(t *testing.T) {
	m, env := loaded(t, testMeal("1", "Soup"))
	m = update(t, m, runes("f"))
	m = update(t, m, runes("F"))

	m = update(t, m, runes("x"))
	if !m.dropdownOpen {
		t.Fatalf("dropdown closed after remove")
	}
	if env.favs.Len() != 0 {
		t.Fatalf("entry not removed")
	}
	if meal, _ := env.ctrl.Meal(); meal.ID != "1" || env.ctrl.State() != viewstate.Loaded {
		t.Fatalf("remove changed the displayed meal")
	}
	if !strings.Contains(m.View(), "♡ Soup") {
		t.Fatalf("heart not cleared after remove:\n%s", m.View())
	}
}

func TestDropdownClickRemove(t *testing.T) {
	m, env := loaded(t, testMeal("1", "Soup"))
	m = update(t, m, runes("f"))
	m = update(t, m, runes("F"))

	r := m.layout(m.viewModel()).dropdown
	x := r.x + r.w - 3
	y := r.y + dropdownRows
	m = update(t, m, tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if env.favs.Len() != 0 {
		t.Fatalf("click on × did not remove entry")
	}
	if !m.dropdownOpen {
		t.Fatalf("dropdown closed after remove click")
	}
}

func TestDropdownClickEntryLoads(t *testing.T) {
	m, env := loaded(t, testMeal("1", "Soup"))
	m = update(t, m, runes("f"))
	m = update(t, m, runes("F"))

	r := m.layout(m.viewModel()).dropdown
	m, cmd := updateCmd(t, m, tea.MouseMsg{X: r.x + 4, Y: r.y + dropdownRows + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.dropdownOpen {
		t.Fatalf("dropdown should close after selecting")
	}
	settle(t, m, cmd)
	if got := env.fetcher.lookups; len(got) != 1 || got[0] != "1" {
		t.Fatalf("lookups = %v, want [1]", got)
	}
}

func TestOutsideClickClosesDropdown(t *testing.T) {
	m, _ := loaded(t, testMeal("1", "Soup"))
	m = update(t, m, runes("f"))

	toggle := m.layout(m.viewModel()).toggle
	m = update(t, m, tea.MouseMsg{X: toggle.x, Y: toggle.y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.dropdownOpen {
		t.Fatalf("toggle click did not open dropdown")
	}

	r := m.layout(m.viewModel()).dropdown
	m = update(t, m, tea.MouseMsg{X: r.x + 2, Y: r.y + 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if !m.dropdownOpen {
		t.Fatalf("click inside dropdown closed it")
	}

	m = update(t, m, tea.MouseMsg{X: 2, Y: testHeight - 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.dropdownOpen {
		t.Fatalf("outside click did not close dropdown")
	}
}

func TestToggleClickClosesOpenDropdown(t *testing.T) {
	m, _ := loaded(t, testMeal("1", "Soup"))
	m = update(t, m, runes("F"))
	toggle := m.layout(m.viewModel()).toggle
	m = update(t, m, tea.MouseMsg{X: toggle.x + 1, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if m.dropdownOpen {
		t.Fatalf("toggle click did not close dropdown")
	}
}

func TestEscapeClosesDropdown(t *testing.T) {
	m, _ := loaded(t, testMeal("1", "Soup"))
	m = update(t, m, runes("F"))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.dropdownOpen {
		t.Fatalf("esc did not close dropdown")
	}
}

func TestLanguageToggleRelabels(t *testing.T) {
	m, _ := loaded(t, testMeal("1", "Soup"))
	if !strings.Contains(m.View(), "EN") {
		t.Fatalf("language label missing:\n%s", m.View())
	}

	m = update(t, m, runes("L"))
	view := m.View()
	for _, want := range []string{"Mittagsvorschlag", "DE", "Zutaten", "Ganzes Rezept anzeigen →"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q after switching:\n%s", want, view)
		}
	}
	if !strings.Contains(view, "Soup") {
		t.Fatalf("meal lost after language switch")
	}
}

func TestHelpOverlay(t *testing.T) {
	m, _ := loaded(t, testMeal("1", "Soup"))
	m = update(t, m, runes("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help not shown:\n%s", m.View())
	}
	m = update(t, m, runes("x"))
	if m.showHelp {
		t.Fatalf("any key should close help")
	}
}

func TestRecipeURLPreference(t *testing.T) {
	meal := testMeal("1", "Soup")
	if got := recipeURL(meal); got != meal.Source {
		t.Fatalf("recipeURL = %q, want source", got)
	}
	meal.Source = ""
	meal.YouTube = "https://youtube.test/watch?v=1"
	if got := recipeURL(meal); got != meal.YouTube {
		t.Fatalf("recipeURL = %q, want youtube", got)
	}
	meal.YouTube = ""
	if got := recipeURL(meal); got != meal.Thumbnail {
		t.Fatalf("recipeURL = %q, want thumbnail", got)
	}
	meal.Thumbnail = ""
	if got := recipeURL(meal); got != "" {
		t.Fatalf("recipeURL = %q, want empty", got)
	}
}

func TestOpenURLCmdReportsError(t *testing.T) {
	var got string
	msg := openURLCmd(func(u string) error { got = u; return errors.New("no browser") }, "https://example.test")()
	opened, ok := msg.(openedMsg)
	if !ok || opened.err == nil || got != "https://example.test" {
		t.Fatalf("openURLCmd = %#v, opened %q", msg, got)
	}
}

func TestInstructionLinesClamp(t *testing.T) {
	text := "one\r\ntwo\r\nthree\r\nfour\r\nfive"
	lines := instructionLines(text, 40, true)
	if len(lines) != 4 {
		t.Fatalf("clamped lines = %d, want 4: %q", len(lines), lines)
	}
	if !strings.HasSuffix(lines[3], "…") {
		t.Fatalf("last clamped line = %q, want ellipsis", lines[3])
	}
	if got := instructionLines(text, 40, false); len(got) != 5 {
		t.Fatalf("expanded lines = %d, want 5", len(got))
	}
	if got := instructionLines("  ", 40, true); got != nil {
		t.Fatalf("blank instructions = %q, want nil", got)
	}
}
