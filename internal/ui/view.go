package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/lunchbox/internal/render"
)

// renderMain renders the full screen.
func (m Model) renderMain() string {
	vm := m.viewModel()

	var b strings.Builder
	b.WriteString(m.renderHeader(vm))
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar(vm))
	b.WriteString("\n")
	b.WriteString(m.renderContent(vm))
	b.WriteString("\n")
	b.WriteString(m.renderStatus(vm))

	out := b.String()
	if vm.Favorites.Open {
		r := m.layout(vm).dropdown
		out = placeOverlay(r.x, r.y, m.renderDropdown(vm, r.w), out)
	}
	return out
}

func (m Model) contentHeight() int {
	return maxInt(1, m.height-chromeRows-statusRows)
}

// renderContent renders exactly one of the loading, meal and error panels,
// padded to the content height.
func (m Model) renderContent(vm render.ViewModel) string {
	var lines []string
	switch {
	case vm.Panels.Loading:
		lines = m.loadingLines(vm)
	case vm.Panels.Error:
		lines = m.errorLines(vm)
	case vm.Panels.Meal:
		lines = m.mealLines(vm)
	}

	h := m.contentHeight()
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// centered places block in the middle of the content area and returns its
// lines with the top offset applied.
func (m Model) centered(block []string) []string {
	top := maxInt(0, (m.contentHeight()-len(block))/2)
	lines := make([]string, 0, top+len(block))
	for i := 0; i < top; i++ {
		lines = append(lines, "")
	}
	for _, l := range block {
		lines = append(lines, lipgloss.PlaceHorizontal(m.width, lipgloss.Center, l))
	}
	return lines
}

func (m Model) loadingLines(vm render.ViewModel) []string {
	styles := m.theme.Styles()
	return m.centered([]string{
		m.spinner.View() + " " + styles.MutedText.Render(vm.Loading),
	})
}

func (m Model) errorBlock(vm render.ViewModel) []string {
	styles := m.theme.Styles()
	retry := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Background)).
		Background(lipgloss.Color(m.theme.Accent)).
		Padding(0, 1).
		Render(vm.Error.Retry)
	return []string{
		styles.DangerText.Render(vm.Error.Title),
		"",
		styles.MutedText.Render(vm.Error.Message),
		"",
		retry,
	}
}

func (m Model) errorLines(vm render.ViewModel) []string {
	return m.centered(m.errorBlock(vm))
}

func (m Model) mealLines(vm render.ViewModel) []string {
	styles := m.theme.Styles()
	p := vm.Meal

	heart := styles.HeartOff.Render(vm.Heart.Glyph)
	if vm.Heart.Active {
		heart = styles.HeartOn.Render(vm.Heart.Glyph)
	}
	title := " " + heart + " " + styles.AccentText.Bold(true).Render(p.Title)

	chips := []string{styles.ChipStyle(m.theme.Warning).Render(p.Category)}
	chips = append(chips, styles.ChipStyle(m.theme.Info).Render(p.Area))
	for _, tag := range p.Tags {
		chips = append(chips, styles.FaintText.Render("#"+tag))
	}
	chipLine := " " + strings.Join(chips, " ")

	var thumb string
	if m.width >= LayoutCompactWidth && p.Thumbnail != "" {
		thumb = " " + styles.FaintText.Render(truncateMiddle(p.Thumbnail, m.width-2))
	}

	lines := []string{
		ansi.Truncate(title, m.width, ""),
		ansi.Truncate(chipLine, m.width, ""),
		thumb,
	}
	return append(lines, strings.Split(m.body.View(), "\n")...)
}

// bodyContent is the scrollable part of the meal panel.
func (m Model) bodyContent(vm render.ViewModel) string {
	styles := m.theme.Styles()
	p := vm.Meal
	width := maxInt(10, m.width-4)
	pad := lipgloss.NewStyle().PaddingLeft(1)

	var b strings.Builder

	b.WriteString(styles.Text.Bold(true).Render(p.IngredientsLabel))
	b.WriteString("\n")
	for _, ing := range p.Ingredients {
		b.WriteString(styles.FaintText.Render("  • "))
		b.WriteString(styles.Text.Render(truncate(ing.String(), width-4)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.Text.Bold(true).Render(p.InstructionsLabel))
	b.WriteString("\n")
	for _, line := range instructionLines(p.Instructions, width, p.Clamped) {
		b.WriteString(styles.Text.Render(line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(styles.AccentText.Render(p.ShowMore))
	b.WriteString(styles.FaintText.Render("  (m)"))
	b.WriteString("\n\n")
	b.WriteString(styles.FaintText.Render("n  " + p.Another))

	return pad.Render(b.String())
}

// instructionLines wraps text to width and, when clamped, keeps the first
// render.ClampLines lines.
func instructionLines(text string, width int, clamped bool) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}
	wrapped := lipgloss.NewStyle().Width(width).Render(text)
	lines := strings.Split(wrapped, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	if clamped && len(lines) > render.ClampLines {
		lines = lines[:render.ClampLines]
		last := render.ClampLines - 1
		lines[last] = truncate(lines[last], width-1) + "…"
	}
	return lines
}

// renderDropdown renders the favorites panel at the given outer width.
func (m Model) renderDropdown(vm render.ViewModel, width int) string {
	styles := m.theme.Styles()
	d := vm.Favorites
	inner := maxInt(8, width-4)

	var lines []string
	lines = append(lines,
		styles.Text.Bold(true).Render(d.Title)+" "+styles.FaintText.Render(strconv.Itoa(vm.Count)),
		styles.FaintText.Render(strings.Repeat("─", inner)),
	)

	if d.Empty {
		lines = append(lines,
			styles.MutedText.Render(truncate(d.EmptyText, inner)),
			styles.FaintText.Render(truncate(d.EmptyHint, inner)),
		)
	} else {
		start, end := m.visibleEntries(len(d.Entries))
		for i := start; i < end; i++ {
			lines = append(lines, m.entryLines(d.Entries[i], i == m.cursor, inner)...)
		}
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(0, 1).
		Width(width - 2)

	return box.Render(strings.Join(lines, "\n"))
}

func (m Model) entryLines(e render.FavoriteItem, focused bool, inner int) []string {
	styles := m.theme.Styles()

	marker := "  "
	titleStyle := styles.Text
	if e.Current {
		titleStyle = styles.AccentText
	}
	if focused {
		marker = styles.AccentText.Render("› ")
		titleStyle = titleStyle.Bold(true)
	}

	name := padRight(titleStyle.Render(truncate(e.Title, inner-4)), inner-4)
	first := marker + name + " " + styles.DangerText.Render(e.Remove)

	second := "  " + styles.MutedText.Render(truncate(e.Subtitle, inner-2))
	third := "  " + styles.FaintText.Render(truncateMiddle(e.Thumbnail, inner-2))
	return []string{first, second, third}
}

// maxVisibleEntries is how many entries fit below the header row.
func (m Model) maxVisibleEntries() int {
	avail := m.height - 1 - dropdownRows - 1
	return maxInt(1, avail/rowsPerEntry)
}

// visibleEntries returns the window of entries that keeps the cursor on
// screen.
func (m Model) visibleEntries(n int) (int, int) {
	limit := m.maxVisibleEntries()
	if n <= limit {
		return 0, n
	}
	start := clampInt(m.cursor-limit+1, 0, n-limit)
	return start, start + limit
}

// layout computes the clickable regions for vm at the current size. It
// mirrors renderMain.
func (m Model) layout(vm render.ViewModel) regions {
	var r regions

	tw := toggleWidth(vm)
	r.toggle = rect{x: m.width - 1 - tw, y: 0, w: tw, h: 1}

	switch {
	case vm.Panels.Meal:
		r.heart = rect{x: 1, y: chromeRows, w: lipgloss.Width(vm.Heart.Glyph), h: 1}
	case vm.Panels.Error:
		block := m.errorBlock(vm)
		top := maxInt(0, (m.contentHeight()-len(block))/2)
		bw := lipgloss.Width(block[len(block)-1])
		r.retry = rect{
			x: maxInt(0, (m.width-bw)/2),
			y: chromeRows + top + len(block) - 1,
			w: bw,
			h: 1,
		}
	}

	if vm.Favorites.Open {
		w := DropdownWidth
		if w > m.width {
			w = m.width
		}
		h := lipgloss.Height(m.renderDropdown(vm, w))
		r.dropdown = rect{x: maxInt(0, m.width-w), y: 1, w: w, h: h}
	}
	return r
}

// entryAt maps a click inside the dropdown to an entry index. remove reports
// whether the click hit the entry's remove glyph.
func (m Model) entryAt(vm render.ViewModel, r rect, x, y int) (index int, remove bool, ok bool) {
	if vm.Favorites.Empty {
		return 0, false, false
	}
	row := y - r.y - dropdownRows
	if row < 0 {
		return 0, false, false
	}
	start, end := m.visibleEntries(len(vm.Favorites.Entries))
	index = start + row/rowsPerEntry
	if index >= end {
		return 0, false, false
	}
	// Remove glyph sits in the last content column, before padding and border.
	remove = row%rowsPerEntry == 0 && x >= r.x+r.w-4
	return index, remove, true
}
