package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/five82/lunchbox/internal/render"
)

// renderHeader renders the title bar: logo and heading on the left, the
// language label and the favorites toggle on the right.
func (m Model) renderHeader(vm render.ViewModel) string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	left := bg.Render("lunchbox", styles.Logo) + sep + bg.Render(vm.Heading, styles.MutedText)

	heart := styles.HeartOff
	if vm.Count > 0 {
		heart = styles.HeartOn
	}
	toggle := styles.Text
	if vm.Favorites.Open {
		toggle = styles.AccentText.Bold(true)
	}
	right := bg.Render(vm.LanguageLabel, styles.InfoText) + sep +
		bg.Render("♥", heart) + bg.Space() + bg.Render(toggleLabel(vm), toggle)

	inner := maxInt(0, m.width-2)
	gap := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		left = ansi.Truncate(left, maxInt(0, inner-lipgloss.Width(right)-1), "")
		gap = maxInt(1, inner-lipgloss.Width(left)-lipgloss.Width(right))
	}

	return styles.Header.Width(m.width).Render(left + bg.Spaces(gap) + right)
}

// toggleLabel is the favorites toggle text after the heart, e.g. "Favorites 3".
func toggleLabel(vm render.ViewModel) string {
	return fmt.Sprintf("%s %d", vm.Favorites.Title, vm.Count)
}

// toggleWidth is the on-screen width of the favorites toggle, heart included.
func toggleWidth(vm render.ViewModel) int {
	return lipgloss.Width("♥ " + toggleLabel(vm))
}

// renderCommandBar renders the key hints under the header.
func (m Model) renderCommandBar(vm render.ViewModel) string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	t := m.printer().T

	type cmd struct{ key, desc string }
	var commands []cmd

	if vm.Favorites.Open {
		commands = []cmd{
			{"j/k", t("Scroll")},
			{"enter", t("Load meal")},
			{"x", t("Remove")},
			{"esc", t("Close")},
		}
	} else {
		commands = []cmd{{"n", vm.NewProposal}}
		if vm.Panels.Meal {
			commands = append(commands,
				cmd{"f", vm.Heart.Hint},
				cmd{"m", strings.Trim(vm.Meal.ShowMore, " →←")},
			)
		}
		commands = append(commands,
			cmd{"F", vm.Favorites.Title},
			cmd{"L", vm.LanguageLabel},
			cmd{"?", t("Help")},
			cmd{"q", t("Quit")},
		)
	}

	colon := bg.Sep(":")
	sep := bg.Spaces(2)

	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	line := strings.Join(segments, sep)
	line = ansi.Truncate(line, maxInt(0, m.width-2), "")
	return styles.Header.Width(m.width).Render(line)
}

// renderStatus renders the bottom line: a toast when one is showing,
// otherwise the heart hint for the current meal.
func (m Model) renderStatus(vm render.ViewModel) string {
	styles := m.theme.Styles()
	var line string
	switch {
	case m.toast.visible() && m.toast.danger:
		line = styles.DangerText.Render(m.toast.message)
	case m.toast.visible():
		line = styles.InfoText.Render(m.toast.message)
	case vm.Panels.Meal:
		line = styles.FaintText.Render("f " + vm.Heart.Hint)
	}
	line = ansi.Truncate(line, maxInt(0, m.width-2), "")
	return styles.Footer.Background(lipgloss.NoColor{}).Width(m.width).Render(line)
}
