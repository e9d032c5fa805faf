package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Screen geometry.
const (
	// chromeRows are the header and command bar above the content.
	chromeRows = 2

	// mealHeadRows are the title, chip and spacer rows above the scrollable body.
	mealHeadRows = 3

	// statusRows is the hint/toast line at the bottom.
	statusRows = 1

	// DropdownWidth is the favorites panel width, border included.
	DropdownWidth = 48

	// LayoutCompactWidth hides the thumbnail line on narrow terminals.
	LayoutCompactWidth = 70
)

// Timing constants.
const (
	// ToastDuration is how long a status message stays visible.
	ToastDuration = 3 * time.Second
)

// rect is a screen region in cells; x and y are inclusive, the far edges are
// exclusive.
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// regions are the clickable areas of the current frame.
type regions struct {
	toggle   rect
	heart    rect
	retry    rect
	dropdown rect
}

// dropdownRows is the number of rows above the first entry inside the
// dropdown: top border, title and separator.
const dropdownRows = 3

// rowsPerEntry is the height of one dropdown entry: title, subtitle and
// thumbnail.
const rowsPerEntry = 3

// placeOverlay draws overlay on top of background with its top-left corner at
// (x, y). Background cells to the right of the overlay are dropped.
func placeOverlay(x, y int, overlay, background string) string {
	bgLines := strings.Split(background, "\n")
	fgLines := strings.Split(overlay, "\n")

	for i, fg := range fgLines {
		row := y + i
		if row < 0 || row >= len(bgLines) {
			continue
		}
		left := ansi.Truncate(bgLines[row], x, "")
		if pad := x - lipgloss.Width(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		bgLines[row] = left + fg
	}
	return strings.Join(bgLines, "\n")
}
