// Package ui is the Bubble Tea front end for lunchbox.
//
// The Model owns no domain rules. Key presses and mouse clicks are turned into
// calls on the favorites store, the view state controller and the language
// switcher, and every frame is drawn from render.Render. Fetches run as
// tea.Cmds tagged with a controller ticket, so a result that arrives after a
// newer request can be dropped.
//
// # Layout
//
//   - Row 0: logo, heading, language label and the favorites toggle
//   - Row 1: key hints for the current mode
//   - Content: exactly one of the loading, meal and error panels
//   - Last row: heart hint or a short-lived toast
//
// The favorites dropdown is drawn over the top-right corner. A click outside
// it and outside its toggle closes it.
//
// # Key Bindings
//
//   - n/r: new proposal (retry on the error panel, as does enter)
//   - f: toggle favorite for the displayed meal
//   - F/tab: open or close favorites; j/k, enter to load, x to remove
//   - m/Space: show the full recipe or clamp it again
//   - o: open the recipe source in a browser
//   - L: switch language
//   - T: cycle theme
//   - h/?: help
//   - q/ctrl+c: quit
package ui
