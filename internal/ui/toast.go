package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// toast is a transient status line message.
type toast struct {
	message string
	danger  bool
	seq     int
}

// toastHideMsg hides the toast it was scheduled for. A newer toast bumps seq,
// so an older timer leaves it alone.
type toastHideMsg struct{ seq int }

func (t *toast) show(message string, danger bool) tea.Cmd {
	t.seq++
	t.message = message
	t.danger = danger
	seq := t.seq
	return tea.Tick(ToastDuration, func(time.Time) tea.Msg {
		return toastHideMsg{seq: seq}
	})
}

func (t *toast) hide(seq int) {
	if seq != t.seq {
		return
	}
	t.message = ""
	t.danger = false
}

func (t toast) visible() bool {
	return t.message != ""
}
