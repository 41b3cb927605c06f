package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/pitchtrainer/internal/keymap"
	"github.com/verte-zerg/pitchtrainer/internal/notes"
	"github.com/verte-zerg/pitchtrainer/internal/trainer"
)

const keyCellWidth = 4

var (
	naturalKeyStyle    = lipgloss.NewStyle().Background(lipgloss.Color("#F0F0F0")).Foreground(lipgloss.Color("#1E1E1E"))
	accidentalKeyStyle = lipgloss.NewStyle().Background(lipgloss.Color("#2A2A2A")).Foreground(lipgloss.Color("#D0D0D0"))
	hitKeyStyle        = lipgloss.NewStyle().Background(lipgloss.Color("#52C41A")).Foreground(lipgloss.Color("#1E1E1E"))
	missKeyStyle       = lipgloss.NewStyle().Background(lipgloss.Color("#FF4D4F")).Foreground(lipgloss.Color("#1E1E1E"))
	keyGap             = lipgloss.NewStyle().Width(1).Render(" ")
)

type keyCell struct {
	name  string
	label string
	style lipgloss.Style
}

// buildKeyCells decides how each key of the range is drawn. The challenge is
// only revealed once it has been answered.
func buildKeyCells(r trainer.NoteRange, keys *keymap.Map, st trainer.State, held int, holding bool) []keyCell {
	answered := st.HasChallenge && st.HasResponse
	cells := make([]keyCell, 0, r.Size())
	for p := r.First; p <= r.Last; p++ {
		style := naturalKeyStyle
		if notes.IsAccidental(p) {
			style = accidentalKeyStyle
		}
		if holding && p == held {
			style = style.Background(lipgloss.Color(notes.Color(p))).Foreground(lipgloss.Color("#1E1E1E"))
		}
		if answered && p == st.Challenge {
			if st.Response == st.Challenge {
				style = hitKeyStyle
			} else {
				style = missKeyStyle
			}
		}
		label, _ := keys.Key(p)
		cells = append(cells, keyCell{
			name:  notes.Label(p),
			label: label,
			style: style,
		})
	}
	return cells
}

func (c keyCell) render() string {
	top := runewidth.FillRight(c.name, keyCellWidth)
	bottom := runewidth.FillRight(" "+c.label, keyCellWidth)
	return c.style.Render(top) + "\n" + c.style.Render(bottom)
}

// renderKeyboard lays the cells out left to right, wrapping onto further rows
// when the terminal is narrower than the range.
func renderKeyboard(r trainer.NoteRange, keys *keymap.Map, st trainer.State, held int, holding bool, width int) string {
	cells := buildKeyCells(r, keys, st, held, holding)
	perRow := width / (keyCellWidth + 1)
	if perRow < 1 {
		perRow = 1
	}
	rows := make([]string, 0, len(cells)/perRow+1)
	for start := 0; start < len(cells); start += perRow {
		end := start + perRow
		if end > len(cells) {
			end = len(cells)
		}
		rendered := make([]string, 0, 2*(end-start))
		for i, cell := range cells[start:end] {
			if i > 0 {
				rendered = append(rendered, keyGap)
			}
			rendered = append(rendered, cell.render())
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return strings.Join(rows, "\n\n")
}
