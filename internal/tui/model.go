// Package tui provides the Bubble Tea ear-training interface.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/pitchtrainer/internal/audio"
	"github.com/verte-zerg/pitchtrainer/internal/keymap"
	"github.com/verte-zerg/pitchtrainer/internal/model"
	"github.com/verte-zerg/pitchtrainer/internal/notes"
	"github.com/verte-zerg/pitchtrainer/internal/stats"
	"github.com/verte-zerg/pitchtrainer/internal/store"
	"github.com/verte-zerg/pitchtrainer/internal/trainer"
)

const promptText = "Press space to play a random note and respond with a key press."

// NoteMsg is a note event from an external input surface such as a MIDI keyboard.
type NoteMsg struct {
	Pitch   int
	Pressed bool
}

// InputErrMsg reports a failed external input surface.
type InputErrMsg struct {
	Err error
}

// Model implements the Bubble Tea trainer UI.
type Model struct {
	engine *trainer.Engine
	player audio.Player
	store  *store.Store
	runID  int64
	keys   *keymap.Map
	now    func() time.Time

	width  int
	height int

	challengeAt time.Time
	background  string
	held        int
	holding     bool

	attempts   int
	correct    int
	bestStreak int

	showStats bool
	noteTable table.Model
	message   string
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#1E1E1E"))
	panelStyle    = lipgloss.NewStyle().Padding(1, 4).Foreground(lipgloss.Color("#1E1E1E"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	statsBoxStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// NewModel constructs a trainer TUI model. runID identifies this run in st.
func NewModel(engine *trainer.Engine, player audio.Player, st *store.Store, runID int64) *Model {
	r := engine.Range()
	m := &Model{
		engine:     engine,
		player:     player,
		store:      st,
		runID:      runID,
		keys:       keymap.New(r.First, r.Last),
		now:        time.Now,
		background: notes.DefaultColor,
		noteTable:  newNoteTable(),
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case NoteMsg:
		if msg.Pressed {
			m.press(msg.Pitch)
		} else if m.holding && m.held == msg.Pitch {
			m.holding = false
		}
		return m, nil
	case InputErrMsg:
		m.message = fmt.Sprintf("input disconnected: %v", msg.Err)
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeySpace:
		m.startChallenge()
		return m, nil
	case tea.KeyEnter:
		m.replay()
		return m, nil
	case tea.KeyTab:
		m.showStats = !m.showStats
		if m.showStats {
			m.refreshNoteTable()
		}
		return m, nil
	case tea.KeyLeft:
		m.shiftRange(-1, 0)
		return m, nil
	case tea.KeyRight:
		m.shiftRange(1, 0)
		return m, nil
	case tea.KeyDown:
		m.shiftRange(0, -1)
		return m, nil
	case tea.KeyUp:
		m.shiftRange(0, 1)
		return m, nil
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) != 1 {
			return m, nil
		}
		if pitch, ok := m.keys.Pitch(string(msg.Runes)); ok {
			m.press(pitch)
		}
		return m, nil
	default:
		return m, nil
	}
}

func (m *Model) startChallenge() {
	pitch := m.engine.StartChallenge()
	m.challengeAt = m.now()
	m.player.Play(pitch)
}

func (m *Model) replay() {
	st := m.engine.State()
	if !st.HasChallenge {
		return
	}
	m.player.Play(st.Challenge)
}

func (m *Model) press(pitch int) {
	m.player.Play(pitch)
	m.background = notes.Color(pitch)
	m.held = pitch
	m.holding = true

	outcome := m.engine.RecordResponse(pitch)
	if outcome == trainer.Ignored {
		return
	}
	st := m.engine.State()
	m.attempts++
	if outcome == trainer.Correct {
		m.correct++
	}
	if st.Streak > m.bestStreak {
		m.bestStreak = st.Streak
	}
	m.saveAttempt(st, outcome)
	if m.showStats {
		m.refreshNoteTable()
	}
}

func (m *Model) saveAttempt(st trainer.State, outcome trainer.Outcome) {
	if m.store == nil {
		return
	}
	answeredAt := m.now()
	attempt := model.Attempt{
		RunID:      m.runID,
		Challenge:  st.Challenge,
		Response:   st.Response,
		Correct:    outcome == trainer.Correct,
		Streak:     st.Streak,
		LatencyMs:  answeredAt.Sub(m.challengeAt).Milliseconds(),
		AnsweredAt: answeredAt,
	}
	if err := m.store.InsertAttempt(context.Background(), attempt); err != nil {
		m.message = fmt.Sprintf("failed to save attempt: %v", err)
	}
}

// shiftRange moves the range bounds by the given semitones. A bound stops at
// the piano's edge, or stays put if it already lies beyond it.
func (m *Model) shiftRange(dFirst, dLast int) {
	r := m.engine.Range()
	next := trainer.NoteRange{
		First: shiftBound(r.First, dFirst),
		Last:  shiftBound(r.Last, dLast),
	}
	if next == r {
		return
	}
	if err := m.engine.SetRange(next); err != nil {
		m.message = err.Error()
		return
	}
	m.message = ""
	m.keys = keymap.New(next.First, next.Last)
}

func shiftBound(p, delta int) int {
	lo := min(p, notes.PianoFirst)
	hi := max(p, notes.PianoLast)
	return max(lo, min(hi, p+delta))
}

func (m *Model) refreshNoteTable() {
	if m.store == nil {
		return
	}
	aggs, err := m.store.NoteAggregates(context.Background(), m.runID)
	if err != nil {
		m.message = fmt.Sprintf("failed to load stats: %v", err)
		return
	}
	rows := make([]table.Row, 0, len(aggs))
	for _, agg := range aggs {
		rows = append(rows, stats.NoteRow(agg))
	}
	m.noteTable.SetRows(rows)
}

func newNoteTable() table.Model {
	columns := []table.Column{
		{Title: "Note", Width: 5},
		{Title: "Accuracy", Width: 9},
		{Title: "Latency", Width: 8},
		{Title: "Correct", Width: 7},
		{Title: "Wrong", Width: 6},
	}
	return table.New(
		table.WithColumns(columns),
		table.WithHeight(8),
		table.WithFocused(false),
	)
}

// View implements tea.Model.
func (m *Model) View() string {
	st := m.engine.State()
	panel := panelStyle.Background(lipgloss.Color(m.background)).Render(lipgloss.JoinVertical(
		lipgloss.Center,
		titleStyle.Render("Pitch Trainer!"),
		fmt.Sprintf("Streak: %d", st.Streak),
	))
	width := m.width
	if width <= 0 {
		width = 80
	}
	parts := []string{
		panel,
		"",
		renderKeyboard(m.engine.Range(), m.keys, st, m.held, m.holding, width),
		"",
		m.renderAnswer(st),
	}
	if m.showStats {
		parts = append(parts, "", statsBoxStyle.Render(m.noteTable.View()))
	}
	body := lipgloss.JoinVertical(lipgloss.Center, parts...)
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return body + "\n" + footer
	}
	bodyHeight := m.height - lipgloss.Height(footer)
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body) + "\n" +
		lipgloss.PlaceHorizontal(m.width, lipgloss.Center, footer)
}

func (m *Model) renderAnswer(st trainer.State) string {
	if !st.HasChallenge || !st.HasResponse {
		return promptText
	}
	return fmt.Sprintf("Random Note: %s\nYour Note: %s", notes.Label(st.Challenge), notes.Label(st.Response))
}

func (m *Model) renderFooter() string {
	r := m.engine.Range()
	acc := stats.Accuracy(m.correct, m.attempts-m.correct)
	segments := []string{
		fmt.Sprintf("Range %s-%s", notes.Label(r.First), notes.Label(r.Last)),
		fmt.Sprintf("Attempts %d", m.attempts),
		fmt.Sprintf("Accuracy %.1f%%", acc*100),
		fmt.Sprintf("Best streak %d", m.bestStreak),
	}
	lines := []string{
		footerStyle.Render(strings.Join(segments, "  ")),
		helpStyle.Render("space: new note  enter: replay  ←/→: lower  ↓/↑: upper  tab: stats  esc: quit"),
	}
	if m.message != "" {
		lines = append(lines, errorStyle.Render(m.message))
	}
	return strings.Join(lines, "\n")
}
