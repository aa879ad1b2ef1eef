package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Model shows a spinner while a CronTab create request is in flight.
type Model struct {
	// Title is shown next to the spinner, e.g. "Creating CronTab...".
	Title string

	SpinnerFrame int
	StartTime    time.Time

	Done bool
	Err  error
}

// NewModel creates a submission progress model.
func NewModel(title string) Model {
	return Model{Title: title, StartTime: time.Now()}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model. The model ignores key presses other than
// ctrl+c while the request is in flight, so the submission cannot be
// abandoned halfway through.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case TickMsg:
		if m.Done {
			return m, nil
		}
		m.SpinnerFrame++
		return m, tickCmd()

	case SubmittedMsg:
		m.Done = true
		m.Err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}

func tickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}
