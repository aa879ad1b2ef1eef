package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// RunSubmit runs fn while showing a spinner titled title, and returns fn's
// error. output receives the rendered view; nil means stdout.
func RunSubmit(ctx context.Context, title string, output io.Writer, fn func(ctx context.Context) error) error {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if output != nil {
		opts = append(opts, tea.WithOutput(output), tea.WithInput(nil))
	}
	p := tea.NewProgram(NewModel(title), opts...)

	result := make(chan error, 1)
	go func() {
		err := fn(ctx)
		result <- err
		p.Send(SubmittedMsg{Err: err})
	}()

	if _, err := p.Run(); err != nil {
		// The program was interrupted; still report the request outcome.
		if fnErr := <-result; fnErr != nil {
			return fnErr
		}
		return fmt.Errorf("TUI error: %w", err)
	}
	return <-result
}
