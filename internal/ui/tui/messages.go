// Package tui provides a Bubble Tea progress view for CronTab submission.
package tui

// TickMsg is sent periodically to advance the spinner.
type TickMsg struct{}

// SubmittedMsg reports the outcome of the create request.
type SubmittedMsg struct {
	Err error
}
