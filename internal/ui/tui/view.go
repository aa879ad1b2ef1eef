package tui

import (
	"fmt"
	"strings"
	"time"
)

func renderView(m Model) string {
	var b strings.Builder

	switch {
	case m.Done && m.Err != nil:
		b.WriteString(failedStyle.Render(crossMark + " " + m.Err.Error()))
	case m.Done:
		b.WriteString(readyStyle.Render(checkMark + " " + m.Title))
	default:
		b.WriteString(activeStyle.Render(currentSpinner(m.SpinnerFrame) + " "))
		b.WriteString(titleStyle.Render(m.Title))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  %s", formatDuration(time.Since(m.StartTime)))))
	}
	b.WriteString("\n")

	return b.String()
}

// RenderCreated formats the success summary: the created message and the
// console URL of the navigation target.
func RenderCreated(message, link string) string {
	var b strings.Builder
	b.WriteString(readyStyle.Render(checkMark + " " + message))
	b.WriteString("\n")
	if link != "" {
		b.WriteString("  ")
		b.WriteString(linkStyle.Render(link))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderError formats a submission error.
func RenderError(message string) string {
	return failedStyle.Render(crossMark+" "+message) + "\n"
}

func currentSpinner(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
