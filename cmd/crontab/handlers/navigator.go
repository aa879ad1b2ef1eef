package handlers

import "strings"

// consoleNavigator records where the form sends the user. The CLI prints
// the console URL instead of switching views.
type consoleNavigator struct {
	baseURL string

	target    string
	cancelled bool
}

func (n *consoleNavigator) Navigate(path string) {
	n.target = path
}

func (n *consoleNavigator) Back() {
	n.cancelled = true
}

// URL returns the console URL of the last navigation target.
func (n *consoleNavigator) URL() string {
	if n.target == "" {
		return ""
	}
	return strings.TrimRight(n.baseURL, "/") + n.target
}
