// Package wizard provides the interactive CronTab create form.
//
// It renders the form and YAML views of a [form.Form] with
// charmbracelet/huh, lets the user toggle between them, and keeps prompting
// until the CronTab is created or the user cancels. Validation and create
// errors are shown inline above the next prompt.
package wizard
