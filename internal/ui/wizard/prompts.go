package wizard

import (
	"context"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/crontab-plugin/internal/form"
	"github.com/imamik/crontab-plugin/internal/i18n"
)

var errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)

// huhPrompter renders prompts with charmbracelet/huh.
type huhPrompter struct {
	tr form.Translator
}

func newHuhPrompter(tr form.Translator) *huhPrompter {
	if tr == nil {
		tr = i18n.Default()
	}
	return &huhPrompter{tr: tr}
}

func (p *huhPrompter) t(key string) string {
	return p.tr.T(key, nil)
}

// ChooseView prompts for the form or YAML view.
func (p *huhPrompter) ChooseView(ctx context.Context, a *answers) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[form.Mode]().
				Title(p.t("Configure via")).
				Options(
					huh.NewOption(p.t("Form View"), form.ModeForm),
					huh.NewOption(p.t("YAML Editor"), form.ModeYAML),
				).
				Value(&a.Mode),
		).Title(p.t("Create CronTab")),
	).RunWithContext(ctx)
}

// EditForm prompts for the CronTab fields.
func (p *huhPrompter) EditForm(ctx context.Context, a *answers) error {
	fields := p.errorFields(a)
	fields = append(fields,
		huh.NewInput().
			Title(p.t("Name")).
			Description(p.t("A unique identifier for this CronTab within the project.")).
			Value(&a.Name).
			Validate(validateRequired(p.tr, p.t("Name"))),
		huh.NewInput().
			Title(p.t("CronSpec")).
			Description(p.t("Defines the schedule on which the job will run (e.g., */5 * * * *).")).
			Placeholder("*/5 * * * *").
			Value(&a.CronSpec).
			Validate(validateRequired(p.tr, p.t("CronSpec"))),
		huh.NewInput().
			Title(p.t("Image")).
			Description(p.t("Specifies the container image to be executed by the CronTab.")).
			Value(&a.Image).
			Validate(validateRequired(p.tr, p.t("Image"))),
		huh.NewInput().
			Title(p.t("Replicas")).
			Description(p.t("The desired number of instances of this CronTab to run.")).
			Placeholder("0").
			Value(&a.Replicas).
			Validate(validateReplicas(p.tr)),
	)

	return huh.NewForm(
		huh.NewGroup(fields...).Title(p.t("Create CronTab")),
	).RunWithContext(ctx)
}

// EditYAML opens the multi-line YAML editor.
func (p *huhPrompter) EditYAML(ctx context.Context, a *answers) error {
	fields := p.errorFields(a)
	fields = append(fields,
		huh.NewText().
			Title(p.t("YAML Editor")).
			Lines(20).
			CharLimit(0).
			ShowLineNumbers(true).
			Value(&a.YAML),
	)

	return huh.NewForm(
		huh.NewGroup(fields...).Title(p.t("Create CronTab")),
	).RunWithContext(ctx)
}

// ChooseAction prompts for the next step. Create is left out while the
// form cannot be submitted.
func (p *huhPrompter) ChooseAction(ctx context.Context, a *answers) error {
	var options []huh.Option[string]
	if a.CanCreate {
		options = append(options, huh.NewOption(p.t("Create"), ActionCreate))
	}
	options = append(options,
		huh.NewOption(p.t("Back to editing"), ActionEdit),
		huh.NewOption(p.t("Cancel"), ActionCancel),
	)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(p.t("Action")).
				Options(options...).
				Value(&a.Action),
		),
	).RunWithContext(ctx)
}

// errorFields shows the previous round's error as a note.
func (p *huhPrompter) errorFields(a *answers) []huh.Field {
	if a.Error == "" {
		return nil
	}
	return []huh.Field{huh.NewNote().Title(errorStyle.Render(a.Error))}
}
