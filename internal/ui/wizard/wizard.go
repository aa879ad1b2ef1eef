package wizard

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/imamik/crontab-plugin/internal/form"
)

// Actions offered after editing. Create is only offered when the form can
// be submitted; Edit returns to the editor instead.
const (
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionCancel = "cancel"
)

// answers holds the values bound to the prompts of one round.
type answers struct {
	Mode     form.Mode
	Name     string
	CronSpec string
	Image    string
	Replicas string
	YAML     string
	Action   string
	// CanCreate enables the Create action.
	CanCreate bool
	// Error is the inline error from the previous round.
	Error string
}

// prompter collects answers from the user.
type prompter interface {
	ChooseView(ctx context.Context, a *answers) error
	EditForm(ctx context.Context, a *answers) error
	EditYAML(ctx context.Context, a *answers) error
	ChooseAction(ctx context.Context, a *answers) error
}

// SubmitFunc submits the form in the given mode.
type SubmitFunc func(ctx context.Context, f *form.Form, mode form.Mode) error

// Options configures Run.
type Options struct {
	Translator form.Translator
	// Submit defaults to calling Submit or SubmitYAML directly.
	Submit SubmitFunc
}

// Run prompts until the CronTab is created or the user cancels.
// Validation and create errors are shown and the user may resubmit.
func Run(ctx context.Context, f *form.Form, opts Options) error {
	return run(ctx, f, newHuhPrompter(opts.Translator), opts.Submit)
}

func run(ctx context.Context, f *form.Form, p prompter, submit SubmitFunc) error {
	if submit == nil {
		submit = Submit
	}

	for {
		a := answersFromState(f.State())

		if f.YAMLEditorEnabled() {
			if err := p.ChooseView(ctx, a); err != nil {
				return fmt.Errorf("view: %w", err)
			}
			if err := syncMode(f, a.Mode); err != nil {
				return err
			}
		}

		if a.Mode == form.ModeYAML {
			if err := p.EditYAML(ctx, a); err != nil {
				return fmt.Errorf("yaml editor: %w", err)
			}
			f.SetYAML(a.YAML)
		} else {
			shown := a.Replicas
			if err := p.EditForm(ctx, a); err != nil {
				return fmt.Errorf("form: %w", err)
			}
			applyFormAnswers(f, a, shown)
		}

		a.CanCreate = a.Mode == form.ModeYAML || f.CanSubmit()
		if !a.CanCreate {
			a.Action = ActionEdit
		}
		if err := p.ChooseAction(ctx, a); err != nil {
			return fmt.Errorf("action: %w", err)
		}
		switch {
		case a.Action == ActionCancel:
			if err := f.Cancel(); err != nil {
				return err
			}
			return ErrCancelled
		case a.Action == ActionEdit, !a.CanCreate:
			continue
		}

		err := submit(ctx, f, a.Mode)
		if err == nil {
			return nil
		}
		var verr *form.ValidationError
		var cerr *form.CreateError
		if !errors.As(err, &verr) && !errors.As(err, &cerr) {
			return err
		}
	}
}

// Submit calls Submit or SubmitYAML for mode.
func Submit(ctx context.Context, f *form.Form, mode form.Mode) error {
	if mode == form.ModeYAML {
		return f.SubmitYAML(ctx)
	}
	return f.Submit(ctx)
}

func answersFromState(s form.State) *answers {
	a := &answers{
		Mode:     s.Mode,
		Name:     s.Name,
		CronSpec: s.CronSpec,
		Image:    s.Image,
		YAML:     s.YAML,
		Action:   ActionCreate,
		Error:    s.Error,
	}
	if s.Replicas != nil {
		a.Replicas = strconv.Itoa(*s.Replicas)
	}
	return a
}

// applyFormAnswers copies the answers into the form. Replicas is only
// copied when the user changed the shown value, so an untouched field does
// not override a YAML document.
func applyFormAnswers(f *form.Form, a *answers, shownReplicas string) {
	f.SetName(a.Name)
	f.SetCronSpec(a.CronSpec)
	f.SetImage(a.Image)
	if a.Replicas != shownReplicas {
		f.SetReplicasText(a.Replicas)
	}
}

// syncMode toggles the form until its view matches want.
func syncMode(f *form.Form, want form.Mode) error {
	if f.Mode() == want {
		return nil
	}
	_, err := f.ToggleView()
	return err
}

// validateReplicas accepts empty input (treated as 0) and integers >= 0.
func validateReplicas(tr form.Translator) func(string) error {
	return func(s string) error {
		if s == "" {
			return nil
		}
		n, ok := form.ParseReplicas(s)
		if !ok {
			return &fieldError{msg: tr.T("Replicas must be a whole number", nil), err: errReplicasNotNumber}
		}
		if n < 0 {
			return &fieldError{msg: tr.T("Replicas must be zero or greater", nil), err: errReplicasNegative}
		}
		return nil
	}
}

// validateRequired rejects empty input. field is the localized label.
func validateRequired(tr form.Translator, field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return &fieldError{msg: tr.T("{{.field}} is required", map[string]any{"field": field}), err: errRequired}
		}
		return nil
	}
}
