package form

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/yaml"

	crontabv1 "github.com/imamik/crontab-plugin/api/v1"
)

// Message IDs shared with the locale catalogs.
const (
	msgCreateFailed     = "Error creating CronTab: {{.err}}"
	msgInvalidYAML      = "Invalid YAML: {{.err}}"
	msgMissingName      = "YAML must include metadata.name or metadata.generateName"
	msgMissingSpec      = "YAML must include spec"
	msgUnexpectedKind   = "YAML must describe a {{.kind}} ({{.apiVersion}})"
	msgRequiredFields   = "Name, CronSpec and Image are required"
	msgInvalidSchedule  = "Invalid CronSpec {{.spec}}: {{.err}}"
	msgNegativeReplicas = "Replicas must be zero or greater"
)

// document is the subset of a CronTab manifest read from the YAML editor.
// Pointers distinguish absent sections from empty ones.
type document struct {
	APIVersion string                 `json:"apiVersion,omitempty"`
	Kind       string                 `json:"kind,omitempty"`
	Metadata   *metav1.ObjectMeta     `json:"metadata,omitempty"`
	Spec       *crontabv1.CronTabSpec `json:"spec,omitempty"`
}

// Submit creates a CronTab from the form fields. On success it navigates to
// the new object's detail view.
//
// A *ValidationError is returned without contacting the cluster when a
// required field is empty, replicas is negative or cronSpec is not a valid
// schedule. A rejected create returns a *CreateError. In both cases the
// localized message is also kept in the form state.
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.phase == PhaseSubmitting {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}
	f.phase = PhaseSubmitting
	f.errMsg = ""

	spec := crontabv1.CronTabSpec{
		CronSpec: f.cronSpec,
		Image:    f.image,
		Replicas: replicasOrZero(f.replicas),
	}
	name := f.name
	if !requiredFieldsPresent(name, spec.CronSpec, spec.Image) {
		return f.rejectLocked(ModeForm, &ValidationError{Message: f.t(msgRequiredFields, nil), Err: ErrRequiredFields})
	}
	if verr := f.validateSpec(spec); verr != nil {
		return f.rejectLocked(ModeForm, verr)
	}
	ct := crontabv1.NewCronTab(f.namespace, name, spec)
	f.mu.Unlock()

	return f.create(ctx, ModeForm, ct, func(created *crontabv1.CronTab) string {
		return DetailPath(created.Namespace, created.Name)
	})
}

// SubmitYAML creates a CronTab from the YAML editor content. The parsed
// metadata gets the form's namespace; cronSpec and image are taken from the
// form fields when non-empty, and replicas when it was entered or stepped,
// zero included. The YAML values are used otherwise. On success it navigates to the CronTab list view.
func (f *Form) SubmitYAML(ctx context.Context) error {
	if !f.yamlEditor {
		return ErrYAMLEditorUnavailable
	}

	f.mu.Lock()
	if f.phase == PhaseSubmitting {
		f.mu.Unlock()
		return ErrSubmitInProgress
	}
	f.phase = PhaseSubmitting
	f.errMsg = ""

	ct, verr := f.buildFromYAMLLocked()
	if verr != nil {
		return f.rejectLocked(ModeYAML, verr)
	}
	f.mu.Unlock()

	return f.create(ctx, ModeYAML, ct, func(created *crontabv1.CronTab) string {
		return ListPath(created.Namespace)
	})
}

// buildFromYAMLLocked parses the editor content and merges it with the
// tracked form fields. f.mu must be held.
func (f *Form) buildFromYAMLLocked() (*crontabv1.CronTab, *ValidationError) {
	var doc document
	if err := yaml.Unmarshal([]byte(f.yamlContent), &doc); err != nil {
		return nil, f.invalidYAML(err.Error(), fmt.Errorf("%w: %v", ErrMalformedYAML, err))
	}
	if doc.Metadata == nil || (doc.Metadata.Name == "" && doc.Metadata.GenerateName == "") {
		return nil, f.invalidYAML(f.t(msgMissingName, nil), ErrMissingName)
	}
	if doc.Spec == nil {
		return nil, f.invalidYAML(f.t(msgMissingSpec, nil), ErrMissingSpec)
	}

	apiVersion := doc.APIVersion
	if apiVersion == "" {
		apiVersion = crontabv1.APIGroupVersion
	}
	kind := doc.Kind
	if kind == "" {
		kind = crontabv1.Kind
	}
	if apiVersion != crontabv1.APIGroupVersion || kind != crontabv1.Kind {
		reason := f.t(msgUnexpectedKind, map[string]any{"kind": crontabv1.Kind, "apiVersion": crontabv1.APIGroupVersion})
		return nil, f.invalidYAML(reason, fmt.Errorf("%w: got %s %s", ErrUnexpectedResource, apiVersion, kind))
	}

	spec := *doc.Spec
	if f.cronSpec != "" {
		spec.CronSpec = f.cronSpec
	}
	if f.image != "" {
		spec.Image = f.image
	}
	if f.replicasSet && f.replicas != nil {
		spec.Replicas = *f.replicas
	}
	if spec.CronSpec == "" || spec.Image == "" {
		return nil, &ValidationError{Message: f.t(msgRequiredFields, nil), Err: ErrRequiredFields}
	}
	if verr := f.validateSpec(spec); verr != nil {
		return nil, verr
	}

	meta := doc.Metadata.DeepCopy()
	meta.Namespace = f.namespace

	return &crontabv1.CronTab{
		TypeMeta:   metav1.TypeMeta{APIVersion: apiVersion, Kind: kind},
		ObjectMeta: *meta,
		Spec:       spec,
	}, nil
}

// validateSpec checks replicas and the cron schedule.
func (f *Form) validateSpec(spec crontabv1.CronTabSpec) *ValidationError {
	if spec.Replicas < 0 {
		return &ValidationError{Message: f.t(msgNegativeReplicas, nil), Err: ErrNegativeReplicas}
	}
	if _, err := cron.ParseStandard(spec.CronSpec); err != nil {
		return &ValidationError{
			Message: f.t(msgInvalidSchedule, map[string]any{"spec": spec.CronSpec, "err": err.Error()}),
			Err:     fmt.Errorf("%w: %v", ErrInvalidSchedule, err),
		}
	}
	return nil
}

func (f *Form) invalidYAML(reason string, cause error) *ValidationError {
	return &ValidationError{
		Message: f.t(msgInvalidYAML, map[string]any{"err": reason}),
		Err:     cause,
	}
}

// rejectLocked returns the form to idle with a validation error and
// releases f.mu.
func (f *Form) rejectLocked(mode Mode, verr *ValidationError) error {
	f.phase = PhaseIdle
	f.errMsg = verr.Message
	f.mu.Unlock()
	recordSubmission(mode, resultInvalid)
	return verr
}

// create sends ct to the cluster with f.mu released, then settles the
// phase and navigates to target on success.
func (f *Form) create(ctx context.Context, mode Mode, ct *crontabv1.CronTab, target func(*crontabv1.CronTab) string) error {
	logger := log.FromContext(ctx).WithValues("namespace", ct.Namespace, "name", ct.Name, "mode", mode)
	logger.V(1).Info("creating CronTab")

	start := time.Now()
	err := f.creator.Create(ctx, ct)
	recordCreateDuration(mode, time.Since(start))

	f.mu.Lock()
	if err != nil {
		cerr := &CreateError{
			Message: f.t(msgCreateFailed, map[string]any{"err": err.Error()}),
			Err:     err,
		}
		f.phase = PhaseIdle
		f.errMsg = cerr.Message
		f.mu.Unlock()

		logger.V(1).Info("create request rejected", "error", err.Error())
		recordSubmission(mode, resultFailed)
		return cerr
	}
	f.phase = PhaseSucceeded
	f.mu.Unlock()

	recordSubmission(mode, resultCreated)
	f.navigator.Navigate(target(ct))
	return nil
}

func replicasOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
