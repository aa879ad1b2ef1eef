package form

import (
	"context"
	"strconv"
	"strings"
	"sync"

	crontabv1 "github.com/imamik/crontab-plugin/api/v1"
	"github.com/imamik/crontab-plugin/internal/i18n"
	"github.com/imamik/crontab-plugin/internal/templates"
)

// DefaultNamespace is used when no active namespace is configured.
const DefaultNamespace = "default"

// Creator issues the create request for a CronTab.
type Creator interface {
	Create(ctx context.Context, ct *crontabv1.CronTab) error
}

// Navigator moves the user to another console view.
type Navigator interface {
	// Navigate opens the given console path.
	Navigate(path string)
	// Back returns to the previous view. It is called with the form
	// locked and must not call back into the Form.
	Back()
}

// Translator resolves user-facing message IDs.
type Translator interface {
	T(key string, data map[string]any) string
}

// Mode is the active editing view.
type Mode string

// Editing views.
const (
	ModeForm Mode = "form"
	ModeYAML Mode = "yaml"
)

// Phase is the submission state.
type Phase string

// Submission phases.
const (
	PhaseIdle       Phase = "Idle"
	PhaseSubmitting Phase = "Submitting"
	PhaseSucceeded  Phase = "Succeeded"
)

// Options configures a Form.
type Options struct {
	// Namespace is the active namespace injected into every created object.
	Namespace string

	Creator    Creator
	Navigator  Navigator
	Translator Translator

	// YAMLEditor enables the YAML view.
	YAMLEditor bool

	// YAMLTemplate seeds the YAML editor. Defaults to the built-in template.
	YAMLTemplate string
}

// State is a snapshot of the form.
type State struct {
	Name     string
	CronSpec string
	Image    string
	// Replicas is nil when the field is empty.
	Replicas *int

	Phase   Phase
	Loading bool
	Error   string

	Mode Mode
	YAML string
}

// Form is the CronTab create form. It is safe for concurrent use.
type Form struct {
	namespace  string
	creator    Creator
	navigator  Navigator
	translator Translator
	yamlEditor bool

	mu          sync.Mutex
	name        string
	cronSpec    string
	image       string
	replicas    *int
	replicasSet bool
	phase       Phase
	errMsg      string
	mode        Mode
	yamlContent string
}

// New creates a Form in the idle phase with replicas set to 0.
func New(opts Options) (*Form, error) {
	if opts.Creator == nil {
		return nil, ErrMissingCreator
	}
	if opts.Navigator == nil {
		return nil, ErrMissingNavigator
	}

	f := &Form{
		namespace:   opts.Namespace,
		creator:     opts.Creator,
		navigator:   opts.Navigator,
		translator:  opts.Translator,
		yamlEditor:  opts.YAMLEditor,
		replicas:    intPtr(0),
		phase:       PhaseIdle,
		mode:        ModeForm,
		yamlContent: strings.TrimSpace(opts.YAMLTemplate),
	}
	if f.namespace == "" {
		f.namespace = DefaultNamespace
	}
	if f.translator == nil {
		f.translator = i18n.Default()
	}
	if f.yamlContent == "" {
		f.yamlContent = templates.DefaultCronTabYAML()
	}
	return f, nil
}

// Namespace returns the namespace objects are created in.
func (f *Form) Namespace() string { return f.namespace }

// YAMLEditorEnabled reports whether the YAML view is available.
func (f *Form) YAMLEditorEnabled() bool { return f.yamlEditor }

// SetName sets metadata.name.
func (f *Form) SetName(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.name = v
}

// SetCronSpec sets spec.cronSpec.
func (f *Form) SetCronSpec(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cronSpec = v
}

// SetImage sets spec.image.
func (f *Form) SetImage(v string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.image = v
}

// SetReplicas sets spec.replicas.
func (f *Form) SetReplicas(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replicas = intPtr(n)
	f.replicasSet = true
}

// SetReplicasText handles direct entry into the replicas field. Text that
// is not an integer leaves the field empty. Negative values are kept and
// rejected at submission.
func (f *Form) SetReplicasText(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := ParseReplicas(s)
	if !ok {
		f.replicas = nil
		f.replicasSet = false
		return
	}
	f.replicas = intPtr(n)
	f.replicasSet = true
}

// IncrementReplicas adds one, treating an empty field as 0.
func (f *Form) IncrementReplicas() {
	f.stepReplicas(1)
}

// DecrementReplicas subtracts one, treating an empty field as 0. There is
// no floor.
func (f *Form) DecrementReplicas() {
	f.stepReplicas(-1)
}

func (f *Form) stepReplicas(delta int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	current := 0
	if f.replicas != nil {
		current = *f.replicas
	}
	f.replicas = intPtr(current + delta)
	f.replicasSet = true
}

// SetYAML replaces the YAML editor content.
func (f *Form) SetYAML(content string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.yamlContent = content
}

// ToggleView switches between the form and YAML views and returns the new
// view.
func (f *Form) ToggleView() (Mode, error) {
	if !f.yamlEditor {
		return ModeForm, ErrYAMLEditorUnavailable
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mode == ModeForm {
		f.mode = ModeYAML
	} else {
		f.mode = ModeForm
	}
	return f.mode, nil
}

// Mode returns the active view.
func (f *Form) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// CanSubmit reports whether the form's create control is enabled: no
// submission is in flight and name, cronSpec and image are all non-empty.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase != PhaseSubmitting && requiredFieldsPresent(f.name, f.cronSpec, f.image)
}

// Loading reports whether a create request is in flight.
func (f *Form) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase == PhaseSubmitting
}

// State returns a snapshot of the form.
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := State{
		Name:     f.name,
		CronSpec: f.cronSpec,
		Image:    f.image,
		Phase:    f.phase,
		Loading:  f.phase == PhaseSubmitting,
		Error:    f.errMsg,
		Mode:     f.mode,
		YAML:     f.yamlContent,
	}
	if f.replicas != nil {
		s.Replicas = intPtr(*f.replicas)
	}
	return s
}

// Cancel navigates back. It is refused while a submission is in flight.
// The form stays locked during Back, so no submission can start in between.
func (f *Form) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase == PhaseSubmitting {
		return ErrSubmitInProgress
	}
	f.navigator.Back()
	return nil
}

// ParseReplicas parses direct replicas entry. It reports false for empty or
// non-integer text.
func ParseReplicas(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func requiredFieldsPresent(name, cronSpec, image string) bool {
	return name != "" && cronSpec != "" && image != ""
}

func (f *Form) t(key string, data map[string]any) string {
	return f.translator.T(key, data)
}

func intPtr(n int) *int { return &n }
