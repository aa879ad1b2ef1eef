package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	crontabv1 "github.com/imamik/crontab-plugin/api/v1"
	"github.com/imamik/crontab-plugin/internal/form"
	"github.com/imamik/crontab-plugin/internal/k8s"
	"github.com/imamik/crontab-plugin/internal/ui/tui"
	"github.com/imamik/crontab-plugin/internal/ui/wizard"
)

// CreateOptions holds the create command's flags.
type CreateOptions struct {
	ConfigPath string
	Lang       string

	Name        string
	Schedule    string
	Image       string
	Replicas    int
	ReplicasSet bool

	File string
	YAML bool

	Namespace  string
	Kubeconfig string
	Context    string
	ConsoleURL string
	// PushGateway overrides the configured Pushgateway URL.
	PushGateway string
}

// ErrMissingInput is returned in non-interactive mode when neither a file
// nor name, schedule and image are given.
var ErrMissingInput = errors.New("--name, --schedule and --image (or --file) are required when not running in a terminal")

// clusterClient is the cluster access create needs.
type clusterClient interface {
	form.Creator
	Namespace() string
}

// Factory function variables for create - can be replaced in tests.
var (
	newClusterClient = func(opts k8s.Options) (clusterClient, error) {
		return k8s.NewClient(opts)
	}

	runWizard = wizard.Run

	runSubmit = tui.RunSubmit
)

// recordingCreator keeps the object the server accepted, so generated
// names can be reported.
type recordingCreator struct {
	form.Creator
	created *crontabv1.CronTab
}

func (c *recordingCreator) Create(ctx context.Context, ct *crontabv1.CronTab) error {
	if err := c.Creator.Create(ctx, ct); err != nil {
		return err
	}
	c.created = ct
	return nil
}

// Create handles the create command.
//
// The CronTab comes from, in order of preference:
//  1. --file: a YAML document, flags overlay its spec
//  2. --name, --schedule and --image
//  3. the interactive form, when stdin and stdout are terminals
func Create(ctx context.Context, opts CreateOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	tr, err := newTranslator(opts.Lang, cfg)
	if err != nil {
		return err
	}

	pushGateway := opts.PushGateway
	if pushGateway == "" {
		pushGateway = cfg.PushGateway
	}
	defer pushMetrics(ctx, pushGateway)

	client, err := newClusterClient(k8s.Options{
		KubeconfigPath: opts.Kubeconfig,
		Context:        opts.Context,
		Namespace:      opts.Namespace,
	})
	if err != nil {
		return err
	}

	consoleURL := opts.ConsoleURL
	if consoleURL == "" {
		consoleURL = cfg.BaseAddress
	}
	nav := &consoleNavigator{baseURL: consoleURL}
	creator := &recordingCreator{Creator: client}

	f, err := form.New(form.Options{
		Namespace:  client.Namespace(),
		Creator:    creator,
		Navigator:  nav,
		Translator: tr,
		YAMLEditor: true,
	})
	if err != nil {
		return err
	}
	applyFlags(f, opts)

	switch {
	case opts.File != "":
		content, err := readDocument(opts.File)
		if err != nil {
			return err
		}
		f.SetYAML(content)
		err = f.SubmitYAML(ctx)
		if err != nil {
			return submitError(f, err)
		}

	case opts.Name != "" && opts.Schedule != "" && opts.Image != "":
		if err := f.Submit(ctx); err != nil {
			return submitError(f, err)
		}

	case isInteractive():
		if opts.YAML {
			if _, err := f.ToggleView(); err != nil {
				return err
			}
		}
		err := runWizard(ctx, f, wizard.Options{
			Translator: tr,
			Submit: func(ctx context.Context, f *form.Form, mode form.Mode) error {
				return runSubmit(ctx, tr.T("Creating CronTab...", nil), nil, func(ctx context.Context) error {
					return wizard.Submit(ctx, f, mode)
				})
			},
		})
		if errors.Is(err, wizard.ErrCancelled) {
			fmt.Fprintln(stdout, tr.T("CronTab creation cancelled", nil))
			return nil
		}
		if err != nil {
			return err
		}

	default:
		return ErrMissingInput
	}

	name := creator.created.Name
	fmt.Fprint(stdout, tui.RenderCreated(
		tr.T("CronTab {{.name}} created in namespace {{.namespace}}", map[string]any{
			"name":      name,
			"namespace": creator.created.Namespace,
		}),
		tr.T("Open in console: {{.url}}", map[string]any{"url": nav.URL()}),
	))
	return nil
}

// applyFlags copies field flags into the form. Replicas is only copied when
// the flag was given, so YAML documents keep their own value otherwise.
func applyFlags(f *form.Form, opts CreateOptions) {
	f.SetName(opts.Name)
	f.SetCronSpec(opts.Schedule)
	f.SetImage(opts.Image)
	if opts.ReplicasSet {
		f.SetReplicas(opts.Replicas)
	}
}

// submitError returns the localized form error, keeping the typed error
// for errors.As.
func submitError(f *form.Form, err error) error {
	msg := f.State().Error
	if msg == "" {
		return err
	}
	return &cliError{msg: msg, err: err}
}

type cliError struct {
	msg string
	err error
}

func (e *cliError) Error() string { return e.msg }
func (e *cliError) Unwrap() error { return e.err }

// readDocument reads path, or stdin for "-".
func readDocument(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		// #nosec G304
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}
