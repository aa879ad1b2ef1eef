package testenv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"

	crontabv1 "github.com/imamik/crontab-plugin/api/v1"
	"github.com/imamik/crontab-plugin/internal/config"
	"github.com/imamik/crontab-plugin/internal/helm"
	"github.com/imamik/crontab-plugin/internal/util/retry"
)

// Installer installs and removes a helm release.
type Installer interface {
	InstallOrUpgrade(ctx context.Context, release, chartPath, namespace string, sets []string) (helm.Output, error)
	Uninstall(ctx context.Context, release, namespace string) (helm.Output, error)
}

// Cluster is the cluster access the harness needs.
type Cluster interface {
	WaitForConsolePlugin(ctx context.Context, name string, timeout time.Duration) error
	WaitForDeployment(ctx context.Context, namespace, name string, timeout time.Duration) error
	DeleteNamespace(ctx context.Context, name string) error
}

// ScriptRunner runs a shell script in dir.
type ScriptRunner func(ctx context.Context, dir, script string) (helm.Output, error)

var downloadRetry = []retry.Option{retry.WithAttempts(3), retry.WithDelay(2 * time.Second)}

var (
	// ErrPluginNotReady is returned by Setup when the console never picks
	// up the plugin.
	ErrPluginNotReady = errors.New("console plugin not ready")

	// ErrMissingDependency is returned when a remote environment is set up
	// or torn down without an installer or cluster.
	ErrMissingDependency = errors.New("testenv: installer and cluster are required outside local development")
)

// Options configures a Harness. Installer and Cluster may be nil for a
// local development environment.
type Options struct {
	Config    *config.Config
	Installer Installer
	Cluster   Cluster
	// RunScript downloads the helm binary before install. Nil skips the
	// download, e.g. for the SDK backend.
	RunScript ScriptRunner
}

// Harness drives the chart lifecycle of a test environment.
type Harness struct {
	cfg       *config.Config
	installer Installer
	cluster   Cluster
	runScript ScriptRunner
}

// New creates a Harness.
func New(opts Options) (*Harness, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("testenv: config is required")
	}
	return &Harness{
		cfg:       opts.Config,
		installer: opts.Installer,
		cluster:   opts.Cluster,
		runScript: opts.RunScript,
	}, nil
}

// IsLocalDev reports whether the base address is a localhost address.
func (h *Harness) IsLocalDev() bool {
	return h.cfg.IsLocalDev()
}

// Setup installs the plugin chart and waits until the console has
// registered the plugin. It does nothing for local development.
func (h *Harness) Setup(ctx context.Context) error {
	logger := log.FromContext(ctx).WithValues("release", h.cfg.Release, "namespace", h.cfg.Namespace)

	if h.IsLocalDev() {
		logger.Info("local environment, not installing helm and helm chart", "baseAddress", h.cfg.BaseAddress)
		return nil
	}
	if h.installer == nil || h.cluster == nil {
		return ErrMissingDependency
	}
	logger.Info("not a local environment, installing helm and helm chart", "baseAddress", h.cfg.BaseAddress)

	if h.runScript != nil {
		out, err := h.downloadHelm(ctx)
		logOutput(ctx, "install helm binary", out, err)
	}

	out, err := h.installer.InstallOrUpgrade(ctx, h.cfg.Release, h.cfg.ChartPath, h.cfg.Namespace, h.cfg.ImageSets())
	logOutput(ctx, "install helm chart", out, err)

	if err := h.cluster.WaitForConsolePlugin(ctx, crontabv1.PluginName, h.cfg.PluginReadyTimeout); err != nil {
		return fmt.Errorf("%w: %v", ErrPluginNotReady, err)
	}
	if err := h.cluster.WaitForDeployment(ctx, h.cfg.Namespace, crontabv1.PluginName, h.cfg.PluginReadyTimeout); err != nil {
		return fmt.Errorf("%w: %v", ErrPluginNotReady, err)
	}

	logger.Info("console plugin ready", "plugin", crontabv1.PluginName)
	return nil
}

// Teardown uninstalls the chart and deletes its namespace. Failures are
// logged only. It does nothing for local development.
func (h *Harness) Teardown(ctx context.Context) {
	if !h.IsLocalDev() && (h.installer == nil || h.cluster == nil) {
		log.FromContext(ctx).Error(ErrMissingDependency, "cannot tear down test environment")
		return
	}

	logger := log.FromContext(ctx).WithValues("release", h.cfg.Release, "namespace", h.cfg.Namespace)

	if h.IsLocalDev() {
		logger.Info("local environment, not deleting helm chart", "baseAddress", h.cfg.BaseAddress)
		return
	}
	logger.Info("not a local environment, deleting helm chart", "baseAddress", h.cfg.BaseAddress)

	out, err := h.installer.Uninstall(ctx, h.cfg.Release, h.cfg.Namespace)
	logOutput(ctx, "uninstall helm chart", out, err)
	if err != nil {
		return
	}

	if err := h.cluster.DeleteNamespace(ctx, h.cfg.Namespace); err != nil {
		logger.Error(err, "failed to delete namespace")
	}
}

// downloadHelm runs the install script, retrying failed downloads. A script
// that cannot be started is not retried.
func (h *Harness) downloadHelm(ctx context.Context) (helm.Output, error) {
	var out helm.Output
	err := retry.Do(ctx, func(ctx context.Context) error {
		var err error
		out, err = h.runScript(ctx, h.cfg.WorkDir, h.cfg.InstallScript)
		if err != nil && out.ExitCode < 0 {
			return retry.Permanent(err)
		}
		return err
	}, downloadRetry...)
	return out, err
}

// logOutput records a step's output. A failed step is logged as an error
// but never returned.
func logOutput(ctx context.Context, step string, out helm.Output, err error) {
	logger := log.FromContext(ctx).WithValues("step", step)
	if err != nil {
		logger.Error(err, "step failed", "exitCode", out.ExitCode, "stdout", out.Stdout, "stderr", out.Stderr)
		return
	}
	logger.Info("step succeeded", "stdout", out.Stdout)
	if out.Stderr != "" {
		logger.V(1).Info("step stderr", "stderr", out.Stderr)
	}
}
