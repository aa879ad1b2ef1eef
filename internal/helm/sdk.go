package helm

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/release"
	"k8s.io/client-go/rest"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

// DefaultTimeout bounds install, upgrade and uninstall waits.
const DefaultTimeout = 5 * time.Minute

// SDK drives helm in-process against a local chart directory.
type SDK struct {
	// Dir resolves relative chart paths.
	Dir string

	config  *rest.Config
	timeout time.Duration

	// newActionConfig is replaced in tests.
	newActionConfig func(ctx context.Context, namespace string) (*action.Configuration, error)
}

// NewSDK creates an SDK backend using config for cluster access.
func NewSDK(config *rest.Config, timeout time.Duration) *SDK {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	s := &SDK{config: config, timeout: timeout}
	s.newActionConfig = s.actionConfig
	return s
}

// InstallOrUpgrade installs the chart at chartPath, or upgrades the
// release if it already exists.
func (s *SDK) InstallOrUpgrade(ctx context.Context, releaseName, chartPath, namespace string, sets []string) (Output, error) {
	values, err := ParseSetValues(sets)
	if err != nil {
		return Output{}, err
	}

	if s.Dir != "" && !filepath.IsAbs(chartPath) {
		chartPath = filepath.Join(s.Dir, chartPath)
	}
	ch, err := loader.Load(chartPath)
	if err != nil {
		return Output{}, fmt.Errorf("failed to load chart %s: %w", chartPath, err)
	}

	cfg, err := s.newActionConfig(ctx, namespace)
	if err != nil {
		return Output{}, err
	}

	histClient := action.NewHistory(cfg)
	histClient.Max = 1
	if _, err := histClient.Run(releaseName); err != nil {
		rel, err := s.install(ctx, cfg, releaseName, namespace, ch, values)
		if err != nil {
			return Output{Stderr: err.Error()}, fmt.Errorf("helm install failed: %w", err)
		}
		return releaseOutput(rel), nil
	}

	rel, err := s.upgrade(ctx, cfg, releaseName, namespace, ch, values)
	if err != nil {
		return Output{Stderr: err.Error()}, fmt.Errorf("helm upgrade failed: %w", err)
	}
	return releaseOutput(rel), nil
}

func (s *SDK) install(ctx context.Context, cfg *action.Configuration, releaseName, namespace string, ch *chart.Chart, values map[string]interface{}) (*release.Release, error) {
	installClient := action.NewInstall(cfg)
	installClient.ReleaseName = releaseName
	installClient.Namespace = namespace
	installClient.CreateNamespace = true
	installClient.Wait = true
	installClient.Timeout = s.timeout

	return installClient.RunWithContext(ctx, ch, values)
}

func (s *SDK) upgrade(ctx context.Context, cfg *action.Configuration, releaseName, namespace string, ch *chart.Chart, values map[string]interface{}) (*release.Release, error) {
	upgradeClient := action.NewUpgrade(cfg)
	upgradeClient.Namespace = namespace
	upgradeClient.Wait = true
	upgradeClient.Timeout = s.timeout
	upgradeClient.ReuseValues = false

	return upgradeClient.RunWithContext(ctx, releaseName, ch, values)
}

// Uninstall removes a release.
func (s *SDK) Uninstall(ctx context.Context, releaseName, namespace string) (Output, error) {
	cfg, err := s.newActionConfig(ctx, namespace)
	if err != nil {
		return Output{}, err
	}

	uninstallClient := action.NewUninstall(cfg)
	uninstallClient.Wait = true
	uninstallClient.Timeout = s.timeout

	resp, err := uninstallClient.Run(releaseName)
	if err != nil {
		return Output{Stderr: err.Error()}, fmt.Errorf("helm uninstall failed: %w", err)
	}
	out := Output{Stdout: fmt.Sprintf("release %q uninstalled", releaseName)}
	if resp != nil && resp.Info != "" {
		out.Stdout += "\n" + resp.Info
	}
	return out, nil
}

func (s *SDK) actionConfig(ctx context.Context, namespace string) (*action.Configuration, error) {
	logger := log.FromContext(ctx).WithName("helm")

	cfg := new(action.Configuration)
	getter := newRESTConfigGetter(s.config, namespace)
	if err := cfg.Init(getter, namespace, os.Getenv("HELM_DRIVER"), func(format string, v ...interface{}) {
		logger.V(2).Info(fmt.Sprintf(format, v...))
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize helm action config: %w", err)
	}
	return cfg, nil
}

func releaseOutput(rel *release.Release) Output {
	if rel == nil {
		return Output{}
	}
	status := "unknown"
	if rel.Info != nil {
		status = rel.Info.Status.String()
	}
	return Output{
		Stdout: fmt.Sprintf("Release %q in namespace %q: revision %d, status %s", rel.Name, rel.Namespace, rel.Version, status),
	}
}
