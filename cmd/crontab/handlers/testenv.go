package handlers

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"k8s.io/client-go/rest"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/crontab-plugin/internal/config"
	"github.com/imamik/crontab-plugin/internal/k8s"
	"github.com/imamik/crontab-plugin/internal/testenv"
	"github.com/imamik/crontab-plugin/internal/util/prerequisites"
)

// TestEnvOptions holds the testenv command's flags.
type TestEnvOptions struct {
	ConfigPath  string
	Kubeconfig  string
	Context     string
	BaseAddress string
	PluginImage string
	HelmBackend string
}

// testenvCluster is the cluster access the harness needs, plus the REST
// config for the helm SDK backend.
type testenvCluster interface {
	testenv.Cluster
	RESTConfig() *rest.Config
}

// Factory function variables for testenv - can be replaced in tests.
var (
	newTestEnvCluster = func(opts k8s.Options) (testenvCluster, error) {
		return k8s.NewClient(opts)
	}

	newInstaller = testenv.NewInstaller

	checkPrerequisites = func(logger logr.Logger) error {
		report := prerequisites.CheckForTestEnv()
		report.Log(logger)
		return report.Err()
	}
)

// TestEnvSetup handles the testenv setup command.
func TestEnvSetup(ctx context.Context, opts TestEnvOptions) error {
	h, err := newHarness(ctx, opts)
	if err != nil {
		return err
	}
	return h.Setup(ctx)
}

// TestEnvTeardown handles the testenv teardown command. Teardown failures
// are logged and never returned.
func TestEnvTeardown(ctx context.Context, opts TestEnvOptions) error {
	h, err := newHarness(ctx, opts)
	if err != nil {
		return err
	}
	h.Teardown(ctx)
	return nil
}

func newHarness(ctx context.Context, opts TestEnvOptions) (*testenv.Harness, error) {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	applyTestEnvFlags(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	hopts := testenv.Options{Config: cfg}
	if cfg.IsLocalDev() {
		return testenv.New(hopts)
	}

	cluster, err := newTestEnvCluster(k8s.Options{KubeconfigPath: opts.Kubeconfig, Context: opts.Context})
	if err != nil {
		return nil, err
	}
	installer, runScript, err := newInstaller(cfg, cluster.RESTConfig())
	if err != nil {
		return nil, err
	}
	if runScript != nil {
		logger := log.FromContext(ctx)
		if err := checkPrerequisites(logger); err != nil {
			logger.Error(err, "helm download script may fail")
		}
	}

	hopts.Cluster = cluster
	hopts.Installer = installer
	hopts.RunScript = runScript
	h, err := testenv.New(hopts)
	if err != nil {
		return nil, fmt.Errorf("failed to create test environment: %w", err)
	}
	return h, nil
}

func applyTestEnvFlags(cfg *config.Config, opts TestEnvOptions) {
	if opts.BaseAddress != "" {
		cfg.BaseAddress = opts.BaseAddress
	}
	if opts.PluginImage != "" {
		cfg.PluginImage = opts.PluginImage
	}
	if opts.HelmBackend != "" {
		cfg.HelmBackend = opts.HelmBackend
	}
}
