package testenv

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/rest"
	"sigs.k8s.io/controller-runtime/pkg/log"

	crontabv1 "github.com/imamik/crontab-plugin/api/v1"
	"github.com/imamik/crontab-plugin/internal/config"
	"github.com/imamik/crontab-plugin/internal/helm"
	"github.com/imamik/crontab-plugin/internal/util/retry"
)

type mockInstaller struct {
	mock.Mock
}

func (m *mockInstaller) InstallOrUpgrade(ctx context.Context, release, chartPath, namespace string, sets []string) (helm.Output, error) {
	args := m.Called(ctx, release, chartPath, namespace, sets)
	return args.Get(0).(helm.Output), args.Error(1)
}

func (m *mockInstaller) Uninstall(ctx context.Context, release, namespace string) (helm.Output, error) {
	args := m.Called(ctx, release, namespace)
	return args.Get(0).(helm.Output), args.Error(1)
}

type mockCluster struct {
	mock.Mock
}

func (m *mockCluster) WaitForConsolePlugin(ctx context.Context, name string, timeout time.Duration) error {
	return m.Called(ctx, name, timeout).Error(0)
}

func (m *mockCluster) WaitForDeployment(ctx context.Context, namespace, name string, timeout time.Duration) error {
	return m.Called(ctx, namespace, name, timeout).Error(0)
}

func (m *mockCluster) DeleteNamespace(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

// logSink collects log lines for assertions.
type logSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *logSink) context() context.Context {
	logger := funcr.New(func(prefix, args string) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.lines = append(s.lines, prefix+" "+args)
	}, funcr.Options{Verbosity: 1})
	return log.IntoContext(context.Background(), logger)
}

func (s *logSink) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strings.Join(s.lines, "\n")
}

func remoteConfig() *config.Config {
	cfg := config.Default()
	cfg.BaseAddress = "https://console-openshift-console.apps.ci.example.com"
	cfg.PluginImage = "quay.io/example/crontab-plugin:pr-7"
	cfg.WorkDir = "/src/crontab-plugin"
	return cfg
}

type scriptCall struct {
	dir, script string
}

func recordingScript(calls *[]scriptCall, out helm.Output, err error) ScriptRunner {
	return func(_ context.Context, dir, script string) (helm.Output, error) {
		*calls = append(*calls, scriptCall{dir: dir, script: script})
		return out, err
	}
}

func fastRetry(t *testing.T) {
	t.Helper()
	saved := downloadRetry
	downloadRetry = []retry.Option{retry.WithAttempts(3), retry.WithDelay(time.Millisecond)}
	t.Cleanup(func() { downloadRetry = saved })
}

func TestNew_RequiresConfig(t *testing.T) {
	_, err := New(Options{Installer: &mockInstaller{}, Cluster: &mockCluster{}})
	assert.Error(t, err)
}

func TestSetup_LocalDevNeedsNoCluster(t *testing.T) {
	h, err := New(Options{Config: config.Default()})
	require.NoError(t, err)

	require.NoError(t, h.Setup(context.Background()))
	h.Teardown(context.Background())
}

func TestSetup_RemoteNeedsCluster(t *testing.T) {
	h, err := New(Options{Config: remoteConfig(), Installer: &mockInstaller{}})
	require.NoError(t, err)

	assert.ErrorIs(t, h.Setup(context.Background()), ErrMissingDependency)

	sink := &logSink{}
	h.Teardown(sink.context())
	assert.Contains(t, sink.String(), "cannot tear down test environment")
}

func TestIsLocalDev(t *testing.T) {
	tests := []struct {
		address string
		want    bool
	}{
		{"http://localhost:9000", true},
		{"http://localhost", true},
		{"https://console.apps.example.com", false},
		{"http://127.0.0.1:9000", false},
	}
	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			cfg := config.Default()
			cfg.BaseAddress = tt.address
			h, err := New(Options{Config: cfg, Installer: &mockInstaller{}, Cluster: &mockCluster{}})
			require.NoError(t, err)
			assert.Equal(t, tt.want, h.IsLocalDev())
		})
	}
}

func TestSetup_LocalDevSkipsEverything(t *testing.T) {
	installer := &mockInstaller{}
	cluster := &mockCluster{}
	var scripts []scriptCall
	h, err := New(Options{
		Config:    config.Default(),
		Installer: installer,
		Cluster:   cluster,
		RunScript: recordingScript(&scripts, helm.Output{}, nil),
	})
	require.NoError(t, err)

	sink := &logSink{}
	require.NoError(t, h.Setup(sink.context()))
	h.Teardown(sink.context())

	assert.Empty(t, scripts)
	installer.AssertNotCalled(t, "InstallOrUpgrade", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	installer.AssertNotCalled(t, "Uninstall", mock.Anything, mock.Anything, mock.Anything)
	cluster.AssertNotCalled(t, "DeleteNamespace", mock.Anything, mock.Anything)
	assert.Contains(t, sink.String(), "not installing helm and helm chart")
	assert.Contains(t, sink.String(), "not deleting helm chart")
}

func TestSetup_Remote(t *testing.T) {
	cfg := remoteConfig()
	installer := &mockInstaller{}
	installer.On("InstallOrUpgrade", mock.Anything, "crontab-plugin", "charts/crontab-plugin", "crontab-plugin",
		[]string{"plugin.image=quay.io/example/crontab-plugin:pr-7"}).
		Return(helm.Output{Stdout: "Release \"crontab-plugin\" has been upgraded."}, nil).Once()
	cluster := &mockCluster{}
	cluster.On("WaitForConsolePlugin", mock.Anything, crontabv1.PluginName, cfg.PluginReadyTimeout).Return(nil).Once()
	cluster.On("WaitForDeployment", mock.Anything, "crontab-plugin", crontabv1.PluginName, cfg.PluginReadyTimeout).Return(nil).Once()

	var scripts []scriptCall
	h, err := New(Options{
		Config:    cfg,
		Installer: installer,
		Cluster:   cluster,
		RunScript: recordingScript(&scripts, helm.Output{Stdout: "v3.20.0"}, nil),
	})
	require.NoError(t, err)

	sink := &logSink{}
	require.NoError(t, h.Setup(sink.context()))

	require.Len(t, scripts, 1)
	assert.Equal(t, scriptCall{dir: "/src/crontab-plugin", script: "./hack/install_helm.sh"}, scripts[0])
	installer.AssertExpectations(t)
	cluster.AssertExpectations(t)
	assert.Contains(t, sink.String(), "has been upgraded")
}

func TestSetup_ScriptAndInstallFailuresAreNotFatal(t *testing.T) {
	fastRetry(t)
	cfg := remoteConfig()
	installer := &mockInstaller{}
	installer.On("InstallOrUpgrade", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(helm.Output{Stderr: "Error: INSTALLATION FAILED", ExitCode: 1}, errors.New("exit status 1")).Once()
	cluster := &mockCluster{}
	cluster.On("WaitForConsolePlugin", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	cluster.On("WaitForDeployment", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	var scripts []scriptCall
	h, err := New(Options{
		Config:    cfg,
		Installer: installer,
		Cluster:   cluster,
		RunScript: recordingScript(&scripts, helm.Output{Stderr: "curl: (6) Could not resolve host", ExitCode: 6}, errors.New("exit status 6")),
	})
	require.NoError(t, err)

	sink := &logSink{}
	require.NoError(t, h.Setup(sink.context()))

	installer.AssertExpectations(t)
	assert.Len(t, scripts, 3)
	logs := sink.String()
	assert.Contains(t, logs, "Could not resolve host")
	assert.Contains(t, logs, "INSTALLATION FAILED")
}

func TestSetup_MissingScriptIsNotRetried(t *testing.T) {
	fastRetry(t)
	installer := &mockInstaller{}
	installer.On("InstallOrUpgrade", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(helm.Output{}, nil)
	cluster := &mockCluster{}
	cluster.On("WaitForConsolePlugin", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	cluster.On("WaitForDeployment", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	var scripts []scriptCall
	h, err := New(Options{
		Config:    remoteConfig(),
		Installer: installer,
		Cluster:   cluster,
		RunScript: recordingScript(&scripts, helm.Output{ExitCode: -1}, errors.New("fork/exec ./hack/install_helm.sh: no such file or directory")),
	})
	require.NoError(t, err)

	require.NoError(t, h.Setup(context.Background()))
	assert.Len(t, scripts, 1)
}

func TestSetup_PluginNeverReadyIsFatal(t *testing.T) {
	installer := &mockInstaller{}
	installer.On("InstallOrUpgrade", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(helm.Output{}, nil)
	cluster := &mockCluster{}
	cluster.On("WaitForConsolePlugin", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("context deadline exceeded"))

	h, err := New(Options{Config: remoteConfig(), Installer: installer, Cluster: cluster})
	require.NoError(t, err)

	err = h.Setup(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPluginNotReady)
	cluster.AssertNotCalled(t, "WaitForDeployment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSetup_NoImageOmitsSet(t *testing.T) {
	cfg := remoteConfig()
	cfg.PluginImage = ""
	installer := &mockInstaller{}
	installer.On("InstallOrUpgrade", mock.Anything, mock.Anything, mock.Anything, mock.Anything, []string(nil)).
		Return(helm.Output{}, nil).Once()
	cluster := &mockCluster{}
	cluster.On("WaitForConsolePlugin", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	cluster.On("WaitForDeployment", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	h, err := New(Options{Config: cfg, Installer: installer, Cluster: cluster})
	require.NoError(t, err)
	require.NoError(t, h.Setup(context.Background()))
	installer.AssertExpectations(t)
}

func TestTeardown_Remote(t *testing.T) {
	installer := &mockInstaller{}
	installer.On("Uninstall", mock.Anything, "crontab-plugin", "crontab-plugin").
		Return(helm.Output{Stdout: "release \"crontab-plugin\" uninstalled"}, nil).Once()
	cluster := &mockCluster{}
	cluster.On("DeleteNamespace", mock.Anything, "crontab-plugin").Return(nil).Once()

	h, err := New(Options{Config: remoteConfig(), Installer: installer, Cluster: cluster})
	require.NoError(t, err)

	sink := &logSink{}
	h.Teardown(sink.context())

	installer.AssertExpectations(t)
	cluster.AssertExpectations(t)
	assert.Contains(t, sink.String(), "uninstalled")
}

func TestTeardown_FailuresAreLogged(t *testing.T) {
	t.Run("uninstall fails", func(t *testing.T) {
		installer := &mockInstaller{}
		installer.On("Uninstall", mock.Anything, mock.Anything, mock.Anything).
			Return(helm.Output{Stderr: "Error: uninstall: Release not loaded", ExitCode: 1}, errors.New("exit status 1"))
		cluster := &mockCluster{}

		h, err := New(Options{Config: remoteConfig(), Installer: installer, Cluster: cluster})
		require.NoError(t, err)

		sink := &logSink{}
		h.Teardown(sink.context())

		assert.Contains(t, sink.String(), "Release not loaded")
		cluster.AssertNotCalled(t, "DeleteNamespace", mock.Anything, mock.Anything)
	})

	t.Run("namespace delete fails", func(t *testing.T) {
		installer := &mockInstaller{}
		installer.On("Uninstall", mock.Anything, mock.Anything, mock.Anything).Return(helm.Output{}, nil)
		cluster := &mockCluster{}
		cluster.On("DeleteNamespace", mock.Anything, mock.Anything).Return(errors.New("forbidden"))

		h, err := New(Options{Config: remoteConfig(), Installer: installer, Cluster: cluster})
		require.NoError(t, err)

		sink := &logSink{}
		h.Teardown(sink.context())

		assert.Contains(t, sink.String(), "failed to delete namespace")
		assert.Contains(t, sink.String(), "forbidden")
	})
}

func TestNewInstaller(t *testing.T) {
	cfg := config.Default()

	installer, script, err := NewInstaller(cfg, nil)
	require.NoError(t, err)
	cli, ok := installer.(*helm.CLI)
	require.True(t, ok)
	assert.Equal(t, "/tmp/helm", cli.Path)
	assert.NotNil(t, script)

	cfg.HelmBackend = config.HelmBackendSDK
	_, _, err = NewInstaller(cfg, nil)
	assert.Error(t, err)

	installer, script, err = NewInstaller(cfg, &rest.Config{Host: "https://127.0.0.1:6443"})
	require.NoError(t, err)
	sdk, ok := installer.(*helm.SDK)
	require.True(t, ok)
	assert.Equal(t, ".", sdk.Dir)
	assert.Nil(t, script)

	cfg.HelmBackend = "kustomize"
	_, _, err = NewInstaller(cfg, nil)
	assert.ErrorIs(t, err, config.ErrUnknownHelmBackend)
}
