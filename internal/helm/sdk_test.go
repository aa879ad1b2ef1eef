package helm

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"helm.sh/helm/v3/pkg/action"
	"helm.sh/helm/v3/pkg/chart/loader"
	"helm.sh/helm/v3/pkg/chartutil"
	kubefake "helm.sh/helm/v3/pkg/kube/fake"
	"helm.sh/helm/v3/pkg/release"
	"helm.sh/helm/v3/pkg/storage"
	"helm.sh/helm/v3/pkg/storage/driver"
	"k8s.io/client-go/rest"
)

const chartPath = "../../charts/crontab-plugin"

func TestPluginChart_Loads(t *testing.T) {
	ch, err := loader.Load(chartPath)
	require.NoError(t, err)

	assert.Equal(t, "crontab-plugin", ch.Metadata.Name)
	plugin, ok := ch.Values["plugin"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, plugin, "image")
	assert.NotEmpty(t, ch.Templates)
}

func TestSDK_InstallOrUpgrade_MissingChart(t *testing.T) {
	s := NewSDK(&rest.Config{Host: "https://127.0.0.1:6443"}, 0)

	_, err := s.InstallOrUpgrade(context.Background(), "rel", "/nonexistent/chart", "ns", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load chart")
}

func TestSDK_InstallOrUpgrade_InvalidSet(t *testing.T) {
	s := NewSDK(&rest.Config{Host: "https://127.0.0.1:6443"}, 0)

	_, err := s.InstallOrUpgrade(context.Background(), "rel", chartPath, "ns", []string{"novalue"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--set")
}

func TestNewSDK_DefaultTimeout(t *testing.T) {
	s := NewSDK(&rest.Config{}, 0)
	assert.Equal(t, DefaultTimeout, s.timeout)
}

func TestRESTConfigGetter(t *testing.T) {
	g := newRESTConfigGetter(&rest.Config{Host: "https://127.0.0.1:6443", BearerToken: "t"}, "crontab-plugin")

	cfg, err := g.ToRESTConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://127.0.0.1:6443", cfg.Host)
	assert.Equal(t, "t", cfg.BearerToken)

	ns, overridden, err := g.ToRawKubeConfigLoader().Namespace()
	require.NoError(t, err)
	assert.True(t, overridden)
	assert.Equal(t, "crontab-plugin", ns)
}

// newMemorySDK returns an SDK whose actions run against in-memory release
// storage and a kube client that applies nothing.
func newMemorySDK(t *testing.T) (*SDK, *action.Configuration) {
	t.Helper()
	cfg := &action.Configuration{
		Releases:     storage.Init(driver.NewMemory()),
		KubeClient:   &kubefake.PrintingKubeClient{Out: io.Discard},
		Capabilities: chartutil.DefaultCapabilities,
		Log:          func(string, ...interface{}) {},
	}
	s := NewSDK(&rest.Config{}, 0)
	s.newActionConfig = func(context.Context, string) (*action.Configuration, error) {
		return cfg, nil
	}
	return s, cfg
}

func TestSDK_InstallThenUpgrade(t *testing.T) {
	s, cfg := newMemorySDK(t)
	ctx := context.Background()
	sets := []string{"plugin.image=quay.io/example/crontab-plugin:v1"}

	out, err := s.InstallOrUpgrade(ctx, "crontab-plugin", chartPath, "crontab-plugin", sets)
	require.NoError(t, err)
	assert.Contains(t, out.Stdout, "revision 1")

	rel, err := cfg.Releases.Last("crontab-plugin")
	require.NoError(t, err)
	assert.Equal(t, 1, rel.Version)
	assert.Equal(t, release.StatusDeployed, rel.Info.Status)
	assert.Equal(t, "crontab-plugin", rel.Namespace)
	assert.Equal(t, "quay.io/example/crontab-plugin:v1", rel.Config["plugin"].(map[string]interface{})["image"])
	assert.Contains(t, rel.Manifest, "quay.io/example/crontab-plugin:v1")

	sets = []string{"plugin.image=quay.io/example/crontab-plugin:v2"}
	out, err = s.InstallOrUpgrade(ctx, "crontab-plugin", chartPath, "crontab-plugin", sets)
	require.NoError(t, err)
	assert.Contains(t, out.Stdout, "revision 2")

	rel, err = cfg.Releases.Last("crontab-plugin")
	require.NoError(t, err)
	assert.Equal(t, 2, rel.Version)
	assert.Contains(t, rel.Manifest, "quay.io/example/crontab-plugin:v2")
	assert.NotContains(t, rel.Manifest, "quay.io/example/crontab-plugin:v1")
}

func TestSDK_RelativeChartPathUsesDir(t *testing.T) {
	s, cfg := newMemorySDK(t)
	s.Dir = filepath.Join("..", "..")

	_, err := s.InstallOrUpgrade(context.Background(), "rel", "charts/crontab-plugin", "ns",
		[]string{"plugin.image=quay.io/example/crontab-plugin:latest"})
	require.NoError(t, err)

	_, err = cfg.Releases.Last("rel")
	assert.NoError(t, err)
}

func TestSDK_Uninstall(t *testing.T) {
	s, cfg := newMemorySDK(t)
	ctx := context.Background()
	_, err := s.InstallOrUpgrade(ctx, "crontab-plugin", chartPath, "crontab-plugin",
		[]string{"plugin.image=quay.io/example/crontab-plugin:latest"})
	require.NoError(t, err)

	out, err := s.Uninstall(ctx, "crontab-plugin", "crontab-plugin")
	require.NoError(t, err)
	assert.Contains(t, out.Stdout, `release "crontab-plugin" uninstalled`)

	_, err = cfg.Releases.Deployed("crontab-plugin")
	assert.Error(t, err)

	_, err = s.Uninstall(ctx, "crontab-plugin", "crontab-plugin")
	assert.Error(t, err)
}
