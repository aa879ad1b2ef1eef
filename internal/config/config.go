package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Helm backends.
const (
	HelmBackendCLI = "cli"
	HelmBackendSDK = "sdk"
)

// Defaults.
const (
	DefaultBaseAddress        = "http://localhost:9000"
	DefaultHelmPath           = "/tmp/helm"
	DefaultChartPath          = "charts/crontab-plugin"
	DefaultInstallScript      = "./hack/install_helm.sh"
	DefaultPluginImageKey     = "plugin.image"
	DefaultPluginReadyTimeout = 5 * time.Minute
	DefaultHelmTimeout        = 5 * time.Minute
)

// Config holds the crontab CLI settings.
type Config struct {
	// BaseAddress is the console URL. A localhost address marks a local
	// development environment.
	BaseAddress string `yaml:"baseAddress"`

	// PluginImage is the plugin image reference passed to the chart.
	PluginImage string `yaml:"pluginImage"`

	// Release and Namespace name the helm release of the plugin.
	Release   string `yaml:"release"`
	Namespace string `yaml:"namespace"`

	HelmBackend   string `yaml:"helmBackend"`
	HelmPath      string `yaml:"helmPath"`
	WorkDir       string `yaml:"workDir"`
	ChartPath     string `yaml:"chartPath"`
	InstallScript string `yaml:"installScript"`

	HelmTimeout        time.Duration `yaml:"helmTimeout"`
	PluginReadyTimeout time.Duration `yaml:"pluginReadyTimeout"`

	// Language selects the message catalog. Empty means auto-detect.
	Language string `yaml:"language"`

	// PushGateway is the Prometheus Pushgateway URL that receives the form
	// submission metrics after create. Empty disables pushing.
	PushGateway string `yaml:"pushGateway"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BaseAddress:        DefaultBaseAddress,
		Release:            "crontab-plugin",
		Namespace:          "crontab-plugin",
		HelmBackend:        HelmBackendCLI,
		HelmPath:           DefaultHelmPath,
		WorkDir:            ".",
		ChartPath:          DefaultChartPath,
		InstallScript:      DefaultInstallScript,
		HelmTimeout:        DefaultHelmTimeout,
		PluginReadyTimeout: DefaultPluginReadyTimeout,
	}
}

// Load returns the defaults overridden by environment variables.
//
// Environment Variables:
//   - BRIDGE_BASE_ADDRESS (default: http://localhost:9000)
//   - CRONTAB_PLUGIN_PULL_SPEC
//   - CRONTAB_RELEASE (default: crontab-plugin)
//   - CRONTAB_NAMESPACE (default: crontab-plugin)
//   - CRONTAB_HELM_BACKEND (default: cli)
//   - CRONTAB_HELM_PATH (default: /tmp/helm)
//   - CRONTAB_WORK_DIR (default: .)
//   - CRONTAB_CHART_PATH (default: charts/crontab-plugin)
//   - CRONTAB_INSTALL_SCRIPT (default: ./hack/install_helm.sh)
//   - CRONTAB_HELM_TIMEOUT (default: 5m)
//   - CRONTAB_PLUGIN_READY_TIMEOUT (default: 5m)
//   - CRONTAB_LANG
//   - CRONTAB_PUSHGATEWAY_URL
func Load() (*Config, error) {
	cfg := Default()
	cfg.applyEnv()
	return cfg, cfg.Validate()
}

// LoadFile reads a YAML file over the defaults, then applies environment
// overrides.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	switch c.HelmBackend {
	case HelmBackendCLI, HelmBackendSDK:
	default:
		return fmt.Errorf("%w: %q (expected %q or %q)", ErrUnknownHelmBackend, c.HelmBackend, HelmBackendCLI, HelmBackendSDK)
	}
	if c.Release == "" {
		return fmt.Errorf("%w: release", ErrEmptyValue)
	}
	if c.Namespace == "" {
		return fmt.Errorf("%w: namespace", ErrEmptyValue)
	}
	if c.ChartPath == "" {
		return fmt.Errorf("%w: chartPath", ErrEmptyValue)
	}
	return nil
}

// IsLocalDev reports whether the console runs on a local development
// address, in which case the chart lifecycle is skipped.
func (c *Config) IsLocalDev() bool {
	return strings.Contains(c.BaseAddress, "localhost")
}

// ImageSets returns the --set entries for the plugin image. It is empty
// when no image is configured.
func (c *Config) ImageSets() []string {
	if c.PluginImage == "" {
		return nil
	}
	return []string{DefaultPluginImageKey + "=" + c.PluginImage}
}

func (c *Config) applyEnv() {
	c.BaseAddress = parseString("BRIDGE_BASE_ADDRESS", c.BaseAddress)
	c.PluginImage = parseString("CRONTAB_PLUGIN_PULL_SPEC", c.PluginImage)
	c.Release = parseString("CRONTAB_RELEASE", c.Release)
	c.Namespace = parseString("CRONTAB_NAMESPACE", c.Namespace)
	c.HelmBackend = strings.ToLower(parseString("CRONTAB_HELM_BACKEND", c.HelmBackend))
	c.HelmPath = parseString("CRONTAB_HELM_PATH", c.HelmPath)
	c.WorkDir = parseString("CRONTAB_WORK_DIR", c.WorkDir)
	c.ChartPath = parseString("CRONTAB_CHART_PATH", c.ChartPath)
	c.InstallScript = parseString("CRONTAB_INSTALL_SCRIPT", c.InstallScript)
	c.HelmTimeout = parseDuration("CRONTAB_HELM_TIMEOUT", c.HelmTimeout)
	c.PluginReadyTimeout = parseDuration("CRONTAB_PLUGIN_READY_TIMEOUT", c.PluginReadyTimeout)
	c.Language = parseString("CRONTAB_LANG", c.Language)
	c.PushGateway = parseString("CRONTAB_PUSHGATEWAY_URL", c.PushGateway)
}

// parseString returns the environment variable value, or defaultVal when
// it is unset or empty.
func parseString(envVar, defaultVal string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultVal
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}
