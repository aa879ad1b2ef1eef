package testenv

import (
	"fmt"

	"k8s.io/client-go/rest"

	"github.com/imamik/crontab-plugin/internal/config"
	"github.com/imamik/crontab-plugin/internal/helm"
)

// NewInstaller returns the helm backend selected by cfg.HelmBackend and the
// script runner it needs, if any. restConfig is only used by the SDK
// backend.
func NewInstaller(cfg *config.Config, restConfig *rest.Config) (Installer, ScriptRunner, error) {
	switch cfg.HelmBackend {
	case config.HelmBackendCLI:
		return helm.NewCLI(cfg.HelmPath, cfg.WorkDir), helm.RunScript, nil
	case config.HelmBackendSDK:
		if restConfig == nil {
			return nil, nil, fmt.Errorf("helm sdk backend requires a cluster config")
		}
		sdk := helm.NewSDK(restConfig, cfg.HelmTimeout)
		sdk.Dir = cfg.WorkDir
		return sdk, nil, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownHelmBackend, cfg.HelmBackend)
	}
}
