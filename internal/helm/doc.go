// Package helm installs and removes the plugin's chart.
//
// Two backends share the same method set: [CLI] runs a helm binary (the one
// downloaded by hack/install_helm.sh in CI), [SDK] drives the helm.sh/helm/v3
// action API in-process. Both accept --set style value overrides and report
// what helm printed as an [Output].
package helm
