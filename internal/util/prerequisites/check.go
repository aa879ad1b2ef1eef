// Package prerequisites checks the client tools needed to prepare a test
// environment with the helm CLI backend.
package prerequisites

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/go-logr/logr"
)

// ErrMissingTools is wrapped by Report.Err when a required tool is absent.
var ErrMissingTools = errors.New("missing required tools")

// lookPath and versionOf are replaced in tests.
var (
	lookPath  = exec.LookPath
	versionOf = toolVersion
)

// Tool is a client binary looked up in PATH.
type Tool struct {
	Name     string
	Required bool
	// Purpose is shown when the tool is missing.
	Purpose    string
	InstallURL string
}

// InstallScriptTools returns the tools hack/install_helm.sh runs.
func InstallScriptTools() []Tool {
	return []Tool{
		{Name: "bash", Required: true, Purpose: "runs the helm download script", InstallURL: "https://www.gnu.org/software/bash/"},
		{Name: "curl", Required: true, Purpose: "downloads the helm release archive", InstallURL: "https://curl.se/download.html"},
		{Name: "tar", Required: true, Purpose: "extracts the helm release archive", InstallURL: "https://www.gnu.org/software/tar/"},
	}
}

// OptionalTools returns tools that help when debugging a test environment.
func OptionalTools() []Tool {
	return []Tool{
		{Name: "oc", Purpose: "inspects the console and plugin namespace", InstallURL: "https://mirror.openshift.com/pub/openshift-v4/clients/ocp/"},
		{Name: "kubectl", Purpose: "inspects created CronTabs", InstallURL: "https://kubernetes.io/docs/tasks/tools/"},
	}
}

// Status is the lookup outcome for one tool.
type Status struct {
	Tool    Tool
	Path    string
	Version string
}

// Found reports whether the tool is in PATH.
func (s Status) Found() bool { return s.Path != "" }

// Report lists the lookup outcome of every checked tool, in order.
type Report []Status

// Missing returns the tools that were not found.
func (r Report) Missing() []Tool {
	var tools []Tool
	for _, s := range r {
		if !s.Found() {
			tools = append(tools, s.Tool)
		}
	}
	return tools
}

// Err wraps ErrMissingTools with the name and install URL of each missing
// required tool. It is nil when all required tools were found.
func (r Report) Err() error {
	var names []string
	for _, t := range r.Missing() {
		if t.Required {
			names = append(names, fmt.Sprintf("%s (%s)", t.Name, t.InstallURL))
		}
	}
	if len(names) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingTools, strings.Join(names, ", "))
}

// Log writes one line per tool. Missing optional tools are logged at V(1).
func (r Report) Log(logger logr.Logger) {
	for _, s := range r {
		switch {
		case s.Found():
			logger.V(1).Info("found tool", "tool", s.Tool.Name, "path", s.Path, "version", s.Version)
		case s.Tool.Required:
			logger.Info("required tool not found", "tool", s.Tool.Name, "purpose", s.Tool.Purpose, "install", s.Tool.InstallURL)
		default:
			logger.V(1).Info("optional tool not found", "tool", s.Tool.Name, "purpose", s.Tool.Purpose)
		}
	}
}

// Check looks up each tool in PATH.
func Check(tools ...Tool) Report {
	report := make(Report, 0, len(tools))
	for _, t := range tools {
		s := Status{Tool: t}
		if path, err := lookPath(t.Name); err == nil {
			s.Path = path
			s.Version = versionOf(t.Name)
		}
		report = append(report, s)
	}
	return report
}

// CheckForTestEnv checks the download script tools and the optional tools.
func CheckForTestEnv() Report {
	return Check(append(InstallScriptTools(), OptionalTools()...)...)
}

// toolVersion returns the first line a tool prints for its version, or "".
func toolVersion(name string) string {
	for _, flag := range []string{"--version", "version"} {
		// #nosec G204 -- name comes from the fixed tool lists above
		output, err := exec.Command(name, flag).Output()
		if err != nil {
			continue
		}
		if line, _, _ := strings.Cut(string(output), "\n"); strings.TrimSpace(line) != "" {
			return strings.TrimSpace(line)
		}
	}
	return ""
}
