package helm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Output is what a helm operation reported.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// runFunc executes name with args in dir.
type runFunc func(ctx context.Context, dir, name string, args ...string) (Output, error)

// CLI drives a helm binary.
type CLI struct {
	// Path is the helm binary.
	Path string
	// Dir is the working directory chart paths are relative to.
	Dir string

	run runFunc
}

// NewCLI creates a CLI backend for the binary at path.
func NewCLI(path, dir string) *CLI {
	return &CLI{Path: path, Dir: dir, run: execRun}
}

// InstallOrUpgrade runs `helm upgrade -i`, creating the namespace if needed.
func (c *CLI) InstallOrUpgrade(ctx context.Context, release, chartPath, namespace string, sets []string) (Output, error) {
	return c.run(ctx, c.Dir, c.Path, UpgradeInstallArgs(release, chartPath, namespace, sets)...)
}

// Uninstall runs `helm uninstall`.
func (c *CLI) Uninstall(ctx context.Context, release, namespace string) (Output, error) {
	return c.run(ctx, c.Dir, c.Path, UninstallArgs(release, namespace)...)
}

// UpgradeInstallArgs builds
// `upgrade -i <release> <chart> -n <namespace> --create-namespace [--set k=v]...`.
func UpgradeInstallArgs(release, chartPath, namespace string, sets []string) []string {
	args := []string{"upgrade", "-i", release, chartPath, "-n", namespace, "--create-namespace"}
	for _, s := range sets {
		args = append(args, "--set", s)
	}
	return args
}

// UninstallArgs builds `uninstall <release> -n <namespace>`.
func UninstallArgs(release, namespace string) []string {
	return []string{"uninstall", release, "-n", namespace}
}

// RunScript runs a setup script (e.g. the helm download script) in dir.
func RunScript(ctx context.Context, dir, script string) (Output, error) {
	return execRun(ctx, dir, script)
}

func execRun(ctx context.Context, dir, name string, args ...string) (Output, error) {
	// #nosec G204 -- binary and arguments come from local configuration
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			out.ExitCode = exitErr.ExitCode()
		} else {
			out.ExitCode = -1
		}
		return out, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}
	return out, nil
}
