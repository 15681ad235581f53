// Package prereq verifies the external tooling the pipeline composes.
package prereq

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	goversion "github.com/hashicorp/go-version"

	"github.com/openrtc-io/rtcpack/internal/executor"
	"github.com/openrtc-io/rtcpack/internal/output"
	"github.com/openrtc-io/rtcpack/internal/platform"
)

// MinGitVersion is the oldest git the depot_tools toolchain works with.
const MinGitVersion = "2.11.0"

// Result contains the outcome of a single prerequisite check.
type Result struct {
	Name       string `json:"name"`
	Required   bool   `json:"required"`
	Found      bool   `json:"found"`
	Version    string `json:"version,omitempty"`
	Path       string `json:"path,omitempty"`
	Message    string `json:"message,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Checker performs prerequisite checks for a resolved platform and,
// on linux, installs missing apt packages as a side effect. Running it
// when everything is present performs no installs.
type Checker struct {
	target        platform.Target
	depotToolsDir string
	exec          executor.CommandExecutor
	logger        *output.Logger
	results       []Result

	// lookPath is swappable for tests; defaults to exec.LookPath.
	lookPath func(string) (string, error)
}

// NewChecker creates a prerequisite Checker for the given target.
func NewChecker(target platform.Target, depotToolsDir string, exec executor.CommandExecutor, logger *output.Logger) *Checker {
	if logger == nil {
		logger = output.DefaultLogger
	}
	return &Checker{
		target:        target,
		depotToolsDir: depotToolsDir,
		exec:          exec,
		logger:        logger,
	}
}

// aptPackages are the linux host packages required for a desktop or
// android build, installed through apt-get when missing.
var aptPackages = map[string]string{
	"git":        "git",
	"python3":    "python3",
	"curl":       "curl",
	"xz":         "xz-utils",
	"pkg-config": "pkg-config",
}

// depotTools are the toolchain binaries expected either inside the
// configured depot_tools directory or on PATH.
var depotTools = []string{"fetch", "gclient", "gn", "ninja"}

// Check verifies every required tool, installing missing linux packages
// through the privileged installer. It returns the per-tool results and
// an error if a required tool is unavailable after installation.
func (c *Checker) Check(ctx context.Context) ([]Result, error) {
	c.results = c.results[:0]

	for _, name := range []string{"git", "python3", "curl"} {
		c.checkTool(ctx, name)
	}
	if c.target.Platform == platform.Win {
		c.checkTool(ctx, "7z")
	} else {
		c.checkTool(ctx, "tar")
		c.checkTool(ctx, "xz")
	}
	for _, name := range depotTools {
		c.checkDepotTool(name)
	}
	c.checkGitVersion(ctx)

	for _, r := range c.results {
		if r.Required && !r.Found {
			return c.results, fmt.Errorf("prerequisite not met: %s - %s", r.Name, r.Message)
		}
	}
	return c.results, nil
}

// Results returns the latest check results.
func (c *Checker) Results() []Result {
	return c.results
}

func (c *Checker) look(name string) (string, error) {
	if c.lookPath != nil {
		return c.lookPath(name)
	}
	return exec.LookPath(name)
}

// checkTool checks a host tool, installing it on linux when missing.
func (c *Checker) checkTool(ctx context.Context, name string) {
	result := Result{Name: name, Required: true}

	path, err := c.look(name)
	if err != nil && c.target.Platform == platform.Linux {
		pkg, ok := aptPackages[name]
		if !ok {
			pkg = name
		}
		c.logger.Info("Installing missing package %s...", pkg)
		if installErr := c.exec.Run(ctx, "", "sudo", "apt-get", "install", "-y", pkg); installErr != nil {
			result.Message = fmt.Sprintf("%s is not installed and apt-get failed: %v", name, installErr)
			result.Suggestion = fmt.Sprintf("Install %s with your package manager", pkg)
			c.results = append(c.results, result)
			return
		}
		path, err = c.look(name)
	}
	if err != nil {
		result.Message = fmt.Sprintf("%s is not installed", name)
		result.Suggestion = fmt.Sprintf("Install %s with your package manager", name)
		c.results = append(c.results, result)
		return
	}

	result.Found = true
	result.Path = path
	result.Message = fmt.Sprintf("%s is available", name)
	c.results = append(c.results, result)
}

// checkDepotTool resolves a depot_tools binary from the configured
// directory first, then PATH.
func (c *Checker) checkDepotTool(name string) {
	result := Result{Name: name, Required: true}

	if c.depotToolsDir != "" {
		candidate := filepath.Join(c.depotToolsDir, name)
		if path, err := c.look(candidate); err == nil {
			result.Found = true
			result.Path = path
			result.Message = fmt.Sprintf("%s is available (depot_tools)", name)
			c.results = append(c.results, result)
			return
		}
	}

	if path, err := c.look(name); err == nil {
		result.Found = true
		result.Path = path
		result.Message = fmt.Sprintf("%s is available", name)
		c.results = append(c.results, result)
		return
	}

	result.Message = fmt.Sprintf("%s not found in depot_tools or PATH", name)
	result.Suggestion = "Fetch depot_tools and pass its location with --depot-tools"
	c.results = append(c.results, result)
}

// checkGitVersion enforces the minimum git version.
func (c *Checker) checkGitVersion(ctx context.Context) {
	result := Result{Name: "git-version", Required: true}

	out, err := c.exec.Output(ctx, "", "git", "version")
	if err != nil {
		result.Message = fmt.Sprintf("failed to run git version: %v", err)
		c.results = append(c.results, result)
		return
	}

	// Output format: "git version 2.39.2" (possibly with a platform suffix).
	fields := strings.Fields(string(out))
	if len(fields) < 3 {
		result.Message = fmt.Sprintf("unexpected git version output: %q", strings.TrimSpace(string(out)))
		c.results = append(c.results, result)
		return
	}
	// Keep only the leading numeric components; git for windows reports
	// versions like "2.39.2.windows.1".
	var numeric []string
	for _, seg := range strings.Split(fields[2], ".") {
		if seg == "" || seg[0] < '0' || seg[0] > '9' {
			break
		}
		numeric = append(numeric, seg)
	}
	raw := strings.Join(numeric, ".")

	have, err := goversion.NewVersion(raw)
	if err != nil {
		result.Message = fmt.Sprintf("failed to parse git version %q: %v", raw, err)
		c.results = append(c.results, result)
		return
	}
	min := goversion.Must(goversion.NewVersion(MinGitVersion))
	if have.LessThan(min) {
		result.Version = have.String()
		result.Message = fmt.Sprintf("git %s is too old (need %s or newer)", have, MinGitVersion)
		result.Suggestion = "Upgrade git with your package manager"
		c.results = append(c.results, result)
		return
	}

	result.Found = true
	result.Version = have.String()
	result.Message = fmt.Sprintf("git %s is available", have)
	c.results = append(c.results, result)
}

// AllPassed returns true if all required checks passed.
func (c *Checker) AllPassed() bool {
	for _, r := range c.results {
		if r.Required && !r.Found {
			return false
		}
	}
	return true
}

// FailedChecks returns only the failed required checks.
func (c *Checker) FailedChecks() []Result {
	failed := make([]Result, 0)
	for _, r := range c.results {
		if r.Required && !r.Found {
			failed = append(failed, r)
		}
	}
	return failed
}
