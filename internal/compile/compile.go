// Package compile drives the GN generator and Ninja executor for each
// requested build configuration.
package compile

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/openrtc-io/rtcpack/internal/checkout"
	"github.com/openrtc-io/rtcpack/internal/executor"
	"github.com/openrtc-io/rtcpack/internal/output"
	"github.com/openrtc-io/rtcpack/internal/platform"
)

// Driver compiles the working copy, one configuration at a time.
// Configurations are processed in order; the first failure aborts the
// remaining ones.
type Driver struct {
	outDir string
	target platform.Target
	exec   executor.CommandExecutor
	logger *output.Logger
}

// NewDriver creates a compile Driver rooted at the run output dir.
func NewDriver(outDir string, target platform.Target, exec executor.CommandExecutor, logger *output.Logger) *Driver {
	if logger == nil {
		logger = output.DefaultLogger
	}
	return &Driver{
		outDir: outDir,
		target: target,
		exec:   exec,
		logger: logger,
	}
}

// BuildDir returns the Ninja output directory for a configuration,
// relative to the source tree.
func BuildDir(config string) string {
	return filepath.Join("out", config)
}

// baseArgs assembles the generator arguments shared by every
// configuration: a static, non-component library build with no tests,
// examples or tools, RTTI on, and warnings not treated as errors.
func (d *Driver) baseArgs(config string) *Args {
	args := NewArgs()
	args.SetBool("rtc_include_tests", false)
	args.SetBool("treat_warnings_as_errors", false)
	args.SetBool("use_rtti", true)
	args.SetBool("rtc_build_examples", false)
	args.SetBool("rtc_build_tools", false)
	args.SetBool("is_component_build", false)
	args.SetBool("enable_iterator_debugging", false)
	args.SetString("target_os", d.target.OS)
	args.SetString("target_cpu", d.target.CPU)

	if config == "Release" {
		args.SetBool("is_debug", false)
		args.SetBool("strip_debug_info", true)
		args.SetInt("symbol_level", 0)
	} else {
		args.SetBool("is_debug", true)
	}
	return args
}

// Build runs gn gen + ninja for every configuration in order.
func (d *Driver) Build(ctx context.Context, configs []string) error {
	if len(configs) == 0 {
		return fmt.Errorf("no build configurations requested")
	}

	srcDir := filepath.Join(d.outDir, checkout.SrcDir)
	for _, config := range configs {
		buildDir := BuildDir(config)
		args := d.baseArgs(config)

		d.logger.Info("Generating %s build files (%s/%s)...", config, d.target.OS, d.target.CPU)
		if err := d.exec.Run(ctx, srcDir, "gn", "gen", buildDir, "--args="+args.String()); err != nil {
			return fmt.Errorf("gn gen failed for %s: %w", config, err)
		}

		d.logger.Info("Compiling %s...", config)
		if err := d.exec.Run(ctx, srcDir, "ninja", "-C", buildDir); err != nil {
			return fmt.Errorf("ninja build failed for %s: %w", config, err)
		}
	}
	return nil
}
