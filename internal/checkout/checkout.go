// Package checkout maintains the local working copy pinned to an exact
// revision through the depot_tools fetch/gclient toolchain.
package checkout

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openrtc-io/rtcpack/internal/executor"
	"github.com/openrtc-io/rtcpack/internal/output"
	"github.com/openrtc-io/rtcpack/internal/platform"
	"github.com/openrtc-io/rtcpack/internal/revision"
)

// MarkerFile records the target OS of the last checkout inside the
// output directory. A differing target OS on the next run invalidates
// the whole working copy: gclient metadata for different target OSes is
// incompatible.
const MarkerFile = ".rtcpack_target_os"

// SrcDir is the working copy directory name the fetch recipes create.
const SrcDir = "src"

// ConfirmFunc asks the operator before a destructive step. Returning
// false aborts the run without error text beyond the returned message.
type ConfirmFunc func(message string) (bool, error)

// Driver ensures a working copy exists at the resolved revision.
type Driver struct {
	outDir  string
	target  platform.Target
	exec    executor.CommandExecutor
	logger  *output.Logger
	confirm ConfirmFunc
}

// NewDriver creates a checkout Driver. confirm may be nil, in which
// case destructive invalidation proceeds without asking.
func NewDriver(outDir string, target platform.Target, exec executor.CommandExecutor, logger *output.Logger, confirm ConfirmFunc) *Driver {
	if logger == nil {
		logger = output.DefaultLogger
	}
	return &Driver{
		outDir:  outDir,
		target:  target,
		exec:    exec,
		logger:  logger,
		confirm: confirm,
	}
}

// fetchRecipe returns the depot_tools fetch config for a target OS.
func fetchRecipe(targetOS string) string {
	switch targetOS {
	case "android":
		return "webrtc_android"
	case "ios":
		return "webrtc_ios"
	}
	return "webrtc"
}

// Sync brings the working copy to the exact revision. It discards a
// stale working copy when the target OS changed, fetches an initial
// copy when none exists, removes untracked files (they are known to
// break gclient sync), and force-syncs to the pinned revision. The
// marker file is persisted only after a successful sync.
func (d *Driver) Sync(ctx context.Context, rev *revision.Revision) error {
	if rev == nil || rev.SHA == "" {
		return fmt.Errorf("revision must be resolved before checkout")
	}

	if err := os.MkdirAll(d.outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := d.invalidateIfTargetOSChanged(); err != nil {
		return err
	}

	srcDir := filepath.Join(d.outDir, SrcDir)
	if _, err := os.Stat(srcDir); os.IsNotExist(err) {
		recipe := fetchRecipe(d.target.OS)
		d.logger.Info("Fetching %s into %s (this can take a while)...", recipe, d.outDir)
		if err := d.exec.Run(ctx, d.outDir, "fetch", "--nohooks", recipe); err != nil {
			return fmt.Errorf("initial fetch failed: %w", err)
		}
	}

	// Stale untracked files break gclient sync.
	if err := d.exec.Run(ctx, srcDir, "git", "clean", "-ffd"); err != nil {
		return fmt.Errorf("git clean failed: %w", err)
	}

	d.logger.Info("Syncing working copy to %s...", rev.Short)
	if err := d.exec.Run(ctx, d.outDir, "gclient", "sync", "--force", "--revision", SrcDir+"@"+rev.SHA); err != nil {
		return fmt.Errorf("gclient sync failed: %w", err)
	}

	if err := d.writeMarker(); err != nil {
		return err
	}
	return nil
}

// invalidateIfTargetOSChanged deletes the working copy and gclient
// metadata when the marker file records a different target OS.
func (d *Driver) invalidateIfTargetOSChanged() error {
	last, err := d.readMarker()
	if err != nil {
		return err
	}
	if last == "" || last == d.target.OS {
		return nil
	}

	if d.confirm != nil {
		ok, err := d.confirm(fmt.Sprintf("Target OS changed from %s to %s; discard the existing working copy", last, d.target.OS))
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			return fmt.Errorf("aborted: target OS changed from %s to %s and working copy was kept", last, d.target.OS)
		}
	}

	d.logger.Warn("Target OS changed from %s to %s, discarding working copy", last, d.target.OS)
	for _, name := range []string{SrcDir, ".gclient", ".gclient_entries", MarkerFile} {
		if err := os.RemoveAll(filepath.Join(d.outDir, name)); err != nil {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	return nil
}

func (d *Driver) readMarker() (string, error) {
	data, err := os.ReadFile(filepath.Join(d.outDir, MarkerFile))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read marker file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (d *Driver) writeMarker() error {
	path := filepath.Join(d.outDir, MarkerFile)
	if err := os.WriteFile(path, []byte(d.target.OS+"\n"), 0644); err != nil {
		return fmt.Errorf("failed to write marker file: %w", err)
	}
	return nil
}
