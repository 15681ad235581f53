package packaging

import (
	"context"
	"fmt"
	"os"

	"github.com/openrtc-io/rtcpack/internal/executor"
	"github.com/openrtc-io/rtcpack/internal/platform"
)

// ArchiveExt returns the archive file extension for a host platform.
// Windows packages use 7z for its compression ratio; everything else
// ships a xz tarball.
func ArchiveExt(p platform.Platform) string {
	if p == platform.Win {
		return ".7z"
	}
	return ".tar.xz"
}

// Archive compresses the staging tree (lib/ and include/) into
// archivePath, overwriting any previous archive of the same name.
func Archive(ctx context.Context, exec executor.CommandExecutor, p platform.Platform, stagingDir, archivePath string) error {
	if err := os.Remove(archivePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove stale archive: %w", err)
	}

	var err error
	if p == platform.Win {
		err = exec.Run(ctx, stagingDir, "7z", "a", archivePath, "lib", "include")
	} else {
		err = exec.Run(ctx, stagingDir, "tar", "-cJf", archivePath, "lib", "include")
	}
	if err != nil {
		return fmt.Errorf("archiving failed: %w", err)
	}
	return nil
}
