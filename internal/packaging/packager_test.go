package packaging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrtc-io/rtcpack/internal/executor"
	"github.com/openrtc-io/rtcpack/internal/helpers"
	"github.com/openrtc-io/rtcpack/internal/platform"
	"github.com/openrtc-io/rtcpack/internal/revision"
)

// archivingExecutor wraps the recording executor and materializes the
// archive file when tar runs, so the checksum step has something to
// hash.
type archivingExecutor struct {
	*executor.RecordingExecutor
}

func (e *archivingExecutor) Run(ctx context.Context, dir, name string, args ...string) error {
	if err := e.RecordingExecutor.Run(ctx, dir, name, args...); err != nil {
		return err
	}
	if name == "tar" && len(args) >= 2 {
		return os.WriteFile(args[1], []byte("fake archive"), 0644)
	}
	return nil
}

func TestPackageEndToEnd(t *testing.T) {
	outDir := t.TempDir()
	srcDir := filepath.Join(outDir, "src")

	// Minimal source tree with artifacts for both configurations.
	for _, p := range []string{
		filepath.Join(srcDir, "api", "peer_connection.h"),
		filepath.Join(srcDir, "third_party", "abseil-cpp", "absl", "base.h"),
		filepath.Join(srcDir, "out", "Debug", "obj", "libwebrtc_full.a"),
		filepath.Join(srcDir, "out", "Release", "obj", "libwebrtc_full.a"),
	} {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}

	rec := &archivingExecutor{executor.NewRecordingExecutor()}
	rec.Script("git log", []byte("2026-08-30\n"), nil)

	target := platform.Target{Platform: platform.Linux, OS: "android", CPU: "arm64"}
	p := NewPackager(outDir, target, rec, nil)

	rev := &revision.Revision{SHA: "abc1234def5678900000000000000000000abcde", Number: 42001, Short: "abc1234"}
	manifest, err := p.Package(context.Background(), "webrtc-%rn%-%sr%-%to%-%tc%", "branch-heads/6478", rev, []string{"Debug", "Release"})
	require.NoError(t, err)

	base := "webrtc-42001-abc1234-android-arm64"
	assert.Equal(t, base+".tar.xz", manifest.File)
	assert.Equal(t, "2026-08-30", manifest.BuildDate)
	assert.Equal(t, "branch-heads/6478", manifest.Branch)
	assert.Equal(t, 42001, manifest.RevisionNumber)
	assert.Equal(t, "android", manifest.TargetOS)
	assert.Equal(t, "arm64", manifest.TargetCPU)
	assert.NotEmpty(t, manifest.Checksum)

	// Staging layout exists: include/ plus per-config lib dirs, and the
	// linux pkg-config descriptors.
	staging := filepath.Join(outDir, "package", base)
	for _, want := range []string{
		filepath.Join(staging, "include", "api", "peer_connection.h"),
		filepath.Join(staging, "lib", "arm64", "Debug", "libwebrtc_full.a"),
		filepath.Join(staging, "lib", "arm64", "Release", "libwebrtc_full.a"),
		filepath.Join(staging, "lib", "arm64", "Release", "pkgconfig", "libwebrtc_full.pc"),
	} {
		_, statErr := os.Stat(want)
		assert.NoError(t, statErr, "expected %s", want)
	}

	// Manifest written beside the archive.
	loaded, err := helpers.LoadJSON[Manifest](filepath.Join(outDir, base+".json"))
	require.NoError(t, err)
	assert.Equal(t, manifest.Checksum, loaded.Checksum)
}

func TestPackageCommitDateFailureDoesNotFailRun(t *testing.T) {
	outDir := t.TempDir()
	srcDir := filepath.Join(outDir, "src")
	for _, p := range []string{
		filepath.Join(srcDir, "api", "a.h"),
		filepath.Join(srcDir, "out", "Debug", "libwebrtc_full.a"),
	} {
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0644))
	}

	rec := &archivingExecutor{executor.NewRecordingExecutor()}
	rec.Script("git log", nil, executor.Errf("not a git repository"))

	target := platform.Target{Platform: platform.Linux, OS: "linux", CPU: "x64"}
	p := NewPackager(outDir, target, rec, nil)

	rev := &revision.Revision{SHA: "abc1234def", Number: 1, Short: "abc1234"}
	manifest, err := p.Package(context.Background(), "pkg", "", rev, []string{"Debug"})
	require.NoError(t, err)
	assert.Empty(t, manifest.BuildDate)
	assert.NotEmpty(t, manifest.Checksum)
}

func TestPackageFailsWithoutLibraries(t *testing.T) {
	outDir := t.TempDir()
	srcDir := filepath.Join(outDir, "src")
	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "api"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "api", "a.h"), []byte("x"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(srcDir, "out", "Debug"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "out", "Debug", "unrelated.o"), []byte("x"), 0644))

	rec := &archivingExecutor{executor.NewRecordingExecutor()}
	target := platform.Target{Platform: platform.Linux, OS: "linux", CPU: "x64"}
	p := NewPackager(outDir, target, rec, nil)

	rev := &revision.Revision{SHA: "abc1234def", Number: 1, Short: "abc1234"}
	_, err := p.Package(context.Background(), "pkg", "", rev, []string{"Debug"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no packagable libraries")
}
