package packaging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrtc-io/rtcpack/internal/platform"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func newTestStager(t *testing.T, srcDir string) *Stager {
	t.Helper()
	target := platform.Target{Platform: platform.Linux, OS: "linux", CPU: "x64"}
	return NewStager(srcDir, t.TempDir(), target, nil)
}

func TestCollectHeaders(t *testing.T) {
	srcDir := t.TempDir()
	// Regular headers, preserved with relative paths.
	writeFile(t, filepath.Join(srcDir, "api", "peer_connection.h"))
	writeFile(t, filepath.Join(srcDir, "media", "base", "codec.h"))
	// Non-headers are skipped.
	writeFile(t, filepath.Join(srcDir, "api", "peer_connection.cc"))
	// Build output and VCS metadata never contribute headers.
	writeFile(t, filepath.Join(srcDir, "out", "Debug", "gen", "config.h"))
	writeFile(t, filepath.Join(srcDir, ".git", "objects", "fake.h"))
	// Vendored subtree: only allow-listed deps are packaged.
	writeFile(t, filepath.Join(srcDir, "third_party", "abseil-cpp", "absl", "base.h"))
	writeFile(t, filepath.Join(srcDir, "third_party", "abseil-cpp", "LICENSE"))
	writeFile(t, filepath.Join(srcDir, "third_party", "libyuv", "include", "libyuv.h"))
	writeFile(t, filepath.Join(srcDir, "third_party", "ffmpeg", "avcodec.h"))
	writeFile(t, filepath.Join(srcDir, "third_party", "abseil-cpp", "absl", "base.cc"))

	s := newTestStager(t, srcDir)
	require.NoError(t, s.CollectHeaders())

	include := s.IncludeDir()
	for _, want := range []string{
		"api/peer_connection.h",
		"media/base/codec.h",
		"third_party/abseil-cpp/absl/base.h",
		"third_party/abseil-cpp/LICENSE",
		"third_party/libyuv/include/libyuv.h",
	} {
		_, err := os.Stat(filepath.Join(include, filepath.FromSlash(want)))
		assert.NoError(t, err, "expected %s in staging", want)
	}
	for _, banned := range []string{
		"api/peer_connection.cc",
		"out/Debug/gen/config.h",
		".git/objects/fake.h",
		"third_party/ffmpeg/avcodec.h",
		"third_party/abseil-cpp/absl/base.cc",
	} {
		_, err := os.Stat(filepath.Join(include, filepath.FromSlash(banned)))
		assert.True(t, os.IsNotExist(err), "%s must not be staged", banned)
	}
}

func TestCollectLibraries(t *testing.T) {
	srcDir := t.TempDir()
	for _, config := range []string{"Debug", "Release"} {
		base := filepath.Join(srcDir, "out", config)
		// Allow-listed artifacts of several extension types, nested.
		writeFile(t, filepath.Join(base, "obj", "libwebrtc_full.a"))
		writeFile(t, filepath.Join(base, "libboringssl.so"))
		writeFile(t, filepath.Join(base, "lib.java", "libwebrtc.jar"))
		// Not on the allow-list.
		writeFile(t, filepath.Join(base, "obj", "libunrelated.a"))
		// Allowed name but not a library extension.
		writeFile(t, filepath.Join(base, "webrtc.ninja"))
	}

	s := newTestStager(t, srcDir)
	for _, config := range []string{"Debug", "Release"} {
		require.NoError(t, s.CollectLibraries(config))
	}

	for _, config := range []string{"Debug", "Release"} {
		libDir := s.LibDir(config)
		// Copied flat into the per-configuration directory.
		for _, want := range []string{"libwebrtc_full.a", "libboringssl.so", "libwebrtc.jar"} {
			_, err := os.Stat(filepath.Join(libDir, want))
			assert.NoError(t, err, "expected %s in %s", want, libDir)
		}
		for _, banned := range []string{"libunrelated.a", "webrtc.ninja"} {
			_, err := os.Stat(filepath.Join(libDir, banned))
			assert.True(t, os.IsNotExist(err), "%s must not be staged", banned)
		}
	}

	// Distinct per-configuration directories.
	assert.NotEqual(t, s.LibDir("Debug"), s.LibDir("Release"))
}

func TestCollectLibrariesFailsWhenNothingMatches(t *testing.T) {
	srcDir := t.TempDir()
	writeFile(t, filepath.Join(srcDir, "out", "Debug", "libunrelated.a"))

	s := newTestStager(t, srcDir)
	assert.Error(t, s.CollectLibraries("Debug"))
}

func TestWritePkgConfig(t *testing.T) {
	s := newTestStager(t, t.TempDir())
	require.NoError(t, s.WritePkgConfig("Release", "6478"))

	data, err := os.ReadFile(filepath.Join(s.LibDir("Release"), "pkgconfig", "libwebrtc_full.pc"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Version: 6478")
	assert.Contains(t, string(data), "(Release)")
}
