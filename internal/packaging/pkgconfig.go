package packaging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/openrtc-io/rtcpack/internal/helpers"
)

// pkgConfigTemplate is the pkg-config descriptor emitted per
// configuration on linux. CONFIG and VERSION are substituted.
const pkgConfigTemplate = `prefix=
libdir=${prefix}/lib
includedir=${prefix}/include

Name: libwebrtc_full
Description: WebRTC static library bundle (CONFIG)
Version: VERSION
Libs: -L${libdir} -lwebrtc_full
Cflags: -I${includedir}
`

// WritePkgConfig renders the pkg-config descriptor for one
// configuration into its staging lib directory.
func (s *Stager) WritePkgConfig(config, version string) error {
	content := strings.NewReplacer(
		"CONFIG", config,
		"VERSION", version,
	).Replace(pkgConfigTemplate)

	dir := filepath.Join(s.LibDir(config), "pkgconfig")
	if err := helpers.EnsureDir(dir, 0755); err != nil {
		return err
	}
	path := filepath.Join(dir, "libwebrtc_full.pc")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write pkg-config file: %w", err)
	}
	return nil
}
