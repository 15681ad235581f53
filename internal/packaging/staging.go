package packaging

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/openrtc-io/rtcpack/internal/helpers"
	"github.com/openrtc-io/rtcpack/internal/output"
	"github.com/openrtc-io/rtcpack/internal/platform"
)

// VendoredTree is the vendored-dependencies subtree excluded from the
// primary header pass.
const VendoredTree = "third_party"

// vendorAllowList names the vendored dependencies whose headers and
// license files ship in the package. Anything under third_party that
// does not match is dropped silently.
var vendorAllowList = []*regexp.Regexp{
	regexp.MustCompile(`third_party[/\\]abseil-cpp[/\\]`),
	regexp.MustCompile(`third_party[/\\]boringssl[/\\]`),
	regexp.MustCompile(`third_party[/\\]libyuv[/\\]`),
	regexp.MustCompile(`third_party[/\\]jsoncpp[/\\]`),
	regexp.MustCompile(`third_party[/\\]opus[/\\]`),
}

// libAllowList is the set of component name fragments a library file
// must match to be packaged, regardless of its extension.
var libAllowList = []string{
	"webrtc",
	"boringssl",
	"protobuf",
	"yuv",
	"jsoncpp",
	"opus",
	"vpx",
	"srtp",
	"usrsctp",
}

// libExtensions are the artifact types collected from a build output
// directory.
var libExtensions = map[string]bool{
	".so":    true,
	".dylib": true,
	".a":     true,
	".lib":   true,
	".jar":   true,
}

// licenseFileRE matches license and readme files packaged alongside
// vendored headers.
var licenseFileRE = regexp.MustCompile(`(?i)^(LICENSE|COPYING|README)`)

// Stager assembles the staging tree that mirrors the final package
// layout: include/ for headers, lib/<cpu>/<config>/ per configuration.
type Stager struct {
	srcDir     string
	stagingDir string
	target     platform.Target
	logger     *output.Logger
}

// NewStager creates a Stager copying from srcDir into stagingDir.
func NewStager(srcDir, stagingDir string, target platform.Target, logger *output.Logger) *Stager {
	if logger == nil {
		logger = output.DefaultLogger
	}
	return &Stager{
		srcDir:     srcDir,
		stagingDir: stagingDir,
		target:     target,
		logger:     logger,
	}
}

// IncludeDir returns the staging header directory.
func (s *Stager) IncludeDir() string {
	return filepath.Join(s.stagingDir, "include")
}

// LibDir returns the staging library directory for a configuration.
func (s *Stager) LibDir(config string) string {
	return filepath.Join(s.stagingDir, "lib", s.target.CPU, config)
}

// CollectHeaders copies every header outside the vendored subtree into
// include/, preserving relative paths, then collects headers and
// license files from allow-listed vendored dependencies.
func (s *Stager) CollectHeaders() error {
	count := 0
	err := filepath.WalkDir(s.srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(s.srcDir, path)
		if relErr != nil {
			return relErr
		}
		if d.IsDir() {
			// Build output and VCS metadata never contribute headers.
			if d.Name() == ".git" || rel == "out" {
				return filepath.SkipDir
			}
			// The vendored subtree is handled by the allow-list pass.
			if rel == VendoredTree {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".h") {
			return nil
		}
		count++
		return helpers.CopyFile(path, filepath.Join(s.IncludeDir(), rel))
	})
	if err != nil {
		return fmt.Errorf("header collection failed: %w", err)
	}
	s.logger.Debug("Collected %d headers", count)

	return s.collectVendoredHeaders()
}

// collectVendoredHeaders walks the vendored subtree and keeps headers
// plus license/readme files for allow-listed dependencies only.
func (s *Stager) collectVendoredHeaders() error {
	vendorRoot := filepath.Join(s.srcDir, VendoredTree)
	err := filepath.WalkDir(vendorRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d == nil {
				// No vendored tree at all; nothing to package.
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, relErr := filepath.Rel(s.srcDir, path)
		if relErr != nil {
			return relErr
		}
		if !vendorAllowed(rel) {
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".h") && !licenseFileRE.MatchString(d.Name()) {
			return nil
		}
		return helpers.CopyFile(path, filepath.Join(s.IncludeDir(), rel))
	})
	if err != nil {
		return fmt.Errorf("vendored header collection failed: %w", err)
	}
	return nil
}

// vendorAllowed reports whether a vendored path matches the allow-list.
func vendorAllowed(rel string) bool {
	for _, re := range vendorAllowList {
		if re.MatchString(rel) {
			return true
		}
	}
	return false
}

// CollectLibraries searches a configuration's build output directory
// for library artifacts whose name matches the component allow-list and
// copies them flat into lib/<cpu>/<config>/.
func (s *Stager) CollectLibraries(config string) error {
	buildDir := filepath.Join(s.srcDir, "out", config)
	libDir := s.LibDir(config)
	if err := helpers.EnsureDir(libDir, 0755); err != nil {
		return err
	}

	count := 0
	err := filepath.WalkDir(buildDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !libExtensions[filepath.Ext(d.Name())] {
			return nil
		}
		if !libAllowed(d.Name()) {
			return nil
		}
		count++
		return helpers.CopyFile(path, filepath.Join(libDir, d.Name()))
	})
	if err != nil {
		return fmt.Errorf("library collection failed for %s: %w", config, err)
	}
	if count == 0 {
		return fmt.Errorf("no packagable libraries found in %s", buildDir)
	}
	s.logger.Debug("Collected %d libraries for %s", count, config)
	return nil
}

// libAllowed reports whether a library filename matches the component
// allow-list.
func libAllowed(name string) bool {
	lower := strings.ToLower(name)
	for _, fragment := range libAllowList {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}
