// Package packaging stages compiled artifacts, archives them and emits the
// package manifest.
package packaging

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/openrtc-io/rtcpack/internal/checkout"
	"github.com/openrtc-io/rtcpack/internal/executor"
	"github.com/openrtc-io/rtcpack/internal/helpers"
	"github.com/openrtc-io/rtcpack/internal/output"
	"github.com/openrtc-io/rtcpack/internal/platform"
	"github.com/openrtc-io/rtcpack/internal/revision"
)

// Packager runs the packaging/manifest pipeline for a completed build.
type Packager struct {
	outDir string
	target platform.Target
	exec   executor.CommandExecutor
	logger *output.Logger
}

// NewPackager creates a Packager rooted at the run output dir.
func NewPackager(outDir string, target platform.Target, exec executor.CommandExecutor, logger *output.Logger) *Packager {
	if logger == nil {
		logger = output.DefaultLogger
	}
	return &Packager{
		outDir: outDir,
		target: target,
		exec:   exec,
		logger: logger,
	}
}

// Package stages headers and per-configuration libraries, archives the
// staging tree and writes the manifest. It returns the completed
// manifest record.
func (p *Packager) Package(ctx context.Context, pattern, branch string, rev *revision.Revision, configs []string) (*Manifest, error) {
	srcDir := filepath.Join(p.outDir, checkout.SrcDir)

	baseName := Interpolate(pattern, Vars{
		Platform:       string(p.target.Platform),
		TargetOS:       p.target.OS,
		TargetCPU:      p.target.CPU,
		Branch:         strings.ReplaceAll(branch, "/", "-"),
		Revision:       rev.SHA,
		RevisionNumber: strconv.Itoa(rev.Number),
		DebianArch:     platform.DebianArch(p.target.CPU),
		ShortRevision:  rev.Short,
	})

	stagingDir := filepath.Join(p.outDir, "package", baseName)
	if err := os.RemoveAll(stagingDir); err != nil {
		return nil, fmt.Errorf("failed to clear staging directory: %w", err)
	}
	if err := helpers.EnsureDir(stagingDir, 0755); err != nil {
		return nil, err
	}

	stager := NewStager(srcDir, stagingDir, p.target, p.logger)

	p.logger.Info("Collecting headers...")
	if err := stager.CollectHeaders(); err != nil {
		return nil, err
	}

	for _, config := range configs {
		p.logger.Info("Collecting %s libraries...", config)
		if err := stager.CollectLibraries(config); err != nil {
			return nil, err
		}
		if p.target.Platform == platform.Linux {
			if err := stager.WritePkgConfig(config, strconv.Itoa(rev.Number)); err != nil {
				return nil, err
			}
		}
	}

	archivePath, err := filepath.Abs(filepath.Join(p.outDir, baseName+ArchiveExt(p.target.Platform)))
	if err != nil {
		return nil, err
	}
	p.logger.Info("Archiving %s...", filepath.Base(archivePath))
	if err := Archive(ctx, p.exec, p.target.Platform, stagingDir, archivePath); err != nil {
		return nil, err
	}

	manifest, err := NewManifest(archivePath, Manifest{
		File:           filepath.Base(archivePath),
		BuildDate:      p.buildDate(ctx, srcDir),
		Branch:         branch,
		Revision:       rev.SHA,
		RevisionNumber: rev.Number,
		TargetOS:       p.target.OS,
		TargetCPU:      p.target.CPU,
	})
	if err != nil {
		return nil, err
	}

	manifestPath := filepath.Join(p.outDir, baseName+".json")
	if err := manifest.Write(manifestPath); err != nil {
		return nil, err
	}
	p.logger.Success("Package written: %s", archivePath)
	return manifest, nil
}

// buildDate returns the commit date of the synced revision. A failure
// here only degrades the manifest, it does not fail the packaging.
func (p *Packager) buildDate(ctx context.Context, srcDir string) string {
	out, err := p.exec.Output(ctx, srcDir, "git", "log", "-1", "--format=%cd", "--date=short")
	if err != nil {
		p.logger.Warn("Failed to read commit date: %v", err)
		return ""
	}
	return strings.TrimSpace(string(out))
}
