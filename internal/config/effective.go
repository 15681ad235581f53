package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/openrtc-io/rtcpack/internal/platform"
)

// Defaults for the run configuration.
const (
	DefaultRepoURL = "https://webrtc.googlesource.com/src"
	DefaultOutDir  = "out"
	DefaultPattern = "webrtc-%rn%-%sr%-%to%-%tc%"
)

// DefaultConfigs is the ordered build configurations processed when none
// are requested.
var DefaultConfigs = []string{"Debug", "Release"}

// Environment variable names recognized by the run configuration.
const (
	EnvPlatform  = "RTCPACK_PLATFORM"
	EnvOutDir    = "RTCPACK_OUTDIR"
	EnvBranch    = "RTCPACK_BRANCH"
	EnvTargetOS  = "RTCPACK_TARGET_OS"
	EnvTargetCPU = "RTCPACK_TARGET_CPU"
	EnvConfigs   = "RTCPACK_CONFIGS"
	EnvPattern   = "RTCPACK_PATTERN"
	EnvRevision  = "RTCPACK_REVISION"
)

// Config is the immutable run configuration constructed once at startup
// and handed to every pipeline stage. No stage reads the environment or
// mutable globals after this record is built.
type Config struct {
	Target        platform.Target
	RepoURL       string
	Branch        string
	Revision      string // optional revision override (full SHA)
	Configs       []string
	Pattern       string
	OutDir        string
	DepotToolsDir string
}

// Effective builds the run Config by applying precedence
// default < config file < environment. Flag values are applied on top
// by the CLI layer (only for flags the user actually set).
//
// env is a lookup function (usually os.Getenv); injecting it keeps the
// merge testable.
func Effective(file *FileConfig, env func(string) string) (*Config, error) {
	cfg := &Config{
		RepoURL: DefaultRepoURL,
		OutDir:  DefaultOutDir,
		Pattern: DefaultPattern,
		Configs: append([]string(nil), DefaultConfigs...),
	}

	// Config file layer.
	if file != nil {
		if file.RepoURL != nil {
			cfg.RepoURL = *file.RepoURL
		}
		if file.OutDir != nil {
			cfg.OutDir = *file.OutDir
		}
		if file.Pattern != nil {
			cfg.Pattern = *file.Pattern
		}
		if file.Configs != nil {
			cfg.Configs = append([]string(nil), file.Configs...)
		}
		if file.Branch != nil {
			cfg.Branch = *file.Branch
		}
		if file.DepotToolsDir != nil {
			cfg.DepotToolsDir = *file.DepotToolsDir
		}
		if file.Revision != nil {
			cfg.Revision = *file.Revision
		}
	}

	targetOS := ""
	targetCPU := ""
	if file != nil && file.TargetOS != nil {
		targetOS = *file.TargetOS
	}
	if file != nil && file.TargetCPU != nil {
		targetCPU = *file.TargetCPU
	}

	// Environment layer.
	hostID := runtime.GOOS
	if v := env(EnvPlatform); v != "" {
		hostID = v
	}
	if v := env(EnvOutDir); v != "" {
		cfg.OutDir = v
	}
	if v := env(EnvBranch); v != "" {
		cfg.Branch = v
	}
	if v := env(EnvTargetOS); v != "" {
		targetOS = v
	}
	if v := env(EnvTargetCPU); v != "" {
		targetCPU = v
	}
	if v := env(EnvConfigs); v != "" {
		cfg.Configs = splitConfigs(v)
	}
	if v := env(EnvPattern); v != "" {
		cfg.Pattern = v
	}
	if v := env(EnvRevision); v != "" {
		cfg.Revision = v
	}

	p, err := platform.ResolveHost(hostID)
	if err != nil {
		return nil, err
	}
	cfg.Target = platform.NewTarget(p, targetOS, targetCPU)

	return cfg, nil
}

// SetTarget rebuilds the target with explicit OS/CPU overrides, keeping
// the resolved host platform. Used by the CLI flag layer.
func (c *Config) SetTarget(targetOS, targetCPU string) {
	if targetOS == "" {
		targetOS = c.Target.OS
	}
	if targetCPU == "" {
		targetCPU = c.Target.CPU
	}
	c.Target = platform.Target{Platform: c.Target.Platform, OS: targetOS, CPU: targetCPU}
}

// Validate checks the assembled configuration before the pipeline runs.
func (c *Config) Validate() error {
	if c.RepoURL == "" {
		return fmt.Errorf("repository URL must not be empty")
	}
	if c.OutDir == "" {
		return fmt.Errorf("output directory must not be empty")
	}
	if len(c.Configs) == 0 {
		return fmt.Errorf("at least one build configuration is required")
	}
	return nil
}

func splitConfigs(v string) []string {
	parts := strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
