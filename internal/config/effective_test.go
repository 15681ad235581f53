package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrtc-io/rtcpack/internal/platform"
)

func envFrom(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestEffectiveDefaults(t *testing.T) {
	cfg, err := Effective(nil, envFrom(map[string]string{
		EnvPlatform: "linux-gnu",
	}))
	require.NoError(t, err)

	assert.Equal(t, platform.Linux, cfg.Target.Platform)
	assert.Equal(t, "linux", cfg.Target.OS)
	assert.Equal(t, "x64", cfg.Target.CPU)
	assert.Equal(t, DefaultRepoURL, cfg.RepoURL)
	assert.Equal(t, DefaultPattern, cfg.Pattern)
	assert.Equal(t, []string{"Debug", "Release"}, cfg.Configs)
	assert.NoError(t, cfg.Validate())
}

func TestEffectiveUnsupportedPlatformFails(t *testing.T) {
	_, err := Effective(nil, envFrom(map[string]string{
		EnvPlatform: "plan9",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported host platform")
}

func TestEffectiveFileLayer(t *testing.T) {
	branch := "branch-heads/6478"
	outDir := "/tmp/webrtc"
	targetOS := "android"
	file := &FileConfig{
		Branch:   &branch,
		OutDir:   &outDir,
		TargetOS: &targetOS,
		Configs:  []string{"Release"},
	}

	cfg, err := Effective(file, envFrom(map[string]string{
		EnvPlatform: "linux-gnu",
	}))
	require.NoError(t, err)

	assert.Equal(t, branch, cfg.Branch)
	assert.Equal(t, outDir, cfg.OutDir)
	assert.Equal(t, "android", cfg.Target.OS)
	assert.Equal(t, []string{"Release"}, cfg.Configs)
}

func TestEffectiveEnvOverridesFile(t *testing.T) {
	branch := "from-file"
	targetCPU := "x86"
	file := &FileConfig{Branch: &branch, TargetCPU: &targetCPU}

	cfg, err := Effective(file, envFrom(map[string]string{
		EnvPlatform:  "linux-gnu",
		EnvBranch:    "from-env",
		EnvTargetOS:  "android",
		EnvTargetCPU: "arm64",
		EnvConfigs:   "Release,Debug",
		EnvPattern:   "custom-%sr%",
		EnvRevision:  "abc1234def",
	}))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Branch)
	assert.Equal(t, "android", cfg.Target.OS)
	assert.Equal(t, "arm64", cfg.Target.CPU)
	assert.Equal(t, []string{"Release", "Debug"}, cfg.Configs)
	assert.Equal(t, "custom-%sr%", cfg.Pattern)
	assert.Equal(t, "abc1234def", cfg.Revision)
}

func TestSetTargetKeepsUnsetValues(t *testing.T) {
	cfg, err := Effective(nil, envFrom(map[string]string{
		EnvPlatform: "darwin22",
	}))
	require.NoError(t, err)
	require.Equal(t, platform.Mac, cfg.Target.Platform)

	cfg.SetTarget("ios", "")
	assert.Equal(t, "ios", cfg.Target.OS)
	assert.Equal(t, "x64", cfg.Target.CPU)

	cfg.SetTarget("", "arm64")
	assert.Equal(t, "ios", cfg.Target.OS)
	assert.Equal(t, "arm64", cfg.Target.CPU)
}

func TestValidate(t *testing.T) {
	cfg, err := Effective(nil, envFrom(map[string]string{EnvPlatform: "linux"}))
	require.NoError(t, err)

	cfg.Configs = nil
	assert.Error(t, cfg.Validate())

	cfg.Configs = []string{"Debug"}
	cfg.OutDir = ""
	assert.Error(t, cfg.Validate())
}
