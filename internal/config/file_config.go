package config

// FileConfig represents the raw rtcpack.toml file contents.
// All fields are pointers to distinguish "not set" from "set to zero".
type FileConfig struct {
	// Global settings
	Home    *string `toml:"home"`
	NoColor *bool   `toml:"no_color"`
	Verbose *bool   `toml:"verbose"`
	JSON    *bool   `toml:"json"`

	// Build settings
	OutDir        *string  `toml:"out_dir"`
	RepoURL       *string  `toml:"repo_url"`
	Branch        *string  `toml:"branch"`
	TargetOS      *string  `toml:"target_os"`
	TargetCPU     *string  `toml:"target_cpu"`
	Configs       []string `toml:"configs"`
	Pattern       *string  `toml:"pattern"`
	DepotToolsDir *string  `toml:"depot_tools_dir"`
	Revision      *string  `toml:"revision"`
}

// IsEmpty returns true if no configuration values are set.
func (f *FileConfig) IsEmpty() bool {
	return f.Home == nil &&
		f.NoColor == nil &&
		f.Verbose == nil &&
		f.JSON == nil &&
		f.OutDir == nil &&
		f.RepoURL == nil &&
		f.Branch == nil &&
		f.TargetOS == nil &&
		f.TargetCPU == nil &&
		f.Configs == nil &&
		f.Pattern == nil &&
		f.DepotToolsDir == nil &&
		f.Revision == nil
}
