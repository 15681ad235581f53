package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/openrtc-io/rtcpack/internal/config"
	"github.com/openrtc-io/rtcpack/internal/output"
)

// Global configuration variables
var (
	homeDir    string
	jsonMode   bool
	noColor    bool
	verbose    bool
	assumeYes  bool
	configPath string // path to rtcpack.toml (--config flag)

	// loadedFileConfig holds the parsed rtcpack.toml values.
	loadedFileConfig *config.FileConfig
)

// DefaultHomeDir returns the default home directory for rtcpack data.
func DefaultHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".rtcpack"
	}
	return filepath.Join(home, ".rtcpack")
}

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rtcpack",
		Short: "Build and package WebRTC from source",
		Long: `rtcpack fetches a pinned revision of the WebRTC source tree through
depot_tools, compiles it with GN and Ninja, and packages headers,
libraries and a manifest into a distributable archive.

Examples:
  # Build and package the current development head for the host
  rtcpack build --out-dir /tmp/webrtc

  # Build a branch for Android arm64
  rtcpack build --branch branch-heads/6478 --target-os android --target-cpu arm64

  # Resolve a branch to a revision without building
  rtcpack revision --branch branch-heads/6478

  # Verify the build environment
  rtcpack check`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoader(homeDir, configPath, output.DefaultLogger)
			fileCfg, configFilePath, err := loader.Load()
			if err != nil {
				return err
			}
			loadedFileConfig = fileCfg

			// Priority: default < rtcpack.toml < env < flag.
			if !cmd.Flags().Changed("home") && fileCfg.Home != nil {
				homeDir = *fileCfg.Home
			}
			if !cmd.Flags().Changed("verbose") && fileCfg.Verbose != nil {
				verbose = *fileCfg.Verbose
			}
			if !cmd.Flags().Changed("json") && fileCfg.JSON != nil {
				jsonMode = *fileCfg.JSON
			}
			if !cmd.Flags().Changed("no-color") && fileCfg.NoColor != nil {
				noColor = *fileCfg.NoColor
			}

			if envHome := os.Getenv("RTCPACK_HOME"); envHome != "" && !cmd.Flags().Changed("home") {
				homeDir = envHome
			}
			if os.Getenv("NO_COLOR") != "" && !cmd.Flags().Changed("no-color") {
				noColor = true
			}

			if configFilePath != "" && verbose {
				output.DefaultLogger.Debug("Using config file: %s", configFilePath)
			}

			output.DefaultLogger.SetNoColor(noColor)
			output.DefaultLogger.SetVerbose(verbose)
			output.DefaultLogger.SetJSONMode(jsonMode)

			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&homeDir, "home", DefaultHomeDir(), "Home directory for rtcpack data")
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to rtcpack.toml config file")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVar(&jsonMode, "json", false, "Output results as JSON")
	cmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Assume yes for destructive prompts")

	cmd.AddCommand(NewBuildCmd())
	cmd.AddCommand(NewRevisionCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// effectiveConfig builds the run configuration from file and env layers;
// the caller applies flag overrides on top.
func effectiveConfig() (*config.Config, error) {
	return config.Effective(loadedFileConfig, os.Getenv)
}
