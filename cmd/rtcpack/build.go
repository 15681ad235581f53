package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openrtc-io/rtcpack/internal/checkout"
	"github.com/openrtc-io/rtcpack/internal/compile"
	"github.com/openrtc-io/rtcpack/internal/config"
	"github.com/openrtc-io/rtcpack/internal/executor"
	"github.com/openrtc-io/rtcpack/internal/output"
	"github.com/openrtc-io/rtcpack/internal/packaging"
	"github.com/openrtc-io/rtcpack/internal/prereq"
	"github.com/openrtc-io/rtcpack/internal/revision"
)

// buildFlags holds the flag values for the build command.
type buildFlags struct {
	outDir     string
	repoURL    string
	branch     string
	rev        string
	targetOS   string
	targetCPU  string
	configs    []string
	pattern    string
	depotTools string
}

func NewBuildCmd() *cobra.Command {
	flags := &buildFlags{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run the full fetch, compile and package pipeline",
		Long: `Build runs the whole pipeline: verify the environment, resolve the
revision to build, sync the working copy, compile each requested
configuration with GN and Ninja, and package headers and libraries
into an archive with a manifest.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := effectiveConfig()
			if err != nil {
				return err
			}
			applyBuildFlags(cmd, flags, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runBuild(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&flags.outDir, "out-dir", "o", "", "Output directory for the working copy and packages")
	cmd.Flags().StringVar(&flags.repoURL, "repo", "", "Source repository URL")
	cmd.Flags().StringVarP(&flags.branch, "branch", "b", "", "Branch to build (defaults to the remote HEAD)")
	cmd.Flags().StringVarP(&flags.rev, "revision", "r", "", "Exact revision to build (overrides branch resolution)")
	cmd.Flags().StringVar(&flags.targetOS, "target-os", "", "Target OS (linux, android, ios, win, mac)")
	cmd.Flags().StringVar(&flags.targetCPU, "target-cpu", "", "Target CPU (x64, x86, arm, arm64)")
	cmd.Flags().StringSliceVar(&flags.configs, "configs", nil, "Build configurations in order (default Debug,Release)")
	cmd.Flags().StringVar(&flags.pattern, "pattern", "", "Package filename pattern (tokens: %p% %to% %tc% %b% %r% %rn% %da% %sr%)")
	cmd.Flags().StringVar(&flags.depotTools, "depot-tools", "", "Path to a depot_tools checkout")

	return cmd
}

// applyBuildFlags layers explicitly set flags on top of the file/env
// configuration.
func applyBuildFlags(cmd *cobra.Command, flags *buildFlags, cfg *config.Config) {
	if cmd.Flags().Changed("out-dir") {
		cfg.OutDir = flags.outDir
	}
	if cmd.Flags().Changed("repo") {
		cfg.RepoURL = flags.repoURL
	}
	if cmd.Flags().Changed("branch") {
		cfg.Branch = flags.branch
	}
	if cmd.Flags().Changed("revision") {
		cfg.Revision = flags.rev
	}
	if cmd.Flags().Changed("configs") {
		cfg.Configs = flags.configs
	}
	if cmd.Flags().Changed("pattern") {
		cfg.Pattern = flags.pattern
	}
	if cmd.Flags().Changed("depot-tools") {
		cfg.DepotToolsDir = flags.depotTools
	}
	cfg.SetTarget(flags.targetOS, flags.targetCPU)
}

func runBuild(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	logger := output.DefaultLogger
	exec := executor.NewOSExecutor(logger.Writer())
	exec.PathPrepend = cfg.DepotToolsDir

	logger.Stage("Verifying build environment...")
	checker := prereq.NewChecker(cfg.Target, cfg.DepotToolsDir, exec, logger)
	if _, err := checker.Check(ctx); err != nil {
		return err
	}

	logger.Stage("Resolving revision...")
	resolver := revision.NewResolver(cfg.RepoURL, exec, logger)
	rev, err := resolver.Resolve(ctx, cfg.Branch, cfg.Revision)
	if err != nil {
		return err
	}
	logger.Info("Building revision %s (#%d)", rev.Short, rev.Number)

	logger.Stage("Checking out revision...")
	driver := checkout.NewDriver(cfg.OutDir, cfg.Target, exec, logger, confirmFunc())
	if err := driver.Sync(ctx, rev); err != nil {
		return err
	}

	logger.Stage("Compiling...")
	compiler := compile.NewDriver(cfg.OutDir, cfg.Target, exec, logger)
	if err := compiler.Build(ctx, cfg.Configs); err != nil {
		return err
	}

	logger.Stage("Packaging...")
	packager := packaging.NewPackager(cfg.OutDir, cfg.Target, exec, logger)
	manifest, err := packager.Package(ctx, cfg.Pattern, cfg.Branch, rev, cfg.Configs)
	if err != nil {
		return err
	}

	if jsonMode {
		data, err := json.MarshalIndent(manifest, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	}
	return nil
}

// confirmFunc wires the interactive confirmation for destructive
// checkout invalidation; --yes bypasses the prompt.
func confirmFunc() checkout.ConfirmFunc {
	if assumeYes {
		return nil
	}
	return output.Confirm
}
