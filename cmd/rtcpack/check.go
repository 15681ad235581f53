package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openrtc-io/rtcpack/internal/executor"
	"github.com/openrtc-io/rtcpack/internal/output"
	"github.com/openrtc-io/rtcpack/internal/prereq"
)

func NewCheckCmd() *cobra.Command {
	var depotTools string
	var targetOS string
	var targetCPU string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the build environment",
		Long: `Check verifies that every external tool the pipeline needs is
available, installing missing host packages on linux.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := effectiveConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("depot-tools") {
				cfg.DepotToolsDir = depotTools
			}
			cfg.SetTarget(targetOS, targetCPU)

			logger := output.DefaultLogger
			exec := executor.NewOSExecutor(logger.Writer())
			exec.PathPrepend = cfg.DepotToolsDir
			checker := prereq.NewChecker(cfg.Target, cfg.DepotToolsDir, exec, logger)
			results, checkErr := checker.Check(cmd.Context())

			if jsonMode {
				data, err := json.MarshalIndent(results, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return checkErr
			}

			for _, r := range results {
				if r.Found {
					logger.Success("%s", r.Message)
				} else {
					logger.Error("%s", r.Message)
					if r.Suggestion != "" {
						logger.Info("  %s", r.Suggestion)
					}
				}
			}
			return checkErr
		},
	}

	cmd.Flags().StringVar(&depotTools, "depot-tools", "", "Path to a depot_tools checkout")
	cmd.Flags().StringVar(&targetOS, "target-os", "", "Target OS (linux, android, ios, win, mac)")
	cmd.Flags().StringVar(&targetCPU, "target-cpu", "", "Target CPU (x64, x86, arm, arm64)")

	return cmd
}
