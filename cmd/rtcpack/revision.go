package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openrtc-io/rtcpack/internal/executor"
	"github.com/openrtc-io/rtcpack/internal/output"
	"github.com/openrtc-io/rtcpack/internal/revision"
)

func NewRevisionCmd() *cobra.Command {
	var branch string
	var repoURL string

	cmd := &cobra.Command{
		Use:   "revision",
		Short: "Resolve a branch to its revision and revision number",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := effectiveConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("branch") {
				cfg.Branch = branch
			}
			if cmd.Flags().Changed("repo") {
				cfg.RepoURL = repoURL
			}

			logger := output.DefaultLogger
			exec := executor.NewOSExecutor(logger.Writer())
			resolver := revision.NewResolver(cfg.RepoURL, exec, logger)
			rev, err := resolver.Resolve(cmd.Context(), cfg.Branch, cfg.Revision)
			if err != nil {
				return err
			}

			if jsonMode {
				data, err := json.MarshalIndent(map[string]any{
					"revision":        rev.SHA,
					"revision_number": rev.Number,
					"short_revision":  rev.Short,
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Println(string(data))
				return nil
			}

			logger.Info("Revision:        %s", rev.SHA)
			logger.Info("Revision number: %d", rev.Number)
			logger.Info("Short revision:  %s", rev.Short)
			return nil
		},
	}

	cmd.Flags().StringVarP(&branch, "branch", "b", "", "Branch to resolve (defaults to the remote HEAD)")
	cmd.Flags().StringVar(&repoURL, "repo", "", "Source repository URL")

	return cmd
}
