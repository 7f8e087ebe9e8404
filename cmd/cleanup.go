package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Run one retention pass and print deleted row counts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, closeFn, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			res, err := a.uc.RunCleanup(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"pull_requests=%d reports=%d orphaned_pull_requests=%d orphaned_reports=%d\n",
				res.PullRequests, res.Reports, res.OrphanedPullRequests, res.OrphanedReports)
			return nil
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, closeFn, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()
			a.log.Infow("migrations up to date")
			return nil
		},
	}
}
