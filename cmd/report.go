package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/oleg-kuibar/time-agent/internal/api"
	"github.com/oleg-kuibar/time-agent/internal/entities"
	"github.com/oleg-kuibar/time-agent/internal/mapper"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newReportCmd() *cobra.Command {
	var org, start, end string
	var show bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute a weekly report for one organization and print its summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, closeFn, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			from, err := mapper.ParseDate(start, a.loc)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			to, err := mapper.ParseDate(end, a.loc)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}

			var report *entities.WeeklyReport
			if show {
				report, err = a.uc.GetWeeklyReport(cmd.Context(), org, from, to)
			} else {
				report, err = a.uc.ComputeWeeklyReport(cmd.Context(), org, from, to)
			}
			if err != nil {
				return err
			}
			printReport(cmd.OutOrStdout(), report, a.loc)
			return nil
		},
	}
	cmd.Flags().StringVar(&org, "org", "", "organization id (uuid)")
	cmd.Flags().StringVar(&start, "start", "", "window start, YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "window end, YYYY-MM-DD")
	cmd.Flags().BoolVar(&show, "show", false, "only show a stored report, never compute")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

// printReport renders the window bounds as calendar days in loc.
func printReport(w io.Writer, report *entities.WeeklyReport, loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}
	fmt.Fprintf(w, "report %s  %s .. %s  status=%s\n", report.ID,
		report.StartDate.In(loc).Format(api.DateLayout), report.EndDate.In(loc).Format(api.DateLayout), report.Status)
	if report.Data == nil {
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Group", "Key", "PRs", "Minutes"})
	appendGroups(tw, "repository", report.Data.ByRepository)
	appendGroups(tw, "author", report.Data.ByAuthor)
	tw.AppendFooter(table.Row{"total", "", report.Data.TotalPRs, report.Data.TotalTimeSpent})
	tw.Render()
}

func appendGroups(tw table.Writer, group string, groups map[string]*entities.ReportSummary) {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		tw.AppendRow(table.Row{group, k, groups[k].Count, groups[k].TimeSpent})
	}
}
