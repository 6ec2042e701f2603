package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"reel/internal/jobstore"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent video jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := jobstore.Open(cfg)
			if err != nil {
				return fmt.Errorf("open job history: %w", err)
			}
			defer store.Close()

			jobs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(jobs) == 0 {
				fmt.Fprintln(out, "No jobs recorded")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Status", "Codec", "Size", "Frames", "Duration", "Started", "Result"},
				historyRows(jobs),
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft},
			))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of jobs to show")
	return cmd
}

func historyRows(jobs []*jobstore.Job) [][]string {
	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		result := filepath.Base(job.Output)
		if job.Status == jobstore.StatusFailed {
			result = job.ErrorMessage
		}
		if job.Status == jobstore.StatusRunning || result == "." {
			result = ""
		}
		duration := ""
		if job.Finished() {
			duration = job.Duration.Round(100 * time.Millisecond).String()
		}
		rows = append(rows, []string{
			strconv.FormatInt(job.ID, 10),
			titleCase(string(job.Status)),
			job.Codec,
			fmt.Sprintf("%dx%d", job.Width, job.Height),
			strconv.Itoa(job.ImageCount),
			duration,
			job.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			truncate(result, 60),
		})
	}
	return rows
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit-1]) + "…"
}
