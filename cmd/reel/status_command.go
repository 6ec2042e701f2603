package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"reel/internal/jobstore"
	"reel/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show preflight checks, server state, and job totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			var lines []string
			lines = append(lines, renderSectionHeader("Configuration", colorize)...)
			lines = append(lines, renderStatusLine("Config file", statusInfo, ctx.configPath, colorize))
			lines = append(lines, renderStatusLine("Job inputs", statusInfo,
				fmt.Sprintf("%d images, %s", len(cfg.Job.Images), filepath.Base(cfg.Job.Audio)), colorize))

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Preflight", colorize)...)
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusOK
				switch {
				case !result.Passed:
					kind = statusError
				case strings.HasPrefix(result.Detail, "optional:"):
					kind = statusWarn
				}
				lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Server", colorize)...)
			lines = append(lines, serverStatusLine(cfg.LockPath(), cfg.Paths.APIBind, colorize))

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Jobs", colorize)...)
			jobLines, err := jobStatusLines(cmd, ctx, colorize)
			if err != nil {
				lines = append(lines, renderStatusLine("History", statusError, err.Error(), colorize))
			} else {
				lines = append(lines, jobLines...)
			}

			fmt.Fprintln(out, strings.Join(lines, "\n"))
			return nil
		},
	}
}

// serverStatusLine probes the serve lock. A lock we can take means no
// server holds it.
func serverStatusLine(lockPath, bind string, colorize bool) string {
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return renderStatusLine("reel serve", statusWarn, fmt.Sprintf("lock check failed: %v", err), colorize)
	}
	if locked {
		_ = lock.Unlock()
		return renderStatusLine("reel serve", statusInfo, "not running", colorize)
	}
	return renderStatusLine("reel serve", statusOK, "running on "+bind, colorize)
}

func jobStatusLines(cmd *cobra.Command, ctx *commandContext, colorize bool) ([]string, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := jobstore.Open(cfg)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	stats, err := store.Stats(cmd.Context())
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, 4)
	for _, status := range []jobstore.Status{jobstore.StatusSucceeded, jobstore.StatusFailed, jobstore.StatusRunning} {
		kind := statusInfo
		if status == jobstore.StatusFailed && stats[status] > 0 {
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine(titleCase(string(status)), kind, fmt.Sprintf("%d", stats[status]), colorize))
	}

	latest, err := store.List(cmd.Context(), 1)
	if err != nil {
		return nil, err
	}
	if len(latest) == 1 {
		job := latest[0]
		message := fmt.Sprintf("#%d %s %s", job.ID, job.Status, job.Codec)
		if job.Output != "" {
			message += " " + job.Output
		}
		lines = append(lines, renderStatusLine("Latest", statusInfo, message, colorize))
	}
	return lines, nil
}
