package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"reel/internal/app"
	"reel/internal/completion"
	"reel/internal/mux"
	"reel/internal/orchestrator"
	"reel/internal/services/ffmpeg"
)

func newCreateCommand(ctx *commandContext) *cobra.Command {
	var codecFlag string
	var images []string
	var audio string
	var async bool
	var showProgress bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Mux the configured images and audio track into a new video",
		Long: `Create builds one video from the configured still images and audio
track. --image (repeatable) and --audio override the configured inputs.

By default the command waits on the job's result. With --async the outcome is
delivered to a completion listener instead and printed when it fires.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.fileLogger()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			opts := app.Options{Logger: logger}
			if showProgress {
				opts.Progress = progressPrinter(cmd.ErrOrStderr())
			}
			controller, _, err := app.Open(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}
			defer controller.Close()

			if strings.TrimSpace(codecFlag) != "" {
				codec, ok := mux.ParseCodec(codecFlag)
				if !ok {
					return fmt.Errorf("codec not supported: %s", codecFlag)
				}
				if err := controller.SelectCodec(codec); err != nil {
					return err
				}
			}

			req := app.Request{Images: images, Audio: audio}
			var outcome completion.Outcome
			if async {
				outcome, err = createWithListener(cmd, controller, req)
			} else {
				outcome, err = controller.CreateAndWait(cmd.Context(), req)
			}
			if err != nil {
				if errors.Is(err, orchestrator.ErrPermissionDenied) {
					printPreflightFailures(cmd, controller)
				}
				return err
			}

			if !outcome.Succeeded() {
				fmt.Fprintf(out, "Video creation failed: %s\n", outcome.Description())
				return outcome.Err()
			}
			fmt.Fprintf(out, "Created %s (%s)\n", outcome.Output(), controller.Codec())
			return nil
		},
	}

	cmd.Flags().StringVar(&codecFlag, "codec", "", "Video codec (AVC or HEVC)")
	cmd.Flags().StringArrayVar(&images, "image", nil, "Still image, in display order (repeatable)")
	cmd.Flags().StringVar(&audio, "audio", "", "Audio track")
	cmd.Flags().BoolVar(&async, "async", false, "Deliver the result to a completion listener")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "Print encoder progress to stderr")
	return cmd
}

// createWithListener starts a listener-mode job and blocks until the
// listener fires or the command is cancelled.
func createWithListener(cmd *cobra.Command, controller *app.Controller, req app.Request) (completion.Outcome, error) {
	results := make(chan completion.Outcome, 1)
	id, err := controller.CreateNotify(req, completion.ListenerFuncs{
		Success: func(output string) { results <- completion.Success(output) },
		Failure: func(err error) { results <- completion.Failure(err) },
	})
	if err != nil {
		return completion.Outcome{}, err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Job %d started\n", id)
	select {
	case outcome := <-results:
		return outcome, nil
	case <-cmd.Context().Done():
		return completion.Outcome{}, cmd.Context().Err()
	}
}

func progressPrinter(w io.Writer) func(ffmpeg.Progress) {
	last := -1
	return func(p ffmpeg.Progress) {
		pct := int(p.Percent)
		if pct == last {
			return
		}
		last = pct
		if p.Speed != "" {
			fmt.Fprintf(w, "  %3d%% (%s)\n", pct, p.Speed)
			return
		}
		fmt.Fprintf(w, "  %3d%%\n", pct)
	}
}

func printPreflightFailures(cmd *cobra.Command, controller *app.Controller) {
	for _, result := range controller.Preflight(cmd.Context()) {
		if !result.Passed {
			fmt.Fprintf(cmd.OutOrStdout(), "Preflight failed: %s: %s\n", result.Name, result.Detail)
		}
	}
}
