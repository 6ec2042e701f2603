package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reel/internal/deps"
	"reel/internal/mux"
	"reel/internal/services/ffmpeg"
)

func newCodecsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "codecs",
		Short: "List the codecs this ffmpeg build can encode",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cli := ffmpeg.NewCLI(
				ffmpeg.WithBinary(cfg.FFmpeg.Binary),
				ffmpeg.WithProbeBinary(deps.ResolveProbe(cfg.FFmpeg.Binary, cfg.FFmpeg.ProbeBinary)),
			)

			configured, _ := mux.ParseCodec(cfg.Job.Codec)
			rows := make([][]string, 0, len(mux.Codecs()))
			for _, codec := range mux.Codecs() {
				selected := ""
				if codec == configured {
					selected = "*"
				}
				rows = append(rows, []string{
					selected,
					codec.String(),
					codec.MIMEType(),
					ffmpeg.EncoderFor(codec),
					yesNo(cli.IsCodecSupported(codec)),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"", "Codec", "MIME", "Encoder", "Supported"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
