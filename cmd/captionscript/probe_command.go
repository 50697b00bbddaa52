package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"captionscript/internal/config"
	"captionscript/internal/services"
	"captionscript/internal/services/ffmpeg"
)

func newProbeCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <video>",
		Short: "Inspect a source clip's frame rate and dimensions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return services.Wrap(services.ErrInput, "cli", "load config", "", err)
			}

			path, err := config.ExpandPath(args[0])
			if err != nil {
				return services.Wrap(services.ErrInput, "cli", "resolve video path", args[0], err)
			}

			client := ffmpeg.NewCLI(
				ffmpeg.WithBinary(cfg.Render.FFmpegBinary),
				ffmpeg.WithProbeBinary(cfg.Render.FFprobeBinary),
			)
			info, err := client.Probe(cmd.Context(), path)
			if err != nil {
				return services.Wrap(services.ErrResource, "cli", "probe", path, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dimensions: %dx%d\n", info.Width, info.Height)
			fmt.Fprintf(out, "frame rate: %s (%.3f fps)\n", info.Rate.String(), info.Rate.FPS())
			return nil
		},
	}
}
