package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"captionscript/internal/config"
	"captionscript/internal/logging"
	"captionscript/internal/render"
	"captionscript/internal/services"
)

func newRenderCommand(configFlag *string) *cobra.Command {
	var (
		mode       string
		videoPath  string
		outputDir  string
		outputPath string
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "render <subtitles.srt>",
		Short: "Render stylized captions from an SRT file",
		Long: `Render parses the subtitle file, assigns accent colors, rasterizes the
captions, and writes either a composited video (video mode) or a PNG
sequence plus a timeline descriptor (images-xml mode).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return services.Wrap(services.ErrInput, "cli", "load config", "", err)
			}

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Output: cmd.ErrOrStderr(),
			})
			if err != nil {
				return services.Wrap(services.ErrInput, "cli", "build logger", "", err)
			}

			opts := render.Options{
				Mode: strings.ToLower(strings.TrimSpace(mode)),
				Seed: seed,
			}
			if opts.SubtitlePath, err = config.ExpandPath(args[0]); err != nil {
				return services.Wrap(services.ErrInput, "cli", "resolve subtitle path", args[0], err)
			}
			if videoPath != "" {
				if opts.VideoPath, err = config.ExpandPath(videoPath); err != nil {
					return services.Wrap(services.ErrInput, "cli", "resolve video path", videoPath, err)
				}
			}
			if outputDir != "" {
				if opts.OutputDir, err = config.ExpandPath(outputDir); err != nil {
					return services.Wrap(services.ErrInput, "cli", "resolve output directory", outputDir, err)
				}
			}
			if outputPath != "" {
				if opts.OutputPath, err = config.ExpandPath(outputPath); err != nil {
					return services.Wrap(services.ErrInput, "cli", "resolve output path", outputPath, err)
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			result, err := render.New(cfg, logger).Run(ctx, opts)
			if err != nil {
				return err
			}
			printSummary(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", "", "Render mode: video or images-xml (default from config)")
	cmd.Flags().StringVar(&videoPath, "video", "", "Source video to composite onto (video mode)")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "d", "", "Asset output directory (images-xml mode)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Composited output file (video mode)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Accent sequence seed (0 selects the configured seed)")
	return cmd
}

func printSummary(cmd *cobra.Command, result *render.Result) {
	out := cmd.OutOrStdout()

	rows := [][]string{
		{"Job", result.JobID},
		{"Mode", result.Mode},
		{"Cues", strconv.Itoa(result.Cues)},
		{"Accented", strconv.Itoa(result.Accented)},
		{"Assets", strconv.Itoa(len(result.Assets))},
		{"Frames", strconv.FormatInt(result.Frames, 10)},
	}
	if result.OutputPath != "" {
		rows = append(rows, []string{"Output", result.OutputPath})
	}
	if result.DescriptorPath != "" {
		rows = append(rows, []string{"Descriptor", result.DescriptorPath})
	}
	if result.ManifestPath != "" {
		rows = append(rows, []string{"Manifest", result.ManifestPath})
	}
	rows = append(rows, []string{"Elapsed", result.Elapsed.Round(time.Millisecond).String()})

	if stdoutIsTerminal(out) {
		fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows))
		return
	}
	for _, row := range rows {
		fmt.Fprintf(out, "%s: %s\n", strings.ToLower(row[0]), row[1])
	}
}

func stdoutIsTerminal(out any) bool {
	file, ok := out.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
