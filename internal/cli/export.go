package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/declaim/declaim/internal/export"
	"github.com/declaim/declaim/internal/render"
)

func newExportCmd(configPath *string) *cobra.Command {
	var (
		out    string
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "export <script>",
		Short: "Render every build of a script to an HTML page",
		Long: `Render every build of every slide and convert the frames to HTML
with the configured converter command (aha by default). The converter
reads the ANSI frames on stdin and writes HTML on stdout.

Example:
  declaim export talk.txt -o talk.html
  declaim export slides/ -o talk.html --width 100`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := presentFlags{configPath: *configPath, width: width, height: height}
			return runExport(args[0], out, flags)
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "output HTML file (required)")
	cmd.Flags().IntVarP(&width, "width", "W", 0, "frame width (default: terminal width)")
	cmd.Flags().IntVarP(&height, "height", "H", 0, "frame height (default: terminal height)")
	cmd.MarkFlagRequired("output")

	return cmd
}

func runExport(path, out string, flags presentFlags) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	geo := geometry(cfg)
	table := emojiTable(cfg)

	d, warnings, err := newLoader(path, cfg, geo, table)()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, w)
	}

	var transcript export.Transcript
	for b, ok := d.FirstSlide(); ok; b, ok = d.NextBuild() {
		transcript.Add(render.RenderFrame(b, geo, cfg.Border))
	}
	if transcript.Len() == 0 {
		return fmt.Errorf("%s: nothing to export", path)
	}

	if err := transcript.WriteHTML(context.Background(), out, cfg.Converter); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %d frames to %s\n", transcript.Len(), out)
	return nil
}
