package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gangsheet/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		job        jobFlags
		output     string
		formatsStr string
		cutMarks   bool
		title      string
		previewDPI float64
	)

	cmd := &cobra.Command{
		Use:   "render [artwork]",
		Short: "Render a gang sheet to PDF, PNG, SVG or JSON",
		Long: `Render places N copies of an artwork onto as many sheets as needed and writes
the requested outputs.

Outputs are named after the artwork unless -o is given: logo.png becomes
logo-gangsheet.pdf, logo-gangsheet.svg, logo-gangsheet.json and one
logo-gangsheet-N.png preview per sheet. Use "-"
to read the artwork from stdin.

Plans and outputs are cached locally for faster subsequent runs.`,
		Example: `  gangsheet render logo.png -q 40 --preset 22x24
  gangsheet render badge.pdf -q 120 --rotate -f pdf,png -o out/badges`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := job.options(cmd.Flags())
			opts.Formats = parseFormats(formatsStr)
			opts.CutMarks = cutMarks
			opts.Title = title
			opts.PreviewDPI = previewDPI
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts, output, job.noCache)
		},
	}

	job.register(cmd.Flags())
	c.registerJobCompletions(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): pdf (default), png, svg, json (comma-separated)")
	cmd.Flags().BoolVar(&cutMarks, "cut-marks", false, "outline every copy in the PDF")
	cmd.Flags().StringVar(&title, "title", "", "PDF document title")
	cmd.Flags().Float64Var(&previewDPI, "preview-dpi", 0, "PNG preview resolution (default 10)")
	registerFormatCompletion(cmd)

	return cmd
}

// runRender reads the artwork, runs the pipeline and writes every output.
func (c *CLI) runRender(ctx context.Context, stdout, stderr io.Writer, input string, opts pipeline.Options, output string, noCache bool) error {
	data, err := readInput(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	logger := loggerFromContext(ctx)
	opts.Logger = logger
	prog := newProgress(logger)

	spinner := newSpinner(ctx, stderr, fmt.Sprintf("Planning %d copies...", opts.Quantity))
	spinner.Start()

	result, err := runner.Plan(ctx, data, opts)
	if err != nil {
		spinner.StopWithError("Planning failed")
		return err
	}

	spinner.SetMessage(fmt.Sprintf("Rendering %d sheets...", result.Stats.Sheets))
	opts.SetDefaults()
	result.Artifacts, result.Pages, result.CacheInfo.RenderHit, err = runner.RenderWithCacheInfo(ctx, result.Source, result.Plan, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeOutputs(result, opts.Formats, input, output)
	if err != nil {
		return err
	}
	prog.done("Wrote outputs", "files", len(paths), "sheets", result.Stats.Sheets)

	printSuccess(stdout, "Gang sheet ready")
	for _, p := range paths {
		printFile(stdout, p)
	}
	printStats(stdout, result.Plan.Summary(), result.CacheInfo.PlanHit && result.CacheInfo.RenderHit)
	return nil
}

// writeOutputs writes each format next to base and returns the written paths.
// PNG previews get one file per sheet when the plan has several.
func writeOutputs(result *pipeline.Result, formats []string, input, output string) ([]string, error) {
	single := len(formats) == 1 && output != ""
	base := basePath(output, input)

	var paths []string
	write := func(path string, data []byte) error {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
		return nil
	}

	for _, format := range formats {
		path := base + "." + format
		if single {
			path = output
		}

		if format == pipeline.FormatPNG && len(result.Pages) > 1 {
			ext := filepath.Ext(path)
			stem := strings.TrimSuffix(path, ext)
			for i, page := range result.Pages {
				if err := write(fmt.Sprintf("%s-%d%s", stem, i+1, ext), page); err != nil {
					return paths, err
				}
			}
			continue
		}

		data, ok := result.Artifacts[format]
		if !ok {
			continue
		}
		if err := write(path, data); err != nil {
			return paths, err
		}
	}
	return paths, nil
}

// basePath derives the output path without extension. Known format
// extensions are stripped from output. Without output the artwork name gets
// a suffix so a PNG input is never overwritten.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return appName
		}
		return strings.TrimSuffix(input, filepath.Ext(input)) + "-" + appName
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
