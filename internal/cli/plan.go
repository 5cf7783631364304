package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gangsheet/pkg/pipeline"
	"github.com/matzehuels/gangsheet/pkg/render/sink"
)

// maxSheetRows caps the per-sheet table; longer plans are summarized.
const maxSheetRows = 20

// planCommand creates the plan command.
func (c *CLI) planCommand() *cobra.Command {
	var (
		job    jobFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "plan [artwork]",
		Short: "Show how copies of an artwork are laid out",
		Long: `Plan computes the footprint, per-sheet capacity and sheet breakdown for a job
without rendering anything. With --json the full placement plan is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlan(cmd.Context(), cmd.OutOrStdout(), args[0], job.options(cmd.Flags()), asJSON, job.noCache)
		},
	}

	job.register(cmd.Flags())
	c.registerJobCompletions(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the placement plan as JSON")

	return cmd
}

func (c *CLI) runPlan(ctx context.Context, w io.Writer, input string, opts pipeline.Options, asJSON, noCache bool) error {
	data, err := readInput(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)
	result, err := runner.Plan(ctx, data, opts)
	if err != nil {
		return err
	}

	if asJSON {
		out, err := sink.RenderJSON(result.Plan, sink.WithJSONSource(result.Source), sink.WithJSONIndent())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}

	printPlan(w, result)
	return nil
}

// printPlan writes a human-readable plan summary.
func printPlan(w io.Writer, result *pipeline.Result) {
	plan := result.Plan
	src := result.Source
	sum := plan.Summary()

	fmt.Fprintln(w, StyleTitle.Render("Gang sheet plan"))
	kv := func(k, v string) { fmt.Fprintln(w, keyValue(k, v)) }

	native := fmt.Sprintf("%g x %g px", src.Artifact.NativeWidth, src.Artifact.NativeHeight)
	if src.IsVector() {
		native = fmt.Sprintf("%g x %g pt (page %d of %d)", src.Artifact.NativeWidth, src.Artifact.NativeHeight, src.Page, src.PageCount)
	} else {
		native += fmt.Sprintf(" @ %.0f ppi", densityOf(result))
	}
	kv("Artwork", fmt.Sprintf("%s, %s", src.Format, native))
	kv("Sheet", plan.Spec.String())

	fp := fmt.Sprintf("%.3f x %.3f in", plan.Footprint.Width, plan.Footprint.Height)
	if plan.Request.Rotate {
		fp += " (rotated)"
	}
	kv("Footprint", fp)
	kv("Capacity", fmt.Sprintf("%d per row x %d per column = %s per sheet",
		plan.Capacity.PerRow, plan.Capacity.PerColumn, StyleNumber.Render(strconv.Itoa(plan.Capacity.PerSheet))))
	kv("Quantity", StyleNumber.Render(strconv.Itoa(plan.Request.Quantity)))
	kv("Sheets", StyleNumber.Render(strconv.Itoa(sum.Sheets)))
	kv("Utilization", fmt.Sprintf("%.1f%%", sum.Utilization*100))

	if sum.Sheets == 0 {
		return
	}

	rows := make([][]string, 0, min(sum.Sheets, maxSheetRows))
	for i, s := range plan.Sheets {
		if i == maxSheetRows {
			break
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Index + 1),
			strconv.Itoa(len(s.Placements)),
			fmt.Sprintf("%.0f%%", 100*float64(len(s.Placements))/float64(plan.Capacity.PerSheet)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Sheet", "Copies", "Filled").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1).Foreground(colorWhite)
		})

	fmt.Fprintln(w)
	fmt.Fprintln(w, t.Render())
	if sum.Sheets > maxSheetRows {
		fmt.Fprintln(w, StyleDim.Render(fmt.Sprintf("  … %d more sheets", sum.Sheets-maxSheetRows)))
	}
}

// densityOf returns the density a raster source was converted with.
func densityOf(result *pipeline.Result) float64 {
	if d := result.Source.Artifact.Density; d > 0 {
		return d
	}
	if result.Plan.Footprint.Width <= 0 {
		return 0
	}
	w := result.Plan.Footprint.Width
	if result.Plan.Request.Rotate {
		w = result.Plan.Footprint.Height
	}
	return result.Source.Artifact.NativeWidth / w
}
