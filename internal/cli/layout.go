package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/pipeline"
)

// layoutCommand creates the layout command for computing word placements.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		flags  pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [words]",
		Short: "Compute a word-cloud layout from a word list",
		Long: `Compute a word-cloud layout from a word list.

The word list is a JSON, CSV or TOML file of weighted entries, or plain text
whose word counts become the weights ("-" reads standard input). The output is
a layout snapshot (<input>.layout.json) holding the placements, the canvas and
the owner grid. Render it with 'render' or query it with 'hit'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			opts.Input = args[0]
			return c.runLayout(cmd.Context(), opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	flags.register(cmd)

	return cmd
}

// runLayout loads the word list, computes the layout, and writes the snapshot.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	entries, err := pipeline.LoadEntries(opts.Input, opts.InputFormat, opts.TextOptions())
	if err != nil {
		return fmt.Errorf("load words %s: %w", opts.Input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Placing %d words...", len(entries)))
	spinner.Start()

	l, cacheHit, err := runner.LayoutWithCacheInfo(ctx, entries, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", opts.Input) + layoutSuffix
	}
	if err := os.WriteFile(outputPath, l.Snapshot, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(l, cacheHit)
	printUnplaced(l)
	printNewline()
	printNextStep("Render", "wordcloud render "+outputPath)

	return nil
}
