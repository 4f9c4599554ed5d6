package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/pipeline"
)

// renderCommand creates the render command for producing images.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		formats string
		flags   pipelineFlags
	)

	cmd := &cobra.Command{
		Use:   "render [words|layout.json]",
		Short: "Render a word cloud to PNG, SVG or JSON",
		Long: `Render a word cloud to PNG, SVG or JSON.

The input is either a word list, which is laid out first, or a snapshot
written by 'layout' (*.layout.json), which is rendered as is. Layout flags are
ignored for snapshots.

With several formats, -o names the base path and each format gets its own
extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			opts.Input = args[0]
			if f := parseFormats(formats); len(f) > 0 {
				opts.Formats = f
			}
			return c.runRender(cmd.Context(), opts, output, flags.noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	flags.register(cmd)
	flags.registerRender(cmd, &formats)

	return cmd
}

// runRender lays out or loads the input and writes each requested format.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	opts.Logger = c.Logger
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	l, cacheHit, err := c.loadOrLayout(ctx, runner, opts)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	artifacts, renderHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	prog.done(fmt.Sprintf("Rendered %s", strings.Join(opts.Formats, ", ")))

	paths := outputPaths(output, opts.Input, opts.Formats)
	for _, format := range opts.Formats {
		if paths[format] == opts.Input {
			return fmt.Errorf("output %s would overwrite the input", paths[format])
		}
	}
	for _, format := range opts.Formats {
		if err := os.WriteFile(paths[format], artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", paths[format], err)
		}
	}

	printSuccess("Render complete")
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(l, cacheHit && renderHit)
	printUnplaced(l)
	return nil
}

// loadOrLayout restores a snapshot input or computes a layout for a word list.
func (c *CLI) loadOrLayout(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) (*pipeline.Layout, bool, error) {
	if strings.HasSuffix(opts.Input, layoutSuffix) {
		data, err := os.ReadFile(opts.Input)
		if err != nil {
			return nil, false, fmt.Errorf("read layout %s: %w", opts.Input, err)
		}
		l, err := pipeline.LayoutFromSnapshot(data)
		if err != nil {
			return nil, false, fmt.Errorf("load layout %s: %w", opts.Input, err)
		}
		return l, true, nil
	}

	entries, err := pipeline.LoadEntries(opts.Input, opts.InputFormat, opts.TextOptions())
	if err != nil {
		return nil, false, fmt.Errorf("load words %s: %w", opts.Input, err)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Placing %d words...", len(entries)))
	spinner.Start()
	l, hit, err := runner.LayoutWithCacheInfo(ctx, entries, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return nil, false, fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()
	return l, hit, nil
}

// outputPaths maps each format to its output file. A single format with an
// explicit output is written there verbatim.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}
