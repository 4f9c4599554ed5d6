package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wordcloud/pkg/pipeline"
)

// hitCommand creates the hit command for querying a layout snapshot.
func (c *CLI) hitCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "hit [layout.json] [x] [y]",
		Short: "Report the word at a canvas point",
		Long: `Report the word at a canvas point of a layout snapshot.

Coordinates are canvas pixels from the top-left corner. Resolution is one
4-pixel cell, so a point just outside a glyph may still report its word.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("x: %w", err)
			}
			y, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("y: %w", err)
			}
			return c.runHit(args[0], x, y, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the entry as JSON")

	return cmd
}

func (c *CLI) runHit(path string, x, y int, asJSON bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read layout %s: %w", path, err)
	}
	l, err := pipeline.LayoutFromSnapshot(data)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", path, err)
	}

	i, ok := l.Result.Lookup(x, y)
	if !ok {
		if asJSON {
			fmt.Println("null")
			return nil
		}
		printInfo("No word at (%d, %d)", x, y)
		return nil
	}
	entry := l.Result.Entries[i]

	if asJSON {
		out, err := json.MarshalIndent(entry, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	printSuccess("%s", StyleHighlight.Render(entry.Word))
	printKeyValue("index", strconv.Itoa(i))
	printKeyValue("size", strconv.FormatFloat(entry.SizeValue, 'g', -1, 64))
	if p, ok := l.Result.Placement(i); ok {
		printKeyValue("bounds", fmt.Sprintf("%d,%d %dx%d", p.X, p.Y, p.Width, p.Height))
		printKeyValue("font size", strconv.FormatFloat(p.FontSize, 'f', 1, 64))
		printKeyValue("color", p.Color.String())
	}
	if entry.Tag != "" {
		printKeyValue("tag", entry.Tag)
	}
	return nil
}
