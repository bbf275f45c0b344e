package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/peoplesfeelings/mindmap/pkg/feed"
)

// generateCommand writes a random reply tree.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		count  int
		seed   uint64
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a shuffled demo feed",
		Long: `Write a random reply tree as a feed. Items are shuffled so replies often
come before their parents, which exercises deferred placement.

The feed is NDJSON, or a JSON array when --output ends in .json.`,
		Example: `  mindmap generate -n 200 -o replies.ndjson
  mindmap generate -n 50 --seed 7 | mindmap render - -o demo.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := feed.Generate(count, seed)
			if err != nil {
				return err
			}
			if output == "" {
				return feed.Write(os.Stdout, items, feed.FormatNDJSON)
			}
			if err := feed.WriteFile(output, items); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			loggerFromContext(cmd.Context()).Debug("generated feed", "items", count, "seed", seed)
			printSuccess("Generated %d items", count)
			printFile(output)
			printNextStep("Render it", "mindmap render "+output+" -o map.svg")
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 100, "number of items")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed; the same seed gives the same feed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}
