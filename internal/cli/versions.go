package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// versionsCommand creates the versions command.
func (c *CLI) versionsCommand() *cobra.Command {
	var (
		refresh     bool
		interactive bool
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "versions",
		Short: "List available Biolink Model releases",
		Long:  `List the release tags of the Biolink Model repository, newest first. Use --interactive to pick a release and get the fetch command for it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			src, err := c.newSource()
			if err != nil {
				return err
			}

			spin := newSpinnerWithContext(ctx, "Fetching releases...")
			spin.Start()
			tags, err := src.Tags(ctx, refresh)
			if err != nil {
				spin.StopWithError("Failed to fetch releases")
				return err
			}
			spin.Stop()

			if len(tags) == 0 {
				printWarning("No releases found")
				return nil
			}

			if interactive {
				p := tea.NewProgram(NewVersionListModel(tags))
				finalModel, err := p.Run()
				if err != nil {
					return err
				}
				m, ok := finalModel.(VersionListModel)
				if !ok || m.Selected == "" {
					return nil
				}
				printSuccess("Selected %s", m.Selected)
				printNextStep("Build its hierarchies", fmt.Sprintf("%s fetch %s", appName, m.Selected))
				return nil
			}

			shown := tags
			if limit > 0 && limit < len(tags) {
				shown = tags[:limit]
			}
			for i, tag := range shown {
				if i == 0 {
					fmt.Println("  " + StyleHighlight.Render(tag) + " " + StyleDim.Render("(latest)"))
					continue
				}
				fmt.Println("  " + StyleValue.Render(tag))
			}
			if len(shown) < len(tags) {
				printDetail("… and %d more (use --limit 0 to show all)", len(tags)-len(shown))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and re-fetch the tag list")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick a release interactively")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of releases to list (0 for all)")

	return cmd
}
