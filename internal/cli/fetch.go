package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amykglen/biolink-explorer/pkg/elements"
	xerrors "github.com/amykglen/biolink-explorer/pkg/errors"
	"github.com/amykglen/biolink-explorer/pkg/pipeline"
)

// fetchOutput is the JSON document written by the fetch command.
type fetchOutput struct {
	Version    string             `json:"version"`
	Categories *elements.Elements `json:"categories,omitempty"`
	Predicates *elements.Elements `json:"predicates,omitempty"`
}

// fetchCommand creates the fetch command.
func (c *CLI) fetchCommand() *cobra.Command {
	var (
		kind    string
		out     string
		refresh bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "fetch [version]",
		Short: "Download a model version and build its hierarchies",
		Long:  `Download a Biolink Model schema release, build its category and predicate hierarchies, and write them as element JSON. Without a version argument the configured default is used ("latest" resolves to the newest release, "master" tracks the development branch). Without --out the JSON goes to stdout.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			version := c.resolveVersion(args)

			if kind != "both" {
				if _, err := elements.ParseKind(kind); err != nil {
					return xerrors.Wrap(xerrors.ErrCodeInvalidKind, err, "invalid --kind")
				}
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			spin := newSpinnerWithContext(ctx, fmt.Sprintf("Building hierarchies for %s...", version))
			spin.Start()
			result, err := runner.Build(ctx, pipeline.Options{Version: version, Refresh: refresh})
			if err != nil {
				spin.StopWithError(fmt.Sprintf("Failed to build %s", version))
				return err
			}

			payload := fetchOutput{Version: result.Version}
			if kind == "both" || kind == string(elements.KindCategories) {
				payload.Categories = &result.CategoryElements
			}
			if kind == "both" || kind == string(elements.KindPredicates) {
				payload.Predicates = &result.PredicateElements
			}
			data, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				spin.StopWithError("Serialization failed")
				return err
			}
			data = append(data, '\n')

			if out == "" {
				spin.Stop()
				_, err := os.Stdout.Write(data)
				return err
			}

			if err := os.WriteFile(out, data, 0o644); err != nil {
				spin.StopWithError("Write failed")
				return fmt.Errorf("write %s: %w", out, err)
			}
			spin.StopWithSuccess(fmt.Sprintf("Built hierarchies for %s", result.Version))

			if payload.Categories != nil {
				printInfo("categories")
				printStats(result.Stats.CategoryNodes, result.Stats.CategoryEdges, result.CacheInfo.CategoriesHit)
			}
			if payload.Predicates != nil {
				printInfo("predicates")
				printStats(result.Stats.PredicateNodes, result.Stats.PredicateEdges, result.CacheInfo.PredicatesHit)
			}
			printFile(out)

			printNewline()
			printNextStep("Explore in the browser", appName+" serve")
			printNextStep("Export a diagram", fmt.Sprintf("%s export %s --kind categories --format svg", appName, result.Version))
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "both", "hierarchies to include (categories, predicates, or both)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file path (default stdout)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass caches and re-download the schema")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the local graph cache")

	return cmd
}
