package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amykglen/biolink-explorer/pkg/elements"
	xerrors "github.com/amykglen/biolink-explorer/pkg/errors"
	"github.com/amykglen/biolink-explorer/pkg/hierarchy"
	"github.com/amykglen/biolink-explorer/pkg/pipeline"
	"github.com/amykglen/biolink-explorer/pkg/render"
)

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		kind    string
		format  string
		out     string
		search  []string
		domains []string
		ranges  []string
		mixins  bool
		refresh bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "export [version]",
		Short: "Export a hierarchy as a DOT, SVG, or PNG diagram",
		Long:  `Build a hierarchy for a model version, apply the same filters the API supports (search, mixins, domain, range), and write it as a Graphviz diagram.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			version := c.resolveVersion(args)

			k, err := elements.ParseKind(kind)
			if err != nil {
				return xerrors.Wrap(xerrors.ErrCodeInvalidKind, err, "invalid --kind")
			}
			if format != "dot" && format != "svg" && format != "png" {
				return xerrors.New(xerrors.ErrCodeInvalidFormat, "invalid --format %q (want dot, svg, or png)", format)
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			spin := newSpinnerWithContext(ctx, fmt.Sprintf("Exporting %s for %s...", kind, version))
			spin.Start()

			filter := hierarchy.FilterOptions{
				Search:        search,
				IncludeMixins: mixins,
				Domains:       domains,
				Ranges:        ranges,
			}
			e, err := runner.Elements(ctx, pipeline.Options{Version: version, Refresh: refresh}, k, filter)
			if err != nil {
				spin.StopWithError(fmt.Sprintf("Failed to build %s", version))
				return err
			}

			dot := render.ToDOT(e, render.Options{
				Title: fmt.Sprintf("Biolink %s (%s)", kind, version),
			})

			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				data, err = render.RenderSVG(ctx, dot)
			case "png":
				data, err = render.RenderPNG(ctx, dot)
			}
			if err != nil {
				spin.StopWithError("Rendering failed")
				return err
			}

			if out == "" {
				out = fmt.Sprintf("biolink-%s.%s", kind, format)
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				spin.StopWithError("Write failed")
				return fmt.Errorf("write %s: %w", out, err)
			}

			spin.StopWithSuccess(fmt.Sprintf("Exported %d nodes, %d edges", len(e.Nodes), len(e.Edges)))
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "categories", "hierarchy to export (categories or predicates)")
	cmd.Flags().StringVar(&format, "format", "svg", "output format (dot, svg, or png)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file path")
	cmd.Flags().StringSliceVar(&search, "search", nil, "restrict to the lineage of these nodes")
	cmd.Flags().StringSliceVar(&domains, "domain", nil, "keep predicates whose domain is one of these categories")
	cmd.Flags().StringSliceVar(&ranges, "range", nil, "keep predicates whose range is one of these categories")
	cmd.Flags().BoolVar(&mixins, "mixins", true, "include mixin nodes")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass caches and re-download the schema")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the local graph cache")

	return cmd
}
