package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"winebuddy/internal/db/repository"
	"winebuddy/internal/sqlbuild"
)

// discoverSpec binds a discover subcommand name to its whitelisted column
// and display title. This table is the single source of truth for the
// discover surface.
type discoverSpec struct {
	use   string
	col   sqlbuild.DiscoverColumn
	title string
}

var discoverSpecs = []discoverSpec{
	{"colors", sqlbuild.DiscoverColor, "Colors"},
	{"producers", sqlbuild.DiscoverProducer, "Producers"},
	{"varietals", sqlbuild.DiscoverVarietal, "Varietals"},
	{"countries", sqlbuild.DiscoverCountry, "Countries"},
	{"regions", sqlbuild.DiscoverRegion, "Regions"},
	{"vintages", sqlbuild.DiscoverVintage, "Vintages"},
}

func newDiscoverCmd(sess *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Discover distinct values in the cellar database",
	}

	for _, spec := range discoverSpecs {
		cmd.AddCommand(newDiscoverSubCmd(sess, spec))
	}

	return cmd
}

func newDiscoverSubCmd(sess *session, spec discoverSpec) *cobra.Command {
	return &cobra.Command{
		Use:   spec.use,
		Short: fmt.Sprintf("List distinct %s in the cellar", spec.use),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Re-validate through the whitelist before any query executes.
			col, err := sqlbuild.ParseDiscoverColumn(string(spec.col))
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := sess.openCellar(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			values, err := repository.NewWineRepo(db).Distinct(ctx, col)
			if err != nil {
				return err
			}

			if sess.quiet {
				fmt.Fprintln(os.Stdout, len(values))
				return nil
			}
			if getOutputFormat(cmd) == outputJSON {
				return printJSON(os.Stdout, values)
			}
			printValuesList(os.Stdout, spec.title, values)
			return nil
		},
	}
}
