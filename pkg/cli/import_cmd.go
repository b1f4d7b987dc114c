package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newImportCmd(sess *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the CellarTracker CSV export into the cellar database",
		Long: "Import reads the CSV export, normalizes every record, and bulk-loads " +
			"the cellar database in a single transaction. If the database already " +
			"holds wines the import is a no-op; delete the database file to reload.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(sess.csvPath); err != nil {
				printSetupInstructions(sess.csvPath)
				return fmt.Errorf("no CSV export at %s", sess.csvPath)
			}

			res, err := sess.runImport(cmd.Context())
			if err != nil {
				return err
			}

			if sess.quiet {
				fmt.Fprintln(os.Stdout, res.Loaded)
				return nil
			}
			if getOutputFormat(cmd) == outputJSON {
				return printJSON(os.Stdout, map[string]interface{}{
					"loaded":         res.Loaded,
					"skipped":        res.Skipped,
					"already_loaded": res.AlreadyLoaded,
				})
			}
			if res.AlreadyLoaded {
				fmt.Fprintf(os.Stdout, "Database already holds %d wine(s); nothing imported.\n", res.Loaded)
				return nil
			}
			fmt.Fprintf(os.Stdout, "Successfully loaded %d wine(s) into the database.\n", res.Loaded)
			if res.Skipped > 0 {
				fmt.Fprintf(os.Stdout, "Skipped %d unparseable record(s).\n", res.Skipped)
			}
			return nil
		},
	}
	return cmd
}
