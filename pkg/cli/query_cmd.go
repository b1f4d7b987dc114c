package cli

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"winebuddy/internal/db/repository"
	"winebuddy/internal/domain"
	"winebuddy/internal/sqlbuild"
)

func newQueryCmd(sess *session) *cobra.Command {
	var (
		color      string
		producer   string
		varietal   string
		country    string
		region     string
		vintage    int64
		vintageMin int64
		vintageMax int64
		scoreMin   float64
		inStock    bool
		ready      bool
		sortFlag   string
		desc       bool
		limit      int64
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Query wines from the cellar database with various filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Validate identifiers first: a bad sort key must never reach
			// query assembly, let alone execution.
			sortKey, err := sqlbuild.ParseSortKey(sortFlag)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			var f sqlbuild.Filters
			if flags.Changed("color") {
				f.Color = &color
			}
			if flags.Changed("producer") {
				f.Producer = &producer
			}
			if flags.Changed("varietal") {
				f.Varietal = &varietal
			}
			if flags.Changed("country") {
				f.Country = &country
			}
			if flags.Changed("region") {
				f.Region = &region
			}
			if flags.Changed("vintage") {
				f.Vintage = &vintage
			}
			if flags.Changed("vintage-min") {
				f.VintageMin = &vintageMin
			}
			if flags.Changed("vintage-max") {
				f.VintageMax = &vintageMax
			}
			if flags.Changed("score-min") {
				f.ScoreMin = &scoreMin
			}
			f.InStock = inStock
			f.Ready = ready

			var limitPtr *int64
			if flags.Changed("limit") {
				limitPtr = &limit
			}

			year := int64(time.Now().Year())
			query, args, err := sqlbuild.Build(f, sortKey, desc, limitPtr, year)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := sess.openCellar(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			wines, err := repository.NewWineRepo(db).Query(ctx, query, args)
			if err != nil {
				return err
			}

			return printWines(cmd, sess, wines)
		},
	}

	cmd.Flags().StringVarP(&color, "color", "c", "", "Filter by wine color (e.g., Red, White)")
	cmd.Flags().StringVar(&producer, "producer", "", "Filter by producer (contains match)")
	cmd.Flags().StringVarP(&varietal, "varietal", "v", "", "Filter by varietal (contains match)")
	cmd.Flags().StringVar(&country, "country", "", "Filter by country")
	cmd.Flags().StringVarP(&region, "region", "r", "", "Filter by region (contains match)")
	cmd.Flags().Int64Var(&vintage, "vintage", 0, "Filter by exact vintage year")
	cmd.Flags().Int64Var(&vintageMin, "vintage-min", 0, "Minimum vintage year (inclusive)")
	cmd.Flags().Int64Var(&vintageMax, "vintage-max", 0, "Maximum vintage year (inclusive)")
	cmd.Flags().Float64Var(&scoreMin, "score-min", 0, "Minimum professional score")
	cmd.Flags().BoolVar(&inStock, "in-stock", false, "Only show wines with quantity > 0")
	cmd.Flags().BoolVar(&ready, "ready", false, "Only show wines within their drinking window")
	cmd.Flags().StringVarP(&sortFlag, "sort", "s", "vintage", "Sort by field (vintage, producer, score, value, name)")
	cmd.Flags().BoolVarP(&desc, "desc", "d", false, "Sort descending")
	cmd.Flags().Int64VarP(&limit, "limit", "l", 0, "Limit number of results")

	return cmd
}

// printWines renders query results in the requested format, always
// followed by a count line. An empty result set is a zero-count line,
// not an error.
func printWines(cmd *cobra.Command, sess *session, wines []domain.Wine) error {
	if sess.quiet {
		fmt.Fprintln(os.Stdout, len(wines))
		return nil
	}

	switch getOutputFormat(cmd) {
	case outputJSON:
		if err := printJSON(os.Stdout, winesToJSON(wines)); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%d wine(s) found.\n", len(wines))
	case outputCSV:
		w := csv.NewWriter(os.Stdout)
		if err := w.Write(sqlbuild.QueryColumns); err != nil {
			return err
		}
		for i := range wines {
			if err := w.Write(wineCSVRecord(&wines[i])); err != nil {
				return err
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%d wine(s) found.\n", len(wines))
	default:
		if len(wines) == 0 {
			fmt.Fprintln(os.Stdout, "0 wine(s) found.")
			return nil
		}
		printTable(os.Stdout, wineTableHeaders, wineTableRows(wines))
		fmt.Fprintf(os.Stdout, "\n%d wine(s) found.\n", len(wines))
	}
	return nil
}
