package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"winebuddy/internal/domain"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputCSV   = "csv"
)

// getOutputFormat returns the effective output format from the root command's persistent flags.
func getOutputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}

func validateOutputFormat(output string) error {
	switch output {
	case "", outputTable, outputJSON, outputCSV:
		return nil
	}
	return domain.ErrValidation("unsupported output format %q: use 'table', 'json' or 'csv'", output)
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable renders rows as an aligned ASCII table.
func printTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	headerCells := make([]string, len(headers))
	sepCells := make([]string, len(headers))
	for i, h := range headers {
		headerCells[i] = pad(h, widths[i])
		sepCells[i] = strings.Repeat("-", widths[i])
	}
	fmt.Fprintln(w, strings.Join(headerCells, " | "))
	fmt.Fprintln(w, strings.Join(sepCells, "-+-"))

	for _, row := range rows {
		cells := make([]string, len(headers))
		for i := range headers {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			cells[i] = pad(cell, widths[i])
		}
		fmt.Fprintln(w, strings.Join(cells, " | "))
	}
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// printValuesList writes a titled list of discovered values.
func printValuesList(w io.Writer, title string, values []string) {
	fmt.Fprintf(w, "\n%s (%d):\n", title, len(values))
	fmt.Fprintln(w, strings.Repeat("-", 40))
	for _, v := range values {
		fmt.Fprintf(w, "  %s\n", v)
	}
}

// wineTableHeaders are the columns shown in table output.
var wineTableHeaders = []string{"Vintage", "Wine Name", "Producer", "Varietal", "Region", "Qty", "Score"}

// wineTableRows projects wines into display cells, truncating wide text
// columns. The wine name column shrinks on narrow terminals.
func wineTableRows(wines []domain.Wine) [][]string {
	nameWidth := 40
	if tw := terminalWidth(); tw > 0 && tw < 110 {
		// Leave room for the six fixed-width columns and separators.
		if nw := tw - 70; nw < nameWidth {
			nameWidth = nw
		}
		if nameWidth < 10 {
			nameWidth = 10
		}
	}

	rows := make([][]string, 0, len(wines))
	for i := range wines {
		w := &wines[i]
		rows = append(rows, []string{
			vintageCell(w.Vintage),
			truncate(textCell(w.WineName), nameWidth),
			truncate(textCell(w.Producer), 20),
			truncate(textCell(w.Varietal), 15),
			truncate(textCell(w.Region), 15),
			strconv.FormatInt(w.Quantity, 10),
			scoreCell(w.ProfessionalScore),
		})
	}
	return rows
}

// terminalWidth returns the stdout terminal width, or 0 when stdout is
// not a terminal.
func terminalWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 0
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return w
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// vintageCell renders a vintage year, or NV for non-vintage wines.
func vintageCell(v *int64) string {
	if v == nil {
		return "NV"
	}
	return strconv.FormatInt(*v, 10)
}

func textCell(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func scoreCell(f *float64) string {
	if f == nil {
		return "-"
	}
	return strconv.FormatFloat(*f, 'f', 1, 64)
}

// csvCell renders a value for CSV output; NULL becomes an empty field.
func csvCell(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case *string:
		if t == nil {
			return ""
		}
		return *t
	case *int64:
		if t == nil {
			return ""
		}
		return strconv.FormatInt(*t, 10)
	case *float64:
		if t == nil {
			return ""
		}
		return strconv.FormatFloat(*t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// wineCSVRecord projects a wine into the query column order for CSV output.
func wineCSVRecord(w *domain.Wine) []string {
	return []string{
		csvCell(w.ID),
		csvCell(w.WineName),
		csvCell(w.Vintage),
		csvCell(w.Producer),
		csvCell(w.Varietal),
		csvCell(w.Color),
		csvCell(w.Country),
		csvCell(w.Region),
		csvCell(w.Subregion),
		csvCell(w.Quantity),
		csvCell(w.Value),
		csvCell(w.ProfessionalScore),
		csvCell(w.BeginConsume),
		csvCell(w.EndConsume),
	}
}

// wineJSON is the query-column projection used for JSON output.
type wineJSON struct {
	ID                int64    `json:"id"`
	WineName          *string  `json:"wine_name"`
	Vintage           *int64   `json:"vintage"`
	Producer          *string  `json:"producer"`
	Varietal          *string  `json:"varietal"`
	Color             *string  `json:"color"`
	Country           *string  `json:"country"`
	Region            *string  `json:"region"`
	Subregion         *string  `json:"subregion"`
	Quantity          int64    `json:"quantity"`
	Value             *float64 `json:"value"`
	ProfessionalScore *float64 `json:"professional_score"`
	BeginConsume      *int64   `json:"begin_consume"`
	EndConsume        *int64   `json:"end_consume"`
}

func winesToJSON(wines []domain.Wine) []wineJSON {
	out := make([]wineJSON, 0, len(wines))
	for i := range wines {
		w := &wines[i]
		out = append(out, wineJSON{
			ID:                w.ID,
			WineName:          w.WineName,
			Vintage:           w.Vintage,
			Producer:          w.Producer,
			Varietal:          w.Varietal,
			Color:             w.Color,
			Country:           w.Country,
			Region:            w.Region,
			Subregion:         w.Subregion,
			Quantity:          w.Quantity,
			Value:             w.Value,
			ProfessionalScore: w.ProfessionalScore,
			BeginConsume:      w.BeginConsume,
			EndConsume:        w.EndConsume,
		})
	}
	return out
}
