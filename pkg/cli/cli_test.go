package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const exportHeader = "Color,Category,Size,Currency,Value,Price,TotalQuantity,Quantity,Pending,Vintage,Wine,Locale,Producer,Varietal,Country,Region,SubRegion,BeginConsume,EndConsume,PScore,CScore\n"

const exportRows = exportHeader +
	"Red,Still,750ml,EUR,500.00,450.00,2,2,0,2016,Grand Cru,France,Chateau Haut,Bordeaux Blend,France,Bordeaux,Margaux,2015,2099,99.0,96.5\n" +
	"White,Still,750ml,USD,35.00,,1,0,0,2022,Village Chardonnay,France,Maison Petit,Chardonnay,France,Burgundy,,2023,2028,90.0,\n" +
	"Sparkling,Champagne,750ml,USD,60.00,,3,3,0,1001,House Cuvee,France,Maison Bulle,Champagne Blend,France,Champagne,,9999,9999,,\n"

// setupCellar isolates HOME and environment, writes a CSV export into a
// temp dir, and returns the db and csv paths to pass as flags. The
// database is created lazily by the first command that needs it.
func setupCellar(t *testing.T) (dbPath, csvPath string) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("WINEBUDDY_DB", "")
	t.Setenv("WINEBUDDY_CSV", "")
	t.Setenv("WINEBUDDY_OUTPUT", "")
	t.Setenv("WINEBUDDY_LOG_LEVEL", "")

	csvPath = filepath.Join(dir, "cellar.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(exportRows), 0o644))
	return filepath.Join(dir, "cellar.db"), csvPath
}

// runCLI executes the root command with the given args and returns
// captured stdout.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	restore := captureStdout(t)
	root := newRootCmd()
	root.SetArgs(args)
	err := root.Execute()
	return restore(), err
}

func TestQuery_InitializesCellarFromCSV(t *testing.T) {
	dbPath, csvPath := setupCellar(t)

	out, err := runCLI(t, "query", "--db", dbPath, "--csv", csvPath)
	require.NoError(t, err)

	assert.Contains(t, out, "Grand Cru")
	assert.Contains(t, out, "House Cuvee")
	assert.Contains(t, out, "NV")
	assert.Contains(t, out, "3 wine(s) found.")

	_, statErr := os.Stat(dbPath)
	assert.NoError(t, statErr, "first query should create the database")
}

func TestQuery_ColorFilter(t *testing.T) {
	dbPath, csvPath := setupCellar(t)

	out, err := runCLI(t, "query", "--db", dbPath, "--csv", csvPath, "-c", "Red")
	require.NoError(t, err)
	assert.Contains(t, out, "Grand Cru")
	assert.NotContains(t, out, "Village Chardonnay")
	assert.Contains(t, out, "1 wine(s) found.")
}

func TestQuery_InStockAndReady(t *testing.T) {
	dbPath, csvPath := setupCellar(t)

	out, err := runCLI(t, "query", "--db", dbPath, "--csv", csvPath,
		"--in-stock", "--ready")
	require.NoError(t, err)
	// The sparkler is in stock but its window is unknown; the white is
	// inside its window but sold out.
	assert.Contains(t, out, "Grand Cru")
	assert.NotContains(t, out, "House Cuvee")
	assert.NotContains(t, out, "Village Chardonnay")
}

func TestQuery_QuietPrintsCountOnly(t *testing.T) {
	dbPath, csvPath := setupCellar(t)

	out, err := runCLI(t, "query", "--db", dbPath, "--csv", csvPath, "-q")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestQuery_JSONOutput(t *testing.T) {
	dbPath, csvPath := setupCellar(t)

	out, err := runCLI(t, "query", "--db", dbPath, "--csv", csvPath,
		"-o", "json", "-c", "White")
	require.NoError(t, err)

	var wines []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &wines))
	require.Len(t, wines, 1)
	assert.Equal(t, "Village Chardonnay", wines[0]["wine_name"])
	assert.Equal(t, float64(2022), wines[0]["vintage"])
}

func TestQuery_CSVOutput(t *testing.T) {
	dbPath, csvPath := setupCellar(t)

	out, err := runCLI(t, "query", "--db", dbPath, "--csv", csvPath,
		"-o", "csv", "-s", "name")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "id,wine_name,vintage,"))
	assert.Contains(t, lines[1], "Grand Cru")
}

func TestQuery_SortAndLimit(t *testing.T) {
	dbPath, csvPath := setupCellar(t)

	out, err := runCLI(t, "query", "--db", dbPath, "--csv", csvPath,
		"-o", "csv", "-s", "vintage", "-d", "-l", "1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "Village Chardonnay")
}

func TestQuery_UnknownSortKeyFails(t *testing.T) {
	dbPath, csvPath := setupCellar(t)

	_, err := runCLI(t, "query", "--db", dbPath, "--csv", csvPath, "-s", "price")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort key")
	assert.Contains(t, err.Error(), "vintage")
}

func TestQuery_InvalidOutputFormatFails(t *testing.T) {
	dbPath, csvPath := setupCellar(t)

	_, err := runCLI(t, "query", "--db", dbPath, "--csv", csvPath, "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestQuery_MissingCellarAndCSVFails(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("WINEBUDDY_DB", "")
	t.Setenv("WINEBUDDY_CSV", "")

	out, err := runCLI(t, "query",
		"--db", filepath.Join(dir, "none.db"),
		"--csv", filepath.Join(dir, "none.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no cellar database")
	assert.Contains(t, out, "CellarTracker")
}

func TestDiscover_Colors(t *testing.T) {
	dbPath, csvPath := setupCellar(t)

	out, err := runCLI(t, "discover", "colors", "--db", dbPath, "--csv", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Colors (3):")
	assert.Contains(t, out, "Red")
	assert.Contains(t, out, "Sparkling")
	assert.Contains(t, out, "White")
}

func TestDiscover_VintagesOmitNull(t *testing.T) {
	dbPath, csvPath := setupCellar(t)

	out, err := runCLI(t, "discover", "vintages", "--db", dbPath, "--csv", csvPath, "-o", "json")
	require.NoError(t, err)

	var values []string
	require.NoError(t, json.Unmarshal([]byte(out), &values))
	// The non-vintage sparkler contributes no value at all.
	assert.Equal(t, []string{"2016", "2022"}, values)
}

func TestDiscover_Quiet(t *testing.T) {
	dbPath, csvPath := setupCellar(t)

	out, err := runCLI(t, "discover", "countries", "--db", dbPath, "--csv", csvPath, "-q")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestImport_ExplicitThenNoOp(t *testing.T) {
	dbPath, csvPath := setupCellar(t)

	out, err := runCLI(t, "import", "--db", dbPath, "--csv", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully loaded 3 wine(s)")

	out, err = runCLI(t, "import", "--db", dbPath, "--csv", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "already holds 3 wine(s)")
}

func TestImport_MissingCSVPrintsSetup(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("WINEBUDDY_DB", "")
	t.Setenv("WINEBUDDY_CSV", "")

	out, err := runCLI(t, "import",
		"--db", filepath.Join(dir, "cellar.db"),
		"--csv", filepath.Join(dir, "cellar.csv"))
	require.Error(t, err)
	assert.Contains(t, out, "WineBuddy Setup")
}

func TestCellarNameDerivesBothPaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("WINEBUDDY_DB", "")
	t.Setenv("WINEBUDDY_CSV", "")

	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	require.NoError(t, os.WriteFile("tasting.csv", []byte(exportRows), 0o644))

	out, err := runCLI(t, "query", "--cellar-name", "tasting", "-q")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)

	_, statErr := os.Stat("tasting.db")
	assert.NoError(t, statErr)
}

func TestEnvVarsResolvePaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	csvPath := filepath.Join(dir, "env.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(exportRows), 0o644))
	t.Setenv("WINEBUDDY_DB", filepath.Join(dir, "env.db"))
	t.Setenv("WINEBUDDY_CSV", csvPath)
	t.Setenv("WINEBUDDY_OUTPUT", "")

	out, err := runCLI(t, "query", "-q")
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.True(t, containsIgnoreCase(out, "winebuddy"))
}
