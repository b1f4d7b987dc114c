// Package cli implements the winebuddy command tree.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"winebuddy/internal/config"
	"winebuddy/internal/domain"
)

var (
	version = "dev"
	commit  = "none"
)

// session carries the settings resolved for one invocation: cellar file
// paths, output format, and quiet mode. Command constructors capture it
// and read the resolved values at run time.
type session struct {
	dbPath  string
	csvPath string
	output  string
	quiet   bool
	log     *slog.Logger
}

// Execute runs the CLI.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		output, _ := rootCmd.PersistentFlags().GetString("output")
		if output == "json" {
			errObj := map[string]interface{}{
				"error": err.Error(),
			}
			var verr *domain.ValidationError
			if errors.As(err, &verr) {
				errObj["kind"] = "validation"
			}
			_ = printJSON(os.Stdout, errObj)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		dbPath     string
		csvPath    string
		cellarName string
		output     string
		profile    string
		logLevel   string
		quiet      bool
	)

	sess := &session{}

	defaults := config.FromName(config.DefaultCellarName)

	rootCmd := &cobra.Command{
		Use:           "winebuddy",
		Short:         "Query and filter wines from the cellar database",
		Long:          "WineBuddy imports a CellarTracker CSV export into a local SQLite cellar and answers filtered, sorted queries against it.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Load profile config; the file is optional.
			cfg, err := LoadUserConfig()
			if err != nil {
				cfg = &UserConfig{
					CurrentProfile: "default",
					Profiles:       map[string]Profile{},
				}
			}
			p := cfg.ActiveProfile(profile)

			// Apply precedence: flag > env > profile > default.
			if cmd.Flags().Changed("cellar-name") {
				derived := config.FromName(cellarName)
				if !cmd.Flags().Changed("db") {
					dbPath = derived.DBPath
				}
				if !cmd.Flags().Changed("csv") {
					csvPath = derived.CSVPath
				}
			} else {
				if !cmd.Flags().Changed("db") {
					if v := os.Getenv("WINEBUDDY_DB"); v != "" {
						dbPath = v
					} else if p.DBPath != "" {
						dbPath = p.DBPath
					} else if p.CellarName != "" {
						dbPath = config.FromName(p.CellarName).DBPath
					}
				}
				if !cmd.Flags().Changed("csv") {
					if v := os.Getenv("WINEBUDDY_CSV"); v != "" {
						csvPath = v
					} else if p.CSVPath != "" {
						csvPath = p.CSVPath
					} else if p.CellarName != "" {
						csvPath = config.FromName(p.CellarName).CSVPath
					}
				}
			}
			if !cmd.Flags().Changed("output") {
				if v := os.Getenv("WINEBUDDY_OUTPUT"); v != "" {
					output = v
				} else if p.Output != "" {
					output = p.Output
				}
			}
			if err := validateOutputFormat(output); err != nil {
				return err
			}

			// Logger setup: level from flag > env > default, warnings after.
			envCfg := config.LoadFromEnv()
			if cmd.Flags().Changed("log-level") {
				envCfg.LogLevel = logLevel
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: envCfg.SlogLevel(),
			}))
			slog.SetDefault(logger)
			for _, w := range envCfg.Warnings {
				logger.Warn(w)
			}

			sess.dbPath = dbPath
			sess.csvPath = csvPath
			sess.output = output
			sess.quiet = quiet
			sess.log = logger
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaults.DBPath, "Path to the cellar SQLite database")
	rootCmd.PersistentFlags().StringVar(&csvPath, "csv", defaults.CSVPath, "Path to the CellarTracker CSV export")
	rootCmd.PersistentFlags().StringVar(&cellarName, "cellar-name", "", "Override the default name for cellar files (useful for testing)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json, csv)")
	rootCmd.PersistentFlags().StringVarP(&profile, "profile", "p", "", "Config profile to use")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only output result counts")

	rootCmd.AddCommand(newQueryCmd(sess))
	rootCmd.AddCommand(newDiscoverCmd(sess))
	rootCmd.AddCommand(newImportCmd(sess))
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCommandsCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	return rootCmd
}

func newCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			default:
				return fmt.Errorf("unsupported shell: %s", args[0])
			}
		},
	}
	return cmd
}
