package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	tracker "github.com/iloveparkjisung/Database-Assesment/pkg"
	"github.com/iloveparkjisung/Database-Assesment/pkg/config"
	pkgdb "github.com/iloveparkjisung/Database-Assesment/pkg/db"
	"github.com/iloveparkjisung/Database-Assesment/pkg/logging"
	"github.com/iloveparkjisung/Database-Assesment/pkg/records"
	"github.com/iloveparkjisung/Database-Assesment/pkg/utils"

	"github.com/spf13/cobra"
)

// Set by the root command before any subcommand runs.
var (
	cfg         *config.Config
	logger      *log.Logger
	trackerSpec *records.Tracker
)

var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Personal database trackers for dramas, kpop idols and contacts.",
	Long: `tracker keeps small personal databases in local SQLite files.

Pick the database with --tracker (drama, kpop or contacts). Each tracker lives
in its own file and is created and seeded on first use.`,
	Version:       fmt.Sprintf("v%s", tracker.Version),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var completionShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = &cobra.Command{
	Use:   fmt.Sprintf("completion %s", strings.Join(completionShells, "|")),
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for tracker.

Examples:

  Bash (current shell):
    $ source <(tracker completion bash)

  Zsh:
    $ tracker completion zsh > "${fpath[1]}/_tracker"

  Fish:
    $ tracker completion fish | source

  PowerShell:
    PS> tracker completion powershell | Out-String | Invoke-Expression`,
	DisableFlagsInUseLine: true,
	ValidArgs:             completionShells,
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	PersistentPreRunE:     func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return rootCmd.GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return rootCmd.GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unsupported shell: %s", args[0])
		}
	},
}

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print the version number of tracker",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), tracker.Version)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the tracker database",
}

var dbUpgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Create or upgrade the schema of the selected tracker",
	Long: `Opens the SQLite file of the selected tracker, creating it when missing,
then creates any missing tables and views and inserts the seed rows.
Running it on an up to date database changes nothing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, path, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "%s database is at schema version %d: %s\n", trackerSpec.Title, pkgdb.TargetSchemaVersion, path)
		return nil
	},
}

// setup loads the configuration and resolves the selected tracker.
func setup(cmd *cobra.Command) error {
	c, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}

	l, err := logging.New(os.Stderr, "tracker", c.Log.Level)
	if err != nil {
		return err
	}

	t, err := records.Get(c.Tracker)
	if err != nil {
		return err
	}

	cfg, logger, trackerSpec = c, l, t
	logger.Printf("[DEBUG] Using tracker %s\n", t.Name)
	return nil
}

// openDB opens the tracker database and brings its schema up to date.
func openDB() (*sql.DB, string, error) {
	path, err := utils.ResolveAndEnsureDBPath(cfg.Database.Path, trackerSpec.DBFile)
	if err != nil {
		return nil, "", err
	}

	dbConn, err := pkgdb.OpenDBConnection(path, cfg.Database.WAL, cfg.Database.Sync)
	if err != nil {
		return nil, "", err
	}

	if err := pkgdb.UpgradeDB(dbConn, trackerSpec.Component, path, pkgdb.TargetSchemaVersion, logger); err != nil {
		dbConn.Close()
		return nil, "", err
	}
	return dbConn, path, nil
}

func initCmd() {
	rootCmd.PersistentFlags().StringP("tracker", "t", config.DefaultTracker, "Tracker to open ("+strings.Join(records.Names(), ", ")+")")
	rootCmd.PersistentFlags().String("db", "", "Path to the database file (uses a system-specific default if not provided)")
	rootCmd.PersistentFlags().Bool("wal", false, "Enable SQLite WAL (Write-Ahead Logging) mode")
	rootCmd.PersistentFlags().String("sync", "FULL", "SQLite synchronous pragma (OFF, NORMAL, FULL, EXTRA)")
	rootCmd.PersistentFlags().String("log-level", logging.DefaultLevel, "Minimum log level (TRACE, DEBUG, INFO, WARN, ERROR, CRITICAL)")

	rootCmd.RegisterFlagCompletionFunc("tracker", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return records.Names(), cobra.ShellCompDirectiveNoFileComp
	})

	dbCmd.AddCommand(dbUpgradeCmd)

	initRecordsCmd()
	initInteractiveCmd()
	rootCmd.AddCommand(completionCmd, versionCmd, dbCmd, listCmd, filtersCmd, filterCmd, viewsCmd, viewCmd, addCmd, menuCmd, dialogCmd, mcpCmd)
}

func main() {
	initCmd()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
