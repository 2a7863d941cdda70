package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/iloveparkjisung/Database-Assesment/pkg/menu"
	"github.com/iloveparkjisung/Database-Assesment/pkg/tui"
)

var altScreenFlag bool

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Run the lettered text menu",
	Long: `Prints a lettered menu and reads choices from standard input until
DONE or EXIT is entered.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		return menu.New(dbConn, trackerSpec, cmd.InOrStdin(), cmd.OutOrStdout(), logger).Run(cmd.Context())
	},
}

var dialogCmd = &cobra.Command{
	Use:     "dialog",
	Aliases: []string{"tui"},
	Short:   "Run the dialog based terminal UI",
	Long:    `Shows a main menu of buttons leading to modal dialogs for browsing and adding records.`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer dbConn.Close()

		return tui.Run(cmd.Context(), dbConn, trackerSpec, tui.NewDialogs(os.Stdin, os.Stdout, altScreenFlag), logger)
	},
}

func initInteractiveCmd() {
	dialogCmd.Flags().BoolVar(&altScreenFlag, "alt-screen", true, "Draw dialogs on the terminal's alternate screen")
}
