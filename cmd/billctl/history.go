package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/billminder/internal/cli"
	"github.com/mmynk/billminder/internal/clock"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show payments grouped by month",
	RunE:  runHistory,
}

func init() {
	addOwnerFlag(historyCmd)
	historyCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the raw JSON history")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	app, err := openApp(cmd.Context(), clock.Real{})
	if err != nil {
		return err
	}
	defer app.Close()

	history, err := app.Payments.History(cmd.Context(), flagOwner)
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(history)
	}

	fmt.Print(cli.RenderHistory(flagOwner, history))
	return nil
}
