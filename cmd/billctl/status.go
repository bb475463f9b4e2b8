package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/billminder/internal/calculator"
	"github.com/mmynk/billminder/internal/cli"
	"github.com/mmynk/billminder/internal/clock"
)

var flagDate string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show bills to pay now, coming up, and paid this month",
	RunE:  runStatus,
}

func init() {
	addOwnerFlag(statusCmd)
	statusCmd.Flags().StringVar(&flagDate, "date", "", "Evaluate as of this date (YYYY-MM-DD) instead of now")
	statusCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the raw JSON report")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	loc := calculator.ReferenceZone(cfg.Billing.UTCOffsetHours)

	now := time.Now()
	if flagDate != "" {
		d, err := calculator.ParseDateOnly(flagDate)
		if err != nil {
			return err
		}
		// midday avoids any ambiguity about which local date is meant
		now = time.Date(d.Year(), d.Month(), d.Day(), 12, 0, 0, 0, loc)
	}

	app, err := openApp(cmd.Context(), clock.NewFake(now))
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := app.Bills.Status(cmd.Context(), flagOwner)
	if err != nil {
		return err
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Print(cli.RenderStatus(flagOwner, calculator.FormatDate(calculator.Today(now, loc)), report))
	return nil
}
