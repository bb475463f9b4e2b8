package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmynk/billminder/internal/bootstrap"
	"github.com/mmynk/billminder/internal/clock"
	"github.com/mmynk/billminder/internal/jobs"
	"github.com/mmynk/billminder/internal/notify"
)

var flagDryRun bool

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run the reminder job once for every owner",
	RunE:  runRemind,
}

func init() {
	remindCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Log reminders instead of sending them")
	rootCmd.AddCommand(remindCmd)
}

func runRemind(cmd *cobra.Command, _ []string) error {
	app, err := openApp(cmd.Context(), clock.Real{})
	if err != nil {
		return err
	}
	defer app.Close()

	var notifier notify.Notifier = notify.LogNotifier{}
	if !flagDryRun {
		notifier, err = bootstrap.Notifier(cfg)
		if err != nil {
			return err
		}
	}

	job := jobs.NewReminderJob(app.Store, app.Bills, notifier, app.Clock, app.Location, app.Metrics)
	sent, err := job.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Sent %d reminder(s)\n", sent)
	return nil
}
