package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/association-management/internal/core/events"
	"github.com/frahmantamala/association-management/internal/setting"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
}

var duesSchedule string

var duesWorkerCmd = &cobra.Command{
	Use:   "dues",
	Short: "Generate monthly dues on a cron schedule",
	Long:  `Run the dues generator for the current month on the configured schedule while the geracao_automatica_associacoes setting is on.`,
	Run: func(cmd *cobra.Command, args []string) {
		startDuesWorker()
	},
}

func startDuesWorker() {
	app, err := appFromConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize worker: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	lg := app.Logger
	schedule := getStringFlag(duesSchedule, app.Config.Dues.Schedule)

	app.Bus.Subscribe(events.EventTypeDuesGenerated, func(ctx context.Context, event events.Event) error {
		lg.Info("dues generated", "event_id", event.EventID(), "payload", event.Payload())
		return nil
	})

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err = c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		if !app.Settings.GetBool(ctx, setting.KeyAutomaticDuesGeneration) {
			lg.Info("automatic dues generation disabled; skipping run")
			return
		}

		result := app.Dues.GenerateForMonth(ctx, 0, 0)
		lg.Info("scheduled dues run finished",
			"success", result.Success,
			"created", result.Created,
			"errors", result.Errors)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid dues schedule %q: %v\n", schedule, err)
		os.Exit(1)
	}

	lg.Info("dues worker started", "schedule", schedule)
	c.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	lg.Info("received signal, shutting down dues worker", "signal", sig)

	// wait for a running generation to finish
	<-c.Stop().Done()
	lg.Info("dues worker shutdown complete")
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func init() {
	duesWorkerCmd.Flags().StringVar(&duesSchedule, "schedule", "", "cron expression (overrides config)")

	workerCmd.AddCommand(duesWorkerCmd)
}
