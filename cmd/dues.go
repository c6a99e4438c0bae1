package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var duesCmd = &cobra.Command{
	Use:   "dues",
	Short: "Monthly dues maintenance",
}

var (
	genYear   int
	genMonth  int
	rangeFrom string
	rangeTo   string
)

var duesGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate missing dues for one month",
	Long:  `Create an unpaid dues record at the default amount for every active employee without one in the month. Defaults to the current month.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFromConfig()
		if err != nil {
			return err
		}
		defer app.Close()

		result := app.Dues.GenerateForMonth(context.Background(), genYear, genMonth)
		return printResult(result)
	},
}

var duesGenerateRangeCmd = &cobra.Command{
	Use:   "generate-range",
	Short: "Generate missing dues for every month in a range",
	Example: `  association-management dues generate-range --from 2024-01 --to 2024-06`,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := time.Parse("2006-01", rangeFrom)
		if err != nil {
			return fmt.Errorf("--from must be YYYY-MM: %w", err)
		}
		to, err := time.Parse("2006-01", rangeTo)
		if err != nil {
			return fmt.Errorf("--to must be YYYY-MM: %w", err)
		}

		app, err := appFromConfig()
		if err != nil {
			return err
		}
		defer app.Close()

		result, err := app.Dues.GenerateForRange(context.Background(), from.Year(), int(from.Month()), to.Year(), int(to.Month()))
		if err != nil {
			return err
		}
		return printResult(result)
	},
}

func appFromConfig() (*application, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return newApplication(cfg)
}

func printResult(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	duesGenerateCmd.Flags().IntVar(&genYear, "year", 0, "year to generate (default current)")
	duesGenerateCmd.Flags().IntVar(&genMonth, "month", 0, "month to generate, 1-12 (default current)")

	duesGenerateRangeCmd.Flags().StringVar(&rangeFrom, "from", "", "first month, YYYY-MM")
	duesGenerateRangeCmd.Flags().StringVar(&rangeTo, "to", "", "last month, YYYY-MM")
	_ = duesGenerateRangeCmd.MarkFlagRequired("from")
	_ = duesGenerateRangeCmd.MarkFlagRequired("to")

	duesCmd.AddCommand(duesGenerateCmd)
	duesCmd.AddCommand(duesGenerateRangeCmd)
}
