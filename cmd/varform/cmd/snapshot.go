package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"varcvar-api/internal/models"
	"varcvar-api/internal/services"
)

var errSubmitDisabled = errors.New("parameters do not enable submission")

var (
	snapshotRaw   services.RawParameters
	snapshotAlpha string
	snapshotD     string
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Build a parameter snapshot from flags",
	Long: `Build the form state from flags and print whether it can be submitted
together with the snapshot it produces. Exits non-zero when submission would
be disabled.`,
	Example: `  varform snapshot --start 2020-01-01 --end 2020-12-31 --funds-count 10
  varform snapshot --tau 5 --period Quarterly --start 2010-01-04 --end 2015-12-31 --fund B11293 --fund B55333`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := snapshotRaw
		if cmd.Flags().Changed("alpha") {
			raw.Alpha = &snapshotAlpha
		}
		if cmd.Flags().Changed("funds-count") {
			raw.D = &snapshotD
		}
		return runSnapshot(cmd.OutOrStdout(), raw)
	},
}

func runSnapshot(out io.Writer, raw services.RawParameters) error {
	state, warnings, err := services.StateFromRaw(raw)
	if err != nil {
		return err
	}

	resp := models.ValidationResponse{
		CanSubmit:     state.CanSubmit(),
		RollingPeriod: string(state.RollingPeriod()),
		Snapshot:      state.Snapshot(),
		Warnings:      warnings,
	}
	b, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	fmt.Fprintln(out, string(b))

	if !resp.CanSubmit {
		return errSubmitDisabled
	}
	return nil
}

func init() {
	f := snapshotCmd.Flags()
	f.StringVar(&snapshotRaw.Tau, "tau", "", "time horizon in years (1, 3 or 5)")
	f.StringVar(&snapshotRaw.RollingPeriod, "period", "", "rolling period (Daily, Weekly, Monthly, Quarterly)")
	f.StringVar(&snapshotAlpha, "alpha", "", "confidence level")
	f.StringVar(&snapshotD, "funds-count", "", "number of funds (1-20)")
	f.StringVar(&snapshotRaw.StartDate, "start", "", "start date, YYYY-MM-DD")
	f.StringVar(&snapshotRaw.EndDate, "end", "", "end date, YYYY-MM-DD")
	f.StringArrayVar(&snapshotRaw.SelectedFunds, "fund", nil, "fund ticker to select (repeatable)")

	rootCmd.AddCommand(snapshotCmd)
}
