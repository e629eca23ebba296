package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-aligner/internal/calibration"
	"github.com/jonathan/resume-aligner/internal/config"
)

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Run one calibration cycle over recorded feedback",
	Long:  "Aggregate the recent feedback window and, if the sample is large enough, publish a recalibrated scoring state with a bumped model version.",
	RunE:  runCalibrate,
}

func init() {
	rootCmd.AddCommand(calibrateCmd)
}

func runCalibrate(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(config.Config{})
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("a database is required to calibrate; set %s", config.EnvDatabaseURL)
	}

	ctx := cmd.Context()
	st, err := buildStack(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.cleanup()

	if err := st.calibrator.RunOnce(ctx); err != nil {
		if errors.Is(err, calibration.ErrInsufficientData) {
			fmt.Fprintf(os.Stdout, "Calibration skipped: %v\n", err)
			return nil
		}
		return err
	}

	state := st.publisher.Active()
	fmt.Fprintf(os.Stdout, "Published calibration model v%d\n", state.ModelVersion)
	fmt.Fprintf(os.Stdout, "Hybrid weight: %.2f (%s)\n", state.HybridWeight, state.AdjustmentNote)
	fmt.Fprintf(os.Stdout, "Sample size: %d\n", state.SampleSize)
	return nil
}
