package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-aligner/internal/config"
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Summarize feedback trends and the active calibration state",
	RunE:  runInsights,
}

var insightsDays int

func init() {
	insightsCmd.Flags().IntVarP(&insightsDays, "days", "d", 30, "Feedback window in days")

	rootCmd.AddCommand(insightsCmd)
}

func runInsights(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(config.Config{})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st, err := buildStack(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.cleanup()

	now := time.Now().UTC()
	insights, err := st.engine.Insights(ctx, now.AddDate(0, 0, -insightsDays), now)
	if err != nil {
		return err
	}

	return printJSON(insights)
}
