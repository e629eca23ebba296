package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-aligner/internal/config"
	"github.com/jonathan/resume-aligner/internal/types"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Record a feedback event for a suggestion",
	Long:  "Append one immutable feedback event recording how a suggestion was received. Requires a database so the event survives for calibration.",
	RunE:  runFeedback,
}

var (
	feedbackResumeID   string
	feedbackSection    string
	feedbackType       string
	feedbackConfidence float64
	feedbackOldText    string
	feedbackNewText    string
)

func init() {
	feedbackCmd.Flags().StringVar(&feedbackResumeID, "resume-id", "", "Resume the suggestion belonged to (required)")
	feedbackCmd.Flags().StringVarP(&feedbackSection, "section", "s", "experience", "Resume section the suggestion targeted")
	feedbackCmd.Flags().StringVarP(&feedbackType, "type", "t", "", "Feedback type: accepted, manual_edit, rejected, or rewritten (required)")
	feedbackCmd.Flags().Float64VarP(&feedbackConfidence, "confidence", "c", 0, "Confidence score of the suggestion, in [0,1]")
	feedbackCmd.Flags().StringVar(&feedbackOldText, "old-text", "", "Original bullet text")
	feedbackCmd.Flags().StringVar(&feedbackNewText, "new-text", "", "Suggested bullet text")

	_ = feedbackCmd.MarkFlagRequired("resume-id")
	_ = feedbackCmd.MarkFlagRequired("type")

	rootCmd.AddCommand(feedbackCmd)
}

func runFeedback(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(config.Config{})
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("a database is required to record feedback; set %s", config.EnvDatabaseURL)
	}

	ctx := cmd.Context()
	st, err := buildStack(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.cleanup()

	id, err := st.engine.SubmitFeedback(ctx, types.FeedbackEvent{
		ResumeID:        feedbackResumeID,
		Section:         types.SectionType(feedbackSection),
		OldText:         feedbackOldText,
		NewText:         feedbackNewText,
		FeedbackType:    types.FeedbackType(feedbackType),
		ConfidenceScore: feedbackConfidence,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Recorded feedback event %s\n", id)
	return nil
}
