package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-aligner/internal/config"
	"github.com/jonathan/resume-aligner/internal/types"
)

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Report the job description keywords a resume is missing",
	RunE:  runGaps,
}

var (
	gapsResume string
	gapsJob    string
	gapsJobURL string
	gapsMode   string
	gapsJSON   bool
)

func init() {
	gapsCmd.Flags().StringVarP(&gapsResume, "resume", "r", "", "Path to resume text file (required)")
	gapsCmd.Flags().StringVarP(&gapsJob, "job", "j", "", "Path to job posting text file")
	gapsCmd.Flags().StringVarP(&gapsJobURL, "job-url", "u", "", "URL to fetch job posting from")
	gapsCmd.Flags().StringVarP(&gapsMode, "mode", "m", "hybrid", "Alignment mode: semantic, keyword, or hybrid")
	gapsCmd.Flags().BoolVar(&gapsJSON, "json", false, "Print the full report as JSON")

	_ = gapsCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(gapsCmd)
}

func runGaps(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(config.Config{
		Resume: gapsResume,
		Job:    gapsJob,
		JobURL: gapsJobURL,
		Mode:   gapsMode,
	})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	st, err := buildStack(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.cleanup()

	resume, job, err := resolveInputs(ctx, cfg)
	if err != nil {
		return err
	}

	report, err := st.engine.Gaps(ctx, resume, job, types.AlignmentMode(cfg.Mode))
	if err != nil {
		return err
	}

	if gapsJSON {
		return printJSON(report)
	}

	fmt.Fprintf(os.Stdout, "Keyword coverage: %.4f\n", report.Coverage)
	if len(report.MissingKeywords) == 0 {
		fmt.Fprintln(os.Stdout, "No missing keywords")
		return nil
	}
	fmt.Fprintln(os.Stdout, "Missing keywords (by weight):")
	for _, kw := range report.MissingKeywords {
		fmt.Fprintf(os.Stdout, "  %-24s %.1f\n", kw.Token, kw.Weight)
	}
	return nil
}
