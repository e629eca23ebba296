package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-aligner/internal/config"
	"github.com/jonathan/resume-aligner/internal/fetch"
	"github.com/jonathan/resume-aligner/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a resume against a job description",
	Long:  "Parse a resume and a job description, score their alignment under the chosen mode, and report the score, keyword coverage, and missing keywords.",
	RunE:  runAnalyze,
}

var (
	analyzeResume string
	analyzeJob    string
	analyzeJobURL string
	analyzeMode   string
	analyzeJSON   bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to resume text file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeJob, "job", "j", "", "Path to job posting text file")
	analyzeCmd.Flags().StringVarP(&analyzeJobURL, "job-url", "u", "", "URL to fetch job posting from")
	analyzeCmd.Flags().StringVarP(&analyzeMode, "mode", "m", "hybrid", "Alignment mode: semantic, keyword, or hybrid")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the full result as JSON")

	_ = analyzeCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(analyzeCmd)
}

// resolveInputs reads the resume and job texts from the configured sources.
func resolveInputs(ctx context.Context, cfg *config.Config) (resume, job string, err error) {
	if cfg.Resume == "" {
		return "", "", fmt.Errorf("--resume is required")
	}
	if cfg.Job == "" && cfg.JobURL == "" {
		return "", "", fmt.Errorf("either --job or --job-url must be provided")
	}

	resume, err = readTextFile(cfg.Resume)
	if err != nil {
		return "", "", err
	}

	if cfg.Job != "" {
		job, err = readTextFile(cfg.Job)
		return resume, job, err
	}

	result, err := fetch.JobPosting(ctx, cfg.JobURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch job posting: %w", err)
	}
	return resume, result.Text, nil
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(config.Config{
		Resume: analyzeResume,
		Job:    analyzeJob,
		JobURL: analyzeJobURL,
		Mode:   analyzeMode,
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

	result, err := st.engine.Analyze(ctx, resume, job, types.AlignmentMode(cfg.Mode))
	if err != nil {
		return err
	}

	if analyzeJSON {
		return printJSON(result)
	}

	fmt.Fprintf(os.Stdout, "Overall score: %.4f (%s mode, model v%d)\n", result.OverallScore, result.Mode, result.ModelVersion)
	fmt.Fprintf(os.Stdout, "Keyword coverage: %.4f\n", result.Coverage)
	if result.Degraded {
		fmt.Fprintln(os.Stdout, "Note: semantic backend unavailable, keyword fallback used")
	}
	if result.Partial {
		fmt.Fprintln(os.Stdout, "Note: some lines were excluded after embedding failures")
	}
	if len(result.MissingKeywords) > 0 {
		fmt.Fprintf(os.Stdout, "Missing keywords: %s\n", strings.Join(result.MissingKeywords, ", "))
	}
	for _, s := range result.Suggestions {
		fmt.Fprintf(os.Stdout, "  - %s\n", s)
	}
	return nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(data))
	return nil
}
