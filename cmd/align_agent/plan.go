package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-aligner/internal/config"
	"github.com/jonathan/resume-aligner/internal/engine"
	"github.com/jonathan/resume-aligner/internal/types"
)

var planCmd = &cobra.Command{
	Use:   "rewrite-plan",
	Short: "Build a keyword insertion plan for one resume section",
	Long:  "Analyze the resume against the job description and allocate the missing keywords across the target section's bullets, highest-weight keywords first.",
	RunE:  runPlan,
}

var (
	planResume       string
	planJob          string
	planJobURL       string
	planMode         string
	planSection      string
	planMaxPerBullet int
	planStyle        string
)

func init() {
	planCmd.Flags().StringVarP(&planResume, "resume", "r", "", "Path to resume text file (required)")
	planCmd.Flags().StringVarP(&planJob, "job", "j", "", "Path to job posting text file")
	planCmd.Flags().StringVarP(&planJobURL, "job-url", "u", "", "URL to fetch job posting from")
	planCmd.Flags().StringVarP(&planMode, "mode", "m", "hybrid", "Alignment mode: semantic, keyword, or hybrid")
	planCmd.Flags().StringVarP(&planSection, "section", "s", "experience", "Target resume section")
	planCmd.Flags().IntVar(&planMaxPerBullet, "max-per-bullet", 0, "Maximum new keywords per bullet (0 = default)")
	planCmd.Flags().StringVar(&planStyle, "style", "", "Writing style requested from the generator")

	_ = planCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(config.Config{
		Resume: planResume,
		Job:    planJob,
		JobURL: planJobURL,
		Mode:   planMode,
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

	plan, err := st.engine.RewritePlan(ctx, resume, job, engine.PlanRequest{
		Section:      types.SectionType(planSection),
		Mode:         types.AlignmentMode(cfg.Mode),
		MaxPerBullet: planMaxPerBullet,
		Style:        planStyle,
	})
	if err != nil {
		return err
	}

	return printJSON(plan)
}
