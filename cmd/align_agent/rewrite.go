package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-aligner/internal/config"
	"github.com/jonathan/resume-aligner/internal/engine"
	"github.com/jonathan/resume-aligner/internal/types"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Rewrite one resume section to work in missing keywords",
	Long:  "Build a keyword insertion plan for the target section, hand it to the text generator, and report the rewritten bullets with a review of how faithfully the plan was followed. Requires an API key.",
	RunE:  runRewrite,
}

var (
	rewriteResume       string
	rewriteJob          string
	rewriteJobURL       string
	rewriteMode         string
	rewriteSection      string
	rewriteMaxPerBullet int
	rewriteStyle        string
	rewriteJSON         bool
)

func init() {
	rewriteCmd.Flags().StringVarP(&rewriteResume, "resume", "r", "", "Path to resume text file (required)")
	rewriteCmd.Flags().StringVarP(&rewriteJob, "job", "j", "", "Path to job posting text file")
	rewriteCmd.Flags().StringVarP(&rewriteJobURL, "job-url", "u", "", "URL to fetch job posting from")
	rewriteCmd.Flags().StringVarP(&rewriteMode, "mode", "m", "hybrid", "Alignment mode: semantic, keyword, or hybrid")
	rewriteCmd.Flags().StringVarP(&rewriteSection, "section", "s", "experience", "Target resume section")
	rewriteCmd.Flags().IntVar(&rewriteMaxPerBullet, "max-per-bullet", 0, "Maximum new keywords per bullet (0 = default)")
	rewriteCmd.Flags().StringVar(&rewriteStyle, "style", "", "Writing style requested from the generator")
	rewriteCmd.Flags().BoolVar(&rewriteJSON, "json", false, "Print the full output as JSON")

	_ = rewriteCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(rewriteCmd)
}

func runRewrite(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(config.Config{
		Resume: rewriteResume,
		Job:    rewriteJob,
		JobURL: rewriteJobURL,
		Mode:   rewriteMode,
	})
	if err != nil {
		return err
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("rewriting requires an API key (set %s)", config.EnvAPIKey)
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

	out, err := st.engine.Rewrite(ctx, resume, job, engine.PlanRequest{
		Section:      types.SectionType(rewriteSection),
		Mode:         types.AlignmentMode(cfg.Mode),
		MaxPerBullet: rewriteMaxPerBullet,
		Style:        rewriteStyle,
	})
	if err != nil {
		return err
	}

	if rewriteJSON {
		return printJSON(out)
	}

	fmt.Printf("Rewritten %s section (%d bullets):\n", rewriteSection, len(out.Bullets))
	for _, b := range out.Bullets {
		fmt.Printf("  - %s\n", b)
	}
	if out.Review.Clean() {
		fmt.Println("Review: clean")
		return nil
	}

	fmt.Println("Review:")
	if !out.Review.BulletCountKept {
		fmt.Println("  - bullet count changed")
	}
	if !out.Review.LengthKept {
		fmt.Println("  - length drifted from the original")
	}
	if len(out.Review.ShortfallKeywords) > 0 {
		fmt.Printf("  - keywords under target: %v\n", out.Review.ShortfallKeywords)
	}
	if len(out.Review.OverloadedBullets) > 0 {
		fmt.Printf("  - bullets over the keyword cap: %v\n", out.Review.OverloadedBullets)
	}
	if len(out.Review.WeakBullets) > 0 {
		fmt.Printf("  - bullets without a leading action verb: %v\n", out.Review.WeakBullets)
	}
	return nil
}
