// Package engine provides the high-level orchestration for resume alignment:
// it parses raw text into documents, runs the scorer, builds rewrite plans,
// and records feedback.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/resume-aligner/internal/alignment"
	"github.com/jonathan/resume-aligner/internal/calibration"
	"github.com/jonathan/resume-aligner/internal/feedback"
	"github.com/jonathan/resume-aligner/internal/keywords"
	"github.com/jonathan/resume-aligner/internal/rewriting"
	"github.com/jonathan/resume-aligner/internal/sectionizer"
	"github.com/jonathan/resume-aligner/internal/types"
)

// Engine wires the alignment components behind one entry point. All methods
// are safe for concurrent use.
type Engine struct {
	scorer    *alignment.Scorer
	feedback  *feedback.Aggregator
	publisher *calibration.Publisher
	generator rewriting.Generator
	logger    *zap.Logger
}

// New creates an Engine. publisher and logger may be nil.
func New(scorer *alignment.Scorer, agg *feedback.Aggregator, publisher *calibration.Publisher, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{scorer: scorer, feedback: agg, publisher: publisher, logger: logger}
}

// WithGenerator equips the engine with a text generator so Rewrite can
// produce prose instead of only plans. Returns the engine for chaining.
func (e *Engine) WithGenerator(g rewriting.Generator) *Engine {
	e.generator = g
	return e
}

// ParseResume sectionizes raw resume text into a document with a fresh ID.
func ParseResume(raw string) *types.ResumeDocument {
	return &types.ResumeDocument{
		ID:       uuid.New().String(),
		Sections: sectionizer.Sectionize(raw),
	}
}

// ParseJobDescription splits raw JD text into lines and extracts its weighted
// keyword set.
func ParseJobDescription(raw string) *types.JobDescription {
	jd := &types.JobDescription{
		ID:       uuid.New().String(),
		RawText:  raw,
		Lines:    []types.JDLine{},
		Keywords: keywords.Extract(raw),
	}
	for _, line := range strings.Split(raw, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			jd.Lines = append(jd.Lines, types.JDLine{Text: trimmed})
		}
	}
	return jd
}

// resolveMode validates mode, defaulting an empty value to hybrid.
func resolveMode(mode types.AlignmentMode) (types.AlignmentMode, error) {
	if mode == "" {
		return types.ModeHybrid, nil
	}
	if !mode.Valid() {
		return "", fmt.Errorf("unknown alignment mode %q", mode)
	}
	return mode, nil
}

// Analyze parses both texts and scores them under the given mode. An empty
// mode defaults to hybrid.
func (e *Engine) Analyze(ctx context.Context, resumeText, jdText string, mode types.AlignmentMode) (*types.AlignmentResult, error) {
	mode, err := resolveMode(mode)
	if err != nil {
		return nil, err
	}

	doc := ParseResume(resumeText)
	jd := ParseJobDescription(jdText)

	result := e.scorer.Analyze(ctx, doc, jd, mode)
	e.logger.Info("alignment computed",
		zap.String("resume_id", doc.ID),
		zap.String("jd_id", jd.ID),
		zap.String("mode", string(mode)),
		zap.Float64("score", result.OverallScore),
		zap.Float64("coverage", result.Coverage))
	return result, nil
}

// GapReport lists the JD keywords a resume is missing, with their JD weights,
// ordered by weight descending.
type GapReport struct {
	ResumeID        string              `json:"resume_id"`
	JDID            string              `json:"jd_id"`
	Mode            types.AlignmentMode `json:"mode"`
	Coverage        float64             `json:"coverage"`
	MissingKeywords []types.Keyword     `json:"missing_keywords"`
	Suggestions     []string            `json:"suggestions"`
}

// Gaps analyzes the pair and reports the missing keywords with weights.
func (e *Engine) Gaps(ctx context.Context, resumeText, jdText string, mode types.AlignmentMode) (*GapReport, error) {
	mode, err := resolveMode(mode)
	if err != nil {
		return nil, err
	}

	doc := ParseResume(resumeText)
	jd := ParseJobDescription(jdText)
	result := e.scorer.Analyze(ctx, doc, jd, mode)

	return &GapReport{
		ResumeID:        result.ResumeID,
		JDID:            result.JDID,
		Mode:            mode,
		Coverage:        result.Coverage,
		MissingKeywords: weightedKeywords(result.MissingKeywords, jd),
		Suggestions:     result.Suggestions,
	}, nil
}

// weightedKeywords maps missing tokens back to their JD keyword entries,
// preserving the scorer's weight-descending order.
func weightedKeywords(tokens []string, jd *types.JobDescription) []types.Keyword {
	byToken := make(map[string]types.Keyword, len(jd.Keywords))
	for _, kw := range jd.Keywords {
		byToken[kw.Token] = kw
	}
	out := make([]types.Keyword, 0, len(tokens))
	for _, t := range tokens {
		if kw, ok := byToken[t]; ok {
			out = append(out, kw)
		}
	}
	return out
}

// PlanRequest configures rewrite plan building.
type PlanRequest struct {
	Section      types.SectionType
	Mode         types.AlignmentMode
	MaxPerBullet int
	Style        string
}

// RewritePlan analyzes the pair and builds a keyword insertion plan for one
// resume section. The section must exist in the parsed resume.
func (e *Engine) RewritePlan(ctx context.Context, resumeText, jdText string, req PlanRequest) (*rewriting.Plan, error) {
	plan, _, err := e.buildPlan(ctx, resumeText, jdText, req)
	return plan, err
}

// buildPlan runs the analysis and plan building shared by RewritePlan and
// Rewrite, returning the plan alongside the target section.
func (e *Engine) buildPlan(ctx context.Context, resumeText, jdText string, req PlanRequest) (*rewriting.Plan, types.Section, error) {
	mode, err := resolveMode(req.Mode)
	if err != nil {
		return nil, types.Section{}, err
	}
	if req.Section == "" {
		req.Section = types.SectionExperience
	}

	doc := ParseResume(resumeText)
	jd := ParseJobDescription(jdText)

	section, ok := findSection(doc, req.Section)
	if !ok {
		return nil, types.Section{}, fmt.Errorf("resume has no %s section", req.Section)
	}

	result := e.scorer.Analyze(ctx, doc, jd, mode)
	missing := weightedKeywords(result.MissingKeywords, jd)

	plan := rewriting.BuildPlan(section, missing, resumeSkills(doc), rewriting.PlanOptions{
		MaxPerBullet: req.MaxPerBullet,
		Style:        req.Style,
	})
	e.logger.Info("rewrite plan built",
		zap.String("resume_id", doc.ID),
		zap.String("section", string(req.Section)),
		zap.Int("keywords", len(plan.PriorityOrder)),
		zap.Int("slots", plan.TotalSlots()))
	return plan, section, nil
}

// ErrNoGenerator is returned by Rewrite when the engine was built without a
// text generator.
var ErrNoGenerator = errors.New("no text generator configured")

// RewriteOutput pairs rewritten bullets with the plan they answered and a
// review of how faithfully they followed it.
type RewriteOutput struct {
	Plan    *rewriting.Plan         `json:"plan"`
	Bullets []string                `json:"bullets"`
	Review  *rewriting.ReviewResult `json:"review"`
}

// Rewrite builds a plan for the section and hands it to the configured
// generator, returning the rewritten bullets with a fidelity review.
func (e *Engine) Rewrite(ctx context.Context, resumeText, jdText string, req PlanRequest) (*RewriteOutput, error) {
	if e.generator == nil {
		return nil, ErrNoGenerator
	}

	plan, section, err := e.buildPlan(ctx, resumeText, jdText, req)
	if err != nil {
		return nil, err
	}

	bullets := make([]string, 0, len(section.Bullets))
	for _, b := range section.Bullets {
		bullets = append(bullets, b.Text)
	}

	genReq := &rewriting.Request{Section: section.Type, Bullets: bullets, Plan: plan}
	resp, err := e.generator.Rewrite(ctx, genReq)
	if err != nil {
		return nil, fmt.Errorf("rewrite generation failed: %w", err)
	}

	review := rewriting.ReviewResponse(genReq, resp)
	e.logger.Info("section rewritten",
		zap.String("section", string(section.Type)),
		zap.Int("bullets", len(resp.Bullets)),
		zap.Bool("clean", review.Clean()))
	return &RewriteOutput{Plan: plan, Bullets: resp.Bullets, Review: review}, nil
}

// findSection returns the first section of the given type.
func findSection(doc *types.ResumeDocument, sectionType types.SectionType) (types.Section, bool) {
	for _, sec := range doc.Sections {
		if sec.Type == sectionType {
			return sec, true
		}
	}
	return types.Section{}, false
}

// resumeSkills returns the tokens the resume's skills sections already list,
// so plans do not ask for keywords the resume has.
func resumeSkills(doc *types.ResumeDocument) []string {
	var out []string
	for _, sec := range doc.Sections {
		if sec.Type != types.SectionSkills {
			continue
		}
		for _, b := range sec.Bullets {
			for _, part := range strings.Split(b.Text, ",") {
				if trimmed := strings.TrimSpace(part); trimmed != "" {
					out = append(out, trimmed)
				}
			}
		}
	}
	return out
}

// SubmitFeedback records one feedback event and returns its assigned ID.
func (e *Engine) SubmitFeedback(ctx context.Context, event types.FeedbackEvent) (string, error) {
	return e.feedback.Record(ctx, event)
}

// Insights aggregates feedback trends over a window alongside the active
// calibration state.
type Insights struct {
	Feedback    *types.FeedbackSummary  `json:"feedback"`
	Calibration *types.CalibrationState `json:"calibration"`
}

// Insights summarizes feedback over [from, to) and reports the calibration
// state currently in effect.
func (e *Engine) Insights(ctx context.Context, from, to time.Time) (*Insights, error) {
	summary, err := e.feedback.Summarize(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to build insights: %w", err)
	}

	state := types.DefaultCalibrationState()
	if e.publisher != nil {
		state = e.publisher.Active()
	}
	return &Insights{Feedback: summary, Calibration: state}, nil
}
