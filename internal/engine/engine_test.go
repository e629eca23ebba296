package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-aligner/internal/alignment"
	"github.com/jonathan/resume-aligner/internal/embedding"
	"github.com/jonathan/resume-aligner/internal/feedback"
	"github.com/jonathan/resume-aligner/internal/rewriting"
	"github.com/jonathan/resume-aligner/internal/types"
)

func newTestEngine() *Engine {
	scorer := alignment.NewScorer(embedding.NewLexicalProvider(), nil, alignment.DefaultOptions(), nil)
	agg := feedback.NewAggregator(feedback.NewMemoryStore(), nil)
	return New(scorer, agg, nil, nil)
}

const gapResume = `SUMMARY
Backend engineer focused on cloud services.

EXPERIENCE
- Built data services using Python on AWS infrastructure.
- Automated deployments with Python tooling.

SKILLS
Python, AWS`

const gapJD = `Python developer needed for Python services in Python shops.
Deploy with AWS and AWS tooling.
Ship Docker builds and Docker images daily.
Some Kubernetes exposure helps.`

func TestParseResumeAssignsIDAndSections(t *testing.T) {
	doc := ParseResume(gapResume)
	assert.NotEmpty(t, doc.ID)
	require.Len(t, doc.Sections, 3)
	assert.Equal(t, types.SectionSummary, doc.Sections[0].Type)
	assert.Equal(t, types.SectionExperience, doc.Sections[1].Type)
	assert.Equal(t, types.SectionSkills, doc.Sections[2].Type)
}

func TestParseJobDescriptionSplitsLinesAndKeywords(t *testing.T) {
	jd := ParseJobDescription(gapJD)
	assert.NotEmpty(t, jd.ID)
	assert.Len(t, jd.Lines, 4)
	assert.Contains(t, jd.KeywordTokens(), "python")
	assert.Contains(t, jd.KeywordTokens(), "kubernetes")
}

func TestAnalyzeFullMatchFromRawText(t *testing.T) {
	eng := newTestEngine()

	result, err := eng.Analyze(context.Background(),
		"Built services using Python and Docker on AWS infra",
		"Looking for a Python engineer with AWS and Docker experience",
		types.ModeKeyword)
	require.NoError(t, err)

	assert.Equal(t, 1.0, result.OverallScore)
	assert.Equal(t, 1.0, result.Coverage)
	assert.Empty(t, result.MissingKeywords)
}

func TestAnalyzeRejectsUnknownMode(t *testing.T) {
	eng := newTestEngine()
	_, err := eng.Analyze(context.Background(), "resume", "jd", "cosmic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cosmic")
}

func TestAnalyzeEmptyModeDefaultsToHybrid(t *testing.T) {
	eng := newTestEngine()
	result, err := eng.Analyze(context.Background(), gapResume, gapJD, "")
	require.NoError(t, err)
	assert.Equal(t, types.ModeHybrid, result.Mode)
}

func TestGapsOrderedByWeight(t *testing.T) {
	eng := newTestEngine()

	report, err := eng.Gaps(context.Background(), gapResume, gapJD, types.ModeKeyword)
	require.NoError(t, err)

	require.Len(t, report.MissingKeywords, 2)
	assert.Equal(t, "docker", report.MissingKeywords[0].Token)
	assert.Equal(t, "kubernetes", report.MissingKeywords[1].Token)
	assert.Greater(t, report.MissingKeywords[0].Weight, report.MissingKeywords[1].Weight)
	assert.Equal(t, 0.5, report.Coverage)
}

func TestRewritePlanTargetsMissingKeywords(t *testing.T) {
	eng := newTestEngine()

	plan, err := eng.RewritePlan(context.Background(), gapResume, gapJD, PlanRequest{
		Section: types.SectionExperience,
		Mode:    types.ModeKeyword,
	})
	require.NoError(t, err)

	assert.Equal(t, types.SectionExperience, plan.Section)
	assert.Equal(t, []string{"docker", "kubernetes"}, plan.PriorityOrder)
	assert.Equal(t, 2, plan.BulletCount)
	// Skills the resume already lists never get slots.
	assert.NotContains(t, plan.TargetKeywordDistribution, "python")
	assert.NotContains(t, plan.TargetKeywordDistribution, "aws")
}

func TestRewritePlanMissingSection(t *testing.T) {
	eng := newTestEngine()

	_, err := eng.RewritePlan(context.Background(), "just a line of text", gapJD, PlanRequest{
		Section: types.SectionEducation,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "education")
}

// stubGenerator returns canned bullets and records the request it saw.
type stubGenerator struct {
	lastReq *rewriting.Request
	bullets []string
	err     error
}

func (g *stubGenerator) Rewrite(_ context.Context, req *rewriting.Request) (*rewriting.Response, error) {
	g.lastReq = req
	if g.err != nil {
		return nil, g.err
	}
	return &rewriting.Response{Bullets: g.bullets}, nil
}

func (g *stubGenerator) Close() error { return nil }

func TestRewriteWithoutGenerator(t *testing.T) {
	eng := newTestEngine()
	_, err := eng.Rewrite(context.Background(), gapResume, gapJD, PlanRequest{})
	assert.ErrorIs(t, err, ErrNoGenerator)
}

func TestRewriteRunsGeneratorAndReviewsOutput(t *testing.T) {
	gen := &stubGenerator{bullets: []string{
		"Built Docker data services using Python on AWS, shipping Docker images daily.",
		"Automated Kubernetes deployments with Python tooling on Kubernetes clusters.",
	}}
	eng := newTestEngine().WithGenerator(gen)

	out, err := eng.Rewrite(context.Background(), gapResume, gapJD, PlanRequest{
		Mode: types.ModeKeyword,
	})
	require.NoError(t, err)

	require.NotNil(t, gen.lastReq)
	assert.Equal(t, types.SectionExperience, gen.lastReq.Section)
	assert.Len(t, gen.lastReq.Bullets, 2)

	assert.Equal(t, gen.bullets, out.Bullets)
	assert.Equal(t, []string{"docker", "kubernetes"}, out.Plan.PriorityOrder)
	require.NotNil(t, out.Review)
	assert.True(t, out.Review.BulletCountKept)
	assert.Empty(t, out.Review.ShortfallKeywords)
}

func TestRewriteWrapsGeneratorFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("model unavailable")}
	eng := newTestEngine().WithGenerator(gen)

	_, err := eng.Rewrite(context.Background(), gapResume, gapJD, PlanRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestSubmitFeedbackAndInsights(t *testing.T) {
	eng := newTestEngine()
	ctx := context.Background()

	for _, ft := range []types.FeedbackType{types.FeedbackAccepted, types.FeedbackRejected} {
		id, err := eng.SubmitFeedback(ctx, types.FeedbackEvent{
			ResumeID:        "resume-1",
			Section:         types.SectionExperience,
			FeedbackType:    ft,
			ConfidenceScore: 0.9,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	}

	now := time.Now().UTC()
	insights, err := eng.Insights(ctx, now.Add(-time.Hour), now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 2, insights.Feedback.Total)
	assert.InDelta(t, 0.5, insights.Feedback.AcceptanceRate, 1e-9)
	// No publisher configured: the default calibration state applies.
	assert.Equal(t, 1, insights.Calibration.ModelVersion)
	assert.Equal(t, types.HybridWeightDefault, insights.Calibration.HybridWeight)
}

func TestSubmitFeedbackRejectsInvalidEvent(t *testing.T) {
	eng := newTestEngine()
	_, err := eng.SubmitFeedback(context.Background(), types.FeedbackEvent{
		ResumeID:        "resume-1",
		Section:         types.SectionExperience,
		FeedbackType:    "shrug",
		ConfidenceScore: 0.5,
	})
	require.Error(t, err)
}
