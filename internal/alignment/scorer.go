// Package alignment scores how well resume content matches a job description
// and identifies the JD keywords the resume is missing.
package alignment

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-aligner/internal/embedding"
	"github.com/jonathan/resume-aligner/internal/types"
)

const (
	// DefaultEmbedTimeout bounds each embedding call. A pair whose vector
	// cannot be computed in time is excluded from the aggregate, never
	// treated as zero.
	DefaultEmbedTimeout = 5 * time.Second

	// DefaultMaxParallel bounds concurrent embedding requests.
	DefaultMaxParallel = 8
)

// CalibrationSource supplies the active calibration snapshot. Implementations
// must return an immutable state: the scorer reads it for the whole pass.
type CalibrationSource interface {
	Active() *types.CalibrationState
}

// Options configures a Scorer.
type Options struct {
	EmbedTimeout time.Duration
	MaxParallel  int
	// DampOutlier drops the single lowest per-line similarity from the
	// semantic aggregate when three or more JD lines scored, so one
	// unmatchable boilerplate line does not sink the score.
	DampOutlier bool
}

// DefaultOptions returns the standard scorer configuration.
func DefaultOptions() Options {
	return Options{
		EmbedTimeout: DefaultEmbedTimeout,
		MaxParallel:  DefaultMaxParallel,
	}
}

// Scorer computes AlignmentResults. It is safe for concurrent use: every
// Analyze call takes its own calibration snapshot and the embedding provider
// and cache are concurrency-safe.
type Scorer struct {
	provider    embedding.Provider
	calibration CalibrationSource
	opts        Options
	logger      *zap.Logger
}

// NewScorer creates a Scorer. provider may be nil, in which case semantic and
// hybrid requests degrade to keyword scoring. calibration may be nil, in
// which case the default hybrid weight applies. logger may be nil.
func NewScorer(provider embedding.Provider, calibration CalibrationSource, opts Options, logger *zap.Logger) *Scorer {
	if opts.EmbedTimeout <= 0 {
		opts.EmbedTimeout = DefaultEmbedTimeout
	}
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = DefaultMaxParallel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{provider: provider, calibration: calibration, opts: opts, logger: logger}
}

// snapshot returns the calibration state for this scoring pass.
func (s *Scorer) snapshot() *types.CalibrationState {
	if s.calibration == nil {
		return types.DefaultCalibrationState()
	}
	if state := s.calibration.Active(); state != nil {
		return state
	}
	return types.DefaultCalibrationState()
}

// Analyze scores doc against jd under the given mode. It never fails for
// input- or backend-level problems: empty input yields a zero-score result
// and a fully unavailable embedding backend yields a keyword-mode result
// flagged degraded.
func (s *Scorer) Analyze(ctx context.Context, doc *types.ResumeDocument, jd *types.JobDescription, mode types.AlignmentMode) *types.AlignmentResult {
	state := s.snapshot()
	result := &types.AlignmentResult{
		ResumeID:         doc.ID,
		JDID:             jd.ID,
		Mode:             mode,
		PerJDLineMatches: []types.LineMatch{},
		MissingKeywords:  []string{},
		ModelVersion:     state.ModelVersion,
		ComputedAt:       time.Now().UTC(),
	}

	bullets := doc.AllBullets()
	kw := scoreKeyword(bullets, jd)
	result.Coverage = types.RoundScore(kw.coverage)

	// Degenerate inputs: no JD lines means nothing to align against.
	if len(jd.Lines) == 0 {
		result.OverallScore = 0
		return result
	}

	switch mode {
	case types.ModeKeyword:
		result.OverallScore = types.RoundScore(kw.coverage)
		result.PerJDLineMatches = kw.lineMatches(jd, bullets)

	case types.ModeSemantic, types.ModeHybrid:
		sem, ok := s.scoreSemantic(ctx, bullets, jd)
		if !ok {
			// Backend entirely unavailable: fall back to keyword scoring
			// but keep the requested mode on the result.
			s.logger.Warn("embedding backend unavailable, using keyword fallback",
				zap.String("mode", string(mode)))
			result.OverallScore = types.RoundScore(kw.coverage)
			result.PerJDLineMatches = kw.lineMatches(jd, bullets)
			result.Degraded = true
			break
		}

		result.Partial = sem.partial
		result.PerJDLineMatches = sem.matches
		if mode == types.ModeSemantic {
			result.OverallScore = types.RoundScore(sem.aggregate(s.opts.DampOutlier))
		} else {
			w := types.ClampHybridWeight(state.HybridWeight)
			score := w*sem.aggregate(s.opts.DampOutlier) + (1-w)*kw.coverage
			result.OverallScore = types.RoundScore(score)
		}

	default:
		// Unknown mode behaves as hybrid-less keyword scoring rather than
		// erroring; the server validates modes before we get here.
		result.OverallScore = types.RoundScore(kw.coverage)
		result.PerJDLineMatches = kw.lineMatches(jd, bullets)
	}

	result.MissingKeywords = s.missingKeywords(ctx, mode, jd, kw, bullets)
	result.Suggestions = buildSuggestions(result, jd)
	return result
}

// semanticResult aggregates the per-line best similarities of one pass.
type semanticResult struct {
	matches []types.LineMatch
	scored  []float64 // best similarity per line that produced a match
	partial bool
}

// aggregate returns the mean of the per-line best similarities, optionally
// dropping the single lowest line. Lines without a usable match contribute
// nothing: excluded, not zero.
func (r *semanticResult) aggregate(dampOutlier bool) float64 {
	vals := r.scored
	if len(vals) == 0 {
		return 0
	}
	if dampOutlier && len(vals) >= 3 {
		low := 0
		for i, v := range vals {
			if v < vals[low] {
				low = i
			}
		}
		trimmed := make([]float64, 0, len(vals)-1)
		trimmed = append(trimmed, vals[:low]...)
		trimmed = append(trimmed, vals[low+1:]...)
		vals = trimmed
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// scoreSemantic embeds every JD line and bullet once, then picks the best
// bullet per line. ok is false when the backend produced no vectors at all.
func (s *Scorer) scoreSemantic(ctx context.Context, bullets []types.SectionBullet, jd *types.JobDescription) (*semanticResult, bool) {
	if s.provider == nil {
		return nil, false
	}

	lineVecs, lineFailures := s.embedAll(ctx, jdLineTexts(jd))
	bulletVecs, bulletFailures := s.embedAll(ctx, bulletTexts(bullets))

	res := &semanticResult{partial: lineFailures > 0 || bulletFailures > 0}

	anyVector := false
	for _, v := range lineVecs {
		if v != nil {
			anyVector = true
			break
		}
	}
	if !anyVector && len(jd.Lines) > 0 {
		return nil, false
	}
	if len(bullets) > 0 {
		anyBullet := false
		for _, v := range bulletVecs {
			if v != nil {
				anyBullet = true
				break
			}
		}
		if !anyBullet {
			return nil, false
		}
	}

	for li := range jd.Lines {
		match := types.LineMatch{JDLineIndex: li, BestBulletIndex: -1}
		if lineVecs[li] == nil {
			// Line excluded from the aggregate entirely.
			res.matches = append(res.matches, match)
			continue
		}

		best := -1.0
		for bi, bullet := range bullets {
			if bulletVecs[bi] == nil {
				continue
			}
			sim := embedding.Similarity(lineVecs[li], bulletVecs[bi])
			if better(sim, bi, best, match.BestBulletIndex, bullets) {
				best = sim
				match.BestBulletIndex = bullet.BulletIndex
			}
		}

		if match.BestBulletIndex >= 0 {
			match.Similarity = types.RoundScore(best)
			res.scored = append(res.scored, best)
		}
		res.matches = append(res.matches, match)
	}

	return res, true
}

// better decides whether candidate bullet bi with similarity sim beats the
// current best. Ties are broken deterministically: earlier section in the
// order summary > experience > skills > other, then longer bullet text.
func better(sim float64, bi int, best float64, bestIdx int, bullets []types.SectionBullet) bool {
	const eps = 1e-9
	if bestIdx < 0 || sim > best+eps {
		return true
	}
	if sim < best-eps {
		return false
	}
	cand, cur := bullets[bi], bullets[indexOf(bullets, bestIdx)]
	if cand.SectionType.MatchPriority() != cur.SectionType.MatchPriority() {
		return cand.SectionType.MatchPriority() < cur.SectionType.MatchPriority()
	}
	return len(cand.Text) > len(cur.Text)
}

// indexOf maps a flattened bullet index back to its slice position.
func indexOf(bullets []types.SectionBullet, bulletIndex int) int {
	for i, b := range bullets {
		if b.BulletIndex == bulletIndex {
			return i
		}
	}
	return 0
}

// embedAll embeds each text with a per-call timeout, at most MaxParallel in
// flight. A failed or timed-out text leaves a nil vector; the count of
// failures is returned so callers can flag the result partial.
func (s *Scorer) embedAll(ctx context.Context, texts []string) ([][]float32, int) {
	vecs := make([][]float32, len(texts))
	failures := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.MaxParallel)

	results := make([]error, len(texts))
	for i, text := range texts {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, s.opts.EmbedTimeout)
			defer cancel()

			vec, err := s.provider.Embed(callCtx, text)
			if err != nil {
				results[i] = err
				return nil // absorb per-pair failures
			}
			vecs[i] = vec
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors; failures are per-slot

	for i, err := range results {
		if err != nil {
			failures++
			s.logger.Debug("embedding failed, pair excluded",
				zap.Int("index", i), zap.Error(err))
		}
	}
	return vecs, failures
}

func jdLineTexts(jd *types.JobDescription) []string {
	out := make([]string, len(jd.Lines))
	for i, l := range jd.Lines {
		out[i] = l.Text
	}
	return out
}

func bulletTexts(bullets []types.SectionBullet) []string {
	out := make([]string, len(bullets))
	for i, b := range bullets {
		out[i] = b.Text
	}
	return out
}
