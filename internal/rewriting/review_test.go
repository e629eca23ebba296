package rewriting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-aligner/internal/types"
)

func reviewRequest(bullets []string, distribution map[string]int, priority []string, maxPerBullet int) *Request {
	return &Request{
		Section: types.SectionExperience,
		Bullets: bullets,
		Plan: &Plan{
			Section:                   types.SectionExperience,
			TargetKeywordDistribution: distribution,
			PriorityOrder:             priority,
			Style:                     DefaultStyle,
			MaxPerBullet:              maxPerBullet,
			BulletCount:               len(bullets),
		},
	}
}

func TestReviewResponse_CleanWhenPlanFollowed(t *testing.T) {
	req := reviewRequest(
		[]string{
			"Built internal services handling production traffic",
			"Improved deploy tooling used across three teams",
		},
		map[string]int{"docker": 1, "kubernetes": 1},
		[]string{"docker", "kubernetes"},
		2,
	)
	resp := &Response{Bullets: []string{
		"Built internal services on docker handling production traffic",
		"Improved kubernetes deploy tooling used across three teams",
	}}

	result := ReviewResponse(req, resp)

	assert.True(t, result.Clean())
	assert.True(t, result.BulletCountKept)
	assert.True(t, result.LengthKept)
	assert.Empty(t, result.ShortfallKeywords)
}

func TestReviewResponse_FlagsShortfallInPriorityOrder(t *testing.T) {
	req := reviewRequest(
		[]string{"Built internal services handling production traffic"},
		map[string]int{"docker": 2, "kubernetes": 1},
		[]string{"docker", "kubernetes"},
		3,
	)
	resp := &Response{Bullets: []string{
		"Built internal services on docker handling production traffic",
	}}

	result := ReviewResponse(req, resp)

	assert.Equal(t, []string{"docker", "kubernetes"}, result.ShortfallKeywords)
	assert.False(t, result.Clean())
}

func TestReviewResponse_FlagsOverloadedBullet(t *testing.T) {
	req := reviewRequest(
		[]string{"Built internal services handling production traffic"},
		map[string]int{"docker": 1, "kubernetes": 1, "terraform": 1},
		[]string{"docker", "kubernetes", "terraform"},
		2,
	)
	resp := &Response{Bullets: []string{
		"Built internal services with docker, kubernetes and terraform handling production traffic",
	}}

	result := ReviewResponse(req, resp)

	assert.Equal(t, []int{0}, result.OverloadedBullets)
}

func TestReviewResponse_DoesNotCountPreexistingKeywordsAsNew(t *testing.T) {
	req := reviewRequest(
		[]string{"Built docker images for internal services in production"},
		map[string]int{"docker": 1, "kubernetes": 1, "terraform": 1},
		[]string{"docker", "kubernetes", "terraform"},
		2,
	)
	// docker was already in the original bullet, so only kubernetes and
	// terraform count against the per-bullet cap.
	resp := &Response{Bullets: []string{
		"Built docker images deployed to kubernetes with terraform in production",
	}}

	result := ReviewResponse(req, resp)

	assert.Empty(t, result.OverloadedBullets)
	assert.Empty(t, result.ShortfallKeywords)
}

func TestReviewResponse_FlagsWeakBullets(t *testing.T) {
	req := reviewRequest(
		[]string{"Responsible for various tasks on the platform team"},
		map[string]int{},
		nil,
		3,
	)
	resp := &Response{Bullets: []string{
		"Responsible for various tasks on the platform team",
	}}

	result := ReviewResponse(req, resp)

	assert.Equal(t, []int{0}, result.WeakBullets)
}

func TestReviewResponse_FlagsBulletCountAndLengthDrift(t *testing.T) {
	req := reviewRequest(
		[]string{
			"Built internal services handling production traffic",
			"Improved deploy tooling used across three teams",
		},
		map[string]int{},
		nil,
		3,
	)
	resp := &Response{Bullets: []string{"Shipped."}}

	result := ReviewResponse(req, resp)

	assert.False(t, result.BulletCountKept)
	assert.False(t, result.LengthKept)
	assert.False(t, result.Clean())
}
