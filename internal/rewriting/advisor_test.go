package rewriting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-aligner/internal/types"
)

func experienceSection(bulletCount int) types.Section {
	sec := types.Section{Type: types.SectionExperience}
	for i := 0; i < bulletCount; i++ {
		sec.Bullets = append(sec.Bullets, types.Bullet{Text: "did a thing"})
	}
	return sec
}

func TestBuildPlanHighestWeightFirst(t *testing.T) {
	missing := []types.Keyword{
		{Token: "kubernetes", Weight: 1},
		{Token: "docker", Weight: 3},
		{Token: "terraform", Weight: 2},
	}

	plan := BuildPlan(experienceSection(3), missing, nil, PlanOptions{})

	require.NotEmpty(t, plan.PriorityOrder)
	assert.Equal(t, "docker", plan.PriorityOrder[0])
	assert.Equal(t, "terraform", plan.PriorityOrder[1])
	assert.GreaterOrEqual(t,
		plan.TargetKeywordDistribution["docker"],
		plan.TargetKeywordDistribution["kubernetes"])
}

func TestBuildPlanRespectsBulletCap(t *testing.T) {
	var missing []types.Keyword
	for _, token := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		missing = append(missing, types.Keyword{Token: token, Weight: 1})
	}

	section := experienceSection(2)
	plan := BuildPlan(section, missing, nil, PlanOptions{MaxPerBullet: 3})

	// Total slots never exceed bullets × cap, and no single keyword is
	// assigned more slots than there are bullets.
	assert.LessOrEqual(t, plan.TotalSlots(), 2*3)
	for token, n := range plan.TargetKeywordDistribution {
		assert.LessOrEqual(t, n, len(section.Bullets), "keyword %s", token)
		assert.GreaterOrEqual(t, n, 1, "keyword %s", token)
	}
}

func TestBuildPlanSkipsPresentSkills(t *testing.T) {
	missing := []types.Keyword{
		{Token: "docker", Weight: 3},
		{Token: "kubernetes", Weight: 1},
	}

	plan := BuildPlan(experienceSection(2), missing, []string{"Docker"}, PlanOptions{})

	assert.NotContains(t, plan.TargetKeywordDistribution, "docker")
	assert.Contains(t, plan.TargetKeywordDistribution, "kubernetes")
}

func TestBuildPlanEmptyInputs(t *testing.T) {
	plan := BuildPlan(experienceSection(0), []types.Keyword{{Token: "go", Weight: 1}}, nil, PlanOptions{})
	assert.Empty(t, plan.TargetKeywordDistribution)
	assert.Empty(t, plan.PriorityOrder)

	plan = BuildPlan(experienceSection(3), nil, nil, PlanOptions{})
	assert.Empty(t, plan.TargetKeywordDistribution)
	assert.Equal(t, DefaultStyle, plan.Style)
	assert.Equal(t, DefaultMaxPerBullet, plan.MaxPerBullet)
}

func TestBuildPlanDeterministic(t *testing.T) {
	missing := []types.Keyword{
		{Token: "docker", Weight: 2},
		{Token: "terraform", Weight: 2},
		{Token: "kubernetes", Weight: 1},
	}

	first := BuildPlan(experienceSection(4), missing, nil, PlanOptions{})
	second := BuildPlan(experienceSection(4), missing, nil, PlanOptions{})

	assert.Equal(t, first, second)
	// Equal weights keep their input order.
	assert.Equal(t, []string{"docker", "terraform", "kubernetes"}, first.PriorityOrder)
}

func TestParseResponseValidatesSchema(t *testing.T) {
	resp, err := ParseResponse(`{"bullets": ["Improved deploys with Docker"]}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Improved deploys with Docker"}, resp.Bullets)

	_, err = ParseResponse(`{"bullets": "not an array"}`)
	assert.Error(t, err)

	_, err = ParseResponse(`{"other": []}`)
	assert.Error(t, err)

	_, err = ParseResponse(`not json at all`)
	assert.Error(t, err)
}

func TestCleanJSONBlock(t *testing.T) {
	assert.Equal(t, `{"a":1}`, CleanJSONBlock("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanJSONBlock("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, CleanJSONBlock(`{"a":1}`))
}
