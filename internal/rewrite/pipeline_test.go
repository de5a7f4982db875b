package rewrite

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validAnalysisJSON satisfies the analysis schema.
const validAnalysisJSON = `{
	"hard_skills": ["Go", "PostgreSQL"],
	"soft_skills": ["communication"],
	"tools_technologies": ["Docker"],
	"role_expectations": ["own services end to end"],
	"seniority_indicators": ["senior"],
	"keyword_priorities": {
		"must_have": ["Go"],
		"nice_to_have": ["Kubernetes"],
		"industry_terms": ["fintech"]
	},
	"years_experience": "5+",
	"education_requirements": ["BSc or equivalent"]
}`

// scriptedClient returns one canned response per call, in order.
type scriptedClient struct {
	responses []string
	errs      []error
	calls     int
	opts      []llm.Options
	prompts   []string
}

func (s *scriptedClient) Generate(_ context.Context, prompt string, opts llm.Options) (*llm.Result, error) {
	i := s.calls
	s.calls++
	s.opts = append(s.opts, opts)
	s.prompts = append(s.prompts, prompt)
	if i < len(s.errs) && s.errs[i] != nil {
		return nil, s.errs[i]
	}
	return &llm.Result{Content: s.responses[i]}, nil
}

func (s *scriptedClient) Close() error { return nil }

func testMaster() *types.MasterResume {
	return &types.MasterResume{
		Name:  "Jordan Example",
		Email: "jordan@example.com",
		Experience: []types.Experience{
			{Title: "Engineer", Company: "Acme", Dates: "2021-2024", Bullets: []string{"Shipped things"}},
		},
		Skills: types.SkillList{"Go"},
	}
}

func TestAnalyzeJD(t *testing.T) {
	client := &scriptedClient{responses: []string{validAnalysisJSON}}

	analysis, err := AnalyzeJD(context.Background(), client, "We need a senior Go engineer.")
	require.NoError(t, err)

	assert.Equal(t, []string{"Go", "PostgreSQL"}, analysis.HardSkills)
	assert.Equal(t, []string{"Go"}, analysis.KeywordPriorities.MustHave)
	assert.Equal(t, "5+", analysis.YearsExperience)

	require.Len(t, client.opts, 1)
	assert.True(t, client.opts[0].ForceJSON)
	require.NotNil(t, client.opts[0].Temperature)
	assert.InDelta(t, 0.1, float64(*client.opts[0].Temperature), 0.001)
	assert.Contains(t, client.prompts[0], "We need a senior Go engineer.")
}

func TestAnalyzeJD_FencedResponse(t *testing.T) {
	client := &scriptedClient{responses: []string{"```json\n" + validAnalysisJSON + "\n```"}}

	analysis, err := AnalyzeJD(context.Background(), client, "jd")
	require.NoError(t, err)
	assert.NotEmpty(t, analysis.HardSkills)
}

func TestAnalyzeJD_NoJSONIsParseError(t *testing.T) {
	client := &scriptedClient{responses: []string{"I am unable to analyze this."}}

	_, err := AnalyzeJD(context.Background(), client, "jd")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "analyze", parseErr.Pass)
	assert.ErrorIs(t, err, llm.ErrNoJSON)
}

func TestAnalyzeJD_SchemaViolationIsParseError(t *testing.T) {
	// Missing the required keyword_priorities object.
	client := &scriptedClient{responses: []string{`{"hard_skills": [], "soft_skills": [], "tools_technologies": [], "role_expectations": [], "seniority_indicators": []}`}}

	_, err := AnalyzeJD(context.Background(), client, "jd")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "analyze", parseErr.Pass)
}

func TestAnalyzeJD_ProviderErrorIsAPICallError(t *testing.T) {
	cause := errors.New("rate limited")
	client := &scriptedClient{responses: []string{""}, errs: []error{cause}}

	_, err := AnalyzeJD(context.Background(), client, "jd")
	var apiErr *APICallError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "analyze", apiErr.Pass)
	assert.ErrorIs(t, err, cause)
}

func TestRewriteResume(t *testing.T) {
	client := &scriptedClient{responses: []string{"JORDAN EXAMPLE\n\nEXPERIENCE\n..."}}
	var analysis types.JDAnalysis
	require.NoError(t, jsonUnmarshal(validAnalysisJSON, &analysis))

	text, err := RewriteResume(context.Background(), client, testMaster(), &analysis, "Staff Engineer", "Acme")
	require.NoError(t, err)
	assert.Contains(t, text, "JORDAN EXAMPLE")

	// The prompt carries the flattened resume, analysis, and role context.
	assert.Contains(t, client.prompts[0], "Jordan Example")
	assert.Contains(t, client.prompts[0], "Staff Engineer")
	assert.Contains(t, client.prompts[0], "PostgreSQL")
	require.NotNil(t, client.opts[0].Temperature)
	assert.InDelta(t, 0.2, float64(*client.opts[0].Temperature), 0.001)
	assert.False(t, client.opts[0].ForceJSON)
}

func TestRewriteResume_TitleCompanyFallbacks(t *testing.T) {
	client := &scriptedClient{responses: []string{"resume text"}}
	var analysis types.JDAnalysis
	require.NoError(t, jsonUnmarshal(validAnalysisJSON, &analysis))

	_, err := RewriteResume(context.Background(), client, testMaster(), &analysis, "", "")
	require.NoError(t, err)
	assert.Contains(t, client.prompts[0], "the advertised role")
	assert.Contains(t, client.prompts[0], "the hiring company")
}

func TestRewriteResume_EmptyOutputIsParseError(t *testing.T) {
	client := &scriptedClient{responses: []string{"   \n  "}}
	var analysis types.JDAnalysis
	require.NoError(t, jsonUnmarshal(validAnalysisJSON, &analysis))

	_, err := RewriteResume(context.Background(), client, testMaster(), &analysis, "t", "c")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "rewrite", parseErr.Pass)
}

func TestOptimize_SequentialPasses(t *testing.T) {
	client := &scriptedClient{responses: []string{validAnalysisJSON, "rewritten resume"}}

	result, err := Optimize(context.Background(), client, testMaster(), "jd text", "Engineer", "Acme")
	require.NoError(t, err)

	assert.Equal(t, 2, client.calls)
	assert.Equal(t, "rewritten resume", result.ResumeText)
	require.NotNil(t, result.Analysis)
	assert.Equal(t, []string{"Go"}, result.Analysis.KeywordPriorities.MustHave)

	// Pass 2's prompt embeds pass 1's output.
	assert.Contains(t, client.prompts[1], "PostgreSQL")
}

func TestOptimize_FirstPassFailureAbortsPipeline(t *testing.T) {
	client := &scriptedClient{responses: []string{"not json", ""}}

	_, err := Optimize(context.Background(), client, testMaster(), "jd", "", "")
	require.Error(t, err)
	assert.Equal(t, 1, client.calls)
}

func jsonUnmarshal(data string, v any) error {
	return json.Unmarshal([]byte(data), v)
}
