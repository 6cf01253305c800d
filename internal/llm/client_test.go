package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobvault/pkg/utils"
)

type fakeProvider struct {
	response   string
	err        error
	lastPrompt string
}

func (f *fakeProvider) Complete(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeProvider) Name() string { return "fake" }

const validExtractJSON = `{
  "title": "Senior Backend Engineer",
  "company": "Acme Corp",
  "team_division": "Platform",
  "salary_min": 150000,
  "salary_max": 200000,
  "salary_currency": "USD",
  "required_skills": ["Go", "PostgreSQL"],
  "preferred_skills": ["Kubernetes"]
}`

func TestDenoise(t *testing.T) {
	p := &fakeProvider{response: "# Senior Backend Engineer\n\nAcme Corp\n"}
	c := NewClient(p, time.Minute)

	md, err := c.Denoise(context.Background(), "raw page text here")
	require.NoError(t, err)
	assert.Equal(t, "# Senior Backend Engineer\n\nAcme Corp", md)
	assert.Contains(t, p.lastPrompt, "raw page text here")
	assert.Contains(t, p.lastPrompt, "well-structured Markdown")
}

func TestDenoiseTransportError(t *testing.T) {
	p := &fakeProvider{err: errors.New("connection refused")}
	c := NewClient(p, time.Minute)

	_, err := c.Denoise(context.Background(), "text")
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindLLMTransport))
}

func TestExtractJobData(t *testing.T) {
	p := &fakeProvider{response: validExtractJSON}
	c := NewClient(p, time.Minute)

	data, err := c.ExtractJobData(context.Background(), "# Job posting")
	require.NoError(t, err)
	assert.Equal(t, "Senior Backend Engineer", data.Title)
	assert.Equal(t, "Acme Corp", data.Company)
	require.NotNil(t, data.TeamDivision)
	assert.Equal(t, "Platform", *data.TeamDivision)
	require.NotNil(t, data.SalaryMin)
	assert.Equal(t, 150000, *data.SalaryMin)
	assert.Equal(t, []string{"Go", "PostgreSQL"}, data.RequiredSkills)
	assert.Equal(t, []string{"Kubernetes"}, data.PreferredSkills)
}

func TestExtractJobDataStripsCodeFences(t *testing.T) {
	for _, wrapped := range []string{
		"```json\n" + validExtractJSON + "\n```",
		"```\n" + validExtractJSON + "\n```",
	} {
		p := &fakeProvider{response: wrapped}
		c := NewClient(p, time.Minute)

		data, err := c.ExtractJobData(context.Background(), "# Job")
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", data.Company)
	}
}

func TestExtractJobDataNullSalary(t *testing.T) {
	response := strings.NewReplacer(
		`"salary_min": 150000`, `"salary_min": null`,
		`"salary_max": 200000`, `"salary_max": null`,
		`"team_division": "Platform"`, `"team_division": null`,
	).Replace(validExtractJSON)

	p := &fakeProvider{response: response}
	c := NewClient(p, time.Minute)

	data, err := c.ExtractJobData(context.Background(), "# Job")
	require.NoError(t, err)
	assert.Nil(t, data.SalaryMin)
	assert.Nil(t, data.SalaryMax)
	assert.Nil(t, data.TeamDivision)
}

func TestExtractJobDataInvalidJSON(t *testing.T) {
	p := &fakeProvider{response: "Sure! Here is the data you asked for."}
	c := NewClient(p, time.Minute)

	_, err := c.ExtractJobData(context.Background(), "# Job")
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindLLMOutput))
}

func TestExtractJobDataMissingField(t *testing.T) {
	p := &fakeProvider{response: `{"title": "Engineer", "company": "Acme", "required_skills": []}`}
	c := NewClient(p, time.Minute)

	_, err := c.ExtractJobData(context.Background(), "# Job")
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindLLMOutput))
	assert.Contains(t, err.Error(), "preferred_skills")
}

func TestExtractJobDataTransportError(t *testing.T) {
	p := &fakeProvider{err: errors.New("timeout")}
	c := NewClient(p, time.Minute)

	_, err := c.ExtractJobData(context.Background(), "# Job")
	require.Error(t, err)
	assert.True(t, utils.IsKind(err, utils.KindLLMTransport))
}

func TestStripCodeFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFences(`{"a":1}`))
	assert.Equal(t, `{"a":1}`, stripCodeFences("  {\"a\":1}  "))
}
