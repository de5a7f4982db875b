package schemaorg

import (
	"testing"

	"github.com/jonathan/job-tailor/internal/page"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageWithJSONLD(t *testing.T, blocks ...string) *page.Page {
	t.Helper()
	html := "<html><head>"
	for _, block := range blocks {
		html += `<script type="application/ld+json">` + block + `</script>`
	}
	html += "</head><body></body></html>"
	p, err := page.New(html, "")
	require.NoError(t, err)
	return p
}

func TestExtract_FlatJobPosting(t *testing.T) {
	p := pageWithJSONLD(t, `{
		"@context": "https://schema.org",
		"@type": "JobPosting",
		"title": "Backend Engineer",
		"hiringOrganization": {"@type": "Organization", "name": "Acme"},
		"description": "<p>Build APIs.</p><ul><li>Go</li><li>Postgres</li></ul>",
		"jobLocation": {"address": {"addressLocality": "Berlin", "addressCountry": "DE"}},
		"employmentType": "FULL_TIME",
		"jobLocationType": "TELECOMMUTE"
	}`)

	record := Extract(p)
	require.NotNil(t, record)
	assert.Equal(t, "Backend Engineer", record.Title)
	assert.Equal(t, "Acme", record.Company)
	assert.Contains(t, record.Description, "Build APIs.")
	assert.Contains(t, record.Description, "Go")
	assert.NotContains(t, record.Description, "<p>")
	assert.Equal(t, "Berlin, DE", record.Location)
	assert.Equal(t, []string{"FULL_TIME"}, record.EmploymentType)
	assert.True(t, record.Remote)
}

func TestExtract_GraphNesting(t *testing.T) {
	p := pageWithJSONLD(t, `{
		"@context": "https://schema.org",
		"@graph": [
			{"@type": "WebSite", "name": "Jobs Board"},
			{"@type": ["ListItem", "JobPosting"], "title": "Data Engineer", "description": "ETL pipelines."}
		]
	}`)

	record := Extract(p)
	require.NotNil(t, record)
	assert.Equal(t, "Data Engineer", record.Title)
	assert.Equal(t, "ETL pipelines.", record.Description)
}

func TestExtract_ArrayTopLevel(t *testing.T) {
	p := pageWithJSONLD(t, `[
		{"@type": "BreadcrumbList"},
		{"@type": "JobPosting", "title": "SRE", "description": "Keep it up."}
	]`)

	record := Extract(p)
	require.NotNil(t, record)
	assert.Equal(t, "SRE", record.Title)
}

func TestExtract_SkipsMalformedBlocks(t *testing.T) {
	p := pageWithJSONLD(t,
		`{not valid json`,
		`{"@type": "JobPosting", "title": "Platform Engineer", "description": "Second block wins."}`,
	)

	record := Extract(p)
	require.NotNil(t, record)
	assert.Equal(t, "Platform Engineer", record.Title)
}

func TestExtract_NoJobPosting(t *testing.T) {
	p := pageWithJSONLD(t, `{"@type": "Article", "headline": "News"}`)
	assert.Nil(t, Extract(p))
}

func TestExtract_SalaryRange(t *testing.T) {
	p := pageWithJSONLD(t, `{
		"@type": "JobPosting",
		"title": "Engineer",
		"description": "Pays well.",
		"baseSalary": {
			"@type": "MonetaryAmount",
			"currency": "USD",
			"value": {"@type": "QuantitativeValue", "minValue": 120000, "maxValue": 160000}
		}
	}`)

	record := Extract(p)
	require.NotNil(t, record)
	require.NotNil(t, record.Salary)
	assert.Equal(t, "USD", record.Salary.Currency)
	assert.Equal(t, float64(120000), record.Salary.MinValue)
	assert.Equal(t, float64(160000), record.Salary.MaxValue)
}

func TestExtract_FlatSalaryValue(t *testing.T) {
	p := pageWithJSONLD(t, `{
		"@type": "JobPosting",
		"title": "Engineer",
		"description": "x",
		"baseSalary": {"currency": "EUR", "value": 90000}
	}`)

	record := Extract(p)
	require.NotNil(t, record)
	require.NotNil(t, record.Salary)
	assert.Equal(t, float64(90000), record.Salary.MinValue)
	assert.Equal(t, float64(90000), record.Salary.MaxValue)
}

func TestExtract_ExperienceMonths(t *testing.T) {
	p := pageWithJSONLD(t, `{
		"@type": "JobPosting",
		"title": "Engineer",
		"description": "x",
		"experienceRequirements": {"@type": "OccupationalExperienceRequirements", "monthsOfExperience": 36}
	}`)

	record := Extract(p)
	require.NotNil(t, record)
	assert.Equal(t, "3+ years", record.ExperienceRequired)
}

func TestExtract_HiringOrganizationAsString(t *testing.T) {
	p := pageWithJSONLD(t, `{"@type": "JobPosting", "title": "Engineer", "description": "x", "hiringOrganization": "Initech"}`)

	record := Extract(p)
	require.NotNil(t, record)
	assert.Equal(t, "Initech", record.Company)
}

func TestExtract_CommaSeparatedSkills(t *testing.T) {
	p := pageWithJSONLD(t, `{"@type": "JobPosting", "title": "Engineer", "description": "x", "skills": "Go, Kubernetes , Terraform"}`)

	record := Extract(p)
	require.NotNil(t, record)
	assert.Equal(t, []string{"Go", "Kubernetes", "Terraform"}, record.Skills)
}

func TestExtract_MultipleLocations(t *testing.T) {
	p := pageWithJSONLD(t, `{
		"@type": "JobPosting",
		"title": "Engineer",
		"description": "x",
		"jobLocation": [
			{"address": {"addressLocality": "NYC"}},
			{"address": {"addressLocality": "SF", "addressRegion": "CA"}}
		]
	}`)

	record := Extract(p)
	require.NotNil(t, record)
	assert.Equal(t, "NYC | SF, CA", record.Location)
}
