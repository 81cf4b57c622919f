package linkedin

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateProfileURL(t *testing.T) {
	valid := []string{
		"https://www.linkedin.com/in/someone",
		"https://linkedin.com/in/someone-else/",
		"https://eg.linkedin.com/in/%D8%A7%D8%B3%D9%85",
	}
	for _, u := range valid {
		assert.NoError(t, ValidateProfileURL(u), u)
	}

	invalid := []string{
		"https://linkedin.com.evil.io/in/someone",
		"https://www.linkedin.com/company/acme",
		"https://example.com/in/someone",
		"ftp://linkedin.com/in/someone",
		"not a url at all ::",
	}
	for _, u := range invalid {
		assert.Error(t, ValidateProfileURL(u), u)
	}
}

const sampleExport = `{
  "profile": {
    "firstName": "Nour",
    "lastName": "Hassan",
    "headline": "Backend Engineer",
    "summary": "Builds Go services.",
    "location": "Cairo, Egypt"
  },
  "email": "nour@example.com",
  "positions": [
    {"title": "Engineer", "companyName": "Acme", "startedOn": "2021", "finishedOn": "", "description": "Built APIs\nLed migrations"},
    {"title": "", "companyName": "Skipped", "startedOn": "2019"}
  ],
  "education": [
    {"schoolName": "Cairo University", "degreeName": "BSc CS", "startedOn": "2015", "finishedOn": "2019"}
  ],
  "skills": ["Go", "PostgreSQL"],
  "languages": [{"name": "Arabic", "proficiency": "Native"}]
}`

func TestExportToDocument(t *testing.T) {
	var e Export
	require.NoError(t, json.Unmarshal([]byte(sampleExport), &e))

	doc, err := e.ToDocument("en")
	require.NoError(t, err)

	assert.Equal(t, "Nour Hassan", doc.Personal.Name)
	assert.Equal(t, "Backend Engineer", doc.Personal.Title)
	assert.Equal(t, "Cairo, Egypt", doc.Personal.Location)

	require.Len(t, doc.Experience, 1) // position without a title is dropped
	assert.Equal(t, "Acme", doc.Experience[0].Company)
	assert.Equal(t, "2021 – Present", doc.Experience[0].Period)
	assert.Equal(t, []string{"Built APIs", "Led migrations"}, doc.Experience[0].Bullets)

	require.Len(t, doc.Education, 1)
	assert.Equal(t, "2015 – 2019", doc.Education[0].Period)

	assert.Equal(t, []string{"Go", "PostgreSQL"}, doc.Skills)
	require.Len(t, doc.Languages, 1)
	assert.Equal(t, "Native", doc.Languages[0].Level)
}

func TestExportToDocumentDefaultsLang(t *testing.T) {
	var e Export
	require.NoError(t, json.Unmarshal([]byte(sampleExport), &e))

	doc, err := e.ToDocument("fr")
	require.NoError(t, err)
	assert.Equal(t, "en", doc.Lang)

	doc, err = e.ToDocument("ar")
	require.NoError(t, err)
	assert.Equal(t, "ar", doc.Lang)
}

func TestExportToDocumentRequiresName(t *testing.T) {
	var e Export
	_, err := e.ToDocument("en")
	assert.ErrorIs(t, err, ErrEmptyExport)
}
