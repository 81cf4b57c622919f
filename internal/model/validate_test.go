package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDoc() map[string]interface{} {
	return map[string]interface{}{
		"lang": "en",
		"personal": map[string]interface{}{
			"name":  "Nour Hassan",
			"email": "nour@example.com",
		},
		"experience": []interface{}{
			map[string]interface{}{"title": "Engineer", "company": "Acme"},
		},
		"skills": []interface{}{"Go"},
	}
}

func TestValidateMapAcceptsValidDocument(t *testing.T) {
	assert.NoError(t, ValidateMap(validDoc()))
}

func TestValidateMapRejectsMissingName(t *testing.T) {
	doc := validDoc()
	doc["personal"] = map[string]interface{}{"email": "x@x.com"}
	assert.Error(t, ValidateMap(doc))
}

func TestValidateMapRejectsBadLang(t *testing.T) {
	doc := validDoc()
	doc["lang"] = "fr"
	assert.Error(t, ValidateMap(doc))
}

func TestValidateMapRejectsExperienceWithoutCompany(t *testing.T) {
	doc := validDoc()
	doc["experience"] = []interface{}{
		map[string]interface{}{"title": "Engineer"},
	}
	assert.Error(t, ValidateMap(doc))
}

func TestValidateMapAcceptsArabicDocument(t *testing.T) {
	doc := map[string]interface{}{
		"lang": "ar",
		"personal": map[string]interface{}{
			"name":    "نور حسن",
			"summary": "مهندسة برمجيات متخصصة في أنظمة الدفع.",
		},
	}
	assert.NoError(t, ValidateMap(doc))
}

func TestToMapRoundTrip(t *testing.T) {
	d := &Document{
		Lang:     "en",
		Personal: Personal{Name: "Nour Hassan", Title: "Engineer"},
		Skills:   []string{"Go"},
	}
	m, err := ToMap(d)
	require.NoError(t, err)
	assert.NoError(t, ValidateMap(m))
	assert.Equal(t, "en", m["lang"])
}
