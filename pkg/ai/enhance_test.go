package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnhanceDisabledFallsBackToStub(t *testing.T) {
	c := NewClient("", "")

	out, source, err := c.Enhance(context.Background(), SectionSummary, "built  backend   services", "en", nil)
	require.NoError(t, err)
	assert.Equal(t, SourceStub, source)
	assert.Equal(t, "built backend services.", out)
}

func TestEnhanceUnknownSection(t *testing.T) {
	c := NewClient("", "")

	_, _, err := c.Enhance(context.Background(), "hobbies", "chess", "en", nil)
	assert.Error(t, err)
}

func TestStubEnhanceSkillsDedupe(t *testing.T) {
	out := StubEnhance(SectionSkills, "Go, go, SQL, , Docker, sql", "en")
	assert.Equal(t, "Go, SQL, Docker", out)
}

func TestStubEnhanceEmptyContent(t *testing.T) {
	assert.Equal(t, "Add a short description of your experience and skills here.",
		StubEnhance(SectionSummary, "   ", "en"))
	assert.Equal(t, "أضف وصفاً موجزاً لخبراتك ومهاراتك هنا.",
		StubEnhance(SectionSummary, "", "ar"))
}

func TestStubEnhanceKeepsExistingPeriod(t *testing.T) {
	assert.Equal(t, "Shipped the billing service.",
		StubEnhance(SectionExperience, "Shipped the billing service.", "en"))
}
