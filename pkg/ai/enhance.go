package ai

import (
	"context"
	"fmt"

	"github.com/nasreldeenmohamed/sera-pro-server/pkg/ai/formatters"
)

// Enhancement sections accepted by Enhance.
const (
	SectionSummary    = "summary"
	SectionExperience = "experience"
	SectionSkills     = "skills"
)

// Sources reported back to the caller.
const (
	SourceAI   = "ai"
	SourceStub = "stub"
)

// Enhance rewrites content for the given section. When the client is
// disabled, or the model call fails, it falls back to the deterministic
// stub so the endpoint always answers (the caller sees which via source).
func (c *Client) Enhance(ctx context.Context, section, content, lang string, extra map[string]interface{}) (enhanced, source string, err error) {
	var f formatters.Formatter
	switch section {
	case SectionSummary:
		f = c.NewSummaryFormatter(lang)
	case SectionExperience:
		f = c.NewExperienceFormatter(lang)
	case SectionSkills:
		f = c.NewSkillsFormatter(lang)
	default:
		return "", "", fmt.Errorf("unknown section %q", section)
	}

	if !c.enabled {
		return StubEnhance(section, content, lang), SourceStub, nil
	}

	out, ferr := f.Format(ctx, content, extra)
	if ferr != nil {
		return StubEnhance(section, content, lang), SourceStub, nil
	}
	return out, SourceAI, nil
}
