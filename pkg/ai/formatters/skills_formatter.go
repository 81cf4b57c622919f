package formatters

import (
	"context"
	"fmt"
)

type SkillsFormatter struct {
	completer Completer
	lang      string
}

func NewSkillsFormatter(c Completer, lang string) *SkillsFormatter {
	return &SkillsFormatter{completer: c, lang: lang}
}

func (kf *SkillsFormatter) Format(ctx context.Context, content string, extra map[string]interface{}) (string, error) {
	langName := "English"
	if kf.lang == "ar" {
		langName = "Arabic"
	}

	prompt := fmt.Sprintf(`Clean up the skills list below for a CV.

Rules:
- Output language: %s (keep technology names like "PostgreSQL" as-is).
- Deduplicate, normalize casing, order from strongest/most specific first.
- Comma-separated single line, at most 20 skills.
- Return ONLY: {"enhanced": "<skill, skill, ...>"}

Candidate context (may be empty): %s

Skills:
%s`, langName, marshalExtra(extra), content)

	out, err := kf.completer.Complete(ctx, systemPrompt(kf.lang), prompt)
	if err != nil {
		return "", err
	}
	m, err := ExtractJSON(out)
	if err != nil {
		return "", err
	}
	return enhancedField(m)
}
