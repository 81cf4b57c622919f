package formatters

import (
	"context"
	"fmt"
)

type ExperienceFormatter struct {
	completer Completer
	lang      string
}

func NewExperienceFormatter(c Completer, lang string) *ExperienceFormatter {
	return &ExperienceFormatter{completer: c, lang: lang}
}

func (ef *ExperienceFormatter) Format(ctx context.Context, content string, extra map[string]interface{}) (string, error) {
	langName := "English"
	if ef.lang == "ar" {
		langName = "Arabic"
	}

	prompt := fmt.Sprintf(`Rewrite the work-experience description below as CV bullet content.

Rules:
- Output language: %s only.
- Start each line with a strong action verb, quantify impact where the input
  gives numbers, never fabricate numbers that are not in the input.
- Keep each line under 180 characters; separate lines with '\n'.
- Return ONLY: {"enhanced": "<rewritten description>"}

Role context (may include title/company/period): %s

Description:
%s`, langName, marshalExtra(extra), content)

	out, err := ef.completer.Complete(ctx, systemPrompt(ef.lang), prompt)
	if err != nil {
		return "", err
	}
	m, err := ExtractJSON(out)
	if err != nil {
		return "", err
	}
	return enhancedField(m)
}
