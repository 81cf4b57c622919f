package formatters

import (
	"context"
	"fmt"
)

type SummaryFormatter struct {
	completer Completer
	lang      string
}

func NewSummaryFormatter(c Completer, lang string) *SummaryFormatter {
	return &SummaryFormatter{completer: c, lang: lang}
}

func (sf *SummaryFormatter) Format(ctx context.Context, content string, extra map[string]interface{}) (string, error) {
	langName := "English"
	if sf.lang == "ar" {
		langName = "Arabic"
	}

	prompt := fmt.Sprintf(`Rewrite the professional summary below for a CV.

Rules:
- Output language: %s. Every word must be in %s.
- First person implied, no "I am" openings, no pronouns.
- 2-4 sentences, 150-400 characters, concrete and achievement-oriented.
- Do not invent employers, dates, or credentials that are not in the input.
- Return ONLY: {"enhanced": "<rewritten summary>"}

Candidate context (may be empty): %s

Summary:
%s`, langName, langName, marshalExtra(extra), content)

	out, err := sf.completer.Complete(ctx, systemPrompt(sf.lang), prompt)
	if err != nil {
		return "", err
	}
	m, err := ExtractJSON(out)
	if err != nil {
		return "", err
	}
	return enhancedField(m)
}
