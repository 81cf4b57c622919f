package ai

import (
	"context"
	"fmt"

	"github.com/nasreldeenmohamed/sera-pro-server/pkg/ai/formatters"
)

const maxExtractChars = 12000

// ExtractDocument structures raw CV text (from a PDF upload) into the CV
// document shape. The caller validates the result against the schema.
func (c *Client) ExtractDocument(ctx context.Context, text, lang string) (map[string]interface{}, error) {
	if !c.enabled {
		return nil, ErrDisabled
	}
	if len(text) > maxExtractChars {
		text = text[:maxExtractChars]
	}

	prompt := fmt.Sprintf(`Extract a structured CV from the resume text below.

Return ONLY a single JSON object with exactly this shape:
{
  "lang": "%s",
  "personal": {"name": "", "title": "", "email": "", "phone": "", "location": "", "summary": ""},
  "experience": [{"title": "", "company": "", "period": "", "bullets": [""]}],
  "education": [{"school": "", "degree": "", "period": ""}],
  "skills": [""],
  "languages": [{"name": "", "level": ""}]
}

Rules:
- Use empty strings / empty arrays for anything not present in the text.
- Do not invent facts. Keep dates exactly as written.
- No commentary, no markdown, no code fences.

Resume text:
%s`, lang, text)

	out, err := c.Complete(ctx, systemExtract, prompt)
	if err != nil {
		return nil, err
	}
	doc, err := formatters.ExtractJSON(out)
	if err != nil {
		return nil, err
	}
	if doc["lang"] == nil || doc["lang"] == "" {
		doc["lang"] = lang
	}
	return doc, nil
}

const systemExtract = "You are a resume parsing system. Return ONLY valid JSON matching the requested shape, nothing else."
