package ai

import "strings"

// StubEnhance is the no-key fallback: a deterministic cleanup that never
// invents content. It normalizes whitespace, dedupes skills, and supplies a
// bilingual placeholder when the input is empty.
func StubEnhance(section, content, lang string) string {
	content = collapseWhitespace(content)

	if content == "" {
		if lang == "ar" {
			return "أضف وصفاً موجزاً لخبراتك ومهاراتك هنا."
		}
		return "Add a short description of your experience and skills here."
	}

	switch section {
	case SectionSkills:
		seen := map[string]bool{}
		out := []string{}
		for _, s := range strings.Split(content, ",") {
			s = strings.TrimSpace(s)
			if s == "" {
				continue
			}
			key := strings.ToLower(s)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, s)
		}
		return strings.Join(out, ", ")
	case SectionSummary, SectionExperience:
		if !strings.HasSuffix(content, ".") && !strings.HasSuffix(content, "۔") {
			content += "."
		}
		return content
	default:
		return content
	}
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
