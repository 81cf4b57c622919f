// Package linkedin turns profile data a user brings with them — a LinkedIn
// data-export JSON or a resume PDF — into the CV document shape. Live
// scraping of profile URLs is deliberately unsupported; ValidateProfileURL
// only sanity-checks the URL so the handler can point the user at the
// manual upload path.
package linkedin

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/ledongthuc/pdf"
	"golang.org/x/net/publicsuffix"

	"github.com/nasreldeenmohamed/sera-pro-server/internal/model"
)

var (
	ErrNotLinkedIn = errors.New("not a linkedin.com profile URL")
	ErrEmptyExport = errors.New("export contains no profile data")
)

// ValidateProfileURL checks that raw is an https linkedin.com URL with a
// /in/ profile path. The eTLD+1 check covers regional subdomains
// (eg.linkedin.com, www.linkedin.com).
func ValidateProfileURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return ErrNotLinkedIn
	}
	host := u.Hostname()
	etld, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil || etld != "linkedin.com" {
		return ErrNotLinkedIn
	}
	if !strings.HasPrefix(u.Path, "/in/") {
		return ErrNotLinkedIn
	}
	return nil
}

// Export mirrors the slice of a LinkedIn data export we care about.
type Export struct {
	Profile struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Headline  string `json:"headline"`
		Summary   string `json:"summary"`
		Location  string `json:"location"`
	} `json:"profile"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Positions []struct {
		Title       string `json:"title"`
		CompanyName string `json:"companyName"`
		StartedOn   string `json:"startedOn"`
		FinishedOn  string `json:"finishedOn"`
		Description string `json:"description"`
	} `json:"positions"`
	Education []struct {
		SchoolName string `json:"schoolName"`
		DegreeName string `json:"degreeName"`
		StartedOn  string `json:"startedOn"`
		FinishedOn string `json:"finishedOn"`
	} `json:"education"`
	Skills    []string `json:"skills"`
	Languages []struct {
		Name        string `json:"name"`
		Proficiency string `json:"proficiency"`
	} `json:"languages"`
}

// ToDocument converts a parsed export into the CV document. lang only sets
// the document language; the exported text is carried over verbatim.
func (e *Export) ToDocument(lang string) (*model.Document, error) {
	name := strings.TrimSpace(e.Profile.FirstName + " " + e.Profile.LastName)
	if name == "" {
		return nil, ErrEmptyExport
	}
	if lang != "ar" {
		lang = "en"
	}

	doc := &model.Document{
		Lang: lang,
		Personal: model.Personal{
			Name:     name,
			Title:    e.Profile.Headline,
			Email:    e.Email,
			Phone:    e.Phone,
			Location: e.Profile.Location,
			Summary:  e.Profile.Summary,
		},
		Skills: e.Skills,
	}

	for _, p := range e.Positions {
		if p.Title == "" || p.CompanyName == "" {
			continue
		}
		exp := model.Experience{
			Title:   p.Title,
			Company: p.CompanyName,
			Period:  period(p.StartedOn, p.FinishedOn),
		}
		for _, line := range strings.Split(p.Description, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				exp.Bullets = append(exp.Bullets, line)
			}
		}
		doc.Experience = append(doc.Experience, exp)
	}

	for _, ed := range e.Education {
		if ed.SchoolName == "" {
			continue
		}
		doc.Education = append(doc.Education, model.Education{
			School: ed.SchoolName,
			Degree: ed.DegreeName,
			Period: period(ed.StartedOn, ed.FinishedOn),
		})
	}

	for _, l := range e.Languages {
		if l.Name == "" {
			continue
		}
		doc.Languages = append(doc.Languages, model.Language{Name: l.Name, Level: l.Proficiency})
	}

	return doc, nil
}

func period(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start + " – Present"
	case start == "":
		return end
	default:
		return start + " – " + end
	}
}

// ExtractPDFText pulls plain text out of an uploaded resume PDF.
func ExtractPDFText(r io.ReaderAt, size int64) (string, error) {
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", errors.New("pdf contains no extractable text")
	}
	return out, nil
}
