package usecase

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nasreldeenmohamed/sera-pro-server/internal/domain"
)

// Renderer turns a self-contained HTML page into PDF bytes.
type Renderer interface {
	RenderHTMLToPDF(ctx context.Context, html string) ([]byte, error)
}

// Exporter renders a CV document to HTML and prints it to PDF. The HTML
// artifact is persisted alongside the PDF so a failed print still leaves
// something recoverable.
type Exporter struct {
	renderer Renderer
	tplDir   string
	outDir   string
}

func NewExporter(r Renderer, tplDir, outDir string) *Exporter {
	return &Exporter{renderer: r, tplDir: tplDir, outDir: outDir}
}

// sectionLabels returns the printed section headings for the CV language.
func sectionLabels(lang string) map[string]string {
	if lang == "ar" {
		return map[string]string{
			"summary":    "الملخص المهني",
			"experience": "الخبرة العملية",
			"education":  "التعليم",
			"skills":     "المهارات",
			"languages":  "اللغات",
		}
	}
	return map[string]string{
		"summary":    "Professional Summary",
		"experience": "Experience",
		"education":  "Education",
		"skills":     "Skills",
		"languages":  "Languages",
	}
}

// RenderHTML executes the CV template with RTL direction and localized
// labels, then inlines the stylesheet so the page is self-contained.
func (e *Exporter) RenderHTML(cv *domain.CV) (string, error) {
	tplPath := filepath.Join(e.tplDir, "cv.html")
	tpl, err := template.ParseFiles(tplPath)
	if err != nil {
		return "", err
	}

	lang := cv.Lang
	if lang != "ar" {
		lang = "en"
	}
	dir := "ltr"
	if lang == "ar" {
		dir = "rtl"
	}

	var buf bytes.Buffer
	data := map[string]interface{}{
		"Doc":    cv.Document,
		"Labels": sectionLabels(lang),
		"Lang":   lang,
		"Dir":    dir,
	}
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	html := buf.String()

	if css, err := os.ReadFile(filepath.Join(e.tplDir, "style.css")); err == nil {
		cssBlock := "<style>" + string(css) + "</style>"
		if strings.Contains(strings.ToLower(html), "<head>") {
			html = strings.Replace(html, "<head>", "<head>"+cssBlock, 1)
		} else {
			html = cssBlock + html
		}
	}
	return html, nil
}

// Export produces the PDF for a CV, retrying the print and validating the
// PDF signature before accepting the output.
func (e *Exporter) Export(ctx context.Context, cv *domain.CV) ([]byte, error) {
	html, err := e.RenderHTML(cv)
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	// save HTML artifact before printing so it survives a render failure
	ts := time.Now().Format("20060102T150405")
	genDir := filepath.Join(e.outDir, "generated")
	if err := os.MkdirAll(genDir, 0o755); err != nil {
		return nil, err
	}
	htmlPath := filepath.Join(genDir, fmt.Sprintf("cv_%s_%s.html", cv.ID, ts))
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, err
	}

	var pdfBytes []byte
	var renderErr error
	attempts := 3
	for i := 0; i < attempts; i++ {
		pdfBytes, renderErr = e.renderer.RenderHTMLToPDF(ctx, html)
		if renderErr == nil {
			if len(pdfBytes) > 0 && strings.HasPrefix(string(pdfBytes), "%PDF") {
				break
			}
			renderErr = fmt.Errorf("invalid PDF output (len=%d)", len(pdfBytes))
		}
		slog.Warn("pdf render attempt failed", "attempt", i+1, "error", renderErr)
		// exponential backoff before retrying
		if i < attempts-1 {
			backoff := time.Duration(1<<i) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	if renderErr != nil {
		return nil, fmt.Errorf("pdf render failed after %d attempts: %w (html kept at %s)", attempts, renderErr, htmlPath)
	}

	pdfPath := filepath.Join(genDir, fmt.Sprintf("cv_%s_%s.pdf", cv.ID, ts))
	if err := os.WriteFile(pdfPath, pdfBytes, 0o644); err != nil {
		return nil, err
	}
	return pdfBytes, nil
}
