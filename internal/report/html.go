package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/yuin/goldmark"

	"leafdoctor-bot/internal/domain/entity"
)

const noDate = "No date"

// HistoryPage данные страницы экспорта истории
type HistoryPage struct {
	Title       string
	GeneratedAt string
	Query       string
	Category    string
	Items       []HistoryItem
}

// HistoryItem одна запись в отчёте
type HistoryItem struct {
	ID           string
	DiseaseLabel string
	SummaryHTML  template.HTML
	Treatment    string
	Language     string
	CreatedAt    string
	Severity     string
	SeverityCSS  string
}

var historyTmpl = template.Must(template.New("history").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; background: #F1F8E9; margin: 2em; }
.card { background: #fff; border-radius: 12px; padding: 1em 1.5em; margin-bottom: 1em; }
.meta { color: #689F38; font-size: 0.9em; }
.sev { display: inline-block; padding: 0.2em 0.6em; border-radius: 8px; }
.sev-low { background: #C8E6C9; } .sev-medium { background: #FFE082; }
.sev-high { background: #FFAB91; } .sev-none { background: #E0E0E0; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="meta">{{len .Items}} diagnos{{if eq (len .Items) 1}}is{{else}}es{{end}} recorded · generated {{.GeneratedAt}}{{if .Query}} · query "{{.Query}}"{{end}}{{if .Category}} · category {{.Category}}{{end}}</p>
{{range .Items}}<div class="card" id="{{.ID}}">
<h2>{{.DiseaseLabel}}</h2>
<p class="meta">{{.CreatedAt}} · {{.Language}}{{if .Severity}} · <span class="sev {{.SeverityCSS}}">Severity: {{.Severity}}</span>{{end}}</p>
<div class="summary">{{.SummaryHTML}}</div>
<p><strong>Treatment:</strong> {{.Treatment}}</p>
</div>
{{else}}<p>Your health diagnosis history will appear here</p>
{{end}}</body>
</html>
`))

// BuildHistoryPage готовит данные страницы из уже отфильтрованных записей
func BuildHistoryPage(records []*entity.HistoryRecord, query, category string, now time.Time) HistoryPage {
	page := HistoryPage{
		Title:       "Diagnosis History",
		GeneratedAt: now.Format("Jan 2, 2006 15:04"),
		Query:       query,
		Category:    category,
		Items:       make([]HistoryItem, 0, len(records)),
	}

	for _, rec := range records {
		page.Items = append(page.Items, HistoryItem{
			ID:           rec.ID,
			DiseaseLabel: rec.DisplayLabel(),
			SummaryHTML:  RenderMarkdown(rec.DisplaySummary()),
			Treatment:    rec.Treatment,
			Language:     rec.Language.Name(),
			CreatedAt:    FormatDate(rec.CreatedAt),
			Severity:     string(rec.Severity),
			SeverityCSS:  SeverityClass(rec.Severity),
		})
	}
	return page
}

// WriteHistory рендерит страницу в w
func WriteHistory(w io.Writer, page HistoryPage) error {
	if err := historyTmpl.Execute(w, page); err != nil {
		return fmt.Errorf("render history: %w", err)
	}
	return nil
}

// RenderMarkdown переводит markdown ответа сервиса в HTML через goldmark
func RenderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// FormatDate форматирует время записи; нулевое время даёт "No date"
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return noDate
	}
	return t.Local().Format("Jan 2, 2006, 03:04 PM")
}

// SeverityClass CSS-класс для оценки тяжести
func SeverityClass(s entity.Severity) string {
	switch s {
	case entity.SeverityLow:
		return "sev-low"
	case entity.SeverityMedium:
		return "sev-medium"
	case entity.SeverityHigh:
		return "sev-high"
	default:
		return "sev-none"
	}
}
