package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/piyushmakhija5/ai-playground/internal/financial"
)

// Report is a Summary labelled with the company it describes.
type Report struct {
	CompanyName string            `json:"company_name,omitempty"`
	Source      string            `json:"source,omitempty"`
	GeneratedAt time.Time         `json:"generated_at"`
	Summary     financial.Summary `json:"summary"`
}

// New labels summary with company and source, stamped with the current time.
func New(company, source string, summary financial.Summary) Report {
	return Report{
		CompanyName: strings.TrimSpace(company),
		Source:      source,
		GeneratedAt: time.Now().UTC(),
		Summary:     summary,
	}
}

// EscapeBraces doubles every { and } so text survives format-string style
// template interpolation.
func EscapeBraces(s string) string {
	return strings.NewReplacer("{", "{{", "}", "}}").Replace(s)
}

// SummaryJSON renders the summary as JSON indented by four spaces, keys in
// canonical order.
func SummaryJSON(summary financial.Summary) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(summary); err != nil {
		return "", fmt.Errorf("encode summary: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// PromptJSON is SummaryJSON with braces escaped, ready to embed in a prompt
// template.
func PromptJSON(summary financial.Summary) (string, error) {
	s, err := SummaryJSON(summary)
	if err != nil {
		return "", err
	}
	return EscapeBraces(s), nil
}

var monthlyColumns = []struct {
	title  string
	series func(financial.Summary) financial.MonthSeries
}{
	{"Orders", func(s financial.Summary) financial.MonthSeries { return s.OrdersPerMonth }},
	{"Net Sales (INR)", func(s financial.Summary) financial.MonthSeries { return s.NetSalesPerMonth }},
	{"Order Growth (%)", func(s financial.Summary) financial.MonthSeries { return s.OrderGrowthPerMonth }},
	{"Net Sales Growth (%)", func(s financial.Summary) financial.MonthSeries { return s.NetSalesGrowthPerMonth }},
	{"Return Rate (%)", func(s financial.Summary) financial.MonthSeries { return s.ReturnRatePerMonth }},
}

// Markdown renders the report as a metrics table followed by a monthly
// breakdown. Month series are omitted from the first table.
func Markdown(r Report) string {
	var b strings.Builder

	title := "Financial Summary"
	if r.CompanyName != "" {
		title += ": " + escapeCell(r.CompanyName)
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if r.Source != "" {
		fmt.Fprintf(&b, "Source: `%s`  \n", strings.ReplaceAll(r.Source, "`", "'"))
	}
	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "Generated: %s  \n", r.GeneratedAt.Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "All monetary values are in %s.\n\n", financial.Currency)

	b.WriteString("| Metric | Value |\n| --- | ---: |\n")
	for _, f := range r.Summary.Fields() {
		if _, ok := f.Value.(financial.MonthSeries); ok {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s |\n", f.Key, FormatValue(f.Value))
	}

	months := r.Summary.OrdersPerMonth.Months()
	if len(months) == 0 {
		return b.String()
	}

	b.WriteString("\n## Monthly Breakdown\n\n| Month |")
	for _, c := range monthlyColumns {
		fmt.Fprintf(&b, " %s |", c.title)
	}
	b.WriteString("\n| --- |")
	b.WriteString(strings.Repeat(" ---: |", len(monthlyColumns)))
	b.WriteByte('\n')
	for _, m := range months {
		fmt.Fprintf(&b, "| %s |", m)
		for _, c := range monthlyColumns {
			v, _ := c.series(r.Summary).Get(m)
			fmt.Fprintf(&b, " %s |", strconv.FormatFloat(v, 'f', 2, 64))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// HTML renders the Markdown report as a standalone HTML page.
func HTML(r Report) (string, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(Markdown(r)), &body); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	title := "Financial Summary"
	if r.CompanyName != "" {
		title += " - " + r.CompanyName
	}

	var page strings.Builder
	page.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	page.WriteString("<style>table{border-collapse:collapse}th,td{border:1px solid #ccc;padding:4px 8px}</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.String(), nil
}

// FormatValue renders a metric value for tables: floats with two decimals,
// integers as is.
func FormatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return strconv.FormatFloat(x, 'f', 2, 64)
	case int:
		return strconv.Itoa(x)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
