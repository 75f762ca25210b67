package service

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/propdata/building-financial-profile/dto"
)

// defaultReportTemplate mirrors the section layout of the insurer-facing
// report document.
const defaultReportTemplate = `BUILDING INSURANCE REPORT

Building Information
  Address: {{.Address}}
  Multi-tenanted: {{.MultiTenanted}}
  Approximate Age: {{.BuildingAge}} years
  Total Floors (excl. basement): {{.NumFloors}}

Employment Estimate
  Estimated FTEs: {{.FTE}}
  Estimated Annual Payroll: {{money .Currency .Payroll}}

Forecasted Financials
  3.5 Rental (Budget/Estimate - Next Year): {{if .HasRentalEstimate}}{{money .Currency .RentalEstimate}}{{else}}n/a{{end}}
  3.3 Annual Turnover (Forecast): {{if .HasAnnualTurnover}}{{money .Currency .AnnualTurnover}}{{else}}n/a{{end}}
  3.4 Annual Gross Profit: {{if .HasGrossProfit}}{{money .Currency .GrossProfit}}{{else}}n/a{{end}}
`

// ReportRenderer consumes a resolved profile and produces the finished
// report document.
type ReportRenderer interface {
	Render(profile dto.ResolvedProfile) (string, error)
}

type templateRenderer struct {
	tmpl *template.Template
}

func rendererFuncs() template.FuncMap {
	return template.FuncMap{
		"money": func(c dto.Currency, v float64) string {
			return fmt.Sprintf("%s %s", c, FormatAmount(v))
		},
	}
}

// NewReportRenderer parses the template at templatePath, or the built-in
// template when the path is empty. Failure to load a configured template is
// terminal: unlike field-level absences it is surfaced as ErrTemplateLoad.
func NewReportRenderer(templatePath string) (ReportRenderer, error) {
	base := template.New("report").Funcs(rendererFuncs())

	var tmpl *template.Template
	var err error
	if templatePath != "" {
		tmpl, err = base.ParseFiles(templatePath)
		if err == nil {
			tmpl = tmpl.Lookup(filepath.Base(templatePath))
		}
	} else {
		tmpl, err = base.Parse(defaultReportTemplate)
	}
	if err != nil || tmpl == nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrTemplateLoad, err)
	}

	return &templateRenderer{tmpl: tmpl}, nil
}

func (r *templateRenderer) Render(profile dto.ResolvedProfile) (string, error) {
	var b strings.Builder
	if err := r.tmpl.Execute(&b, profile); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return b.String(), nil
}

// FormatAmount renders a monetary value with thousands separators and two
// decimal places.
func FormatAmount(v float64) string {
	raw := fmt.Sprintf("%.2f", v)

	sign := ""
	if strings.HasPrefix(raw, "-") {
		sign = "-"
		raw = raw[1:]
	}

	dot := strings.Index(raw, ".")
	intPart, fracPart := raw[:dot], raw[dot:]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(",")
		}
		b.WriteRune(digit)
	}

	return sign + b.String() + fracPart
}
