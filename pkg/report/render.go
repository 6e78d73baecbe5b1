package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dmitrymomot/healthreport/pkg/email/templates"
)

// GeneratedLayout formats the generation timestamp shown in a report.
const GeneratedLayout = "Jan 02, 2006 15:04"

// View is what a template receives.
type View struct {
	Payload
	GeneratedAt time.Time
	Printer     *message.Printer
}

// GeneratedOn returns the formatted generation timestamp.
func (v View) GeneratedOn() string { return v.GeneratedAt.Format(GeneratedLayout) }

// Template renders a View. Any templ component constructor fits.
type Template func(View) templ.Component

// Renderer turns payloads into HTML documents.
type Renderer struct {
	report  Template
	body    Template
	printer *message.Printer
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithReportTemplate replaces the full report document template.
func WithReportTemplate(t Template) RendererOption {
	return func(r *Renderer) {
		if t != nil {
			r.report = t
		}
	}
}

// WithBodyTemplate replaces the email body template.
func WithBodyTemplate(t Template) RendererOption {
	return func(r *Renderer) {
		if t != nil {
			r.body = t
		}
	}
}

// WithRenderLanguage sets the language used to format numbers.
func WithRenderLanguage(tag language.Tag) RendererOption {
	return func(r *Renderer) {
		r.printer = message.NewPrinter(tag)
	}
}

func NewRenderer(opts ...RendererOption) *Renderer {
	r := &Renderer{
		report:  DefaultReportTemplate,
		body:    DefaultBodyTemplate,
		printer: message.NewPrinter(language.English),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render returns the full report document.
func (r *Renderer) Render(ctx context.Context, p Payload, generatedAt time.Time) (string, error) {
	return r.render(ctx, r.report, p, generatedAt)
}

// RenderBody returns the short email body that accompanies the report.
func (r *Renderer) RenderBody(ctx context.Context, p Payload, generatedAt time.Time) (string, error) {
	return r.render(ctx, r.body, p, generatedAt)
}

func (r *Renderer) render(ctx context.Context, tpl Template, p Payload, generatedAt time.Time) (string, error) {
	out, err := templates.Render(ctx, tpl(View{Payload: p, GeneratedAt: generatedAt, Printer: r.printer}))
	if err != nil {
		return "", errors.Join(ErrRender, err)
	}
	return out, nil
}

// Subject is the email subject for a report.
func Subject(p Payload) string {
	return "Your Health Report (" + p.DateRange() + ")"
}

// Filename is the attachment name for a rendered report, e.g.
// "health_report_jane-doe_20240330.html". Accounts whose username yields an
// empty slug use "user".
func Filename(p Payload) string {
	name := slugify(p.Account.Username)
	if name == "" {
		name = "user"
	}
	return fmt.Sprintf("health_report_%s_%s.html", name, p.EndDate.Format("20060102"))
}

// DefaultReportTemplate renders the standalone report document.
func DefaultReportTemplate(v View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		h.text(Subject(v.Payload))
		h.raw(`</title><style>` + reportCSS + `</style></head><body>`)

		h.raw(`<header><h1>Health Report</h1><p class="meta">`)
		h.text(v.Account.DisplayName())
		h.raw(` &middot; `)
		h.text(v.DateRange())
		h.raw(`</p><p class="meta">Generated on `)
		h.text(v.GeneratedOn())
		h.raw(`</p></header>`)

		h.raw(`<section class="summary"><h2>Summary</h2><p>`)
		h.text(v.ExecSummary)
		h.raw(`</p></section>`)

		if !v.HasData {
			h.raw(`<p class="empty">No records in this period.</p></body></html>`)
			return h.err
		}

		h.raw(`<section class="kpis">`)
		kpi(h, "Avg heart rate", v.Printer.Sprintf("%.0f bpm", v.Stats.AvgHeartRate), v.KPIHints.HeartRate)
		kpi(h, "Avg sleep", v.Printer.Sprintf("%.1f h", v.Stats.AvgSleep), v.KPIHints.Sleep)
		kpi(h, "Avg steps", v.Printer.Sprintf("%.0f", v.Stats.AvgSteps), v.KPIHints.Steps)
		kpi(h, "Alert days", v.Printer.Sprintf("%d / %d", v.AlertDays.Any, v.TotalDays),
			v.Printer.Sprintf("%d high heart rate, %d low sleep", v.AlertDays.HighHeartRate, v.AlertDays.LowSleep))
		h.raw(`</section>`)

		if len(v.Insights) > 0 {
			h.raw(`<section><h2>Insights</h2><ul>`)
			for _, s := range v.Insights {
				h.raw(`<li>`)
				h.text(s)
				h.raw(`</li>`)
			}
			h.raw(`</ul></section>`)
		}

		for _, c := range v.ChartImages {
			h.raw(`<figure><img src="`)
			h.text(c.DataURI)
			h.raw(`" alt="`)
			h.text(c.Title)
			h.raw(`"><figcaption>`)
			h.text(c.Title)
			h.raw(`</figcaption></figure>`)
		}

		recordTable(h, v, "Last 7 entries", v.Last7)
		recordTable(h, v, fmt.Sprintf("Heart rate above %d bpm", HighHeartRate), v.HighlightHighHR)
		recordTable(h, v, v.Printer.Sprintf("Sleep under %.0f h", LowSleepHours), v.HighlightLowSleep)

		h.raw(`</body></html>`)
		return h.err
	})
}

// DefaultBodyTemplate renders the email body sent with the report attached.
func DefaultBodyTemplate(v View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><body><p>Hi `)
		h.text(v.Account.DisplayName())
		h.raw(`,</p><p>Your health report for `)
		h.text(v.DateRange())
		h.raw(` is attached.</p><p>`)
		h.text(v.ExecSummary)
		h.raw(`</p><p class="meta">Generated on `)
		h.text(v.GeneratedOn())
		h.raw(`</p></body></html>`)
		return h.err
	})
}

func kpi(h *htmlWriter, label, value, hint string) {
	h.raw(`<div class="kpi"><span class="label">`)
	h.text(label)
	h.raw(`</span><span class="value">`)
	h.text(value)
	h.raw(`</span><span class="hint">`)
	h.text(hint)
	h.raw(`</span></div>`)
}

func recordTable(h *htmlWriter, v View, title string, records []Record) {
	if len(records) == 0 {
		return
	}
	h.raw(`<section><h2>`)
	h.text(title)
	h.raw(`</h2><table><thead><tr><th>Date</th><th>Heart rate</th><th>Sleep</th><th>Steps</th></tr></thead><tbody>`)
	for _, r := range records {
		class := ""
		if r.Alert() {
			class = ` class="alert"`
		}
		h.raw(`<tr` + class + `><td>`)
		h.text(r.Date.Format(dateLayout))
		h.raw(`</td><td>`)
		h.text(v.Printer.Sprintf("%d", r.HeartRate))
		h.raw(`</td><td>`)
		h.text(v.Printer.Sprintf("%.1f", r.SleepHours))
		h.raw(`</td><td>`)
		h.text(v.Printer.Sprintf("%d", r.Steps))
		h.raw(`</td></tr>`)
	}
	h.raw(`</tbody></table></section>`)
}

// htmlWriter keeps the first write error so templates can check once at the end.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(strings.TrimSpace(s)))
}

const reportCSS = `body{font-family:Helvetica,Arial,sans-serif;color:#222;margin:24px}` +
	`h1{margin:0}.meta{color:#666;margin:4px 0}` +
	`.kpis{display:flex;gap:12px;margin:16px 0}` +
	`.kpi{border:1px solid #ddd;border-radius:6px;padding:8px 12px;flex:1}` +
	`.kpi .label,.kpi .hint{display:block;font-size:12px;color:#666}` +
	`.kpi .value{display:block;font-size:20px;font-weight:bold}` +
	`table{border-collapse:collapse;width:100%}th,td{border-bottom:1px solid #eee;padding:4px 8px;text-align:left}` +
	`tr.alert td{color:#b00020}`
