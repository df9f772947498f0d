package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// RenderedMessage is an email ready to send.
type RenderedMessage struct {
	Subject string
	Text    string
	HTML    string
}

// HTMLEmailRenderer renders digests as HTML emails with a plain text fallback.
type HTMLEmailRenderer struct {
	tmpl *template.Template
}

// NewHTMLEmailRenderer creates a renderer with the default email template.
func NewHTMLEmailRenderer() *HTMLEmailRenderer {
	t := template.Must(template.New("email").Funcs(template.FuncMap{
		"percent": func(c float64) string { return fmt.Sprintf("%.0f%%", c*100) },
	}).Parse(emailHTMLTemplate))
	return &HTMLEmailRenderer{tmpl: t}
}

// Render produces an HTML email with plain text alternative.
func (r *HTMLEmailRenderer) Render(data NotificationData) (*RenderedMessage, error) {
	subject := fmt.Sprintf("Vyapar Alert: %d new finding(s) for %s", data.Count(), data.Date.Format("02 Jan 2006"))

	var htmlBuf bytes.Buffer
	if err := r.tmpl.Execute(&htmlBuf, data); err != nil {
		return nil, fmt.Errorf("failed to render HTML template: %w", err)
	}

	return &RenderedMessage{
		Subject: subject,
		Text:    renderPlainText(data),
		HTML:    htmlBuf.String(),
	}, nil
}

// renderPlainText produces a readable plain text version for email clients that don't support HTML.
func renderPlainText(data NotificationData) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Vyapar digest - %s\n", data.Date.Format("02 Jan 2006")))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	if len(data.Spikes) > 0 {
		sb.WriteString("LOW STOCK RISKS\n")
		sb.WriteString(strings.Repeat("-", 20) + "\n")
		for _, f := range data.Spikes {
			sb.WriteString(fmt.Sprintf("• %s\n", f.Message))
		}
		sb.WriteString("\n")
	}

	if len(data.Trends) > 0 {
		sb.WriteString("TRENDING PRODUCTS\n")
		sb.WriteString(strings.Repeat("-", 20) + "\n")
		for _, f := range data.Trends {
			sb.WriteString(fmt.Sprintf("• %s (confidence %.0f%%)\n", f.Subject, f.Confidence*100))
		}
		sb.WriteString("\n")
	}

	if len(data.Festivals) > 0 {
		sb.WriteString("FESTIVAL STOCKING ADVICE\n")
		sb.WriteString(strings.Repeat("-", 20) + "\n")
		for _, f := range data.Festivals {
			sb.WriteString(strings.ToUpper(f.Subject) + "\n")
			sb.WriteString(f.Message + "\n\n")
		}
	}

	if len(data.TopSellers) > 0 {
		sb.WriteString("TOP MARKETPLACE SELLERS\n")
		sb.WriteString(strings.Repeat("-", 20) + "\n")
		for _, s := range data.TopSellers {
			sb.WriteString(fmt.Sprintf("• %s\n", s))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
