/*
Package notify reports a cycle on the console and mails a digest of the
findings that have not been notified yet today.
*/
package notify

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shanehull/vyapar/internal/types"
)

// NotificationData is the content of one digest email.
type NotificationData struct {
	Date       time.Time
	Spikes     []types.Finding
	Trends     []types.Finding
	Festivals  []types.Finding
	TopSellers []string
}

// NewNotificationData groups findings by kind, keeping their order.
func NewNotificationData(date time.Time, findings []types.Finding, topSellers []string) NotificationData {
	data := NotificationData{Date: date, TopSellers: topSellers}
	for _, f := range findings {
		switch f.Kind {
		case types.FindingSpike:
			data.Spikes = append(data.Spikes, f)
		case types.FindingTrend:
			data.Trends = append(data.Trends, f)
		case types.FindingFestival:
			data.Festivals = append(data.Festivals, f)
		}
	}
	return data
}

// Count is the number of findings in the digest.
func (d NotificationData) Count() int {
	return len(d.Spikes) + len(d.Trends) + len(d.Festivals)
}

func formatBulletList(points []string) string {
	if len(points) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range points {
		sb.WriteString(fmt.Sprintf("\t• %s\n", p))
	}
	return sb.String()
}

// ReportRun prints the cycle summary.
func ReportRun(w io.Writer, r types.Report, historyFilePath string) {
	fmt.Fprintln(w, "\n===========================================")
	fmt.Fprintf(w, "DEMAND INTELLIGENCE CYCLE (%s)\n", r.StartedAt.UTC().Format("02 Jan 2006 15:04 MST"))
	fmt.Fprintln(w, "===========================================")

	fmt.Fprintf(w, "\n📊 Forecasts saved: %d\n", len(r.Forecasts))
	for _, f := range r.Forecasts {
		fmt.Fprintf(w, "\t• %s: %.2f\n", f.ProductName, f.PredictedDemand)
	}

	if len(r.Spikes) == 0 {
		fmt.Fprintln(w, "\n📦 No low stock risks.")
	} else {
		fmt.Fprintf(w, "\n📦 Low stock risks: %d\n", len(r.Spikes))
		for _, it := range r.Spikes {
			fmt.Fprintf(w, "\t• %s (stock %d)\n", it.DisplayName(), it.Stock)
		}
	}

	if len(r.Trends) == 0 {
		fmt.Fprintln(w, "\n🔥 No valid trends this cycle.")
	} else {
		fmt.Fprintf(w, "\n🔥 Valid trends: %d\n", len(r.Trends))
		for _, t := range r.Trends {
			fmt.Fprintf(w, "\t• %s (Score: %d, Confidence: %.2f)\n", t.Label, t.Score, t.Confidence)
		}
	}

	if len(r.TopSellers) > 0 {
		fmt.Fprintln(w, "\n🛒 TOP SELLING MARKETPLACE PRODUCTS RIGHT NOW:")
		fmt.Fprint(w, formatBulletList(r.TopSellers))
	}

	if len(r.Festivals) == 0 {
		fmt.Fprintln(w, "\n🎉 No retail festivals found in the upcoming window.")
	} else {
		for _, f := range r.Festivals {
			fmt.Fprintf(w, "\n✨ %s (%s)\n", strings.ToUpper(f.Event), formatDate(f.Start))
			fmt.Fprintln(w, f.Advice)
			fmt.Fprintln(w, strings.Repeat("-", 40))
		}
	}

	if len(r.Errors) > 0 {
		fmt.Fprintf(w, "\n⚠️  %d step(s) failed:\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(w, "\t- %s\n", e.Error())
		}
	}

	fmt.Fprintln(w, "\n===========================================")
	fmt.Fprintf(w, "Cycle complete: %d decisions logged, %d new findings notified.\n", r.Decisions, r.Notified)
	if historyFilePath != "" {
		fmt.Fprintf(w, "Notification history saved to %s.\n", historyFilePath)
	}
	fmt.Fprintln(w, "===========================================")
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "date unknown"
	}
	return t.Format("02 Jan 2006")
}
