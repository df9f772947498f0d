package types

import (
	"time"
)

// Candidate is a trend label gathered from the external sources for one
// scoring cycle, together with where it was seen.
type Candidate struct {
	Label               string
	InGoogleTrends      bool
	InAmazonBestSellers bool
	RedditMentionCount  int
}

type ScoredCandidate struct {
	Label      string
	Score      int
	Confidence float64
}

type InventoryItem struct {
	ID          string `json:"id"`
	ProductName string `json:"productName"`
	Stock       int    `json:"stock"`
}

// DisplayName falls back to the document id when the item has no product name.
func (i InventoryItem) DisplayName() string {
	if i.ProductName != "" {
		return i.ProductName
	}
	return i.ID
}

type SalesRecord struct {
	ProductName string    `json:"productname"`
	Timestamp   time.Time `json:"timestamp"`
	Quantity    float64   `json:"quantity"`
}

type ForecastRecord struct {
	ProductName     string    `json:"productname"`
	PredictedDemand float64   `json:"predictedDemand"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type DecisionRecord struct {
	ID         string    `json:"id,omitempty"`
	ProductID  string    `json:"productId"`
	Message    string    `json:"message"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
	Agent      string    `json:"agent"`
}

type CalendarEvent struct {
	Name       string
	Start      time.Time
	CalendarID string
}

type FestivalAdvice struct {
	Event  string
	Start  time.Time
	Advice string
}

// Finding is a single notifiable outcome of a run (a low stock risk, a trend
// or festival advice), keyed for the notification ledger.
type Finding struct {
	Kind       string
	Subject    string
	Message    string
	Confidence float64
}

const (
	FindingSpike    = "spike"
	FindingTrend    = "trend"
	FindingFestival = "festival"
)

// Key identifies a finding across runs on the same day.
func (f Finding) Key() string {
	return f.Kind + "|" + f.Subject
}

// Report summarises one full cycle.
type Report struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Forecasts  []ForecastRecord
	Spikes     []InventoryItem
	Trends     []ScoredCandidate
	TopSellers []string
	Festivals  []FestivalAdvice
	Decisions  int
	Notified   int
	Errors     []StepError
}

// StepError records a failed pipeline step without aborting the run.
type StepError struct {
	Step string
	Err  error
}

func (e StepError) Error() string {
	return e.Step + ": " + e.Err.Error()
}

func (e StepError) Unwrap() error {
	return e.Err
}
