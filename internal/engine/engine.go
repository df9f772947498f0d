/*
Package engine runs one full demand intelligence cycle: forecasting, low
stock detection, trend detection, festival advice and notification. A failing
step is recorded in the report and the cycle carries on.
*/
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shanehull/vyapar/internal/demand"
	"github.com/shanehull/vyapar/internal/notify"
	"github.com/shanehull/vyapar/internal/trend"
	"github.com/shanehull/vyapar/internal/types"
)

const (
	StepForecast = "forecast"
	StepSpikes   = "spikes"
	StepTrends   = "trends"
	StepFestival = "festival"
	StepNotify   = "notify"
)

type Forecaster interface {
	Run(ctx context.Context) ([]types.ForecastRecord, error)
}

type SpikeDetector interface {
	Detect(ctx context.Context) ([]types.InventoryItem, error)
}

type TrendDetector interface {
	Detect(ctx context.Context) trend.Result
}

type FestivalAdvisor interface {
	Advise(ctx context.Context) []types.FestivalAdvice
}

type DecisionLogger interface {
	Log(ctx context.Context, productOrTopic, message string, confidence float64) (types.DecisionRecord, error)
}

// Ledger suppresses findings that were already notified today.
type Ledger interface {
	FilterNew(findings []types.Finding) []types.Finding
	Record(findings []types.Finding) error
	HistoryFilePath() string
}

// Deps are the collaborators of an Engine. Festival, Ledger and Sender may be nil.
type Deps struct {
	Forecaster      Forecaster
	Spikes          SpikeDetector
	Trends          TrendDetector
	Festival        FestivalAdvisor
	Decisions       DecisionLogger
	Ledger          Ledger
	Renderer        *notify.HTMLEmailRenderer
	Sender          notify.Sender
	SpikeConfidence float64
	Now             func() time.Time
	Log             logrus.FieldLogger
}

type Engine struct {
	deps Deps
}

func New(deps Deps) *Engine {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Renderer == nil {
		deps.Renderer = notify.NewHTMLEmailRenderer()
	}
	return &Engine{deps: deps}
}

// TrendMessage is the decision message logged for an emitted candidate.
func TrendMessage(label string) string {
	return "Trending product detected: " + label
}

// RunCycle always completes; step failures are collected in Report.Errors.
func (e *Engine) RunCycle(ctx context.Context) types.Report {
	log := e.deps.Log
	r := types.Report{StartedAt: e.deps.Now().UTC()}
	var findings []types.Finding

	fail := func(step string, err error) {
		log.WithError(err).WithField("step", step).Error("Step failed")
		r.Errors = append(r.Errors, types.StepError{Step: step, Err: err})
	}

	log.Info("Starting demand forecasting")
	if forecasts, err := e.deps.Forecaster.Run(ctx); err != nil {
		fail(StepForecast, err)
	} else {
		r.Forecasts = forecasts
	}

	log.Info("Starting spike detection")
	if flagged, err := e.deps.Spikes.Detect(ctx); err != nil {
		fail(StepSpikes, err)
	} else {
		r.Spikes = flagged
		for _, it := range flagged {
			msg := demand.SpikeMessage(it)
			if _, err := e.deps.Decisions.Log(ctx, it.DisplayName(), msg, e.deps.SpikeConfidence); err != nil {
				fail(StepSpikes, err)
				continue
			}
			r.Decisions++
			findings = append(findings, types.Finding{
				Kind: types.FindingSpike, Subject: it.DisplayName(), Message: msg, Confidence: e.deps.SpikeConfidence,
			})
		}
	}

	log.Info("Starting trend detection")
	res := e.deps.Trends.Detect(ctx)
	r.TopSellers = res.TopSellers
	for _, sc := range res.Scored {
		msg := TrendMessage(sc.Label)
		if _, err := e.deps.Decisions.Log(ctx, sc.Label, msg, sc.Confidence); err != nil {
			fail(StepTrends, err)
			continue
		}
		r.Decisions++
		r.Trends = append(r.Trends, sc)
		log.WithFields(logrus.Fields{"label": sc.Label, "score": sc.Score}).Info("Valid trend logged")
		findings = append(findings, types.Finding{
			Kind: types.FindingTrend, Subject: sc.Label, Message: msg, Confidence: sc.Confidence,
		})
	}

	if e.deps.Festival != nil {
		log.Info("Starting festival stock advisor")
		r.Festivals = e.deps.Festival.Advise(ctx)
		for _, adv := range r.Festivals {
			findings = append(findings, types.Finding{
				Kind: types.FindingFestival, Subject: adv.Event, Message: adv.Advice,
			})
		}
	}

	if n, err := e.notify(findings, r.TopSellers, r.StartedAt); err != nil {
		fail(StepNotify, err)
	} else {
		r.Notified = n
	}

	r.FinishedAt = e.deps.Now().UTC()
	log.WithFields(logrus.Fields{
		"decisions": r.Decisions,
		"errors":    len(r.Errors),
		"duration":  r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond),
	}).Info("Demand intelligence cycle complete")

	return r
}

// notify emails the findings not yet sent today and records them as sent.
func (e *Engine) notify(findings []types.Finding, topSellers []string, date time.Time) (int, error) {
	if e.deps.Sender == nil || len(findings) == 0 {
		return 0, nil
	}

	fresh := findings
	if e.deps.Ledger != nil {
		fresh = e.deps.Ledger.FilterNew(findings)
	}
	if len(fresh) == 0 {
		e.deps.Log.Info("No new findings to notify")
		return 0, nil
	}

	msg, err := e.deps.Renderer.Render(notify.NewNotificationData(date, fresh, topSellers))
	if err != nil {
		return 0, err
	}
	if err := e.deps.Sender.Send(msg); err != nil {
		return 0, err
	}

	if e.deps.Ledger != nil {
		if err := e.deps.Ledger.Record(fresh); err != nil {
			return len(fresh), fmt.Errorf("record notified findings: %w", err)
		}
	}
	return len(fresh), nil
}
