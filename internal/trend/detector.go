package trend

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/shanehull/vyapar/internal/sources"
	"github.com/shanehull/vyapar/internal/types"
)

// CommercialChecker is satisfied by Verifier.
type CommercialChecker interface {
	IsCommercialProduct(ctx context.Context, label string) bool
}

// Result is the outcome of one detection cycle.
type Result struct {
	Scored     []types.ScoredCandidate
	TopSellers []string
	Considered int
	Relevant   int
}

type Detector struct {
	sources    sources.Set
	relevance  *RelevanceFilter
	checker    CommercialChecker
	threshold  int
	topSellers int
	log        logrus.FieldLogger
}

func NewDetector(set sources.Set, relevance *RelevanceFilter, checker CommercialChecker, threshold, topSellers int, log logrus.FieldLogger) *Detector {
	return &Detector{
		sources:    set,
		relevance:  relevance,
		checker:    checker,
		threshold:  threshold,
		topSellers: topSellers,
		log:        log,
	}
}

// Detect fetches every source once and returns the candidates that pass the
// relevance and commercial checks and reach the threshold, in first-seen
// order. The leading marketplace entries are returned as top sellers.
func (d *Detector) Detect(ctx context.Context) Result {
	snap := d.sources.FetchAll(ctx, d.log)

	res := Result{TopSellers: capList(snap.Marketplace, d.topSellers)}

	for _, c := range Candidates(snap) {
		res.Considered++

		if !d.relevance.IsRetailRelevant(c.Label) {
			continue
		}
		res.Relevant++

		if !d.checker.IsCommercialProduct(ctx, c.Label) {
			d.log.WithField("label", c.Label).Debug("Dropped non-commercial candidate")
			continue
		}

		score := Score(c)
		if score < d.threshold {
			continue
		}

		res.Scored = append(res.Scored, types.ScoredCandidate{
			Label:      c.Label,
			Score:      score,
			Confidence: Confidence(score),
		})
	}

	d.log.WithFields(logrus.Fields{
		"considered": res.Considered,
		"relevant":   res.Relevant,
		"emitted":    len(res.Scored),
	}).Info("Trend detection complete")

	return res
}

func capList(items []string, limit int) []string {
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return append([]string(nil), items...)
}
