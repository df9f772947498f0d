/*
Package decision records the agent's findings in the append-only decisions
collection and optionally announces each one on the message bus.
*/
package decision

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shanehull/vyapar/internal/store"
	"github.com/shanehull/vyapar/internal/types"
)

// Publisher announces a logged decision. Implementations must not block for long.
type Publisher interface {
	Publish(ctx context.Context, rec types.DecisionRecord) error
}

// Logger appends one DecisionRecord per call. It never merges or dedups.
type Logger struct {
	store     store.Store
	agent     string
	now       func() time.Time
	publisher Publisher
	log       logrus.FieldLogger
}

// NewLogger builds a Logger. publisher may be nil.
func NewLogger(s store.Store, agent string, now func() time.Time, publisher Publisher, log logrus.FieldLogger) *Logger {
	return &Logger{store: s, agent: agent, now: now, publisher: publisher, log: log}
}

// Log appends a decision about productOrTopic and returns the stored record.
func (l *Logger) Log(ctx context.Context, productOrTopic, message string, confidence float64) (types.DecisionRecord, error) {
	if clamped := clamp(confidence); clamped != confidence {
		l.log.WithFields(logrus.Fields{
			"product":    productOrTopic,
			"confidence": confidence,
		}).Warn("Decision confidence out of range, clamping")
		confidence = clamped
	}

	rec := types.DecisionRecord{
		ProductID:  productOrTopic,
		Message:    message,
		Confidence: confidence,
		Timestamp:  l.now().UTC(),
		Agent:      l.agent,
	}

	id, err := l.store.Append(ctx, store.CollectionDecisions, rec)
	if err != nil {
		return types.DecisionRecord{}, fmt.Errorf("log decision for %s: %w", productOrTopic, err)
	}
	rec.ID = id

	if l.publisher != nil {
		if err := l.publisher.Publish(ctx, rec); err != nil {
			l.log.WithError(err).WithField("id", rec.ID).Warn("Failed to publish decision event")
		}
	}

	return rec, nil
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
