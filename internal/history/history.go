/*
Package history remembers which findings were already notified today, so a
store owner running the cycle several times a day is not mailed the same
low-stock or trend alert twice. The decision log itself is never pruned.
*/
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/shanehull/vyapar/internal/types"
)

const (
	historyFileName = "notified_findings.json"
	historyDirName  = "vyapar"
)

type History struct {
	ReportDate       string
	NotifiedFindings map[string]map[string]bool
}

type Manager struct {
	history         History
	mutex           sync.Mutex
	historyFilePath string
	reportLocation  *time.Location
	now             func() time.Time
	log             logrus.FieldLogger
}

// DefaultDir is the directory used when NewManager is given an empty dir.
func DefaultDir() string {
	return filepath.Join(os.TempDir(), historyDirName)
}

func NewManager(dir, tzName string, now func() time.Time, log logrus.FieldLogger) (*Manager, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory %s: %w", dir, err)
	}

	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone name '%s': %w", tzName, err)
	}

	m := &Manager{
		historyFilePath: filepath.Join(dir, historyFileName),
		reportLocation:  loc,
		now:             now,
		log:             log,
	}

	m.loadHistory()
	return m, nil
}

func (m *Manager) loadHistory() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	today := m.getCurrentReportDate()
	m.history = History{
		ReportDate:       today,
		NotifiedFindings: make(map[string]map[string]bool),
	}

	data, err := os.ReadFile(m.historyFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.log.WithField("path", m.historyFilePath).Debug("History file not found, starting fresh")
			return
		}
		m.log.WithError(err).WithField("path", m.historyFilePath).Warn("Error reading history file, starting fresh")
		return
	}

	var loaded History
	if err := json.Unmarshal(data, &loaded); err != nil {
		m.log.WithError(err).Warn("Error unmarshalling history JSON, starting fresh")
		return
	}

	if loaded.ReportDate == today && loaded.NotifiedFindings != nil {
		m.history = loaded
		m.log.WithField("date", today).Debugf("Loaded %d notified finding kinds for today", len(m.history.NotifiedFindings))
	} else {
		m.log.WithFields(logrus.Fields{"from": loaded.ReportDate, "today": today}).Debug("History is stale, starting new day")
	}
}

func (m *Manager) saveHistory() error {
	m.history.ReportDate = m.getCurrentReportDate()

	data, err := json.MarshalIndent(m.history, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling history: %w", err)
	}

	if err := os.WriteFile(m.historyFilePath, data, 0o644); err != nil {
		return fmt.Errorf("error writing history file %s: %w", m.historyFilePath, err)
	}
	return nil
}

// FilterNew returns the findings not yet notified today, in input order.
func (m *Manager) FilterNew(findings []types.Finding) []types.Finding {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.rollover()

	var fresh []types.Finding
	for _, f := range findings {
		if !m.history.NotifiedFindings[f.Kind][f.Subject] {
			fresh = append(fresh, f)
		}
	}
	return fresh
}

// Record marks findings as notified and persists the ledger.
func (m *Manager) Record(findings []types.Finding) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.rollover()

	for _, f := range findings {
		if m.history.NotifiedFindings[f.Kind] == nil {
			m.history.NotifiedFindings[f.Kind] = make(map[string]bool)
		}
		m.history.NotifiedFindings[f.Kind][f.Subject] = true
	}
	return m.saveHistory()
}

func (m *Manager) HistoryFilePath() string {
	return m.historyFilePath
}

// rollover resets the ledger when the report day has changed since loading.
func (m *Manager) rollover() {
	if today := m.getCurrentReportDate(); m.history.ReportDate != today {
		m.history = History{ReportDate: today, NotifiedFindings: make(map[string]map[string]bool)}
	}
}

func (m *Manager) getCurrentReportDate() string {
	return m.now().In(m.reportLocation).Format("2006-01-02")
}
