package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shanehull/vyapar/internal/types"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newManager(t *testing.T, dir string, c *clock) *Manager {
	t.Helper()
	log, _ := test.NewNullLogger()
	m, err := NewManager(dir, "Asia/Kolkata", c.now, log)
	require.NoError(t, err)
	return m
}

var (
	lowStock = types.Finding{Kind: types.FindingSpike, Subject: "Maggi", Message: "Low stock risk for Maggi"}
	trending = types.Finding{Kind: types.FindingTrend, Subject: "Cola", Message: "Trending product detected: Cola"}
)

func TestManager_FilterAndRecord(t *testing.T) {
	dir := t.TempDir()
	c := &clock{t: time.Date(2026, 3, 10, 5, 0, 0, 0, time.UTC)}
	m := newManager(t, dir, c)

	assert.Equal(t, []types.Finding{lowStock, trending}, m.FilterNew([]types.Finding{lowStock, trending}))

	require.NoError(t, m.Record([]types.Finding{lowStock}))
	assert.Equal(t, []types.Finding{trending}, m.FilterNew([]types.Finding{lowStock, trending}))

	// Reloaded from disk on the same day.
	reloaded := newManager(t, dir, c)
	assert.Equal(t, []types.Finding{trending}, reloaded.FilterNew([]types.Finding{lowStock, trending}))
	assert.Equal(t, filepath.Join(dir, historyFileName), reloaded.HistoryFilePath())
}

func TestManager_NewDayStartsFresh(t *testing.T) {
	dir := t.TempDir()
	// 23:00 IST on the 10th.
	c := &clock{t: time.Date(2026, 3, 10, 17, 30, 0, 0, time.UTC)}
	m := newManager(t, dir, c)
	require.NoError(t, m.Record([]types.Finding{lowStock}))

	// 00:30 IST on the 11th.
	c.t = time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC)
	assert.Len(t, m.FilterNew([]types.Finding{lowStock}), 1)

	assert.Len(t, newManager(t, dir, c).FilterNew([]types.Finding{lowStock}), 1)
}

func TestManager_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, historyFileName), []byte("{not json"), 0o644))

	m := newManager(t, dir, &clock{t: time.Now()})
	assert.Len(t, m.FilterNew([]types.Finding{lowStock}), 1)
}

func TestNewManager_BadTimezone(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, err := NewManager(t.TempDir(), "Mars/Olympus", time.Now, log)
	assert.Error(t, err)
}
