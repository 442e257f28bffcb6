package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/relctl/relctl/internal/release"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), ".relctl", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openTestJournal(t)
	started := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	report := release.RunReport{
		Version:   "v1.5.1",
		Succeeded: 1,
		Failed:    1,
		Results: []release.ExecutionResult{
			{Target: release.Target{Name: "lynx"}, Success: true},
			{Target: release.Target{Name: "lynx-redis"}, Detail: "probe failed: network"},
		},
	}
	run := Run{
		ID:         uuid.NewString(),
		Version:    "v1.5.1",
		StartedAt:  started,
		FinishedAt: started.Add(30 * time.Second),
	}
	require.NoError(t, j.Record(run, report))

	runs, err := j.Recent(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, "v1.5.1", runs[0].Version)
	assert.False(t, runs[0].DryRun)
	assert.Equal(t, 1, runs[0].Succeeded)
	assert.Equal(t, 1, runs[0].Failed)
	assert.Equal(t, started, runs[0].StartedAt)

	targets, err := j.Targets(run.ID)
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, "lynx", targets[0].Name)
	assert.True(t, targets[0].Success)
	assert.Equal(t, "lynx-redis", targets[1].Name)
	assert.False(t, targets[1].Success)
	assert.Equal(t, "probe failed: network", targets[1].Detail)
}

func TestRecentOrderAndLimit(t *testing.T) {
	j := openTestJournal(t)
	base := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		run := Run{
			ID:         uuid.NewString(),
			Version:    "v1.0.0",
			DryRun:     i == 2,
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + 5*time.Second),
		}
		require.NoError(t, j.Record(run, release.RunReport{}))
	}

	runs, err := j.Recent(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].StartedAt.After(runs[1].StartedAt), "newest first")
	assert.True(t, runs[0].DryRun, "dry runs are recorded and flagged")
}

func TestRecentEmpty(t *testing.T) {
	j := openTestJournal(t)

	runs, err := j.Recent(5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
