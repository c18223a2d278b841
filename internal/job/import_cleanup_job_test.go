package job

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/readlater/internal/model"
	"github.com/xxxsen/readlater/internal/repo"
)

func newTestJobRepo(t *testing.T) *repo.ImportJobRepo {
	db, err := repo.Open(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, repo.ApplyMigrations(db))
	t.Cleanup(func() { _ = db.Close() })
	return repo.NewImportJobRepo(db)
}

func TestImportCleanupJob(t *testing.T) {
	jobs := newTestJobRepo(t)
	ctx := context.Background()

	old := time.Now().Add(-48 * time.Hour).Unix()
	recent := time.Now().Unix()

	seed := []struct {
		id     string
		status int
		mtime  int64
	}{
		{"old-done", model.ImportJobStatusDone, old},
		{"old-failed", model.ImportJobStatusFailed, old},
		{"old-running", model.ImportJobStatusRunning, old},
		{"recent-done", model.ImportJobStatusDone, recent},
	}
	for _, row := range seed {
		require.NoError(t, jobs.Create(ctx, &model.ImportJob{
			ID:     row.id,
			TaskID: "task-" + row.id,
			Status: row.status,
			Ctime:  row.mtime,
			Mtime:  row.mtime,
		}))
	}

	cleanup := NewImportCleanupJob(jobs, 24*time.Hour)
	require.Equal(t, "import_cleanup", cleanup.Name())
	require.NoError(t, cleanup.Run(ctx))

	// running jobs survive no matter how old, recent terminal jobs survive
	_, err := jobs.Get(ctx, "old-running")
	require.NoError(t, err)
	_, err = jobs.Get(ctx, "recent-done")
	require.NoError(t, err)

	_, err = jobs.Get(ctx, "old-done")
	require.Error(t, err)
	_, err = jobs.Get(ctx, "old-failed")
	require.Error(t, err)
}
