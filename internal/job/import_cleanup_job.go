// Package job holds the scheduled maintenance tasks.
package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/readlater/internal/repo"
)

const defaultJobMaxAge = 7 * 24 * time.Hour

// ImportCleanupJob prunes finished import jobs. Terminal rows carry the full
// source html, so leaving them around grows the database fast.
type ImportCleanupJob struct {
	jobs   *repo.ImportJobRepo
	maxAge time.Duration
}

func NewImportCleanupJob(jobs *repo.ImportJobRepo, maxAge time.Duration) *ImportCleanupJob {
	return &ImportCleanupJob{jobs: jobs, maxAge: maxAge}
}

func (j *ImportCleanupJob) Name() string {
	return "import_cleanup"
}

func (j *ImportCleanupJob) Run(ctx context.Context) error {
	if j.jobs == nil {
		return nil
	}
	maxAge := j.maxAge
	if maxAge <= 0 {
		maxAge = defaultJobMaxAge
	}
	cutoff := time.Now().Add(-maxAge).Unix()
	deleted, err := j.jobs.DeleteTerminalBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	if deleted > 0 {
		logutil.GetLogger(ctx).Info("pruned finished import jobs", zap.Int64("deleted", deleted))
	}
	return nil
}
