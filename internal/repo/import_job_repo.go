package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/xxxsen/readlater/internal/model"
	appErr "github.com/xxxsen/readlater/internal/pkg/errors"
	"github.com/xxxsen/readlater/internal/pkg/pack"
)

var importJobFields = []string{"id", "task_id", "status", "extra", "ctime", "mtime"}

type ImportJobRepo struct {
	db *sql.DB
}

func NewImportJobRepo(db *sql.DB) *ImportJobRepo {
	return &ImportJobRepo{db: db}
}

func (r *ImportJobRepo) Create(ctx context.Context, job *model.ImportJob) error {
	data := map[string]interface{}{
		"id":      job.ID,
		"task_id": job.TaskID,
		"status":  job.Status,
		"extra":   job.Extra,
		"ctime":   job.Ctime,
		"mtime":   job.Mtime,
	}
	sqlStr, args, err := builder.BuildInsert("import_jobs", []map[string]interface{}{data})
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *ImportJobRepo) Get(ctx context.Context, jobID string) (*model.ImportJob, error) {
	where := map[string]interface{}{"id": jobID}
	sqlStr, args, err := builder.BuildSelect("import_jobs", where, importJobFields)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	if !rows.Next() {
		return nil, appErr.ErrNotFound
	}
	return scanImportJob(rows)
}

func (r *ImportJobRepo) List(ctx context.Context, limit, offset uint) ([]model.ImportJob, error) {
	where := map[string]interface{}{"_orderby": "ctime desc"}
	if limit > 0 {
		where["_limit"] = []uint{offset, limit}
	}
	sqlStr, args, err := builder.BuildSelect("import_jobs", where, importJobFields)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	jobs := make([]model.ImportJob, 0)
	for rows.Next() {
		job, err := scanImportJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// UpdateStatusIf moves a job from one status to another atomically; the
// terminal transitions rely on it to keep DONE and FAILED sticky.
func (r *ImportJobRepo) UpdateStatusIf(ctx context.Context, jobID string, fromStatus, toStatus int, mtime int64) (bool, error) {
	const query = `
		UPDATE import_jobs
		SET status = ?, mtime = ?
		WHERE id = ? AND status = ?
	`
	res, err := r.db.ExecContext(ctx, query, toStatus, mtime, jobID, fromStatus)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// UpdateInfoIf is the failure-path variant of UpdateStatusIf: it rewrites the
// extra bag in the same guarded statement so the error message lands only on
// the transition that wins.
func (r *ImportJobRepo) UpdateInfoIf(ctx context.Context, jobID string, fromStatus, toStatus int, extra pack.Bag, mtime int64) (bool, error) {
	const query = `
		UPDATE import_jobs
		SET status = ?, extra = ?, mtime = ?
		WHERE id = ? AND status = ?
	`
	res, err := r.db.ExecContext(ctx, query, toStatus, extra, mtime, jobID, fromStatus)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeleteTerminalBefore prunes DONE and FAILED jobs last touched before cutoff.
func (r *ImportJobRepo) DeleteTerminalBefore(ctx context.Context, cutoff int64) (int64, error) {
	const query = `DELETE FROM import_jobs WHERE status IN (?, ?) AND mtime < ?`
	res, err := r.db.ExecContext(ctx, query, model.ImportJobStatusDone, model.ImportJobStatusFailed, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanImportJob(rows *sql.Rows) (*model.ImportJob, error) {
	var job model.ImportJob
	if err := rows.Scan(&job.ID, &job.TaskID, &job.Status, &job.Extra, &job.Ctime, &job.Mtime); err != nil {
		return nil, err
	}
	return &job, nil
}
