package service

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/readlater/internal/fetch"
	"github.com/xxxsen/readlater/internal/model"
	appErr "github.com/xxxsen/readlater/internal/pkg/errors"
	"github.com/xxxsen/readlater/internal/pkg/timeutil"
	"github.com/xxxsen/readlater/internal/processor"
	"github.com/xxxsen/readlater/internal/repo"
)

// ImportAPIObject is the external representation of a fetch request.
type ImportAPIObject struct {
	URL string
}

type ImportService struct {
	jobs     *repo.ImportJobRepo
	articles *ArticleService
	fetcher  *fetch.Client
}

func NewImportService(jobs *repo.ImportJobRepo, articles *ArticleService, fetcher *fetch.Client) *ImportService {
	return &ImportService{jobs: jobs, articles: articles, fetcher: fetcher}
}

func (s *ImportService) CreateFromAPIObject(ctx context.Context, obj ImportAPIObject) (*model.ImportJob, error) {
	if obj.URL == "" {
		return nil, appErr.ErrInvalid
	}
	return s.CreateFromURL(ctx, obj.URL)
}

// CreateFromURL fetches the page synchronously, then hands the HTML to the
// async creation path. A failed fetch aborts before any job is persisted.
func (s *ImportService) CreateFromURL(ctx context.Context, sourceURL string) (*model.ImportJob, error) {
	html, err := s.fetcher.Get(ctx, sourceURL)
	if err != nil {
		return nil, err
	}
	return s.CreateFromHTML(ctx, html, sourceURL)
}

// CreateFromHTML persists a RUNNING job carrying the source HTML and the
// opaque task id, then dispatches processing. The job row is visible before
// the heavy work starts; the caller gets the job back immediately.
func (s *ImportService) CreateFromHTML(ctx context.Context, html []byte, fromURL string) (*model.ImportJob, error) {
	if len(html) == 0 {
		return nil, appErr.ErrInvalid
	}
	now := timeutil.NowUnix()
	job := &model.ImportJob{
		ID:     newID(),
		TaskID: newTaskID(),
		Status: model.ImportJobStatusRunning,
		Ctime:  now,
		Mtime:  now,
	}
	if err := job.SetInfo(model.JobInfo{
		SourceHTML: string(html),
		SourceURL:  fromURL,
	}); err != nil {
		return nil, err
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	go s.runTask(context.Background(), job.ID, job.TaskID, html, fromURL)
	return job, nil
}

func (s *ImportService) Get(ctx context.Context, jobID string) (*model.ImportJob, error) {
	return s.jobs.Get(ctx, jobID)
}

func (s *ImportService) List(ctx context.Context, limit, offset uint) ([]model.ImportJob, error) {
	return s.jobs.List(ctx, limit, offset)
}

// CloseJob moves a RUNNING job to DONE. Terminal jobs stay put: closing a
// closed job reports ErrJobClosed instead of rewriting history.
func (s *ImportService) CloseJob(ctx context.Context, jobID string) (*model.ImportJob, error) {
	ok, err := s.jobs.UpdateStatusIf(ctx, jobID, model.ImportJobStatusRunning, model.ImportJobStatusDone, timeutil.NowUnix())
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, err := s.jobs.Get(ctx, jobID); err != nil {
			return nil, err
		}
		return nil, appErr.ErrJobClosed
	}
	return s.jobs.Get(ctx, jobID)
}

// FailJob moves a RUNNING job to FAILED and records the failure reason in
// the job info.
func (s *ImportService) FailJob(ctx context.Context, jobID, message string) (*model.ImportJob, error) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.Running() {
		return nil, appErr.ErrJobClosed
	}
	info, err := job.Info()
	if err != nil {
		return nil, err
	}
	info.ErrorMessage = message
	if err := job.SetInfo(info); err != nil {
		return nil, err
	}
	ok, err := s.jobs.UpdateInfoIf(ctx, jobID, model.ImportJobStatusRunning, model.ImportJobStatusFailed, job.Extra, timeutil.NowUnix())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, appErr.ErrJobClosed
	}
	return s.jobs.Get(ctx, jobID)
}

// runTask is the async half of an import: extract, save the article, close
// the job. Failures are recorded on the job instead of being lost.
func (s *ImportService) runTask(ctx context.Context, jobID, taskID string, html []byte, fromURL string) {
	logger := logutil.GetLogger(ctx).With(
		zap.String("job_id", jobID),
		zap.String("task_id", taskID),
		zap.String("source_url", fromURL),
	)
	result, err := processor.Extract(html, fromURL)
	if err != nil {
		logger.Error("article extraction failed", zap.Error(err))
		s.recordFailure(ctx, jobID, err.Error())
		return
	}
	targetURL := fromURL
	if targetURL == "" {
		targetURL = result.OpenGraph["url"]
	}
	if targetURL == "" {
		logger.Error("no source url for imported article")
		s.recordFailure(ctx, jobID, "no source url for imported article")
		return
	}
	article, err := s.articles.SaveFetched(ctx, FetchedArticle{
		URL:          targetURL,
		Title:        result.Title,
		Author:       result.Author,
		OpenGraph:    result.OpenGraph,
		Twitter:      result.Twitter,
		FullHTML:     result.FullHTML,
		FullTextHTML: result.FullTextHTML,
	})
	if err != nil {
		logger.Error("save imported article failed", zap.Error(err))
		s.recordFailure(ctx, jobID, err.Error())
		return
	}
	if _, err := s.CloseJob(ctx, jobID); err != nil {
		logger.Error("close job failed", zap.Error(err))
		return
	}
	logger.Info("import job done", zap.String("article_id", article.ID))
}

func (s *ImportService) recordFailure(ctx context.Context, jobID, message string) {
	if _, err := s.FailJob(ctx, jobID, message); err != nil {
		logutil.GetLogger(ctx).Error("record job failure failed",
			zap.String("job_id", jobID), zap.Error(err))
	}
}
