package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/readlater/internal/model"
	"github.com/xxxsen/readlater/internal/pkg/errcode"
	"github.com/xxxsen/readlater/internal/pkg/response"
	"github.com/xxxsen/readlater/internal/service"
)

type ImportHandler struct {
	imports *service.ImportService
}

func NewImportHandler(imports *service.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

type importRequest struct {
	URL  string `json:"url"`
	HTML string `json:"html"`
}

type importJobView struct {
	ID          string `json:"id"`
	TaskID      string `json:"task_id"`
	Status      string `json:"status"`
	Error       string `json:"error,omitempty"`
	SourceURL   string `json:"source_url,omitempty"`
	DateAdded   int64  `json:"date_added"`
	DateUpdated int64  `json:"date_updated"`
}

func jobStatusName(status int) string {
	switch status {
	case model.ImportJobStatusRunning:
		return "running"
	case model.ImportJobStatusDone:
		return "done"
	case model.ImportJobStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func toImportJobView(job *model.ImportJob) importJobView {
	view := importJobView{
		ID:          job.ID,
		TaskID:      job.TaskID,
		Status:      jobStatusName(job.Status),
		DateAdded:   job.Ctime,
		DateUpdated: job.Mtime,
	}
	if info, err := job.Info(); err == nil {
		view.Error = info.ErrorMessage
		view.SourceURL = info.SourceURL
	}
	return view
}

// Create accepts either a url to fetch or raw html captured by the client.
func (h *ImportHandler) Create(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	var (
		job *model.ImportJob
		err error
	)
	switch {
	case req.HTML != "":
		job, err = h.imports.CreateFromHTML(c.Request.Context(), []byte(req.HTML), req.URL)
	case req.URL != "":
		job, err = h.imports.CreateFromURL(c.Request.Context(), req.URL)
	default:
		response.Error(c, errcode.ErrInvalid, "url or html required")
		return
	}
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, toImportJobView(job))
}

func (h *ImportHandler) Get(c *gin.Context) {
	job, err := h.imports.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, toImportJobView(job))
}

func (h *ImportHandler) List(c *gin.Context) {
	limit := queryUint(c, "limit", 50)
	offset := queryUint(c, "offset", 0)
	jobs, err := h.imports.List(c.Request.Context(), limit, offset)
	if err != nil {
		handleError(c, err)
		return
	}
	views := make([]importJobView, 0, len(jobs))
	for i := range jobs {
		views = append(views, toImportJobView(&jobs[i]))
	}
	response.Success(c, gin.H{"jobs": views})
}

// Close marks a job done. Used by an out-of-process task runner reporting
// completion for the task id it was handed.
func (h *ImportHandler) Close(c *gin.Context) {
	job, err := h.imports.CloseJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, toImportJobView(job))
}

type failRequest struct {
	Message string `json:"message"`
}

func (h *ImportHandler) Fail(c *gin.Context) {
	var req failRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errcode.ErrInvalid, "invalid request")
		return
	}
	if req.Message == "" {
		req.Message = "task failed"
	}
	job, err := h.imports.FailJob(c.Request.Context(), c.Param("id"), req.Message)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, toImportJobView(job))
}
