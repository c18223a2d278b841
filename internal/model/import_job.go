package model

import "github.com/xxxsen/readlater/internal/pkg/pack"

// ImportJob status values are persisted; never renumber them. RUNNING is the
// sole initial state, DONE and FAILED are terminal.
const (
	ImportJobStatusRunning = 1
	ImportJobStatusDone    = 2
	ImportJobStatusFailed  = 3
)

var jobInfoContainer = pack.NewContainer[JobInfo]()

func init() {
	pack.EnsureUniqueKeys(JobInfo{})
}

// JobInfo is the packed sub-document of an import job. Stored under key "j"
// of the job extra bag.
type JobInfo struct {
	SourceURL    string `json:"s,omitempty"`
	SourceHTML   string `json:"h,omitempty"`
	ErrorMessage string `json:"e,omitempty"`
}

func (JobInfo) PackKey() string { return "j" }

// ImportJob tracks one asynchronous fetch-and-create operation. TaskID is the
// opaque identifier of the async processing task.
type ImportJob struct {
	ID     string   `json:"id"`
	TaskID string   `json:"task_id"`
	Status int      `json:"status"`
	Extra  pack.Bag `json:"-"`
	Ctime  int64    `json:"ctime"`
	Mtime  int64    `json:"mtime"`
}

func (j *ImportJob) Done() bool {
	return j.Status == ImportJobStatusDone
}

func (j *ImportJob) Failed() bool {
	return j.Status == ImportJobStatusFailed
}

func (j *ImportJob) Running() bool {
	return j.Status == ImportJobStatusRunning
}

func (j *ImportJob) Info() (JobInfo, error) {
	return jobInfoContainer.Load(j.Extra)
}

func (j *ImportJob) SetInfo(info JobInfo) error {
	if j.Extra == nil {
		j.Extra = pack.NewBag()
	}
	return jobInfoContainer.Store(j.Extra, info)
}
