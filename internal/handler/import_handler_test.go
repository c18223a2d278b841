package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/readlater/internal/pkg/errcode"
)

const importTestPage = `<!DOCTYPE html>
<html>
<head><title>Handler Import</title><meta property="og:title" content="Handler Import"/></head>
<body><article><p>Some body text for the import.</p></article></body>
</html>`

type importJobResult struct {
	ID     string `json:"id"`
	TaskID string `json:"task_id"`
	Status string `json:"status"`
	Error  string `json:"error"`
}

func pollJob(t *testing.T, router http.Handler, jobID string) importJobResult {
	t.Helper()
	var job importJobResult
	require.Eventually(t, func() bool {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/import-jobs/"+jobID, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		var env envelope
		if err := json.Unmarshal(resp.Body.Bytes(), &env); err != nil || env.Code != 0 {
			return false
		}
		if err := json.Unmarshal(env.Data, &job); err != nil {
			return false
		}
		return job.Status != "running"
	}, 5*time.Second, 10*time.Millisecond)
	return job
}

func TestImportJobFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(importTestPage))
	}))
	defer srv.Close()

	router := setupRouter(t)

	created := doJSON(t, router, http.MethodPost, "/api/v1/import-jobs",
		map[string]interface{}{"url": srv.URL + "/page"})
	require.Zero(t, created.Code)

	var job importJobResult
	decodeData(t, created, &job)
	require.NotEmpty(t, job.TaskID)
	require.Equal(t, "running", job.Status)

	done := pollJob(t, router, job.ID)
	require.Equal(t, "done", done.Status)

	var listed struct {
		Articles []articleResult `json:"articles"`
	}
	all := doJSON(t, router, http.MethodGet, "/api/v1/articles", nil)
	decodeData(t, all, &listed)
	require.Len(t, listed.Articles, 1)
	require.Equal(t, "Handler Import", listed.Articles[0].Title)
}

func TestImportJobFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	router := setupRouter(t)

	failed := doJSON(t, router, http.MethodPost, "/api/v1/import-jobs",
		map[string]interface{}{"url": srv.URL})
	require.Equal(t, errcode.ErrFetchFailed, failed.Code)

	var listed struct {
		Jobs []importJobResult `json:"jobs"`
	}
	all := doJSON(t, router, http.MethodGet, "/api/v1/import-jobs", nil)
	require.Zero(t, all.Code)
	decodeData(t, all, &listed)
	require.Empty(t, listed.Jobs)
}

func TestImportJobFromHTMLAndCallbacks(t *testing.T) {
	router := setupRouter(t)

	created := doJSON(t, router, http.MethodPost, "/api/v1/import-jobs",
		map[string]interface{}{"html": importTestPage, "url": "https://example.com/html"})
	require.Zero(t, created.Code)

	var job importJobResult
	decodeData(t, created, &job)

	done := pollJob(t, router, job.ID)
	require.Equal(t, "done", done.Status)

	// callbacks on a terminal job are rejected
	closed := doJSON(t, router, http.MethodPost, "/api/v1/import-jobs/"+job.ID+"/close", nil)
	require.Equal(t, errcode.ErrJobClosed, closed.Code)

	failed := doJSON(t, router, http.MethodPost, "/api/v1/import-jobs/"+job.ID+"/fail",
		map[string]interface{}{"message": "too late"})
	require.Equal(t, errcode.ErrJobClosed, failed.Code)

	empty := doJSON(t, router, http.MethodPost, "/api/v1/import-jobs", map[string]interface{}{})
	require.Equal(t, errcode.ErrInvalid, empty.Code)
}
