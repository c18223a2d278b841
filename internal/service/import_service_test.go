package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/readlater/internal/model"
	appErr "github.com/xxxsen/readlater/internal/pkg/errors"
)

const importPage = `<!DOCTYPE html>
<html>
<head>
<title>Import Me</title>
<meta property="og:title" content="Imported Article" />
<meta name="author" content="Ann Author" />
</head>
<body><article><p>Body text for the imported article, long enough to read.</p></article></body>
</html>`

func waitForTerminal(t *testing.T, env *testEnv, jobID string) *model.ImportJob {
	t.Helper()
	var job *model.ImportJob
	require.Eventually(t, func() bool {
		got, err := env.imports.Get(context.Background(), jobID)
		if err != nil {
			return false
		}
		job = got
		return !got.Running()
	}, 5*time.Second, 10*time.Millisecond)
	return job
}

func TestCreateFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(importPage))
	}))
	defer srv.Close()

	env := newTestEnv(t)
	ctx := context.Background()

	job, err := env.imports.CreateFromAPIObject(ctx, ImportAPIObject{URL: srv.URL + "/post"})
	require.NoError(t, err)
	require.NotEmpty(t, job.TaskID)
	require.Equal(t, model.ImportJobStatusRunning, job.Status)

	info, err := job.Info()
	require.NoError(t, err)
	require.Equal(t, srv.URL+"/post", info.SourceURL)
	require.Equal(t, importPage, info.SourceHTML)

	done := waitForTerminal(t, env, job.ID)
	require.Equal(t, model.ImportJobStatusDone, done.Status)

	article, _, err := env.articles.ForURL(ctx, srv.URL+"/post")
	require.NoError(t, err)
	require.NotNil(t, article)
	require.True(t, article.Processed)
	require.Equal(t, "Imported Article", article.EffectiveTitle())
}

func TestCreateFromURLFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.imports.CreateFromAPIObject(ctx, ImportAPIObject{URL: srv.URL})
	require.ErrorIs(t, err, appErr.ErrFetchFailed)

	// a failed fetch leaves no job behind
	jobs, err := env.imports.List(ctx, 10, 0)
	require.NoError(t, err)
	require.Empty(t, jobs)
}

func TestCreateFromHTML(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	job, err := env.imports.CreateFromHTML(ctx, []byte(importPage), "https://example.com/manual")
	require.NoError(t, err)
	require.NotEmpty(t, job.TaskID)

	done := waitForTerminal(t, env, job.ID)
	require.Equal(t, model.ImportJobStatusDone, done.Status)

	article, _, err := env.articles.ForURL(ctx, "https://example.com/manual")
	require.NoError(t, err)
	require.NotNil(t, article)
}

func TestCreateFromHTMLWithoutURLFails(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	job, err := env.imports.CreateFromHTML(ctx, []byte(importPage), "")
	require.NoError(t, err)

	failed := waitForTerminal(t, env, job.ID)
	require.Equal(t, model.ImportJobStatusFailed, failed.Status)

	info, err := failed.Info()
	require.NoError(t, err)
	require.NotEmpty(t, info.ErrorMessage)
	// failure keeps the captured source
	require.Equal(t, importPage, info.SourceHTML)
}

func TestCloseJobTerminalSticky(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	job, err := env.imports.CreateFromHTML(ctx, []byte(importPage), "https://example.com/sticky")
	require.NoError(t, err)
	waitForTerminal(t, env, job.ID)

	_, err = env.imports.CloseJob(ctx, job.ID)
	require.ErrorIs(t, err, appErr.ErrJobClosed)

	_, err = env.imports.FailJob(ctx, job.ID, "late failure")
	require.ErrorIs(t, err, appErr.ErrJobClosed)

	got, err := env.imports.Get(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, model.ImportJobStatusDone, got.Status)

	_, err = env.imports.CloseJob(ctx, "missing")
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
