package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/readlater/internal/fetch"
	"github.com/xxxsen/readlater/internal/repo"
)

type testEnv struct {
	articles *ArticleService
	tags     *TagService
	imports  *ImportService
	jobs     *repo.ImportJobRepo
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := repo.Open(":memory:")
	require.NoError(t, err)
	// in-memory sqlite gives every connection its own database
	db.SetMaxOpenConns(1)
	require.NoError(t, repo.ApplyMigrations(db))
	t.Cleanup(func() { _ = db.Close() })

	tagRepo := repo.NewTagRepo(db)
	taggedRepo := repo.NewTaggedArticleRepo(db)
	jobRepo := repo.NewImportJobRepo(db)
	tags := NewTagService(tagRepo, taggedRepo)
	articles := NewArticleService(repo.NewArticleRepo(db), repo.NewOriginRepo(db), taggedRepo, tags, 16)
	imports := NewImportService(jobRepo, articles, fetch.NewClient(5*time.Second, "readlater-test", 0))
	return &testEnv{articles: articles, tags: tags, imports: imports, jobs: jobRepo}
}
