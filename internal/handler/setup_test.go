package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/xxxsen/readlater/internal/fetch"
	"github.com/xxxsen/readlater/internal/handler"
	"github.com/xxxsen/readlater/internal/middleware"
	"github.com/xxxsen/readlater/internal/repo"
	"github.com/xxxsen/readlater/internal/service"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := repo.Open(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, repo.ApplyMigrations(db))
	t.Cleanup(func() { _ = db.Close() })

	tagRepo := repo.NewTagRepo(db)
	taggedRepo := repo.NewTaggedArticleRepo(db)
	tagService := service.NewTagService(tagRepo, taggedRepo)
	articleService := service.NewArticleService(repo.NewArticleRepo(db), repo.NewOriginRepo(db), taggedRepo, tagService, 16)
	importService := service.NewImportService(repo.NewImportJobRepo(db), articleService, fetch.NewClient(5*time.Second, "readlater-test", 0))

	deps := handler.RouterDeps{
		Articles: handler.NewArticleHandler(articleService),
		Tags:     handler.NewTagHandler(tagService),
		Imports:  handler.NewImportHandler(importService),
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(nil),
		),
	)
	require.NoError(t, err)
	return engine
}

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var result envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	return result
}

func decodeData(t *testing.T, env envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}
