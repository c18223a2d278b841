package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appErr "github.com/xxxsen/readlater/internal/pkg/errors"
)

func TestClientGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "readlater-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, "readlater-test", 0)
	body, err := client.Get(context.Background(), server.URL)
	require.NoError(t, err)
	require.Equal(t, "<html>ok</html>", string(body))
}

func TestClientGetNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(5*time.Second, "", 0)
	_, err := client.Get(context.Background(), server.URL)
	require.ErrorIs(t, err, appErr.ErrFetchFailed)
}

func TestClientGetBodyLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(make([]byte, 2048))
	}))
	defer server.Close()

	client := NewClient(5*time.Second, "", 1024)
	_, err := client.Get(context.Background(), server.URL)
	require.ErrorIs(t, err, appErr.ErrFetchFailed)
}

func TestClientGetTransportError(t *testing.T) {
	client := NewClient(time.Second, "", 0)
	_, err := client.Get(context.Background(), "http://127.0.0.1:1/unreachable")
	require.ErrorIs(t, err, appErr.ErrFetchFailed)
}
