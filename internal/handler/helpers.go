package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/readlater/internal/pkg/errcode"
	appErr "github.com/xxxsen/readlater/internal/pkg/errors"
	"github.com/xxxsen/readlater/internal/pkg/response"
)

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err))
	switch {
	case appErr.IsNotFound(err):
		response.Error(c, errcode.ErrNotFound, "not found")
	case appErr.IsAlreadyUpdated(err):
		response.Error(c, errcode.ErrAlreadyUpdated, "already updated")
	case appErr.IsConflict(err):
		response.Error(c, errcode.ErrConflict, "conflict")
	case appErr.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, "invalid request")
	case appErr.Is(err, appErr.ErrFetchFailed):
		response.Error(c, errcode.ErrFetchFailed, "fetch failed")
	case appErr.Is(err, appErr.ErrJobClosed):
		response.Error(c, errcode.ErrJobClosed, "job closed")
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}

func queryUint(c *gin.Context, name string, fallback uint) uint {
	value := c.Query(name)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return uint(parsed)
}

func queryInt64(c *gin.Context, name string, fallback int64) int64 {
	value := c.Query(name)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
