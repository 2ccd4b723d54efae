package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"libraryhub/internal/shared"
	"libraryhub/internal/workerpool"

	"github.com/gin-gonic/gin"
)

// DefaultRequestTimeout applies when a handler is built without a timeout
const DefaultRequestTimeout = 5 * time.Second

// runner carries what every handler needs to run a service call: the I/O
// pool and the timeout bounding the store calls of one request
type runner struct {
	pool    *workerpool.Pool
	timeout time.Duration
}

func newRunner(pool *workerpool.Pool, timeout time.Duration) runner {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return runner{pool: pool, timeout: timeout}
}

// respondError maps error kinds to status codes
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, shared.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, shared.ErrValidationRejected):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, shared.ErrConflict), errors.Is(err, shared.ErrTransactionAborted):
		status = http.StatusConflict
	case errors.Is(err, workerpool.ErrPoolClosed):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status >= http.StatusInternalServerError {
		slog.Error("request_failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"error", err,
		)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return id, true
}

// call runs fn on the I/O pool under the request timeout and writes the
// error response itself when fn fails
func call[T any](c *gin.Context, run runner, fn func(ctx context.Context) (T, error)) (T, bool) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), run.timeout)
	defer cancel()

	var (
		v   T
		err error
	)
	if run.pool == nil {
		v, err = fn(ctx)
	} else {
		v, err = workerpool.Submit(ctx, run.pool, fn)
	}
	if err != nil {
		respondError(c, err)
		return v, false
	}
	return v, true
}

// exec is call for operations without a result
func exec(c *gin.Context, run runner, fn func(ctx context.Context) error) bool {
	_, ok := call(c, run, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return ok
}

func deleted(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}
