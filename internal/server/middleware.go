package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcp-quickstart/mcp-quickstart/internal/logging"
)

// requestLogging tags every incoming request with an id and logs its
// outcome.
func requestLogging(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		ctx = logging.WithFields(ctx, "request.id", uuid.NewString(), "mcp.method", method)
		start := time.Now()
		res, err := next(ctx, method, req)
		elapsed := time.Since(start).Milliseconds()
		if err != nil {
			logging.WarnwCtx(ctx, "mcp request failed", "duration_ms", elapsed, "err", err)
			return res, err
		}
		logging.DebugwCtx(ctx, "mcp request handled", "duration_ms", elapsed)
		return res, nil
	}
}
