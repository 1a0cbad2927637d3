// Package kit holds the transport glue shared by bepgen's exposed surfaces:
// the endpoint shape, middleware chaining, and MCP tool registration.
package kit

import (
	"context"
	"log/slog"
	"time"
)

// Endpoint is the transport-agnostic handler shape: a typed request in, a
// serializable response out.
type Endpoint func(ctx context.Context, req any) (any, error)

// Middleware wraps an Endpoint with cross-cutting behaviour.
type Middleware func(Endpoint) Endpoint

// Chain composes middlewares so the first argument is the outermost.
func Chain(mws ...Middleware) Middleware {
	return func(next Endpoint) Endpoint {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}

// Logging returns a middleware that logs one line per call with the tool
// name, duration, and outcome.
func Logging(logger *slog.Logger, name string) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			if err != nil {
				logger.Warn("tool call failed", "tool", name, "duration", time.Since(start), "error", err)
				return resp, err
			}
			logger.Debug("tool call", "tool", name, "duration", time.Since(start))
			return resp, err
		}
	}
}
