package kit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// ErrUnauthorized is returned by AdminOnly for non-admin callers.
var ErrUnauthorized = errors.New("unauthorized")

// RequestID assigns a fresh request ID when the context has none.
func RequestID() Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			if GetRequestID(ctx) == "" {
				ctx = WithRequestID(ctx, uuid.NewString())
			}
			return next(ctx, request)
		}
	}
}

// Audit logs every call with its transport, user, duration and outcome.
func Audit(logger *slog.Logger, operation string) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, request)
			attrs := []any{
				"op", operation,
				"transport", GetTransport(ctx),
				"user", GetUserID(ctx),
				"request_id", GetRequestID(ctx),
				"duration", time.Since(start),
			}
			if err != nil {
				logger.Warn("endpoint failed", append(attrs, "error", err)...)
			} else {
				logger.Debug("endpoint ok", attrs...)
			}
			return resp, err
		}
	}
}

// AdminOnly rejects callers whose user ID is not in the admin set.
func AdminOnly(admins []int64) Middleware {
	allowed := make(map[int64]struct{}, len(admins))
	for _, id := range admins {
		allowed[id] = struct{}{}
	}
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			if _, ok := allowed[GetUserID(ctx)]; !ok {
				return nil, ErrUnauthorized
			}
			return next(ctx, request)
		}
	}
}
