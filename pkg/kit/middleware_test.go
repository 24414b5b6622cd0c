package kit

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

func okEndpoint(_ context.Context, _ any) (any, error) { return "ok", nil }

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next Endpoint) Endpoint {
			return func(ctx context.Context, req any) (any, error) {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	ep := Chain(mw("a"), mw("b"), mw("c"))(okEndpoint)
	if _, err := ep(context.Background(), nil); err != nil {
		t.Fatalf("endpoint: %v", err)
	}
	if len(order) != 3 || order[0] != "a" || order[1] != "b" || order[2] != "c" {
		t.Errorf("order = %v", order)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	ep := RequestID()(func(ctx context.Context, _ any) (any, error) {
		seen = GetRequestID(ctx)
		return nil, nil
	})

	if _, err := ep(context.Background(), nil); err != nil {
		t.Fatalf("endpoint: %v", err)
	}
	if seen == "" {
		t.Error("expected a generated request ID")
	}

	// A preset ID survives.
	ctx := WithRequestID(context.Background(), "fixed")
	if _, err := ep(ctx, nil); err != nil {
		t.Fatalf("endpoint: %v", err)
	}
	if seen != "fixed" {
		t.Errorf("request ID = %q, want fixed", seen)
	}
}

func TestAdminOnly(t *testing.T) {
	ep := AdminOnly([]int64{42})(okEndpoint)

	if _, err := ep(WithUserID(context.Background(), 42), nil); err != nil {
		t.Errorf("admin rejected: %v", err)
	}
	if _, err := ep(WithUserID(context.Background(), 7), nil); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := ep(context.Background(), nil); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized without user, got %v", err)
	}
}

func TestAuditPassesThrough(t *testing.T) {
	boom := errors.New("boom")
	ep := Audit(slog.Default(), "test")(func(_ context.Context, _ any) (any, error) {
		return nil, boom
	})
	if _, err := ep(context.Background(), nil); !errors.Is(err, boom) {
		t.Errorf("audit swallowed error: %v", err)
	}
}
