package kit

import "context"

type contextKey string

const (
	UserIDKey    contextKey = "kit_user_id"   // chat platform user ID
	ChatIDKey    contextKey = "kit_chat_id"   // conversation the request came from
	TransportKey contextKey = "kit_transport" // "telegram", "http", "mcp"
	RequestIDKey contextKey = "kit_request_id"
)

func WithUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}
func GetUserID(ctx context.Context) int64 {
	v, _ := ctx.Value(UserIDKey).(int64)
	return v
}

func WithChatID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, ChatIDKey, id)
}
func GetChatID(ctx context.Context) int64 {
	v, _ := ctx.Value(ChatIDKey).(int64)
	return v
}

func WithTransport(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, TransportKey, t)
}
func GetTransport(ctx context.Context) string {
	if v, ok := ctx.Value(TransportKey).(string); ok {
		return v
	}
	return "http"
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}
func GetRequestID(ctx context.Context) string {
	v, _ := ctx.Value(RequestIDKey).(string)
	return v
}
