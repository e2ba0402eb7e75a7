package httpapi

import (
	"context"

	"github.com/riskibarqy/tennis-league/internal/domain/user"
)

type contextKey string

const (
	principalContextKey contextKey = "auth_principal"
	requestIDContextKey contextKey = "request_id"
	routeContextKey     contextKey = "route_info"
)

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(user.Principal)
	return p, ok
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

// routeInfo is filled in by the matched route so outer middleware can label
// logs and metrics with the pattern instead of the raw path.
type routeInfo struct {
	pattern string
}

func withRouteInfo(ctx context.Context) (context.Context, *routeInfo) {
	info := &routeInfo{}
	return context.WithValue(ctx, routeContextKey, info), info
}

func routeInfoFromContext(ctx context.Context) *routeInfo {
	info, _ := ctx.Value(routeContextKey).(*routeInfo)
	return info
}
