package interceptors

import (
	"context"
	"errors"
	"strings"

	app_errors "github.com/spounge-ai/playerkits/internal/errors"
	"github.com/spounge-ai/playerkits/internal/infra/auth"
	"github.com/spounge-ai/playerkits/internal/infra/ratelimit"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
}

type subjectKey struct{}

// SubjectFromContext returns the authenticated caller, if any.
func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey{}).(string)
	return s
}

// AuthenticationInterceptor requires a valid bearer token on every method
// not listed in exemptMethods and rate limits callers by token subject.
func AuthenticationInterceptor(tokens TokenValidator, limiter ratelimit.Limiter, exemptMethods map[string]bool) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if exemptMethods[info.FullMethod] {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "missing metadata")
		}
		values := md.Get("authorization")
		if len(values) == 0 {
			return nil, status.Error(codes.Unauthenticated, "missing authorization header")
		}
		token, found := strings.CutPrefix(values[0], "Bearer ")
		if !found || token == "" {
			return nil, status.Error(codes.Unauthenticated, "authorization header must be a bearer token")
		}

		claims, err := tokens.ValidateToken(ctx, token)
		if err != nil {
			switch {
			case errors.Is(err, app_errors.ErrAuthorization):
				return nil, status.Error(codes.PermissionDenied, "token scope does not allow admin access")
			case auth.IsExpired(err):
				return nil, status.Error(codes.Unauthenticated, "token expired")
			default:
				return nil, status.Error(codes.Unauthenticated, "invalid token")
			}
		}

		if !limiter.Allow(claims.Subject) {
			return nil, status.Error(codes.ResourceExhausted, "rate limit exceeded")
		}

		return handler(context.WithValue(ctx, subjectKey{}, claims.Subject), req)
	}
}
