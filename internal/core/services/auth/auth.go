package auth

import (
	e "authfront/internal/core/domain/errors"
	"authfront/internal/core/domain/user"
	"authfront/internal/core/services"
	getuserbysessiontoken "authfront/internal/core/services/get_user_by_session_token"
	"context"
)

type contextAuthToken string

const CONTEXT_AUTH_TOKEN_KEY = contextAuthToken("authToken")

func WithToken(ctx context.Context, token user.SessionToken) context.Context {
	return context.WithValue(ctx, CONTEXT_AUTH_TOKEN_KEY, token)
}

type Input interface {
	WithAuthenticatedUser(u user.User) Input
}

type service[T Input, S any] struct {
	authenticator services.Service[getuserbysessiontoken.Input, getuserbysessiontoken.Result]
	inner         services.Service[T, S]
}

// WithAuthentication resolves the session token stored in the context and
// passes the user to inner. Without a valid token inner is never called.
func WithAuthentication[T Input, S any](
	authenticator services.Service[getuserbysessiontoken.Input, getuserbysessiontoken.Result],
	inner services.Service[T, S],
) services.Service[T, S] {
	if authenticator == nil {
		panic(e.NewNilArgumentError("authenticator"))
	}
	if inner == nil {
		panic(e.NewNilArgumentError("inner"))
	}
	return &service[T, S]{
		authenticator: authenticator,
		inner:         inner,
	}
}

func (s *service[T, S]) Run(ctx context.Context, input T) (result S, err error) {
	authToken, ok := ctx.Value(CONTEXT_AUTH_TOKEN_KEY).(user.SessionToken)
	if !ok {
		return result, user.ErrInvalidSessionToken
	}
	authenticated, err := s.authenticator.Run(ctx, getuserbysessiontoken.Input{Token: authToken})
	if err != nil {
		return result, err
	}
	return s.inner.Run(ctx, input.WithAuthenticatedUser(authenticated.User).(T))
}
