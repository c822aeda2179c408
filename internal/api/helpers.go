package api

import (
	"context"

	"github.com/notekeeperapp/notekeeper/internal/domain"
	domainerrors "github.com/notekeeperapp/notekeeper/internal/errors"
	"github.com/notekeeperapp/notekeeper/internal/service"
)

// authenticateRequest validates the Authorization header and returns the user.
// Every failure is the same 401 so callers cannot probe which part was wrong.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (*domain.User, error) {
	token, ok := bearerToken(authHeader)
	if !ok {
		return nil, domainerrors.Unauthorized(service.MsgInvalidCredentials)
	}
	return s.services.Auth.Authenticate(ctx, token)
}
