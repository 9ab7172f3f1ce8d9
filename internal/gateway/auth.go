package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mesh-intelligence/docket/pkg/types"
)

// AuthService wraps the /auth endpoints. The API sets the session cookie
// on login; the client jar carries it on every later request.
type AuthService struct {
	c *Client
}

// NewAuthService returns the auth endpoints of c.
func NewAuthService(c *Client) *AuthService { return &AuthService{c: c} }

// Login authenticates and persists the session.
func (s *AuthService) Login(ctx context.Context, email, password string) (types.LoginResponse, error) {
	var resp types.LoginResponse
	body := map[string]string{"email": email, "password": password}
	if err := s.c.sendJSON(ctx, http.MethodPost, "/auth/login", nil, body, &resp); err != nil {
		return types.LoginResponse{}, err
	}
	u := resp.User
	if err := s.c.SetUser(&u); err != nil {
		return resp, err
	}
	return resp, nil
}

// Logout ends the session on the server and forgets it locally. The local
// session is cleared even when the server call fails.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.c.sendJSON(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
	if cerr := s.c.ClearSession(); cerr != nil {
		return errors.Join(err, cerr)
	}
	if errors.Is(err, types.ErrUnauthorized) {
		return nil
	}
	return err
}

// CreateUser registers a user. Only a logged-in admin may call it.
func (s *AuthService) CreateUser(ctx context.Context, data types.CreateUserData) (types.User, error) {
	if err := data.Validate(); err != nil {
		return types.User{}, err
	}
	if !s.IsAuthenticated() {
		return types.User{}, fmt.Errorf("creating user %s: %w", data.Email, types.ErrUnauthorized)
	}
	if !s.IsAdmin() {
		return types.User{}, fmt.Errorf("creating user %s: %w", data.Email, types.ErrForbidden)
	}
	var u types.User
	if err := s.c.sendJSON(ctx, http.MethodPost, "/auth/create-user", nil, data, &u); err != nil {
		return types.User{}, fmt.Errorf("creating user %s: %w", data.Email, err)
	}
	return u, nil
}

// Me fetches the user the session cookie belongs to and records it.
func (s *AuthService) Me(ctx context.Context) (types.User, error) {
	var u types.User
	if err := s.c.getJSON(ctx, "/auth/me", nil, &u); err != nil {
		return types.User{}, err
	}
	if err := s.c.SetUser(&u); err != nil {
		return u, err
	}
	return u, nil
}

// Hydration is the outcome of restoring a session.
type Hydration struct {
	User         *types.User
	Unauthorized bool
}

// Hydrate checks the stored session against /auth/me. Unauthorized is set
// only when the server rejects the session; other failures leave the
// cached user in place and are returned as err.
func (s *AuthService) Hydrate(ctx context.Context) (Hydration, error) {
	u, err := s.Me(ctx)
	switch {
	case err == nil:
		return Hydration{User: &u}, nil
	case errors.Is(err, types.ErrUnauthorized):
		return Hydration{Unauthorized: true}, nil
	default:
		return Hydration{User: s.c.User()}, err
	}
}

// IsAuthenticated reports whether a session user is cached.
func (s *AuthService) IsAuthenticated() bool { return s.c.User() != nil }

// IsAdmin reports whether the cached session user is an admin.
func (s *AuthService) IsAdmin() bool { return s.c.User().IsAdmin() }
