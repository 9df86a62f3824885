package petstore

import (
	"context"
	"net/http"

	"github.com/Apurer/petstore-api-harness/internal/domains/users/domain"
)

// UserClient issues calls against the /user resource.
type UserClient struct {
	spec *RequestSpec
}

// NewUserClient builds a client that owns its own request template.
func NewUserClient(f *Factory) (*UserClient, error) {
	spec, err := f.BuildRequestSpec()
	if err != nil {
		return nil, err
	}
	return &UserClient{spec: spec}, nil
}

// Create registers a user.
func (c *UserClient) Create(ctx context.Context, user *domain.User) (*Response, error) {
	return c.spec.Do(ctx, Call{Method: http.MethodPost, Path: "/user", Body: bodyOf(user)})
}

// GetByUsername fetches a user.
func (c *UserClient) GetByUsername(ctx context.Context, username string) (*Response, error) {
	return c.spec.Do(ctx, Call{
		Method:     http.MethodGet,
		Path:       "/user/{username}",
		PathParams: map[string]any{"username": username},
	})
}

// Update replaces the user stored under username.
func (c *UserClient) Update(ctx context.Context, username string, user *domain.User) (*Response, error) {
	return c.spec.Do(ctx, Call{
		Method:     http.MethodPut,
		Path:       "/user/{username}",
		PathParams: map[string]any{"username": username},
		Body:       bodyOf(user),
	})
}

// Delete removes a user.
func (c *UserClient) Delete(ctx context.Context, username string) (*Response, error) {
	return c.spec.Do(ctx, Call{
		Method:     http.MethodDelete,
		Path:       "/user/{username}",
		PathParams: map[string]any{"username": username},
	})
}

// Login opens a session; credentials travel in the query string.
func (c *UserClient) Login(ctx context.Context, username, password string) (*Response, error) {
	return c.spec.Do(ctx, Call{
		Method: http.MethodGet,
		Path:   "/user/login",
		Query:  map[string]any{"username": username, "password": password},
	})
}

// Logout closes the current session.
func (c *UserClient) Logout(ctx context.Context) (*Response, error) {
	return c.spec.Do(ctx, Call{Method: http.MethodGet, Path: "/user/logout"})
}
