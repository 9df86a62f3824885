package scenarios

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Apurer/petstore-api-harness/internal/clients/http/petstore"
	"github.com/Apurer/petstore-api-harness/internal/domains/users/domain"
	"github.com/Apurer/petstore-api-harness/internal/fixtures"
	v "github.com/Apurer/petstore-api-harness/internal/validator"
)

// UserScenarios covers the /user resource.
func UserScenarios() []Scenario {
	user := func(name, story string, severity Severity, description string, run func(context.Context, *Env) error) Scenario {
		return scenario(FeatureUsers, name, story, severity, description, run)
	}
	return []Scenario{
		user("user/create", "Create User", SeverityCritical, "Create new user with valid data", func(ctx context.Context, env *Env) error {
			u := fixtures.RandomUser()
			resp, err := env.Users.Create(ctx, u)
			deferUserDelete(env, u.Username)
			return expect(resp, err,
				v.Status(http.StatusOK),
				v.Equals("code", 200),
				v.Equals("type", "unknown"),
			)
		}),
		user("user/get-by-username", "Get User", SeverityCritical, "Get user by username", func(ctx context.Context, env *Env) error {
			u, err := createUser(ctx, env)
			if err != nil {
				return err
			}
			resp, err := env.Users.GetByUsername(ctx, u.Username)
			return expect(resp, err,
				v.Status(http.StatusOK),
				v.Equals("username", u.Username),
				v.Equals("email", u.Email),
			)
		}),
		user("user/update", "Update User", SeverityCritical, "Update existing user", func(ctx context.Context, env *Env) error {
			u, err := createUser(ctx, env)
			if err != nil {
				return err
			}
			changed := u.Clone()
			changed.Email = "updated@test.com"
			changed.FirstName = "UpdatedName"
			resp, err := env.Users.Update(ctx, u.Username, changed)
			if err := expect(resp, err, v.Status(http.StatusOK)); err != nil {
				return err
			}
			resp, err = env.Users.GetByUsername(ctx, u.Username)
			return expect(resp, err,
				v.Equals("email", "updated@test.com"),
				v.Equals("firstName", "UpdatedName"),
			)
		}),
		user("user/delete", "Delete User", SeverityCritical, "Delete existing user", func(ctx context.Context, env *Env) error {
			u := fixtures.RandomUser()
			resp, err := env.Users.Create(ctx, u)
			if err := arrange("create user", resp, err); err != nil {
				return err
			}
			resp, err = env.Users.Delete(ctx, u.Username)
			if err := expect(resp, err, v.Status(http.StatusOK)); err != nil {
				return err
			}
			resp, err = env.Users.GetByUsername(ctx, u.Username)
			return expect(resp, err, v.Status(http.StatusNotFound))
		}),
		user("user/login", "User Login", SeverityCritical, "User login with valid credentials", func(ctx context.Context, env *Env) error {
			u, err := createUser(ctx, env)
			if err != nil {
				return err
			}
			resp, err := env.Users.Login(ctx, u.Username, u.Password)
			return expect(resp, err,
				v.Status(http.StatusOK),
				v.Has("message"),
				v.MessageContains("logged in user session"),
			)
		}),
		user("user/logout", "User Logout", SeverityNormal, "User logout", func(ctx context.Context, env *Env) error {
			resp, err := env.Users.Logout(ctx)
			return expect(resp, err, v.Status(http.StatusOK))
		}),
		user("user/get-nonexistent", "Get User - Negative", SeverityNormal, "Get non-existent user", func(ctx context.Context, env *Env) error {
			resp, err := env.Users.GetByUsername(ctx, NonExistentUsername)
			return expect(resp, err, v.Status(http.StatusNotFound), v.Equals("message", "User not found"))
		}),
		user("user/create-invalid", "Create User - Negative", SeverityNormal, "Create user with invalid data", func(ctx context.Context, env *Env) error {
			resp, err := env.Users.Create(ctx, fixtures.InvalidUser())
			return expect(resp, err, v.Status(http.StatusBadRequest))
		}),
		user("user/update-nonexistent", "Update User - Negative", SeverityNormal, "Update non-existent user", func(ctx context.Context, env *Env) error {
			resp, err := env.Users.Update(ctx, NonExistentUsername, fixtures.RandomUser())
			return expect(resp, err, v.Status(http.StatusNotFound))
		}),
		user("user/delete-nonexistent", "Delete User - Negative", SeverityNormal, "Delete non-existent user", func(ctx context.Context, env *Env) error {
			resp, err := env.Users.Delete(ctx, NonExistentUsername)
			return expect(resp, err, v.Status(http.StatusNotFound))
		}),
		user("user/login-invalid", "User Login - Negative", SeverityNormal, "Login with invalid credentials", func(ctx context.Context, env *Env) error {
			resp, err := env.Users.Login(ctx, "invaliduser", "wrongpassword")
			return expect(resp, err, v.Status(http.StatusBadRequest))
		}),
	}
}

// createUser registers a random user and defers its deletion.
func createUser(ctx context.Context, env *Env) (*domain.User, error) {
	u := fixtures.RandomUser()
	resp, err := env.Users.Create(ctx, u)
	if err := arrange("create user", resp, err); err != nil {
		return nil, err
	}
	deferUserDelete(env, u.Username)
	return u, nil
}

func deferUserDelete(env *Env, username string) {
	env.Defer(fmt.Sprintf("delete user %s", username), func(ctx context.Context) (*petstore.Response, error) {
		return env.Users.Delete(ctx, username)
	})
}
