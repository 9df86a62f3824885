package scenarios

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Apurer/petstore-api-harness/internal/clients/http/petstore"
	"github.com/Apurer/petstore-api-harness/internal/domains/pets/domain"
	"github.com/Apurer/petstore-api-harness/internal/fixtures"
	"github.com/Apurer/petstore-api-harness/internal/shared/optional"
	v "github.com/Apurer/petstore-api-harness/internal/validator"
)

// PetScenarios covers the /pet resource.
func PetScenarios() []Scenario {
	pet := func(name, story string, severity Severity, description string, run func(context.Context, *Env) error) Scenario {
		return scenario(FeaturePets, name, story, severity, description, run)
	}
	return []Scenario{
		pet("pet/create", "Create Pet", SeverityCritical, "Create a new pet with valid data", func(ctx context.Context, env *Env) error {
			want := fixtures.RandomPet()
			resp, err := env.Pets.Create(ctx, want)
			deferPetCleanup(env, resp)
			return expect(resp, err,
				v.Status(http.StatusOK),
				v.Has("id"),
				v.Equals("name", want.Name),
				v.Equals("status", want.Status),
			)
		}),
		pet("pet/get-by-id", "Get Pet", SeverityCritical, "Get pet by valid ID", func(ctx context.Context, env *Env) error {
			created, err := createPet(ctx, env, fixtures.RandomPet())
			if err != nil {
				return err
			}
			resp, err := env.Pets.GetByID(ctx, optional.Value(created.ID))
			return expect(resp, err,
				v.Status(http.StatusOK),
				v.Equals("id", created.ID),
				v.Equals("name", created.Name),
				v.Equals("status", created.Status),
			)
		}),
		pet("pet/update", "Update Pet", SeverityCritical, "Update existing pet with valid data", func(ctx context.Context, env *Env) error {
			created, err := createPet(ctx, env, fixtures.RandomPet())
			if err != nil {
				return err
			}
			changed := created.Clone()
			changed.Name = "Updated Name"
			changed.Status = domain.StatusSold
			resp, err := env.Pets.Update(ctx, changed)
			return expect(resp, err,
				v.Status(http.StatusOK),
				v.Equals("name", "Updated Name"),
				v.Equals("status", domain.StatusSold),
			)
		}),
		pet("pet/delete", "Delete Pet", SeverityCritical, "Delete existing pet", func(ctx context.Context, env *Env) error {
			created, err := postPet(ctx, env, fixtures.RandomPet())
			if err != nil {
				return err
			}
			id := optional.Value(created.ID)
			resp, err := env.Pets.Delete(ctx, id)
			if err := expect(resp, err, v.Status(http.StatusOK)); err != nil {
				return err
			}
			resp, err = env.Pets.GetByID(ctx, id)
			return expect(resp, err, v.Status(http.StatusNotFound))
		}),
		pet("pet/find-by-status", "Find Pets", SeverityNormal, "Find pets by status", func(ctx context.Context, env *Env) error {
			resp, err := env.Pets.FindByStatus(ctx, domain.StatusAvailable)
			if err := expect(resp, err, v.Status(http.StatusOK)); err != nil {
				return err
			}
			var pets []domain.Pet
			if err := decode("pets by status", resp, &pets); err != nil {
				return err
			}
			if len(pets) == 0 {
				return fmt.Errorf("no pets found with status %q", domain.StatusAvailable)
			}
			for _, p := range pets {
				if p.Status != domain.StatusAvailable {
					return fmt.Errorf("pet %d has status %q, want %q", optional.Value(p.ID), p.Status, domain.StatusAvailable)
				}
			}
			return nil
		}),
		pet("pet/create-invalid", "Create Pet - Negative", SeverityNormal, "Create pet with invalid data", func(ctx context.Context, env *Env) error {
			resp, err := env.Pets.Create(ctx, fixtures.InvalidPet())
			deferPetCleanup(env, resp)
			return expect(resp, err, v.Status(http.StatusBadRequest))
		}),
		pet("pet/get-nonexistent", "Get Pet - Negative", SeverityNormal, "Get pet with non-existent ID", func(ctx context.Context, env *Env) error {
			resp, err := env.Pets.GetByID(ctx, NonExistentID)
			return expect(resp, err, v.Status(http.StatusNotFound), v.Equals("message", "Pet not found"))
		}),
		pet("pet/get-invalid-id", "Get Pet - Negative", SeverityMinor, "Get pet with invalid ID format", func(ctx context.Context, env *Env) error {
			resp, err := env.Pets.GetByID(ctx, InvalidID)
			return expect(resp, err, v.Status(http.StatusBadRequest))
		}),
		pet("pet/update-nonexistent", "Update Pet - Negative", SeverityNormal, "Update non-existent pet", func(ctx context.Context, env *Env) error {
			missing := fixtures.RandomPet()
			missing.ID = optional.Of(NonExistentID)
			resp, err := env.Pets.Update(ctx, missing)
			return expect(resp, err, v.Status(http.StatusNotFound))
		}),
		pet("pet/delete-nonexistent", "Delete Pet - Negative", SeverityNormal, "Delete non-existent pet", func(ctx context.Context, env *Env) error {
			resp, err := env.Pets.Delete(ctx, NonExistentID)
			return expect(resp, err, v.Status(http.StatusNotFound))
		}),
		pet("pet/find-by-invalid-status", "Find Pets - Negative", SeverityMinor, "Find pets with invalid status", func(ctx context.Context, env *Env) error {
			resp, err := env.Pets.FindByStatus(ctx, domain.Status("invalid_status"))
			return expect(resp, err, v.Status(http.StatusBadRequest))
		}),
		pet("pet/create-without-photo-urls", "Create Pet - Negative", SeverityNormal, "Create pet without required fields", func(ctx context.Context, env *Env) error {
			resp, err := env.Pets.Create(ctx, fixtures.IncompletePet())
			deferPetCleanup(env, resp)
			// The public service accepts a pet with no photo urls.
			return expect(resp, err, v.Status(http.StatusOK))
		}),
	}
}

// postPet creates pet as an arrange step without registering cleanup.
func postPet(ctx context.Context, env *Env, pet *domain.Pet) (*domain.Pet, error) {
	resp, err := env.Pets.Create(ctx, pet)
	if err := arrange("create pet", resp, err); err != nil {
		return nil, err
	}
	var created domain.Pet
	if err := decode("created pet", resp, &created); err != nil {
		return nil, err
	}
	if created.ID == nil {
		return nil, fmt.Errorf("%w: created pet has no id", errPrecondition)
	}
	return &created, nil
}

// createPet is postPet plus a deferred delete.
func createPet(ctx context.Context, env *Env, pet *domain.Pet) (*domain.Pet, error) {
	created, err := postPet(ctx, env, pet)
	if err != nil {
		return nil, err
	}
	id := *created.ID
	env.Defer(fmt.Sprintf("delete pet %d", id), func(ctx context.Context) (*petstore.Response, error) {
		return env.Pets.Delete(ctx, id)
	})
	return created, nil
}

// deferPetCleanup deletes whatever pet a create call actually stored.
func deferPetCleanup(env *Env, resp *petstore.Response) {
	if resp == nil || resp.StatusCode != http.StatusOK {
		return
	}
	var created domain.Pet
	if err := resp.Decode(&created); err != nil || created.ID == nil {
		return
	}
	id := *created.ID
	env.Defer(fmt.Sprintf("delete pet %d", id), func(ctx context.Context) (*petstore.Response, error) {
		return env.Pets.Delete(ctx, id)
	})
}
