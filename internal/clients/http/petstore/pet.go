package petstore

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Apurer/petstore-api-harness/internal/domains/pets/domain"
)

// PetClient issues calls against the /pet resource. It performs no local
// validation so invalid records reach the remote service untouched.
type PetClient struct {
	spec *RequestSpec
}

// NewPetClient builds a client that owns its own request template.
func NewPetClient(f *Factory) (*PetClient, error) {
	spec, err := f.BuildRequestSpec()
	if err != nil {
		return nil, err
	}
	return &PetClient{spec: spec}, nil
}

// Create posts a new pet.
func (c *PetClient) Create(ctx context.Context, pet *domain.Pet) (*Response, error) {
	return c.spec.Do(ctx, Call{Method: http.MethodPost, Path: "/pet", Body: bodyOf(pet)})
}

// GetByID fetches a pet.
func (c *PetClient) GetByID(ctx context.Context, id int64) (*Response, error) {
	return c.spec.Do(ctx, Call{
		Method:     http.MethodGet,
		Path:       "/pet/{petId}",
		PathParams: map[string]any{"petId": id},
	})
}

// FindByStatus lists pets in any of the given statuses. Out-of-set values are
// forwarded as-is.
func (c *PetClient) FindByStatus(ctx context.Context, statuses ...domain.Status) (*Response, error) {
	call := Call{Method: http.MethodGet, Path: "/pet/findByStatus"}
	if len(statuses) > 0 {
		values := make([]string, len(statuses))
		for i, s := range statuses {
			values[i] = string(s)
		}
		call.Query = map[string]any{"status": values}
	}
	return c.spec.Do(ctx, call)
}

// Update replaces an existing pet.
func (c *PetClient) Update(ctx context.Context, pet *domain.Pet) (*Response, error) {
	return c.spec.Do(ctx, Call{Method: http.MethodPut, Path: "/pet", Body: bodyOf(pet)})
}

// UpdateWithForm changes name and status through the form endpoint. Empty
// values are left out of the form.
func (c *PetClient) UpdateWithForm(ctx context.Context, id int64, name string, status domain.Status) (*Response, error) {
	form := url.Values{}
	if name != "" {
		form.Set("name", name)
	}
	if status != "" {
		form.Set("status", string(status))
	}
	return c.spec.Do(ctx, Call{
		Method:     http.MethodPost,
		Path:       "/pet/{petId}",
		PathParams: map[string]any{"petId": id},
		Form:       form,
	})
}

// Delete removes a pet.
func (c *PetClient) Delete(ctx context.Context, id int64) (*Response, error) {
	return c.spec.Do(ctx, Call{
		Method:     http.MethodDelete,
		Path:       "/pet/{petId}",
		PathParams: map[string]any{"petId": id},
	})
}

// DeleteWithAPIKey removes a pet sending the api_key header.
func (c *PetClient) DeleteWithAPIKey(ctx context.Context, id int64, apiKey string) (*Response, error) {
	return c.spec.Do(ctx, Call{
		Method:     http.MethodDelete,
		Path:       "/pet/{petId}",
		PathParams: map[string]any{"petId": id},
		Header:     http.Header{"Api_key": []string{apiKey}},
	})
}

// bodyOf keeps a typed nil pointer from being encoded as JSON null.
func bodyOf[T any](v *T) any {
	if v == nil {
		return nil
	}
	return v
}
