package scenarios

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Apurer/petstore-api-harness/internal/clients/http/petstore"
	"github.com/Apurer/petstore-api-harness/internal/domains/store/domain"
	"github.com/Apurer/petstore-api-harness/internal/fixtures"
	"github.com/Apurer/petstore-api-harness/internal/shared/optional"
	v "github.com/Apurer/petstore-api-harness/internal/validator"
)

// StoreScenarios covers the /store resource.
func StoreScenarios() []Scenario {
	store := func(name, story string, severity Severity, description string, run func(context.Context, *Env) error) Scenario {
		return scenario(FeatureStore, name, story, severity, description, run)
	}
	return []Scenario{
		store("store/place-order", "Place Order", SeverityCritical, "Place a new order", func(ctx context.Context, env *Env) error {
			want := fixtures.RandomOrder()
			resp, err := env.Store.PlaceOrder(ctx, want)
			deferOrderCleanup(env, resp)
			return expect(resp, err,
				v.Status(http.StatusOK),
				v.Has("id"),
				v.Equals("petId", want.PetID),
				v.Equals("quantity", want.Quantity),
			)
		}),
		store("store/get-order", "Get Order", SeverityCritical, "Get order by ID", func(ctx context.Context, env *Env) error {
			created, err := placeOrder(ctx, env, fixtures.RandomOrder())
			if err != nil {
				return err
			}
			deferOrderDelete(env, *created.ID)
			resp, err := env.Store.GetOrderByID(ctx, *created.ID)
			return expect(resp, err,
				v.Status(http.StatusOK),
				v.Equals("id", created.ID),
				v.Equals("petId", created.PetID),
			)
		}),
		store("store/delete-order", "Delete Order", SeverityCritical, "Delete existing order", func(ctx context.Context, env *Env) error {
			created, err := placeOrder(ctx, env, fixtures.RandomOrder())
			if err != nil {
				return err
			}
			resp, err := env.Store.DeleteOrder(ctx, *created.ID)
			if err := expect(resp, err, v.Status(http.StatusOK)); err != nil {
				return err
			}
			resp, err = env.Store.GetOrderByID(ctx, *created.ID)
			return expect(resp, err, v.Status(http.StatusNotFound))
		}),
		store("store/inventory", "Get Inventory", SeverityNormal, "Get store inventory", func(ctx context.Context, env *Env) error {
			resp, err := env.Store.GetInventory(ctx)
			if err := expect(resp, err, v.Status(http.StatusOK)); err != nil {
				return err
			}
			var inventory map[string]int
			if err := decode("inventory", resp, &inventory); err != nil {
				return err
			}
			if len(inventory) == 0 {
				return fmt.Errorf("inventory should not be empty")
			}
			return nil
		}),
		store("store/get-nonexistent-order", "Get Order - Negative", SeverityNormal, "Get non-existent order", func(ctx context.Context, env *Env) error {
			resp, err := env.Store.GetOrderByID(ctx, NonExistentID)
			return expect(resp, err, v.Status(http.StatusNotFound), v.Equals("message", "Order not found"))
		}),
		store("store/place-invalid-order", "Place Order - Negative", SeverityNormal, "Place order with invalid data", func(ctx context.Context, env *Env) error {
			resp, err := env.Store.PlaceOrder(ctx, fixtures.InvalidOrder())
			deferOrderCleanup(env, resp)
			return expect(resp, err, v.Status(http.StatusBadRequest))
		}),
		store("store/delete-nonexistent-order", "Delete Order - Negative", SeverityNormal, "Delete non-existent order", func(ctx context.Context, env *Env) error {
			resp, err := env.Store.DeleteOrder(ctx, NonExistentID)
			return expect(resp, err, v.Status(http.StatusNotFound))
		}),
		store("store/get-invalid-order-id", "Get Order - Negative", SeverityMinor, "Get order with invalid ID format", func(ctx context.Context, env *Env) error {
			resp, err := env.Store.GetOrderByID(ctx, InvalidID)
			return expect(resp, err, v.Status(http.StatusBadRequest))
		}),
		store("store/place-incomplete-order", "Place Order - Negative", SeverityNormal, "Place order without required fields", func(ctx context.Context, env *Env) error {
			resp, err := env.Store.PlaceOrder(ctx, fixtures.IncompleteOrder())
			deferOrderCleanup(env, resp)
			return expect(resp, err, v.Status(http.StatusBadRequest))
		}),
	}
}

func placeOrder(ctx context.Context, env *Env, order *domain.Order) (*domain.Order, error) {
	resp, err := env.Store.PlaceOrder(ctx, order)
	if err := arrange("place order", resp, err); err != nil {
		return nil, err
	}
	var created domain.Order
	if err := decode("placed order", resp, &created); err != nil {
		return nil, err
	}
	if created.ID == nil {
		return nil, fmt.Errorf("%w: placed order has no id", errPrecondition)
	}
	return &created, nil
}

func deferOrderDelete(env *Env, id int64) {
	env.Defer(fmt.Sprintf("delete order %d", id), func(ctx context.Context) (*petstore.Response, error) {
		return env.Store.DeleteOrder(ctx, id)
	})
}

func deferOrderCleanup(env *Env, resp *petstore.Response) {
	if resp == nil || resp.StatusCode != http.StatusOK {
		return
	}
	var created domain.Order
	if err := resp.Decode(&created); err != nil || created.ID == nil {
		return
	}
	deferOrderDelete(env, optional.Value(created.ID))
}
