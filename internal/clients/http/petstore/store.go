package petstore

import (
	"context"
	"net/http"

	"github.com/Apurer/petstore-api-harness/internal/domains/store/domain"
)

// StoreClient issues calls against the /store resource.
type StoreClient struct {
	spec *RequestSpec
}

// NewStoreClient builds a client that owns its own request template.
func NewStoreClient(f *Factory) (*StoreClient, error) {
	spec, err := f.BuildRequestSpec()
	if err != nil {
		return nil, err
	}
	return &StoreClient{spec: spec}, nil
}

// PlaceOrder submits a purchase order.
func (c *StoreClient) PlaceOrder(ctx context.Context, order *domain.Order) (*Response, error) {
	return c.spec.Do(ctx, Call{Method: http.MethodPost, Path: "/store/order", Body: bodyOf(order)})
}

// GetOrderByID fetches an order.
func (c *StoreClient) GetOrderByID(ctx context.Context, id int64) (*Response, error) {
	return c.spec.Do(ctx, Call{
		Method:     http.MethodGet,
		Path:       "/store/order/{orderId}",
		PathParams: map[string]any{"orderId": id},
	})
}

// GetInventory returns the status to quantity map.
func (c *StoreClient) GetInventory(ctx context.Context) (*Response, error) {
	return c.spec.Do(ctx, Call{Method: http.MethodGet, Path: "/store/inventory"})
}

// DeleteOrder cancels an order.
func (c *StoreClient) DeleteOrder(ctx context.Context, id int64) (*Response, error) {
	return c.spec.Do(ctx, Call{
		Method:     http.MethodDelete,
		Path:       "/store/order/{orderId}",
		PathParams: map[string]any{"orderId": id},
	})
}
