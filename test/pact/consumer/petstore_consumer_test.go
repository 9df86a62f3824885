//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/petstore-api-harness/internal/clients/http/petstore"
	petdomain "github.com/Apurer/petstore-api-harness/internal/domains/pets/domain"
	"github.com/Apurer/petstore-api-harness/internal/scenarios"
	v "github.com/Apurer/petstore-api-harness/internal/validator"
	pacttest "github.com/Apurer/petstore-api-harness/test/pact"
)

type mockSettings string

func (s mockSettings) BaseURL() string        { return string(s) }
func (s mockSettings) Timeout() time.Duration { return 10 * time.Second }
func (s mockSettings) LogEnabled() bool       { return false }

func newClients(config pactconsumer.MockServerConfig) (scenarios.Clients, error) {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	client := &http.Client{
		Transport: &http.Transport{TLSClientConfig: config.TLSConfig},
		Timeout:   10 * time.Second,
	}
	factory := petstore.NewFactory(
		mockSettings(fmt.Sprintf("http://%s:%d/v2", host, config.Port)),
		petstore.WithHTTPClient(client),
	)
	return scenarios.NewClients(factory)
}

func TestPetstoreHarnessContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	pet := pacttest.ExamplePet()
	order := pacttest.ExampleOrder()
	user := pacttest.ExampleUser()

	petBody := matchers.Map{
		"id":        matchers.Like(*pet.ID),
		"name":      matchers.Like(pet.Name),
		"photoUrls": matchers.ArrayMinLike(pet.PhotoURLs[0], 1),
		"status":    matchers.Term(string(pet.Status), "available|pending|sold"),
	}
	orderBody := matchers.Map{
		"id":       matchers.Like(*order.ID),
		"petId":    matchers.Like(*order.PetID),
		"quantity": matchers.Like(*order.Quantity),
		"shipDate": matchers.Like(order.ShipDate),
		"status":   matchers.Term(string(order.Status), "placed|approved|delivered"),
		"complete": matchers.Like(*order.Complete),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")

	pact.AddInteraction().
		Given(pacttest.StatePetsBaseline).
		UponReceiving("a request to create a pet").
		WithRequest("POST", "/v2/pet", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(petBody)
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(petBody)
		})

	pact.AddInteraction().
		Given(pacttest.StatePetExists).
		UponReceiving("a request to fetch an existing pet").
		WithRequest("GET", fmt.Sprintf("/v2/pet/%d", pacttest.ExistingPetID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(petBody)
		})

	pact.AddInteraction().
		Given(pacttest.StatePetMissing).
		UponReceiving("a request for a missing pet").
		WithRequest("GET", fmt.Sprintf("/v2/pet/%d", pacttest.MissingPetID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"code":    matchers.Like(1),
				"type":    matchers.S("error"),
				"message": matchers.S("Pet not found"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StatePetsSearch).
		UponReceiving("a request to find available pets").
		WithRequest("GET", "/v2/pet/findByStatus", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("status", matchers.S("available"))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(petBody, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateOrdersBase).
		UponReceiving("a request to place an order").
		WithRequest("POST", "/v2/store/order", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(orderBody)
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderBody)
		})

	pact.AddInteraction().
		Given(pacttest.StateOrderExists).
		UponReceiving("a request to fetch an existing order").
		WithRequest("GET", fmt.Sprintf("/v2/store/order/%d", pacttest.ExistingOrderID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(orderBody)
		})

	pact.AddInteraction().
		Given(pacttest.StateInventory).
		UponReceiving("a request for the store inventory").
		WithRequest("GET", "/v2/store/inventory").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{"available": matchers.Like(1)})
		})

	pact.AddInteraction().
		Given(pacttest.StateUserExists).
		UponReceiving("a login with valid credentials").
		WithRequest("GET", "/v2/user/login", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("username", matchers.S(user.Username))
			b.Query("password", matchers.S(user.Password))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.Header("X-Rate-Limit", matchers.Regex("5000", `\d+`))
			b.JSONBody(matchers.Map{
				"code":    matchers.Like(200),
				"type":    matchers.Like("unknown"),
				"message": matchers.Regex("logged in user session:1b4e28ba-2fa1-11d2-883f-0016d3cca427", `^logged in user session:.+`),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateUserMissing).
		UponReceiving("a request for a missing user").
		WithRequest("GET", "/v2/user/"+pacttest.MissingUsername).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{"message": matchers.S("User not found")})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		clients, err := newClients(config)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		steps := []struct {
			name string
			call func() (*petstore.Response, error)
			want []v.Check
		}{
			{"create pet", func() (*petstore.Response, error) { return clients.Pets.Create(ctx, pet) },
				[]v.Check{v.Status(http.StatusOK), v.IsJSON(), v.Equals("id", pacttest.ExistingPetID)}},
			{"get pet", func() (*petstore.Response, error) { return clients.Pets.GetByID(ctx, pacttest.ExistingPetID) },
				[]v.Check{v.Status(http.StatusOK), v.Equals("name", pet.Name)}},
			{"get missing pet", func() (*petstore.Response, error) { return clients.Pets.GetByID(ctx, pacttest.MissingPetID) },
				[]v.Check{v.Status(http.StatusNotFound), v.MessageContains("not found")}},
			{"find pets", func() (*petstore.Response, error) { return clients.Pets.FindByStatus(ctx, petdomain.StatusAvailable) },
				[]v.Check{v.Status(http.StatusOK), v.Equals("[0].status", petdomain.StatusAvailable)}},
			{"place order", func() (*petstore.Response, error) { return clients.Store.PlaceOrder(ctx, order) },
				[]v.Check{v.Status(http.StatusOK), v.Equals("petId", pacttest.ExistingPetID)}},
			{"get order", func() (*petstore.Response, error) { return clients.Store.GetOrderByID(ctx, pacttest.ExistingOrderID) },
				[]v.Check{v.Status(http.StatusOK), v.Has("shipDate")}},
			{"inventory", func() (*petstore.Response, error) { return clients.Store.GetInventory(ctx) },
				[]v.Check{v.Status(http.StatusOK), v.Has("available")}},
			{"login", func() (*petstore.Response, error) { return clients.Users.Login(ctx, user.Username, user.Password) },
				[]v.Check{v.Status(http.StatusOK), v.MessageContains("logged in user session:")}},
			{"get missing user", func() (*petstore.Response, error) { return clients.Users.GetByUsername(ctx, pacttest.MissingUsername) },
				[]v.Check{v.Status(http.StatusNotFound), v.MessageContains("User not found")}},
		}
		for _, step := range steps {
			resp, err := step.call()
			if err != nil {
				return fmt.Errorf("%s: %w", step.name, err)
			}
			if err := v.All(resp, step.want...); err != nil {
				return fmt.Errorf("%s: %w", step.name, err)
			}
		}
		return nil
	})
	require.NoError(t, err)
}
