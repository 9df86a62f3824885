//go:build pact
// +build pact

package provider_test

import (
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pact-foundation/pact-go/v2/models"
	pactprovider "github.com/pact-foundation/pact-go/v2/provider"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/petstore-api-harness/internal/petstoretwin"
	pacttest "github.com/Apurer/petstore-api-harness/test/pact"
)

func TestPetstoreProviderPact(t *testing.T) {
	gin.SetMode(gin.TestMode)

	twin := petstoretwin.New(petstoretwin.WithoutSeed())
	server := httptest.NewServer(twin.Router())
	t.Cleanup(server.Close)

	pactFile := filepath.ToSlash(pacttest.PactFile(t))
	if _, err := os.Stat(pactFile); errors.Is(err, os.ErrNotExist) {
		t.Fatalf("pact file not found at %s - run the pact consumer tests first", pactFile)
	} else {
		require.NoError(t, err)
	}

	// state returns a handler that resets the twin and, on setup, applies seed.
	state := func(seed func()) models.StateHandler {
		return func(setup bool, _ models.ProviderState) (models.ProviderStateResponse, error) {
			twin.Reset()
			if setup && seed != nil {
				seed()
			}
			return nil, nil
		}
	}
	seedPet := func() { twin.SeedPet(pacttest.ExamplePet()) }

	verifier := pactprovider.NewVerifier()
	err := verifier.VerifyProvider(t, pactprovider.VerifyRequest{
		ProviderBaseURL: server.URL,
		Provider:        pacttest.ProviderName,
		PactFiles:       []string{pactFile},
		StateHandlers: models.StateHandlers{
			pacttest.StatePetsBaseline: state(nil),
			pacttest.StatePetExists:    state(seedPet),
			pacttest.StatePetMissing:   state(nil),
			pacttest.StatePetsSearch:   state(seedPet),
			pacttest.StateOrdersBase:   state(seedPet),
			pacttest.StateOrderExists: state(func() {
				seedPet()
				twin.SeedOrder(pacttest.ExampleOrder())
			}),
			pacttest.StateInventory:   state(seedPet),
			pacttest.StateUserExists:  state(func() { twin.SeedUser(pacttest.ExampleUser()) }),
			pacttest.StateUserMissing: state(nil),
		},
		BeforeEach: func() error {
			twin.Reset()
			return nil
		},
	})
	require.NoError(t, err)
}
