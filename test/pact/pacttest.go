//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	petdomain "github.com/Apurer/petstore-api-harness/internal/domains/pets/domain"
	storedomain "github.com/Apurer/petstore-api-harness/internal/domains/store/domain"
	userdomain "github.com/Apurer/petstore-api-harness/internal/domains/users/domain"
	"github.com/Apurer/petstore-api-harness/internal/shared/optional"
)

const (
	ProviderName = "petstore-api"
	ConsumerName = "petstore-harness"

	StatePetsBaseline = "pets baseline"
	StatePetExists    = "pet with id 101 exists"
	StatePetMissing   = "no pet with id 404"
	StatePetsSearch   = "available pets exist"
	StateOrdersBase   = "store orders baseline"
	StateOrderExists  = "order with id 301 exists"
	StateInventory    = "store inventory seeded"
	StateUserExists   = "user pact-user exists"
	StateUserMissing  = "no user ghost-user"
)

const (
	ExistingPetID int64 = 101
	MissingPetID  int64 = 404

	ExistingOrderID int64 = 301

	UserPrimaryUsername = "pact-user"
	MissingUsername     = "ghost-user"
	UserPassword        = "pact-pass"
)

const (
	examplePhotoURL = "https://example.pact/pets/fluffy.png"
	examplePetName  = "Fluffy Pact Cat"
	exampleShipDate = "2024-06-12T10:00:00.000Z"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the harness consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExamplePet is the pet every pet interaction is built around.
func ExamplePet() *petdomain.Pet {
	return &petdomain.Pet{
		ID:        optional.Of(ExistingPetID),
		Name:      examplePetName,
		PhotoURLs: []string{examplePhotoURL},
		Status:    petdomain.StatusAvailable,
	}
}

// ExampleOrder references ExamplePet.
func ExampleOrder() *storedomain.Order {
	return &storedomain.Order{
		ID:       optional.Of(ExistingOrderID),
		PetID:    optional.Of(ExistingPetID),
		Quantity: optional.Of(int32(2)),
		ShipDate: exampleShipDate,
		Status:   storedomain.StatusApproved,
		Complete: optional.Of(true),
	}
}

// ExampleUser is the account used by login interactions.
func ExampleUser() *userdomain.User {
	return &userdomain.User{
		ID:         optional.Of(int64(501)),
		Username:   UserPrimaryUsername,
		FirstName:  "Pact",
		LastName:   "User",
		Email:      "pact.user@example.com",
		Password:   UserPassword,
		Phone:      "+1234567890",
		UserStatus: 1,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
