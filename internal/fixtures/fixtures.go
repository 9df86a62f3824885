// Package fixtures generates test records. Valid records draw ids and names
// at random so concurrent runs against a shared Petstore rarely collide; the
// invalid ones are fixed and deliberately break the remote contract.
package fixtures

import (
	"fmt"
	"math/rand/v2"
	"time"

	petdomain "github.com/Apurer/petstore-api-harness/internal/domains/pets/domain"
	storedomain "github.com/Apurer/petstore-api-harness/internal/domains/store/domain"
	userdomain "github.com/Apurer/petstore-api-harness/internal/domains/users/domain"
	"github.com/Apurer/petstore-api-harness/internal/shared/optional"
)

// Id bounds, both inclusive.
const (
	MinID int64 = 100000
	MaxID int64 = 999999
)

// Fixed values used by the generators.
var (
	PetNames   = []string{"Max", "Bella", "Charlie", "Lucy", "Cooper", "Luna"}
	Categories = []string{"Dogs", "Cats", "Birds", "Fish", "Rabbits"}
	PhotoURLs  = []string{"http://example.com/photo1.jpg", "http://example.com/photo2.jpg"}
)

const (
	tagVariants     = 100
	DefaultPassword = "password123"
	ShipDateLayout  = "2006-01-02T15:04:05.000Z07:00"
)

// RandomID returns an id uniformly drawn from [MinID, MaxID].
func RandomID() int64 {
	return MinID + rand.Int64N(MaxID-MinID+1)
}

func pick(values []string) string {
	return values[rand.IntN(len(values))]
}

// RandomPet returns an available pet with a random name, category and tag.
func RandomPet() *petdomain.Pet {
	return &petdomain.Pet{
		ID:        optional.Of(RandomID()),
		Category:  &petdomain.Category{ID: optional.Of(RandomID()), Name: pick(Categories)},
		Name:      pick(PetNames),
		PhotoURLs: append([]string(nil), PhotoURLs...),
		Tags:      []petdomain.Tag{{ID: optional.Of(RandomID()), Name: fmt.Sprintf("tag%d", rand.IntN(tagVariants))}},
		Status:    petdomain.StatusAvailable,
	}
}

// RandomUser returns an active user whose username and email derive from a
// random id.
func RandomUser() *userdomain.User {
	username := fmt.Sprintf("user%d", RandomID())
	return &userdomain.User{
		ID:         optional.Of(RandomID()),
		Username:   username,
		FirstName:  "Test",
		LastName:   "User",
		Email:      username + "@test.com",
		Password:   DefaultPassword,
		Phone:      "1234567890",
		UserStatus: 1,
	}
}

// RandomOrder returns a placed, incomplete order for one to five units of a
// random pet id.
func RandomOrder() *storedomain.Order {
	return &storedomain.Order{
		ID:       optional.Of(RandomID()),
		PetID:    optional.Of(RandomID()),
		Quantity: optional.Of(int32(rand.IntN(5) + 1)),
		ShipDate: time.Now().UTC().Format(ShipDateLayout),
		Status:   storedomain.StatusPlaced,
		Complete: optional.Of(false),
	}
}

// InvalidPet breaks every pet rule: negative id, empty name, no photo urls
// and an unknown status.
func InvalidPet() *petdomain.Pet {
	return &petdomain.Pet{
		ID:     optional.Of(int64(-1)),
		Name:   "",
		Status: petdomain.Status("invalid_status"),
	}
}

// IncompletePet carries a name only.
func IncompletePet() *petdomain.Pet {
	return &petdomain.Pet{Name: "TestPet"}
}

// InvalidOrder uses negative ids and quantity with an unknown status.
func InvalidOrder() *storedomain.Order {
	return &storedomain.Order{
		ID:       optional.Of(int64(-1)),
		PetID:    optional.Of(int64(-1)),
		Quantity: optional.Of(int32(-5)),
		Status:   storedomain.Status("invalid_status"),
	}
}

// IncompleteOrder carries a quantity only.
func IncompleteOrder() *storedomain.Order {
	return &storedomain.Order{Quantity: optional.Of(int32(1))}
}

// InvalidUser has an empty username and a malformed email.
func InvalidUser() *userdomain.User {
	return &userdomain.User{Username: "", Email: "invalid-email"}
}
