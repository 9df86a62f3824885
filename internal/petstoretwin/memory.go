package petstoretwin

import (
	"errors"
	"sort"
	"strings"
	"sync"

	petdomain "github.com/Apurer/petstore-api-harness/internal/domains/pets/domain"
	storedomain "github.com/Apurer/petstore-api-harness/internal/domains/store/domain"
	userdomain "github.com/Apurer/petstore-api-harness/internal/domains/users/domain"
	"github.com/Apurer/petstore-api-harness/internal/shared/optional"
)

var errNotFound = errors.New("not found")

// petRepository is an in-memory pet store keyed by id.
type petRepository struct {
	mu     sync.RWMutex
	pets   map[int64]*petdomain.Pet
	nextID int64
}

func newPetRepository() *petRepository {
	return &petRepository{pets: map[int64]*petdomain.Pet{}}
}

func (r *petRepository) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pets = map[int64]*petdomain.Pet{}
	r.nextID = 0
}

func (r *petRepository) save(pet *petdomain.Pet) *petdomain.Pet {
	clone := pet.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == nil {
		r.nextID++
		for r.pets[r.nextID] != nil {
			r.nextID++
		}
		clone.ID = optional.Of(r.nextID)
	}
	r.pets[*clone.ID] = clone
	return clone.Clone()
}

func (r *petRepository) get(id int64) (*petdomain.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pet, ok := r.pets[id]
	if !ok {
		return nil, errNotFound
	}
	return pet.Clone(), nil
}

func (r *petRepository) delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pets[id]; !ok {
		return errNotFound
	}
	delete(r.pets, id)
	return nil
}

func (r *petRepository) findByStatus(statuses []petdomain.Status) []*petdomain.Pet {
	want := map[petdomain.Status]bool{}
	for _, s := range statuses {
		want[s] = true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*petdomain.Pet, 0)
	for _, pet := range r.pets {
		if want[pet.Status] {
			out = append(out, pet.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return *out[i].ID < *out[j].ID })
	return out
}

func (r *petRepository) inventory() map[string]int {
	counts := map[string]int{}
	for _, s := range petdomain.Statuses() {
		counts[string(s)] = 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, pet := range r.pets {
		if pet.Status != "" {
			counts[string(pet.Status)]++
		}
	}
	return counts
}

// orderRepository is an in-memory order store keyed by id.
type orderRepository struct {
	mu     sync.RWMutex
	orders map[int64]*storedomain.Order
	nextID int64
}

func newOrderRepository() *orderRepository {
	return &orderRepository{orders: map[int64]*storedomain.Order{}}
}

func (r *orderRepository) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = map[int64]*storedomain.Order{}
	r.nextID = 0
}

func (r *orderRepository) save(order *storedomain.Order) *storedomain.Order {
	clone := order.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == nil {
		r.nextID++
		for r.orders[r.nextID] != nil {
			r.nextID++
		}
		clone.ID = optional.Of(r.nextID)
	}
	r.orders[*clone.ID] = clone
	return clone.Clone()
}

func (r *orderRepository) get(id int64) (*storedomain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, errNotFound
	}
	return order.Clone(), nil
}

func (r *orderRepository) delete(id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[id]; !ok {
		return errNotFound
	}
	delete(r.orders, id)
	return nil
}

// userRepository is an in-memory user store keyed by case-insensitive username.
type userRepository struct {
	mu     sync.RWMutex
	users  map[string]*userdomain.User
	nextID int64
}

func newUserRepository() *userRepository {
	return &userRepository{users: map[string]*userdomain.User{}}
}

func normalize(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (r *userRepository) clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = map[string]*userdomain.User{}
	r.nextID = 0
}

func (r *userRepository) save(user *userdomain.User) *userdomain.User {
	clone := user.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	if clone.ID == nil {
		r.nextID++
		clone.ID = optional.Of(r.nextID)
	}
	r.users[normalize(clone.Username)] = clone
	return clone.Clone()
}

func (r *userRepository) get(username string) (*userdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[normalize(username)]
	if !ok {
		return nil, errNotFound
	}
	return user.Clone(), nil
}

// replace stores user in place of the record held under username.
func (r *userRepository) replace(username string, user *userdomain.User) (*userdomain.User, error) {
	clone := user.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[normalize(username)]
	if !ok {
		return nil, errNotFound
	}
	if clone.ID == nil {
		clone.ID = optional.Clone(existing.ID)
	}
	delete(r.users, normalize(username))
	r.users[normalize(clone.Username)] = clone
	return clone.Clone(), nil
}

func (r *userRepository) delete(username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[normalize(username)]; !ok {
		return errNotFound
	}
	delete(r.users, normalize(username))
	return nil
}
