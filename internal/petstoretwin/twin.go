// Package petstoretwin is an in-process stand-in for the Swagger Petstore v2
// API. It reproduces the status codes and {code,type,message} bodies the
// public service returns, so the harness can be exercised without network
// access. It is a test double and is not shipped as a binary.
package petstoretwin

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	petdomain "github.com/Apurer/petstore-api-harness/internal/domains/pets/domain"
	storedomain "github.com/Apurer/petstore-api-harness/internal/domains/store/domain"
	userdomain "github.com/Apurer/petstore-api-harness/internal/domains/users/domain"
	apierrors "github.com/Apurer/petstore-api-harness/internal/shared/errors"
	"github.com/Apurer/petstore-api-harness/internal/shared/optional"
)

// BasePath is the prefix every route is served under.
const BasePath = "/v2"

const serviceName = "petstore-twin"

// Twin holds the in-memory state behind the router.
type Twin struct {
	pets   *petRepository
	orders *orderRepository
	users  *userRepository

	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	seed           bool
}

// Option customises a Twin.
type Option func(*Twin)

// WithLogger logs one record per handled request.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Twin) {
		t.logger = logger
	}
}

// WithTracerProvider instruments the router with otelgin.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(t *Twin) {
		t.tracerProvider = tp
	}
}

// WithoutSeed starts the twin empty instead of with the sample catalog.
func WithoutSeed() Option {
	return func(t *Twin) {
		t.seed = false
	}
}

// New builds a twin, seeded with a few available pets unless WithoutSeed is given.
func New(opts ...Option) *Twin {
	t := &Twin{
		pets:   newPetRepository(),
		orders: newOrderRepository(),
		users:  newUserRepository(),
		seed:   true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	if t.logger == nil {
		t.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	t.Reset()
	return t
}

// Reset drops all state and re-applies the seed. It is safe to call while the
// router is serving.
func (t *Twin) Reset() {
	t.pets.clear()
	t.orders.clear()
	t.users.clear()
	if !t.seed {
		return
	}
	for i, name := range []string{"doggie", "kitty", "birdie"} {
		t.pets.save(&petdomain.Pet{
			ID:        optional.Of(int64(i + 1)),
			Category:  &petdomain.Category{ID: optional.Of(int64(i + 1)), Name: "Samples"},
			Name:      name,
			PhotoURLs: []string{"http://example.com/" + name + ".jpg"},
			Status:    petdomain.StatusAvailable,
		})
	}
}

// SeedPet stores pet as-is and returns the stored copy.
func (t *Twin) SeedPet(pet *petdomain.Pet) *petdomain.Pet { return t.pets.save(pet) }

// SeedOrder stores order as-is and returns the stored copy.
func (t *Twin) SeedOrder(order *storedomain.Order) *storedomain.Order { return t.orders.save(order) }

// SeedUser stores user as-is and returns the stored copy.
func (t *Twin) SeedUser(user *userdomain.User) *userdomain.User { return t.users.save(user) }

// Router returns a gin engine serving the API under BasePath.
func (t *Twin) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if t.tracerProvider != nil {
		router.Use(otelgin.Middleware(serviceName, otelgin.WithTracerProvider(t.tracerProvider)))
	}
	router.Use(t.accessLog())
	router.NoRoute(func(c *gin.Context) {
		apierrors.Respond(c, http.StatusNotFound, apierrors.APIResponse{Code: http.StatusNotFound, Type: apierrors.TypeUnknown})
	})

	v2 := router.Group(BasePath)
	v2.POST("/pet", t.addPet)
	v2.PUT("/pet", t.updatePet)
	v2.GET("/pet/findByStatus", t.findPetsByStatus)
	v2.GET("/pet/:petId", t.getPetByID)
	v2.POST("/pet/:petId", t.updatePetWithForm)
	v2.DELETE("/pet/:petId", t.deletePet)

	v2.POST("/store/order", t.placeOrder)
	v2.GET("/store/order/:orderId", t.getOrderByID)
	v2.DELETE("/store/order/:orderId", t.deleteOrder)
	v2.GET("/store/inventory", t.getInventory)

	v2.POST("/user", t.createUser)
	v2.GET("/user/login", t.loginUser)
	v2.GET("/user/logout", t.logoutUser)
	v2.GET("/user/:username", t.getUserByName)
	v2.PUT("/user/:username", t.updateUser)
	v2.DELETE("/user/:username", t.deleteUser)
	return router
}

func (t *Twin) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		t.logger.LogAttrs(c.Request.Context(), slog.LevelDebug, "twin request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
		)
	}
}

// parseIDParam reads a non-negative integer path parameter, answering 400 otherwise.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id < 0 {
		apierrors.BadRequest(c, "Invalid ID supplied")
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		apierrors.BadRequest(c, "")
		return false
	}
	return true
}
