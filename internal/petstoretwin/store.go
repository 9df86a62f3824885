package petstoretwin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/petstore-api-harness/internal/domains/store/domain"
	apierrors "github.com/Apurer/petstore-api-harness/internal/shared/errors"
)

const orderResource = "Order"

func validOrder(order *domain.Order) bool {
	switch {
	case order.ID != nil && *order.ID < 0:
		return false
	case order.PetID == nil || *order.PetID < 0:
		return false
	case order.Quantity == nil || *order.Quantity <= 0:
		return false
	}
	return order.Status == "" || order.Status.Valid()
}

// Post /v2/store/order
func (t *Twin) placeOrder(c *gin.Context) {
	var order domain.Order
	if !bindJSON(c, &order) {
		return
	}
	if !validOrder(&order) {
		apierrors.BadRequest(c, "Invalid Order")
		return
	}
	c.JSON(http.StatusOK, t.orders.save(&order))
}

// Get /v2/store/order/:orderId
func (t *Twin) getOrderByID(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := t.orders.get(id)
	if err != nil {
		apierrors.NotFoundResponse(c, orderResource)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Delete /v2/store/order/:orderId
func (t *Twin) deleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	if err := t.orders.delete(id); err != nil {
		apierrors.NotFoundResponse(c, orderResource)
		return
	}
	apierrors.AckResponse(c, strconv.FormatInt(id, 10))
}

// Get /v2/store/inventory
func (t *Twin) getInventory(c *gin.Context) {
	c.JSON(http.StatusOK, t.pets.inventory())
}
