package errors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Respond writes body with the given HTTP status as application/json.
func Respond(c *gin.Context, status int, body APIResponse) {
	c.JSON(status, body)
}

// RespondError writes err as an APIResponse. Bodies that are not already an
// APIResponse are reported as internal errors.
func RespondError(c *gin.Context, status int, err error) {
	var body APIResponse
	if errors.As(err, &body) {
		Respond(c, status, body)
		return
	}
	Respond(c, http.StatusInternalServerError, ErrInternal)
}

// NotFoundResponse sends the 404 body for the named resource.
func NotFoundResponse(c *gin.Context, resource string) {
	Respond(c, http.StatusNotFound, NotFound(resource))
}

// BadRequest sends the generic 400 body, optionally with a custom message.
func BadRequest(c *gin.Context, message string) {
	body := ErrBadInput
	if message != "" {
		body = body.WithMessage(message)
	}
	Respond(c, http.StatusBadRequest, body)
}

// AckResponse sends a 200 acknowledgement carrying message.
func AckResponse(c *gin.Context, message string) {
	Respond(c, http.StatusOK, Ack(message))
}
