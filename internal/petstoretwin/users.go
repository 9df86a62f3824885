package petstoretwin

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Apurer/petstore-api-harness/internal/domains/users/domain"
	apierrors "github.com/Apurer/petstore-api-harness/internal/shared/errors"
	"github.com/Apurer/petstore-api-harness/internal/shared/optional"
)

const (
	userResource  = "User"
	sessionPrefix = "logged in user session:"
	sessionTTL    = time.Hour
	rateLimit     = 5000
)

func validUser(user *domain.User) bool {
	if strings.TrimSpace(user.Username) == "" {
		return false
	}
	return user.Email == "" || strings.Contains(user.Email, "@")
}

// Post /v2/user
func (t *Twin) createUser(c *gin.Context) {
	var user domain.User
	if !bindJSON(c, &user) {
		return
	}
	if !validUser(&user) {
		apierrors.BadRequest(c, "Invalid user supplied")
		return
	}
	saved := t.users.save(&user)
	apierrors.AckResponse(c, strconv.FormatInt(optional.Value(saved.ID), 10))
}

// Get /v2/user/login
func (t *Twin) loginUser(c *gin.Context) {
	user, err := t.users.get(c.Query("username"))
	if err != nil || user.Password != c.Query("password") {
		apierrors.BadRequest(c, "Invalid username/password supplied")
		return
	}
	c.Header("X-Rate-Limit", strconv.Itoa(rateLimit))
	c.Header("X-Expires-After", time.Now().Add(sessionTTL).UTC().Format(time.RFC1123))
	apierrors.AckResponse(c, sessionPrefix+uuid.NewString())
}

// Get /v2/user/logout
func (t *Twin) logoutUser(c *gin.Context) {
	apierrors.AckResponse(c, "ok")
}

// Get /v2/user/:username
func (t *Twin) getUserByName(c *gin.Context) {
	user, err := t.users.get(c.Param("username"))
	if err != nil {
		apierrors.NotFoundResponse(c, userResource)
		return
	}
	c.JSON(http.StatusOK, user)
}

// Put /v2/user/:username
func (t *Twin) updateUser(c *gin.Context) {
	var user domain.User
	if !bindJSON(c, &user) {
		return
	}
	if !validUser(&user) {
		apierrors.BadRequest(c, "Invalid user supplied")
		return
	}
	saved, err := t.users.replace(c.Param("username"), &user)
	if err != nil {
		apierrors.NotFoundResponse(c, userResource)
		return
	}
	apierrors.AckResponse(c, strconv.FormatInt(optional.Value(saved.ID), 10))
}

// Delete /v2/user/:username
func (t *Twin) deleteUser(c *gin.Context) {
	username := c.Param("username")
	if err := t.users.delete(username); err != nil {
		apierrors.NotFoundResponse(c, userResource)
		return
	}
	apierrors.AckResponse(c, username)
}
