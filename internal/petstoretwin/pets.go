package petstoretwin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/petstore-api-harness/internal/domains/pets/domain"
	apierrors "github.com/Apurer/petstore-api-harness/internal/shared/errors"
)

const petResource = "Pet"

// validPet accepts a pet without photo urls; the public service does too.
func validPet(pet *domain.Pet) bool {
	if pet.ID != nil && *pet.ID < 0 {
		return false
	}
	if pet.Name == "" {
		return false
	}
	return pet.Status == "" || pet.Status.Valid()
}

// Post /v2/pet
func (t *Twin) addPet(c *gin.Context) {
	var pet domain.Pet
	if !bindJSON(c, &pet) {
		return
	}
	if !validPet(&pet) {
		apierrors.BadRequest(c, "Invalid input")
		return
	}
	c.JSON(http.StatusOK, t.pets.save(&pet))
}

// Put /v2/pet
func (t *Twin) updatePet(c *gin.Context) {
	var pet domain.Pet
	if !bindJSON(c, &pet) {
		return
	}
	if pet.ID == nil || !validPet(&pet) {
		apierrors.BadRequest(c, "Invalid ID supplied")
		return
	}
	if _, err := t.pets.get(*pet.ID); err != nil {
		apierrors.NotFoundResponse(c, petResource)
		return
	}
	c.JSON(http.StatusOK, t.pets.save(&pet))
}

// Get /v2/pet/findByStatus
func (t *Twin) findPetsByStatus(c *gin.Context) {
	raw := c.QueryArray("status")
	if len(raw) == 0 {
		apierrors.BadRequest(c, "Invalid status value")
		return
	}
	statuses := make([]domain.Status, 0, len(raw))
	for _, s := range raw {
		status := domain.Status(s)
		if !status.Valid() {
			apierrors.BadRequest(c, "Invalid status value")
			return
		}
		statuses = append(statuses, status)
	}
	c.JSON(http.StatusOK, t.pets.findByStatus(statuses))
}

// Get /v2/pet/:petId
func (t *Twin) getPetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "petId")
	if !ok {
		return
	}
	pet, err := t.pets.get(id)
	if err != nil {
		apierrors.NotFoundResponse(c, petResource)
		return
	}
	c.JSON(http.StatusOK, pet)
}

// Post /v2/pet/:petId
func (t *Twin) updatePetWithForm(c *gin.Context) {
	id, ok := parseIDParam(c, "petId")
	if !ok {
		return
	}
	pet, err := t.pets.get(id)
	if err != nil {
		apierrors.NotFoundResponse(c, petResource)
		return
	}
	if name := c.PostForm("name"); name != "" {
		pet.Name = name
	}
	if status := domain.Status(c.PostForm("status")); status != "" {
		if !status.Valid() {
			apierrors.BadRequest(c, "Invalid input")
			return
		}
		pet.Status = status
	}
	t.pets.save(pet)
	apierrors.AckResponse(c, strconv.FormatInt(id, 10))
}

// Delete /v2/pet/:petId
func (t *Twin) deletePet(c *gin.Context) {
	id, ok := parseIDParam(c, "petId")
	if !ok {
		return
	}
	if err := t.pets.delete(id); err != nil {
		apierrors.NotFoundResponse(c, petResource)
		return
	}
	apierrors.AckResponse(c, strconv.FormatInt(id, 10))
}
