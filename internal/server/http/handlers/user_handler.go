package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kupfer451/poke-api/internal/domain/model"
	"github.com/kupfer451/poke-api/internal/server/http/dto"
)

// UserHandler serves account administration for administrators.
type UserHandler struct {
	facade UserFacade
}

func NewUserHandler(facade UserFacade) *UserHandler {
	return &UserHandler{facade: facade}
}

// List handles GET /api/users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.facade.Users(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, out)
}

// Get handles GET /api/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.respond(c, http.StatusOK)(h.facade.User(c.Request.Context(), id))
}

// GetByEmail handles GET /api/users/email/:email.
func (h *UserHandler) GetByEmail(c *gin.Context) {
	h.respond(c, http.StatusOK)(h.facade.UserByEmail(c.Request.Context(), c.Param("email")))
}

// Create handles POST /api/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed user payload")
		return
	}
	h.respond(c, http.StatusCreated)(h.facade.CreateUser(c.Request.Context(), toRegistration(req)))
}

// Update handles PATCH /api/users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed user payload")
		return
	}
	patch := model.UserPatch{Username: req.Username, Email: req.Email, Rut: req.Rut}
	h.respond(c, http.StatusOK)(h.facade.UpdateUser(c.Request.Context(), id, patch))
}

// Delete handles DELETE /api/users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.facade.DeleteUser(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) respond(c *gin.Context, status int) func(*model.User, error) {
	return func(user *model.User, err error) {
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(status, toUserResponse(*user))
	}
}
