package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/kupfer451/poke-api/internal/domain/errors"
	"github.com/kupfer451/poke-api/internal/domain/model"
	"github.com/kupfer451/poke-api/internal/server/http/dto"
	"github.com/kupfer451/poke-api/internal/server/http/middleware"
)

// AuthHandler processes registration, login and token checks.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed registration payload")
		return
	}

	user, token, err := h.facade.Register(c.Request.Context(), toRegistration(req))
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	resp := toUserResponse(*user)
	c.JSON(http.StatusOK, dto.AuthResponse{Success: true, Message: "user registered", Token: token, User: &resp})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "malformed login payload")
		return
	}

	user, token, err := h.facade.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	resp := toUserResponse(*user)
	c.JSON(http.StatusOK, dto.AuthResponse{Success: true, Message: "login successful", Token: token, User: &resp})
}

// ValidateToken handles POST /api/auth/validate-token. An unusable token is
// reported in the body, not as an error status.
func (h *AuthHandler) ValidateToken(c *gin.Context) {
	var req dto.ValidateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		c.JSON(http.StatusBadRequest, dto.ValidateTokenResponse{Valid: false, Message: "token is required"})
		return
	}

	claims, err := h.facade.ParseToken(req.Token)
	if err != nil {
		c.JSON(http.StatusOK, dto.ValidateTokenResponse{Valid: false, Message: "token is invalid or expired"})
		return
	}
	c.JSON(http.StatusOK, dto.ValidateTokenResponse{
		Valid:   true,
		UserID:  claims.UserID.String(),
		Email:   claims.Email,
		IsAdmin: claims.IsAdmin,
		Message: "token is valid",
	})
}

// Verify handles GET /api/auth/verify/:email.
func (h *AuthHandler) Verify(c *gin.Context) {
	user, err := h.facade.VerifyEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.AuthResponse{Success: false, Message: "user not found"})
			return
		}
		writeError(c, err)
		return
	}
	resp := toUserResponse(*user)
	c.JSON(http.StatusOK, dto.AuthResponse{Success: true, Message: "user found", User: &resp})
}

// CheckEmail handles GET /api/auth/check-email/:email.
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	exists, err := h.facade.EmailExists(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ExistsResponse{Exists: exists})
}

// CheckRut handles GET /api/auth/check-rut/:rut.
func (h *AuthHandler) CheckRut(c *gin.Context) {
	exists, err := h.facade.RutExists(c.Request.Context(), c.Param("rut"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ExistsResponse{Exists: exists})
}

func toRegistration(req dto.RegisterRequest) model.Registration {
	reg := model.Registration{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Rut:      req.Rut,
	}
	if req.IsAdmin != nil {
		reg.IsAdmin = *req.IsAdmin
	}
	return reg
}
