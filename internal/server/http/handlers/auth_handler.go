package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bricklane/storefront/internal/domain/model"
	"github.com/bricklane/storefront/internal/server/http/dto"
	"github.com/bricklane/storefront/internal/server/http/middleware"
)

// AuthHandler processes registration and login.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, token, err := h.facade.Register(c.Request.Context(), req.Login, req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	respondMessage(c, http.StatusOK, "registered", authResponse(user, token))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, token, err := h.facade.Authenticate(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	respondData(c, http.StatusOK, authResponse(user, token))
}

func authResponse(user *model.User, token string) dto.AuthResponse {
	return dto.AuthResponse{
		Token: token,
		User: dto.UserProfile{
			ID:    user.ID,
			Login: user.Login,
			Name:  user.Name,
			Email: user.Email,
			Admin: user.IsAdmin(),
		},
	}
}
