package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/pos80/internal/domain/model"
	"github.com/polkiloo/pos80/internal/server/http/dto"
	"github.com/polkiloo/pos80/internal/server/http/middleware"
	"github.com/polkiloo/pos80/internal/usecase"
)

// AuthHandler processes staff login.
type AuthHandler struct {
	facade AuthFacade
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade) *AuthHandler {
	return &AuthHandler{facade: facade}
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, token, err := h.facade.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.SetAuthCookie(c, token)
	c.JSON(http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  userResponse(user),
	})
}

// CreateUser handles POST /api/users.
func (h *AuthHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.facade.CreateUser(c.Request.Context(), usecase.CreateUserInput{
		Login:    req.Login,
		Name:     req.Name,
		Role:     model.Role(req.Role),
		Password: req.Password,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userResponse(user))
}

func userResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, Login: u.Login, Name: u.Name, Role: string(u.Role)}
}
