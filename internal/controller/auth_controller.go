package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"game-data-hub/internal/service"
)

type AuthController struct {
	base
	service service.AuthService
}

func NewAuthController(service service.AuthService) *AuthController {
	return &AuthController{
		base:    newBase(),
		service: service,
	}
}

// Register godoc
// @Summary Register a user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterRequest true "Registration"
// @Success 201 {object} response.StandardResponse{data=model.User}
// @Failure 409 {object} response.StandardResponse
// @Router /api/v1/auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req service.RegisterRequest
	if !ac.bindJSON(c, &req) {
		return
	}

	user, err := ac.service.Register(c.Request.Context(), &req)
	if err != nil {
		ac.sendError(c, err)
		return
	}
	ac.sendSuccess(c, http.StatusCreated, user)
}

// Login godoc
// @Summary Exchange credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginRequest true "Credentials"
// @Success 200 {object} response.StandardResponse{data=service.LoginResponse}
// @Failure 401 {object} response.StandardResponse
// @Router /api/v1/auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req service.LoginRequest
	if !ac.bindJSON(c, &req) {
		return
	}

	resp, err := ac.service.Login(c.Request.Context(), &req)
	if err != nil {
		ac.sendError(c, err)
		return
	}
	ac.sendSuccess(c, http.StatusOK, resp)
}

// Me returns the authenticated user
func (ac *AuthController) Me(c *gin.Context) {
	userID, ok := ac.userID(c)
	if !ok {
		return
	}

	user, err := ac.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		ac.sendError(c, err)
		return
	}
	ac.sendSuccess(c, http.StatusOK, user)
}
