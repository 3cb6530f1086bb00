package controllers

import (
	"context"
	"net/http"

	"github.com/SiRoHK/MiniAnazinClone/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthServiceAPI is the surface of the auth service the controller needs.
type AuthServiceAPI interface {
	Register(ctx context.Context, name, email, password string) (uint, error)
	Login(ctx context.Context, email, password string) (string, error)
}

type AuthController struct {
	authService AuthServiceAPI
	logger      *zap.Logger
}

func NewAuthController(authService AuthServiceAPI, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

// Register a new user
func (ac *AuthController) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	userID, err := ac.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "User registered successfully",
		"user_id": userID,
	})
}

// Login handles user authentication and token generation
func (ac *AuthController) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}

	token, err := ac.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, ac.logger, err)
		return
	}

	c.JSON(http.StatusOK, types.LoginResponse{Token: token})
}
