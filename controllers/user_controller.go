package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/SiRoHK/MiniAnazinClone/middleware"
	"github.com/SiRoHK/MiniAnazinClone/repository"
	"github.com/SiRoHK/MiniAnazinClone/types"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserController struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewUserController(users repository.UserRepository, logger *zap.Logger) *UserController {
	return &UserController{users: users, logger: logger}
}

// GetProfile returns the caller's own user record. The password hash is
// never serialized.
func (uc *UserController) GetProfile(c *gin.Context) {
	claims, err := middleware.GetClaims(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := uc.users.FindByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		respondError(c, uc.logger, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// ChangeRole sets another user's role. Admin only.
func (uc *UserController) ChangeRole(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req types.ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	found, err := uc.users.ChangeRole(c.Request.Context(), id, req.Role)
	if err != nil {
		respondError(c, uc.logger, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("user with ID %d not found", id)})
		return
	}

	uc.logger.Info("User role changed", zap.Uint("user_id", id), zap.String("role", req.Role))
	c.JSON(http.StatusOK, gin.H{"message": "Role updated"})
}
