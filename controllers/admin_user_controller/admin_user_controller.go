package admin_user_controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/renthub/renthub/logger"
	"github.com/renthub/renthub/repository"
)

// AdminUserController manages accounts from the admin panel.
type AdminUserController struct {
	store *repository.Store
}

// NewAdminUserController creates and returns a new instance of AdminUserController
func NewAdminUserController(store *repository.Store) (*AdminUserController, error) {
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	return &AdminUserController{store: store}, nil
}

// ListUsers returns all accounts without password hashes.
func (ac *AdminUserController) ListUsers(c *gin.Context) {
	users, err := ac.store.Users.List(c.Request.Context())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to list users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch users"})
		return
	}

	views := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		views = append(views, users[i].PublicView())
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "users": views})
}

// GetUser returns one account with its booking activity summary.
func (ac *AdminUserController) GetUser(c *gin.Context) {
	userID, err := userIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user id"})
		return
	}

	user, err := ac.store.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to fetch user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch user"})
		return
	}

	active, err := ac.store.Bookings.CountActiveForUser(c.Request.Context(), userID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to count bookings for user %d: %v", userID, err)
		active = 0
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user.PublicView(), "activeBookings": active})
}

type updateUserRequest struct {
	FullName    *string `json:"fullName"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phoneNumber"`
}

// UpdateUser edits an account's profile fields in place. Only the fields
// present in the request body change.
func (ac *AdminUserController) UpdateUser(c *gin.Context) {
	logger.InfoLogger.Info("UpdateUser controller hit...")

	userID, err := userIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user id"})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}

	user, err := ac.store.Users.GetByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to fetch user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch user"})
		return
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}

	if err := ac.store.Users.Update(c.Request.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Email already in use"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to update user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User updated", "user": user.PublicView()})
}

type blockRequest struct {
	IsBlocked *bool `json:"isBlocked" binding:"required"`
}

// SetBlocked blocks or unblocks an account. Blocked users cannot log in or
// use their tokens.
func (ac *AdminUserController) SetBlocked(c *gin.Context) {
	logger.InfoLogger.Info("SetBlocked controller hit...")

	userID, err := userIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user id"})
		return
	}

	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "isBlocked is required"})
		return
	}

	if err := ac.store.Users.SetBlocked(c.Request.Context(), userID, *req.IsBlocked); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to set blocked=%t on user %d: %v", *req.IsBlocked, userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update user"})
		return
	}

	logger.InfoLogger.Infof("User %d blocked=%t", userID, *req.IsBlocked)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User updated"})
}

// DeleteUser removes an account. An account with pending or confirmed
// bookings cannot be deleted; the bookings must be resolved first.
func (ac *AdminUserController) DeleteUser(c *gin.Context) {
	logger.InfoLogger.Info("DeleteUser controller hit...")

	userID, err := userIDParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user id"})
		return
	}

	active, err := ac.store.Bookings.CountActiveForUser(c.Request.Context(), userID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to count bookings for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete user"})
		return
	}
	if active > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"message": "User has active bookings and cannot be deleted. Resolve the bookings first.",
		})
		return
	}

	if err := ac.store.Users.Delete(c.Request.Context(), userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to delete user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete user"})
		return
	}

	logger.InfoLogger.Infof("User %d deleted", userID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted"})
}

func userIDParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("user_id"), 10, 64)
}
