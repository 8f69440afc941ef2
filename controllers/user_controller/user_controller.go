package user_controller

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/renthub/renthub/config"
	redisdb "github.com/renthub/renthub/config/redis"
	"github.com/renthub/renthub/logger"
	"github.com/renthub/renthub/models/shared_models"
	"github.com/renthub/renthub/models/user_models"
	"github.com/renthub/renthub/repository"
	"github.com/renthub/renthub/utils"
	"github.com/renthub/renthub/utils/mail"
)

// otpTTL is how long a password reset code stays valid in Redis.
const otpTTL = 10 * time.Minute

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type UserController struct {
	store *repository.Store
}

// NewUserController creates and returns a new instance of UserController
func NewUserController(store *repository.Store) (*UserController, error) {
	if store == nil {
		return nil, errors.New("store cannot be nil")
	}
	return &UserController{store: store}, nil
}

type registerRequest struct {
	FullName     string `json:"fullName" binding:"required"`
	Email        string `json:"email" binding:"required"`
	PhoneNumber  string `json:"phoneNumber"`
	Password     string `json:"password" binding:"required"`
	AdminID      string `json:"adminId"`
	SecurityCode string `json:"securityCode"`
}

// Register creates a regular user account and returns a session token.
func (uc *UserController) Register(c *gin.Context) {
	logger.InfoLogger.Info("Register controller hit...")
	uc.register(c, false)
}

// RegisterAdmin creates an admin account. The request must carry the admin
// security code and an admin identifier.
func (uc *UserController) RegisterAdmin(c *gin.Context) {
	logger.InfoLogger.Info("RegisterAdmin controller hit...")
	uc.register(c, true)
}

func (uc *UserController) register(c *gin.Context, asAdmin bool) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !emailPattern.MatchString(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid email address"})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password must be at least 6 characters"})
		return
	}

	if asAdmin {
		securityCode := config.GetEnv("ADMIN_SECURITY_CODE", "1575")
		if req.SecurityCode != securityCode {
			logger.WarnLogger.Warnf("Admin registration with wrong security code for %s", req.Email)
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Invalid security code"})
			return
		}
		if req.AdminID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Admin ID is required"})
			return
		}
	}

	hashed, err := user_models.HashPassword(req.Password)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to hash password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create account"})
		return
	}

	user := &user_models.User{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    hashed,
		IsAdmin:     asAdmin,
		AdminID:     req.AdminID,
	}

	created, err := uc.store.Users.Create(c.Request.Context(), user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "An account with this email already exists"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to create user: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create account"})
		return
	}

	token, err := shared_models.GenerateToken(created.ID, created.Email, created.IsAdmin, created.AdminID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to sign token for user %d: %v", created.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create session"})
		return
	}

	logger.InfoLogger.Infof("User %d registered (admin=%t)", created.ID, asAdmin)
	c.JSON(http.StatusCreated, gin.H{"success": true, "token": token, "user": created.PublicView()})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a regular user.
func (uc *UserController) Login(c *gin.Context) {
	logger.InfoLogger.Info("Login controller hit...")
	uc.login(c, false)
}

// AdminLogin authenticates an admin account.
func (uc *UserController) AdminLogin(c *gin.Context) {
	logger.InfoLogger.Info("AdminLogin controller hit...")
	uc.login(c, true)
}

func (uc *UserController) login(c *gin.Context, wantAdmin bool) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := uc.store.Users.GetByEmail(c.Request.Context(), email)
	if err != nil || !user.CheckPassword(req.Password) {
		logger.WarnLogger.Warnf("Failed login attempt for %s", email)
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid email or password"})
		return
	}

	if user.IsBlocked {
		logger.WarnLogger.Warnf("Blocked user %d attempted login", user.ID)
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Account is blocked. Contact support."})
		return
	}

	if wantAdmin && !user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not an admin account"})
		return
	}

	token, err := shared_models.GenerateToken(user.ID, user.Email, user.IsAdmin, user.AdminID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to sign token for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create session"})
		return
	}

	logger.InfoLogger.Infof("User %d logged in (admin=%t)", user.ID, user.IsAdmin)
	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user": user.PublicView()})
}

// GetProfile returns the authenticated account.
func (uc *UserController) GetProfile(c *gin.Context) {
	userVal, exists := c.Get("authenticated_user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not authenticated"})
		return
	}
	user, ok := userVal.(*user_models.User)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Invalid user in context"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user.PublicView()})
}

func otpKey(email string) string {
	return fmt.Sprintf("password_reset_otp:%s", email)
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ForgotPassword issues a reset OTP. The response is the same whether or not
// the account exists, so the endpoint cannot be used to probe for emails.
func (uc *UserController) ForgotPassword(c *gin.Context) {
	logger.InfoLogger.Info("ForgotPassword controller hit...")

	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	respond := func() {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "If the account exists, an OTP has been sent"})
	}

	user, err := uc.store.Users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		respond()
		return
	}

	rdb := redisdb.GetRedisClient()
	if rdb == nil {
		logger.ErrorLogger.Error("Redis unavailable; cannot issue password reset OTP")
		respond()
		return
	}

	otp := utils.GenerateSecureOTP()
	if err := rdb.Set(c.Request.Context(), otpKey(email), utils.HashOTP(otp), otpTTL).Err(); err != nil {
		logger.ErrorLogger.Errorf("Failed to store OTP for %s: %v", email, err)
		respond()
		return
	}

	go func(toEmail, name, code string) {
		if err := mail.SendPasswordResetOTP(toEmail, name, code); err != nil {
			logger.ErrorLogger.Errorf("Failed to send OTP email to %s: %v", toEmail, err)
		}
	}(user.Email, user.FullName, otp)

	respond()
}

type resetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ResetPassword verifies the OTP and replaces the account password. The OTP
// is single-use: it is deleted on success.
func (uc *UserController) ResetPassword(c *gin.Context) {
	logger.InfoLogger.Info("ResetPassword controller hit...")

	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}
	if len(req.NewPassword) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password must be at least 6 characters"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	rdb := redisdb.GetRedisClient()
	if rdb == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "Password reset is temporarily unavailable"})
		return
	}

	storedHash, err := rdb.Get(c.Request.Context(), otpKey(email)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired OTP"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to read OTP for %s: %v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to verify OTP"})
		return
	}

	if utils.HashOTP(req.OTP) != storedHash {
		logger.WarnLogger.Warnf("Wrong OTP submitted for %s", email)
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired OTP"})
		return
	}

	user, err := uc.store.Users.GetByEmail(c.Request.Context(), email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid or expired OTP"})
		return
	}

	hashed, err := user_models.HashPassword(req.NewPassword)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to hash password: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to reset password"})
		return
	}
	user.Password = hashed

	if err := uc.store.Users.Update(c.Request.Context(), user); err != nil {
		logger.ErrorLogger.Errorf("Failed to update password for user %d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to reset password"})
		return
	}

	rdb.Del(c.Request.Context(), otpKey(email))

	logger.InfoLogger.Infof("Password reset for user %d", user.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password has been reset"})
}
