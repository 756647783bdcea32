package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"railbook/internal/shared/middleware"
	"railbook/internal/shared/utils/response"
	"railbook/pkg/logger"
)

type Controller interface {
	Captcha(c *gin.Context)
	Login(c *gin.Context)
	Register(c *gin.Context)
	RefreshToken(c *gin.Context)
	Logout(c *gin.Context)
	ChangePassword(c *gin.Context)
	GetMe(c *gin.Context)
}

type controller struct {
	service   Service
	validator *validator.Validate
	logger    *logger.Logger
}

func NewController(service Service) Controller {
	return &controller{
		service:   service,
		validator: validator.New(),
		logger:    logger.GetDefault(),
	}
}

func (ctrl *controller) Captcha(c *gin.Context) {
	captcha, err := ctrl.service.RefreshCaptcha(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to generate captcha", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Captcha generated", captcha, nil)
}

func (ctrl *controller) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	resp, next, err := ctrl.service.Login(c.Request.Context(), middleware.SessionID(c), &req)
	if err != nil {
		var refreshed *CaptchaRefreshedError
		var data interface{}
		if errors.As(err, &refreshed) {
			data = CaptchaResponse{Captcha: refreshed.Captcha}
		}

		switch {
		case errors.Is(err, ErrMissingFields):
			response.RespondJSON(c, "error", http.StatusBadRequest, "Please fill in all fields", nil, nil)
		case errors.Is(err, ErrInvalidCaptcha):
			ctrl.logger.LogAuthFailure(c.Request.Context(), "invalid captcha", c.ClientIP())
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid captcha. Please try again.", data, nil)
		case errors.Is(err, ErrInvalidCredentials):
			ctrl.logger.LogAuthFailure(c.Request.Context(), "invalid credentials", c.ClientIP())
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid username or password. Please try again.", data, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to login", nil, nil)
		}
		return
	}

	message := "Login successful! Redirecting to dashboard..."
	if resp.User.Role == "ADMIN" {
		message = "Admin login successful! Redirecting to admin panel..."
	}
	response.RespondWithNext(c, "success", http.StatusOK, message, resp, nil, next)
}

func (ctrl *controller) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	next, err := ctrl.service.Register(c.Request.Context(), middleware.SessionID(c), &req)
	if err != nil {
		var regErr *RegistrationError
		if errors.As(err, &regErr) {
			response.RespondJSON(c, "error", http.StatusBadRequest, regErr.Message, nil, regErr)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to register", nil, nil)
		return
	}

	response.RespondWithNext(c, "success", http.StatusOK,
		"Registration successful! You can now login with your credentials.", nil, nil, next)
}

func (ctrl *controller) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	tokenPair, err := ctrl.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidToken):
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid or expired refresh token", nil, nil)
		case errors.Is(err, ErrUserNotFound):
			response.RespondJSON(c, "error", http.StatusUnauthorized, "User not found", nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to refresh token", nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Token refreshed successfully", tokenPair, nil)
}

func (ctrl *controller) Logout(c *gin.Context) {
	next, err := ctrl.service.Logout(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to log out", nil, nil)
		return
	}

	response.RespondWithNext(c, "success", http.StatusOK, "Logged out successfully", nil, nil, next)
}

func (ctrl *controller) ChangePassword(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	err := ctrl.service.ChangePassword(c.Request.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingFields):
			response.RespondJSON(c, "error", http.StatusBadRequest, "Please fill in all fields", nil, nil)
		case errors.Is(err, ErrWeakPassword):
			response.RespondJSON(c, "error", http.StatusBadRequest, "Password must be at least 6 characters long", nil, nil)
		case errors.Is(err, ErrInvalidCredentials):
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Current password is incorrect", nil, nil)
		case errors.Is(err, ErrUserNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "User not found", nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to change password", nil, nil)
		}
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Password changed successfully", nil, nil)
}

func (ctrl *controller) GetMe(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	me, err := ctrl.service.Me(c.Request.Context(), userID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusNotFound, "User not found", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "User data retrieved successfully", me, nil)
}
