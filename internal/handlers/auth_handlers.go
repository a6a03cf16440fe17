package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"billmint/internal/common"
	"billmint/internal/models"
	"billmint/internal/repositories"
	"billmint/internal/services"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
	userRepo    repositories.UserRepository
	tenantRepo  repositories.TenantRepository
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, userRepo repositories.UserRepository, tenantRepo repositories.TenantRepository) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		userRepo:    userRepo,
		tenantRepo:  tenantRepo,
	}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	models.TokenResponse
	User *models.User `json:"user"`
}

// Login handles user login with email and password
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	user, err := h.userRepo.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil || user == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid email or password")
	}

	tokenResponse, err := h.authService.GenerateTokens(ctx, user.ID, user.TenantID)
	if err != nil {
		log.Printf("WARN: failed to generate tokens for user %s: %v", user.ID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate tokens")
	}

	return c.JSON(http.StatusOK, LoginResponse{
		TokenResponse: *tokenResponse,
		User:          user,
	})
}

// SignupRequest represents the signup request payload. BusinessName creates a
// fresh tenant; TenantID joins an existing one.
type SignupRequest struct {
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=6"`
	FirstName    string  `json:"first_name" validate:"required"`
	LastName     string  `json:"last_name" validate:"required"`
	BusinessName string  `json:"business_name"`
	TenantID     *string `json:"tenant_id"`
}

// SignupResponse represents the signup response
type SignupResponse struct {
	models.TokenResponse
	User *models.User `json:"user"`
}

// Signup handles user registration
func (h *AuthHandlers) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if req.Email == "" || req.Password == "" || req.FirstName == "" || req.LastName == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email, password, first name, and last name are required")
	}
	if len(req.Password) < 6 {
		return echo.NewHTTPError(http.StatusBadRequest, "Password must be at least 6 characters")
	}

	email := strings.ToLower(req.Email)
	existingUser, err := h.userRepo.GetByEmail(ctx, email)
	if err == nil && existingUser != nil {
		return echo.NewHTTPError(http.StatusConflict, "User already exists")
	}

	var tenantID uuid.UUID
	if req.TenantID != nil && *req.TenantID != "" {
		tid, err := common.ValidateUUID(*req.TenantID, "tenant_id")
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid tenant ID format")
		}
		tenant, err := h.tenantRepo.GetByID(ctx, tid)
		if err != nil || tenant == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Tenant not found")
		}
		tenantID = tenant.ID
	} else {
		if req.BusinessName == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "Business name is required for a new account")
		}
		tenant := &models.Tenant{
			ID:        uuid.New(),
			Name:      req.BusinessName,
			Subdomain: subdomainFromName(req.BusinessName),
			Status:    "active",
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := h.tenantRepo.Create(ctx, tenant); err != nil {
			log.Printf("WARN: failed to create tenant %q: %v", req.BusinessName, err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create tenant")
		}
		tenantID = tenant.ID
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Email:        email,
		PasswordHash: string(hashedPassword),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Status:       "active",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := h.userRepo.Create(ctx, user); err != nil {
		log.Printf("WARN: failed to create user %s for tenant %s: %v", user.Email, tenantID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
	}

	tokenResponse, err := h.authService.GenerateTokens(ctx, user.ID, tenantID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate tokens")
	}

	return c.JSON(http.StatusCreated, SignupResponse{
		TokenResponse: *tokenResponse,
		User:          user,
	})
}

// RefreshRequest represents the token refresh request payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	GrantType    string `json:"grant_type" validate:"required"`
}

// Refresh handles token refresh
func (h *AuthHandlers) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Refresh token is required")
	}
	if req.GrantType != "refresh_token" {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid grant type")
	}

	tokenResponse, err := h.authService.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired refresh token")
	}

	return c.JSON(http.StatusOK, tokenResponse)
}

// LogoutRequest represents the logout request payload
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout revokes the caller's refresh token. Access tokens simply expire.
func (h *AuthHandlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if _, ok := common.GetUserIDFromContext(ctx); !ok {
		return common.SendUnauthorizedError(c)
	}

	var req LogoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if req.RefreshToken != "" {
		if err := h.authService.RevokeRefreshToken(ctx, req.RefreshToken); err != nil {
			log.Printf("WARN: failed to revoke refresh token: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to revoke token")
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// Me handles getting current user profile
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return common.SendNotFoundError(c, "user")
	}

	return c.JSON(http.StatusOK, user)
}

// subdomainFromName derives a URL-safe subdomain from the business name.
func subdomainFromName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
