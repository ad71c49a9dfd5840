package handlers

import (
	"errors"

	"github.com/Hangeony/DOT-DAILY/internal/config"
	"github.com/Hangeony/DOT-DAILY/internal/database"
	"github.com/Hangeony/DOT-DAILY/internal/middleware"
	"github.com/Hangeony/DOT-DAILY/internal/models"
	"github.com/Hangeony/DOT-DAILY/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	service     *services.AuthService
	userService *services.UserService
	cfg         *config.Config
}

func NewAuthHandler(db *database.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		service:     services.NewAuthService(db, cfg),
		userService: services.NewUserService(db),
		cfg:         cfg,
	}
}

func SetupAuthRoutes(router fiber.Router, db *database.DB, cfg *config.Config) {
	h := NewAuthHandler(db, cfg)

	router.Post("/signup", h.Signup)
	router.Post("/login", h.Login)
	router.Post("/refresh", h.Refresh)
	router.Post("/google/login", h.GoogleLogin)
	router.Post("/kakao/login", h.KakaoLogin)

	router.Post("/logout", middleware.AuthRequired(cfg), h.Logout)
	router.Get("/me", middleware.AuthRequired(cfg), h.GetMe)
	router.Put("/me", middleware.AuthRequired(cfg), h.UpdateMe)
}

// Signup godoc
// @Summary User signup
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.SignupRequest true "Signup data"
// @Success 201 {object} services.SessionResult
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req services.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.service.Signup(&req)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": fiber.Map{verr.Field: verr.Message},
			})
		}
		if errors.Is(err, models.ErrEmailTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// Login godoc
// @Summary User login
// @Description 존재하지 않는 계정은 최상위 message로, 비밀번호 불일치는 필드 에러로 내려간다
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.LoginRequest true "Login credentials"
// @Success 200 {object} services.SessionResult
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.service.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUserNotFound):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": err.Error(),
			})
		case errors.Is(err, models.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"errors": fiber.Map{"email": err.Error()},
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	return c.JSON(result)
}

// Refresh godoc
// @Summary Rotate the refresh token and mint a new pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RefreshRequest true "Refresh token"
// @Success 200 {object} services.SessionResult
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req services.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.service.Refresh(req.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(result)
}

// Logout godoc
// @Summary Logout (removes the local provider link only)
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	session := middleware.SessionFromCtx(c)

	if err := h.service.Logout(session.UserID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GoogleLogin godoc
// @Summary Google OAuth login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.SNSLoginRequest true "Google access token"
// @Success 200 {object} services.SessionResult
// @Router /auth/google/login [post]
func (h *AuthHandler) GoogleLogin(c *fiber.Ctx) error {
	var req services.SNSLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.service.GoogleLogin(req.AccessToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(result)
}

// KakaoLogin godoc
// @Summary Kakao OAuth login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.SNSLoginRequest true "Kakao access token"
// @Success 200 {object} services.SessionResult
// @Router /auth/kakao/login [post]
func (h *AuthHandler) KakaoLogin(c *fiber.Ctx) error {
	var req services.SNSLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	result, err := h.service.KakaoLogin(req.AccessToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(result)
}

// GetMe godoc
// @Summary Get current user info
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /auth/me [get]
func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	session := middleware.SessionFromCtx(c)

	user, err := h.userService.GetByID(session.UserID)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"data": user})
}

// UpdateMe godoc
// @Summary Update profile fields
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.UpdateUserRequest true "Update data"
// @Success 200 {object} models.User
// @Router /auth/me [put]
func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	session := middleware.SessionFromCtx(c)

	var req services.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	user, err := h.userService.Update(session.UserID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"data": user})
}
