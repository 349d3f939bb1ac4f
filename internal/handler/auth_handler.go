package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sidata/backend/internal/auth"
	"github.com/sidata/backend/internal/domain"
	"github.com/sidata/backend/internal/dto"
	"github.com/sidata/backend/internal/middleware"
	"github.com/sidata/backend/internal/repository"
	"go.uber.org/zap"
)

type AuthHandler struct {
	userRepo *repository.UserRepository
	jwt      *auth.JWTService
	logger   *zap.Logger
}

func NewAuthHandler(userRepo *repository.UserRepository, jwt *auth.JWTService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		jwt:      jwt,
		logger:   logger,
	}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse(
			"VALIDATION_ERROR", "Email dan password wajib diisi",
		))
	}

	ctx := c.UserContext()
	user, err := h.userRepo.FindByEmail(ctx, req.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse(
			"INVALID_CREDENTIALS", "Email atau password salah",
		))
	}

	token, err := h.jwt.GenerateAccessToken(user.ID, string(user.Role), user.UptCode)
	if err != nil {
		h.logger.Error("issue token", zap.Error(err))
		return internalError(c, "Gagal membuat token")
	}

	if err := h.userRepo.TouchLastLogin(ctx, user.ID); err != nil {
		h.logger.Warn("update last login", zap.String("user", user.ID.String()), zap.Error(err))
	}

	return c.JSON(dto.SuccessResponse(dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.jwt.Expiry().Seconds()),
		User:        userBrief(user),
	}, "Login berhasil"))
}

// Me returns the account behind the bearer token.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	id, err := uuid.Parse(middleware.GetUserID(c))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "User tidak terautentikasi"))
	}

	user, err := h.userRepo.FindByID(c.UserContext(), id)
	if err != nil {
		if isNotFound(err) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse("UNAUTHORIZED", "User tidak terautentikasi"))
		}
		return internalError(c, "Gagal mengambil data user")
	}
	return c.JSON(dto.SuccessResponse(userBrief(user), ""))
}

func userBrief(u *domain.User) dto.UserBriefDTO {
	return dto.UserBriefDTO{
		ID:      u.ID,
		Email:   u.Email,
		Name:    u.Name,
		Role:    string(u.Role),
		UptCode: u.UptCode,
	}
}
