package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"lpfactory/config"
	"lpfactory/models"
	"lpfactory/utils"
)

type LoginRequest struct {
	ClientID string `json:"client_id" validate:"required,min=2,max=64"`
	Password string `json:"password" validate:"required,min=6"`
}

type AuthResponse struct {
	Token  string         `json:"token"`
	Client *models.Client `json:"client"`
}

func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var client models.Client
	if err := config.DB.Where("client_key = ?", req.ClientID).First(&client).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid client or password",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(req.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid client or password",
		})
	}

	if !client.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Account is not active",
		})
	}

	token, err := utils.GenerateSessionToken(&client)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create session",
		})
	}

	now := time.Now()
	client.LastLoginAt = &now
	config.DB.Model(&client).Update("last_login_at", now)

	c.Cookie(&fiber.Cookie{
		Name:     utils.SessionCookieName,
		Value:    token,
		HTTPOnly: true,
		Secure:   config.AppConfig.Environment == "production",
		SameSite: "Strict",
		MaxAge:   86400,
	})

	return c.JSON(AuthResponse{Token: token, Client: &client})
}

func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     utils.SessionCookieName,
		Value:    "",
		HTTPOnly: true,
		MaxAge:   -1,
	})
	return c.SendStatus(fiber.StatusOK)
}

func GetCurrentClient(c *fiber.Ctx) error {
	client := c.Locals("client").(*models.Client)
	return c.JSON(utils.SuccessResponse(client))
}

// UpdateSettings edits the client's notify address and optional
// per-tenant deploy token. The token is sealed before it touches the
// database and never echoed back.
func UpdateSettings(c *fiber.Ctx) error {
	client := c.Locals("client").(*models.Client)

	var req struct {
		NotifyEmail *string `json:"notify_email" validate:"omitempty,email"`
		RepoToken   *string `json:"repo_token"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	updates := map[string]interface{}{}
	if req.NotifyEmail != nil {
		updates["notify_email"] = *req.NotifyEmail
	}
	if req.RepoToken != nil {
		sealed, err := utils.Encrypt(*req.RepoToken)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to store token",
			})
		}
		updates["repo_token"] = sealed
	}
	if len(updates) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Nothing to update",
		})
	}

	if err := config.DB.Model(client).Updates(updates).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update settings",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

// ChangePassword lets a logged-in client rotate their dashboard password.
func ChangePassword(c *fiber.Ctx) error {
	client := c.Locals("client").(*models.Client)

	var req struct {
		CurrentPassword string `json:"current_password" validate:"required"`
		NewPassword     string `json:"new_password" validate:"required,min=8"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := utils.ValidateStruct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(client.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Current password is incorrect",
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update password",
		})
	}

	if err := config.DB.Model(client).Update("password_hash", string(hashed)).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update password",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}
