package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"lpfactory/config"
	"lpfactory/models"
	"lpfactory/utils"
)

// Protected requires a valid dashboard session. The client record is
// stored in c.Locals("client") for downstream handlers.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Try the Authorization header first, then the session cookie.
		var token string
		authHeader := c.Get("Authorization")
		if authHeader != "" {
			tokenParts := strings.Split(authHeader, " ")
			if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid authorization format",
				})
			}
			token = tokenParts[1]
		} else {
			token = c.Cookies(utils.SessionCookieName)
			if token == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Authorization required",
				})
			}
		}

		claims, err := utils.ParseSessionToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired session",
			})
		}

		var client models.Client
		if err := config.DB.First(&client, claims.ClientID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Client not found",
			})
		}

		if !client.IsActive {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Account is not active",
			})
		}

		c.Locals("client", &client)
		return c.Next()
	}
}

// RequireTenant ensures the authenticated client matches the :client
// route parameter, so one tenant's session can never edit another's
// pages.
func RequireTenant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		client, ok := c.Locals("client").(*models.Client)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization required",
			})
		}

		if key := c.Params("client"); key != "" && key != client.ClientKey {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Session does not match this client",
			})
		}

		return c.Next()
	}
}
