package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/danieljstvincent/topthreeclub/app/repository"
	"github.com/danieljstvincent/topthreeclub/internal/pkg/usercontext"
)

// HandleGetAccount returns the authenticated member's profile.
func HandleGetAccount(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)

	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(userCtx.UserID)
	if err != nil {
		log.Printf("account lookup failed for user %d: %v", userCtx.UserID, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store_unavailable", "message": "Could not load account"})
	}

	return c.JSON(fiber.Map{
		"id":                   user.ID,
		"name":                 user.Name,
		"email":                user.Email,
		"plan":                 userCtx.Plan,
		"api_key_prefix":       user.APIKeyPrefix,
		"api_key_created_at":   formatTimePtr(user.APIKeyCreatedAt),
		"api_key_last_used_at": formatTimePtr(user.APIKeyLastUsedAt),
	})
}

// HandleRotateAPIKey issues a fresh API key, invalidating the previous
// one. The raw secret is only ever returned here, once.
func HandleRotateAPIKey(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userID)
	if err != nil {
		log.Printf("account lookup failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store_unavailable", "message": "Could not load account"})
	}

	rawKey, err := user.IssueAPIKey()
	if err != nil {
		log.Printf("api key generation failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Could not issue API key"})
	}
	if err := repo.Update(user); err != nil {
		log.Printf("api key persist failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store_unavailable", "message": "Could not store API key"})
	}

	return c.JSON(fiber.Map{
		"api_key":        rawKey,
		"api_key_prefix": user.APIKeyPrefix,
	})
}
