package controllers

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/danieljstvincent/topthreeclub/app/models"
	"github.com/danieljstvincent/topthreeclub/app/repository"
	"github.com/danieljstvincent/topthreeclub/internal/pkg/billing"
	"github.com/danieljstvincent/topthreeclub/internal/pkg/database"
	"github.com/danieljstvincent/topthreeclub/internal/pkg/env"
	"github.com/danieljstvincent/topthreeclub/internal/pkg/usercontext"
)

func billingService() *billing.Service {
	return billing.NewServiceFromDB(database.GetDB(), billing.NewStripeGatewayFromEnv())
}

func subscriptionResponse(sub *models.Subscription) fiber.Map {
	return fiber.Map{
		"tier":                 sub.Tier,
		"status":               sub.Status,
		"billing_interval":     sub.BillingInterval,
		"is_premium":           sub.IsPremium(),
		"current_period_start": formatTimePtr(sub.CurrentPeriodStart),
		"current_period_end":   formatTimePtr(sub.CurrentPeriodEnd),
	}
}

// HandleGetSubscription returns the member's subscription state, a free
// default when billing was never touched.
func HandleGetSubscription(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	sub, err := billingService().GetSubscription(userID)
	if err != nil {
		log.Printf("subscription lookup failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store_unavailable", "message": "Could not load subscription"})
	}
	return c.JSON(subscriptionResponse(sub))
}

type checkoutRequest struct {
	BillingInterval string `json:"billing_interval" validate:"omitempty,oneof=monthly yearly"`
}

// HandleCreateCheckout opens a provider checkout session for the premium
// plan and returns its hosted URL.
func HandleCreateCheckout(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation_error", "message": err.Error()})
	}
	interval := req.BillingInterval
	if interval == "" {
		interval = models.BillingIntervalMonthly
	}

	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(userID)
	if err != nil {
		log.Printf("user lookup failed for checkout, user %d: %v", userID, err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "store_unavailable", "message": "Could not load account"})
	}

	frontendURL := strings.TrimRight(env.GetEnv("FRONTEND_URL", "http://localhost:3000"), "/")
	url, err := billingService().CreateCheckoutSession(
		c.Context(),
		user,
		interval,
		frontendURL+"/billing/success",
		frontendURL+"/billing/cancel",
	)
	if err != nil {
		log.Printf("checkout session failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "gateway_unavailable", "message": "Could not start checkout"})
	}
	return c.JSON(fiber.Map{"checkout_url": url})
}

// HandleCancelSubscription cancels at the provider and reverts the local
// subscription to free.
func HandleCancelSubscription(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	sub, err := billingService().CancelSubscription(c.Context(), userID)
	if err != nil {
		if errors.Is(err, billing.ErrNoSubscription) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No active subscription to cancel"})
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "No subscription found"})
		}
		log.Printf("subscription cancel failed for user %d: %v", userID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "gateway_unavailable", "message": "Could not cancel subscription"})
	}
	return c.JSON(subscriptionResponse(sub))
}

// HandleStripeWebhook ingests provider events. Verification failures
// return 400 with no mutation so the provider's retry policy redelivers;
// reconciliation failures return 500 for the same reason.
func HandleStripeWebhook(c *fiber.Ctx) error {
	kind, err := billingService().HandleWebhook(c.Context(), c.Body(), c.Get("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, billing.ErrInvalidSignature) || errors.Is(err, billing.ErrInvalidPayload) {
			log.Printf("webhook rejected: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_webhook", "message": "Webhook verification failed"})
		}
		log.Printf("webhook processing failed (%s): %v", kind, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Webhook processing failed"})
	}
	return c.JSON(fiber.Map{"received": true, "type": kind})
}
