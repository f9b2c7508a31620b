package controller

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/paymentintent"

	"lpfactory/config"
	"lpfactory/models"
	"lpfactory/utils"
)

func InitStripe() {
	stripe.Key = config.AppConfig.StripeSecretKey
}

// ListPlans returns the available hosting tiers for the upgrade page.
func ListPlans(c *fiber.Ctx) error {
	var plans []models.Plan
	if err := config.DB.Order("price_cents asc").Find(&plans).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load plans", err)
	}
	for i := range plans {
		plans[i].DisplayPrice = "$" + strconv.Itoa(plans[i].PriceCents/100)
	}
	return c.JSON(utils.SuccessResponse(plans))
}

type UpgradeRequest struct {
	PlanID uint `json:"plan_id" validate:"required"`
}

// CreateUpgradeIntent creates a Stripe payment intent for a plan
// upgrade and records the pending subscription.
func CreateUpgradeIntent(c *fiber.Ctx) error {
	client := c.Locals("client").(*models.Client)

	var req UpgradeRequest
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

	var plan models.Plan
	if err := config.DB.First(&plan, req.PlanID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Plan not found",
		})
	}
	if plan.PriceCents == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "The free plan does not require payment",
		})
	}

	customerID, err := getOrCreateStripeCustomer(client)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process payment",
		})
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(plan.PriceCents)),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Customer: stripe.String(customerID),
		Metadata: map[string]string{
			"client_id": strconv.Itoa(int(client.ID)),
			"plan_id":   strconv.Itoa(int(plan.ID)),
		},
		Description: stripe.String("Upgrade to " + plan.Name + " plan"),
	}
	if plan.BillingInterval != "one_time" {
		params.SetupFutureUsage = stripe.String("off_session")
	}

	pi, err := paymentintent.New(params)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process payment",
		})
	}

	subscription := models.Subscription{
		ClientID:            client.ID,
		PlanID:              plan.ID,
		Status:              "pending",
		StripePaymentIntent: pi.ID,
	}
	if err := config.DB.Create(&subscription).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to record subscription",
		})
	}

	return c.JSON(fiber.Map{
		"clientSecret":    pi.ClientSecret,
		"subscription_id": subscription.ID,
		"amount":          plan.PriceCents,
		"currency":        "usd",
	})
}

// HandlePaymentWebhook handles Stripe webhook events.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	event, err := utils.ConstructStripeEvent(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var paymentIntent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &paymentIntent); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Error parsing payment intent",
			})
		}
		return handlePaymentIntentSucceeded(c, &paymentIntent)

	case "payment_intent.payment_failed":
		var paymentIntent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &paymentIntent); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Error parsing payment intent",
			})
		}
		return handlePaymentIntentFailed(c, &paymentIntent)

	default:
		return c.SendStatus(fiber.StatusOK)
	}
}

// handlePaymentIntentSucceeded activates the pending subscription and
// moves the client onto the paid plan.
func handlePaymentIntentSucceeded(c *fiber.Ctx, pi *stripe.PaymentIntent) error {
	var subscription models.Subscription
	if err := config.DB.Where("stripe_payment_intent = ?", pi.ID).First(&subscription).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription not found",
		})
	}

	var plan models.Plan
	if err := config.DB.First(&plan, subscription.PlanID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Plan not found",
		})
	}

	periodEnd := time.Now().AddDate(0, 1, 0)
	if plan.BillingInterval == "yearly" {
		periodEnd = time.Now().AddDate(1, 0, 0)
	}
	subscription.Status = "active"
	subscription.CurrentPeriodEnd = &periodEnd
	if err := config.DB.Save(&subscription).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update subscription",
		})
	}

	if err := config.DB.Model(&models.Client{}).Where("id = ?", subscription.ClientID).
		Updates(map[string]interface{}{
			"plan_id":   plan.ID,
			"plan_name": plan.Name,
		}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update client plan",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

// handlePaymentIntentFailed marks the pending subscription as canceled.
func handlePaymentIntentFailed(c *fiber.Ctx, pi *stripe.PaymentIntent) error {
	var subscription models.Subscription
	if err := config.DB.Where("stripe_payment_intent = ?", pi.ID).First(&subscription).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Subscription not found",
		})
	}

	subscription.Status = "canceled"
	if err := config.DB.Save(&subscription).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update subscription",
		})
	}

	return c.SendStatus(fiber.StatusOK)
}

// getOrCreateStripeCustomer gets or creates a Stripe customer for the client.
func getOrCreateStripeCustomer(client *models.Client) (string, error) {
	if client.StripeCustomerID != nil {
		return *client.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{
		Name: stripe.String(client.Name),
		Metadata: map[string]string{
			"client_key": client.ClientKey,
		},
	}
	if client.NotifyEmail != "" {
		params.Email = stripe.String(client.NotifyEmail)
	}

	cust, err := customer.New(params)
	if err != nil {
		return "", err
	}

	client.StripeCustomerID = &cust.ID
	if err := config.DB.Save(client).Error; err != nil {
		return "", err
	}

	return cust.ID, nil
}
