package billing

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"

	"github.com/edvin/chatrelay/internal/model"
)

// CheckoutClient creates hosted checkout sessions for plan subscriptions.
// The checkout completes out of band; the webhook event carries the plan and
// tenant id back through the session metadata.
type CheckoutClient struct {
	api        *client.API
	prices     map[string]string
	successURL string
	cancelURL  string
}

func NewCheckoutClient(secretKey, priceBasic, pricePro, frontendURL string) *CheckoutClient {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &CheckoutClient{
		api: api,
		prices: map[string]string{
			model.PlanBasic: priceBasic,
			model.PlanPro:   pricePro,
		},
		successURL: frontendURL + "/dashboard?success=true",
		cancelURL:  frontendURL + "/pricing?cancelled=true",
	}
}

// CreateSession opens a subscription checkout for the tenant and returns the
// hosted payment page URL.
func (c *CheckoutClient) CreateSession(ctx context.Context, tenantID, email, plan string) (string, error) {
	price := c.prices[plan]
	if price == "" {
		return "", fmt.Errorf("no price configured for plan %q", plan)
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(price),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(c.successURL),
		CancelURL:  stripe.String(c.cancelURL),
	}
	params.Context = ctx
	params.AddMetadata("plan", plan)
	params.AddMetadata("tenant_id", tenantID)

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}
