package payment

import (
	"context"
	"fmt"

	"sportzone/config"
	"sportzone/models"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
)

// StripeGateway creates hosted checkout sessions for card payments. The
// global stripe.Key is set once at startup from config.
type StripeGateway struct{}

// NewStripeGateway constructs the gateway. stripe.Key must already be set.
func NewStripeGateway() *StripeGateway {
	return &StripeGateway{}
}

// InitiateCheckout opens a checkout session covering the payment's full
// amount. Amounts are already in the smallest currency unit.
func (g *StripeGateway) InitiateCheckout(ctx context.Context, p *models.Payment) (string, string, error) {
	returnURL := config.AppConfig.CheckoutReturnURL

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.Currency),
					UnitAmount: stripe.Int64(p.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Court reservation"),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(returnURL + "?status=success&payment=" + p.ID),
		CancelURL:  stripe.String(returnURL + "?status=cancelled&payment=" + p.ID),
		Metadata: map[string]string{
			"payment_id": p.ID,
		},
	}
	params.Context = ctx

	sess, err := session.New(params)
	if err != nil {
		return "", "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, sess.ID, nil
}
