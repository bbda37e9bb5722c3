package stripe

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v84"
)

// CheckoutLine is a single billable line for a hosted checkout session.
type CheckoutLine struct {
	Name            string
	UnitAmountCents int64
	Quantity        int64
}

// CheckoutSessionInput carries everything needed to open a hosted checkout session.
type CheckoutSessionInput struct {
	ReferenceID string
	SuccessURL  string
	CancelURL   string
	Lines       []CheckoutLine
	Metadata    map[string]string
}

// CheckoutSession is the subset of Stripe's session the platform acts on.
type CheckoutSession struct {
	ID              string
	URL             string
	Paid            bool
	PaymentIntentID string
	AmountTotal     int64
}

// CreateCheckoutSession opens a hosted payment-mode checkout session.
func (c *Client) CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (*CheckoutSession, error) {
	if c == nil || c.api == nil {
		return nil, fmt.Errorf("stripe client not initialized")
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("checkout session requires at least one line")
	}
	if strings.TrimSpace(in.SuccessURL) == "" || strings.TrimSpace(in.CancelURL) == "" {
		return nil, fmt.Errorf("checkout session requires success and cancel urls")
	}

	lineItems := make([]*stripe.CheckoutSessionCreateLineItemParams, 0, len(in.Lines))
	for _, line := range in.Lines {
		if line.Quantity <= 0 || line.UnitAmountCents <= 0 {
			return nil, fmt.Errorf("checkout line %q has non-positive quantity or amount", line.Name)
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionCreateLineItemParams{
			Quantity: stripe.Int64(line.Quantity),
			PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
				Currency:   stripe.String(c.Currency()),
				UnitAmount: stripe.Int64(line.UnitAmountCents),
				ProductData: &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
					Name: stripe.String(line.Name),
				},
			},
		})
	}

	params := &stripe.CheckoutSessionCreateParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(in.SuccessURL),
		CancelURL:         stripe.String(in.CancelURL),
		ClientReferenceID: stripe.String(in.ReferenceID),
		LineItems:         lineItems,
	}
	for key, value := range in.Metadata {
		params.AddMetadata(key, value)
	}

	created, err := c.api.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("creating checkout session: %w", err)
	}
	return fromStripeSession(created), nil
}

// GetCheckoutSession fetches a checkout session by its Stripe identifier.
func (c *Client) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	if c == nil || c.api == nil {
		return nil, fmt.Errorf("stripe client not initialized")
	}
	if strings.TrimSpace(sessionID) == "" {
		return nil, fmt.Errorf("session id is required")
	}

	found, err := c.api.V1CheckoutSessions.Retrieve(ctx, sessionID, &stripe.CheckoutSessionRetrieveParams{})
	if err != nil {
		return nil, fmt.Errorf("retrieving checkout session %s: %w", sessionID, err)
	}
	return fromStripeSession(found), nil
}

func fromStripeSession(s *stripe.CheckoutSession) *CheckoutSession {
	out := &CheckoutSession{
		ID:          s.ID,
		URL:         s.URL,
		Paid:        s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		AmountTotal: s.AmountTotal,
	}
	if s.PaymentIntent != nil {
		out.PaymentIntentID = s.PaymentIntent.ID
	}
	return out
}
