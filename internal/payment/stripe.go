package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	apperrors "pitchpay/pkg/app_errors"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
)

const checkoutCompletedEvent = "checkout.session.completed"

type StripeProcessor struct {
	api           *client.API
	webhookSecret string
}

func NewStripeProcessor(secretKey, webhookSecret string) *StripeProcessor {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProcessor{
		api:           api,
		webhookSecret: webhookSecret,
	}
}

func (p *StripeProcessor) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	sessionParams := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(params.SuccessURL),
		CancelURL:          stripe.String(params.CancelURL),
		PaymentMethodTypes: stripe.StringSlice([]string{"card", "blik"}),
		ExpiresAt:          stripe.Int64(time.Now().Add(params.ExpiresIn).Unix()),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(params.Currency),
					UnitAmount: stripe.Int64(params.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(params.ProductName),
					},
				},
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(params.PlatformFee),
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(params.DestinationAccount),
			},
		},
	}
	if params.PayerEmail != nil {
		sessionParams.CustomerEmail = stripe.String(*params.PayerEmail)
	}
	sessionParams.Context = ctx

	sessionParams.AddMetadata("event_id", strconv.Itoa(params.EventID))
	sessionParams.AddMetadata("reservation_ref", params.ReservationRef)
	sessionParams.AddMetadata("payer_name", params.PayerName)
	if params.UserID != nil {
		sessionParams.AddMetadata("user_id", strconv.Itoa(*params.UserID))
	}

	session, err := p.api.CheckoutSessions.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("%w: create checkout session: %v", apperrors.ErrUpstreamService, err)
	}

	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func (p *StripeProcessor) VerifyWebhook(payload []byte, signature string) (*Confirmation, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSignatureVerification, err)
	}

	if string(event.Type) != checkoutCompletedEvent {
		return nil, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("unmarshal checkout session: %w", err)
	}

	eventID, err := strconv.Atoi(session.Metadata["event_id"])
	if err != nil {
		return nil, fmt.Errorf("confirmation missing event_id metadata: %w", err)
	}

	confirmation := &Confirmation{
		SessionRef:     session.ID,
		ReservationRef: session.Metadata["reservation_ref"],
		EventID:        eventID,
		Amount:         session.AmountTotal,
		PayerName:      session.Metadata["payer_name"],
	}

	if session.CustomerDetails != nil && session.CustomerDetails.Email != "" {
		email := session.CustomerDetails.Email
		confirmation.PayerEmail = &email
	}
	if raw, ok := session.Metadata["user_id"]; ok {
		if userID, err := strconv.Atoi(raw); err == nil {
			confirmation.UserID = &userID
		}
	}
	if confirmation.PayerName == "" && session.CustomerDetails != nil {
		confirmation.PayerName = session.CustomerDetails.Name
	}

	return confirmation, nil
}

func (p *StripeProcessor) CreateAccount(ctx context.Context, email string) (string, error) {
	params := &stripe.AccountParams{
		Type:  stripe.String(string(stripe.AccountTypeExpress)),
		Email: stripe.String(email),
	}
	params.Context = ctx

	account, err := p.api.Accounts.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: create account: %v", apperrors.ErrUpstreamService, err)
	}
	return account.ID, nil
}

func (p *StripeProcessor) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx

	link, err := p.api.AccountLinks.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: create account link: %v", apperrors.ErrUpstreamService, err)
	}
	return link.URL, nil
}

func (p *StripeProcessor) GetAccountStatus(ctx context.Context, accountID string) (*AccountStatus, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx

	account, err := p.api.Accounts.GetByID(accountID, params)
	if err != nil {
		return nil, fmt.Errorf("%w: get account: %v", apperrors.ErrUpstreamService, err)
	}

	return &AccountStatus{
		ChargesEnabled: account.ChargesEnabled,
		PayoutsEnabled: account.PayoutsEnabled,
	}, nil
}
