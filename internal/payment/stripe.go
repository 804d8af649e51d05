package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

const paymentMethodTypeCard = "card"

// StripeProcessor talks to Stripe through a per-instance client instead of the
// package-level stripe.Key, so several keys can coexist in one process.
type StripeProcessor struct {
	api *client.API
}

func NewStripeProcessor(secretKey string) *StripeProcessor {
	return &StripeProcessor{api: client.New(secretKey, nil)}
}

// NewStripeProcessorWithBackends is used by tests that point the SDK at a local server.
func NewStripeProcessorWithBackends(secretKey string, backends *stripe.Backends) *StripeProcessor {
	return &StripeProcessor{api: client.New(secretKey, backends)}
}

// CreatePaymentIntent creates and confirms a PaymentIntent in one call.
func (s *StripeProcessor) CreatePaymentIntent(ctx context.Context, params ChargeParams) (*stripe.PaymentIntent, error) {
	piParams := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(params.Amount),
		Currency:      stripe.String(params.Currency),
		Customer:      stripe.String(params.CustomerID),
		PaymentMethod: stripe.String(params.PaymentMethodID),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	if params.DestinationAccountID != "" {
		piParams.TransferData = &stripe.PaymentIntentTransferDataParams{
			Destination: stripe.String(params.DestinationAccountID),
		}
	}
	for k, v := range params.Metadata {
		piParams.AddMetadata(k, v)
	}
	piParams.Context = ctx

	pi, err := s.api.PaymentIntents.New(piParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}
	return pi, nil
}

func (s *StripeProcessor) CreateCustomer(ctx context.Context, params CustomerParams) (*stripe.Customer, error) {
	customerParams := &stripe.CustomerParams{
		Email: stripe.String(params.Email),
	}
	if params.Name != "" {
		customerParams.Name = stripe.String(params.Name)
	}
	customerParams.Context = ctx

	cust, err := s.api.Customers.New(customerParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return cust, nil
}

// ListPaymentMethods returns every saved card of the customer, following pagination.
func (s *StripeProcessor) ListPaymentMethods(ctx context.Context, customerID string) ([]*stripe.PaymentMethod, error) {
	listParams := &stripe.PaymentMethodListParams{
		Customer: stripe.String(customerID),
		Type:     stripe.String(paymentMethodTypeCard),
	}
	listParams.Context = ctx

	methods := []*stripe.PaymentMethod{}
	iter := s.api.PaymentMethods.List(listParams)
	for iter.Next() {
		methods = append(methods, iter.PaymentMethod())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list payment methods: %w", err)
	}
	return methods, nil
}

func (s *StripeProcessor) CreateSetupIntent(ctx context.Context, customerID string) (*stripe.SetupIntent, error) {
	siParams := &stripe.SetupIntentParams{
		Customer:           stripe.String(customerID),
		PaymentMethodTypes: stripe.StringSlice([]string{paymentMethodTypeCard}),
	}
	siParams.Context = ctx

	si, err := s.api.SetupIntents.New(siParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create setup intent: %w", err)
	}
	return si, nil
}

// CreateConnectAccount creates an Express account able to take card payments
// and receive transfers.
func (s *StripeProcessor) CreateConnectAccount(ctx context.Context, params ConnectAccountParams) (*stripe.Account, error) {
	accountParams := &stripe.AccountParams{
		Type: stripe.String(string(stripe.AccountTypeExpress)),
		Capabilities: &stripe.AccountCapabilitiesParams{
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{
				Requested: stripe.Bool(true),
			},
			Transfers: &stripe.AccountCapabilitiesTransfersParams{
				Requested: stripe.Bool(true),
			},
		},
	}
	if params.Country != "" {
		accountParams.Country = stripe.String(params.Country)
	}
	for k, v := range params.Metadata {
		accountParams.AddMetadata(k, v)
	}
	accountParams.Context = ctx

	acct, err := s.api.Accounts.New(accountParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create connected account: %w", err)
	}
	return acct, nil
}

func (s *StripeProcessor) CreateAccountLink(ctx context.Context, params AccountLinkParams) (*stripe.AccountLink, error) {
	linkParams := &stripe.AccountLinkParams{
		Account:    stripe.String(params.AccountID),
		RefreshURL: stripe.String(params.RefreshURL),
		ReturnURL:  stripe.String(params.ReturnURL),
		Type:       stripe.String("account_onboarding"),
	}
	linkParams.Context = ctx

	link, err := s.api.AccountLinks.New(linkParams)
	if err != nil {
		return nil, fmt.Errorf("failed to create account link: %w", err)
	}
	return link, nil
}

func (s *StripeProcessor) GetAccount(ctx context.Context, accountID string) (*stripe.Account, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx

	acct, err := s.api.Accounts.GetByID(accountID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve account %s: %w", accountID, err)
	}
	return acct, nil
}

func (s *StripeProcessor) DeleteAccount(ctx context.Context, accountID string) error {
	params := &stripe.AccountParams{}
	params.Context = ctx

	if _, err := s.api.Accounts.Del(accountID, params); err != nil {
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	return nil
}

// ListConnectAccounts pages through every connected account on the platform.
func (s *StripeProcessor) ListConnectAccounts(ctx context.Context) ([]*stripe.Account, error) {
	params := &stripe.AccountListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(100)

	accounts := []*stripe.Account{}
	iter := s.api.Accounts.List(params)
	for iter.Next() {
		accounts = append(accounts, iter.Account())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list connected accounts: %w", err)
	}
	return accounts, nil
}
