package payment

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v76"
)

// Processor is the subset of the payment processor API the gateway uses.
// Results are the processor's own objects so handlers can pass them through.
type Processor interface {
	CreatePaymentIntent(ctx context.Context, params ChargeParams) (*stripe.PaymentIntent, error)
	CreateCustomer(ctx context.Context, params CustomerParams) (*stripe.Customer, error)
	ListPaymentMethods(ctx context.Context, customerID string) ([]*stripe.PaymentMethod, error)
	CreateSetupIntent(ctx context.Context, customerID string) (*stripe.SetupIntent, error)

	CreateConnectAccount(ctx context.Context, params ConnectAccountParams) (*stripe.Account, error)
	CreateAccountLink(ctx context.Context, params AccountLinkParams) (*stripe.AccountLink, error)
	GetAccount(ctx context.Context, accountID string) (*stripe.Account, error)
	DeleteAccount(ctx context.Context, accountID string) error
}

type ChargeParams struct {
	Amount          int64
	Currency        string
	CustomerID      string
	PaymentMethodID string
	// DestinationAccountID routes funds to a connected account when set.
	DestinationAccountID string
	Metadata             map[string]string
}

type CustomerParams struct {
	Email string
	Name  string
}

type ConnectAccountParams struct {
	Country  string
	Metadata map[string]string
}

type AccountLinkParams struct {
	AccountID  string
	ReturnURL  string
	RefreshURL string
}

// ErrorMessage returns the processor's user-facing message for err, falling
// back to err.Error() for transport and other non-API failures.
func ErrorMessage(err error) string {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	return err.Error()
}
