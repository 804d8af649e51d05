// Package paymenttest provides an in-memory payment.Processor for tests.
package paymenttest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/stripe/stripe-go/v76"

	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/payment"
)

// Processor records every call and answers with deterministic objects.
// Set the *Err fields to make the matching call fail.
type Processor struct {
	mu sync.Mutex

	PaymentIntents  []payment.ChargeParams
	Customers       []payment.CustomerParams
	SetupIntents    []string
	MethodListings  []string
	AccountsCreated []payment.ConnectAccountParams
	AccountLinks    []payment.AccountLinkParams
	AccountLookups  []string
	AccountsDeleted []string
	AccountListings int

	// Accounts is returned by GetAccount, keyed by account id.
	Accounts map[string]*stripe.Account
	// PaymentMethods is returned by ListPaymentMethods, keyed by customer id.
	PaymentMethods map[string][]*stripe.PaymentMethod

	PaymentIntentErr error
	CustomerErr      error
	SetupIntentErr   error
	ListMethodsErr   error
	CreateAccountErr error
	AccountLinkErr   error
	GetAccountErr    error
	DeleteAccountErr error
	ListAccountsErr  error

	nextID int
}

var _ payment.Processor = (*Processor)(nil)

func New() *Processor {
	return &Processor{
		Accounts:       make(map[string]*stripe.Account),
		PaymentMethods: make(map[string][]*stripe.PaymentMethod),
	}
}

func (p *Processor) id(prefix string) string {
	p.nextID++
	return fmt.Sprintf("%s_%d", prefix, p.nextID)
}

func (p *Processor) CreatePaymentIntent(ctx context.Context, params payment.ChargeParams) (*stripe.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.PaymentIntents = append(p.PaymentIntents, params)
	if p.PaymentIntentErr != nil {
		return nil, p.PaymentIntentErr
	}
	id := p.id("pi")
	return &stripe.PaymentIntent{
		ID:           id,
		Amount:       params.Amount,
		Currency:     stripe.Currency(params.Currency),
		ClientSecret: id + "_secret",
		Status:       stripe.PaymentIntentStatusSucceeded,
	}, nil
}

func (p *Processor) CreateCustomer(ctx context.Context, params payment.CustomerParams) (*stripe.Customer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Customers = append(p.Customers, params)
	if p.CustomerErr != nil {
		return nil, p.CustomerErr
	}
	return &stripe.Customer{ID: p.id("cus"), Email: params.Email, Name: params.Name}, nil
}

func (p *Processor) ListPaymentMethods(ctx context.Context, customerID string) ([]*stripe.PaymentMethod, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.MethodListings = append(p.MethodListings, customerID)
	if p.ListMethodsErr != nil {
		return nil, p.ListMethodsErr
	}
	methods := p.PaymentMethods[customerID]
	if methods == nil {
		methods = []*stripe.PaymentMethod{}
	}
	return methods, nil
}

func (p *Processor) CreateSetupIntent(ctx context.Context, customerID string) (*stripe.SetupIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.SetupIntents = append(p.SetupIntents, customerID)
	if p.SetupIntentErr != nil {
		return nil, p.SetupIntentErr
	}
	id := p.id("seti")
	return &stripe.SetupIntent{ID: id, ClientSecret: id + "_secret"}, nil
}

func (p *Processor) CreateConnectAccount(ctx context.Context, params payment.ConnectAccountParams) (*stripe.Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.AccountsCreated = append(p.AccountsCreated, params)
	if p.CreateAccountErr != nil {
		return nil, p.CreateAccountErr
	}
	acct := &stripe.Account{ID: p.id("acct"), Type: stripe.AccountTypeExpress, Metadata: params.Metadata}
	p.Accounts[acct.ID] = acct
	return acct, nil
}

func (p *Processor) CreateAccountLink(ctx context.Context, params payment.AccountLinkParams) (*stripe.AccountLink, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.AccountLinks = append(p.AccountLinks, params)
	if p.AccountLinkErr != nil {
		return nil, p.AccountLinkErr
	}
	return &stripe.AccountLink{
		Object: "account_link",
		URL:    "https://connect.stripe.com/setup/e/" + params.AccountID + "/" + p.id("link"),
	}, nil
}

func (p *Processor) GetAccount(ctx context.Context, accountID string) (*stripe.Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.AccountLookups = append(p.AccountLookups, accountID)
	if p.GetAccountErr != nil {
		return nil, p.GetAccountErr
	}
	acct, ok := p.Accounts[accountID]
	if !ok {
		return nil, &stripe.Error{
			HTTPStatusCode: 404,
			Type:           stripe.ErrorTypeInvalidRequest,
			Code:           stripe.ErrorCodeResourceMissing,
			Msg:            "No such account: '" + accountID + "'",
		}
	}
	return acct, nil
}

func (p *Processor) DeleteAccount(ctx context.Context, accountID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.AccountsDeleted = append(p.AccountsDeleted, accountID)
	if p.DeleteAccountErr != nil {
		return p.DeleteAccountErr
	}
	delete(p.Accounts, accountID)
	return nil
}

// ListConnectAccounts returns the known accounts ordered by id.
func (p *Processor) ListConnectAccounts(ctx context.Context) ([]*stripe.Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.AccountListings++
	if p.ListAccountsErr != nil {
		return nil, p.ListAccountsErr
	}
	accounts := make([]*stripe.Account, 0, len(p.Accounts))
	for _, acct := range p.Accounts {
		accounts = append(accounts, acct)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

// Calls returns the number of recorded calls across every method.
func (p *Processor) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.PaymentIntents) + len(p.Customers) + len(p.SetupIntents) +
		len(p.MethodListings) + len(p.AccountsCreated) + len(p.AccountLinks) +
		len(p.AccountLookups) + len(p.AccountsDeleted) + p.AccountListings
}
