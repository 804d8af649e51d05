package bookings

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v76"

	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/directory"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/payment"
)

type mockProcessor struct {
	mock.Mock
}

func (m *mockProcessor) CreatePaymentIntent(ctx context.Context, params payment.ChargeParams) (*stripe.PaymentIntent, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.PaymentIntent), args.Error(1)
}

func (m *mockProcessor) CreateCustomer(ctx context.Context, params payment.CustomerParams) (*stripe.Customer, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Customer), args.Error(1)
}

func (m *mockProcessor) ListPaymentMethods(ctx context.Context, customerID string) ([]*stripe.PaymentMethod, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*stripe.PaymentMethod), args.Error(1)
}

func (m *mockProcessor) CreateSetupIntent(ctx context.Context, customerID string) (*stripe.SetupIntent, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.SetupIntent), args.Error(1)
}

func (m *mockProcessor) CreateConnectAccount(ctx context.Context, params payment.ConnectAccountParams) (*stripe.Account, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Account), args.Error(1)
}

func (m *mockProcessor) CreateAccountLink(ctx context.Context, params payment.AccountLinkParams) (*stripe.AccountLink, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.AccountLink), args.Error(1)
}

func (m *mockProcessor) GetAccount(ctx context.Context, accountID string) (*stripe.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Account), args.Error(1)
}

func (m *mockProcessor) DeleteAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// countingDirectory wraps a Directory and counts calls per method.
type countingDirectory struct {
	directory.Directory

	mu         sync.Mutex
	gets       int
	sets       int
	setIfAbsnt int

	getErr error
	// beforeSetIfAbsent lets a test simulate a concurrent writer.
	beforeSetIfAbsent func(companyID string)
}

func (c *countingDirectory) Get(ctx context.Context, companyID string) (string, error) {
	c.mu.Lock()
	c.gets++
	getErr := c.getErr
	c.mu.Unlock()

	if getErr != nil {
		return "", getErr
	}
	return c.Directory.Get(ctx, companyID)
}

func (c *countingDirectory) Set(ctx context.Context, companyID, accountID string) error {
	c.mu.Lock()
	c.sets++
	c.mu.Unlock()
	return c.Directory.Set(ctx, companyID, accountID)
}

func (c *countingDirectory) SetIfAbsent(ctx context.Context, companyID, accountID string) (string, bool, error) {
	c.mu.Lock()
	c.setIfAbsnt++
	hook := c.beforeSetIfAbsent
	c.mu.Unlock()

	if hook != nil {
		hook(companyID)
	}
	return c.Directory.SetIfAbsent(ctx, companyID, accountID)
}

func (c *countingDirectory) writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets + c.setIfAbsnt
}

func (c *countingDirectory) reads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gets
}
