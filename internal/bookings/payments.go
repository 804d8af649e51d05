// Package bookings holds the gateway's service layer: charge creation with
// connected-account routing, customer pass-throughs, and Connect onboarding.
package bookings

import (
	"context"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/directory"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/payment"
)

type ChargeRequest struct {
	Amount          int64
	Currency        string
	CustomerID      string
	PaymentMethodID string
	// CompanyID, when set, routes the funds to the company's connected account.
	CompanyID string
	// TokenAmount is echoed back as AwardedTokens; nothing here computes it.
	TokenAmount *int64
}

type ChargeResult struct {
	PaymentIntentID      string
	ClientSecret         string
	Status               string
	AwardedTokens        *int64
	DestinationAccountID string
}

type CustomerRequest struct {
	Email     string
	FirstName string
	LastName  string
}

type PaymentService struct {
	processor payment.Processor
	directory directory.Directory
	logger    *zap.Logger
}

func NewPaymentService(processor payment.Processor, dir directory.Directory, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		processor: processor,
		directory: dir,
		logger:    logger,
	}
}

func (req ChargeRequest) validate() error {
	switch {
	case req.Amount == 0:
		return ErrMissingField("amount")
	case req.Amount < 0:
		return ErrInvalidField("amount", "must be positive")
	case strings.TrimSpace(req.Currency) == "":
		return ErrMissingField("currency")
	case strings.TrimSpace(req.CustomerID) == "":
		return ErrMissingField("customerId")
	case strings.TrimSpace(req.PaymentMethodID) == "":
		return ErrMissingField("paymentMethodId")
	}
	return nil
}

// CreateCharge confirms a payment immediately. A company without a connected
// account is charged without fund splitting.
func (s *PaymentService) CreateCharge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	params := payment.ChargeParams{
		Amount:          req.Amount,
		Currency:        strings.ToLower(req.Currency),
		CustomerID:      req.CustomerID,
		PaymentMethodID: req.PaymentMethodID,
	}

	// Onboarding stores companies under their trimmed id.
	if companyID := strings.TrimSpace(req.CompanyID); companyID != "" {
		params.Metadata = map[string]string{"company_uuid": companyID}

		accountID, err := s.directory.Get(ctx, companyID)
		switch {
		case err == nil:
			params.DestinationAccountID = accountID
		case errors.Is(err, directory.ErrNotFound):
			s.logger.Info("Company has no connected account, charging without transfer",
				zap.String("company_uuid", companyID))
		default:
			s.logger.Error("Failed to resolve connected account",
				zap.String("company_uuid", companyID), zap.Error(err))
			return nil, ErrDirectory(err)
		}
	}

	pi, err := s.processor.CreatePaymentIntent(ctx, params)
	if err != nil {
		s.logger.Warn("Payment intent failed",
			zap.String("customer_id", req.CustomerID),
			zap.Int64("amount", req.Amount),
			zap.Error(err))
		return nil, ErrProcessor(err)
	}

	s.logger.Info("Payment intent created",
		zap.String("payment_intent_id", pi.ID),
		zap.String("status", string(pi.Status)),
		zap.String("destination", params.DestinationAccountID))

	return &ChargeResult{
		PaymentIntentID:      pi.ID,
		ClientSecret:         pi.ClientSecret,
		Status:               string(pi.Status),
		AwardedTokens:        req.TokenAmount,
		DestinationAccountID: params.DestinationAccountID,
	}, nil
}

func (s *PaymentService) CreateCustomer(ctx context.Context, req CustomerRequest) (string, error) {
	if strings.TrimSpace(req.Email) == "" {
		return "", ErrMissingField("email")
	}

	name := strings.TrimSpace(strings.TrimSpace(req.FirstName) + " " + strings.TrimSpace(req.LastName))
	cust, err := s.processor.CreateCustomer(ctx, payment.CustomerParams{
		Email: strings.TrimSpace(req.Email),
		Name:  name,
	})
	if err != nil {
		s.logger.Warn("Customer creation failed", zap.Error(err))
		return "", ErrProcessor(err)
	}

	s.logger.Info("Customer created", zap.String("customer_id", cust.ID))
	return cust.ID, nil
}

func (s *PaymentService) ListPaymentMethods(ctx context.Context, customerID string) ([]*stripe.PaymentMethod, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, ErrMissingField("customerId")
	}

	methods, err := s.processor.ListPaymentMethods(ctx, customerID)
	if err != nil {
		s.logger.Warn("Listing payment methods failed", zap.String("customer_id", customerID), zap.Error(err))
		return nil, ErrProcessor(err)
	}
	return methods, nil
}

// CreateSetupIntent returns the client secret used to save a card for later charges.
func (s *PaymentService) CreateSetupIntent(ctx context.Context, customerID string) (string, error) {
	if strings.TrimSpace(customerID) == "" {
		return "", ErrMissingField("customerId")
	}

	si, err := s.processor.CreateSetupIntent(ctx, customerID)
	if err != nil {
		s.logger.Warn("Setup intent failed", zap.String("customer_id", customerID), zap.Error(err))
		return "", ErrProcessor(err)
	}
	return si.ClientSecret, nil
}
