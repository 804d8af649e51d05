package bookings

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/directory"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/payment"
)

const (
	ConnectSuccessPath = "/stripe/connect/success"
	ConnectRefreshPath = "/stripe/connect/refresh"
	ConnectRestartPath = "/stripe/connect/restart"
)

type ConnectConfig struct {
	// BaseURL is the public URL of this gateway, used to build onboarding callbacks.
	BaseURL string
	// Country of newly created connected accounts.
	Country string
}

type OnboardingLink struct {
	URL       string
	AccountID string
	// Created is true only for the caller whose run provisioned the account.
	Created bool
}

type AccountStatus struct {
	AccountID      string                      `json:"accountId"`
	Email          string                      `json:"email"`
	BusinessType   stripe.AccountBusinessType  `json:"businessType"`
	Capabilities   *stripe.AccountCapabilities `json:"capabilities"`
	ChargesEnabled bool                        `json:"chargesEnabled"`
	PayoutsEnabled bool                        `json:"payoutsEnabled"`
	Requirements   *stripe.AccountRequirements `json:"requirements"`
}

type ConnectService struct {
	processor payment.Processor
	directory directory.Directory
	config    ConnectConfig
	logger    *zap.Logger

	inflight singleflight.Group
}

func NewConnectService(processor payment.Processor, dir directory.Directory, cfg ConnectConfig, logger *zap.Logger) *ConnectService {
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	return &ConnectService{
		processor: processor,
		directory: dir,
		config:    cfg,
		logger:    logger,
	}
}

// StartOnboarding returns a hosted onboarding link for the company, creating
// its connected account first when the directory has none. Concurrent calls
// for one company share a single run.
func (s *ConnectService) StartOnboarding(ctx context.Context, companyID string) (*OnboardingLink, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return nil, ErrMissingField("companyUUID")
	}

	// The shared run ignores the starting caller's cancellation; each caller
	// stops waiting on its own context.
	ran := false
	ch := s.inflight.DoChan(companyID, func() (interface{}, error) {
		ran = true
		return s.onboard(context.WithoutCancel(ctx), companyID)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		link := *res.Val.(*OnboardingLink)
		link.Created = link.Created && ran
		return &link, nil
	}
}

func (s *ConnectService) onboard(ctx context.Context, companyID string) (*OnboardingLink, error) {
	accountID, created, err := s.resolveAccount(ctx, companyID)
	if err != nil {
		return nil, err
	}

	link, err := s.processor.CreateAccountLink(ctx, payment.AccountLinkParams{
		AccountID:  accountID,
		ReturnURL:  s.callbackURL(ConnectSuccessPath, companyID),
		RefreshURL: s.callbackURL(ConnectRefreshPath, companyID),
	})
	if err != nil {
		s.logger.Error("Account link creation failed",
			zap.String("company_uuid", companyID),
			zap.String("account_id", accountID),
			zap.Error(err))
		return nil, ErrProcessor(err)
	}

	return &OnboardingLink{URL: link.URL, AccountID: accountID, Created: created}, nil
}

// resolveAccount returns the company's connected account id, provisioning one
// when missing. The id is persisted before any link is requested, so a crash
// in between can only leave an unreferenced account at the processor.
func (s *ConnectService) resolveAccount(ctx context.Context, companyID string) (string, bool, error) {
	accountID, err := s.directory.Get(ctx, companyID)
	if err == nil {
		return accountID, false, nil
	}
	if !errors.Is(err, directory.ErrNotFound) {
		s.logger.Error("Failed to read directory", zap.String("company_uuid", companyID), zap.Error(err))
		return "", false, ErrDirectory(err)
	}

	acct, err := s.processor.CreateConnectAccount(ctx, payment.ConnectAccountParams{
		Country:  s.config.Country,
		Metadata: map[string]string{"company_uuid": companyID},
	})
	if err != nil {
		s.logger.Error("Connected account creation failed", zap.String("company_uuid", companyID), zap.Error(err))
		return "", false, ErrProcessor(err)
	}

	stored, created, err := s.directory.SetIfAbsent(ctx, companyID, acct.ID)
	if err != nil {
		s.logger.Error("Connected account created but not persisted",
			zap.String("company_uuid", companyID),
			zap.String("account_id", acct.ID),
			zap.Error(err))
		return "", false, ErrDirectory(err)
	}

	if !created {
		// Another instance linked an account first; drop ours.
		s.logger.Warn("Company was linked concurrently, discarding duplicate account",
			zap.String("company_uuid", companyID),
			zap.String("kept_account_id", stored),
			zap.String("discarded_account_id", acct.ID))
		if err := s.processor.DeleteAccount(ctx, acct.ID); err != nil {
			s.logger.Error("Failed to delete duplicate connected account",
				zap.String("account_id", acct.ID), zap.Error(err))
		}
		return stored, false, nil
	}

	s.logger.Info("Connected account created",
		zap.String("company_uuid", companyID),
		zap.String("account_id", acct.ID))
	return acct.ID, true, nil
}

func (s *ConnectService) callbackURL(path, companyID string) string {
	q := url.Values{}
	q.Set("companyUUID", companyID)
	return s.config.BaseURL + path + "?" + q.Encode()
}

// GetStatus reads the company's connected account live from the processor.
func (s *ConnectService) GetStatus(ctx context.Context, companyID string) (*AccountStatus, error) {
	companyID = strings.TrimSpace(companyID)
	if companyID == "" {
		return nil, ErrMissingField("companyUUID")
	}

	accountID, err := s.directory.Get(ctx, companyID)
	if errors.Is(err, directory.ErrNotFound) {
		return nil, ErrAccountNotLinked(companyID)
	}
	if err != nil {
		s.logger.Error("Failed to read directory", zap.String("company_uuid", companyID), zap.Error(err))
		return nil, ErrDirectory(err)
	}

	acct, err := s.processor.GetAccount(ctx, accountID)
	if err != nil {
		s.logger.Warn("Account retrieval failed", zap.String("account_id", accountID), zap.Error(err))
		return nil, ErrProcessor(err)
	}

	return &AccountStatus{
		AccountID:      acct.ID,
		Email:          acct.Email,
		BusinessType:   acct.BusinessType,
		Capabilities:   acct.Capabilities,
		ChargesEnabled: acct.ChargesEnabled,
		PayoutsEnabled: acct.PayoutsEnabled,
		Requirements:   acct.Requirements,
	}, nil
}
