// Package jobs holds background work run by the scheduler.
package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/directory"
)

// CompanyMetadataKey is the metadata key onboarding stamps on every connected account.
const CompanyMetadataKey = "company_uuid"

type AccountLister interface {
	ListConnectAccounts(ctx context.Context) ([]*stripe.Account, error)
}

// Finding is a connected account that the directory does not point at.
type Finding struct {
	CompanyID string `json:"companyUUID"`
	AccountID string `json:"accountId"`
	// LinkedAccountID is the account the directory holds for the company, if any.
	LinkedAccountID string `json:"linkedAccountId,omitempty"`
}

type AuditReport struct {
	Scanned int `json:"scanned"`
	Linked  int `json:"linked"`
	// Untagged accounts carry no company metadata and were not created by onboarding.
	Untagged int `json:"untagged"`
	// Unlinked accounts name a company that has no directory entry, typically
	// left behind when persisting the id failed.
	Unlinked []Finding `json:"unlinked"`
	// Superseded accounts name a company that is linked to a different account.
	Superseded []Finding `json:"superseded"`
}

// AuditConnectedAccounts compares the processor's connected accounts with the
// directory. It only reports; fixing drift is left to an operator.
func AuditConnectedAccounts(ctx context.Context, lister AccountLister, dir directory.Directory, logger *zap.Logger) (*AuditReport, error) {
	accounts, err := lister.ListConnectAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list connected accounts: %w", err)
	}

	report := &AuditReport{
		Unlinked:   []Finding{},
		Superseded: []Finding{},
	}

	for _, acct := range accounts {
		report.Scanned++

		companyID := acct.Metadata[CompanyMetadataKey]
		if companyID == "" {
			report.Untagged++
			continue
		}

		linked, err := dir.Get(ctx, companyID)
		switch {
		case errors.Is(err, directory.ErrNotFound):
			report.Unlinked = append(report.Unlinked, Finding{CompanyID: companyID, AccountID: acct.ID})
			logger.Warn("Connected account is not linked to its company",
				zap.String("company_uuid", companyID),
				zap.String("account_id", acct.ID))
		case err != nil:
			return nil, fmt.Errorf("failed to read directory for company %s: %w", companyID, err)
		case linked == acct.ID:
			report.Linked++
		default:
			report.Superseded = append(report.Superseded, Finding{
				CompanyID:       companyID,
				AccountID:       acct.ID,
				LinkedAccountID: linked,
			})
			logger.Warn("Connected account superseded by another link",
				zap.String("company_uuid", companyID),
				zap.String("account_id", acct.ID),
				zap.String("linked_account_id", linked))
		}
	}

	logger.Info("Connected account audit finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("linked", report.Linked),
		zap.Int("untagged", report.Untagged),
		zap.Int("unlinked", len(report.Unlinked)),
		zap.Int("superseded", len(report.Superseded)))

	return report, nil
}
