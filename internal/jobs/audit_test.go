package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/directory"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/payment/paymenttest"
)

func tagged(id, companyID string) *stripe.Account {
	return &stripe.Account{ID: id, Metadata: map[string]string{CompanyMetadataKey: companyID}}
}

func TestAuditConnectedAccounts(t *testing.T) {
	ctx := context.Background()
	processor := paymenttest.New()
	processor.Accounts["acct_a"] = tagged("acct_a", "co_1")
	processor.Accounts["acct_b"] = tagged("acct_b", "co_2")
	processor.Accounts["acct_c"] = tagged("acct_c", "co_1")
	processor.Accounts["acct_d"] = &stripe.Account{ID: "acct_d"}

	dir := directory.NewMemory()
	require.NoError(t, dir.Set(ctx, "co_1", "acct_a"))

	core, logs := observer.New(zap.WarnLevel)
	report, err := AuditConnectedAccounts(ctx, processor, dir, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, 4, report.Scanned)
	assert.Equal(t, 1, report.Linked)
	assert.Equal(t, 1, report.Untagged)
	assert.Equal(t, []Finding{{CompanyID: "co_2", AccountID: "acct_b"}}, report.Unlinked)
	assert.Equal(t, []Finding{{CompanyID: "co_1", AccountID: "acct_c", LinkedAccountID: "acct_a"}}, report.Superseded)
	assert.Equal(t, 2, logs.Len())
}

func TestAuditNeverWritesDirectory(t *testing.T) {
	ctx := context.Background()
	processor := paymenttest.New()
	processor.Accounts["acct_a"] = tagged("acct_a", "co_1")

	dir := directory.NewMemory()
	report, err := AuditConnectedAccounts(ctx, processor, dir, zap.NewNop())
	require.NoError(t, err)

	assert.Len(t, report.Unlinked, 1)
	assert.Zero(t, dir.Len())
}

func TestAuditEmpty(t *testing.T) {
	report, err := AuditConnectedAccounts(context.Background(), paymenttest.New(), directory.NewMemory(), zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, report.Scanned)
	assert.NotNil(t, report.Unlinked)
	assert.NotNil(t, report.Superseded)
}

func TestAuditListError(t *testing.T) {
	processor := paymenttest.New()
	processor.ListAccountsErr = errors.New("rate limited")

	_, err := AuditConnectedAccounts(context.Background(), processor, directory.NewMemory(), zap.NewNop())
	assert.ErrorContains(t, err, "rate limited")
}

type failingDirectory struct {
	directory.Directory
}

func (failingDirectory) Get(ctx context.Context, companyID string) (string, error) {
	return "", errors.New("permission denied")
}

func TestAuditDirectoryError(t *testing.T) {
	processor := paymenttest.New()
	processor.Accounts["acct_a"] = tagged("acct_a", "co_1")

	_, err := AuditConnectedAccounts(context.Background(), processor, failingDirectory{}, zap.NewNop())
	assert.ErrorContains(t, err, "permission denied")
}
