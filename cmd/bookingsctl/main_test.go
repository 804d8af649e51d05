package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"

	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/bookings"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/directory"
	"github.com/bigbluetruck333-spec/BluCollarBookings/internal/payment/paymenttest"
)

type harness struct {
	store     *directory.MemoryStore
	processor *paymenttest.Processor
	cleanups  int
}

func newHarness() *harness {
	return &harness{store: directory.NewMemory(), processor: paymenttest.New()}
}

func (h *harness) load(ctx context.Context) (*app, func(), error) {
	return &app{
		directory: h.store,
		connect: bookings.NewConnectService(h.processor, h.store, bookings.ConnectConfig{
			BaseURL: "https://gateway.example.com",
			Country: "US",
		}, zap.NewNop()),
		accounts: h.processor,
		logger:   zap.NewNop(),
	}, func() { h.cleanups++ }, nil
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd(h.load)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDirectoryGet(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.store.Set(context.Background(), "co_1", "acct_1"))

	out, err := h.run(t, "directory", "get", "co_1")
	require.NoError(t, err)
	assert.Equal(t, "acct_1\n", out)
	assert.Equal(t, 1, h.cleanups)

	_, err = h.run(t, "directory", "get", "co_missing")
	assert.EqualError(t, err, "company co_missing has no connected account")
}

func TestDirectoryLink(t *testing.T) {
	h := newHarness()

	out, err := h.run(t, "directory", "link", "co_1", "acct_1")
	require.NoError(t, err)
	assert.Contains(t, out, "Linked co_1 to acct_1")

	out, err = h.run(t, "directory", "link", "co_1", "acct_1")
	require.NoError(t, err)
	assert.Contains(t, out, "already linked")

	_, err = h.run(t, "directory", "link", "co_1", "acct_2")
	assert.EqualError(t, err, "company co_1 is already linked to acct_1")

	stored, err := h.store.Get(context.Background(), "co_1")
	require.NoError(t, err)
	assert.Equal(t, "acct_1", stored)
}

func TestDirectoryLinkArgs(t *testing.T) {
	h := newHarness()

	_, err := h.run(t, "directory", "link", "co_1")
	assert.Error(t, err)
	assert.Zero(t, h.cleanups)
}

func TestOnboard(t *testing.T) {
	h := newHarness()

	out, err := h.run(t, "onboard", "co_1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "https://connect.stripe.com/"))

	_, err = h.run(t, "onboard", "co_1")
	require.NoError(t, err)
	assert.Len(t, h.processor.AccountsCreated, 1)
	assert.Equal(t, 1, h.store.Len())
}

func TestStatus(t *testing.T) {
	h := newHarness()
	require.NoError(t, h.store.Set(context.Background(), "co_1", "acct_1"))
	h.processor.Accounts["acct_1"] = &stripe.Account{ID: "acct_1", ChargesEnabled: true}

	out, err := h.run(t, "status", "co_1")
	require.NoError(t, err)

	var status map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, "acct_1", status["accountId"])
	assert.Equal(t, true, status["chargesEnabled"])

	_, err = h.run(t, "status", "co_unknown")
	var svcErr *bookings.Error
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, bookings.KindNotFound, svcErr.Kind)
}

func TestLoaderErrorIsReturned(t *testing.T) {
	cmd := newRootCmd(func(ctx context.Context) (*app, func(), error) {
		return nil, nil, errors.New("STRIPE_SECRET_KEY is required")
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"directory", "get", "co_1"})

	assert.EqualError(t, cmd.Execute(), "STRIPE_SECRET_KEY is required")
}

func TestAudit(t *testing.T) {
	h := newHarness()

	_, err := h.run(t, "onboard", "co_1")
	require.NoError(t, err)
	h.processor.Accounts["acct_orphan"] = &stripe.Account{
		ID:       "acct_orphan",
		Metadata: map[string]string{"company_uuid": "co_2"},
	}

	out, err := h.run(t, "audit")
	require.NoError(t, err)

	var report struct {
		Scanned  int `json:"scanned"`
		Linked   int `json:"linked"`
		Unlinked []struct {
			CompanyID string `json:"companyUUID"`
			AccountID string `json:"accountId"`
		} `json:"unlinked"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 2, report.Scanned)
	assert.Equal(t, 1, report.Linked)
	require.Len(t, report.Unlinked, 1)
	assert.Equal(t, "acct_orphan", report.Unlinked[0].AccountID)
}
