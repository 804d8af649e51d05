package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

const (
	firebaseCompaniesPath = "companies"
	firebaseAccountField  = "stripeAccountId"
)

var errInvalidFirebaseKey = errors.New(`directory: company id contains a character not allowed in a database path (. $ # [ ] /)`)

// FirebaseStore keeps the account id on the company node of a Realtime
// Database, at companies/{companyId}/stripeAccountId.
type FirebaseStore struct {
	client *db.Client
}

// OpenFirebase connects to the Realtime Database at databaseURL. Without a
// credentials file the Application Default Credentials are used.
func OpenFirebase(ctx context.Context, databaseURL, credentialsFile string, extra ...option.ClientOption) (*FirebaseStore, error) {
	opts := append([]option.ClientOption{}, extra...)
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: databaseURL}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize realtime database client: %w", err)
	}

	return NewFirebase(client), nil
}

func NewFirebase(client *db.Client) *FirebaseStore {
	return &FirebaseStore{client: client}
}

func (f *FirebaseStore) companyRef(companyID string) (*db.Ref, error) {
	if strings.ContainsAny(companyID, ".$#[]/") {
		return nil, errInvalidFirebaseKey
	}
	return f.client.NewRef(firebaseCompaniesPath).Child(companyID), nil
}

func (f *FirebaseStore) Get(ctx context.Context, companyID string) (string, error) {
	ref, err := f.companyRef(companyID)
	if err != nil {
		return "", err
	}

	var accountID string
	if err := ref.Child(firebaseAccountField).Get(ctx, &accountID); err != nil {
		return "", fmt.Errorf("failed to read company %s: %w", companyID, err)
	}
	if accountID == "" {
		return "", ErrNotFound
	}
	return accountID, nil
}

// Set merges the account id into the company node so sibling fields written by
// the bookings app are left alone.
func (f *FirebaseStore) Set(ctx context.Context, companyID, accountID string) error {
	if err := validate(companyID, accountID); err != nil {
		return err
	}
	ref, err := f.companyRef(companyID)
	if err != nil {
		return err
	}

	if err := ref.Update(ctx, map[string]interface{}{firebaseAccountField: accountID}); err != nil {
		return fmt.Errorf("failed to write company %s: %w", companyID, err)
	}
	return nil
}

// SetIfAbsent runs a database transaction on the account field. The update
// function can run more than once under contention, so results are reset on
// every attempt.
func (f *FirebaseStore) SetIfAbsent(ctx context.Context, companyID, accountID string) (string, bool, error) {
	if err := validate(companyID, accountID); err != nil {
		return "", false, err
	}
	ref, err := f.companyRef(companyID)
	if err != nil {
		return "", false, err
	}

	var (
		stored  string
		created bool
	)
	err = ref.Child(firebaseAccountField).Transaction(ctx, func(node db.TransactionNode) (interface{}, error) {
		var current string
		if err := node.Unmarshal(&current); err != nil {
			return nil, err
		}
		if current != "" {
			stored, created = current, false
			return current, nil
		}
		stored, created = accountID, true
		return accountID, nil
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to link company %s: %w", companyID, err)
	}
	return stored, created, nil
}

func (f *FirebaseStore) Close() error {
	return nil
}
