// Package directory maps company identifiers to their connected payment
// account identifiers. Every read is a live round trip to the backing store.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the company has no connected account.
var ErrNotFound = errors.New("directory: no connected account for company")

var errEmptyKey = errors.New("directory: company id and account id must be non-empty")

// Directory is the company -> connected account lookup.
type Directory interface {
	Get(ctx context.Context, companyID string) (string, error)
	// Set stores accountID unconditionally.
	Set(ctx context.Context, companyID, accountID string) error
	// SetIfAbsent stores accountID only when the company has no account yet.
	// It returns the id that is stored after the call and whether this call wrote it.
	SetIfAbsent(ctx context.Context, companyID, accountID string) (stored string, created bool, err error)
}

// Store is a Directory that owns a connection.
type Store interface {
	Directory
	Close() error
}

type Options struct {
	Backend string

	FirebaseDatabaseURL     string
	FirebaseCredentialsFile string

	RedisURL       string
	RedisKeyPrefix string

	DatabaseURL string
}

// Open connects to the backend named in opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	var (
		store Store
		err   error
	)
	switch strings.ToLower(opts.Backend) {
	case "firebase":
		store, err = OpenFirebase(ctx, opts.FirebaseDatabaseURL, opts.FirebaseCredentialsFile)
	case "redis":
		store, err = OpenRedis(ctx, opts.RedisURL, opts.RedisKeyPrefix)
	case "postgres":
		store, err = OpenPostgres(ctx, opts.DatabaseURL)
	case "memory":
		store = NewMemory()
	default:
		return nil, fmt.Errorf("unknown directory backend %q", opts.Backend)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

func validate(companyID, accountID string) error {
	if strings.TrimSpace(companyID) == "" || strings.TrimSpace(accountID) == "" {
		return errEmptyKey
	}
	return nil
}
