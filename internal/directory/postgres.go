package directory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createCompanyAccountsTable = `
CREATE TABLE IF NOT EXISTS company_accounts (
	company_id           TEXT PRIMARY KEY,
	connected_account_id TEXT NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore keeps one row per company in company_accounts.
type PostgresStore struct {
	db *pgxpool.Pool
}

// OpenPostgres connects, pings and creates the table when missing.
func OpenPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	store := NewPostgres(pool)
	if err := store.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: pool}
}

func (p *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := p.db.Exec(ctx, createCompanyAccountsTable); err != nil {
		return fmt.Errorf("failed to create company_accounts table: %w", err)
	}
	return nil
}

func (p *PostgresStore) Get(ctx context.Context, companyID string) (string, error) {
	query := `SELECT connected_account_id FROM company_accounts WHERE company_id = $1`

	var accountID string
	err := p.db.QueryRow(ctx, query, companyID).Scan(&accountID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read company %s: %w", companyID, err)
	}
	return accountID, nil
}

func (p *PostgresStore) Set(ctx context.Context, companyID, accountID string) error {
	if err := validate(companyID, accountID); err != nil {
		return err
	}

	query := `
		INSERT INTO company_accounts (company_id, connected_account_id)
		VALUES ($1, $2)
		ON CONFLICT (company_id)
		DO UPDATE SET connected_account_id = EXCLUDED.connected_account_id, updated_at = NOW()
	`
	if _, err := p.db.Exec(ctx, query, companyID, accountID); err != nil {
		return fmt.Errorf("failed to write company %s: %w", companyID, err)
	}
	return nil
}

// SetIfAbsent relies on the no-op conflict update to return the row that won,
// which is either ours or the one already present.
func (p *PostgresStore) SetIfAbsent(ctx context.Context, companyID, accountID string) (string, bool, error) {
	if err := validate(companyID, accountID); err != nil {
		return "", false, err
	}

	query := `
		INSERT INTO company_accounts (company_id, connected_account_id)
		VALUES ($1, $2)
		ON CONFLICT (company_id)
		DO UPDATE SET company_id = company_accounts.company_id
		RETURNING connected_account_id, (xmax = 0) AS inserted
	`
	var (
		stored   string
		inserted bool
	)
	if err := p.db.QueryRow(ctx, query, companyID, accountID).Scan(&stored, &inserted); err != nil {
		return "", false, fmt.Errorf("failed to link company %s: %w", companyID, err)
	}
	return stored, inserted, nil
}

func (p *PostgresStore) Close() error {
	p.db.Close()
	return nil
}
