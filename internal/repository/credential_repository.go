package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"ideahub-backend/internal/domain"
	"ideahub-backend/pkg/database"
	apperrors "ideahub-backend/pkg/errors"
)

const credentialColumns = `id, user_id, provider, access_token, refresh_token, scope,
	       expires_at, profile_identifier, profile_name, created_at, updated_at`

type PostgresCredentialRepo struct {
	db *database.PostgresDB
}

func NewPostgresCredentialRepo(db *database.PostgresDB) *PostgresCredentialRepo {
	return &PostgresCredentialRepo{db: db}
}

// lockKey serializes mutations for one (user, provider) pair. The advisory
// lock is transaction-scoped, so it releases on commit or rollback.
func lockKey(userID string, provider domain.Provider) string {
	return userID + "/" + string(provider)
}

func acquireRowLock(ctx context.Context, tx pgx.Tx, userID string, provider domain.Provider) error {
	_, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey(userID, provider))
	if err != nil {
		return fmt.Errorf("failed to acquire credential lock: %w", err)
	}
	return nil
}

// Get retrieves the active credential for (userID, provider)
func (r *PostgresCredentialRepo) Get(ctx context.Context, userID string, provider domain.Provider) (*domain.Credential, error) {
	query := `
		SELECT ` + credentialColumns + `
		FROM credentials
		WHERE user_id = $1 AND provider = $2
	`

	cred, err := scanCredential(r.db.Pool.QueryRow(ctx, query, userID, string(provider)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no %s credential for user", provider))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get credential: %w", err)
	}

	return cred, nil
}

// Replace atomically swaps the credential for (cred.UserID, cred.Provider).
// Delete-then-insert inside one transaction under the per-key advisory lock.
func (r *PostgresCredentialRepo) Replace(ctx context.Context, cred *domain.Credential) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := acquireRowLock(ctx, tx, cred.UserID, cred.Provider); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM credentials WHERE user_id = $1 AND provider = $2`,
			cred.UserID, string(cred.Provider),
		); err != nil {
			return fmt.Errorf("failed to delete previous credential: %w", err)
		}

		query := `
			INSERT INTO credentials (
				user_id, provider, access_token, refresh_token, scope,
				expires_at, profile_identifier, profile_name
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at, updated_at
		`

		err := tx.QueryRow(ctx, query,
			cred.UserID,
			string(cred.Provider),
			cred.AccessToken,
			cred.RefreshToken,
			cred.Scopes,
			cred.ExpiresAt,
			cred.ProfileIdentifier,
			cred.ProfileName,
		).Scan(&cred.ID, &cred.CreatedAt, &cred.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert credential: %w", err)
		}

		return nil
	})
}

// UpdateTokens updates access_token and expires_at in place
func (r *PostgresCredentialRepo) UpdateTokens(ctx context.Context, userID string, provider domain.Provider, accessToken string, expiresAt time.Time) error {
	return r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := acquireRowLock(ctx, tx, userID, provider); err != nil {
			return err
		}

		tag, err := tx.Exec(ctx, `
			UPDATE credentials
			SET access_token = $3, expires_at = $4, updated_at = now()
			WHERE user_id = $1 AND provider = $2
		`, userID, string(provider), accessToken, expiresAt)
		if err != nil {
			return fmt.Errorf("failed to update tokens: %w", err)
		}

		if tag.RowsAffected() == 0 {
			return apperrors.NewNotFoundError(fmt.Sprintf("no %s credential for user", provider))
		}

		return nil
	})
}

// Delete removes the credential for (userID, provider)
func (r *PostgresCredentialRepo) Delete(ctx context.Context, userID string, provider domain.Provider) error {
	_, err := r.db.Pool.Exec(ctx,
		`DELETE FROM credentials WHERE user_id = $1 AND provider = $2`,
		userID, string(provider),
	)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	return nil
}

func scanCredential(row pgx.Row) (*domain.Credential, error) {
	var cred domain.Credential
	var provider string
	err := row.Scan(
		&cred.ID,
		&cred.UserID,
		&provider,
		&cred.AccessToken,
		&cred.RefreshToken,
		&cred.Scopes,
		&cred.ExpiresAt,
		&cred.ProfileIdentifier,
		&cred.ProfileName,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	cred.Provider = domain.Provider(provider)
	return &cred, nil
}
