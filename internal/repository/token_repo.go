package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"sync-workbench/internal/model"
)

type TokenRepository struct {
	db Querier
}

func NewTokenRepository(db Querier) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Save(ctx context.Context, t model.Token) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tokens (id, token, user_id, type, expires, blacklisted, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.Token, t.UserID, t.Type, t.Expires, t.Blacklisted, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// FindActive looks up a stored, non-blacklisted token matching the signed
// string and type. Absence is reported as ErrTokenNotFound; a valid
// signature alone is never sufficient for persisted token types.
func (r *TokenRepository) FindActive(ctx context.Context, token string, tokenType string) (model.Token, error) {
	var t model.Token
	err := r.db.QueryRow(ctx,
		`SELECT id, token, user_id, type, expires, blacklisted, created_at
		 FROM tokens
		 WHERE token = $1 AND type = $2 AND blacklisted = false`,
		token, tokenType).
		Scan(&t.ID, &t.Token, &t.UserID, &t.Type, &t.Expires, &t.Blacklisted, &t.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Token{}, model.ErrTokenNotFound
	}
	if err != nil {
		return model.Token{}, fmt.Errorf("find token: %w", err)
	}
	return t, nil
}

func (r *TokenRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tokens WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTokenNotFound
	}
	return nil
}

// DeleteAllForUser purges every stored token of one type for a user. Reset
// and verify flows use this so no outstanding link survives a successful one.
func (r *TokenRepository) DeleteAllForUser(ctx context.Context, userID string, tokenType string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM tokens WHERE user_id = $1 AND type = $2`, userID, tokenType)
	if err != nil {
		return fmt.Errorf("delete tokens for user: %w", err)
	}
	return nil
}

func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tokens WHERE expires <= $1`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
