package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Tokens is the persistence interface for issued token records. Save is an
// insert-or-update keyed by the signed token string; historical records per
// user accumulate, so callers must not assume at most one record per owner.
type Tokens interface {
	repository.Repository[*Token]

	Save(ctx context.Context, record *Token) (*Token, error)
	SaveTx(ctx context.Context, tx bun.IDB, record *Token) (*Token, error)

	GetByToken(ctx context.Context, tokenString string) (*Token, error)
	GetByTokenTx(ctx context.Context, tx bun.IDB, tokenString string) (*Token, error)

	GetUserByToken(ctx context.Context, tokenString string) (*User, error)
	GetUserByTokenTx(ctx context.Context, tx bun.IDB, tokenString string) (*User, error)

	GetByUser(ctx context.Context, userID uuid.UUID) (*Token, error)
	GetByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) (*Token, error)

	ListExpired(ctx context.Context, asOf time.Time) ([]*Token, error)
	ListExpiredTx(ctx context.Context, tx bun.IDB, asOf time.Time) ([]*Token, error)
}

type tokens struct {
	repository.Repository[*Token]
	db *bun.DB
}

var (
	_ Tokens                        = (*tokens)(nil)
	_ repository.Repository[*Token] = (*tokens)(nil)
	_ TokenStore                    = (*tokens)(nil)
)

func NewTokensRepository(db *bun.DB) Tokens {
	repo := repository.NewRepository[*Token](db, repository.ModelHandlers[*Token]{
		NewRecord: func() *Token { return &Token{} },
		GetID: func(t *Token) uuid.UUID {
			if t == nil {
				return uuid.Nil
			}
			return t.ID
		},
		SetID: func(t *Token, id uuid.UUID) {
			if t != nil {
				t.ID = id
			}
		},
		GetIdentifier: func() string {
			return "token"
		},
	})

	return &tokens{
		Repository: repo,
		db:         db,
	}
}

func (r *tokens) Save(ctx context.Context, record *Token) (*Token, error) {
	return r.SaveTx(ctx, r.db, record)
}

// SaveTx upserts by token string. The revoked column is monotonic: once a
// stored record is revoked, no later save of the same key can clear it, so
// concurrent writers converge and a re-issue can never resurrect a revoked
// token.
func (r *tokens) SaveTx(ctx context.Context, tx bun.IDB, record *Token) (*Token, error) {
	if record == nil {
		return nil, ErrNoEmptyString
	}
	if record.Token == "" {
		return nil, ErrNoEmptyString
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	now := time.Now()
	record.UpdatedAt = &now

	_, err := tx.NewInsert().
		Model(record).
		On("CONFLICT (token) DO UPDATE").
		Set("revoked = revoked OR EXCLUDED.revoked").
		Set("expires_at = EXCLUDED.expires_at").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	return record, nil
}

func (r *tokens) GetByToken(ctx context.Context, tokenString string) (*Token, error) {
	return r.GetByTokenTx(ctx, r.db, tokenString)
}

func (r *tokens) GetByTokenTx(ctx context.Context, tx bun.IDB, tokenString string) (*Token, error) {
	record := &Token{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.token = ?", tokenString).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"token": tokenString,
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *tokens) GetUserByToken(ctx context.Context, tokenString string) (*User, error) {
	return r.GetUserByTokenTx(ctx, r.db, tokenString)
}

// GetUserByTokenTx resolves the owning user through the token relation
// without materializing the token record itself.
func (r *tokens) GetUserByTokenTx(ctx context.Context, tx bun.IDB, tokenString string) (*User, error) {
	record := &Token{}
	err := tx.NewSelect().
		Model(record).
		Relation("User").
		Where("?TableAlias.token = ?", tokenString).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"token": tokenString,
				})
		}
		return nil, err
	}

	if record.User == nil {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"token": tokenString,
			})
	}

	return record.User, nil
}

func (r *tokens) GetByUser(ctx context.Context, userID uuid.UUID) (*Token, error) {
	return r.GetByUserTx(ctx, r.db, userID)
}

// GetByUserTx returns the most recently issued record for a user. Older
// records may still exist; no per-user uniqueness is enforced.
func (r *tokens) GetByUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) (*Token, error) {
	record := &Token{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.user_id = ?", userID).
		Order("issued_at DESC").
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"user_id": userID.String(),
				})
		}
		return nil, err
	}

	return record, nil
}

func (r *tokens) ListExpired(ctx context.Context, asOf time.Time) ([]*Token, error) {
	return r.ListExpiredTx(ctx, r.db, asOf)
}

// ListExpiredTx reports every record whose window closed at or before asOf.
// It does not delete; retention is the caller's decision.
func (r *tokens) ListExpiredTx(ctx context.Context, tx bun.IDB, asOf time.Time) ([]*Token, error) {
	var records []*Token
	err := tx.NewSelect().
		Model(&records).
		Where("?TableAlias.expires_at <= ?", asOf).
		Order("expires_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	return records, nil
}
