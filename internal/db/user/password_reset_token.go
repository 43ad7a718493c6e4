package user

import (
	"authfront/internal/core/domain/user"
	"authfront/internal/db"
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

const passwordResetTokenColumns = `id, user_id, token_hash, expires_at, created_at`

type PgxPasswordResetTokenRepository struct {
	db db.DBTX
}

func NewPgxPasswordResetTokenRepository(db db.DBTX) *PgxPasswordResetTokenRepository {
	if db == nil {
		panic("Argument db must not be nil.")
	}
	return &PgxPasswordResetTokenRepository{db: db}
}

func (r *PgxPasswordResetTokenRepository) Create(
	ctx context.Context,
	input user.CreatePasswordResetTokenInput,
) (t user.PasswordResetToken, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO password_reset_token (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+passwordResetTokenColumns,
		encodeUUID(user.NewPasswordResetTokenID()),
		int64(input.UserID),
		string(input.TokenHash),
		input.ExpiresAt,
		input.CreatedAt,
	)
	return scanPasswordResetToken(row)
}

func (r *PgxPasswordResetTokenRepository) DeleteByUserID(ctx context.Context, userID user.ID) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM password_reset_token WHERE user_id = $1`, int64(userID))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgxPasswordResetTokenRepository) GetByTokenHashForUpdate(
	ctx context.Context,
	hash user.PasswordResetTokenHash,
) (t user.PasswordResetToken, err error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+passwordResetTokenColumns+` FROM password_reset_token WHERE token_hash = $1 FOR UPDATE`,
		string(hash),
	)
	return scanPasswordResetToken(row)
}

func (r *PgxPasswordResetTokenRepository) Delete(ctx context.Context, id user.PasswordResetTokenID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM password_reset_token WHERE id = $1`, encodeUUID(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrPasswordResetTokenNotFound
	}
	return nil
}

func encodeUUID(id user.PasswordResetTokenID) pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.UUID(id), Status: pgtype.Present}
}

func scanPasswordResetToken(row pgx.Row) (t user.PasswordResetToken, err error) {
	var (
		id        pgtype.UUID
		userID    int64
		tokenHash string
	)
	err = row.Scan(&id, &userID, &tokenHash, &t.ExpiresAt, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return t, user.ErrPasswordResetTokenNotFound
	}
	if err != nil {
		return t, err
	}
	t.ID = user.PasswordResetTokenID(id.Bytes)
	t.UserID = user.ID(userID)
	t.TokenHash = user.PasswordResetTokenHash(tokenHash)
	t.ExpiresAt = t.ExpiresAt.UTC()
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}
