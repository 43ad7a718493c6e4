package user

import (
	c "authfront/internal/core/domain/common"
	"authfront/internal/core/domain/user"
	"authfront/internal/db"
	"context"
	"errors"

	"github.com/jackc/pgtype"
	"github.com/jackc/pgx/v4"
)

const (
	EMAIL_CONSTRAINT_NAME = "user_email_idx"
	PHONE_CONSTRAINT_NAME = "user_phone_idx"
)

const userColumns = `id, email, phone, password_hash, name, image, created_at`

type PgxUserRepository struct {
	db db.DBTX
}

func NewPgxRepository(db db.DBTX) *PgxUserRepository {
	if db == nil {
		panic("Argument db must not be nil.")
	}
	return &PgxUserRepository{db: db}
}

func (r *PgxUserRepository) Create(ctx context.Context, input user.CreateUserInput) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO "user" (email, phone, password_hash, name, image, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		encodeText(input.Email),
		encodeText(input.Phone),
		encodeText(input.PasswordHash),
		encodeText(input.Name),
		encodeText(input.Image),
		input.CreatedAt,
	)
	u, err = scanUser(row)
	if db.IsUniqueViolation(err, EMAIL_CONSTRAINT_NAME, PHONE_CONSTRAINT_NAME) {
		return u, user.ErrUserAlreadyExists
	}
	return u, err
}

func (r *PgxUserRepository) GetByID(ctx context.Context, id user.ID) (u user.User, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM "user" WHERE id = $1`, int64(id))
	return scanUser(row)
}

func (r *PgxUserRepository) GetByEmail(ctx context.Context, email c.Email) (u user.User, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM "user" WHERE email = $1`, string(email))
	return scanUser(row)
}

func (r *PgxUserRepository) GetByEmailForUpdate(ctx context.Context, email c.Email) (u user.User, err error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM "user" WHERE email = $1 FOR UPDATE`, string(email))
	return scanUser(row)
}

func (r *PgxUserRepository) GetByEmailOrPhone(
	ctx context.Context,
	email c.Optional[c.Email],
	phone c.Optional[c.Phone],
) (u user.User, err error) {
	if !email.IsPresent && !phone.IsPresent {
		return u, user.ErrUserDoesNotExist
	}
	row := r.db.QueryRow(
		ctx,
		`SELECT `+userColumns+` FROM "user"
		WHERE ($1::varchar IS NOT NULL AND email = $1) OR ($2::varchar IS NOT NULL AND phone = $2)
		ORDER BY id
		LIMIT 1`,
		encodeText(email),
		encodeText(phone),
	)
	return scanUser(row)
}

func (r *PgxUserRepository) SetPassword(ctx context.Context, id user.ID, password user.PasswordHash) error {
	tag, err := r.db.Exec(ctx, `UPDATE "user" SET password_hash = $2 WHERE id = $1`, int64(id), string(password))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserDoesNotExist
	}
	return nil
}

func (r *PgxUserRepository) UpsertOAuthUser(
	ctx context.Context,
	input user.UpsertOAuthUserInput,
) (u user.User, err error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO "user" AS u (email, name, image, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE
		SET name = COALESCE(u.name, EXCLUDED.name), image = COALESCE(u.image, EXCLUDED.image)
		WHERE $5::boolean AND u.password_hash IS NULL
		RETURNING `+userColumns,
		string(input.Email),
		encodeText(input.Name),
		encodeText(input.Image),
		input.CreatedAt,
		input.LinkExisting,
	)
	u, err = scanUser(row)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		return u, user.ErrOAuthAccountNotLinked
	}
	return u, err
}

func encodeText[T ~string](value c.Optional[T]) pgtype.Text {
	if !value.IsPresent {
		return pgtype.Text{Status: pgtype.Null}
	}
	return pgtype.Text{String: string(value.Value), Status: pgtype.Present}
}

func decodeText[T ~string](value pgtype.Text) c.Optional[T] {
	return c.NewOptional(T(value.String), value.Status == pgtype.Present)
}

func scanUser(row pgx.Row) (u user.User, err error) {
	var (
		id           int64
		email        pgtype.Text
		phone        pgtype.Text
		passwordHash pgtype.Text
		name         pgtype.Text
		image        pgtype.Text
	)
	err = row.Scan(&id, &email, &phone, &passwordHash, &name, &image, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return u, user.ErrUserDoesNotExist
	}
	if err != nil {
		return u, err
	}
	u.ID = user.ID(id)
	u.Email = decodeText[c.Email](email)
	u.Phone = decodeText[c.Phone](phone)
	u.PasswordHash = decodeText[user.PasswordHash](passwordHash)
	u.Name = decodeText[string](name)
	u.Image = decodeText[string](image)
	u.CreatedAt = u.CreatedAt.UTC()
	if err := u.Validate(); err != nil {
		return u, err
	}
	return u, nil
}
