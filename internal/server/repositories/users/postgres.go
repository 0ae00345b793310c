package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bookkeeper/internal/common"
	"github.com/dmitrijs2005/bookkeeper/internal/dbx"
	"github.com/dmitrijs2005/bookkeeper/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectUser = `SELECT id, username, password_hash,
		array_to_json(book_ids)::text, array_to_json(profile_book_ids)::text, created_at
		FROM users`

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (id, username, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query, user.ID, user.UserName, user.PasswordHash).Scan(&user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, common.ErrDuplicateUsername
		}
		return nil, common.StoreError(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE username = $1`, userName)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, selectUser+` WHERE id = $1`, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg string) (*models.User, error) {
	var (
		user                    models.User
		bookIDs, profileBookIDs string
	)

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.UserName, &user.PasswordHash, &bookIDs, &profileBookIDs, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.StoreError(err)
	}

	if user.BookIDs, err = decodeIDs(bookIDs); err != nil {
		return nil, common.StoreError(err)
	}
	if user.ProfileBookIDs, err = decodeIDs(profileBookIDs); err != nil {
		return nil, common.StoreError(err)
	}

	return &user, nil
}

func (r *PostgresRepository) AddOwned(ctx context.Context, userID string, kind models.Kind, bookID string) error {
	return r.updateOwned(ctx, "array_append", userID, kind, bookID)
}

func (r *PostgresRepository) RemoveOwned(ctx context.Context, userID string, kind models.Kind, bookID string) error {
	return r.updateOwned(ctx, "array_remove", userID, kind, bookID)
}

func (r *PostgresRepository) updateOwned(ctx context.Context, fn string, userID string, kind models.Kind, bookID string) error {
	col, err := ownedColumn(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`UPDATE users SET %[1]s = %[2]s(%[1]s, $2::uuid) WHERE id = $1`, col, fn)

	res, err := r.db.ExecContext(ctx, query, userID, bookID)
	if err != nil {
		return common.StoreError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return common.StoreError(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func ownedColumn(kind models.Kind) (string, error) {
	switch kind {
	case models.KindBook:
		return "book_ids", nil
	case models.KindProfileBook:
		return "profile_book_ids", nil
	default:
		return "", fmt.Errorf("unknown book kind %q", kind)
	}
}

func decodeIDs(raw string) ([]string, error) {
	ids := []string{}
	if raw == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode id list: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
