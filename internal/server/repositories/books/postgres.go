package books

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bookkeeper/internal/common"
	"github.com/dmitrijs2005/bookkeeper/internal/dbx"
	"github.com/dmitrijs2005/bookkeeper/internal/server/models"
)

// PostgresRepository implements book storage over a dbx.DBTX (*sql.DB or *sql.Tx).
// The table is chosen by the kind it was built for.
type PostgresRepository struct {
	db    dbx.DBTX
	table string
}

// NewPostgresRepository binds a repository to the table of the given kind.
func NewPostgresRepository(db dbx.DBTX, kind models.Kind) (*PostgresRepository, error) {
	switch kind {
	case models.KindBook, models.KindProfileBook:
	default:
		return nil, fmt.Errorf("unknown book kind %q", kind)
	}
	return &PostgresRepository{db: db, table: string(kind)}, nil
}

func (r *PostgresRepository) selectWithOwner() string {
	return fmt.Sprintf(`SELECT b.id, b.owner_id, COALESCE(u.username, ''), b.title, b.author,
		b.publish_year, b.cover_key, b.created_at, b.updated_at
		FROM %s b LEFT JOIN users u ON u.id = b.owner_id`, r.table)
}

func (r *PostgresRepository) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	query := fmt.Sprintf(
		`INSERT INTO %s (id, owner_id, title, author, publish_year)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at`, r.table)

	err := r.db.QueryRowContext(ctx, query, book.ID, book.OwnerID, book.Title, book.Author, book.PublishYear).
		Scan(&book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		return nil, common.StoreError(err)
	}

	return book, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Book, error) {
	row := r.db.QueryRowContext(ctx, r.selectWithOwner()+` WHERE b.id = $1`, id)

	book, err := scanBook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, common.StoreError(err)
	}
	return book, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Book, error) {
	return r.list(ctx, r.selectWithOwner()+` WHERE b.owner_id = $1 ORDER BY b.created_at, b.id`, ownerID)
}

func (r *PostgresRepository) ListAll(ctx context.Context) ([]*models.Book, error) {
	return r.list(ctx, r.selectWithOwner()+` ORDER BY b.created_at, b.id`)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Book, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, common.StoreError(err)
	}
	defer rows.Close()

	result := []*models.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, common.StoreError(err)
		}
		result = append(result, book)
	}
	if err := rows.Err(); err != nil {
		return nil, common.StoreError(err)
	}
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(s scanner) (*models.Book, error) {
	var (
		b         models.Book
		ownerName string
	)
	if err := s.Scan(&b.ID, &b.OwnerID, &ownerName, &b.Title, &b.Author,
		&b.PublishYear, &b.CoverKey, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	b.Owner = &models.PublicUser{ID: b.OwnerID, UserName: ownerName}
	return &b, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id string, fields models.BookFields) error {
	query := fmt.Sprintf(
		`UPDATE %s SET
			title = COALESCE($2::text, title),
			author = COALESCE($3::text, author),
			publish_year = COALESCE($4::integer, publish_year),
			updated_at = now()
		 WHERE id = $1`, r.table)

	return r.execOne(ctx, query, id, fields.Title, fields.Author, fields.PublishYear)
}

func (r *PostgresRepository) SetCoverKey(ctx context.Context, id string, key string) error {
	query := fmt.Sprintf(`UPDATE %s SET cover_key = $2, updated_at = now() WHERE id = $1`, r.table)
	return r.execOne(ctx, query, id, key)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.table)
	return r.execOne(ctx, query, id)
}

// execOne runs a statement that must touch exactly one row.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return common.StoreError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return common.StoreError(fmt.Errorf("rows affected: %w", err))
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return common.StoreError(fmt.Errorf("unexpected rows affected: %d", n))
	}
}
