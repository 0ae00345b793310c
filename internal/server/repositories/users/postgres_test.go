package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bookkeeper/internal/common"
	"github.com/dmitrijs2005/bookkeeper/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock, db
}

var userColumns = []string{"id", "username", "password_hash", "book_ids", "profile_book_ids", "created_at"}

const insertQuery = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*username,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+created_at$`

func TestCreate_Success(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(insertQuery).
		WithArgs("u-1", "alice", "$argon2id$hash").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	got, err := repo.Create(context.Background(), &models.User{ID: "u-1", UserName: "alice", PasswordHash: "$argon2id$hash"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, created, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateUsername(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(insertQuery).
		WithArgs("u-1", "alice", "h").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation})

	_, err := repo.Create(context.Background(), &models.User{ID: "u-1", UserName: "alice", PasswordHash: "h"})
	assert.ErrorIs(t, err, common.ErrDuplicateUsername)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(insertQuery).
		WithArgs("u-1", "alice", "h").
		WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{ID: "u-1", UserName: "alice", PasswordHash: "h"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrStore)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestGetUserByLogin_Found(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	created := time.Now().UTC()
	mock.ExpectQuery(`(?s)SELECT\s+id,\s*username,\s*password_hash,.*FROM\s+users\s+WHERE\s+username\s*=\s*\$1$`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u-1", "alice", "h", `["b-1","b-2"]`, `[]`, created))

	got, err := repo.GetUserByLogin(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "u-1", got.ID)
	assert.Equal(t, "alice", got.UserName)
	assert.Equal(t, "h", got.PasswordHash)
	assert.Equal(t, []string{"b-1", "b-2"}, got.BookIDs)
	assert.Equal(t, []string{}, got.ProfileBookIDs)
}

func TestGetUserByLogin_NotFound(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)FROM\s+users\s+WHERE\s+username`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByLogin(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u-1", "alice", "h", `[]`, `["p-1"]`, time.Now()))

	got, err := repo.GetByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.BookIDs)
	assert.Equal(t, []string{"p-1"}, got.ProfileBookIDs)
}

func TestGetByID_BadArrayPayload(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)FROM\s+users\s+WHERE\s+id`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow("u-1", "alice", "h", `{oops`, `[]`, time.Now()))

	_, err := repo.GetByID(context.Background(), "u-1")
	assert.ErrorIs(t, err, common.ErrStore)
}

func TestGetByID_DBError(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)FROM\s+users\s+WHERE\s+id`).
		WithArgs("u-1").
		WillReturnError(errors.New("db err"))

	_, err := repo.GetByID(context.Background(), "u-1")
	assert.ErrorIs(t, err, common.ErrStore)
}

func TestAddOwned(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET book_ids = array_append(book_ids, $2::uuid) WHERE id = $1`)).
		WithArgs("u-1", "b-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AddOwned(context.Background(), "u-1", models.KindBook, "b-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveOwned_ProfileBooks(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET profile_book_ids = array_remove(profile_book_ids, $2::uuid) WHERE id = $1`)).
		WithArgs("u-1", "p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.RemoveOwned(context.Background(), "u-1", models.KindProfileBook, "p-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateOwned_UnknownUser(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	mock.ExpectExec(`UPDATE users SET book_ids`).
		WithArgs("ghost", "b-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.AddOwned(context.Background(), "ghost", models.KindBook, "b-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdateOwned_Errors(t *testing.T) {
	repo, mock, _ := newRepoWithMock(t)

	err := repo.AddOwned(context.Background(), "u-1", models.Kind("magazines"), "b-1")
	assert.ErrorContains(t, err, "unknown book kind")

	mock.ExpectExec(`UPDATE users SET book_ids`).
		WithArgs("u-1", "b-1").
		WillReturnError(errors.New("db down"))
	assert.ErrorIs(t, repo.AddOwned(context.Background(), "u-1", models.KindBook, "b-1"), common.ErrStore)

	mock.ExpectExec(`UPDATE users SET book_ids`).
		WithArgs("u-1", "b-1").
		WillReturnResult(sqlmock.NewErrorResult(errors.New("rows-err")))
	assert.ErrorIs(t, repo.RemoveOwned(context.Background(), "u-1", models.KindBook, "b-1"), common.ErrStore)
}
