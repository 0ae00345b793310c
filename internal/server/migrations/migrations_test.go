package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsEmbedded(t *testing.T) {
	files, err := fs.Glob(Migrations, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	body, err := fs.ReadFile(Migrations, files[0])
	require.NoError(t, err)
	for _, want := range []string{"-- +goose Up", "-- +goose Down", "CREATE TABLE users", "CREATE TABLE books", "CREATE TABLE profile_books"} {
		assert.True(t, strings.Contains(string(body), want), "missing %q", want)
	}
}
