package db

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitRepositoryFindAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "kind", "sha1_hash", "user_mode", "created_at"}).
		AddRow(1, "backup", "timer", "abc123", false, now).
		AddRow(2, "backup", "service", "def456", false, now)

	mock.ExpectQuery("SELECT id, name, kind, sha1_hash, user_mode, created_at FROM units").WillReturnRows(rows)

	repo := NewUnitRepository(db)
	units, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "backup", units[0].Name)
	assert.Equal(t, "timer", units[0].Kind)
	assert.Equal(t, "abc123", units[0].SHA1Hash)
	assert.Equal(t, "service", units[1].Kind)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitRepositoryFindByName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "kind", "sha1_hash", "user_mode", "created_at"}).
		AddRow(1, "backup", "timer", "abc123", true, now)

	mock.ExpectQuery("SELECT id, name, kind, sha1_hash, user_mode, created_at FROM units WHERE").
		WithArgs("backup", "timer").
		WillReturnRows(rows)

	repo := NewUnitRepository(db)
	unit, err := repo.FindByName("backup", "timer")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unit.ID)
	assert.True(t, unit.UserMode)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitRepositoryUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO units").
		WithArgs("backup", "timer", "abc123", false).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := NewUnitRepository(db)
	id, err := repo.Upsert(&Unit{Name: "backup", Kind: "timer", SHA1Hash: "abc123"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitRepositoryDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("DELETE FROM units WHERE").
		WithArgs("backup", "timer").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewUnitRepository(db)
	err = repo.Delete("backup", "timer")
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
