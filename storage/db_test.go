package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func testDatabase(t *testing.T, db Database) {
	t.Helper()

	_, err := db.Get([]byte("missing"))
	require.ErrorIs(t, err, ErrKeyNotFound)

	ok, err := db.Has([]byte("missing"))
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, db.Put([]byte("k"), []byte("v1")))
	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), got)

	ok, err = db.Has([]byte("k"))
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, db.Put([]byte("k"), []byte("v2")))
	got, err = db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), got)
}

func TestMemDB(t *testing.T) {
	db := NewMemDB()
	defer db.Close()
	testDatabase(t, db)
}

func TestMemDBCopiesValues(t *testing.T) {
	db := NewMemDB()
	defer db.Close()

	value := []byte("original")
	require.NoError(t, db.Put([]byte("k"), value))
	value[0] = 'X'

	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("original"), got)

	// Mutating the returned slice must not leak back in.
	got[0] = 'Y'
	again, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("original"), again)
}

func TestLevelDB(t *testing.T) {
	db, err := NewLevelDB(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	defer db.Close()
	testDatabase(t, db)
}

func TestLevelDBPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")

	db, err := NewLevelDB(path)
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	require.NoError(t, db.Close())

	db, err = NewLevelDB(path)
	require.NoError(t, err)
	defer db.Close()
	got, err := db.Get([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)
}
