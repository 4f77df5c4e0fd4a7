package store

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	s := New(db)
	require.NoError(t, s.Init())
	return s
}

func TestPutGetRaw(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetRaw("missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.PutRaw(KeyLastScan, []byte("P1")))
	got, err = s.GetRaw(KeyLastScan)
	require.NoError(t, err)
	assert.Equal(t, "P1", string(got))

	require.NoError(t, s.PutRaw(KeyLastScan, []byte("P2")))
	got, err = s.GetRaw(KeyLastScan)
	require.NoError(t, err)
	assert.Equal(t, "P2", string(got))
}

func TestReadJSONMissingKeyLeavesDestEmpty(t *testing.T) {
	s := newTestStore(t)

	var items []string
	require.NoError(t, s.ReadJSON(KeyPallets, &items))
	assert.Empty(t, items)
}

func TestReadJSONCorruptPayloadFallsBackToEmpty(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.PutRaw(KeyPallets, []byte("{not json")))

	var items []string
	require.NoError(t, s.ReadJSON(KeyPallets, &items))
	assert.Empty(t, items)
}

func TestWriteReadJSONRoundTrip(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.WriteJSON(KeyShops, []string{"a", "b"}))

	var items []string
	require.NoError(t, s.ReadJSON(KeyShops, &items))
	assert.Equal(t, []string{"a", "b"}, items)
}

func TestTransactionCommitAndRollback(t *testing.T) {
	s := newTestStore(t)

	tx, err := s.Beginx()
	require.NoError(t, err)
	require.NoError(t, s.PutRawTx(tx, "k", []byte("v")))
	require.NoError(t, tx.Commit())

	got, err := s.GetRaw("k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	tx, err = s.Beginx()
	require.NoError(t, err)
	require.NoError(t, s.PutRawTx(tx, "k", []byte("changed")))
	require.NoError(t, tx.Rollback())

	got, err = s.GetRaw("k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}
