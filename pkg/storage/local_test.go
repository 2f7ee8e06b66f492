package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSaveReadDelete(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save("invoices/F001.pdf", []byte("%PDF-1.3"))
	require.NoError(t, err)
	assert.Equal(t, "invoices/F001.pdf", name)

	data, err := store.Read(name)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(data))

	require.NoError(t, store.Delete(name))
	_, err = store.Read(name)
	assert.Error(t, err)
	assert.NoError(t, store.Delete(name))
}

func TestLocalRejectsTraversal(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("../escape.pdf", []byte("x"))
	assert.Error(t, err)
	_, err = store.Read("")
	assert.Error(t, err)
}

func TestLocalPurgeOlderThan(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	_, err = store.Save("invoices/F001.pdf", []byte("x"))
	require.NoError(t, err)

	removed, err := store.PurgeOlderThan(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, removed)

	removed, err = store.PurgeOlderThan(-time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}
