package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueRooms(t *testing.T) {
	got := UniqueRooms([]string{" A101", "A101", "", "B202", "A101 ", "  ", "Lab 3"})
	assert.Equal(t, []string{"A101", "B202", "Lab 3"}, got)

	assert.Empty(t, UniqueRooms(nil))
}

func TestRoomCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aulas.json")
	require.NoError(t, os.WriteFile(path, []byte(`["A101", "B202", " A101", "B202"]`), 0o644))

	rooms, err := NewRoomCatalog(path, nil).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"A101", "B202"}, rooms)
}

func TestRoomCatalogFromURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`["Aula Magna","A101","Aula Magna"]`))
	}))
	t.Cleanup(srv.Close)

	rooms, err := NewRoomCatalog(srv.URL+"/aulas.json", nil).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Aula Magna", "A101"}, rooms)
}

func TestRoomCatalogErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	badJSON := filepath.Join(t.TempDir(), "aulas.json")
	require.NoError(t, os.WriteFile(badJSON, []byte(`{"aulas": 3}`), 0o644))

	for _, source := range []string{srv.URL, badJSON, filepath.Join(t.TempDir(), "missing.json")} {
		_, err := NewRoomCatalog(source, nil).List(context.Background())
		assert.ErrorIs(t, err, ErrRoomListUnavailable, source)
	}
}
