package notes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osapicare/atende-agent/internal/domain"
)

func TestCreateReturnsGeneratedKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/.json", r.URL.Path)
		var doc map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		assert.Equal(t, "Comprar leite", doc["titulo"])
		json.NewEncoder(w).Encode(map[string]string{"name": "-NabcXYZ"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	id, err := client.Create(context.Background(), Note{Titulo: "Comprar leite"})
	require.NoError(t, err)
	assert.Equal(t, "-NabcXYZ", id)
}

func TestListEmptyStoreDumpsNull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("null"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	all, err := client.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPatchAcceptsNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/abc.json", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	err := client.Patch(context.Background(), "abc", map[string]any{"status": "Concluída"})
	assert.NoError(t, err)
}

func TestCreateMalformedKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Create(context.Background(), Note{Titulo: "x"})
	require.Error(t, err)
	assert.Equal(t, domain.FailureMalformedResponse, domain.KindOf(err))
}

func TestDeleteRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": "Permission denied"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	err := client.Delete(context.Background(), "abc")
	require.Error(t, err)
	assert.Equal(t, domain.FailureRemoteRejection, domain.KindOf(err))
	assert.Contains(t, err.Error(), "Permission denied")
}
