package queue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseSlot_Success(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":true,"message":"released"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.ReleaseSlot(context.Background(), 42, 7)

	require.NoError(t, err)
	assert.True(t, result.Status)
	assert.Equal(t, "released", result.Message)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/waiting-queue/42/users/7", gotPath)
}

func TestReleaseSlot_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status":false,"message":"no slot held"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	result, err := client.ReleaseSlot(context.Background(), 42, 7)

	assert.Error(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Status)
}

func TestReleaseSlot_FalseStatusWithOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":false,"message":"already released"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.ReleaseSlot(context.Background(), 1, 1)

	assert.Error(t, err)
}

func TestReleaseSlot_ServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL)
	_, err := client.ReleaseSlot(context.Background(), 1, 1)

	assert.Error(t, err)
}
