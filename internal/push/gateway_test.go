package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPGateway_Send(t *testing.T) {
	var got Notification
	var auth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	g := NewHTTPGateway(server.URL, "secret", time.Second)
	err := g.Send(context.Background(), Notification{ID: "n1", Tokens: []string{"a", "b"}, Alert: "Go Scots!", Sound: true})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, []string{"a", "b"}, got.Tokens)
	assert.Equal(t, "Go Scots!", got.Alert)
	assert.True(t, got.Sound)
	assert.Equal(t, "http", g.Name())
}

func TestHTTPGateway_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token list", http.StatusBadRequest)
	}))
	defer server.Close()

	g := NewHTTPGateway(server.URL, "", time.Second)
	err := g.Send(context.Background(), Notification{Tokens: []string{"a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
}

func TestLogGateway_Send(t *testing.T) {
	g := LogGateway{}
	assert.NoError(t, g.Send(context.Background(), Notification{Tokens: []string{"a"}}))
	assert.Equal(t, "log", g.Name())
}
