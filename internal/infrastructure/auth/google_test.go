package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVerifier(t *testing.T, handler http.HandlerFunc, clientID string) *GoogleTokenVerifier {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	v := NewGoogleTokenVerifier(clientID)
	v.endpoint = server.URL
	return v
}

func TestGoogleTokenVerifier_Valid(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token-abc", r.URL.Query().Get("id_token"))
		w.Write([]byte(`{"sub":"g-123","aud":"client-1","email":"budi@example.com","email_verified":"true","name":"Budi"}`))
	}, "client-1")

	identity, err := v.Verify(context.Background(), "token-abc")

	require.NoError(t, err)
	assert.Equal(t, "g-123", identity.GoogleID)
	assert.Equal(t, "budi@example.com", identity.Email)
	assert.Equal(t, "Budi", identity.Name)
}

func TestGoogleTokenVerifier_WrongAudience(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sub":"g-123","aud":"someone-else","email":"budi@example.com","email_verified":"true"}`))
	}, "client-1")

	_, err := v.Verify(context.Background(), "token-abc")
	assert.ErrorIs(t, err, ErrGoogleTokenInvalid)
}

func TestGoogleTokenVerifier_UnverifiedEmail(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sub":"g-123","aud":"client-1","email":"budi@example.com","email_verified":"false"}`))
	}, "client-1")

	_, err := v.Verify(context.Background(), "token-abc")
	assert.ErrorIs(t, err, ErrGoogleTokenInvalid)
}

func TestGoogleTokenVerifier_RejectedToken(t *testing.T) {
	v := newTestVerifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}, "client-1")

	_, err := v.Verify(context.Background(), "expired")
	assert.ErrorIs(t, err, ErrGoogleTokenInvalid)
}

func TestGoogleTokenVerifier_EmptyToken(t *testing.T) {
	v := NewGoogleTokenVerifier("client-1")
	_, err := v.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrGoogleTokenInvalid)
}
