package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signin-portal/internal/signin"
)

func server(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, signInPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var in signin.CredentialInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "ada@example.com", in.Email)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSignInOK(t *testing.T) {
	srv := server(t, http.StatusOK, `{"status":"signed_in"}`)

	err := New(srv.URL+"/", time.Second).SignIn(context.Background(), "ada@example.com", "correct-horse")
	assert.NoError(t, err)
}

func TestSignInRejected(t *testing.T) {
	srv := server(t, http.StatusUnauthorized, `{"error":"invalid email or password"}`)

	err := New(srv.URL, time.Second).SignIn(context.Background(), "ada@example.com", "wrong-pass")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	f := signin.AsFailure(err)
	assert.Equal(t, "invalid email or password", f.Message)
}

func TestSignInFieldErrors(t *testing.T) {
	srv := server(t, http.StatusUnprocessableEntity,
		`{"errors":{"password":"Password is required","email":"Enter a valid email address"}}`)

	err := New(srv.URL, time.Second).SignIn(context.Background(), "ada@example.com", "")

	assert.Equal(t, "Enter a valid email address; Password is required", signin.AsFailure(err).Message)
}

func TestSignInUnreadableBody(t *testing.T) {
	srv := server(t, http.StatusBadGateway, `<html>`)

	err := New(srv.URL, time.Second).SignIn(context.Background(), "ada@example.com", "x")
	assert.EqualError(t, err, "server returned 502")
	assert.Equal(t, "server returned 502", signin.AsFailure(err).Message)
}

func TestSignInCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := New(srv.URL, time.Second).SignIn(ctx, "ada@example.com", "correct-horse")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Equal(t, signin.KindCanceled, signin.AsFailure(err).Kind)
}
