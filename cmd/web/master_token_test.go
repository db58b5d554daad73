package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func masterServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate-master-token" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		if body["secret_key"] != "top-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
			return
		}
		_, _ = w.Write([]byte(`{"master_token":"tok-123"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRequestMasterToken(t *testing.T) {
	srv := masterServer(t)

	token, err := requestMasterToken(context.Background(), srv.URL+"/", "top-secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	_, err = requestMasterToken(context.Background(), srv.URL, "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestPromptSecret(t *testing.T) {
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })

	readPassword = func(int) ([]byte, error) { return []byte(" s3cret \n"), nil }
	var out bytes.Buffer
	secret, err := promptSecret(&out)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", secret)
	assert.Contains(t, out.String(), "Master secret key")

	readPassword = func(int) ([]byte, error) { return nil, errors.New("no tty") }
	_, err = promptSecret(&out)
	assert.Error(t, err)
}
