package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginFlow(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	// Register, then sign in with the same credentials.
	status, body := doJSON(t, client, http.MethodPost, srv.URL+"/signup", gin.H{"email": "a@b.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, status)
	assert.Contains(t, body["message"], "Please sign in")

	// Signing up does not start a session.
	status, _ = doJSON(t, client, http.MethodGet, srv.URL+"/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = doJSON(t, client, http.MethodPost, srv.URL+"/login", gin.H{"email": "a@b.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]interface{})
	assert.Equal(t, "a@b.com", user["email"])
	assert.NotEmpty(t, user["id"])

	status, body = doJSON(t, client, http.MethodGet, srv.URL+"/me", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "a@b.com", body["user"].(map[string]interface{})["email"])
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	status, _ := doJSON(t, client, http.MethodPost, srv.URL+"/signup", gin.H{"email": "not-an-email", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, client, http.MethodPost, srv.URL+"/signup", gin.H{"email": "a@b.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, status)

	signup(t, client, srv.URL, "a@b.com", "secret1")
	status, body := doJSON(t, client, http.MethodPost, srv.URL+"/signup", gin.H{"email": "a@b.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email is already registered.", body["error"])

	// The duplicate check runs on the normalized email.
	status, _ = doJSON(t, client, http.MethodPost, srv.URL+"/signup", gin.H{"email": "A@B.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, status)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	signup(t, client, srv.URL, "a@b.com", "secret1")

	status, body := doJSON(t, client, http.MethodPost, srv.URL+"/login", gin.H{"email": "a@b.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid email or password.", body["error"])

	status, _ = doJSON(t, client, http.MethodPost, srv.URL+"/login", gin.H{"email": "nobody@b.com", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, status)

	// Identity unchanged after the failures.
	status, _ = doJSON(t, client, http.MethodGet, srv.URL+"/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestLogout(t *testing.T) {
	srv := newTestServer(t)
	client := newClient(t)

	registerAndLogin(t, client, srv.URL, "a@b.com")

	status, _ := doJSON(t, client, http.MethodPost, srv.URL+"/logout", nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = doJSON(t, client, http.MethodGet, srv.URL+"/me", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
