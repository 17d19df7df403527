// Package mockapitest starts a seeded stub backend for tests in other packages.
package mockapitest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/smarthealth/internal/client"
	"github.com/jwalitptl/smarthealth/internal/config"
	"github.com/jwalitptl/smarthealth/internal/mockapi"
	"github.com/jwalitptl/smarthealth/internal/model"
	"github.com/jwalitptl/smarthealth/pkg/logger"
	"github.com/jwalitptl/smarthealth/pkg/security"
)

const (
	AdminEmail    = "admin@smarthealth.local"
	AdminPassword = "Admin@123"
	StaffEmail    = "staff@smarthealth.local"
	StaffPassword = "Staff@1234"
)

// Env is a running stub backend plus a token holder that implements
// client.TokenSource
type Env struct {
	Server *mockapi.Server
	// BaseURL includes the /api prefix
	BaseURL string

	mu    sync.RWMutex
	token string
}

func New(t testing.TB, seed bool) *Env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv, err := mockapi.NewServer(config.MockConfig{
		Prefix:        "/api",
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
		Seed:          seed,
		AdminEmail:    AdminEmail,
		AdminPassword: AdminPassword,
	}, logger.Nop(), mockapi.WithHasher(security.NewBcryptHasher(bcrypt.MinCost)))
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return &Env{Server: srv, BaseURL: ts.URL + "/api"}
}

func (e *Env) Token() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.token
}

func (e *Env) SetToken(token string) {
	e.mu.Lock()
	e.token = token
	e.mu.Unlock()
}

// Client returns an API client that authenticates with the env token
func (e *Env) Client(t testing.TB, opts ...client.Option) *client.Client {
	t.Helper()
	opts = append([]client.Option{client.WithTokenSource(e)}, opts...)
	c, err := client.New(config.APIConfig{BaseURL: e.BaseURL, Timeout: 5 * time.Second}, opts...)
	require.NoError(t, err)
	return c
}

// Login stores a token for the account and returns the login payload
func (e *Env) Login(t testing.TB, email, password string) model.LoginResponse {
	t.Helper()
	var resp model.LoginResponse
	err := e.Client(t).Do(context.Background(), http.MethodPost, "/auth/login", nil,
		model.LoginRequest{Email: email, Password: password}, &resp)
	require.NoError(t, err)
	e.SetToken(resp.Token)
	return resp
}

// LoginAdmin is Login with the seeded admin account
func (e *Env) LoginAdmin(t testing.TB) model.LoginResponse {
	return e.Login(t, AdminEmail, AdminPassword)
}
