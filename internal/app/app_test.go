package app

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/haguru/jiraiya/config"
	"github.com/haguru/jiraiya/pkg/databases/sqlite"
)

func testConfig() *config.ServiceConfig {
	return &config.ServiceConfig{
		ServiceName: "jiraiya",
		LogLevel:    "error",
		Host:        "127.0.0.1",
		Port:        "0",
		Token: config.Token{
			Algorithm:  "HS256",
			SecretKey:  "test-secret",
			BcryptCost: bcrypt.MinCost,
		},
		Database: config.Database{
			Type:   "sqlite",
			SQLite: config.SQLiteConfig{DSN: sqlite.MemoryDSN},
		},
	}
}

func writeECKey(t *testing.T) string {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "key.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}), 0600))
	return path
}

func TestNewApp_MissingConfig(t *testing.T) {
	_, err := NewApp(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestNewAppFromConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *config.ServiceConfig)
		wantErr string
	}{
		{
			name:    "missing port",
			mutate:  func(cfg *config.ServiceConfig) { cfg.Port = "" },
			wantErr: "validation error",
		},
		{
			name:    "unknown algorithm",
			mutate:  func(cfg *config.ServiceConfig) { cfg.Token.Algorithm = "RS256" },
			wantErr: "validation error",
		},
		{
			name:    "hmac without secret",
			mutate:  func(cfg *config.ServiceConfig) { cfg.Token.SecretKey = "" },
			wantErr: "validation error",
		},
		{
			name: "missing ecdsa key file",
			mutate: func(cfg *config.ServiceConfig) {
				cfg.Token.Algorithm = "ES256"
				cfg.Token.PrivateKeyPath = filepath.Join(t.TempDir(), "nope.pem")
			},
			wantErr: "failed to initialize token manager",
		},
		{
			name:    "unknown database type",
			mutate:  func(cfg *config.ServiceConfig) { cfg.Database.Type = "redis" },
			wantErr: "validation error",
		},
		{
			name:    "empty sqlite dsn",
			mutate:  func(cfg *config.ServiceConfig) { cfg.Database.SQLite.DSN = "" },
			wantErr: "failed to initialize storage",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)

			app, err := NewAppFromConfig(cfg)
			require.Error(t, err)
			assert.Nil(t, app)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewApp_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `service_name: jiraiya
loglevel: error
host: 127.0.0.1
port: "0"
token:
  algorithm: HS256
  secret_key: from-file
  bcrypt_cost: 4
database:
  type: sqlite
  sqlite_config:
    dsn: ":memory:"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	t.Setenv("JIRAIYA_SECRET_KEY", "from-env")

	app, err := NewApp(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	assert.Equal(t, "from-env", app.Config.Token.SecretKey)
}

func TestApp_ServesWiredRoutes(t *testing.T) {
	for _, algorithm := range []string{"HS256", "ES256"} {
		t.Run(algorithm, func(t *testing.T) {
			cfg := testConfig()
			cfg.Token.Algorithm = algorithm
			if algorithm == "ES256" {
				cfg.Token.PrivateKeyPath = writeECKey(t)
			}

			app, err := NewAppFromConfig(cfg)
			require.NoError(t, err)
			t.Cleanup(func() { _ = app.Close(context.Background()) })

			h := app.Server.Handler()
			serve := func(method, target, body, token string) *httptest.ResponseRecorder {
				req := httptest.NewRequest(method, target, strings.NewReader(body))
				if body != "" {
					req.Header.Set("Content-Type", "application/json")
				}
				if token != "" {
					req.Header.Set("Authorization", "Bearer "+token)
				}
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, req)
				return rec
			}

			rec := serve(http.MethodGet, "/healthz", "", "")
			assert.Equal(t, http.StatusOK, rec.Code)

			rec = serve(http.MethodPost, "/api/signup/", `{"username":"alice","password":"pw1"}`, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			rec = serve(http.MethodPost, "/api/login/", `{"username":"alice","password":"pw1"}`, "")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			var login struct {
				AccessToken string `json:"access_token"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&login))
			require.NotEmpty(t, login.AccessToken)

			rec = serve(http.MethodPost, "/api/posts/", `{"title":"T","content":"C"}`, login.AccessToken)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Contains(t, rec.Body.String(), `"author":"alice"`)

			rec = serve(http.MethodGet, "/metrics", "", "")
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestApp_LoginRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.LoginRPS = 0.001
	cfg.RateLimit.LoginBurst = 1

	app, err := NewAppFromConfig(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	login := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/login/", strings.NewReader(`{"username":"nobody","password":"pw"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		app.Server.Handler().ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, login())
	assert.Equal(t, http.StatusTooManyRequests, login())
}

func TestApp_RunContextStopsOnCancel(t *testing.T) {
	app, err := NewAppFromConfig(testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.RunContext(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunContext did not return after cancel")
	}
}
