package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invest-console.io/console/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:        8080,
			CORSOrigins: []string{"http://localhost:5173"},
		},
		Gateway: config.GatewayConfig{
			Mode:    config.GatewayModeMock,
			Timeout: 5 * time.Second,
		},
		Auth: config.AuthConfig{
			JWTSecret: "bootstrap-test-secret-0123456789abcdef",
			Issuer:    "portfolio-console",
			TokenTTL:  time.Hour,
		},
		Log:    config.LogConfig{Level: "error", Format: "json"},
		Worker: config.WorkerConfig{GeneralPoolSize: 4, GatewayPoolSize: 4},
	}
}

func TestBootstrapMockMode(t *testing.T) {
	application, err := Bootstrap(testConfig())
	require.NoError(t, err)
	defer application.Shutdown()

	require.NotNil(t, application.Router)
	assert.Equal(t, "mock-token", application.Session.Token())

	w := httptest.NewRecorder()
	application.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	application.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	// Authenticated routes stay closed without a token.
	w = httptest.NewRecorder()
	application.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/investments", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBootstrapRejectsUnknownGatewayMode(t *testing.T) {
	cfg := testConfig()
	cfg.Gateway.Mode = "carrier-pigeon"

	_, err := Bootstrap(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown gateway mode")
}

func TestBootstrapMissingFixtureFileFails(t *testing.T) {
	cfg := testConfig()
	cfg.Gateway.FixtureFile = "/nonexistent/fixture.json"

	_, err := Bootstrap(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "seed mock gateway")
}
