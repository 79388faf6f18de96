package middleware_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-events/internal/api/middleware"
	"github.com/feral-file/ff-events/internal/logger"
)

const testWallet = "0x5B38Da6a701c568545dCfcB03FcB875f56beddC4"

func TestMain(m *testing.M) {
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type keyPair struct {
	private *rsa.PrivateKey
	pem     string
}

func newKeyPair(t *testing.T) keyPair {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	return keyPair{
		private: key,
		pem:     string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})),
	}
}

func (k keyPair) sign(t *testing.T, claims jwt.RegisteredClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(k.private)
	require.NoError(t, err)
	return token
}

func TestAuthenticate(t *testing.T) {
	keys := newKeyPair(t)
	other := newKeyPair(t)
	cfg := middleware.AuthConfig{JWTPublicKey: keys.pem, APIKeys: []string{"key-1", "key-2"}}

	valid := keys.sign(t, jwt.RegisteredClaims{
		Subject:   testWallet,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	expired := keys.sign(t, jwt.RegisteredClaims{
		Subject:   testWallet,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	foreign := other.sign(t, jwt.RegisteredClaims{Subject: testWallet})
	hmac, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: testWallet}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		cfg      middleware.AuthConfig
		wantType string
		wantErr  string
	}{
		{name: "missing header", header: "", cfg: cfg, wantErr: "missing Authorization header"},
		{name: "no credentials", header: "Bearer", cfg: cfg, wantErr: "invalid Authorization header format"},
		{name: "unsupported scheme", header: "Basic dXNlcjpwYXNz", cfg: cfg, wantErr: "unsupported authorization type"},
		{name: "api key", header: "ApiKey key-2", cfg: cfg, wantType: middleware.AUTH_TYPE_API_KEY},
		{name: "api key scheme is case insensitive", header: "apikey key-1", cfg: cfg, wantType: middleware.AUTH_TYPE_API_KEY},
		{name: "unknown api key", header: "ApiKey key-3", cfg: cfg, wantErr: "invalid API key"},
		{name: "no api keys configured", header: "ApiKey key-1", cfg: middleware.AuthConfig{}, wantErr: "no API keys configured"},
		{name: "valid jwt", header: "Bearer " + valid, cfg: cfg, wantType: middleware.AUTH_TYPE_JWT},
		{name: "expired jwt", header: "Bearer " + expired, cfg: cfg, wantErr: "invalid token"},
		{name: "jwt signed by another key", header: "Bearer " + foreign, cfg: cfg, wantErr: "invalid token"},
		{name: "hmac jwt", header: "Bearer " + hmac, cfg: cfg, wantErr: "invalid token"},
		{name: "jwt without public key", header: "Bearer " + valid, cfg: middleware.AuthConfig{}, wantErr: "JWT public key not configured"},
		{name: "malformed public key", header: "Bearer " + valid, cfg: middleware.AuthConfig{JWTPublicKey: "not a key"}, wantErr: "PEM block"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := middleware.Authenticate(tt.header, tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantType, result.AuthType)
			if tt.wantType == middleware.AUTH_TYPE_JWT {
				assert.Equal(t, testWallet, result.AuthSubject)
				assert.NotNil(t, result.Claims)
			}
		})
	}
}

func newRouter(guard gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.POST("/guarded", guard, func(c *gin.Context) {
		authType, _ := c.Get(middleware.AUTH_TYPE_KEY)
		c.JSON(http.StatusOK, gin.H{
			"authType": authType,
			"wallet":   middleware.WalletSubject(c),
		})
	})
	return router
}

func call(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuth_Middleware(t *testing.T) {
	keys := newKeyPair(t)
	cfg := middleware.AuthConfig{JWTPublicKey: keys.pem, APIKeys: []string{"key-1"}}
	router := newRouter(middleware.Auth(cfg))

	w := call(router, "Bearer "+keys.sign(t, jwt.RegisteredClaims{Subject: testWallet}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authType":"jwt","wallet":"0x5b38da6a701c568545dcfcb03fcb875f56beddc4"}`, w.Body.String())

	// a subject that is not an address yields no wallet
	w = call(router, "Bearer "+keys.sign(t, jwt.RegisteredClaims{Subject: "user-42"}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authType":"jwt","wallet":""}`, w.Body.String())

	w = call(router, "ApiKey key-1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"authType":"apikey","wallet":""}`, w.Body.String())

	w = call(router, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"unauthorized"`)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestAPIKeyAuth_RejectsJWT(t *testing.T) {
	keys := newKeyPair(t)
	cfg := middleware.AuthConfig{JWTPublicKey: keys.pem, APIKeys: []string{"key-1"}}
	router := newRouter(middleware.APIKeyAuth(cfg))

	w := call(router, "Bearer "+keys.sign(t, jwt.RegisteredClaims{Subject: testWallet}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "not accepted")

	w = call(router, "ApiKey key-1")
	assert.Equal(t, http.StatusOK, w.Code)
}
