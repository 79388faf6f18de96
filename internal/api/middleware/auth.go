package middleware

import (
	"crypto/rsa"
	"crypto/subtle"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/feral-file/ff-events/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-events/internal/api/shared/errors"
	"github.com/feral-file/ff-events/internal/domain"
	"github.com/feral-file/ff-events/internal/logger"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	AUTH_TYPE_KEY    contextKey = "auth_type"
	AUTH_SUBJECT_KEY contextKey = "auth_subject"
	JWT_CLAIMS_KEY   contextKey = "jwt_claims"
)

const (
	AUTH_TYPE_JWT     = "jwt"
	AUTH_TYPE_API_KEY = "apikey"
)

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTPublicKey string // RSA public key in PEM format
	APIKeys      []string
}

// AuthResult holds the result of authentication
type AuthResult struct {
	AuthType    string
	Claims      *jwt.RegisteredClaims
	AuthSubject string
}

// authenticator holds the parsed credentials of an AuthConfig
type authenticator struct {
	publicKey    *rsa.PublicKey
	publicKeyErr error
	apiKeys      [][]byte
	parser       *jwt.Parser
}

func newAuthenticator(cfg AuthConfig) *authenticator {
	a := &authenticator{
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{"RS256", "RS384", "RS512"}),
			jwt.WithLeeway(30*time.Second),
		),
	}

	if cfg.JWTPublicKey == "" {
		a.publicKeyErr = errors.New("JWT public key not configured")
	} else {
		a.publicKey, a.publicKeyErr = parseRSAPublicKey(cfg.JWTPublicKey)
		if a.publicKeyErr != nil {
			logger.Error(a.publicKeyErr, zap.String("component", "auth"))
		}
	}

	for _, key := range cfg.APIKeys {
		if key != "" {
			a.apiKeys = append(a.apiKeys, []byte(key))
		}
	}

	return a
}

// Authenticate validates an Authorization header value against the configuration
func Authenticate(authHeader string, cfg AuthConfig) (*AuthResult, error) {
	return newAuthenticator(cfg).authenticate(authHeader)
}

func (a *authenticator) authenticate(authHeader string) (*AuthResult, error) {
	if authHeader == "" {
		return nil, errors.New("missing Authorization header")
	}

	scheme, credentials, ok := strings.Cut(authHeader, " ")
	if !ok || strings.TrimSpace(credentials) == "" {
		return nil, errors.New("invalid Authorization header format")
	}
	credentials = strings.TrimSpace(credentials)

	switch strings.ToLower(scheme) {
	case "bearer":
		claims, err := a.validateJWT(credentials)
		if err != nil {
			return nil, err
		}
		return &AuthResult{AuthType: AUTH_TYPE_JWT, Claims: claims, AuthSubject: claims.Subject}, nil

	case AUTH_TYPE_API_KEY:
		if err := a.validateAPIKey(credentials); err != nil {
			return nil, err
		}
		return &AuthResult{AuthType: AUTH_TYPE_API_KEY}, nil
	}

	return nil, fmt.Errorf("unsupported authorization type: %s", scheme)
}

func (a *authenticator) validateJWT(token string) (*jwt.RegisteredClaims, error) {
	if a.publicKeyErr != nil {
		return nil, a.publicKeyErr
	}

	claims := &jwt.RegisteredClaims{}
	if _, err := a.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return a.publicKey, nil
	}); err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	return claims, nil
}

func (a *authenticator) validateAPIKey(key string) error {
	if len(a.apiKeys) == 0 {
		return errors.New("no API keys configured")
	}

	candidate := []byte(key)
	for _, valid := range a.apiKeys {
		if subtle.ConstantTimeCompare(candidate, valid) == 1 {
			return nil
		}
	}
	return errors.New("invalid API key")
}

// Auth accepts a JWT bearer token or an API key
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return authMiddleware(newAuthenticator(cfg), AUTH_TYPE_JWT, AUTH_TYPE_API_KEY)
}

// APIKeyAuth accepts an API key only
func APIKeyAuth(cfg AuthConfig) gin.HandlerFunc {
	return authMiddleware(newAuthenticator(cfg), AUTH_TYPE_API_KEY)
}

func authMiddleware(a *authenticator, accepted ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := a.authenticate(c.GetHeader("Authorization"))
		if err == nil && !accepts(accepted, result.AuthType) {
			err = fmt.Errorf("%s authentication is not accepted here", result.AuthType)
		}

		if err != nil {
			logger.WarnCtx(c.Request.Context(), "Authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			abortUnauthorized(c, err)
			return
		}

		c.Set(AUTH_TYPE_KEY, result.AuthType)
		if result.Claims != nil {
			c.Set(JWT_CLAIMS_KEY, result.Claims)
		}
		if result.AuthSubject != "" {
			c.Set(AUTH_SUBJECT_KEY, result.AuthSubject)
		}

		logger.DebugCtx(c.Request.Context(), "Authenticated",
			zap.String("auth_type", result.AuthType),
			zap.String("subject", result.AuthSubject),
			zap.String("path", c.Request.URL.Path),
		)

		c.Next()
	}
}

func accepts(accepted []string, authType string) bool {
	for _, a := range accepted {
		if a == authType {
			return true
		}
	}
	return false
}

// WalletSubject returns the JWT subject when it is an EVM address, empty otherwise
func WalletSubject(c *gin.Context) string {
	v, ok := c.Get(AUTH_SUBJECT_KEY)
	if !ok {
		return ""
	}
	subject, _ := v.(string)
	if !domain.IsValidAddress(subject) {
		return ""
	}
	return domain.NormalizeAddress(subject)
}

// abortUnauthorized aborts the request with a 401 envelope
func abortUnauthorized(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.Envelope{
		Success:  false,
		Error:    apierrors.NewUnauthorizedError("Authentication failed", err.Error()),
		Metadata: dto.ResponseMetadata{RequestID: GetRequestID(c), Timestamp: time.Now().UTC()},
	})
}

// parseRSAPublicKey parses a PKIX or PKCS1 RSA public key in PEM format
func parseRSAPublicKey(publicKeyPEM string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(publicKeyPEM))
	if block == nil {
		return nil, errors.New("failed to parse PEM block containing public key")
	}

	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("public key is not an RSA key")
	}

	return rsaKey, nil
}
