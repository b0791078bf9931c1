// AngelaMos | 2026
// jwt.go

package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/templates/user-backend/internal/authctx"
	"github.com/carterperez-dev/templates/user-backend/internal/config"
	"github.com/carterperez-dev/templates/user-backend/internal/core"
)

const tokenTypeAccess = "access"

// TokenIssuer signs and verifies ES256 access tokens. The signing key is
// read once and shared read-only between requests.
type TokenIssuer struct {
	privateKey jwk.Key
	publicKey  jwk.Key
	publicJWKS jwk.Set
	config     config.JWTConfig
	now        func() time.Time
}

type IssuerOption func(*TokenIssuer)

func WithClock(now func() time.Time) IssuerOption {
	return func(t *TokenIssuer) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTokenIssuer loads the PEM private key named in cfg. With no key path
// configured the issuer still starts, and every CreateToken call fails with
// core.ErrSigningKeyMissing.
func NewTokenIssuer(cfg config.JWTConfig, opts ...IssuerOption) (*TokenIssuer, error) {
	if cfg.PrivateKeyPath == "" {
		return newTokenIssuer(nil, cfg, opts...)
	}

	privateKeyPEM, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}

	privateKey, err := jwk.ParseKey(privateKeyPEM, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	return newTokenIssuer(privateKey, cfg, opts...)
}

// NewTokenIssuerFromKey builds an issuer around an in-memory key.
func NewTokenIssuerFromKey(
	key *ecdsa.PrivateKey,
	cfg config.JWTConfig,
	opts ...IssuerOption,
) (*TokenIssuer, error) {
	privateKey, err := jwk.Import(key)
	if err != nil {
		return nil, fmt.Errorf("import private key: %w", err)
	}
	return newTokenIssuer(privateKey, cfg, opts...)
}

func newTokenIssuer(
	privateKey jwk.Key,
	cfg config.JWTConfig,
	opts ...IssuerOption,
) (*TokenIssuer, error) {
	t := &TokenIssuer{
		config:     cfg,
		now:        time.Now,
		publicJWKS: jwk.NewSet(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if privateKey == nil {
		return t, nil
	}

	if setErr := privateKey.Set(jwk.AlgorithmKey, jwa.ES256()); setErr != nil {
		return nil, fmt.Errorf("set algorithm: %w", setErr)
	}

	keyID := uuid.New().String()[:8]
	if setErr := privateKey.Set(jwk.KeyIDKey, keyID); setErr != nil {
		return nil, fmt.Errorf("set key id: %w", setErr)
	}

	publicKey, err := privateKey.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}

	if setErr := publicKey.Set(jwk.KeyUsageKey, "sig"); setErr != nil {
		return nil, fmt.Errorf("set key usage: %w", setErr)
	}

	if addErr := t.publicJWKS.AddKey(publicKey); addErr != nil {
		return nil, fmt.Errorf("add key to set: %w", addErr)
	}

	t.privateKey = privateKey
	t.publicKey = publicKey
	return t, nil
}

func GenerateKeyPair(privateKeyPath, publicKeyPath string) error {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	jwkPrivate, err := jwk.Import(privateKey)
	if err != nil {
		return fmt.Errorf("import private key: %w", err)
	}

	if setErr := jwkPrivate.Set(jwk.AlgorithmKey, jwa.ES256()); setErr != nil {
		return fmt.Errorf("set algorithm: %w", setErr)
	}

	privatePEM, err := jwk.Pem(jwkPrivate)
	if err != nil {
		return fmt.Errorf("encode private key: %w", err)
	}

	jwkPublic, err := jwkPrivate.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	publicPEM, err := jwk.Pem(jwkPublic)
	if err != nil {
		return fmt.Errorf("encode public key: %w", err)
	}

	for _, p := range []string{privateKeyPath, publicKeyPath} {
		if dir := filepath.Dir(p); dir != "." {
			if mkErr := os.MkdirAll(dir, 0o700); mkErr != nil {
				return fmt.Errorf("create key dir: %w", mkErr)
			}
		}
	}

	if writeErr := os.WriteFile(privateKeyPath, privatePEM, 0o600); writeErr != nil {
		return fmt.Errorf("write private key: %w", writeErr)
	}

	//nolint:gosec // G306: public key is intentionally world-readable
	if writeErr := os.WriteFile(publicKeyPath, publicPEM, 0o644); writeErr != nil {
		return fmt.Errorf("write public key: %w", writeErr)
	}

	return nil
}

// CreateToken signs an access token for user carrying claims. The
// expiration is exactly issue time plus the configured lifetime.
func (t *TokenIssuer) CreateToken(user UserInfo, claims []string) (*AccessToken, error) {
	if t.privateKey == nil {
		return nil, fmt.Errorf("create token: %w", core.ErrSigningKeyMissing)
	}
	if claims == nil {
		claims = []string{}
	}

	now := t.now()
	expiration := now.Add(t.config.AccessTokenExpire)

	token, err := jwt.NewBuilder().
		JwtID(uuid.New().String()).
		Issuer(t.config.Issuer).
		Audience([]string{t.config.Audience}).
		Subject(user.ID).
		IssuedAt(now).
		NotBefore(now).
		Expiration(expiration).
		Claim("email", user.Email).
		Claim("name", user.FullName()).
		Claim("claims", claims).
		Claim("type", tokenTypeAccess).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.ES256(), t.privateKey))
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &AccessToken{
		Token:      string(signed),
		Expiration: expiration,
		Claims:     claims,
	}, nil
}

// VerifyAccessToken checks signature, issuer, audience and lifetime and
// returns the caller it names.
func (t *TokenIssuer) VerifyAccessToken(
	_ context.Context,
	tokenString string,
) (*authctx.Principal, error) {
	if t.publicKey == nil {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	token, err := jwt.Parse(
		[]byte(tokenString),
		jwt.WithKey(jwa.ES256(), t.publicKey),
		jwt.WithValidate(true),
		jwt.WithIssuer(t.config.Issuer),
		jwt.WithAudience(t.config.Audience),
		jwt.WithClock(jwt.ClockFunc(t.now)),
	)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	var tokenType string
	if err := token.Get("type", &tokenType); err != nil ||
		tokenType != tokenTypeAccess {
		return nil, fmt.Errorf(
			"verify token: invalid token type: %w",
			core.ErrTokenInvalid,
		)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	var email string
	//nolint:errcheck // email is informational
	_ = token.Get("email", &email)

	claims, err := claimNames(token)
	if err != nil {
		return nil, err
	}

	return &authctx.Principal{
		UserID: subject,
		Email:  email,
		Claims: claims,
	}, nil
}

func claimNames(token jwt.Token) ([]string, error) {
	var raw any
	if err := token.Get("claims", &raw); err != nil {
		return nil, fmt.Errorf(
			"verify token: missing claims: %w",
			core.ErrTokenInvalid,
		)
	}

	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		names := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf(
					"verify token: malformed claims: %w",
					core.ErrTokenInvalid,
				)
			}
			names = append(names, s)
		}
		return names, nil
	default:
		return nil, fmt.Errorf(
			"verify token: malformed claims: %w",
			core.ErrTokenInvalid,
		)
	}
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}

func (t *TokenIssuer) JWKSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")

		if err := json.NewEncoder(w).Encode(t.publicJWKS); err != nil {
			http.Error(
				w,
				"Internal Server Error",
				http.StatusInternalServerError,
			)
			return
		}
	}
}

func (t *TokenIssuer) HasSigningKey() bool {
	return t.privateKey != nil
}

func (t *TokenIssuer) KeyID() string {
	if t.privateKey == nil {
		return ""
	}
	var kid string
	//nolint:errcheck // key ID always set in newTokenIssuer
	_ = t.privateKey.Get(jwk.KeyIDKey, &kid)
	return kid
}
