package service

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/big"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/yourusername/quizsetup-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizsetup-api/internal/pkg/errors"
	"github.com/yourusername/quizsetup-api/pkg/auth"
)

const (
	googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

	// guestLoginLockTTL keeps a rapid double-press of the guest button from
	// starting two logins for the same client.
	guestLoginLockTTL = 3 * time.Second
)

// LoginResult is what both login entry points hand back on success. The
// consumer navigates to RedirectTo, replacing the current history entry so
// the login page does not remain in browsing history.
type LoginResult struct {
	Token      string
	Subject    string
	Name       string
	Email      string
	Guest      bool
	RedirectTo string
	Replace    bool
}

// AuthService is the login gate: single-attempt Google credential login and
// a guest fallback. Neither operation retries on failure — the caller stays
// on the login view and re-triggers explicitly.
type AuthService struct {
	tokens      *auth.TokenService
	locker      repository.ActionLocker
	clientID    string
	landingPath string

	httpClient *http.Client
	jwksURL    string

	// jwksRefreshMu serializes fetches so a burst of cache misses results
	// in a single request to Google.
	jwksRefreshMu sync.Mutex
	jwksMu        sync.RWMutex
	jwksKeys      map[string]*rsa.PublicKey
	jwksExpiry    time.Time
}

// NewAuthService creates the login gate. An empty Google client ID is valid
// configuration: the service degrades to guest-only mode.
func NewAuthService(tokens *auth.TokenService, locker repository.ActionLocker, googleClientID, landingPath string) (*AuthService, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token service is required")
	}
	if locker == nil {
		return nil, fmt.Errorf("action locker is required")
	}
	if strings.TrimSpace(landingPath) == "" {
		landingPath = "/categories"
	}
	if strings.TrimSpace(googleClientID) == "" {
		log.Printf("[AuthService] Google client ID is not configured, running in guest-only mode")
	}
	return &AuthService{
		tokens:      tokens,
		locker:      locker,
		clientID:    strings.TrimSpace(googleClientID),
		landingPath: landingPath,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		jwksURL:     googleJWKSURL,
	}, nil
}

// GoogleEnabled reports whether credential login is available.
func (s *AuthService) GoogleEnabled() bool {
	return s.clientID != ""
}

// LandingPath is the default post-login destination.
func (s *AuthService) LandingPath() string {
	return s.landingPath
}

// LoginWithCredential verifies a Google ID token and opens a session for its
// subject.
func (s *AuthService) LoginWithCredential(ctx context.Context, credential, returnTo string) (*LoginResult, error) {
	if !s.GoogleEnabled() {
		return nil, fmt.Errorf("%w", ErrGoogleLoginDisabled)
	}

	info, err := s.verifyIDToken(ctx, credential)
	if err != nil {
		return nil, err
	}

	subject := "google:" + info.Sub
	token, err := s.tokens.Issue(subject, info.Name, info.Email, false)
	if err != nil {
		return nil, err
	}

	log.Printf("[AuthService] Credential login for subject %s", subject)
	return &LoginResult{
		Token:      token,
		Subject:    subject,
		Name:       info.Name,
		Email:      info.Email,
		RedirectTo: s.resolveRedirect(returnTo),
		Replace:    true,
	}, nil
}

// LoginAsGuest opens an unauthenticated session. clientKey identifies the
// calling client (its address) so that a double-press cannot start two
// concurrent guest logins.
func (s *AuthService) LoginAsGuest(ctx context.Context, clientKey, returnTo string) (*LoginResult, error) {
	lockKey := "guestlogin:" + clientKey
	acquired, err := s.locker.AcquireLock(ctx, lockKey, guestLoginLockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire guest login lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w: guest login already in progress", apperrors.ErrConflict)
	}
	defer func() {
		if err := s.locker.ReleaseLock(ctx, lockKey); err != nil {
			log.Printf("[AuthService] Failed to release guest login lock for %s: %v", clientKey, err)
		}
	}()

	subject := "guest:" + uuid.NewString()
	token, err := s.tokens.Issue(subject, "Guest", "", true)
	if err != nil {
		return nil, err
	}

	log.Printf("[AuthService] Guest login, subject %s", subject)
	return &LoginResult{
		Token:      token,
		Subject:    subject,
		Name:       "Guest",
		Guest:      true,
		RedirectTo: s.resolveRedirect(returnTo),
		Replace:    true,
	}, nil
}

// resolveRedirect picks the caller-supplied return path when it is a safe
// local path, the default landing route otherwise.
func (s *AuthService) resolveRedirect(returnTo string) string {
	returnTo = strings.TrimSpace(returnTo)
	if returnTo == "" || !strings.HasPrefix(returnTo, "/") || strings.HasPrefix(returnTo, "//") {
		return s.landingPath
	}
	return returnTo
}

type googleIDTokenInfo struct {
	Sub   string
	Email string
	Name  string
}

type googleIDTokenClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

type googleJWKSet struct {
	Keys []googleJWK `json:"keys"`
}

type googleJWK struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func (s *AuthService) verifyIDToken(ctx context.Context, idToken string) (*googleIDTokenInfo, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return nil, fmt.Errorf("%w: empty credential", ErrGoogleTokenVerificationFailed)
	}

	claims := &googleIDTokenClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	token, err := parser.ParseWithClaims(idToken, claims, func(token *jwt.Token) (interface{}, error) {
		kid, _ := token.Header["kid"].(string)
		if strings.TrimSpace(kid) == "" {
			return nil, fmt.Errorf("%w: missing kid header", ErrGoogleTokenVerificationFailed)
		}
		return s.getGooglePublicKey(ctx, strings.TrimSpace(kid))
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleTokenVerificationFailed, err)
	}
	if token == nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrGoogleTokenVerificationFailed)
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrGoogleTokenVerificationFailed)
	}
	if claims.Issuer != "accounts.google.com" && claims.Issuer != "https://accounts.google.com" {
		return nil, fmt.Errorf("%w: invalid issuer", ErrGoogleTokenVerificationFailed)
	}
	audMatched := false
	for _, aud := range claims.Audience {
		if aud == s.clientID {
			audMatched = true
			break
		}
	}
	if !audMatched {
		return nil, fmt.Errorf("%w: audience mismatch", ErrGoogleTokenVerificationFailed)
	}
	if claims.ExpiresAt == nil || time.Now().After(claims.ExpiresAt.Time) {
		return nil, fmt.Errorf("%w: token expired", ErrGoogleTokenVerificationFailed)
	}

	return &googleIDTokenInfo{
		Sub:   strings.TrimSpace(claims.Subject),
		Email: strings.TrimSpace(claims.Email),
		Name:  strings.TrimSpace(claims.Name),
	}, nil
}

func (s *AuthService) getGooglePublicKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	now := time.Now()
	s.jwksMu.RLock()
	if key, ok := s.jwksKeys[kid]; ok && now.Before(s.jwksExpiry) {
		s.jwksMu.RUnlock()
		return key, nil
	}
	s.jwksMu.RUnlock()

	if err := s.refreshGoogleJWKS(ctx); err != nil {
		return nil, err
	}

	s.jwksMu.RLock()
	defer s.jwksMu.RUnlock()
	key, ok := s.jwksKeys[kid]
	if !ok || key == nil {
		return nil, fmt.Errorf("%w: jwks key not found", ErrGoogleTokenVerificationFailed)
	}
	return key, nil
}

func (s *AuthService) refreshGoogleJWKS(ctx context.Context) error {
	s.jwksRefreshMu.Lock()
	defer s.jwksRefreshMu.Unlock()

	// Another caller may have refreshed while this one waited for the lock.
	s.jwksMu.RLock()
	fresh := len(s.jwksKeys) > 0 && time.Now().Before(s.jwksExpiry)
	s.jwksMu.RUnlock()
	if fresh {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.jwksURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create google jwks request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to fetch google jwks: %v", ErrGoogleTokenVerificationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%w: jwks status=%d body=%s", ErrGoogleTokenVerificationFailed, resp.StatusCode, string(body))
	}

	var set googleJWKSet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("failed to decode google jwks response: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, jwk := range set.Keys {
		if strings.TrimSpace(jwk.Kid) == "" || jwk.Kty != "RSA" {
			continue
		}
		pub, err := parseGoogleRSAPublicKey(jwk)
		if err != nil {
			continue
		}
		keys[jwk.Kid] = pub
	}
	if len(keys) == 0 {
		return fmt.Errorf("%w: no usable rsa keys in google jwks", ErrGoogleTokenVerificationFailed)
	}

	ttl := parseJWKSMaxAge(resp.Header.Get("Cache-Control"))
	if ttl <= 0 {
		ttl = time.Hour
	}

	s.jwksMu.Lock()
	s.jwksKeys = keys
	s.jwksExpiry = time.Now().Add(ttl)
	s.jwksMu.Unlock()
	return nil
}

func parseGoogleRSAPublicKey(jwk googleJWK) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(jwk.N)
	if err != nil {
		return nil, err
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(jwk.E)
	if err != nil {
		return nil, err
	}

	n := new(big.Int).SetBytes(nBytes)
	eInt := 0
	for _, b := range eBytes {
		eInt = eInt<<8 + int(b)
	}
	if n.Sign() <= 0 || eInt <= 0 {
		return nil, fmt.Errorf("invalid rsa jwk")
	}

	return &rsa.PublicKey{N: n, E: eInt}, nil
}

func parseJWKSMaxAge(cacheControl string) time.Duration {
	for _, part := range strings.Split(cacheControl, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if !strings.HasPrefix(part, "max-age=") {
			continue
		}
		seconds, err := time.ParseDuration(strings.TrimPrefix(part, "max-age=") + "s")
		if err != nil {
			return 0
		}
		if seconds < time.Minute {
			return time.Minute
		}
		return seconds
	}
	return 0
}
