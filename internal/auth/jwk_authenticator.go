package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	keyfunc "github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// JwkAuthenticator validates RS256 bearer tokens signed by an external
// identity provider, fetching the provider's public keys from its JWK URL.
type JwkAuthenticator struct {
	keyFn func(t *jwt.Token) (any, error)
}

func NewJwkAuthenticatorWithKeyFn(keyFn func(t *jwt.Token) (any, error)) (*JwkAuthenticator, error) {
	return &JwkAuthenticator{keyFn: keyFn}, nil
}

func NewJwkAuthenticator(jwkCertUrl string) (*JwkAuthenticator, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	k, err := keyfunc.NewDefaultCtx(ctx, []string{jwkCertUrl})
	if err != nil {
		return nil, fmt.Errorf("failed to get identity provider public keys: %w", err)
	}

	return &JwkAuthenticator{keyFn: k.Keyfunc}, nil
}

func (ja *JwkAuthenticator) Authenticate(token string) (User, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Name}), jwt.WithIssuedAt(), jwt.WithExpirationRequired())
	t, err := parser.Parse(token, ja.keyFn)
	if err != nil {
		zap.S().Named("auth").Debugw("failed to parse or the token is invalid", "error", err)
		return User{}, fmt.Errorf("failed to authenticate token: %w", err)
	}

	if !t.Valid {
		return User{}, errors.New("failed to parse or validate token")
	}

	subject, err := t.Claims.GetSubject()
	if err != nil || subject == "" {
		return User{}, errors.New("token has no subject")
	}

	return User{Email: subject, Token: t}, nil
}

func (ja *JwkAuthenticator) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken := r.Header.Get("Authorization")
		if len(accessToken) <= len("Bearer ") {
			http.Error(w, "No token provided", http.StatusUnauthorized)
			return
		}

		accessToken = accessToken[len("Bearer "):]
		user, err := ja.Authenticate(accessToken)
		if err != nil {
			http.Error(w, "authentication failed", http.StatusUnauthorized)
			return
		}

		ctx := NewUserContext(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
