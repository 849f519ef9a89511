package utils

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"

	"termometro/models"
)

// EnsureValidToken returns a middleware that accepts only RS256 access tokens
// issued by issuerURL for audience. Signing keys come from the issuer's JWKS.
func EnsureValidToken(issuerURL *url.URL, audience string) (func(http.Handler) http.Handler, error) {
	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)
	return newTokenMiddleware(provider.KeyFunc, validator.RS256, issuerURL.String(), audience)
}

func newTokenMiddleware(keyFunc func(context.Context) (interface{}, error), alg validator.SignatureAlgorithm, issuer, audience string) (func(http.Handler) http.Handler, error) {
	jwtValidator, err := validator.New(
		keyFunc,
		alg,
		issuer,
		[]string{audience},
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up the jwt validator: %w", err)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("JWT authentication failed on %s: %v", r.URL.Path, err)
		RespondWithError(w, models.NewAPIError(models.ErrorCodeUnauthorized, "Failed to validate JWT.", nil, http.StatusUnauthorized))
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(next http.Handler) http.Handler {
		return middleware.CheckJWT(next)
	}, nil
}

// Subject returns the token subject of an authenticated request, or "".
func Subject(r *http.Request) string {
	claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
	if !ok {
		return ""
	}
	return claims.RegisteredClaims.Subject
}
