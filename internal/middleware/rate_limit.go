package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"

	"github.com/BradenHooton/emporium/internal/auth"
	pkghttp "github.com/BradenHooton/emporium/pkg/http"
)

// RateLimitConfig holds rate limiting configuration for anonymous endpoints
type RateLimitConfig struct {
	RequestsPerMinute int
	IPConfig          *pkghttp.IPConfig
}

// DefaultLoginRateLimit allows 20 login requests per minute per client IP.
// This throttles request volume only; lockout is decided per identity by the login gate.
func DefaultLoginRateLimit() RateLimitConfig {
	return RateLimitConfig{RequestsPerMinute: 20}
}

// RateLimitByIP limits requests per client IP. The IP is resolved with the
// trusted-proxy rules of pkg/http, so a spoofed X-Forwarded-For cannot pick a fresh bucket.
func RateLimitByIP(config RateLimitConfig) func(next http.Handler) http.Handler {
	return httprate.Limit(
		config.RequestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			return "ip:" + pkghttp.ExtractClientIP(r, config.IPConfig), nil
		}),
		httprate.WithLimitHandler(writeRateLimited),
	)
}

// AuthenticatedRateLimitConfig holds per-user limits for authenticated endpoints
type AuthenticatedRateLimitConfig struct {
	ReadOperationsPerMinute  int
	WriteOperationsPerMinute int
	IPConfig                 *pkghttp.IPConfig
}

func DefaultAuthenticatedRateLimit() AuthenticatedRateLimitConfig {
	return AuthenticatedRateLimitConfig{
		ReadOperationsPerMinute:  100,
		WriteOperationsPerMinute: 30,
	}
}

const (
	OperationRead  = "read"
	OperationWrite = "write"
)

// RateLimitByUserID limits requests per authenticated user, falling back to
// the client IP when no claims are present. Must run after AuthMiddleware.
func RateLimitByUserID(config AuthenticatedRateLimitConfig, operation string) func(next http.Handler) http.Handler {
	limit := config.ReadOperationsPerMinute
	if operation == OperationWrite {
		limit = config.WriteOperationsPerMinute
	}

	return httprate.Limit(
		limit,
		time.Minute,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if claims := auth.GetUserFromContext(r); claims != nil && claims.UserID != "" {
				return operation + ":user:" + claims.UserID, nil
			}
			return operation + ":ip:" + pkghttp.ExtractClientIP(r, config.IPConfig), nil
		}),
		httprate.WithLimitHandler(writeRateLimited),
	)
}

func writeRateLimited(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteTooManyRequests(w, "Rate limit exceeded. Please slow down.")
}

// RateLimitAuthenticated applies the read limit to safe methods and the write
// limit to everything else, each in its own per-user bucket
func RateLimitAuthenticated(config AuthenticatedRateLimitConfig) func(next http.Handler) http.Handler {
	read := RateLimitByUserID(config, OperationRead)
	write := RateLimitByUserID(config, OperationWrite)

	return func(next http.Handler) http.Handler {
		readNext, writeNext := read(next), write(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				readNext.ServeHTTP(w, r)
			default:
				writeNext.ServeHTTP(w, r)
			}
		})
	}
}
