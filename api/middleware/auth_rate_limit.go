package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/wakelni/wakelni-backend/api/responses"
	pkgerrors "github.com/wakelni/wakelni-backend/pkg/errors"
	"github.com/wakelni/wakelni-backend/pkg/logger"
)

type rateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// AuthRateLimitPolicy throttles one auth surface (login, register, ...)
// with a fixed window per client IP and per submitted email. Either limit
// may be zero to disable that scope.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

// NewAuthRateLimitPolicy builds a policy with the supplied window and limits.
func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	return AuthRateLimitPolicy{
		name:       strings.ToLower(strings.TrimSpace(name)),
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

func (p AuthRateLimitPolicy) surface() string {
	if p.name == "" {
		return "auth"
	}
	return p.name
}

// AuthRateLimit guards credential endpoints against brute force. The IP
// scope counts every request from an address; the email scope counts
// attempts against a specific account regardless of origin, keyed by a hash
// so raw addresses never reach Redis. A disabled policy or missing store
// passes requests through untouched.
func AuthRateLimit(policy AuthRateLimitPolicy, store rateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		rl := &authRateLimiter{policy: policy, store: store, logg: logg}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := clientIP(r)
			if policy.ipLimit > 0 && ip != "" {
				key := fmt.Sprintf("rl:ip:%s:%s", policy.surface(), ip)
				if done := rl.checkScope(ctx, w, key, policy.ipLimit, scopeInfo{scope: "ip", ip: ip}); done {
					return
				}
			}

			if policy.emailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				// The handler downstream still needs the body.
				r.Body = io.NopCloser(bytes.NewReader(body))

				if hash := emailHash(body); hash != "" {
					key := fmt.Sprintf("rl:email:%s:%s", policy.surface(), hash)
					if done := rl.checkScope(ctx, w, key, policy.emailLimit, scopeInfo{scope: "email", emailHash: hash}); done {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

type authRateLimiter struct {
	policy AuthRateLimitPolicy
	store  rateLimiterStore
	logg   *logger.Logger
}

type scopeInfo struct {
	scope     string
	ip        string
	emailHash string
}

// checkScope bumps the counter for key and writes the response when the
// request must not proceed. It reports true when a response was written.
func (rl *authRateLimiter) checkScope(ctx context.Context, w http.ResponseWriter, key string, limit int, info scopeInfo) bool {
	count, err := rl.store.IncrWithTTL(ctx, key, rl.policy.window)
	if err != nil {
		responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return true
	}
	if count <= int64(limit) {
		return false
	}

	if rl.logg != nil {
		fields := map[string]any{
			"scope":          info.scope,
			"policy":         rl.policy.surface(),
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(rl.policy.window.Seconds()),
		}
		if info.ip != "" {
			fields["ip"] = info.ip
		}
		if info.emailHash != "" {
			fields["email_hash"] = info.emailHash
		}
		rl.logg.Warn(rl.logg.WithFields(ctx, fields), "auth.rate_limit.blocked")
	}

	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
	return true
}

// clientIP prefers proxy headers over RemoteAddr so limits track the real
// client behind the load balancer.
func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

// emailHash extracts the email field from a JSON payload and returns its
// normalized SHA-256 hex digest, or "" when no email is present.
func emailHash(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}

	email := strings.ToLower(strings.TrimSpace(body.Email))
	if email == "" {
		return ""
	}

	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}
