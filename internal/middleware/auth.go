package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/domain"
)

// Request user-value keys set by the gate for downstream handlers.
const (
	SubjectKey = "subject_id"
	SessionKey = "session_id"
)

const bearerPrefix = "Bearer "

// SessionChecker reports whether a session is still live. Logout deletes
// the session, which invalidates the token ahead of its exp claim.
type SessionChecker interface {
	Get(ctx context.Context, id string) (*domain.Session, error)
}

// Authenticate verifies the bearer credential and resolves the acting
// subject. Failures are terminal: the wrapped handler never runs and no
// task logic is reached. On success the subject and session ids are
// attached to the request as user values.
func Authenticate(secret string, sessions SessionChecker, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			header := string(ctx.Request.Header.Peek("Authorization"))
			if !strings.HasPrefix(header, bearerPrefix) {
				reject(ctx, "missing or malformed credential")
				return
			}

			token, err := jwt.ParseWithClaims(
				strings.TrimPrefix(header, bearerPrefix),
				&jwt.RegisteredClaims{},
				func(token *jwt.Token) (interface{}, error) {
					if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, jwt.ErrSignatureInvalid
					}
					return []byte(secret), nil
				},
			)
			if err != nil || !token.Valid {
				logger.Warn("credential rejected", zap.Error(err))
				reject(ctx, "invalid credential")
				return
			}

			claims, ok := token.Claims.(*jwt.RegisteredClaims)
			if !ok || claims.Subject == "" {
				reject(ctx, "malformed credential payload")
				return
			}

			if sessions != nil {
				session, err := sessions.Get(ctx, claims.ID)
				if err != nil {
					logger.Warn("session lookup failed", zap.String("session_id", claims.ID), zap.Error(err))
					reject(ctx, "invalid credential")
					return
				}
				// The cache TTL can lag the session's own deadline.
				if session.IsExpired(time.Now()) {
					logger.Warn("session expired", zap.String("session_id", claims.ID))
					reject(ctx, "invalid credential")
					return
				}
			}

			ctx.SetUserValue(SubjectKey, claims.Subject)
			ctx.SetUserValue(SessionKey, claims.ID)
			next(ctx)
		}
	}
}

func reject(ctx *fasthttp.RequestCtx, message string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	body, _ := json.Marshal(map[string]string{"message": message})
	ctx.SetBody(body)
}
