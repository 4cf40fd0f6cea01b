package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/resumehub/internal/common"
	"github.com/dmitrijs2005/resumehub/internal/server/services"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const actorKey ctxKey = "actor"

// Cookie names set by sign-in and refresh, for browser clients.
const (
	accessTokenCookie  = "authorization"
	refreshTokenCookie = "refreshToken"
)

// accessTokenMiddleware resolves the bearer access token to an Actor and
// stores it in the request context. Failures stop the request with 401.
func (s *HTTPServer) accessTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get(common.AuthorizationHeaderName))
		if token == "" {
			if c, err := r.Cookie(accessTokenCookie); err == nil {
				token = bearerToken(c.Value)
			}
		}
		if token == "" {
			s.writeError(w, r, common.ErrMissingToken)
			return
		}

		accountID, err := s.services.Tokens.VerifyAccess(token)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		actor, err := s.services.Accounts.Actor(r.Context(), accountID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func actorFromContext(ctx context.Context) services.Actor {
	actor, _ := ctx.Value(actorKey).(services.Actor)
	return actor
}

// bearerToken strips the "Bearer" scheme. A value without the scheme is
// returned as is; a bare scheme yields "".
func bearerToken(value string) string {
	value = strings.TrimSpace(value)
	scheme := strings.TrimSpace(common.BearerPrefix)
	if len(value) >= len(scheme) && strings.EqualFold(value[:len(scheme)], scheme) {
		rest := value[len(scheme):]
		if rest == "" || rest[0] == ' ' || rest[0] == '\t' {
			value = rest
		}
	}
	return strings.TrimSpace(value)
}

func (s *HTTPServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
