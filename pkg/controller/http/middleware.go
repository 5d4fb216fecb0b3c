package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/secmon-lab/petpal/pkg/domain/model"
	"github.com/secmon-lab/petpal/pkg/usecase"
)

const (
	// SessionCookieName holds the conversation session key
	SessionCookieName = "petpal_session"
	// CallerHeader carries the opaque identity of a logged-in user
	CallerHeader = "X-PetPal-User"

	sessionMaxAge = 30 * 24 * 60 * 60
)

type contextKey string

const sessionKey contextKey = "session"

// sessionMiddleware binds every request to a session, issuing the cookie when absent
func sessionMiddleware(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var key string
			if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				key = cookie.Value
			} else {
				key = uuid.Must(uuid.NewV7()).String()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    key,
					Path:     "/",
					MaxAge:   sessionMaxAge,
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			sess := usecase.Session{
				Key:    key,
				Caller: model.UserID(r.Header.Get(CallerHeader)),
			}
			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFrom(ctx context.Context) usecase.Session {
	sess, _ := ctx.Value(sessionKey).(usecase.Session)
	return sess
}
