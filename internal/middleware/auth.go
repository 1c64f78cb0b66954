package middleware

import (
	"net/http"

	"github.com/certmint/certmint/internal/ctxkeys"
	"github.com/certmint/certmint/internal/service"
)

// SessionMiddleware validates the session cookie and, when valid, adds the
// admin identity to the request context. Invalid or expired cookies are
// cleared and the request continues anonymously.
func SessionMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := authService.SessionCookie(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			admin, err := authService.VerifySession(token)
			if err != nil {
				authService.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithAdmin(r.Context(), admin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures the request carries an authenticated admin session,
// redirecting to the login page otherwise.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Admin(r.Context()) == "" {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	}
}
