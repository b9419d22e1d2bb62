package endpoint

import (
	"net/http"

	"github.com/jobly/jobly-api/auth"
	e "github.com/jobly/jobly-api/rest/errors"
)

// authenticateJWT stores the claims of a valid bearer token in the request
// context. Requests without a valid token continue anonymously.
func (s *routeList) authenticateJWT(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.tokens.FromRequest(r)
		if err != nil {
			s.logger.Debug("ignoring invalid token", "error", err)
		}
		if claims == nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithContextClaims(r.Context(), claims)))
	})
}

func (s *routeList) ensureLoggedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.ContextClaims(r.Context()) == nil {
			s.respondWithError(w, r, e.NewUnauthorizedError("Unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *routeList) ensureAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsAdmin(r.Context()) {
			s.respondWithError(w, r, e.NewUnauthorizedError("Unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ensureCorrectUserOrAdmin only lets through administrators and the user named by the username parameter
func (s *routeList) ensureCorrectUserOrAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsUserOrAdmin(r.Context(), s.params(r, "username")) {
			s.respondWithError(w, r, e.NewUnauthorizedError("Unauthorized"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
