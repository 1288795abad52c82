package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"olymp-registration-backend/constants"
	"olymp-registration-backend/services"
	"olymp-registration-backend/utils"
)

type contextKey string

// SessionContextKey est la clé de la session de formulaire dans le contexte
const SessionContextKey contextKey = "form_session"

// Session vérifie le jeton de session et charge le formulaire correspondant
func Session(secret string, store *services.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get(constants.HeaderAuthorization)
			if authHeader == "" {
				utils.RespondError(w, http.StatusUnauthorized, constants.ErrSessionMissing)
				return
			}

			// Format "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.RespondError(w, http.StatusUnauthorized, constants.ErrSessionInvalid)
				return
			}

			claims, err := utils.ValidateSessionToken(parts[1], secret)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, constants.ErrSessionInvalid)
				return
			}

			session, found := store.Get(claims.SessionID)
			if !found {
				log.Printf("⚠️  Session de formulaire introuvable: %s", claims.SessionID)
				utils.RespondError(w, http.StatusNotFound, constants.ErrSessionNotFound)
				return
			}

			ctx := context.WithValue(r.Context(), SessionContextKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionFromContext récupère la session de formulaire depuis le contexte
func GetSessionFromContext(ctx context.Context) *services.FormSession {
	session, ok := ctx.Value(SessionContextKey).(*services.FormSession)
	if !ok {
		return nil
	}
	return session
}
