package middleware

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"olymp-registration-backend/constants"
	"olymp-registration-backend/services"

	"github.com/google/uuid"
)

// responseWriter wrapper pour capturer le code de statut
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// isCriticalError : erreurs serveur (5xx) et refus d'accès (403).
// Les 502 viennent de l'API olympiade et sont aussi notifiés.
func isCriticalError(statusCode int) bool {
	return statusCode >= http.StatusInternalServerError || statusCode == http.StatusForbidden
}

// RequestID attribue un identifiant à chaque requête (repris du client s'il en fournit un)
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(constants.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(constants.HeaderRequestID, id)
		}
		w.Header().Set(constants.HeaderRequestID, id)
		next.ServeHTTP(w, r)
	})
}

// Logging enregistre les requêtes HTTP et envoie des notifications Slack pour les erreurs critiques
func Logging(slackService *services.SlackService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := newResponseWriter(w)

			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			statusCode := rw.statusCode
			services.RecordHTTPRequest(r.Method, statusCode)

			if statusCode < http.StatusBadRequest {
				return
			}

			log.Printf("⚠️ %s %s -> %d (%s) [%s]",
				r.Method, r.RequestURI, statusCode, duration, r.Header.Get(constants.HeaderRequestID))

			if !isCriticalError(statusCode) || !slackService.Enabled() {
				return
			}

			origin := r.Header.Get("Origin")
			userAgent := r.Header.Get("User-Agent")
			statusCodeStr := strconv.Itoa(statusCode)

			if statusCode == http.StatusForbidden && origin != "" {
				go slackService.SendCORSError(r.Method, r.RequestURI, origin, userAgent)
				return
			}
			message := http.StatusText(statusCode)
			if statusCode == http.StatusForbidden {
				message = "Accès refusé"
			}
			go slackService.SendCriticalError(r.Method, r.RequestURI, statusCodeStr, message, origin, userAgent)
		})
	}
}
