package handlers

import (
	"net/http"
	"runtime"
	"time"

	"olymp-registration-backend/services"
	"olymp-registration-backend/utils"
)

var startTime = time.Now()

// HealthHandler gère les endpoints de santé
type HealthHandler struct {
	environment string
	upstream    string
	authScheme  string
	store       *services.SessionStore
}

// NewHealthHandler crée un nouveau HealthHandler
func NewHealthHandler(environment, upstream, authScheme string, store *services.SessionStore) *HealthHandler {
	return &HealthHandler{
		environment: environment,
		upstream:    upstream,
		authScheme:  authScheme,
		store:       store,
	}
}

// Health retourne l'état de santé du serveur
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	activeSessions := 0
	if h.store != nil {
		activeSessions = h.store.Count()
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "ok",
		"message":         "Le serveur fonctionne correctement",
		"env":             h.environment,
		"upstream":        h.upstream,
		"auth_scheme":     h.authScheme,
		"active_sessions": activeSessions,
		"uptime":          time.Since(startTime).String(),
		"go_version":      runtime.Version(),
	})
}
