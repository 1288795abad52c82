package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"olymp-registration-backend/constants"
	"olymp-registration-backend/middleware"
	"olymp-registration-backend/services"
	"olymp-registration-backend/utils"

	"github.com/gorilla/mux"
)

// RequireMethod vérifie que la méthode HTTP est correcte. Retourne false et écrit l'erreur si non.
func RequireMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		utils.RespondError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		return false
	}
	return true
}

// DecodeJSON décode le corps JSON de la requête. Retourne false et écrit l'erreur si invalide.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidJSONBody)
		return false
	}
	return true
}

// RequireSession récupère la session mise dans le contexte par le middleware Session
func RequireSession(w http.ResponseWriter, r *http.Request) (*services.FormSession, bool) {
	session := middleware.GetSessionFromContext(r.Context())
	if session == nil {
		utils.RespondError(w, http.StatusUnauthorized, constants.ErrSessionMissing)
		return nil, false
	}
	return session, true
}

// ParseCollectionVar extrait et valide la collection depuis les vars de l'URL
func ParseCollectionVar(w http.ResponseWriter, r *http.Request) (services.Collection, bool) {
	collection, err := services.ParseCollection(mux.Vars(r)["collection"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrUnknownCollection)
		return "", false
	}
	return collection, true
}

// ParseIndexVar extrait l'index d'une entrée de l'effectif depuis les vars de l'URL
func ParseIndexVar(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil || index < 0 {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidIndex)
		return 0, false
	}
	return index, true
}
