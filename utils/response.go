package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"olymp-registration-backend/models"
)

// RespondJSON envoie une réponse JSON
func RespondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}

	if statusCode <= 0 {
		statusCode = http.StatusOK
	}
	w.WriteHeader(statusCode)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Les en-têtes sont déjà partis, on ne peut que journaliser
			log.Printf("❌ Erreur lors de l'encodage JSON: %v", err)
		}
	}
}

// RespondRawJSON renvoie tel quel un corps JSON déjà encodé (réponse de l'API olympiade)
func RespondRawJSON(w http.ResponseWriter, statusCode int, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(body); err != nil {
		log.Printf("❌ Erreur lors de l'écriture de la réponse: %v", err)
	}
}

// RespondError envoie une réponse d'erreur JSON
func RespondError(w http.ResponseWriter, statusCode int, message string) {
	RespondJSON(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// RespondUpstreamError renvoie une erreur au format {"error": message} attendu par le formulaire
func RespondUpstreamError(w http.ResponseWriter, statusCode int, message string) {
	RespondJSON(w, statusCode, map[string]string{"error": message})
}

// RespondValidationError renvoie les erreurs par champ avec un code 422
func RespondValidationError(w http.ResponseWriter, message string, errors map[string]string) {
	RespondJSON(w, http.StatusUnprocessableEntity, models.ValidationErrorResponse{
		Error:   http.StatusText(http.StatusUnprocessableEntity),
		Message: message,
		Errors:  errors,
	})
}

// RespondSuccess envoie une réponse de succès JSON
func RespondSuccess(w http.ResponseWriter, message string, data interface{}) {
	RespondJSON(w, http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}
