package handlers

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"

	"olymp-registration-backend/constants"
	"olymp-registration-backend/services"
	"olymp-registration-backend/utils"
)

// ProxyHandler relaie les appels du formulaire vers l'API olympiade.
// Les identifiants ne quittent jamais le serveur.
type ProxyHandler struct {
	directory   *services.CountryDirectory
	client      *services.RegistrationClient
	maxBodySize int64
}

// NewProxyHandler crée une nouvelle instance
func NewProxyHandler(directory *services.CountryDirectory, client *services.RegistrationClient, maxBodySize int64) *ProxyHandler {
	return &ProxyHandler{
		directory:   directory,
		client:      client,
		maxBodySize: maxBodySize,
	}
}

// Countries retourne la liste complète des pays, triée par nom
func (h *ProxyHandler) Countries(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	countries, err := h.directory.FetchCountries(r.Context())
	if err != nil {
		var fetchErr *services.FetchError
		if errors.As(err, &fetchErr) {
			utils.RespondUpstreamError(w, fetchErr.Status, fetchErr.Message)
			return
		}
		log.Printf("❌ Erreur chargement des pays: %v", err)
		utils.RespondUpstreamError(w, http.StatusInternalServerError, "Failed to fetch countries")
		return
	}

	utils.RespondJSON(w, http.StatusOK, countries)
}

// Register transmet le corps multipart reçu tel quel, frontière comprise
func (h *ProxyHandler) Register(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondUpstreamError(w, http.StatusRequestEntityTooLarge, constants.ErrBodyTooLarge)
			return
		}
		utils.RespondUpstreamError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	result := h.client.Forward(r.Context(), r.Header.Get(constants.HeaderContentType), bytes.NewReader(body))
	if !result.Success {
		utils.RespondUpstreamError(w, result.Status, result.Message)
		return
	}

	utils.RespondRawJSON(w, http.StatusOK, result.Body)
}
