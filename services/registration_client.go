package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"

	"olymp-registration-backend/models"
)

const defaultSubmissionMessage = "Registration submitted successfully"

// RegistrationClient transmet les inscriptions à l'API olympiade.
// Aucune erreur réseau ne remonte telle quelle : tout est converti en SubmissionResult.
type RegistrationClient struct {
	upstream *UpstreamClient
	url      string
}

// NewRegistrationClient crée le client d'envoi des inscriptions
func NewRegistrationClient(upstream *UpstreamClient, registrationsURL string) *RegistrationClient {
	return &RegistrationClient{
		upstream: upstream,
		url:      registrationsURL,
	}
}

// Submit encode le payload en multipart et l'envoie en une seule requête
func (c *RegistrationClient) Submit(ctx context.Context, payload *models.Payload) models.SubmissionResult {
	contentType, body, err := payload.Encode()
	if err != nil {
		log.Printf("❌ Erreur encodage inscription: %v", err)
		RecordSubmission("error")
		return models.SubmissionFailed(http.StatusInternalServerError, "Failed to submit registration")
	}
	return c.Forward(ctx, contentType, bytes.NewReader(body))
}

// Forward envoie un corps multipart déjà encodé (proxy /api/register).
// Le Content-Type est conservé tel quel pour garder la frontière.
func (c *RegistrationClient) Forward(ctx context.Context, contentType string, body io.Reader) models.SubmissionResult {
	resp, err := c.upstream.Do(ctx, EndpointRegistrations, http.MethodPost, c.url, contentType, body)
	if err != nil {
		log.Printf("❌ Erreur réseau envoi inscription: %v", err)
		RecordSubmission("error")
		return models.SubmissionFailed(http.StatusBadGateway, "Failed to submit registration: "+transportMessage(err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("❌ Erreur lecture réponse inscription: %v", err)
		RecordSubmission("error")
		return models.SubmissionFailed(http.StatusBadGateway, "Failed to submit registration: "+transportMessage(err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := submissionErrorMessage(resp.StatusCode, raw)
		log.Printf("⚠️  Inscription refusée par l'API (%d): %s", resp.StatusCode, message)
		RecordSubmission("rejected")
		return models.SubmissionFailed(resp.StatusCode, message)
	}

	if isJSONContentType(resp.Header.Get("Content-Type")) {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || !json.Valid(trimmed) {
			log.Printf("⚠️  Réponse JSON invalide de l'API d'inscription: %s", truncate(string(raw), 200))
			RecordSubmission("error")
			return models.SubmissionFailed(http.StatusBadGateway, "Failed to submit registration")
		}
		RecordSubmission("success")
		return models.SubmissionSucceeded(resp.StatusCode, json.RawMessage(trimmed))
	}

	// Réponse texte ou vide : on l'enveloppe dans un succès générique
	text := strings.TrimSpace(string(raw))
	if text == "" {
		text = defaultSubmissionMessage
	}
	envelope, err := json.Marshal(models.SuccessResponse{Success: true, Message: text})
	if err != nil {
		RecordSubmission("error")
		return models.SubmissionFailed(http.StatusInternalServerError, "Failed to submit registration")
	}
	RecordSubmission("success")
	return models.SubmissionSucceeded(resp.StatusCode, envelope)
}

// submissionErrorMessage choisit le meilleur message : message ou detail du JSON,
// puis le texte brut, puis un message générique dérivé du code HTTP
func submissionErrorMessage(status int, raw []byte) string {
	trimmed := bytes.TrimSpace(raw)

	var structured map[string]interface{}
	if err := json.Unmarshal(trimmed, &structured); err == nil {
		for _, key := range []string{"message", "detail"} {
			if msg, ok := structured[key].(string); ok && strings.TrimSpace(msg) != "" {
				return msg
			}
		}
	}

	if len(trimmed) > 0 {
		return string(trimmed)
	}

	return fmt.Sprintf("Failed to submit registration: %d %s", status, http.StatusText(status))
}

func isJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func transportMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
		return "upstream timeout"
	}
	return "upstream unreachable"
}
