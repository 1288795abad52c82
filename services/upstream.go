package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"olymp-registration-backend/config"
	"olymp-registration-backend/constants"
)

// UpstreamClient envoie les requêtes vers l'API olympiade en injectant les identifiants.
// Le navigateur ne voit jamais ces identifiants ni l'URL de base.
type UpstreamClient struct {
	client      *http.Client
	authHeaders map[string]string
}

// NewUpstreamClient crée un client HTTP pour l'API olympiade.
// Aucune relance automatique : un échec est remonté à l'utilisateur.
func NewUpstreamClient(cfg *config.Config) *UpstreamClient {
	timeout := cfg.UpstreamTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &UpstreamClient{
		client:      &http.Client{Timeout: timeout},
		authHeaders: AuthHeaders(cfg),
	}
}

// AuthHeaders retourne les en-têtes d'authentification selon le schéma configuré
func AuthHeaders(cfg *config.Config) map[string]string {
	headers := map[string]string{}

	switch cfg.AuthScheme() {
	case config.AuthSchemeBearer:
		headers[constants.HeaderAuthorization] = "Bearer " + cfg.APIAuthToken
	case config.AuthSchemeAPIKey:
		headers[constants.HeaderAPIKey] = cfg.APIKey
	case config.AuthSchemeHeader:
		headers[cfg.APIAuthHeader] = cfg.APIAuthValue
	}

	return headers
}

// Do exécute une requête vers l'API et enregistre les métriques de l'appel
func (c *UpstreamClient) Do(ctx context.Context, endpoint, method, url, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("Accept", constants.HeaderApplicationJSON)
	if contentType != "" {
		req.Header.Set(constants.HeaderContentType, contentType)
	}
	for k, v := range c.authHeaders {
		if v != "" {
			req.Header.Set(k, v)
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		observeUpstream(endpoint, 0, start)
		return nil, fmt.Errorf("http do: %w", err)
	}
	observeUpstream(endpoint, resp.StatusCode, start)

	return resp, nil
}
