package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Schémas d'authentification possibles vers l'API olympiade
const (
	AuthSchemeNone   = "none"
	AuthSchemeBearer = "bearer"
	AuthSchemeAPIKey = "api_key"
	AuthSchemeHeader = "custom_header"
)

// Config contient toutes les configurations de l'application
type Config struct {
	Port              string
	Host              string
	Environment       string
	CORSOrigins       []string
	APIBaseURL        string
	APIAuthToken      string
	APIKey            string
	APIAuthHeader     string
	APIAuthValue      string
	SessionSecret     string
	SessionTTL        time.Duration
	CountriesCacheTTL time.Duration
	CountriesLocale   string
	TeamLeadersMax    int
	MaxUploadSize     int64
	UpstreamTimeout   time.Duration
	SlackWebhookURL   string
}

// Load charge la configuration du serveur depuis les variables d'environnement
func Load() (*Config, error) {
	config, err := LoadClient()
	if err != nil {
		return nil, err
	}

	// Valider les configurations critiques
	if config.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET est requis")
	}

	return config, nil
}

// LoadClient charge la configuration sans exiger les secrets du serveur (outils en ligne de commande)
func LoadClient() (*Config, error) {
	// Charger le fichier .env s'il existe
	_ = godotenv.Load()

	config := &Config{
		Port:            getEnv("PORT", "8090"),
		Host:            getEnv("HOST", "0.0.0.0"), // 0.0.0.0 pour serveur cloud
		Environment:     getEnv("ENVIRONMENT", "development"),
		APIBaseURL:      strings.TrimRight(getEnv("API_BASE_URL", "https://api.olympcenter.uz/api"), "/"),
		APIAuthToken:    getEnv("API_AUTH_TOKEN", ""),
		APIKey:          getEnv("API_KEY", ""),
		APIAuthHeader:   getEnv("API_AUTH_HEADER", ""),
		APIAuthValue:    getEnv("API_AUTH_VALUE", ""),
		SessionSecret:   getEnv("SESSION_SECRET", ""),
		CountriesLocale: getEnv("COUNTRIES_LOCALE", "en"),
		SlackWebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),
	}

	// Parser les origines CORS
	origins := getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	originsList := strings.Split(origins, ",")
	// Nettoyer les espaces autour de chaque origine
	config.CORSOrigins = make([]string, 0, len(originsList))
	for _, origin := range originsList {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			config.CORSOrigins = append(config.CORSOrigins, trimmed)
		}
	}

	var err error
	if config.SessionTTL, err = getDuration("SESSION_TTL", 2*time.Hour); err != nil {
		return nil, err
	}
	if config.CountriesCacheTTL, err = getDuration("COUNTRIES_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if config.UpstreamTimeout, err = getDuration("UPSTREAM_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}

	if config.TeamLeadersMax, err = getInt("TEAM_LEADERS_MAX", 1); err != nil {
		return nil, err
	}
	if config.TeamLeadersMax < 1 || config.TeamLeadersMax > 2 {
		return nil, fmt.Errorf("TEAM_LEADERS_MAX doit valoir 1 ou 2")
	}

	uploadMB, err := getInt("MAX_UPLOAD_SIZE_MB", 10)
	if err != nil {
		return nil, err
	}
	if uploadMB < 1 {
		return nil, fmt.Errorf("MAX_UPLOAD_SIZE_MB doit être positif")
	}
	config.MaxUploadSize = int64(uploadMB) << 20

	return config, nil
}

// AuthScheme retourne le schéma d'authentification actif.
// Un seul est utilisé, par ordre de priorité : bearer, clé API, en-tête personnalisé.
func (c *Config) AuthScheme() string {
	switch {
	case c.APIAuthToken != "":
		return AuthSchemeBearer
	case c.APIKey != "":
		return AuthSchemeAPIKey
	case c.APIAuthHeader != "" && c.APIAuthValue != "":
		return AuthSchemeHeader
	default:
		return AuthSchemeNone
	}
}

// CountriesURL retourne l'URL de la première page de l'annuaire des pays
func (c *Config) CountriesURL() string {
	return c.APIBaseURL + "/countries/"
}

// RegistrationsURL retourne l'URL d'envoi des inscriptions détaillées
func (c *Config) RegistrationsURL() string {
	return c.APIBaseURL + "/detailed-registrations/"
}

// getEnv récupère une variable d'environnement avec une valeur par défaut
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s invalide: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%s invalide: %w", key, err)
	}
	return v, nil
}
