package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sort"
	"time"

	"olymp-registration-backend/models"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const countriesCacheKey = "countries"

// FetchError est retournée quand l'annuaire des pays est inaccessible
type FetchError struct {
	Status  int
	Message string
	Err     error
}

// Error implémente l'interface error
func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap permet d'extraire l'erreur d'origine
func (e *FetchError) Unwrap() error {
	return e.Err
}

// CountryDirectory récupère l'annuaire paginé des pays depuis l'API olympiade
type CountryDirectory struct {
	upstream     *UpstreamClient
	firstPageURL string
	locale       language.Tag
	cache        *gocache.Cache
}

// NewCountryDirectory crée le client de l'annuaire.
// Un cacheTTL nul désactive le cache.
func NewCountryDirectory(upstream *UpstreamClient, firstPageURL, locale string, cacheTTL time.Duration) *CountryDirectory {
	tag, err := language.Parse(locale)
	if err != nil {
		log.Printf("⚠️  Locale de tri invalide %q, utilisation de l'anglais", locale)
		tag = language.English
	}

	d := &CountryDirectory{
		upstream:     upstream,
		firstPageURL: firstPageURL,
		locale:       tag,
	}
	if cacheTTL > 0 {
		d.cache = gocache.New(cacheTTL, 2*cacheTTL)
	}
	return d
}

// FetchCountries retourne tous les pays, triés par nom selon la locale.
// Les pages sont lues l'une après l'autre en suivant le curseur "next".
// Si une page échoue après au moins une page réussie, les pays déjà reçus sont retournés.
func (d *CountryDirectory) FetchCountries(ctx context.Context) ([]models.Country, error) {
	if d.cache != nil {
		if cached, found := d.cache.Get(countriesCacheKey); found {
			if countries, ok := cached.([]models.Country); ok {
				return append([]models.Country(nil), countries...), nil
			}
		}
	}

	countries, complete, err := d.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	d.sortByName(countries)

	// Un résultat partiel n'est pas mis en cache pour que le prochain appel réessaie
	if d.cache != nil && complete {
		d.cache.SetDefault(countriesCacheKey, append([]models.Country(nil), countries...))
	}

	return countries, nil
}

// Invalidate vide le cache de l'annuaire
func (d *CountryDirectory) Invalidate() {
	if d.cache != nil {
		d.cache.Delete(countriesCacheKey)
	}
}

func (d *CountryDirectory) fetchAll(ctx context.Context) ([]models.Country, bool, error) {
	countries := []models.Country{}
	pagesOK := 0
	visited := map[string]bool{}
	nextURL := d.firstPageURL

	for nextURL != "" {
		if visited[nextURL] {
			log.Printf("⚠️  Curseur de pagination en boucle sur %s, arrêt", nextURL)
			return countries, false, nil
		}
		visited[nextURL] = true

		items, next, err := d.fetchPage(ctx, nextURL)
		if err != nil {
			if pagesOK > 0 {
				log.Printf("⚠️  Données partielles retournées (%d pays) suite à une erreur de page: %v", len(countries), err)
				return countries, false, nil
			}
			return nil, false, err
		}
		if items == nil {
			// Structure inattendue : on garde ce qui a déjà été reçu
			return countries, false, nil
		}

		pagesOK++
		countries = append(countries, items...)
		nextURL = next
	}

	return countries, true, nil
}

// fetchPage lit une page et retourne ses pays ainsi que l'URL de la page suivante.
// Des items nil signalent une réponse de forme inattendue.
func (d *CountryDirectory) fetchPage(ctx context.Context, pageURL string) ([]models.Country, string, error) {
	resp, err := d.upstream.Do(ctx, EndpointCountries, http.MethodGet, pageURL, "", nil)
	if err != nil {
		log.Printf("❌ Erreur réseau annuaire des pays: %v", err)
		return nil, "", &FetchError{
			Status:  http.StatusBadGateway,
			Message: "Failed to fetch countries",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", &FetchError{Status: http.StatusBadGateway, Message: "Failed to fetch countries", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("❌ Erreur annuaire des pays: %d %s %s", resp.StatusCode, http.StatusText(resp.StatusCode), string(body))
		return nil, "", &FetchError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("Failed to fetch countries: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}

	items, next, ok := decodeCountryPage(body)
	if !ok {
		log.Printf("⚠️  Structure de réponse inattendue pour les pays: %s", truncate(string(body), 200))
		return nil, "", nil
	}

	if next != "" {
		next = resolveURL(pageURL, next)
	}
	return items, next, nil
}

// decodeCountryPage accepte une enveloppe paginée, un tableau brut ou une enveloppe {data}.
// Seule l'enveloppe paginée peut avoir une page suivante.
func decodeCountryPage(body []byte) ([]models.Country, string, bool) {
	trimmed := bytes.TrimSpace(body)

	if isJSONArray(trimmed) {
		var items []models.Country
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, "", false
		}
		return nonNil(items), "", true
	}

	var page models.CountryPage
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, "", false
	}

	if isJSONArray(page.Results) {
		var items []models.Country
		if err := json.Unmarshal(page.Results, &items); err != nil {
			return nil, "", false
		}
		next := ""
		if page.Next != nil {
			next = *page.Next
		}
		return nonNil(items), next, true
	}

	if isJSONArray(page.Data) {
		var items []models.Country
		if err := json.Unmarshal(page.Data, &items); err != nil {
			return nil, "", false
		}
		return nonNil(items), "", true
	}

	return nil, "", false
}

func (d *CountryDirectory) sortByName(countries []models.Country) {
	// Un Collator n'est pas utilisable depuis plusieurs goroutines
	col := collate.New(d.locale)
	sort.SliceStable(countries, func(i, j int) bool {
		return col.CompareString(countries[i].Name, countries[j].Name) < 0
	})
}

func isJSONArray(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}

func nonNil(items []models.Country) []models.Country {
	if items == nil {
		return []models.Country{}
	}
	return items
}

// resolveURL résout un curseur relatif par rapport à la page courante
func resolveURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
