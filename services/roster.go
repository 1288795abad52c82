package services

import (
	"fmt"
	"strconv"
	"strings"

	"olymp-registration-backend/models"
)

// Collection désigne un effectif redimensionnable du formulaire
type Collection string

const (
	CollectionTeamLeaders Collection = "team_leaders"
	CollectionContestants Collection = "contestants"
)

// ParseCollection valide le nom d'une collection reçu dans l'URL
func ParseCollection(raw string) (Collection, error) {
	switch c := Collection(raw); c {
	case CollectionTeamLeaders, CollectionContestants:
		return c, nil
	default:
		return "", fmt.Errorf("collection inconnue: %s", raw)
	}
}

// RosterManager est le seul point de modification de la taille des effectifs
type RosterManager struct {
	maxTeamLeaders int
}

// NewRosterManager crée le gestionnaire d'effectifs.
// maxTeamLeaders dépend de la variante déployée (1 ou 2).
func NewRosterManager(maxTeamLeaders int) *RosterManager {
	if maxTeamLeaders < models.MinRosterSize {
		maxTeamLeaders = models.MinRosterSize
	}
	if maxTeamLeaders > models.MaxTeamLeaders {
		maxTeamLeaders = models.MaxTeamLeaders
	}
	return &RosterManager{maxTeamLeaders: maxTeamLeaders}
}

// MaxTeamLeaders retourne le nombre maximum de chefs d'équipe
func (m *RosterManager) MaxTeamLeaders() int {
	return m.maxTeamLeaders
}

// ParseCount interprète le nombre choisi dans le sélecteur.
// Une valeur vide, non numérique ou nulle vaut 1 : il faut toujours au moins une entrée.
func ParseCount(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < models.MinRosterSize {
		return models.MinRosterSize
	}
	return n
}

// Resize ajuste la collection à newCount entrées et retourne la taille appliquée.
// Les entrées conservées ne sont jamais modifiées ; les nouvelles sont vierges,
// avec des fichiers placeholder. La taille est bornée au maximum de la collection.
func (m *RosterManager) Resize(doc *models.RegistrationDocument, collection Collection, newCount int) (int, error) {
	if newCount < models.MinRosterSize {
		newCount = models.MinRosterSize
	}

	switch collection {
	case CollectionTeamLeaders:
		newCount = min(newCount, m.maxTeamLeaders)
		doc.TeamLeaders = resizeRoster(doc.TeamLeaders, newCount, models.NewTeamLeader)
	case CollectionContestants:
		newCount = min(newCount, models.MaxContestants)
		doc.Contestants = resizeRoster(doc.Contestants, newCount, models.NewContestant)
	default:
		return 0, fmt.Errorf("collection inconnue: %s", collection)
	}

	return newCount, nil
}

// ResizeFromInput applique la valeur brute d'un sélecteur de nombre
func (m *RosterManager) ResizeFromInput(doc *models.RegistrationDocument, collection Collection, raw string) (int, error) {
	return m.Resize(doc, collection, ParseCount(raw))
}

func resizeRoster[T any](entries []T, n int, fresh func() T) []T {
	if n <= len(entries) {
		// Copie pour ne pas partager le tableau sous-jacent avec les entrées retirées
		return append(make([]T, 0, n), entries[:n]...)
	}
	for len(entries) < n {
		entries = append(entries, fresh())
	}
	return entries
}
