package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Country représente un pays de l'annuaire de l'API olympiade
type Country struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// Matches indique si une valeur saisie dans le formulaire désigne ce pays (id ou code ISO)
func (c Country) Matches(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if value == strconv.Itoa(c.ID) {
		return true
	}
	return c.Code != "" && strings.EqualFold(value, c.Code)
}

// CountryPage représente une page de l'annuaire.
// L'API peut répondre avec une enveloppe paginée {count, next, previous, results},
// un tableau brut, ou une enveloppe {data: [...]}.
type CountryPage struct {
	Count    int             `json:"count"`
	Next     *string         `json:"next"`
	Previous *string         `json:"previous"`
	Results  json.RawMessage `json:"results"`
	Data     json.RawMessage `json:"data"`
}
