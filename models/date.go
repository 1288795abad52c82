package models

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout est le format de date attendu par l'API d'inscription
const DateLayout = "2006-01-02"

// Date est une date calendaire (sans heure) qui accepte plusieurs formats en entrée
type Date struct {
	time.Time
}

// NewDate construit une date calendaire en UTC
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parse une date saisie dans le formulaire.
// Une chaîne vide donne une date nulle.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return Date{}, nil
	}

	// Les navigateurs envoient soit la date seule, soit un ISO complet
	formats := []string{
		DateLayout,           // "2010-05-17"
		"2006-01-02T15:04:05", // "2010-05-17T00:00:00"
		time.RFC3339,          // "2010-05-17T00:00:00Z"
		time.RFC3339Nano,
		"02.01.2006", // "17.05.2010"
	}

	for _, layout := range formats {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			// On ne garde que le jour calendaire, tel que saisi
			return NewDate(parsed.Year(), parsed.Month(), parsed.Day()), nil
		}
	}

	return Date{}, fmt.Errorf("format de date invalide: %s", s)
}

// String retourne la date au format YYYY-MM-DD, ou une chaîne vide si elle est nulle
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// UnmarshalJSON accepte les formats de ParseDate
func (d *Date) UnmarshalJSON(b []byte) error {
	parsed, err := ParseDate(strings.Trim(string(b), "\""))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON retourne la date au format YYYY-MM-DD (null si vide)
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte("\"" + d.String() + "\""), nil
}
