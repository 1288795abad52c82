package models

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// PayloadPart est une partie du formulaire multipart envoyé à l'API
type PayloadPart struct {
	Name string
	// Valeur texte (ignorée pour un fichier)
	Value string
	// Fichier joint, nil pour une partie texte
	File *Attachment
}

// IsFile indique si la partie transporte un fichier
func (p PayloadPart) IsFile() bool {
	return p.File != nil
}

// Payload est le contenu ordonné d'une inscription prête à être envoyée
type Payload struct {
	Parts []PayloadPart
}

// AddField ajoute une partie texte
func (p *Payload) AddField(name, value string) {
	p.Parts = append(p.Parts, PayloadPart{Name: name, Value: value})
}

// AddFile ajoute une partie fichier
func (p *Payload) AddFile(name string, file Attachment) {
	p.Parts = append(p.Parts, PayloadPart{Name: name, File: &file})
}

// Keys retourne les noms des parties dans l'ordre d'envoi
func (p *Payload) Keys() []string {
	keys := make([]string, 0, len(p.Parts))
	for _, part := range p.Parts {
		keys = append(keys, part.Name)
	}
	return keys
}

// Get retourne la partie texte associée à une clé
func (p *Payload) Get(name string) (string, bool) {
	for _, part := range p.Parts {
		if part.Name == name && !part.IsFile() {
			return part.Value, true
		}
	}
	return "", false
}

// FileKeys retourne les noms des parties fichier
func (p *Payload) FileKeys() []string {
	var keys []string
	for _, part := range p.Parts {
		if part.IsFile() {
			keys = append(keys, part.Name)
		}
	}
	return keys
}

// Boundary calcule une frontière multipart dérivée du contenu.
// Deux payloads identiques produisent donc exactement le même corps.
func (p *Payload) Boundary() string {
	h, _ := blake2b.New256(nil)
	for _, part := range p.Parts {
		h.Write([]byte(part.Name))
		h.Write([]byte{0})
		if part.IsFile() {
			h.Write([]byte(part.File.Filename))
			h.Write([]byte{0})
			h.Write(part.File.Data)
		} else {
			h.Write([]byte(part.Value))
		}
		h.Write([]byte{0})
	}
	return "olymp" + hex.EncodeToString(h.Sum(nil))[:40]
}

// Encode écrit le payload en multipart/form-data et retourne le Content-Type avec sa frontière
func (p *Payload) Encode() (string, []byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.SetBoundary(p.Boundary()); err != nil {
		return "", nil, fmt.Errorf("frontière multipart invalide: %w", err)
	}

	for _, part := range p.Parts {
		if !part.IsFile() {
			if err := writer.WriteField(part.Name, part.Value); err != nil {
				return "", nil, fmt.Errorf("erreur écriture champ %s: %w", part.Name, err)
			}
			continue
		}

		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(part.Name), escapeQuotes(part.File.Filename)))
		contentType := part.File.MediaType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		w, err := writer.CreatePart(header)
		if err != nil {
			return "", nil, fmt.Errorf("erreur création fichier %s: %w", part.Name, err)
		}
		if _, err := w.Write(part.File.Data); err != nil {
			return "", nil, fmt.Errorf("erreur écriture fichier %s: %w", part.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return "", nil, err
	}

	return writer.FormDataContentType(), body.Bytes(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// SubmissionResult est le résultat normalisé d'un envoi à l'API d'inscription
type SubmissionResult struct {
	Success bool
	// Code HTTP renvoyé au client (celui de l'API, ou 502 si elle est injoignable)
	Status int
	// Message d'erreur lisible, vide en cas de succès
	Message string
	// Corps JSON de la réponse en cas de succès
	Body json.RawMessage
}

// SubmissionSucceeded construit un résultat de succès
func SubmissionSucceeded(status int, body json.RawMessage) SubmissionResult {
	return SubmissionResult{Success: true, Status: status, Body: body}
}

// SubmissionFailed construit un résultat d'échec
func SubmissionFailed(status int, message string) SubmissionResult {
	return SubmissionResult{Status: status, Message: message}
}

// ValidationResult associe chaque champ invalide (ex: contestants.2.passport_number) à son message
type ValidationResult struct {
	Errors map[string]string `json:"errors"`
}

// Valid indique si le formulaire ne comporte aucune erreur
func (v ValidationResult) Valid() bool {
	return len(v.Errors) == 0
}
