package models

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/crypto/blake2b"
)

// AttachmentState décrit l'état d'un champ fichier du formulaire
type AttachmentState string

const (
	AttachmentAbsent      AttachmentState = "absent"
	AttachmentPlaceholder AttachmentState = "placeholder"
	AttachmentUploaded    AttachmentState = "uploaded"
)

// Types de fichiers acceptés par les champs du formulaire
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeJPEG = "image/jpeg"
	MediaTypePNG  = "image/png"
)

// ErrEmptyAttachment est retournée quand un fichier envoyé ne contient aucun octet
var ErrEmptyAttachment = errors.New("le fichier est vide")

// Attachment représente un fichier joint : absent, placeholder vide ou réellement envoyé.
// Seul l'état Uploaded porte des données, et toujours au moins un octet.
type Attachment struct {
	State     AttachmentState
	Filename  string
	MediaType string
	Data      []byte
	Checksum  string
}

// PlaceholderAttachment retourne le fichier vide utilisé avant un vrai upload
func PlaceholderAttachment() Attachment {
	return Attachment{State: AttachmentPlaceholder}
}

// NewUploadedAttachment construit une pièce jointe envoyée par l'utilisateur.
// Le type MIME déclaré est normalisé ; s'il est absent ou générique, il est détecté depuis le contenu.
func NewUploadedAttachment(filename, declaredType string, data []byte) (Attachment, error) {
	if len(data) == 0 {
		return Attachment{}, ErrEmptyAttachment
	}

	sum := blake2b.Sum256(data)

	return Attachment{
		State:     AttachmentUploaded,
		Filename:  filename,
		MediaType: DetectMediaType(declaredType, data),
		Data:      data,
		Checksum:  hex.EncodeToString(sum[:]),
	}, nil
}

// DetectMediaType normalise un Content-Type déclaré, ou détecte le type depuis les octets
func DetectMediaType(declared string, data []byte) string {
	if declared != "" {
		if mediaType, _, err := mime.ParseMediaType(declared); err == nil {
			mediaType = strings.ToLower(mediaType)
			if mediaType == "image/jpg" || mediaType == "image/pjpeg" {
				mediaType = MediaTypeJPEG
			}
			if mediaType != "application/octet-stream" {
				return mediaType
			}
		}
	}

	detected := mimetype.Detect(data)
	mediaType, _, err := mime.ParseMediaType(detected.String())
	if err != nil {
		return "application/octet-stream"
	}
	return mediaType
}

// IsUploaded indique si la pièce jointe est un vrai fichier non vide
func (a Attachment) IsUploaded() bool {
	return a.State == AttachmentUploaded && len(a.Data) > 0
}

// Size retourne la taille du fichier en octets
func (a Attachment) Size() int {
	return len(a.Data)
}

// attachmentView est la représentation JSON (sans les octets)
type attachmentView struct {
	State     AttachmentState `json:"state"`
	Filename  string          `json:"filename,omitempty"`
	MediaType string          `json:"media_type,omitempty"`
	Size      int             `json:"size"`
	Checksum  string          `json:"checksum,omitempty"`
}

// MarshalJSON expose l'état du fichier sans son contenu
func (a Attachment) MarshalJSON() ([]byte, error) {
	state := a.State
	if state == "" {
		state = AttachmentAbsent
	}
	return json.Marshal(attachmentView{
		State:     state,
		Filename:  a.Filename,
		MediaType: a.MediaType,
		Size:      a.Size(),
		Checksum:  a.Checksum,
	})
}
