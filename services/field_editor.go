package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"olymp-registration-backend/models"
)

var (
	// ErrUnknownField est retournée pour un chemin de champ qui n'existe pas
	ErrUnknownField = errors.New("champ inconnu")
	// ErrIndexOutOfRange est retournée quand l'index dépasse l'effectif courant
	ErrIndexOutOfRange = errors.New("index hors de l'effectif")
	// ErrFileField est retournée quand un champ fichier est modifié comme un champ texte
	ErrFileField = errors.New("les fichiers doivent être envoyés via l'upload")
)

// ApplyFieldUpdate modifie un champ texte du formulaire désigné par son chemin
// (ex: "country", "contestants.1.date_of_birth").
func ApplyFieldUpdate(doc *models.RegistrationDocument, path, value string) error {
	parts := strings.Split(path, ".")

	switch len(parts) {
	case 1:
		return setDocumentField(doc, parts[0], value)
	case 3:
		index, err := strconv.Atoi(parts[1])
		if err != nil {
			return fmt.Errorf("%w: %s", ErrIndexOutOfRange, path)
		}
		switch Collection(parts[0]) {
		case CollectionTeamLeaders:
			if index < 0 || index >= len(doc.TeamLeaders) {
				return fmt.Errorf("%w: %s", ErrIndexOutOfRange, path)
			}
			return setTeamLeaderField(&doc.TeamLeaders[index], parts[2], value)
		case CollectionContestants:
			if index < 0 || index >= len(doc.Contestants) {
				return fmt.Errorf("%w: %s", ErrIndexOutOfRange, path)
			}
			return setContestantField(&doc.Contestants[index], parts[2], value)
		}
	}

	return fmt.Errorf("%w: %s", ErrUnknownField, path)
}

func setDocumentField(doc *models.RegistrationDocument, field, value string) error {
	switch field {
	case "country":
		doc.Country = value
	case "official_delegation_name":
		doc.DelegationName = value
	case "total_accompanying_persons":
		value = strings.TrimSpace(value)
		if value == "" {
			doc.TotalAccompanyingPersons = nil
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("nombre d'accompagnateurs invalide: %s", value)
		}
		doc.TotalAccompanyingPersons = &n
	case "confirm_information":
		doc.ConfirmInformation = parseCheckbox(value)
	case "agree_rules":
		doc.AgreeRules = parseCheckbox(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

func setTeamLeaderField(leader *models.TeamLeader, field, value string) error {
	switch field {
	case "full_name":
		leader.FullName = value
	case "email":
		leader.Email = value
	case "phone_number":
		leader.PhoneNumber = value
	case "role":
		leader.Role = value
	case "passport_scan", "id_photo":
		return fmt.Errorf("%w: %s", ErrFileField, field)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

func setContestantField(contestant *models.Contestant, field, value string) error {
	switch field {
	case "full_name":
		contestant.FullName = value
	case "date_of_birth", "passport_expiry_date":
		date, err := models.ParseDate(value)
		if err != nil {
			return err
		}
		if field == "date_of_birth" {
			contestant.DateOfBirth = date
		} else {
			contestant.PassportExpiryDate = date
		}
	case "gender":
		contestant.Gender = value
	case "competition_subject":
		contestant.CompetitionSubject = value
	case "passport_number":
		contestant.PassportNumber = value
	case "t_shirt_size":
		contestant.TShirtSize = value
	case "special_requirements":
		contestant.SpecialRequirements = value
	case "passport_scan", "id_photo", "parental_consent_form":
		return fmt.Errorf("%w: %s", ErrFileField, field)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// SetAttachment remplace un champ fichier d'une entrée de l'effectif
func SetAttachment(doc *models.RegistrationDocument, collection Collection, index int, field string, file models.Attachment) error {
	target, err := attachmentField(doc, collection, index, field)
	if err != nil {
		return err
	}
	*target = file
	return nil
}

// ClearAttachment remet un champ fichier à l'état placeholder
func ClearAttachment(doc *models.RegistrationDocument, collection Collection, index int, field string) error {
	return SetAttachment(doc, collection, index, field, models.PlaceholderAttachment())
}

func attachmentField(doc *models.RegistrationDocument, collection Collection, index int, field string) (*models.Attachment, error) {
	switch collection {
	case CollectionTeamLeaders:
		if index < 0 || index >= len(doc.TeamLeaders) {
			return nil, ErrIndexOutOfRange
		}
		leader := &doc.TeamLeaders[index]
		switch field {
		case "passport_scan":
			return &leader.PassportScan, nil
		case "id_photo":
			return &leader.IDPhoto, nil
		}
	case CollectionContestants:
		if index < 0 || index >= len(doc.Contestants) {
			return nil, ErrIndexOutOfRange
		}
		contestant := &doc.Contestants[index]
		switch field {
		case "passport_scan":
			return &contestant.PassportScan, nil
		case "id_photo":
			return &contestant.IDPhoto, nil
		case "parental_consent_form":
			return &contestant.ParentalConsentForm, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
}

// Les cases à cocher HTML envoient "on" ; les clients JSON envoient "true"
func parseCheckbox(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "on", "1", "yes":
		return true
	default:
		return false
	}
}

// Types de fichiers acceptés par champ, comme les champs d'upload du formulaire
var acceptedMediaTypes = map[string][]string{
	"passport_scan":         {models.MediaTypePDF, models.MediaTypeJPEG, models.MediaTypePNG},
	"id_photo":              {models.MediaTypeJPEG, models.MediaTypePNG},
	"parental_consent_form": {models.MediaTypePDF, models.MediaTypeJPEG, models.MediaTypePNG},
}

// AcceptsMediaType indique si un type MIME est accepté pour un champ fichier
func AcceptsMediaType(field, mediaType string) bool {
	for _, accepted := range acceptedMediaTypes[field] {
		if accepted == mediaType {
			return true
		}
	}
	return false
}

// AcceptedMediaTypes retourne les types acceptés pour un champ fichier
func AcceptedMediaTypes(field string) []string {
	return acceptedMediaTypes[field]
}
