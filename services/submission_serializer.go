package services

import (
	"fmt"
	"strconv"

	"olymp-registration-backend/models"
)

// SerializeRegistration aplatit le formulaire en parties multipart aux clés indexées
// (ex: contestants[1][full_name]). L'ordre des parties ne dépend que de la forme du document.
// Le document doit avoir passé la validation complète.
func SerializeRegistration(doc *models.RegistrationDocument) *models.Payload {
	payload := &models.Payload{}

	payload.AddField("country", doc.Country)
	payload.AddField("official_delegation_name", doc.DelegationName)
	accompanying := 0
	if doc.TotalAccompanyingPersons != nil {
		accompanying = *doc.TotalAccompanyingPersons
	}
	payload.AddField("total_accompanying_persons", strconv.Itoa(accompanying))
	payload.AddField("confirm_information", strconv.FormatBool(doc.ConfirmInformation))
	payload.AddField("agree_rules", strconv.FormatBool(doc.AgreeRules))

	for i, leader := range doc.TeamLeaders {
		key := indexedKey("team_leaders", i)
		payload.AddField(key("full_name"), leader.FullName)
		payload.AddField(key("email"), leader.Email)
		payload.AddField(key("phone_number"), leader.PhoneNumber)
		if leader.Role != "" {
			payload.AddField(key("role"), leader.Role)
		}
		addUpload(payload, key("passport_scan"), leader.PassportScan)
		addUpload(payload, key("id_photo"), leader.IDPhoto)
	}

	for i, contestant := range doc.Contestants {
		key := indexedKey("contestants", i)
		payload.AddField(key("full_name"), contestant.FullName)
		addDate(payload, key("date_of_birth"), contestant.DateOfBirth)
		payload.AddField(key("gender"), contestant.Gender)
		if contestant.CompetitionSubject != "" {
			payload.AddField(key("competition_subject"), contestant.CompetitionSubject)
		}
		payload.AddField(key("passport_number"), contestant.PassportNumber)
		addDate(payload, key("passport_expiry_date"), contestant.PassportExpiryDate)
		payload.AddField(key("t_shirt_size"), contestant.TShirtSize)
		if contestant.SpecialRequirements != "" {
			payload.AddField(key("special_requirements"), contestant.SpecialRequirements)
		}
		addUpload(payload, key("passport_scan"), contestant.PassportScan)
		addUpload(payload, key("id_photo"), contestant.IDPhoto)
		addUpload(payload, key("parental_consent_form"), contestant.ParentalConsentForm)
	}

	return payload
}

func indexedKey(collection string, index int) func(field string) string {
	return func(field string) string {
		return fmt.Sprintf("%s[%d][%s]", collection, index, field)
	}
}

// Les placeholders et fichiers vides ne sont jamais envoyés
func addUpload(payload *models.Payload, key string, file models.Attachment) {
	if file.IsUploaded() {
		payload.AddFile(key, file)
	}
}

func addDate(payload *models.Payload, key string, date models.Date) {
	if !date.IsZero() {
		payload.AddField(key, date.String())
	}
}
