package services

import (
	"testing"

	"olymp-registration-backend/models"

	"github.com/stretchr/testify/require"
)

var (
	pdfBytes  = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
	jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
)

func testCountries() []models.Country {
	return []models.Country{
		{ID: 1, Name: "Uzbekistan", Code: "UZ"},
		{ID: 2, Name: "Kazakhstan", Code: "KZ"},
	}
}

func uploaded(t *testing.T, filename, mediaType string, data []byte) models.Attachment {
	t.Helper()
	a, err := models.NewUploadedAttachment(filename, mediaType, data)
	require.NoError(t, err)
	return a
}

func completeTeamLeader(t *testing.T) models.TeamLeader {
	return models.TeamLeader{
		FullName:     "Aziz Karimov",
		Email:        "aziz@example.uz",
		PhoneNumber:  "+998 90 123 45 67",
		PassportScan: uploaded(t, "passport.pdf", models.MediaTypePDF, pdfBytes),
		IDPhoto:      uploaded(t, "photo.jpg", models.MediaTypeJPEG, jpegBytes),
	}
}

func completeContestant(t *testing.T, name string) models.Contestant {
	return models.Contestant{
		FullName:            name,
		DateOfBirth:         models.NewDate(2008, 5, 17),
		Gender:              models.GenderFemale,
		PassportNumber:      "AA1234567",
		PassportExpiryDate:  models.NewDate(2030, 1, 1),
		TShirtSize:          "M",
		PassportScan:        uploaded(t, "passport.pdf", models.MediaTypePDF, pdfBytes),
		IDPhoto:             uploaded(t, "photo.jpg", models.MediaTypeJPEG, jpegBytes),
		ParentalConsentForm: models.PlaceholderAttachment(),
	}
}

// completeDocument retourne un formulaire valide : pays "uz", un chef d'équipe, deux candidats
func completeDocument(t *testing.T) *models.RegistrationDocument {
	t.Helper()
	accompanying := 2
	return &models.RegistrationDocument{
		Country:                  "uz",
		DelegationName:           "Uzbekistan National Team",
		TotalAccompanyingPersons: &accompanying,
		TeamLeaders:              []models.TeamLeader{completeTeamLeader(t)},
		Contestants: []models.Contestant{
			completeContestant(t, "Dilnoza Rahimova"),
			completeContestant(t, "Timur Aliev"),
		},
		ConfirmInformation: true,
		AgreeRules:         true,
	}
}
