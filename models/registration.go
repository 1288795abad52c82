package models

// Valeurs autorisées pour les listes déroulantes du formulaire
const (
	GenderMale   = "Male"
	GenderFemale = "Female"

	SubjectMathematics = "Mathematics"
	SubjectInformatics = "Informatics"
)

// TShirtSizes liste les tailles de t-shirt proposées
var TShirtSizes = []string{"XS", "S", "M", "L", "XL", "XXL"}

// Bornes des effectifs d'une délégation
const (
	MinRosterSize          = 1
	MaxContestants         = 6
	MaxTeamLeaders         = 2
	MaxAccompanyingPersons = 5
)

// TeamLeader représente le chef d'équipe d'une délégation
type TeamLeader struct {
	FullName     string     `json:"full_name" validate:"notblank"`
	Email        string     `json:"email" validate:"notblank,email"`
	PhoneNumber  string     `json:"phone_number" validate:"notblank,phone"`
	Role         string     `json:"role,omitempty" validate:"omitempty,oneof=Mathematics Informatics"`
	PassportScan Attachment `json:"passport_scan" validate:"required,oneof=application/pdf image/jpeg image/png"`
	IDPhoto      Attachment `json:"id_photo" validate:"required,oneof=image/jpeg image/png"`
}

// Contestant représente un candidat de la délégation
type Contestant struct {
	FullName            string     `json:"full_name" validate:"notblank"`
	DateOfBirth         Date       `json:"date_of_birth" validate:"required"`
	Gender              string     `json:"gender" validate:"required,oneof=Male Female"`
	CompetitionSubject  string     `json:"competition_subject,omitempty" validate:"omitempty,oneof=Mathematics Informatics"`
	PassportNumber      string     `json:"passport_number" validate:"notblank"`
	PassportExpiryDate  Date       `json:"passport_expiry_date" validate:"required"`
	TShirtSize          string     `json:"t_shirt_size" validate:"required,oneof=XS S M L XL XXL"`
	SpecialRequirements string     `json:"special_requirements,omitempty"`
	PassportScan        Attachment `json:"passport_scan" validate:"required,oneof=application/pdf image/jpeg image/png"`
	IDPhoto             Attachment `json:"id_photo" validate:"required,oneof=image/jpeg image/png"`
	// Requis pour les mineurs, mais l'âge n'est pas contrôlé ici
	ParentalConsentForm Attachment `json:"parental_consent_form" validate:"omitempty,oneof=application/pdf image/jpeg image/png"`
}

// RegistrationDocument est le formulaire complet d'inscription d'une délégation
type RegistrationDocument struct {
	Country                  string       `json:"country" validate:"notblank,known_country"`
	DelegationName           string       `json:"official_delegation_name" validate:"notblank"`
	TotalAccompanyingPersons *int         `json:"total_accompanying_persons" validate:"required,min=0,max=5"`
	TeamLeaders              []TeamLeader `json:"team_leaders" validate:"min=1,max=2,dive"`
	Contestants              []Contestant `json:"contestants" validate:"min=1,max=6,dive"`
	ConfirmInformation       bool         `json:"confirm_information" validate:"accepted"`
	AgreeRules               bool         `json:"agree_rules" validate:"accepted"`
}

// NewTeamLeader retourne un chef d'équipe vierge, fichiers en placeholder
func NewTeamLeader() TeamLeader {
	return TeamLeader{
		PassportScan: PlaceholderAttachment(),
		IDPhoto:      PlaceholderAttachment(),
	}
}

// NewContestant retourne un candidat vierge, fichiers en placeholder
func NewContestant() Contestant {
	return Contestant{
		PassportScan:        PlaceholderAttachment(),
		IDPhoto:             PlaceholderAttachment(),
		ParentalConsentForm: PlaceholderAttachment(),
	}
}

// NewRegistrationDocument crée le formulaire par défaut : un chef d'équipe et un candidat
func NewRegistrationDocument() *RegistrationDocument {
	return &RegistrationDocument{
		TeamLeaders: []TeamLeader{NewTeamLeader()},
		Contestants: []Contestant{NewContestant()},
	}
}

// DocumentView est la représentation JSON du formulaire renvoyée au client
type DocumentView struct {
	*RegistrationDocument
	TeamLeadersCount int `json:"team_leaders_count"`
	ContestantsCount int `json:"contestants_count"`
}

// View ajoute les compteurs dérivés des effectifs
func (d *RegistrationDocument) View() DocumentView {
	return DocumentView{
		RegistrationDocument: d,
		TeamLeadersCount:     len(d.TeamLeaders),
		ContestantsCount:     len(d.Contestants),
	}
}
