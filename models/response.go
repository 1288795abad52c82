package models

// ErrorResponse représente une réponse d'erreur
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SuccessResponse représente une réponse de succès générique
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ValidationErrorResponse liste les champs invalides du formulaire
type ValidationErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// FieldUpdate est une modification d'un champ du formulaire (ex: contestants.0.full_name)
type FieldUpdate struct {
	Path  string `json:"path"`
	Value string `json:"value"`
}

// FormOptions liste les valeurs proposées par les listes déroulantes
type FormOptions struct {
	Genders         []string `json:"genders"`
	Subjects        []string `json:"subjects"`
	TShirtSizes     []string `json:"t_shirt_sizes"`
	MaxContestants  int      `json:"max_contestants"`
	MaxTeamLeaders  int      `json:"max_team_leaders"`
	MaxAccompanying int      `json:"max_accompanying_persons"`
}

// NewFormOptions retourne les options du formulaire pour un nombre max de chefs d'équipe
func NewFormOptions(maxTeamLeaders int) FormOptions {
	return FormOptions{
		Genders:         []string{GenderMale, GenderFemale},
		Subjects:        []string{SubjectMathematics, SubjectInformatics},
		TShirtSizes:     TShirtSizes,
		MaxContestants:  MaxContestants,
		MaxTeamLeaders:  maxTeamLeaders,
		MaxAccompanying: MaxAccompanyingPersons,
	}
}
