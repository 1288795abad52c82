package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"olymp-registration-backend/models"
	"olymp-registration-backend/utils"

	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	frtranslations "github.com/go-playground/validator/v10/translations/fr"
)

type countriesContextKey struct{}

// Libellés affichés dans les messages d'erreur, par nom de champ
var fieldLabels = map[string]string{
	"country":                    "Pays",
	"official_delegation_name":   "Nom officiel de la délégation",
	"total_accompanying_persons": "Nombre total d'accompagnateurs",
	"team_leaders":               "Nombre de chefs d'équipe",
	"contestants":                "Nombre de candidats",
	"confirm_information":        "Confirmation des informations",
	"agree_rules":                "Acceptation du règlement",
	"full_name":                  "Nom complet",
	"email":                      "Email",
	"phone_number":               "Numéro de téléphone",
	"role":                       "Rôle",
	"date_of_birth":              "Date de naissance",
	"gender":                     "Sexe",
	"competition_subject":        "Matière",
	"passport_number":            "Numéro de passeport",
	"passport_expiry_date":       "Date d'expiration du passeport",
	"t_shirt_size":               "Taille de t-shirt",
	"passport_scan":              "Scan du passeport",
	"id_photo":                   "Photo d'identité",
	"parental_consent_form":      "Autorisation parentale",
}

// Champs fichier : leurs règles portent sur le type MIME du fichier envoyé
var fileFields = map[string]bool{
	"passport_scan":         true,
	"id_photo":              true,
	"parental_consent_form": true,
}

var mediaTypeLabels = map[string]string{
	models.MediaTypePDF:  "PDF",
	models.MediaTypeJPEG: "JPG",
	models.MediaTypePNG:  "PNG",
}

var validationMessages = map[string]string{
	"required":         "{0} : champ obligatoire",
	"required_file":    "{0} : fichier obligatoire",
	"notblank":         "{0} : champ obligatoire",
	"email":            "{0} : adresse email invalide",
	"phone":            "{0} : numéro de téléphone invalide",
	"oneof":            "{0} : valeur non autorisée (valeurs possibles : {1})",
	"oneof_file":       "{0} : format de fichier non accepté (formats acceptés : {1})",
	"accepted":         "{0} : doit être coché",
	"known_country":    "{0} : pays inconnu",
	"min":              "{0} : minimum {1}",
	"max":              "{0} : maximum {1}",
	"max_team_leaders": "{0} : maximum {1}",
}

// RegistrationValidator applique les règles déclaratives du formulaire d'inscription.
// La validation est pure : aucun effet de bord, aucun accès réseau.
type RegistrationValidator struct {
	validate       *validator.Validate
	trans          ut.Translator
	maxTeamLeaders int
}

// NewRegistrationValidator prépare le validateur et ses messages en français
func NewRegistrationValidator(maxTeamLeaders int) (*RegistrationValidator, error) {
	frLocale := fr.New()
	uni := ut.New(frLocale, frLocale)
	trans, _ := uni.GetTranslator("fr")

	rv := &RegistrationValidator{
		validate:       validator.New(),
		trans:          trans,
		maxTeamLeaders: maxTeamLeaders,
	}

	// Les chemins d'erreur utilisent les noms JSON (ex: contestants.2.passport_number)
	rv.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Un fichier n'a de valeur que s'il a été réellement envoyé : son type MIME.
	// Absent et placeholder valent "" et échouent donc à "required".
	rv.validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if a, ok := field.Interface().(models.Attachment); ok && a.IsUploaded() {
			return a.MediaType
		}
		return ""
	}, models.Attachment{})

	rv.validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(models.Date); ok {
			return d.String()
		}
		return ""
	}, models.Date{})

	if err := rv.validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return utils.ValidateRequired(fl.FieldName(), fl.Field().String()) == nil
	}); err != nil {
		return nil, err
	}
	if err := rv.validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return utils.ValidatePhone(fl.Field().String()) == nil
	}); err != nil {
		return nil, err
	}
	if err := rv.validate.RegisterValidation("accepted", func(fl validator.FieldLevel) bool {
		return fl.Field().Kind() == reflect.Bool && fl.Field().Bool()
	}); err != nil {
		return nil, err
	}
	if err := rv.validate.RegisterValidationCtx("known_country", isKnownCountry); err != nil {
		return nil, err
	}

	rv.validate.RegisterStructValidation(rv.validateRosterBounds, models.RegistrationDocument{})

	if err := rv.registerTranslations(); err != nil {
		return nil, fmt.Errorf("erreur lors de l'enregistrement des messages de validation: %w", err)
	}

	return rv, nil
}

// Validate contrôle le formulaire complet.
// countries est l'annuaire chargé pour la session ; vide, l'appartenance du pays n'est pas vérifiée.
func (rv *RegistrationValidator) Validate(ctx context.Context, doc *models.RegistrationDocument, countries []models.Country) models.ValidationResult {
	result := models.ValidationResult{Errors: map[string]string{}}
	if doc == nil {
		result.Errors["document"] = "Formulaire manquant"
		return result
	}

	ctx = context.WithValue(ctx, countriesContextKey{}, countries)
	err := rv.validate.StructCtx(ctx, doc)
	if err == nil {
		return result
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		result.Errors["document"] = err.Error()
		return result
	}

	for _, fe := range fieldErrors {
		path := fieldPath(fe.Namespace())
		// Une seule erreur par champ : la première règle violée
		if _, exists := result.Errors[path]; !exists {
			result.Errors[path] = fe.Translate(rv.trans)
		}
	}

	return result
}

// ValidateFields ne retourne que les erreurs des champs demandés (ou de leurs sous-champs).
// Utilisé pour le retour immédiat pendant la saisie.
func (rv *RegistrationValidator) ValidateFields(ctx context.Context, doc *models.RegistrationDocument, countries []models.Country, paths []string) models.ValidationResult {
	full := rv.Validate(ctx, doc, countries)
	filtered := models.ValidationResult{Errors: map[string]string{}}

	for path, msg := range full.Errors {
		for _, wanted := range paths {
			if path == wanted || strings.HasPrefix(path, wanted+".") {
				filtered.Errors[path] = msg
				break
			}
		}
	}

	return filtered
}

// validateRosterBounds applique le maximum de chefs d'équipe de la variante déployée
func (rv *RegistrationValidator) validateRosterBounds(sl validator.StructLevel) {
	doc, ok := sl.Current().Interface().(models.RegistrationDocument)
	if !ok {
		return
	}
	if rv.maxTeamLeaders > 0 && len(doc.TeamLeaders) > rv.maxTeamLeaders {
		sl.ReportError(doc.TeamLeaders, "team_leaders", "TeamLeaders", "max_team_leaders", strconv.Itoa(rv.maxTeamLeaders))
	}
}

func isKnownCountry(ctx context.Context, fl validator.FieldLevel) bool {
	countries, _ := ctx.Value(countriesContextKey{}).([]models.Country)
	if len(countries) == 0 {
		return true
	}
	value := fl.Field().String()
	for _, c := range countries {
		if c.Matches(value) {
			return true
		}
	}
	return false
}

func (rv *RegistrationValidator) registerTranslations() error {
	if err := frtranslations.RegisterDefaultTranslations(rv.validate, rv.trans); err != nil {
		return err
	}

	for key, text := range validationMessages {
		if err := rv.trans.Add(key, text, true); err != nil {
			return err
		}
	}

	for _, tag := range []string{"required", "notblank", "email", "phone", "oneof", "accepted", "known_country", "min", "max", "max_team_leaders"} {
		err := rv.validate.RegisterTranslation(tag, rv.trans, func(ut.Translator) error { return nil }, translateFieldError)
		if err != nil {
			return err
		}
	}

	return nil
}

func translateFieldError(trans ut.Translator, fe validator.FieldError) string {
	key := fe.Tag()
	param := fe.Param()

	if fileFields[fe.Field()] && (key == "required" || key == "oneof") {
		key += "_file"
	}
	if key == "oneof" {
		param = strings.Join(strings.Fields(param), ", ")
	}
	if key == "oneof_file" {
		param = humanMediaTypes(param)
	}

	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}

	msg, err := trans.T(key, label, param)
	if err != nil {
		return fe.Error()
	}
	return msg
}

func humanMediaTypes(param string) string {
	var labels []string
	for _, mediaType := range strings.Fields(param) {
		if label, ok := mediaTypeLabels[mediaType]; ok {
			labels = append(labels, label)
		} else {
			labels = append(labels, mediaType)
		}
	}
	return strings.Join(labels, "/")
}

// fieldPath convertit "RegistrationDocument.contestants[2].passport_number" en "contestants.2.passport_number"
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}
	namespace = strings.ReplaceAll(namespace, "[", ".")
	return strings.ReplaceAll(namespace, "]", "")
}
