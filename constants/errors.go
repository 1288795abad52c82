package constants

// Messages d'erreur HTTP courants
const (
	ErrMethodNotAllowed     = "Méthode non autorisée"
	ErrServerError          = "Erreur serveur"
	ErrInvalidData          = "Données invalides"
	ErrInvalidJSONBody      = "Body JSON invalide"
	ErrSessionMissing       = "Session de formulaire manquante"
	ErrSessionInvalid       = "Session de formulaire invalide ou expirée"
	ErrSessionNotFound      = "Session de formulaire introuvable"
	ErrUnknownCollection    = "Collection inconnue (team_leaders ou contestants)"
	ErrInvalidIndex         = "Index invalide"
	ErrUnknownFileField     = "Champ fichier inconnu"
	ErrFileMissing          = "Aucun fichier fourni"
	ErrFileEmpty            = "Le fichier est vide"
	ErrFileTooLarge         = "Le fichier est trop volumineux"
	ErrMultipartParse       = "Erreur lors du parsing du formulaire"
	ErrValidationFailed     = "Le formulaire contient des erreurs"
	ErrSubmissionInProgress = "Une inscription est déjà en cours d'envoi"
	ErrCountriesFetch       = "Impossible de charger la liste des pays. Veuillez recharger la page."
	ErrSubmissionFailed     = "Échec de l'envoi de l'inscription"
	ErrBodyTooLarge         = "Le corps de la requête est trop volumineux"
	ErrUnsupportedFileType  = "Format de fichier non accepté pour ce champ"
	ErrFieldUpdates         = "Certaines modifications ont été refusées"
)

// Messages de succès
const (
	MsgRegistrationSubmitted = "Inscription envoyée avec succès"
	MsgFormValid             = "Le formulaire est valide"
	MsgFormDiscarded         = "Formulaire abandonné"
	MsgFileRemoved           = "Fichier retiré"
)

// En-têtes HTTP
const (
	HeaderContentType     = "Content-Type"
	HeaderApplicationJSON = "application/json"
	HeaderAuthorization   = "Authorization"
	HeaderAPIKey          = "X-API-Key"
	HeaderRequestID       = "X-Request-ID"
)
