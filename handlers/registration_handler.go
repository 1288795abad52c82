package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"olymp-registration-backend/constants"
	"olymp-registration-backend/models"
	"olymp-registration-backend/services"
	"olymp-registration-backend/utils"

	"github.com/gorilla/mux"
)

// RegistrationHandler gère le cycle de vie d'un formulaire d'inscription côté serveur
type RegistrationHandler struct {
	store         *services.SessionStore
	directory     *services.CountryDirectory
	roster        *services.RosterManager
	validator     *services.RegistrationValidator
	client        *services.RegistrationClient
	slack         *services.SlackService
	sessionSecret string
	sessionTTL    time.Duration
	maxUploadSize int64
}

// RegistrationHandlerConfig regroupe les dépendances du handler
type RegistrationHandlerConfig struct {
	Store         *services.SessionStore
	Directory     *services.CountryDirectory
	Roster        *services.RosterManager
	Validator     *services.RegistrationValidator
	Client        *services.RegistrationClient
	Slack         *services.SlackService
	SessionSecret string
	SessionTTL    time.Duration
	MaxUploadSize int64
}

// NewRegistrationHandler crée une nouvelle instance
func NewRegistrationHandler(cfg RegistrationHandlerConfig) *RegistrationHandler {
	return &RegistrationHandler{
		store:         cfg.Store,
		directory:     cfg.Directory,
		roster:        cfg.Roster,
		validator:     cfg.Validator,
		client:        cfg.Client,
		slack:         cfg.Slack,
		sessionSecret: cfg.SessionSecret,
		sessionTTL:    cfg.SessionTTL,
		maxUploadSize: cfg.MaxUploadSize,
	}
}

// FormStateResponse est l'état du formulaire renvoyé au navigateur
type FormStateResponse struct {
	Token          string              `json:"token,omitempty"`
	ExpiresIn      int                 `json:"expires_in,omitempty"`
	Form           models.DocumentView `json:"form"`
	Countries      []models.Country    `json:"countries"`
	CountriesError string              `json:"countries_error,omitempty"`
	Options        models.FormOptions  `json:"options"`
	Submitting     bool                `json:"submitting"`
}

// FieldUpdatesResponse est la réponse à une série de modifications de champs
type FieldUpdatesResponse struct {
	Message  string              `json:"message,omitempty"`
	Form     models.DocumentView `json:"form"`
	Errors   map[string]string   `json:"errors"`
	Rejected map[string]string   `json:"rejected,omitempty"`
}

// RosterResponse est la réponse à un changement d'effectif
type RosterResponse struct {
	Collection services.Collection `json:"collection"`
	Count      int                 `json:"count"`
	Form       models.DocumentView `json:"form"`
}

// UploadResponse décrit le fichier enregistré dans le formulaire
type UploadResponse struct {
	Path       string            `json:"path"`
	Attachment models.Attachment `json:"attachment"`
}

type rosterRequest struct {
	Count json.RawMessage `json:"count"`
}

// CreateForm ouvre un nouveau formulaire et charge l'annuaire des pays une fois
func (h *RegistrationHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	countries, countriesErr := h.loadCountries(r)
	session := h.store.Create(countries)

	token, err := utils.GenerateSessionToken(session.ID, h.sessionSecret, h.sessionTTL)
	if err != nil {
		log.Printf("❌ Erreur génération du jeton de session: %v", err)
		h.store.Delete(session.ID)
		utils.RespondError(w, http.StatusInternalServerError, constants.ErrServerError)
		return
	}

	log.Printf("📝 Nouveau formulaire d'inscription: %s (%d pays)", session.ID, len(countries))

	doc := session.Lock()
	defer session.Unlock()

	utils.RespondJSON(w, http.StatusCreated, FormStateResponse{
		Token:          token,
		ExpiresIn:      int(h.sessionTTL.Seconds()),
		Form:           doc.View(),
		Countries:      countries,
		CountriesError: countriesErr,
		Options:        models.NewFormOptions(h.roster.MaxTeamLeaders()),
	})
}

// GetForm retourne l'état courant du formulaire.
// Si l'annuaire n'avait pas pu être chargé, il est retenté ici.
func (h *RegistrationHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	session, ok := RequireSession(w, r)
	if !ok {
		return
	}

	countries := session.Countries()
	countriesErr := ""
	if len(countries) == 0 {
		countries, countriesErr = h.loadCountries(r)
		if len(countries) > 0 {
			session.SetCountries(countries)
		}
	}
	submitting := session.Submitting()

	doc := session.Lock()
	defer session.Unlock()

	utils.RespondJSON(w, http.StatusOK, FormStateResponse{
		Form:           doc.View(),
		Countries:      countries,
		CountriesError: countriesErr,
		Options:        models.NewFormOptions(h.roster.MaxTeamLeaders()),
		Submitting:     submitting,
	})
}

// UpdateFields applique des modifications de champs et renvoie les erreurs des champs touchés.
// Chaque modification est indépendante : un chemin invalide n'empêche pas les autres.
func (h *RegistrationHandler) UpdateFields(w http.ResponseWriter, r *http.Request) {
	session, ok := RequireSession(w, r)
	if !ok {
		return
	}

	var updates []models.FieldUpdate
	if !DecodeJSON(w, r, &updates) {
		return
	}

	countries := session.Countries()
	doc := session.Lock()
	defer session.Unlock()

	rejected := map[string]string{}
	paths := make([]string, 0, len(updates))
	for _, update := range updates {
		if err := services.ApplyFieldUpdate(doc, update.Path, update.Value); err != nil {
			rejected[update.Path] = err.Error()
			continue
		}
		paths = append(paths, update.Path)
	}

	result := h.validator.ValidateFields(r.Context(), doc, countries, paths)

	status, message := http.StatusOK, ""
	if len(rejected) > 0 {
		status, message = http.StatusBadRequest, constants.ErrFieldUpdates
	}
	utils.RespondJSON(w, status, FieldUpdatesResponse{
		Message:  message,
		Form:     doc.View(),
		Errors:   result.Errors,
		Rejected: rejected,
	})
}

// ResizeRoster change le nombre de chefs d'équipe ou de candidats
func (h *RegistrationHandler) ResizeRoster(w http.ResponseWriter, r *http.Request) {
	session, ok := RequireSession(w, r)
	if !ok {
		return
	}
	collection, ok := ParseCollectionVar(w, r)
	if !ok {
		return
	}

	var req rosterRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	// Le sélecteur envoie une chaîne ("3"), les clients JSON un nombre
	raw := strings.Trim(string(req.Count), `"`)

	doc := session.Lock()
	defer session.Unlock()

	count, err := h.roster.ResizeFromInput(doc, collection, raw)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrUnknownCollection)
		return
	}

	utils.RespondJSON(w, http.StatusOK, RosterResponse{
		Collection: collection,
		Count:      count,
		Form:       doc.View(),
	})
}

// UploadFile enregistre un fichier envoyé pour une entrée de l'effectif
func (h *RegistrationHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	session, ok := RequireSession(w, r)
	if !ok {
		return
	}
	collection, ok := ParseCollectionVar(w, r)
	if !ok {
		return
	}
	index, ok := ParseIndexVar(w, r)
	if !ok {
		return
	}
	field := mux.Vars(r)["field"]
	if len(services.AcceptedMediaTypes(field)) == 0 {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrUnknownFileField)
		return
	}

	// Marge pour les en-têtes multipart
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize+(1<<20))
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		log.Printf("Erreur parsing form: %v", err)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.RespondError(w, http.StatusRequestEntityTooLarge, constants.ErrFileTooLarge)
			return
		}
		utils.RespondError(w, http.StatusBadRequest, constants.ErrMultipartParse)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrFileMissing)
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		utils.RespondError(w, http.StatusRequestEntityTooLarge, constants.ErrFileTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrMultipartParse)
		return
	}

	attachment, err := models.NewUploadedAttachment(header.Filename, header.Header.Get(constants.HeaderContentType), data)
	if errors.Is(err, models.ErrEmptyAttachment) {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrFileEmpty)
		return
	}
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, constants.ErrInvalidData)
		return
	}

	if !services.AcceptsMediaType(field, attachment.MediaType) {
		utils.RespondError(w, http.StatusUnsupportedMediaType, constants.ErrUnsupportedFileType)
		return
	}

	doc := session.Lock()
	defer session.Unlock()

	if err := services.SetAttachment(doc, collection, index, field, attachment); err != nil {
		respondAttachmentError(w, err)
		return
	}

	log.Printf("📤 Fichier reçu %s[%d][%s] (%s, %d octets)", collection, index, field, attachment.MediaType, attachment.Size())

	utils.RespondJSON(w, http.StatusOK, UploadResponse{
		Path:       filePath(collection, index, field),
		Attachment: attachment,
	})
}

// RemoveFile remet un champ fichier à l'état placeholder
func (h *RegistrationHandler) RemoveFile(w http.ResponseWriter, r *http.Request) {
	session, ok := RequireSession(w, r)
	if !ok {
		return
	}
	collection, ok := ParseCollectionVar(w, r)
	if !ok {
		return
	}
	index, ok := ParseIndexVar(w, r)
	if !ok {
		return
	}
	field := mux.Vars(r)["field"]

	doc := session.Lock()
	defer session.Unlock()

	if err := services.ClearAttachment(doc, collection, index, field); err != nil {
		respondAttachmentError(w, err)
		return
	}

	utils.RespondSuccess(w, constants.MsgFileRemoved, UploadResponse{
		Path:       filePath(collection, index, field),
		Attachment: models.PlaceholderAttachment(),
	})
}

// ValidateForm valide le formulaire complet sans l'envoyer
func (h *RegistrationHandler) ValidateForm(w http.ResponseWriter, r *http.Request) {
	session, ok := RequireSession(w, r)
	if !ok {
		return
	}

	countries := session.Countries()
	doc := session.Lock()
	result := h.validator.Validate(r.Context(), doc, countries)
	session.Unlock()

	if !result.Valid() {
		utils.RespondValidationError(w, constants.ErrValidationFailed, result.Errors)
		return
	}
	utils.RespondSuccess(w, constants.MsgFormValid, nil)
}

// SubmitForm valide le formulaire complet puis l'envoie à l'API olympiade.
// Un second envoi pendant qu'un premier est en cours est refusé.
func (h *RegistrationHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	session, ok := RequireSession(w, r)
	if !ok {
		return
	}

	if !session.BeginSubmit() {
		utils.RespondError(w, http.StatusConflict, constants.ErrSubmissionInProgress)
		return
	}
	succeeded := false
	defer func() {
		session.EndSubmit(succeeded)
	}()

	countries := session.Countries()
	doc := session.Lock()
	result := h.validator.Validate(r.Context(), doc, countries)
	if !result.Valid() {
		session.Unlock()
		utils.RespondValidationError(w, constants.ErrValidationFailed, result.Errors)
		return
	}
	payload := services.SerializeRegistration(doc)
	country, delegation := doc.Country, doc.DelegationName
	teamLeaders, contestants := len(doc.TeamLeaders), len(doc.Contestants)
	session.Unlock()

	log.Printf("📨 Envoi de l'inscription %q (%d parties, %d fichiers)", delegation, len(payload.Parts), len(payload.FileKeys()))

	submission := h.client.Submit(r.Context(), payload)
	if !submission.Success {
		utils.RespondUpstreamError(w, submission.Status, submission.Message)
		return
	}

	succeeded = true
	log.Printf("✅ Inscription acceptée: %s (%s)", delegation, country)
	if h.slack.Enabled() {
		go h.slack.SendRegistrationSubmitted(country, delegation, teamLeaders, contestants)
	}

	utils.RespondSuccess(w, constants.MsgRegistrationSubmitted, submission.Body)
}

// DeleteForm abandonne le formulaire
func (h *RegistrationHandler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	session, ok := RequireSession(w, r)
	if !ok {
		return
	}

	h.store.Delete(session.ID)
	utils.RespondSuccess(w, constants.MsgFormDiscarded, nil)
}

// loadCountries charge l'annuaire ; un échec laisse le formulaire utilisable avec une liste vide
func (h *RegistrationHandler) loadCountries(r *http.Request) ([]models.Country, string) {
	countries, err := h.directory.FetchCountries(r.Context())
	if err != nil {
		log.Printf("⚠️  Annuaire des pays indisponible: %v", err)
		return []models.Country{}, constants.ErrCountriesFetch
	}
	return countries, ""
}

func respondAttachmentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrIndexOutOfRange):
		utils.RespondError(w, http.StatusNotFound, constants.ErrInvalidIndex)
	default:
		utils.RespondError(w, http.StatusBadRequest, constants.ErrUnknownFileField)
	}
}

func filePath(collection services.Collection, index int, field string) string {
	return string(collection) + "." + strconv.Itoa(index) + "." + field
}
