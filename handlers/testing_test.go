package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"olymp-registration-backend/config"
	"olymp-registration-backend/middleware"
	"olymp-registration-backend/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "test-session-secret"

var (
	pdfBytes  = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")
	jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
)

// fakeOlympAPI simule l'API olympiade : annuaire des pays et réception des inscriptions
type fakeOlympAPI struct {
	mu               sync.Mutex
	countriesStatus  int
	registerStatus   int
	registerBody     string
	registrations    []*multipart.Form
	registrationHits int
}

func (f *fakeOlympAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.URL.Path {
	case "/api/countries/":
		if f.countriesStatus != 0 {
			w.WriteHeader(f.countriesStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"count":2,"next":null,"results":[{"id":1,"name":"Uzbekistan","code":"UZ"},{"id":2,"name":"Kazakhstan","code":"KZ"}]}`)
	case "/api/detailed-registrations/":
		f.registrationHits++
		if err := r.ParseMultipartForm(32 << 20); err == nil {
			f.registrations = append(f.registrations, r.MultipartForm)
		}
		status := f.registerStatus
		if status == 0 {
			status = http.StatusCreated
		}
		body := f.registerBody
		if body == "" {
			body = `{"id":7}`
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeOlympAPI) failCountries(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countriesStatus = status
}

func (f *fakeOlympAPI) rejectRegistrations(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registerStatus = status
	f.registerBody = body
}

func (f *fakeOlympAPI) received() (int, []*multipart.Form) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.registrationHits, append([]*multipart.Form(nil), f.registrations...)
}

type testServer struct {
	api    *fakeOlympAPI
	router *mux.Router
	store  *services.SessionStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	api := &fakeOlympAPI{}
	upstreamSrv := httptest.NewServer(api)
	t.Cleanup(upstreamSrv.Close)

	cfg := &config.Config{
		APIBaseURL:      upstreamSrv.URL + "/api",
		APIAuthToken:    "api-token",
		UpstreamTimeout: 5 * time.Second,
		SessionSecret:   testSessionSecret,
		SessionTTL:      time.Hour,
		TeamLeadersMax:  2,
		MaxUploadSize:   1 << 20,
	}

	upstream := services.NewUpstreamClient(cfg)
	directory := services.NewCountryDirectory(upstream, cfg.CountriesURL(), "en", 0)
	client := services.NewRegistrationClient(upstream, cfg.RegistrationsURL())
	validator, err := services.NewRegistrationValidator(cfg.TeamLeadersMax)
	require.NoError(t, err)
	store := services.NewSessionStore(cfg.SessionTTL)

	proxy := NewProxyHandler(directory, client, 4<<20)
	registration := NewRegistrationHandler(RegistrationHandlerConfig{
		Store:         store,
		Directory:     directory,
		Roster:        services.NewRosterManager(cfg.TeamLeadersMax),
		Validator:     validator,
		Client:        client,
		Slack:         services.NewSlackService(""),
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
		MaxUploadSize: cfg.MaxUploadSize,
	})

	router := mux.NewRouter()
	router.HandleFunc("/api/countries", proxy.Countries).Methods("GET")
	router.HandleFunc("/api/register", proxy.Register).Methods("POST")
	router.HandleFunc("/api/form", registration.CreateForm).Methods("POST")

	form := router.PathPrefix("/api/form").Subrouter()
	form.Use(middleware.Session(cfg.SessionSecret, store))
	form.HandleFunc("", registration.GetForm).Methods("GET")
	form.HandleFunc("", registration.UpdateFields).Methods("PATCH")
	form.HandleFunc("", registration.DeleteForm).Methods("DELETE")
	form.HandleFunc("/validate", registration.ValidateForm).Methods("POST")
	form.HandleFunc("/submit", registration.SubmitForm).Methods("POST")
	form.HandleFunc("/roster/{collection}", registration.ResizeRoster).Methods("PUT")
	form.HandleFunc("/{collection}/{index:[0-9]+}/files/{field}", registration.UploadFile).Methods("PUT")
	form.HandleFunc("/{collection}/{index:[0-9]+}/files/{field}", registration.RemoveFile).Methods("DELETE")

	return &testServer{api: api, router: router, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *testServer) upload(t *testing.T, token, path, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPut, path, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

// newForm ouvre un formulaire et retourne son jeton
func (s *testServer) newForm(t *testing.T) string {
	t.Helper()
	rr := s.do(t, http.MethodPost, "/api/form", "", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp FormStateResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// fillForm remplit tous les champs obligatoires d'un chef d'équipe et d'un candidat
func (s *testServer) fillForm(t *testing.T, token string) {
	t.Helper()
	updates := []map[string]string{
		{"path": "country", "value": "1"},
		{"path": "official_delegation_name", "value": "Uzbekistan National Team"},
		{"path": "total_accompanying_persons", "value": "1"},
		{"path": "confirm_information", "value": "true"},
		{"path": "agree_rules", "value": "on"},
		{"path": "team_leaders.0.full_name", "value": "Aziz Karimov"},
		{"path": "team_leaders.0.email", "value": "aziz@example.uz"},
		{"path": "team_leaders.0.phone_number", "value": "+998 90 123 45 67"},
		{"path": "contestants.0.full_name", "value": "Dilnoza Rahimova"},
		{"path": "contestants.0.date_of_birth", "value": "2008-05-17"},
		{"path": "contestants.0.gender", "value": "Female"},
		{"path": "contestants.0.passport_number", "value": "AA1234567"},
		{"path": "contestants.0.passport_expiry_date", "value": "2030-01-01"},
		{"path": "contestants.0.t_shirt_size", "value": "M"},
	}
	rr := s.do(t, http.MethodPatch, "/api/form", token, updates)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	for _, collection := range []string{"team_leaders", "contestants"} {
		rr = s.upload(t, token, fmt.Sprintf("/api/form/%s/0/files/passport_scan", collection), "passport.pdf", pdfBytes)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		rr = s.upload(t, token, fmt.Sprintf("/api/form/%s/0/files/id_photo", collection), "photo.jpg", jpegBytes)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	return body
}
