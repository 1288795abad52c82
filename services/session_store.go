package services

import (
	"log"
	"sync"
	"time"

	"olymp-registration-backend/models"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// FormSession est le formulaire en cours de saisie d'un utilisateur.
// Toute lecture ou modification du document passe par Lock/Unlock.
type FormSession struct {
	ID        string
	CreatedAt time.Time

	mu         sync.Mutex
	document   *models.RegistrationDocument
	countries  []models.Country
	submitting bool
}

// Lock verrouille la session et retourne son document
func (s *FormSession) Lock() *models.RegistrationDocument {
	s.mu.Lock()
	return s.document
}

// Unlock libère la session
func (s *FormSession) Unlock() {
	s.mu.Unlock()
}

// Countries retourne l'annuaire chargé à l'ouverture du formulaire
func (s *FormSession) Countries() []models.Country {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countries
}

// SetCountries remplace l'annuaire de la session (rechargement après une erreur)
func (s *FormSession) SetCountries(countries []models.Country) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.countries = countries
}

// BeginSubmit marque un envoi en cours. Retourne false si un envoi est déjà en cours.
func (s *FormSession) BeginSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting {
		return false
	}
	s.submitting = true
	return true
}

// EndSubmit libère l'envoi en cours. Après un succès, le formulaire repart de zéro.
func (s *FormSession) EndSubmit(success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if success {
		s.document = models.NewRegistrationDocument()
	}
}

// Submitting indique si un envoi est en cours
func (s *FormSession) Submitting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitting
}

// SessionStore garde les formulaires en mémoire avec expiration glissante.
// La persistance appartient à l'API olympiade : rien n'est écrit sur disque.
type SessionStore struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewSessionStore crée le stockage des sessions de formulaire
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	cache := gocache.New(ttl, ttl/2)
	cache.OnEvicted(func(id string, _ interface{}) {
		log.Printf("🗑️  Session de formulaire expirée: %s", id)
	})
	return &SessionStore{cache: cache, ttl: ttl}
}

// Create ouvre une nouvelle session avec le formulaire par défaut
func (st *SessionStore) Create(countries []models.Country) *FormSession {
	session := &FormSession{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		document:  models.NewRegistrationDocument(),
		countries: countries,
	}
	st.cache.Set(session.ID, session, st.ttl)
	return session
}

// Get retourne une session et prolonge sa durée de vie
func (st *SessionStore) Get(id string) (*FormSession, bool) {
	value, found := st.cache.Get(id)
	if !found {
		return nil, false
	}
	session, ok := value.(*FormSession)
	if !ok {
		return nil, false
	}
	st.cache.Set(id, session, st.ttl)
	return session, true
}

// Delete abandonne une session
func (st *SessionStore) Delete(id string) {
	st.cache.Delete(id)
}

// Count retourne le nombre de sessions actives
func (st *SessionStore) Count() int {
	return st.cache.ItemCount()
}
