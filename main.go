package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"olymp-registration-backend/config"
	"olymp-registration-backend/handlers"
	"olymp-registration-backend/middleware"
	"olymp-registration-backend/services"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Charger la configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Erreur lors du chargement de la configuration: %v", err)
	}

	slackService := services.NewSlackService(cfg.SlackWebhookURL)

	// Clients de l'API olympiade
	upstream := services.NewUpstreamClient(cfg)
	directory := services.NewCountryDirectory(upstream, cfg.CountriesURL(), cfg.CountriesLocale, cfg.CountriesCacheTTL)
	registrationClient := services.NewRegistrationClient(upstream, cfg.RegistrationsURL())

	validator, err := services.NewRegistrationValidator(cfg.TeamLeadersMax)
	if err != nil {
		log.Fatalf("❌ Erreur d'initialisation du validateur: %v", err)
	}

	store := services.NewSessionStore(cfg.SessionTTL)
	roster := services.NewRosterManager(cfg.TeamLeadersMax)

	// Créer les handlers
	healthHandler := handlers.NewHealthHandler(cfg.Environment, cfg.APIBaseURL, cfg.AuthScheme(), store)
	proxyHandler := handlers.NewProxyHandler(directory, registrationClient, cfg.MaxUploadSize*8)
	registrationHandler := handlers.NewRegistrationHandler(handlers.RegistrationHandlerConfig{
		Store:         store,
		Directory:     directory,
		Roster:        roster,
		Validator:     validator,
		Client:        registrationClient,
		Slack:         slackService,
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
		MaxUploadSize: cfg.MaxUploadSize,
	})

	router := mux.NewRouter()

	// Middlewares globaux
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging(slackService))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/api/health", healthHandler.Health).Methods("GET", "OPTIONS")

	// Relais vers l'API olympiade
	router.HandleFunc("/api/countries", proxyHandler.Countries).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/register", proxyHandler.Register).Methods("POST", "OPTIONS")

	// Création d'un formulaire (publique)
	router.HandleFunc("/api/form", registrationHandler.CreateForm).Methods("POST", "OPTIONS")

	// Routes du formulaire (jeton de session requis)
	form := router.PathPrefix("/api/form").Subrouter()
	form.Use(middleware.Session(cfg.SessionSecret, store))
	form.HandleFunc("", registrationHandler.GetForm).Methods("GET", "OPTIONS")
	form.HandleFunc("", registrationHandler.UpdateFields).Methods("PATCH", "OPTIONS")
	form.HandleFunc("", registrationHandler.DeleteForm).Methods("DELETE", "OPTIONS")
	form.HandleFunc("/validate", registrationHandler.ValidateForm).Methods("POST", "OPTIONS")
	form.HandleFunc("/submit", registrationHandler.SubmitForm).Methods("POST", "OPTIONS")
	form.HandleFunc("/roster/{collection}", registrationHandler.ResizeRoster).Methods("PUT", "OPTIONS")
	form.HandleFunc("/{collection}/{index:[0-9]+}/files/{field}", registrationHandler.UploadFile).Methods("PUT", "OPTIONS")
	form.HandleFunc("/{collection}/{index:[0-9]+}/files/{field}", registrationHandler.RemoveFile).Methods("DELETE", "OPTIONS")

	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Serveur démarré sur http://%s", addr)
		log.Printf("📝 Environnement: %s", cfg.Environment)
		log.Printf("🌐 API olympiade: %s (auth: %s)", cfg.APIBaseURL, cfg.AuthScheme())
		log.Println("📋 Routes disponibles:")
		log.Println("   GET    /api/health                          - Health check")
		log.Println("   GET    /metrics                             - Métriques Prometheus")
		log.Println("   GET    /api/countries                       - Liste des pays")
		log.Println("   POST   /api/register                        - Relais d'inscription (multipart)")
		log.Println("")
		log.Println("   📝 Formulaire d'inscription:")
		log.Println("   POST   /api/form                            - Nouveau formulaire")
		log.Println("   GET    /api/form                            - État du formulaire")
		log.Println("   PATCH  /api/form                            - Modifier des champs")
		log.Println("   PUT    /api/form/roster/{collection}        - Changer un effectif")
		log.Println("   PUT    /api/form/{collection}/{i}/files/{f} - Envoyer un fichier")
		log.Println("   DELETE /api/form/{collection}/{i}/files/{f} - Retirer un fichier")
		log.Println("   POST   /api/form/validate                   - Valider")
		log.Println("   POST   /api/form/submit                     - Envoyer l'inscription")
		log.Println("   DELETE /api/form                            - Abandonner")
		log.Println("\n✨ Le serveur est prêt à recevoir des requêtes!")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Erreur du serveur: %v", err)
		}
	}()

	// Attendre le signal d'arrêt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n🛑 Arrêt du serveur...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Erreur lors de l'arrêt du serveur: %v", err)
	}
	log.Println("✓ Serveur arrêté proprement")
}
