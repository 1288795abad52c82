package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"
)

const slackFooter = "Olympiade - Inscriptions"

// SlackService gère l'envoi de notifications Slack
type SlackService struct {
	webhookURL string
	client     *http.Client
}

// SlackMessage représente un message Slack
type SlackMessage struct {
	Text        string            `json:"text,omitempty"`
	Attachments []SlackAttachment `json:"attachments,omitempty"`
}

// SlackAttachment représente un bloc coloré d'un message Slack
type SlackAttachment struct {
	Color     string       `json:"color,omitempty"`
	Title     string       `json:"title,omitempty"`
	Text      string       `json:"text,omitempty"`
	Fields    []SlackField `json:"fields,omitempty"`
	Timestamp int64        `json:"ts,omitempty"`
	Footer    string       `json:"footer,omitempty"`
}

// SlackField représente un champ dans un bloc Slack
type SlackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// NewSlackService crée une nouvelle instance de SlackService.
// Sans webhook, les notifications sont ignorées.
func NewSlackService(webhookURL string) *SlackService {
	if webhookURL == "" {
		log.Println("⚠️  Slack webhook URL non configuré - notifications Slack désactivées")
	}

	return &SlackService{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Enabled indique si un webhook est configuré
func (s *SlackService) Enabled() bool {
	return s != nil && s.webhookURL != ""
}

// SendErrorNotification envoie une notification d'erreur sur Slack
func (s *SlackService) SendErrorNotification(errorType, method, path, statusCode, message, origin, userAgent string) error {
	if !s.Enabled() {
		return nil
	}

	color := "danger"
	if statusCode == "403" {
		color = "warning"
	}

	attachment := SlackAttachment{
		Color:     color,
		Title:     fmt.Sprintf("🚨 Erreur serveur: %s", errorType),
		Text:      message,
		Timestamp: time.Now().Unix(),
		Footer:    slackFooter,
		Fields: []SlackField{
			{Title: "Méthode", Value: method, Short: true},
			{Title: "Status Code", Value: statusCode, Short: true},
			{Title: "Chemin", Value: path, Short: false},
		},
	}

	if origin != "" {
		attachment.Fields = append(attachment.Fields, SlackField{Title: "Origin", Value: origin, Short: true})
	}
	if userAgent != "" {
		attachment.Fields = append(attachment.Fields, SlackField{Title: "User-Agent", Value: userAgent, Short: false})
	}

	if err := s.post(SlackMessage{Attachments: []SlackAttachment{attachment}}); err != nil {
		return err
	}

	log.Printf("✓ Notification Slack envoyée pour l'erreur: %s %s", method, path)
	return nil
}

// SendCriticalError envoie une notification pour une erreur critique
func (s *SlackService) SendCriticalError(method, path, statusCode, errorMessage, origin, userAgent string) {
	if err := s.SendErrorNotification("Erreur Critique", method, path, statusCode, errorMessage, origin, userAgent); err != nil {
		log.Printf("❌ Erreur lors de l'envoi de la notification Slack: %v", err)
	}
}

// SendCORSError envoie une notification pour une erreur CORS
func (s *SlackService) SendCORSError(method, path, origin, userAgent string) {
	if err := s.SendErrorNotification("Erreur CORS", method, path, "403",
		fmt.Sprintf("Origine non autorisée: %s", origin), origin, userAgent); err != nil {
		log.Printf("❌ Erreur lors de l'envoi de la notification Slack: %v", err)
	}
}

// SendRegistrationSubmitted annonce une inscription acceptée par l'API
func (s *SlackService) SendRegistrationSubmitted(country, delegation string, teamLeaders, contestants int) {
	if !s.Enabled() {
		return
	}

	msg := SlackMessage{
		Attachments: []SlackAttachment{
			{
				Color:     "good",
				Title:     "✅ Nouvelle inscription",
				Text:      delegation,
				Timestamp: time.Now().Unix(),
				Footer:    slackFooter,
				Fields: []SlackField{
					{Title: "Pays", Value: country, Short: true},
					{Title: "Chefs d'équipe", Value: strconv.Itoa(teamLeaders), Short: true},
					{Title: "Candidats", Value: strconv.Itoa(contestants), Short: true},
				},
			},
		},
	}

	if err := s.post(msg); err != nil {
		log.Printf("❌ Erreur lors de l'envoi de la notification Slack: %v", err)
	}
}

func (s *SlackService) post(msg SlackMessage) error {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("erreur lors de la sérialisation du message Slack: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("erreur lors de la création de la requête: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("erreur lors de l'envoi à Slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Slack a retourné un code d'erreur: %d", resp.StatusCode)
	}
	return nil
}
