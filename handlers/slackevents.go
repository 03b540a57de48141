package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"scribebackend/models"
	"scribebackend/services"
	"scribebackend/usecases/summarize"
)

type SlackEventsHandler struct {
	signingSecret            string
	summarizeUseCase         *summarize.SummarizeUseCase
	slackIntegrationsService services.SlackIntegrationsService
	usersService             services.UsersService
}

func NewSlackEventsHandler(
	signingSecret string,
	summarizeUseCase *summarize.SummarizeUseCase,
	slackIntegrationsService services.SlackIntegrationsService,
	usersService services.UsersService,
) *SlackEventsHandler {
	return &SlackEventsHandler{
		signingSecret:            signingSecret,
		summarizeUseCase:         summarizeUseCase,
		slackIntegrationsService: slackIntegrationsService,
		usersService:             usersService,
	}
}

// verifySlackSignature verifies the authenticity of a Slack webhook request
func (h *SlackEventsHandler) verifySlackSignature(r *http.Request, body []byte) error {
	// Extract headers
	timestamp := r.Header.Get("X-Slack-Request-Timestamp")
	signature := r.Header.Get("X-Slack-Signature")

	if timestamp == "" || signature == "" {
		return fmt.Errorf("missing required headers")
	}

	// Verify timestamp freshness (within 5 minutes)
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp format: %v", err)
	}

	if time.Now().Unix()-ts > 300 { // 5 minutes
		return fmt.Errorf("request timestamp too old")
	}

	// Create signature base string: v0:timestamp:body
	baseString := fmt.Sprintf("v0:%s:%s", timestamp, string(body))

	// Compute HMAC-SHA256
	mac := hmac.New(sha256.New, []byte(h.signingSecret))
	mac.Write([]byte(baseString))
	expectedSignature := "v0=" + hex.EncodeToString(mac.Sum(nil))

	// Secure comparison
	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		return fmt.Errorf("signature verification failed")
	}

	return nil
}

func (h *SlackEventsHandler) HandleSlackEvent(w http.ResponseWriter, r *http.Request) {
	log.Printf("📨 Slack event received from %s", r.RemoteAddr)

	// Read raw body for signature verification
	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("❌ Failed to read request body: %v", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	// Verify Slack signature
	if err := h.verifySlackSignature(r, bodyBytes); err != nil {
		log.Printf("❌ Slack signature verification failed: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	log.Printf("✅ Slack signature verified successfully")

	// Parse JSON from body bytes
	var body map[string]any
	if err := json.Unmarshal(bodyBytes, &body); err != nil {
		log.Printf("❌ Failed to parse JSON body: %v", err)
		http.Error(w, "failed to parse body", http.StatusBadRequest)
		return
	}

	if body["type"] == "url_verification" {
		log.Printf("🔐 Slack URL verification challenge received")
		challenge, ok := body["challenge"].(string)
		if !ok {
			log.Printf("❌ Challenge not found in verification request")
			http.Error(w, "challenge not found", http.StatusBadRequest)
			return
		}
		log.Printf("✅ Responding to Slack URL verification challenge")
		w.Header().Set("Content-Type", "text/plain")
		if _, err := w.Write([]byte(challenge)); err != nil {
			log.Printf("❌ Failed to write challenge response: %v", err)
		}
		return
	}

	if body["type"] != "event_callback" {
		log.Printf("📋 Non-event callback received: %s", body["type"])
		w.WriteHeader(http.StatusOK)
		return
	}

	log.Printf("📞 Event callback received from Slack")

	// Extract team_id from the event
	teamID, ok := body["team_id"].(string)
	if !ok || teamID == "" {
		log.Printf("❌ Team ID not found in Slack event")
		http.Error(w, "team_id not found", http.StatusBadRequest)
		return
	}

	event, ok := body["event"].(map[string]any)
	if !ok {
		log.Printf("❌ Event payload not found in callback")
		http.Error(w, "event not found", http.StatusBadRequest)
		return
	}

	// Lookup slack integration by team_id
	maybeSlackInt, err := h.slackIntegrationsService.GetSlackIntegrationByTeamID(r.Context(), teamID)
	if err != nil {
		log.Printf("❌ Failed to find slack integration for team %s: %v", teamID, err)
		http.Error(w, "integration lookup failed", http.StatusInternalServerError)
		return
	}
	if !maybeSlackInt.IsPresent() {
		log.Printf("❌ Slack integration not found for team %s", teamID)
		http.Error(w, "integration not found", http.StatusNotFound)
		return
	}
	slackIntegration := maybeSlackInt.MustGet()

	log.Printf("🔑 Found slack integration for team %s (ID: %s)", teamID, slackIntegration.ID)

	eventType, _ := event["type"].(string)
	if eventType == "app_mention" {
		if err := h.handleAppMention(r.Context(), event, slackIntegration); err != nil {
			log.Printf("❌ Failed to handle app mention: %v", err)
		}
	} else {
		log.Printf("📋 Ignoring unsupported event type: %s", eventType)
	}

	w.WriteHeader(http.StatusOK)
}

// handleAppMention turns a mention's text into a summary for the workspace
// owner. Slack retries undelivered events, so failures are logged rather than
// surfaced as non-2xx responses.
func (h *SlackEventsHandler) handleAppMention(
	ctx context.Context,
	event map[string]any,
	integration *models.SlackIntegration,
) error {
	if botID, ok := event["bot_id"].(string); ok && botID != "" {
		log.Printf("📋 Ignoring bot-originated mention")
		return nil
	}

	text, _ := event["text"].(string)
	transcript := stripMentionTokens(text)
	if strings.TrimSpace(transcript) == "" {
		log.Printf("📋 Mention carried no content to summarize")
		return nil
	}

	channelID, _ := event["channel"].(string)

	maybeUser, err := h.usersService.GetUserByID(ctx, integration.UserID)
	if err != nil {
		return fmt.Errorf("failed to get integration owner: %w", err)
	}
	user, ok := maybeUser.Get()
	if !ok {
		return fmt.Errorf("integration owner %s no longer exists", integration.UserID)
	}

	req := &models.SummarizeRequest{
		Transcript:     transcript,
		SourceType:     models.SummarySourceSlack,
		OrganizationID: integration.OrganizationID,
	}
	if channelID != "" {
		req.SlackChannel = &channelID
	}

	result, err := h.summarizeUseCase.SummarizeAndDeliver(ctx, user, req)
	if err != nil {
		return fmt.Errorf("failed to summarize mention: %w", err)
	}

	log.Printf("✅ Summary created from Slack mention: %s", result.Summary.ID)
	return nil
}

// stripMentionTokens removes <@U…> tokens so the bot mention itself does not
// land in the transcript
func stripMentionTokens(text string) string {
	var b strings.Builder
	for i := 0; i < len(text); {
		if text[i] == '<' {
			if end := strings.IndexByte(text[i:], '>'); end >= 0 && strings.HasPrefix(text[i:], "<@") {
				i += end + 1
				continue
			}
		}
		b.WriteByte(text[i])
		i++
	}
	return strings.TrimSpace(b.String())
}

func (h *SlackEventsHandler) SetupEndpoints(router *mux.Router) {
	router.HandleFunc("/slack/events", h.HandleSlackEvent).Methods("POST")
	log.Printf("✅ POST /slack/events endpoint registered")
}
