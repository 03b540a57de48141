package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"scribebackend/appctx"
	"scribebackend/core"
	"scribebackend/middleware"
	"scribebackend/models/api"
	"scribebackend/services"
	"scribebackend/usecases/slackpost"
)

const defaultRetryLimit = 3

type SlackHTTPHandler struct {
	slackIntegrationsService services.SlackIntegrationsService
	summaryPostsService      services.SummaryPostsService
	slackPostUseCase         *slackpost.SlackPostUseCase
}

func NewSlackHTTPHandler(
	slackIntegrationsService services.SlackIntegrationsService,
	summaryPostsService services.SummaryPostsService,
	slackPostUseCase *slackpost.SlackPostUseCase,
) *SlackHTTPHandler {
	return &SlackHTTPHandler{
		slackIntegrationsService: slackIntegrationsService,
		summaryPostsService:      summaryPostsService,
		slackPostUseCase:         slackPostUseCase,
	}
}

type SlackIntegrationRequest struct {
	SlackAuthCode  string  `json:"code"`
	RedirectURL    string  `json:"redirect_url"`
	OrganizationID *string `json:"organization_id,omitempty"`
}

type PostSummaryRequest struct {
	OrganizationID *string `json:"organization_id,omitempty"`
}

type RetryPostsRequest struct {
	MaxRetries int `json:"max_retries,omitempty"`
}

func (h *SlackHTTPHandler) HandleListSlackIntegrations(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List Slack integrations request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	integrations, err := h.slackIntegrationsService.GetSlackIntegrationsByUserID(r.Context(), user.ID)
	if err != nil {
		log.Printf("❌ Failed to get Slack integrations: %v", err)
		writeErrorResponse(w, "failed to get slack integrations", http.StatusInternalServerError)
		return
	}

	apiIntegrations := make([]*api.SlackIntegrationModel, 0, len(integrations))
	for _, integration := range integrations {
		apiIntegrations = append(apiIntegrations, api.DomainSlackIntegrationToAPISlackIntegration(integration))
	}

	writeJSONResponse(w, http.StatusOK, apiIntegrations)
}

func (h *SlackHTTPHandler) HandleCreateSlackIntegration(w http.ResponseWriter, r *http.Request) {
	log.Printf("➕ Create Slack integration request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req SlackIntegrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		writeErrorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if req.SlackAuthCode == "" {
		log.Printf("❌ Missing code in request")
		writeErrorResponse(w, "code is required", http.StatusBadRequest)
		return
	}

	integration, err := h.slackIntegrationsService.CreateSlackIntegration(
		r.Context(), user.ID, req.OrganizationID, req.SlackAuthCode, req.RedirectURL)
	if err != nil {
		log.Printf("❌ Failed to create Slack integration: %v", err)
		writeErrorResponse(w, "failed to create slack integration", http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Slack integration created successfully: %s", integration.ID)
	writeJSONResponse(w, http.StatusCreated, api.DomainSlackIntegrationToAPISlackIntegration(integration))
}

func (h *SlackHTTPHandler) HandleDeactivateSlackIntegration(w http.ResponseWriter, r *http.Request) {
	log.Printf("🗑️ Deactivate Slack integration request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	integrationID, ok := vars["id"]
	if !ok || !core.IsValidID(integrationID) {
		log.Printf("❌ Missing or invalid integration ID in URL path")
		writeErrorResponse(w, "integration ID must be a valid prefixed ULID", http.StatusBadRequest)
		return
	}

	if err := h.slackIntegrationsService.DeactivateSlackIntegration(r.Context(), integrationID, user.ID); err != nil {
		log.Printf("❌ Failed to deactivate Slack integration: %v", err)
		if core.IsNotFoundError(err) || strings.Contains(err.Error(), "not found") {
			writeErrorResponse(w, "integration not found", http.StatusNotFound)
		} else {
			writeErrorResponse(w, "failed to deactivate slack integration", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✅ Slack integration deactivated successfully: %s", integrationID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *SlackHTTPHandler) HandlePostSummary(w http.ResponseWriter, r *http.Request) {
	log.Printf("📤 Post summary to Slack request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	summaryID, ok := vars["id"]
	if !ok || !core.IsValidID(summaryID) {
		log.Printf("❌ Missing or invalid summary ID in URL path")
		writeErrorResponse(w, "summary ID must be a valid prefixed ULID", http.StatusBadRequest)
		return
	}

	// Body is optional; an empty body means no organization scoping
	var req PostSummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Printf("❌ Failed to parse request body: %v", err)
		writeErrorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.slackPostUseCase.PostSummary(r.Context(), summaryID, user.ID, req.OrganizationID)
	if err != nil {
		log.Printf("❌ Failed to post summary to Slack: %v", err)
		if core.IsNotFoundError(err) {
			writeErrorResponse(w, "summary not found", http.StatusNotFound)
		} else {
			writeErrorResponse(w, "failed to post summary to slack", http.StatusInternalServerError)
		}
		return
	}

	writeJSONResponse(w, http.StatusOK, result)
}

func (h *SlackHTTPHandler) HandleListSummaryPosts(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List summary posts request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	summaryID, ok := vars["id"]
	if !ok || !core.IsValidID(summaryID) {
		log.Printf("❌ Missing or invalid summary ID in URL path")
		writeErrorResponse(w, "summary ID must be a valid prefixed ULID", http.StatusBadRequest)
		return
	}

	posts, err := h.summaryPostsService.ListPostsBySummaryID(r.Context(), summaryID, user.ID)
	if err != nil {
		log.Printf("❌ Failed to list summary posts: %v", err)
		writeErrorResponse(w, "failed to list summary posts", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, posts)
}

func (h *SlackHTTPHandler) HandleRetryFailedPosts(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔄 Retry failed posts request received from %s", r.RemoteAddr)

	if _, ok := appctx.GetUser(r.Context()); !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	// Body is optional; max_retries falls back to the default cap
	var req RetryPostsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Printf("❌ Failed to parse request body: %v", err)
		writeErrorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	maxRetries := req.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultRetryLimit
	}

	report, err := h.slackPostUseCase.RetryFailedPosts(r.Context(), maxRetries)
	if err != nil {
		log.Printf("❌ Failed to retry posts: %v", err)
		writeErrorResponse(w, "failed to retry posts", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, report)
}

func (h *SlackHTTPHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.SupabaseAuthMiddleware) {
	router.HandleFunc("/slack/integrations", authMiddleware.WithAuth(h.HandleListSlackIntegrations)).Methods("GET")
	log.Printf("✅ GET /slack/integrations endpoint registered")

	router.HandleFunc("/slack/integrations", authMiddleware.WithAuth(h.HandleCreateSlackIntegration)).Methods("POST")
	log.Printf("✅ POST /slack/integrations endpoint registered")

	router.HandleFunc("/slack/integrations/{id}", authMiddleware.WithAuth(h.HandleDeactivateSlackIntegration)).
		Methods("DELETE")
	log.Printf("✅ DELETE /slack/integrations/{id} endpoint registered")

	router.HandleFunc("/summaries/{id}/post", authMiddleware.WithAuth(h.HandlePostSummary)).Methods("POST")
	log.Printf("✅ POST /summaries/{id}/post endpoint registered")

	router.HandleFunc("/summaries/{id}/posts", authMiddleware.WithAuth(h.HandleListSummaryPosts)).Methods("GET")
	log.Printf("✅ GET /summaries/{id}/posts endpoint registered")

	router.HandleFunc("/slack/retry-posts", authMiddleware.WithAuth(h.HandleRetryFailedPosts)).Methods("POST")
	log.Printf("✅ POST /slack/retry-posts endpoint registered")
}
