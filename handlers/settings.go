package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"scribebackend/appctx"
	"scribebackend/core"
	"scribebackend/middleware"
	"scribebackend/models"
	"scribebackend/services"
)

type SettingsHTTPHandler struct {
	settingsService services.SettingsService
}

func NewSettingsHTTPHandler(settingsService services.SettingsService) *SettingsHTTPHandler {
	return &SettingsHTTPHandler{
		settingsService: settingsService,
	}
}

// Pointer fields distinguish "not sent" from "set to false"
type SlackSettingsRequest struct {
	AutoPostEnabled *bool `json:"auto_post_enabled,omitempty"`
	PreferDM        *bool `json:"prefer_dm,omitempty"`
}

type CRMSettingsRequest struct {
	AutoPushEnabled *bool    `json:"auto_push_enabled,omitempty"`
	DefaultTargets  []string `json:"default_targets,omitempty"`
}

func (h *SettingsHTTPHandler) HandleListSettings(w http.ResponseWriter, r *http.Request) {
	log.Printf("⚙️ List settings request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	settings, err := h.settingsService.ListSettings(r.Context(), user.ID)
	if err != nil {
		log.Printf("❌ Failed to list settings: %v", err)
		writeErrorResponse(w, "failed to list settings", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, settings)
}

func (h *SettingsHTTPHandler) HandleUpdateSlackSettings(w http.ResponseWriter, r *http.Request) {
	log.Printf("⚙️ Update Slack settings request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req SlackSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		writeErrorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.AutoPostEnabled == nil && req.PreferDM == nil {
		log.Printf("❌ Empty Slack settings update")
		writeErrorResponse(w, "at least one setting is required", http.StatusBadRequest)
		return
	}

	updated := make([]*models.Setting, 0, 2)
	if req.AutoPostEnabled != nil {
		setting, err := h.settingsService.UpsertBooleanSetting(
			r.Context(), user.ID, models.SettingSlackAutoPostEnabled, *req.AutoPostEnabled)
		if err != nil {
			h.writeUpsertError(w, models.SettingSlackAutoPostEnabled, err)
			return
		}
		updated = append(updated, setting)
	}
	if req.PreferDM != nil {
		setting, err := h.settingsService.UpsertBooleanSetting(
			r.Context(), user.ID, models.SettingSlackPreferDM, *req.PreferDM)
		if err != nil {
			h.writeUpsertError(w, models.SettingSlackPreferDM, err)
			return
		}
		updated = append(updated, setting)
	}

	log.Printf("✅ Slack settings updated for user: %s", user.ID)
	writeJSONResponse(w, http.StatusOK, updated)
}

func (h *SettingsHTTPHandler) HandleUpdateCRMSettings(w http.ResponseWriter, r *http.Request) {
	log.Printf("⚙️ Update CRM settings request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req CRMSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		writeErrorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.AutoPushEnabled == nil && req.DefaultTargets == nil {
		log.Printf("❌ Empty CRM settings update")
		writeErrorResponse(w, "at least one setting is required", http.StatusBadRequest)
		return
	}

	for _, target := range req.DefaultTargets {
		if !models.SupportedCRMTypes[models.CRMType(target)] {
			log.Printf("❌ Unsupported CRM target: %s", target)
			writeErrorResponse(w, "default_targets must contain only supported CRM types", http.StatusBadRequest)
			return
		}
	}

	updated := make([]*models.Setting, 0, 2)
	if req.AutoPushEnabled != nil {
		setting, err := h.settingsService.UpsertBooleanSetting(
			r.Context(), user.ID, models.SettingCRMAutoPushEnabled, *req.AutoPushEnabled)
		if err != nil {
			h.writeUpsertError(w, models.SettingCRMAutoPushEnabled, err)
			return
		}
		updated = append(updated, setting)
	}
	if req.DefaultTargets != nil {
		setting, err := h.settingsService.UpsertStringArrSetting(
			r.Context(), user.ID, models.SettingCRMDefaultTargets, req.DefaultTargets)
		if err != nil {
			h.writeUpsertError(w, models.SettingCRMDefaultTargets, err)
			return
		}
		updated = append(updated, setting)
	}

	log.Printf("✅ CRM settings updated for user: %s", user.ID)
	writeJSONResponse(w, http.StatusOK, updated)
}

func (h *SettingsHTTPHandler) writeUpsertError(w http.ResponseWriter, key string, err error) {
	log.Printf("❌ Failed to upsert setting %s: %v", key, err)
	if core.IsValidationError(err) {
		writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeErrorResponse(w, "failed to update settings", http.StatusInternalServerError)
}

func (h *SettingsHTTPHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.SupabaseAuthMiddleware) {
	router.HandleFunc("/settings", authMiddleware.WithAuth(h.HandleListSettings)).Methods("GET")
	log.Printf("✅ GET /settings endpoint registered")

	router.HandleFunc("/settings/slack", authMiddleware.WithAuth(h.HandleUpdateSlackSettings)).Methods("PUT")
	log.Printf("✅ PUT /settings/slack endpoint registered")

	router.HandleFunc("/settings/crm", authMiddleware.WithAuth(h.HandleUpdateCRMSettings)).Methods("PUT")
	log.Printf("✅ PUT /settings/crm endpoint registered")

	// The CRM dashboard edits settings through its own resource path
	router.HandleFunc("/crm/push", authMiddleware.WithAuth(h.HandleUpdateCRMSettings)).Methods("PUT")
	log.Printf("✅ PUT /crm/push endpoint registered")
}
