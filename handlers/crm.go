package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"scribebackend/appctx"
	"scribebackend/core"
	"scribebackend/middleware"
	"scribebackend/models"
	"scribebackend/services"
	"scribebackend/usecases/crmpush"
)

const defaultCRMPushListLimit = 10

type CRMHTTPHandler struct {
	crmPushUseCase   *crmpush.CRMPushUseCase
	crmPushesService services.CRMPushesService
	settingsService  services.SettingsService
	configuredCRMs   []models.CRMType
}

func NewCRMHTTPHandler(
	crmPushUseCase *crmpush.CRMPushUseCase,
	crmPushesService services.CRMPushesService,
	settingsService services.SettingsService,
	configuredCRMs []models.CRMType,
) *CRMHTTPHandler {
	return &CRMHTTPHandler{
		crmPushUseCase:   crmPushUseCase,
		crmPushesService: crmPushesService,
		settingsService:  settingsService,
		configuredCRMs:   configuredCRMs,
	}
}

type CRMPushRequest struct {
	SummaryID      string           `json:"summary_id"`
	CRMTypes       []models.CRMType `json:"crm_types"`
	OrganizationID *string          `json:"organization_id,omitempty"`
}

type CRMPushResponse struct {
	Success   bool                   `json:"success"`
	Message   string                 `json:"message"`
	Results   []models.CRMPushResult `json:"results"`
	SummaryID string                 `json:"summary_id"`
}

type CRMSettingsBlock struct {
	AutoPushEnabled bool     `json:"auto_push_enabled"`
	DefaultTargets  []string `json:"default_targets"`
}

type CRMOverview struct {
	Connections  []models.CRMType          `json:"connections"`
	Settings     CRMSettingsBlock          `json:"settings"`
	Statistics   *models.CRMPushStatistics `json:"statistics"`
	RecentPushes []*models.CRMPush         `json:"recent_pushes"`
}

type CRMOverviewResponse struct {
	Success bool         `json:"success"`
	Data    *CRMOverview `json:"data"`
}

func (h *CRMHTTPHandler) HandlePushToCRM(w http.ResponseWriter, r *http.Request) {
	log.Printf("📤 CRM push request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req CRMPushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		writeErrorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !core.IsValidID(req.SummaryID) {
		log.Printf("❌ Missing or invalid summary_id in request")
		writeErrorResponse(w, "summary_id is required", http.StatusBadRequest)
		return
	}
	if len(req.CRMTypes) == 0 {
		log.Printf("❌ Missing crm_types in request")
		writeErrorResponse(w, "crm_types is required", http.StatusBadRequest)
		return
	}

	report, err := h.crmPushUseCase.PushToMany(r.Context(), req.SummaryID, user.ID, req.CRMTypes)
	if err != nil {
		log.Printf("❌ Failed to push summary to CRMs: %v", err)
		if core.IsNotFoundError(err) {
			writeErrorResponse(w, "summary not found", http.StatusNotFound)
		} else {
			writeErrorResponse(w, "failed to push summary to crm", http.StatusInternalServerError)
		}
		return
	}

	writeJSONResponse(w, http.StatusOK, &CRMPushResponse{
		Success:   report.SuccessCount == report.TotalCount,
		Message:   fmt.Sprintf("%d of %d pushes succeeded", report.SuccessCount, report.TotalCount),
		Results:   report.Results,
		SummaryID: req.SummaryID,
	})
}

func (h *CRMHTTPHandler) HandleGetCRMOverview(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 CRM overview request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	autoPush, err := h.settingsService.GetBoolSetting(r.Context(), user.ID, models.SettingCRMAutoPushEnabled, false)
	if err != nil {
		log.Printf("❌ Failed to read CRM settings: %v", err)
		writeErrorResponse(w, "failed to load crm overview", http.StatusInternalServerError)
		return
	}
	targets, err := h.settingsService.GetStringArrSetting(r.Context(), user.ID, models.SettingCRMDefaultTargets)
	if err != nil {
		log.Printf("❌ Failed to read CRM targets: %v", err)
		writeErrorResponse(w, "failed to load crm overview", http.StatusInternalServerError)
		return
	}
	if targets == nil {
		targets = []string{}
	}

	stats, err := h.crmPushesService.GetCRMPushStatistics(r.Context(), user.ID)
	if err != nil {
		log.Printf("❌ Failed to get CRM statistics: %v", err)
		writeErrorResponse(w, "failed to load crm overview", http.StatusInternalServerError)
		return
	}

	var recent []*models.CRMPush
	if summaryID := r.URL.Query().Get("summary_id"); summaryID != "" {
		if !core.IsValidID(summaryID) {
			writeErrorResponse(w, "summary_id must be a valid prefixed ULID", http.StatusBadRequest)
			return
		}
		recent, err = h.crmPushesService.ListCRMPushesBySummaryID(r.Context(), summaryID, user.ID)
	} else {
		recent, err = h.crmPushesService.ListRecentCRMPushes(r.Context(), user.ID, parseLimitParam(r, defaultCRMPushListLimit))
	}
	if err != nil {
		log.Printf("❌ Failed to list CRM pushes: %v", err)
		writeErrorResponse(w, "failed to load crm overview", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, &CRMOverviewResponse{
		Success: true,
		Data: &CRMOverview{
			Connections: h.configuredCRMs,
			Settings: CRMSettingsBlock{
				AutoPushEnabled: autoPush,
				DefaultTargets:  targets,
			},
			Statistics:   stats,
			RecentPushes: recent,
		},
	})
}

func (h *CRMHTTPHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.SupabaseAuthMiddleware) {
	router.HandleFunc("/crm/push", authMiddleware.WithAuth(h.HandlePushToCRM)).Methods("POST")
	log.Printf("✅ POST /crm/push endpoint registered")

	router.HandleFunc("/crm/push", authMiddleware.WithAuth(h.HandleGetCRMOverview)).Methods("GET")
	log.Printf("✅ GET /crm/push endpoint registered")
}
