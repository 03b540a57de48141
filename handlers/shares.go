package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"scribebackend/appctx"
	"scribebackend/core"
	"scribebackend/middleware"
	"scribebackend/models"
	"scribebackend/models/api"
	"scribebackend/services"
	"scribebackend/usecases/sharing"
)

type SharesHTTPHandler struct {
	sharingUseCase   *sharing.SharingUseCase
	summariesService services.SummariesService
	shareBaseURL     string
}

func NewSharesHTTPHandler(
	sharingUseCase *sharing.SharingUseCase,
	summariesService services.SummariesService,
	shareBaseURL string,
) *SharesHTTPHandler {
	return &SharesHTTPHandler{
		sharingUseCase:   sharingUseCase,
		summariesService: summariesService,
		shareBaseURL:     shareBaseURL,
	}
}

type CreateShareRequest struct {
	SummaryID  string                `json:"summary_id"`
	MaxViews   int                   `json:"max_views,omitempty"`
	ExpiryDays int                   `json:"expiry_days,omitempty"`
	Password   string                `json:"password,omitempty"`
	Branding   *models.ShareBranding `json:"branding,omitempty"`
}

type ViewShareRequest struct {
	Password string `json:"password,omitempty"`
	Country  string `json:"country,omitempty"`
	Referrer string `json:"referrer,omitempty"`
}

// ShareViewResponse is the anonymous viewer payload. Summary content is only
// attached when the view was accepted.
type ShareViewResponse struct {
	CanView bool                         `json:"can_view"`
	Reason  models.ShareViewDenialReason `json:"reason,omitempty"`
	Summary *api.SharedViewModel         `json:"summary,omitempty"`
}

func (h *SharesHTTPHandler) HandleCreateShare(w http.ResponseWriter, r *http.Request) {
	log.Printf("🔗 Create share request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req CreateShareRequest
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

	// Everything past summary_id is optional; defaults come from the user's plan
	share, err := h.sharingUseCase.CreateShare(r.Context(), req.SummaryID, user.ID, sharing.ShareOptions{
		MaxViews:   req.MaxViews,
		ExpiryDays: req.ExpiryDays,
		Password:   req.Password,
		Branding:   req.Branding,
	})
	if err != nil {
		log.Printf("❌ Failed to create share: %v", err)
		switch {
		case core.IsPlanLimitError(err):
			writeErrorResponse(w, err.Error(), http.StatusForbidden)
		case core.IsNotFoundError(err):
			writeErrorResponse(w, "summary not found", http.StatusNotFound)
		case core.IsValidationError(err):
			writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		default:
			writeErrorResponse(w, "failed to create share", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✅ Share created successfully: %s", share.ID)
	writeJSONResponse(w, http.StatusCreated, api.DomainShareToAPIShare(share, h.shareBaseURL))
}

func (h *SharesHTTPHandler) HandleListShares(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List shares request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	shares, err := h.sharingUseCase.ListShares(r.Context(), user.ID)
	if err != nil {
		log.Printf("❌ Failed to list shares: %v", err)
		writeErrorResponse(w, "failed to list shares", http.StatusInternalServerError)
		return
	}

	apiShares := make([]*api.SharedSummaryModel, 0, len(shares))
	for _, share := range shares {
		apiShares = append(apiShares, api.DomainShareToAPIShare(share, h.shareBaseURL))
	}

	writeJSONResponse(w, http.StatusOK, apiShares)
}

func (h *SharesHTTPHandler) HandleDeactivateShare(w http.ResponseWriter, r *http.Request) {
	log.Printf("🗑️ Deactivate share request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	shareID, ok := vars["id"]
	if !ok || !core.IsValidID(shareID) {
		log.Printf("❌ Missing or invalid share ID in URL path")
		writeErrorResponse(w, "share ID must be a valid prefixed ULID", http.StatusBadRequest)
		return
	}

	if err := h.sharingUseCase.DeactivateShare(r.Context(), shareID, user.ID); err != nil {
		log.Printf("❌ Failed to deactivate share: %v", err)
		if core.IsNotFoundError(err) {
			writeErrorResponse(w, "share not found", http.StatusNotFound)
		} else {
			writeErrorResponse(w, "failed to deactivate share", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✅ Share deactivated successfully: %s", shareID)
	w.WriteHeader(http.StatusNoContent)
}

// HandleViewShare serves anonymous viewers; it runs outside the auth
// middleware. A POST mutates view counters so a GET would be wrong here.
func (h *SharesHTTPHandler) HandleViewShare(w http.ResponseWriter, r *http.Request) {
	log.Printf("👁️ View share request received from %s", r.RemoteAddr)

	vars := mux.Vars(r)
	token, ok := vars["token"]
	if !ok || token == "" {
		log.Printf("❌ Missing share token in URL path")
		writeErrorResponse(w, "share token is required", http.StatusBadRequest)
		return
	}

	var req ViewShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Printf("❌ Failed to parse request body: %v", err)
		writeErrorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	decision, err := h.sharingUseCase.RecordView(r.Context(), token, models.ShareViewerMeta{
		Country:  req.Country,
		Referrer: req.Referrer,
		Password: req.Password,
	})
	if err != nil {
		log.Printf("❌ Failed to record share view: %v", err)
		if core.IsNotFoundError(err) {
			writeErrorResponse(w, "share not found", http.StatusNotFound)
		} else {
			writeErrorResponse(w, "failed to view share", http.StatusInternalServerError)
		}
		return
	}

	response := &ShareViewResponse{
		CanView: decision.CanView,
		Reason:  decision.Reason,
	}
	if decision.CanView && decision.Share != nil {
		maybeSummary, err := h.summariesService.GetSummaryByID(
			r.Context(), decision.Share.SummaryID, decision.Share.UserID)
		if err != nil {
			log.Printf("❌ Failed to load shared summary: %v", err)
			writeErrorResponse(w, "failed to view share", http.StatusInternalServerError)
			return
		}
		summary, ok := maybeSummary.Get()
		if !ok {
			writeErrorResponse(w, "share not found", http.StatusNotFound)
			return
		}
		response.Summary = api.DomainSummaryToSharedView(summary, decision.Share.Branding)
	}

	writeJSONResponse(w, http.StatusOK, response)
}

// HandleShareConversion runs outside the auth middleware too
func (h *SharesHTTPHandler) HandleShareConversion(w http.ResponseWriter, r *http.Request) {
	log.Printf("🎯 Share conversion request received from %s", r.RemoteAddr)

	vars := mux.Vars(r)
	token, ok := vars["token"]
	if !ok || token == "" {
		log.Printf("❌ Missing share token in URL path")
		writeErrorResponse(w, "share token is required", http.StatusBadRequest)
		return
	}

	if err := h.sharingUseCase.RecordConversion(r.Context(), token); err != nil {
		log.Printf("❌ Failed to record conversion: %v", err)
		if core.IsNotFoundError(err) {
			writeErrorResponse(w, "share not found", http.StatusNotFound)
		} else {
			writeErrorResponse(w, "failed to record conversion", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SharesHTTPHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.SupabaseAuthMiddleware) {
	router.HandleFunc("/shares", authMiddleware.WithAuth(h.HandleCreateShare)).Methods("POST")
	log.Printf("✅ POST /shares endpoint registered")

	router.HandleFunc("/shares", authMiddleware.WithAuth(h.HandleListShares)).Methods("GET")
	log.Printf("✅ GET /shares endpoint registered")

	router.HandleFunc("/shares/{id}", authMiddleware.WithAuth(h.HandleDeactivateShare)).Methods("DELETE")
	log.Printf("✅ DELETE /shares/{id} endpoint registered")

	// Public endpoints for anonymous viewers
	router.HandleFunc("/shared/{token}/view", h.HandleViewShare).Methods("POST")
	log.Printf("✅ POST /shared/{token}/view endpoint registered")

	router.HandleFunc("/shared/{token}/conversion", h.HandleShareConversion).Methods("POST")
	log.Printf("✅ POST /shared/{token}/conversion endpoint registered")
}
