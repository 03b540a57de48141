package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"scribebackend/appctx"
	"scribebackend/core"
	"scribebackend/middleware"
	"scribebackend/models"
	"scribebackend/services"
	"scribebackend/usecases/summarize"
)

const defaultListLimit = 20

type SummariesHTTPHandler struct {
	summarizeUseCase *summarize.SummarizeUseCase
	summariesService services.SummariesService
}

func NewSummariesHTTPHandler(
	summarizeUseCase *summarize.SummarizeUseCase,
	summariesService services.SummariesService,
) *SummariesHTTPHandler {
	return &SummariesHTTPHandler{
		summarizeUseCase: summarizeUseCase,
		summariesService: summariesService,
	}
}

func (h *SummariesHTTPHandler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	log.Printf("📝 Summarize request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req models.SummarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		writeErrorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result, err := h.summarizeUseCase.SummarizeAndDeliver(r.Context(), user, &req)
	if err != nil {
		log.Printf("❌ Failed to summarize: %v", err)
		if core.IsValidationError(err) {
			writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		} else {
			writeErrorResponse(w, "failed to generate summary", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✅ Summary created successfully: %s", result.Summary.ID)
	writeJSONResponse(w, http.StatusCreated, result)
}

func (h *SummariesHTTPHandler) HandleListSummaries(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 List summaries request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	limit := parseLimitParam(r, defaultListLimit)
	summaries, err := h.summariesService.ListRecentSummaries(r.Context(), user.ID, limit)
	if err != nil {
		log.Printf("❌ Failed to list summaries: %v", err)
		writeErrorResponse(w, "failed to list summaries", http.StatusInternalServerError)
		return
	}

	writeJSONResponse(w, http.StatusOK, summaries)
}

func (h *SummariesHTTPHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	log.Printf("📋 Get summary request received from %s", r.RemoteAddr)

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

	maybeSummary, err := h.summariesService.GetSummaryByID(r.Context(), summaryID, user.ID)
	if err != nil {
		log.Printf("❌ Failed to get summary: %v", err)
		writeErrorResponse(w, "failed to get summary", http.StatusInternalServerError)
		return
	}
	summary, ok := maybeSummary.Get()
	if !ok {
		writeErrorResponse(w, "summary not found", http.StatusNotFound)
		return
	}

	writeJSONResponse(w, http.StatusOK, summary)
}

func (h *SummariesHTTPHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.SupabaseAuthMiddleware) {
	router.HandleFunc("/summarize", authMiddleware.WithAuth(h.HandleSummarize)).Methods("POST")
	log.Printf("✅ POST /summarize endpoint registered")

	router.HandleFunc("/summaries", authMiddleware.WithAuth(h.HandleListSummaries)).Methods("GET")
	log.Printf("✅ GET /summaries endpoint registered")

	router.HandleFunc("/summaries/{id}", authMiddleware.WithAuth(h.HandleGetSummary)).Methods("GET")
	log.Printf("✅ GET /summaries/{id} endpoint registered")
}

func parseLimitParam(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	return limit
}
