package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"scribebackend/appctx"
	"scribebackend/core"
	"scribebackend/middleware"
	"scribebackend/models"
	"scribebackend/usecases/export"
)

type ExportHTTPHandler struct {
	exportUseCase *export.ExportUseCase
}

func NewExportHTTPHandler(exportUseCase *export.ExportUseCase) *ExportHTTPHandler {
	return &ExportHTTPHandler{
		exportUseCase: exportUseCase,
	}
}

type ExportRequest struct {
	SummaryID string `json:"summaryId"`
}

func (h *ExportHTTPHandler) HandleExportSummary(w http.ResponseWriter, r *http.Request) {
	log.Printf("📦 Export summary request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ User not found in context")
		writeErrorResponse(w, "authentication required", http.StatusUnauthorized)
		return
	}

	format := models.ExportType(mux.Vars(r)["format"])
	if !format.IsValid() {
		log.Printf("❌ Unsupported export format: %s", format)
		writeErrorResponse(w, "format must be one of pdf, excel, notion", http.StatusBadRequest)
		return
	}

	var req ExportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("❌ Failed to parse request body: %v", err)
		writeErrorResponse(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if !core.IsValidID(req.SummaryID) {
		log.Printf("❌ Missing or invalid summaryId in request")
		writeErrorResponse(w, "summaryId must be a valid prefixed ULID", http.StatusBadRequest)
		return
	}

	artifact, err := h.exportUseCase.Export(r.Context(), req.SummaryID, user.ID, format)
	if err != nil {
		log.Printf("❌ Failed to export summary: %v", err)
		if core.IsNotFoundError(err) {
			writeErrorResponse(w, "summary not found", http.StatusNotFound)
		} else {
			writeErrorResponse(w, "failed to export summary", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("✅ Export rendered successfully: %s (%d bytes)", artifact.FileName, len(artifact.Data))

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifact.Data); err != nil {
		log.Printf("❌ Failed to write export body: %v", err)
	}
}

func (h *ExportHTTPHandler) SetupEndpoints(router *mux.Router, authMiddleware *middleware.SupabaseAuthMiddleware) {
	router.HandleFunc("/export/{format}", authMiddleware.WithAuth(h.HandleExportSummary)).Methods("POST")
	log.Printf("✅ POST /export/{format} endpoint registered")
}
